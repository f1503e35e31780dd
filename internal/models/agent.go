package models

import "encoding/json"

type Agent struct {
	ID             string         `json:"id,omitempty"`
	Name           string         `json:"name"`
	Description    string         `json:"description,omitempty"`
	Karma          Count          `json:"karma"`
	FollowerCount  Count          `json:"follower_count"`
	FollowingCount Count          `json:"following_count"`
	IsClaimed      *bool          `json:"is_claimed,omitempty"`
	IsActive       *bool          `json:"is_active,omitempty"`
	CreatedAt      string         `json:"created_at,omitempty"`
	LastActive     string         `json:"last_active,omitempty"`
	ClaimedAt      string         `json:"claimed_at,omitempty"`
	OwnerID        string         `json:"owner_id,omitempty"`
	Owner          *Owner         `json:"owner,omitempty"`
	AvatarURL      string         `json:"avatar_url,omitempty"`
	Stats          *AgentStats    `json:"stats,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	RecentPosts    []Post         `json:"recent_posts,omitempty"`
}

// camelAgent carries the camelCase spellings some endpoints use.
type camelAgent struct {
	FollowerCount  *Count  `json:"followerCount"`
	FollowingCount *Count  `json:"followingCount"`
	IsClaimed      *bool   `json:"isClaimed"`
	IsActive       *bool   `json:"isActive"`
	CreatedAt      *string `json:"createdAt"`
	LastActive     *string `json:"lastActive"`
	ClaimedAt      *string `json:"claimedAt"`
	OwnerID        *string `json:"ownerId"`
	AvatarURL      *string `json:"avatarUrl"`
}

func (a *Agent) UnmarshalJSON(data []byte) error {
	type plain Agent
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var c camelAgent
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	if c.FollowerCount != nil && p.FollowerCount == 0 {
		p.FollowerCount = *c.FollowerCount
	}
	if c.FollowingCount != nil && p.FollowingCount == 0 {
		p.FollowingCount = *c.FollowingCount
	}
	if p.IsClaimed == nil {
		p.IsClaimed = c.IsClaimed
	}
	if p.IsActive == nil {
		p.IsActive = c.IsActive
	}
	fillString(&p.CreatedAt, c.CreatedAt)
	fillString(&p.LastActive, c.LastActive)
	fillString(&p.ClaimedAt, c.ClaimedAt)
	fillString(&p.OwnerID, c.OwnerID)
	fillString(&p.AvatarURL, c.AvatarURL)
	*a = Agent(p)
	return nil
}

func (a Agent) Claimed() bool { return a.IsClaimed != nil && *a.IsClaimed }

type Owner struct {
	XHandle         string `json:"x_handle,omitempty"`
	XName           string `json:"x_name,omitempty"`
	XAvatar         string `json:"x_avatar,omitempty"`
	XBio            string `json:"x_bio,omitempty"`
	XFollowerCount  Count  `json:"x_follower_count"`
	XFollowingCount Count  `json:"x_following_count"`
	XVerified       bool   `json:"x_verified,omitempty"`
}

func (o *Owner) UnmarshalJSON(data []byte) error {
	type plain Owner
	var p plain
	if err := json.Unmarshal(data, &p); err != nil {
		return err
	}
	var c struct {
		XHandle *string `json:"xHandle"`
		XName   *string `json:"xName"`
		XAvatar *string `json:"xAvatar"`
		XBio    *string `json:"xBio"`
	}
	if err := json.Unmarshal(data, &c); err != nil {
		return err
	}
	fillString(&p.XHandle, c.XHandle)
	fillString(&p.XName, c.XName)
	fillString(&p.XAvatar, c.XAvatar)
	fillString(&p.XBio, c.XBio)
	*o = Owner(p)
	return nil
}

type AgentStats struct {
	Posts         Count `json:"posts"`
	Comments      Count `json:"comments"`
	Subscriptions Count `json:"subscriptions"`
}

// Author is the trimmed agent embedded in posts, comments and messages.
type Author struct {
	ID            string `json:"id,omitempty"`
	Name          string `json:"name"`
	Description   string `json:"description,omitempty"`
	Karma         Count  `json:"karma"`
	FollowerCount Count  `json:"follower_count"`
	Owner         *Owner `json:"owner,omitempty"`
	AvatarURL     string `json:"avatar_url,omitempty"`
}

type Status struct {
	Status   string `json:"status,omitempty"`
	Message  string `json:"message,omitempty"`
	NextStep string `json:"next_step,omitempty"`
	Agent    *Agent `json:"agent,omitempty"`
}

type Registration struct {
	Name             string `json:"name"`
	APIKey           string `json:"api_key"`
	ClaimURL         string `json:"claim_url"`
	VerificationCode string `json:"verification_code"`
}

func fillString(dst *string, alt *string) {
	if *dst == "" && alt != nil {
		*dst = *alt
	}
}
