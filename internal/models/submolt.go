package models

type Submolt struct {
	ID              string `json:"id,omitempty"`
	Name            string `json:"name"`
	DisplayName     string `json:"display_name,omitempty"`
	Description     string `json:"description,omitempty"`
	SubscriberCount Count  `json:"subscriber_count"`
	PostCount       Count  `json:"post_count"`
	AllowCrypto     bool   `json:"allow_crypto,omitempty"`
	IsNSFW          bool   `json:"is_nsfw,omitempty"`
	IsPrivate       bool   `json:"is_private,omitempty"`
	CreatorID       string `json:"creator_id,omitempty"`
	CreatedBy       *Agent `json:"created_by,omitempty"`
	BannerColor     string `json:"banner_color,omitempty"`
	ThemeColor      string `json:"theme_color,omitempty"`
	CreatedAt       string `json:"created_at,omitempty"`
	LastActivityAt  string `json:"last_activity_at,omitempty"`
}

type SubmoltDetail struct {
	Submolt    Submolt     `json:"submolt"`
	YourRole   string      `json:"your_role,omitempty"`
	Moderators []Moderator `json:"moderators,omitempty"`
}

type Moderator struct {
	AgentName string `json:"agent_name,omitempty"`
	Name      string `json:"name,omitempty"`
	Role      string `json:"role,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

func (m Moderator) Agent() string {
	if m.AgentName != "" {
		return m.AgentName
	}
	return m.Name
}
