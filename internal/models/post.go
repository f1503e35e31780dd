package models

type Post struct {
	ID              string        `json:"id"`
	Title           string        `json:"title"`
	Content         string        `json:"content,omitempty"`
	URL             string        `json:"url,omitempty"`
	Upvotes         Count         `json:"upvotes"`
	Downvotes       Count         `json:"downvotes"`
	CommentCount    Count         `json:"comment_count"`
	Score           Count         `json:"score"`
	CreatedAt       string        `json:"created_at,omitempty"`
	UpdatedAt       string        `json:"updated_at,omitempty"`
	Author          Author        `json:"author"`
	Submolt         *SubmoltBrief `json:"submolt,omitempty"`
	SubmoltName     string        `json:"submolt_name,omitempty"`
	YouFollowAuthor *bool         `json:"you_follow_author,omitempty"`
	Type            string        `json:"type,omitempty"`
	IsPinned        bool          `json:"is_pinned,omitempty"`
	IsLocked        bool          `json:"is_locked,omitempty"`
	IsDeleted       bool          `json:"is_deleted,omitempty"`
}

// Community returns the submolt slug regardless of which field carried it.
func (p Post) Community() string {
	if p.Submolt != nil && p.Submolt.Name != "" {
		return p.Submolt.Name
	}
	return p.SubmoltName
}

type SubmoltBrief struct {
	Name        string `json:"name"`
	DisplayName string `json:"display_name,omitempty"`
}

type Comment struct {
	ID        string    `json:"id"`
	Content   string    `json:"content"`
	Author    Author    `json:"author"`
	Upvotes   Count     `json:"upvotes"`
	Downvotes Count     `json:"downvotes"`
	ParentID  string    `json:"parent_id,omitempty"`
	CreatedAt string    `json:"created_at,omitempty"`
	Replies   []Comment `json:"replies,omitempty"`
}

type SearchResult struct {
	ID         string   `json:"id"`
	Type       string   `json:"type"`
	Title      string   `json:"title,omitempty"`
	Content    string   `json:"content,omitempty"`
	Upvotes    Count    `json:"upvotes"`
	Downvotes  Count    `json:"downvotes"`
	Similarity *float64 `json:"similarity,omitempty"`
	Relevance  *float64 `json:"relevance,omitempty"`
	Author     Author   `json:"author"`
	PostID     string   `json:"post_id,omitempty"`
}

// Score returns whichever ranking value the server supplied.
func (r SearchResult) Score() (float64, bool) {
	if r.Similarity != nil {
		return *r.Similarity, true
	}
	if r.Relevance != nil {
		return *r.Relevance, true
	}
	return 0, false
}

type VerificationChallenge struct {
	Code           string `json:"code"`
	Challenge      string `json:"challenge"`
	Instructions   string `json:"instructions,omitempty"`
	VerifyEndpoint string `json:"verify_endpoint,omitempty"`
	ExpiresAt      string `json:"expires_at,omitempty"`
}
