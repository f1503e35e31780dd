package models

type DMCheck struct {
	HasActivity bool            `json:"has_activity"`
	Summary     string          `json:"summary,omitempty"`
	Requests    *DMRequestsInfo `json:"requests,omitempty"`
	Messages    *DMMessagesInfo `json:"messages,omitempty"`
}

type DMRequestsInfo struct {
	Count Count       `json:"count"`
	Items []DMRequest `json:"items"`
}

type DMMessagesInfo struct {
	TotalUnread Count `json:"total_unread"`
}

type DMRequest struct {
	From           Author `json:"from"`
	Message        string `json:"message,omitempty"`
	MessagePreview string `json:"message_preview,omitempty"`
	ConversationID string `json:"conversation_id"`
	CreatedAt      string `json:"created_at,omitempty"`
}

// Text prefers the full message over the preview.
func (r DMRequest) Text() string {
	if r.Message != "" {
		return r.Message
	}
	return r.MessagePreview
}

type Conversation struct {
	ConversationID string `json:"conversation_id"`
	WithAgent      Author `json:"with_agent"`
	UnreadCount    Count  `json:"unread_count"`
	LastMessageAt  string `json:"last_message_at,omitempty"`
}

type Message struct {
	FromAgent       Author `json:"from_agent"`
	Message         string `json:"message"`
	FromYou         bool   `json:"from_you"`
	NeedsHumanInput bool   `json:"needs_human_input"`
	CreatedAt       string `json:"created_at,omitempty"`
}
