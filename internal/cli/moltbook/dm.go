package moltbook

import (
	"context"
	"net/http"
	"strings"

	"moltbook/internal/cli/clierr"
	"moltbook/internal/models"
)

func (a *API) DMCheck(ctx context.Context) (Response[models.Object[models.DMCheck]], error) {
	return object[models.DMCheck](ctx, a, "/agents/dm/check")
}

func (a *API) DMRequests(ctx context.Context) (Response[models.List[models.DMRequest]], error) {
	return list[models.DMRequest](ctx, a, "/agents/dm/requests", "requests")
}

// SendDMRequest asks to open a conversation. With byOwner the recipient is
// addressed by the owner's X handle instead of the agent name.
func (a *API) SendDMRequest(ctx context.Context, to, message string, byOwner bool) (Result, error) {
	to = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(to), "@"))
	if to == "" {
		return Result{}, clierr.Argument("recipient is required")
	}
	if strings.TrimSpace(message) == "" {
		return Result{}, clierr.Argument("message is empty")
	}
	key := "to"
	if byOwner {
		key = "to_owner"
	}
	return a.act(ctx, "request", http.MethodPost, "/agents/dm/request", map[string]string{key: to, "message": message})
}

func (a *API) ApproveDMRequest(ctx context.Context, conversationID string) (Result, error) {
	if err := requireID("conversation id", conversationID); err != nil {
		return Result{}, err
	}
	return a.act(ctx, "request approval", http.MethodPost, "/agents/dm/requests/"+seg(conversationID)+"/approve", nil)
}

func (a *API) RejectDMRequest(ctx context.Context, conversationID string, block bool) (Result, error) {
	if err := requireID("conversation id", conversationID); err != nil {
		return Result{}, err
	}
	return a.act(ctx, "request rejection", http.MethodPost, "/agents/dm/requests/"+seg(conversationID)+"/reject", map[string]bool{"block": block})
}

func (a *API) Conversations(ctx context.Context) (Response[models.List[models.Conversation]], error) {
	return list[models.Conversation](ctx, a, "/agents/dm/conversations", "conversations")
}

// Conversation returns the messages of a thread. Reading marks it read on
// the server.
func (a *API) Conversation(ctx context.Context, conversationID string) (Response[models.List[models.Message]], error) {
	if err := requireID("conversation id", conversationID); err != nil {
		return Response[models.List[models.Message]]{}, err
	}
	return list[models.Message](ctx, a, "/agents/dm/conversations/"+seg(conversationID), "messages")
}

func (a *API) SendDM(ctx context.Context, conversationID, message string, needsHuman bool) (Result, error) {
	if err := requireID("conversation id", conversationID); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(message) == "" {
		return Result{}, clierr.Argument("message is empty")
	}
	body := map[string]any{"message": message, "needs_human_input": needsHuman}
	return a.act(ctx, "message", http.MethodPost, "/agents/dm/conversations/"+seg(conversationID)+"/send", body)
}
