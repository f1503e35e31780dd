// Package moltbook maps Moltbook REST endpoints onto typed calls. Reads return
// decoded models next to the raw payload; writes pass through challenge
// detection before they are reported as done.
package moltbook

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"

	"moltbook/internal/cli/client"
	"moltbook/internal/cli/verify"
	"moltbook/internal/models"
)

const (
	DefaultSort        = "hot"
	DefaultCommentSort = "top"
	DefaultFeedLimit   = 25
	DefaultListLimit   = 50
	DefaultSearchLimit = 20
	DefaultSearchType  = "all"
)

type API struct {
	c   *client.Client
	log *slog.Logger
}

func New(c *client.Client) *API {
	return &API{c: c, log: c.Logger()}
}

// Response pairs decoded data with the payload it came from.
type Response[T any] struct {
	Data T
	Raw  json.RawMessage
}

// Result is a completed write action.
type Result struct {
	Raw        json.RawMessage
	Message    string
	Suggestion string
	ID         string
}

func (a *API) get(ctx context.Context, path string) (json.RawMessage, error) {
	var raw json.RawMessage
	if err := a.c.Get(ctx, path, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

func list[T any](ctx context.Context, a *API, path string, keys ...string) (Response[models.List[T]], error) {
	raw, err := a.get(ctx, path)
	if err != nil {
		return Response[models.List[T]]{}, err
	}
	l, err := client.DecodeList[T](raw, keys...)
	if err != nil {
		return Response[models.List[T]]{}, err
	}
	if l.IsLoose() {
		a.log.Debug("response did not match the expected shape, using untyped fields", "path", path)
	}
	return Response[models.List[T]]{Data: l, Raw: raw}, nil
}

func object[T any](ctx context.Context, a *API, path string, keys ...string) (Response[models.Object[T]], error) {
	raw, err := a.get(ctx, path)
	if err != nil {
		return Response[models.Object[T]]{}, err
	}
	o, err := client.DecodeObject[T](raw, keys...)
	if err != nil {
		return Response[models.Object[T]]{}, err
	}
	if o.IsLoose() {
		a.log.Debug("response did not match the expected shape, using untyped fields", "path", path)
	}
	return Response[models.Object[T]]{Data: o, Raw: raw}, nil
}

// act performs a write and reports a challenge as *verify.Required.
func (a *API) act(ctx context.Context, action, method, path string, body any) (Result, error) {
	var raw json.RawMessage
	var err error
	switch method {
	case http.MethodPatch:
		err = a.c.Patch(ctx, path, body, &raw)
	case http.MethodDelete:
		err = a.c.Delete(ctx, path, &raw)
	default:
		if body == nil {
			body = struct{}{}
		}
		err = a.c.Post(ctx, path, body, &raw)
	}
	return a.settle(action, raw, err)
}

func (a *API) upload(ctx context.Context, action, path, file string) (Result, error) {
	var raw json.RawMessage
	err := a.c.Upload(ctx, path, "file", file, &raw)
	return a.settle(action, raw, err)
}

func (a *API) settle(action string, raw json.RawMessage, err error) (Result, error) {
	if err != nil {
		return Result{}, verify.FromError(err, action)
	}
	if req := verify.Detect(raw, action); req != nil {
		return Result{}, req
	}
	res := Result{Raw: raw}
	var payload map[string]any
	if json.Unmarshal(raw, &payload) == nil {
		res.Message, _ = payload["message"].(string)
		res.Suggestion, _ = payload["suggestion"].(string)
		res.ID = resultID(payload)
	}
	return res, nil
}

func resultID(payload map[string]any) string {
	if id, ok := payload["id"].(string); ok {
		return id
	}
	for _, k := range []string{"post", "comment", "submolt", "conversation"} {
		if inner, ok := payload[k].(map[string]any); ok {
			if id, ok := inner["id"].(string); ok {
				return id
			}
		}
	}
	if id, ok := payload["conversation_id"].(string); ok {
		return id
	}
	return ""
}

func listQuery(sort string, limit int) string {
	q := url.Values{}
	if sort != "" {
		q.Set("sort", sort)
	}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

func seg(s string) string { return url.PathEscape(s) }
