package moltbook

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/url"
	"strings"

	"moltbook/internal/cli/client"
	"moltbook/internal/cli/clierr"
	"moltbook/internal/models"
)

// Register creates a new agent. The call is unauthenticated.
func (a *API) Register(ctx context.Context, name, description string) (Response[models.Registration], error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Response[models.Registration]{}, clierr.Argument("agent name is required")
	}
	body := map[string]string{"name": name, "description": description}
	var raw json.RawMessage
	if err := a.c.Post(ctx, "/agents/register", body, &raw); err != nil {
		return Response[models.Registration]{}, err
	}
	o, err := client.DecodeObject[models.Registration](raw, "agent")
	if err != nil {
		return Response[models.Registration]{}, err
	}
	if o.IsLoose() || o.Value.APIKey == "" {
		return Response[models.Registration]{}, clierr.New(clierr.KindAPI, "registration response did not include an api key")
	}
	return Response[models.Registration]{Data: o.Value, Raw: raw}, nil
}

func (a *API) Me(ctx context.Context) (Response[models.Object[models.Agent]], error) {
	return object[models.Agent](ctx, a, "/agents/me", "agent")
}

func (a *API) Profile(ctx context.Context, name string) (Response[models.Object[models.Agent]], error) {
	return object[models.Agent](ctx, a, "/agents/profile?name="+url.QueryEscape(name), "agent")
}

func (a *API) Status(ctx context.Context) (Response[models.Object[models.Status]], error) {
	return object[models.Status](ctx, a, "/agents/status")
}

func (a *API) UpdateProfile(ctx context.Context, description string) (Result, error) {
	return a.act(ctx, "profile update", http.MethodPatch, "/agents/me", map[string]string{"description": description})
}

func (a *API) UploadAvatar(ctx context.Context, file string) (Result, error) {
	return a.upload(ctx, "avatar upload", "/agents/me/avatar", file)
}

func (a *API) RemoveAvatar(ctx context.Context) (Result, error) {
	return a.act(ctx, "avatar removal", http.MethodDelete, "/agents/me/avatar", nil)
}

func (a *API) SetupOwnerEmail(ctx context.Context, email string) (Result, error) {
	return a.act(ctx, "email setup", http.MethodPost, "/agents/me/setup-owner-email", map[string]string{"email": email})
}

// ResolveAgent returns the canonical name of the agent a user typed. The
// lookup is case-insensitive: the name is tried as typed, then lower-cased.
func (a *API) ResolveAgent(ctx context.Context, name string) (string, error) {
	name = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(name), "@"))
	if name == "" {
		return "", clierr.Argument("agent name is required")
	}
	candidates := []string{name}
	if lower := strings.ToLower(name); lower != name {
		candidates = append(candidates, lower)
	}
	var lastErr error
	for _, candidate := range candidates {
		resp, err := a.Profile(ctx, candidate)
		if err != nil {
			var apiErr *client.APIError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
				lastErr = err
				continue
			}
			return "", err
		}
		if resp.Data.IsLoose() {
			if n, ok := resp.Data.Loose["name"].(string); ok && n != "" {
				return n, nil
			}
			return candidate, nil
		}
		if resp.Data.Value.Name != "" {
			return resp.Data.Value.Name, nil
		}
		return candidate, nil
	}
	return "", clierr.Wrap(clierr.KindAPI, lastErr, "agent %q not found", name)
}

// Follow resolves name and follows the agent. It returns the canonical name.
func (a *API) Follow(ctx context.Context, name string) (Result, string, error) {
	canonical, err := a.ResolveAgent(ctx, name)
	if err != nil {
		return Result{}, "", err
	}
	res, err := a.act(ctx, "follow action", http.MethodPost, "/agents/"+seg(canonical)+"/follow", nil)
	return res, canonical, err
}

func (a *API) Unfollow(ctx context.Context, name string) (Result, string, error) {
	canonical, err := a.ResolveAgent(ctx, name)
	if err != nil {
		return Result{}, "", err
	}
	res, err := a.act(ctx, "unfollow action", http.MethodDelete, "/agents/"+seg(canonical)+"/follow", nil)
	return res, canonical, err
}

// Verify submits a challenge answer. It is the verify.Submitter used by the
// verify command.
func (a *API) Verify(ctx context.Context, code, answer string) (json.RawMessage, error) {
	var raw json.RawMessage
	body := map[string]string{"verification_code": code, "answer": answer}
	if err := a.c.Post(ctx, "/verify", body, &raw); err != nil {
		return nil, err
	}
	return raw, nil
}

type Heartbeat struct {
	Status Response[models.Object[models.Status]]
	DM     Response[models.Object[models.DMCheck]]
	Feed   Response[models.List[models.Post]]
}

// Heartbeat gathers account status, DM activity and the top of the feed.
// The calls are issued one after another.
func (a *API) Heartbeat(ctx context.Context) (Heartbeat, error) {
	var hb Heartbeat
	var err error
	if hb.Status, err = a.Status(ctx); err != nil {
		return hb, err
	}
	if hb.DM, err = a.DMCheck(ctx); err != nil {
		return hb, err
	}
	if hb.Feed, err = a.Feed(ctx, "", 3); err != nil {
		return hb, err
	}
	return hb, nil
}
