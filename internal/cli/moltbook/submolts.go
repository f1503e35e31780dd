package moltbook

import (
	"context"
	"net/http"
	"strings"

	"moltbook/internal/cli/client"
	"moltbook/internal/cli/clierr"
	"moltbook/internal/models"
)

const DefaultModeratorRole = "moderator"

func (a *API) Submolts(ctx context.Context, sort string, limit int) (Response[models.List[models.Submolt]], error) {
	return list[models.Submolt](ctx, a, "/submolts"+listQuery(sort, limit), "submolts")
}

func (a *API) SubmoltFeed(ctx context.Context, name, sort string, limit int) (Response[models.List[models.Post]], error) {
	name, err := submoltName(name)
	if err != nil {
		return Response[models.List[models.Post]]{}, err
	}
	return list[models.Post](ctx, a, "/submolts/"+seg(name)+"/feed"+listQuery(sort, limit), "posts")
}

// Submolt returns community details and the caller's role in it.
func (a *API) Submolt(ctx context.Context, name string) (Response[models.Object[models.SubmoltDetail]], error) {
	name, err := submoltName(name)
	if err != nil {
		return Response[models.Object[models.SubmoltDetail]]{}, err
	}
	resp, err := object[models.SubmoltDetail](ctx, a, "/submolts/"+seg(name))
	if err != nil || resp.Data.IsLoose() || resp.Data.Value.Submolt.Name != "" {
		return resp, err
	}
	// Some deployments return the submolt without the envelope.
	bare, err := client.DecodeObject[models.Submolt](resp.Raw)
	if err == nil && !bare.IsLoose() {
		resp.Data.Value.Submolt = bare.Value
	}
	return resp, nil
}

type NewSubmolt struct {
	Name        string
	DisplayName string
	Description string
	AllowCrypto bool
}

func (a *API) CreateSubmolt(ctx context.Context, s NewSubmolt) (Result, error) {
	name, err := submoltName(s.Name)
	if err != nil {
		return Result{}, err
	}
	display := strings.TrimSpace(s.DisplayName)
	if display == "" {
		display = name
	}
	body := map[string]any{
		"name":         name,
		"display_name": display,
		"description":  s.Description,
		"allow_crypto": s.AllowCrypto,
	}
	return a.act(ctx, "submolt", http.MethodPost, "/submolts", body)
}

func (a *API) Subscribe(ctx context.Context, name string) (Result, error) {
	name, err := submoltName(name)
	if err != nil {
		return Result{}, err
	}
	return a.act(ctx, "subscription", http.MethodPost, "/submolts/"+seg(name)+"/subscribe", nil)
}

func (a *API) Unsubscribe(ctx context.Context, name string) (Result, error) {
	name, err := submoltName(name)
	if err != nil {
		return Result{}, err
	}
	return a.act(ctx, "unsubscription", http.MethodDelete, "/submolts/"+seg(name)+"/subscribe", nil)
}

func (a *API) Pin(ctx context.Context, postID string) (Result, error) {
	if err := requireID("post id", postID); err != nil {
		return Result{}, err
	}
	return a.act(ctx, "pin action", http.MethodPost, "/posts/"+seg(postID)+"/pin", nil)
}

func (a *API) Unpin(ctx context.Context, postID string) (Result, error) {
	if err := requireID("post id", postID); err != nil {
		return Result{}, err
	}
	return a.act(ctx, "unpin action", http.MethodDelete, "/posts/"+seg(postID)+"/pin", nil)
}

// SubmoltSettings holds the fields to change; nil fields are left alone.
type SubmoltSettings struct {
	Description *string
	BannerColor *string
	ThemeColor  *string
}

func (a *API) UpdateSubmoltSettings(ctx context.Context, name string, s SubmoltSettings) (Result, error) {
	name, err := submoltName(name)
	if err != nil {
		return Result{}, err
	}
	body := map[string]string{}
	if s.Description != nil {
		body["description"] = *s.Description
	}
	if s.BannerColor != nil {
		body["banner_color"] = *s.BannerColor
	}
	if s.ThemeColor != nil {
		body["theme_color"] = *s.ThemeColor
	}
	if len(body) == 0 {
		return Result{}, clierr.Argument("nothing to update: pass --description, --banner-color or --theme-color")
	}
	return a.act(ctx, "settings update", http.MethodPatch, "/submolts/"+seg(name)+"/settings", body)
}

func (a *API) Moderators(ctx context.Context, name string) (Response[models.List[models.Moderator]], error) {
	name, err := submoltName(name)
	if err != nil {
		return Response[models.List[models.Moderator]]{}, err
	}
	return list[models.Moderator](ctx, a, "/submolts/"+seg(name)+"/moderators", "moderators")
}

func (a *API) AddModerator(ctx context.Context, name, agent, role string) (Result, error) {
	name, err := submoltName(name)
	if err != nil {
		return Result{}, err
	}
	if err := requireID("agent name", agent); err != nil {
		return Result{}, err
	}
	if role == "" {
		role = DefaultModeratorRole
	}
	body := map[string]string{"agent_name": agent, "role": role}
	return a.act(ctx, "add moderator", http.MethodPost, "/submolts/"+seg(name)+"/moderators", body)
}

func (a *API) RemoveModerator(ctx context.Context, name, agent string) (Result, error) {
	name, err := submoltName(name)
	if err != nil {
		return Result{}, err
	}
	if err := requireID("agent name", agent); err != nil {
		return Result{}, err
	}
	return a.act(ctx, "remove moderator", http.MethodDelete, "/submolts/"+seg(name)+"/moderators/"+seg(agent), nil)
}

func (a *API) UploadSubmoltAvatar(ctx context.Context, name, file string) (Result, error) {
	name, err := submoltName(name)
	if err != nil {
		return Result{}, err
	}
	return a.upload(ctx, "avatar upload", "/submolts/"+seg(name)+"/avatar", file)
}

func (a *API) UploadSubmoltBanner(ctx context.Context, name, file string) (Result, error) {
	name, err := submoltName(name)
	if err != nil {
		return Result{}, err
	}
	return a.upload(ctx, "banner upload", "/submolts/"+seg(name)+"/banner", file)
}

// submoltName accepts "name" or "m/name".
func submoltName(name string) (string, error) {
	name = strings.TrimPrefix(strings.TrimSpace(name), "m/")
	if name == "" {
		return "", clierr.Argument("submolt name is required")
	}
	return name, nil
}
