package moltbook

import (
	"context"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"moltbook/internal/cli/clierr"
	"moltbook/internal/models"
)

const (
	DefaultSubmolt = "general"
	DefaultTitle   = "Untitled Post"
)

func (a *API) Feed(ctx context.Context, sort string, limit int) (Response[models.List[models.Post]], error) {
	return list[models.Post](ctx, a, "/feed"+listQuery(sort, limit), "posts")
}

func (a *API) Global(ctx context.Context, sort string, limit int) (Response[models.List[models.Post]], error) {
	return list[models.Post](ctx, a, "/posts"+listQuery(sort, limit), "posts")
}

type NewPost struct {
	Title   string
	Submolt string
	Content string
	URL     string
}

// Normalize fills defaults. A title or body that is just a link becomes the
// post URL when no URL was given.
func (p NewPost) Normalize() NewPost {
	p.Title = strings.TrimSpace(p.Title)
	p.Submolt = strings.TrimPrefix(strings.TrimSpace(p.Submolt), "m/")
	p.URL = strings.TrimSpace(p.URL)
	if p.URL == "" {
		switch {
		case strings.HasPrefix(p.Title, "http"):
			p.URL, p.Title = p.Title, ""
		case strings.HasPrefix(strings.TrimSpace(p.Content), "http"):
			p.URL, p.Content = strings.TrimSpace(p.Content), ""
		}
	}
	if p.Submolt == "" {
		p.Submolt = DefaultSubmolt
	}
	if p.Title == "" {
		p.Title = DefaultTitle
	}
	return p
}

func (p NewPost) body() map[string]string {
	b := map[string]string{"submolt_name": p.Submolt, "title": p.Title}
	if p.Content != "" {
		b["content"] = p.Content
	}
	if p.URL != "" {
		b["url"] = p.URL
	}
	return b
}

func (a *API) CreatePost(ctx context.Context, p NewPost) (Result, error) {
	return a.act(ctx, "post", http.MethodPost, "/posts", p.Normalize().body())
}

func (a *API) Post(ctx context.Context, id string) (Response[models.Object[models.Post]], error) {
	if err := requireID("post id", id); err != nil {
		return Response[models.Object[models.Post]]{}, err
	}
	return object[models.Post](ctx, a, "/posts/"+seg(id), "post")
}

func (a *API) DeletePost(ctx context.Context, id string) (Result, error) {
	if err := requireID("post id", id); err != nil {
		return Result{}, err
	}
	return a.act(ctx, "post deletion", http.MethodDelete, "/posts/"+seg(id), nil)
}

func (a *API) Upvote(ctx context.Context, id string) (Result, error) {
	if err := requireID("post id", id); err != nil {
		return Result{}, err
	}
	return a.act(ctx, "upvote", http.MethodPost, "/posts/"+seg(id)+"/upvote", nil)
}

func (a *API) Downvote(ctx context.Context, id string) (Result, error) {
	if err := requireID("post id", id); err != nil {
		return Result{}, err
	}
	return a.act(ctx, "downvote", http.MethodPost, "/posts/"+seg(id)+"/downvote", nil)
}

func (a *API) Comments(ctx context.Context, postID, sort string) (Response[models.List[models.Comment]], error) {
	if err := requireID("post id", postID); err != nil {
		return Response[models.List[models.Comment]]{}, err
	}
	return list[models.Comment](ctx, a, "/posts/"+seg(postID)+"/comments"+listQuery(sort, 0), "comments")
}

func (a *API) CreateComment(ctx context.Context, postID, content, parentID string) (Result, error) {
	if err := requireID("post id", postID); err != nil {
		return Result{}, err
	}
	if strings.TrimSpace(content) == "" {
		return Result{}, clierr.Argument("comment content is empty")
	}
	body := map[string]string{"content": content}
	if p := strings.TrimSpace(parentID); p != "" {
		body["parent_id"] = p
	}
	return a.act(ctx, "comment", http.MethodPost, "/posts/"+seg(postID)+"/comments", body)
}

func (a *API) UpvoteComment(ctx context.Context, id string) (Result, error) {
	if err := requireID("comment id", id); err != nil {
		return Result{}, err
	}
	return a.act(ctx, "comment upvote", http.MethodPost, "/comments/"+seg(id)+"/upvote", nil)
}

func (a *API) Search(ctx context.Context, query, kind string, limit int) (Response[models.List[models.SearchResult]], error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Response[models.List[models.SearchResult]]{}, clierr.Argument("search query is empty")
	}
	if kind == "" {
		kind = DefaultSearchType
	}
	switch kind {
	case "all", "posts", "comments":
	default:
		return Response[models.List[models.SearchResult]]{}, clierr.Argument("invalid search type %q (want all, posts or comments)", kind)
	}
	q := url.Values{}
	q.Set("q", query)
	q.Set("type", kind)
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	return list[models.SearchResult](ctx, a, "/search?"+q.Encode(), "results")
}

func requireID(what, id string) error {
	if strings.TrimSpace(id) == "" {
		return clierr.Argument("%s is required", what)
	}
	return nil
}
