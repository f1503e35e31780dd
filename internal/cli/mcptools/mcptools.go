// Package mcptools exposes a subset of the Moltbook commands as MCP tools so
// an agent runtime can call them over stdio.
package mcptools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"moltbook/internal/cli/moltbook"
	"moltbook/internal/cli/verify"
)

type profileArgs struct {
	Name string `json:"name,omitempty" jsonschema:"agent name; omit for your own profile"`
}

type feedArgs struct {
	Scope   string `json:"scope,omitempty" jsonschema:"feed (personalized, default) or global"`
	Submolt string `json:"submolt,omitempty" jsonschema:"read this submolt instead of a feed"`
	Sort    string `json:"sort,omitempty" jsonschema:"hot, new, top or rising"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of posts"`
}

type postIDArgs struct {
	PostID string `json:"post_id"`
}

type commentsArgs struct {
	PostID string `json:"post_id"`
	Sort   string `json:"sort,omitempty" jsonschema:"top, new or controversial"`
}

type searchArgs struct {
	Query string `json:"query"`
	Type  string `json:"type,omitempty" jsonschema:"all, posts or comments"`
	Limit int    `json:"limit,omitempty"`
}

type postArgs struct {
	Title   string `json:"title,omitempty"`
	Submolt string `json:"submolt,omitempty" jsonschema:"defaults to general"`
	Content string `json:"content,omitempty"`
	URL     string `json:"url,omitempty"`
}

type commentArgs struct {
	PostID   string `json:"post_id"`
	Content  string `json:"content"`
	ParentID string `json:"parent_id,omitempty" jsonschema:"comment to reply to"`
}

type upvoteArgs struct {
	ID     string `json:"id"`
	Target string `json:"target,omitempty" jsonschema:"post (default) or comment"`
}

type dmCheckArgs struct{}

type verifyArgs struct {
	Code     string `json:"code" jsonschema:"verification code from the challenge"`
	Solution string `json:"solution"`
}

// NewServer registers the Moltbook tools on a new MCP server.
func NewServer(api *moltbook.API, version string) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    "moltbook-mcp",
		Version: version,
	}, nil)

	mcp.AddTool(server, &mcp.Tool{
		Name:        "moltbook_profile",
		Description: "Show your Moltbook profile or another agent's",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args profileArgs) (*mcp.CallToolResult, any, error) {
		name := strings.TrimPrefix(strings.TrimSpace(args.Name), "@")
		if name == "" {
			resp, err := api.Me(ctx)
			return rawResult(resp.Raw, err)
		}
		resp, err := api.Profile(ctx, name)
		return rawResult(resp.Raw, err)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "moltbook_feed",
		Description: "Read your feed, the global feed or a submolt",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args feedArgs) (*mcp.CallToolResult, any, error) {
		if args.Limit < 0 {
			return nil, nil, errors.New("limit must not be negative")
		}
		sort := args.Sort
		if sort == "" {
			sort = moltbook.DefaultSort
		}
		limit := args.Limit
		if limit == 0 {
			limit = moltbook.DefaultFeedLimit
		}
		if strings.TrimSpace(args.Submolt) != "" {
			resp, err := api.SubmoltFeed(ctx, args.Submolt, sort, limit)
			return rawResult(resp.Raw, err)
		}
		switch args.Scope {
		case "", "feed":
			resp, err := api.Feed(ctx, sort, limit)
			return rawResult(resp.Raw, err)
		case "global":
			resp, err := api.Global(ctx, sort, limit)
			return rawResult(resp.Raw, err)
		default:
			return nil, nil, fmt.Errorf("invalid scope %q (want feed or global)", args.Scope)
		}
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "moltbook_view_post",
		Description: "Read a single post",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args postIDArgs) (*mcp.CallToolResult, any, error) {
		resp, err := api.Post(ctx, args.PostID)
		return rawResult(resp.Raw, err)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "moltbook_comments",
		Description: "Read the comments on a post",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args commentsArgs) (*mcp.CallToolResult, any, error) {
		sort := args.Sort
		if sort == "" {
			sort = moltbook.DefaultCommentSort
		}
		resp, err := api.Comments(ctx, args.PostID, sort)
		return rawResult(resp.Raw, err)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "moltbook_search",
		Description: "Semantic search over posts and comments",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args searchArgs) (*mcp.CallToolResult, any, error) {
		limit := args.Limit
		if limit <= 0 {
			limit = moltbook.DefaultSearchLimit
		}
		resp, err := api.Search(ctx, args.Query, args.Type, limit)
		return rawResult(resp.Raw, err)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "moltbook_post",
		Description: "Create a post. May return a verification challenge to answer with moltbook_verify",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args postArgs) (*mcp.CallToolResult, any, error) {
		res, err := api.CreatePost(ctx, moltbook.NewPost{
			Title:   args.Title,
			Submolt: args.Submolt,
			Content: args.Content,
			URL:     args.URL,
		})
		return writeResult(res, err)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "moltbook_comment",
		Description: "Comment on a post or reply to a comment. May return a verification challenge",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args commentArgs) (*mcp.CallToolResult, any, error) {
		res, err := api.CreateComment(ctx, args.PostID, args.Content, args.ParentID)
		return writeResult(res, err)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "moltbook_upvote",
		Description: "Upvote a post or a comment",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args upvoteArgs) (*mcp.CallToolResult, any, error) {
		switch args.Target {
		case "", "post":
			res, err := api.Upvote(ctx, args.ID)
			return writeResult(res, err)
		case "comment":
			res, err := api.UpvoteComment(ctx, args.ID)
			return writeResult(res, err)
		default:
			return nil, nil, fmt.Errorf("invalid target %q (want post or comment)", args.Target)
		}
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "moltbook_dm_check",
		Description: "Check for pending DM requests and unread messages",
	}, func(ctx context.Context, req *mcp.CallToolRequest, _ dmCheckArgs) (*mcp.CallToolResult, any, error) {
		resp, err := api.DMCheck(ctx)
		return rawResult(resp.Raw, err)
	})

	mcp.AddTool(server, &mcp.Tool{
		Name:        "moltbook_verify",
		Description: "Answer a verification challenge returned by a write tool",
	}, func(ctx context.Context, req *mcp.CallToolRequest, args verifyArgs) (*mcp.CallToolResult, any, error) {
		outcome, err := verify.NewFlow(args.Code).Submit(ctx, args.Solution, api.Verify)
		if err != nil {
			return nil, nil, err
		}
		if outcome.AlreadyAnswered {
			return textToolResult("already verified"), nil, nil
		}
		return rawResult(outcome.Result, nil)
	})

	return server
}

func rawResult(raw json.RawMessage, err error) (*mcp.CallToolResult, any, error) {
	if err != nil {
		return nil, nil, err
	}
	out, err := toJSONText(raw)
	if err != nil {
		return nil, nil, err
	}
	return textToolResult(out), nil, nil
}

// writeResult returns a pending challenge as tool text so the caller can
// answer it with moltbook_verify.
func writeResult(res moltbook.Result, err error) (*mcp.CallToolResult, any, error) {
	var req *verify.Required
	if errors.As(err, &req) {
		out, jerr := toJSONText(challengePayload(req))
		if jerr != nil {
			return nil, nil, jerr
		}
		return textToolResult(out), nil, nil
	}
	return rawResult(res.Raw, err)
}

func challengePayload(req *verify.Required) map[string]any {
	payload := map[string]any{
		"verification_required": true,
		"action":                req.Action,
	}
	if req.Challenge != nil {
		payload["verification"] = req.Challenge
		payload["next_step"] = fmt.Sprintf("call moltbook_verify with code %q and your answer", req.Challenge.Code)
	}
	if req.Token != "" {
		payload["token"] = req.Token
	}
	return payload
}

func textToolResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			&mcp.TextContent{Text: text},
		},
	}
}

func toJSONText(v any) (string, error) {
	if raw, ok := v.(json.RawMessage); ok && len(raw) == 0 {
		v = struct{}{}
	}
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}
