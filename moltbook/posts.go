package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"moltbook/internal/cli/moltbook"
	"moltbook/internal/cli/output"
	"moltbook/internal/models"
)

func (a *app) postCmds() []*cobra.Command {
	return []*cobra.Command{
		a.feedCmd("feed", "Show your personalized feed", "Your Feed"),
		a.feedCmd("global", "Show the global feed", "Global Feed"),
		a.createPostCmd(),
		a.viewPostCmd(),
		a.postActionCmd("delete-post", "Delete one of your posts", "Post deleted", (*moltbook.API).DeletePost),
		a.postActionCmd("upvote", "Upvote a post", "Upvoted post", (*moltbook.API).Upvote),
		a.postActionCmd("downvote", "Downvote a post", "Downvoted post", (*moltbook.API).Downvote),
		a.commentsCmd(),
		a.commentCmd(),
		a.upvoteCommentCmd(),
		a.searchCmd(),
	}
}

func (a *app) feedCmd(use, short, title string) *cobra.Command {
	var sort string
	var limit int
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkLimit(limit); err != nil {
				return err
			}
			api, err := a.api()
			if err != nil {
				return err
			}
			fetch, hints := api.Feed, []string{"Follow some agents: moltbook follow <name>", "Subscribe to submolts: moltbook subscribe <name>", "Browse everything: moltbook global"}
			if use == "global" {
				fetch, hints = api.Global, nil
			}
			resp, err := fetch(cmd.Context(), sort, limit)
			if err != nil {
				return err
			}
			return show(a, resp, func(r *output.Renderer, l models.List[models.Post]) {
				r.Posts(sortTitle(title, sort), l, hints...)
			})
		},
	}
	listFlags(cmd.Flags(), &sort, &limit, moltbook.DefaultSort, moltbook.DefaultFeedLimit)
	return cmd
}

func (a *app) createPostCmd() *cobra.Command {
	var p moltbook.NewPost
	var fromFile string
	cmd := &cobra.Command{
		Use:   "post [title] [submolt] [content] [url]",
		Short: "Create a post",
		Long: "Create a post. Positional values fill title, submolt, content and url in that order;\n" +
			"flags take precedence. Posts go to m/" + moltbook.DefaultSubmolt + " unless a submolt is given.",
		Args: rangeArgs(0, 4),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			if len(args) == 0 && !anyChanged(fs, "title", "submolt", "content", "url", "from-file") {
				prompted, err := a.promptPost()
				if err != nil {
					return err
				}
				args = prompted
			}
			np := moltbook.NewPost{
				Title:   pick(fs, "title", p.Title, positional(args, 0)),
				Submolt: pick(fs, "submolt", p.Submolt, positional(args, 1)),
				URL:     pick(fs, "url", p.URL, positional(args, 3)),
			}
			content, err := resolveBody(pick(fs, "content", p.Content, positional(args, 2)), fromFile, false)
			if err != nil {
				return err
			}
			np.Content = content
			api, err := a.api()
			if err != nil {
				return err
			}
			np = np.Normalize()
			res, err := api.CreatePost(cmd.Context(), np)
			if err != nil {
				return err
			}
			return a.done(res, "Post created in m/"+np.Submolt)
		},
	}
	cmd.Flags().StringVar(&p.Title, "title", "", "post title")
	cmd.Flags().StringVar(&p.Submolt, "submolt", "", "target submolt (default "+moltbook.DefaultSubmolt+")")
	cmd.Flags().StringVar(&p.Content, "content", "", "post body")
	cmd.Flags().StringVar(&p.URL, "url", "", "link to share")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the post body from a file")
	return cmd
}

// promptPost asks for title, submolt and content on a terminal, returned in
// positional order. Without a terminal it returns nothing.
func (a *app) promptPost() ([]string, error) {
	if _, ok := a.terminal(); !ok {
		return nil, nil
	}
	var out []string
	for _, label := range []string{"Title", "Submolt (default " + moltbook.DefaultSubmolt + ")", "Content"} {
		v, err := a.readLine(label)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

func (a *app) viewPostCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view-post <id>",
		Short: "Show a post",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			resp, err := api.Post(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return show(a, resp, (*output.Renderer).Post)
		},
	}
}

func (a *app) postActionCmd(use, short, msg string, act func(*moltbook.API, context.Context, string) (moltbook.Result, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <post-id>",
		Short: short,
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			res, err := act(api, cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.done(res, msg)
		},
	}
}

func (a *app) commentsCmd() *cobra.Command {
	var sort string
	cmd := &cobra.Command{
		Use:   "comments <post-id>",
		Short: "Show the comments on a post",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			resp, err := api.Comments(cmd.Context(), args[0], sort)
			if err != nil {
				return err
			}
			return show(a, resp, (*output.Renderer).Comments)
		},
	}
	cmd.Flags().StringVar(&sort, "sort", moltbook.DefaultCommentSort, "sort order (top, new, controversial)")
	return cmd
}

func (a *app) commentCmd() *cobra.Command {
	var content, parent, fromFile string
	cmd := &cobra.Command{
		Use:   "comment <post-id> [content]",
		Short: "Comment on a post",
		Args:  rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			body, err := resolveBody(pick(cmd.Flags(), "content", content, positional(args, 1)), fromFile, true)
			if err != nil {
				return err
			}
			api, err := a.api()
			if err != nil {
				return err
			}
			res, err := api.CreateComment(cmd.Context(), args[0], body, parent)
			if err != nil {
				return err
			}
			msg := "Comment added"
			if strings.TrimSpace(parent) != "" {
				msg = "Reply added"
			}
			return a.done(res, msg)
		},
	}
	cmd.Flags().StringVar(&content, "content", "", "comment text")
	cmd.Flags().StringVar(&parent, "parent", "", "comment id to reply to")
	cmd.Flags().StringVar(&fromFile, "from-file", "", "read the comment from a file")
	return cmd
}

func (a *app) upvoteCommentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "upvote-comment <comment-id>",
		Short: "Upvote a comment",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			res, err := api.UpvoteComment(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.done(res, "Upvoted comment")
		},
	}
}

func (a *app) searchCmd() *cobra.Command {
	var kind string
	var limit int
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search posts and comments",
		Args:  rangeArgs(1, -1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkLimit(limit); err != nil {
				return err
			}
			query := strings.Join(args, " ")
			api, err := a.api()
			if err != nil {
				return err
			}
			resp, err := api.Search(cmd.Context(), query, kind, limit)
			if err != nil {
				return err
			}
			return show(a, resp, func(r *output.Renderer, l models.List[models.SearchResult]) {
				r.Search(query, l)
			})
		},
	}
	cmd.Flags().StringVar(&kind, "type", moltbook.DefaultSearchType, "what to search: all, posts or comments")
	cmd.Flags().IntVar(&limit, "limit", moltbook.DefaultSearchLimit, "maximum number of results")
	return cmd
}
