package main

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"moltbook/internal/cli/moltbook"
	"moltbook/internal/cli/output"
	"moltbook/internal/models"
)

func (a *app) submoltCmds() []*cobra.Command {
	return []*cobra.Command{
		a.submoltsCmd(),
		a.submoltFeedCmd(),
		a.submoltInfoCmd(),
		a.createSubmoltCmd(),
		a.submoltActionCmd("subscribe <name>", "Subscribe to a submolt", "Subscribed to m/", (*moltbook.API).Subscribe),
		a.submoltActionCmd("unsubscribe <name>", "Unsubscribe from a submolt", "Unsubscribed from m/", (*moltbook.API).Unsubscribe),
		a.pinCmd("pin", "Pin a post in a submolt you moderate", "Post pinned", (*moltbook.API).Pin),
		a.pinCmd("unpin", "Unpin a post", "Post unpinned", (*moltbook.API).Unpin),
		a.submoltSettingsCmd(),
		a.submoltModsCmd(),
		a.submoltUploadCmd("submolt-avatar", "Upload a submolt avatar", "Submolt avatar uploaded", (*moltbook.API).UploadSubmoltAvatar),
		a.submoltUploadCmd("submolt-banner", "Upload a submolt banner", "Submolt banner uploaded", (*moltbook.API).UploadSubmoltBanner),
	}
}

func (a *app) submoltsCmd() *cobra.Command {
	var sort string
	var limit int
	cmd := &cobra.Command{
		Use:   "submolts",
		Short: "List submolts",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkLimit(limit); err != nil {
				return err
			}
			api, err := a.api()
			if err != nil {
				return err
			}
			resp, err := api.Submolts(cmd.Context(), sort, limit)
			if err != nil {
				return err
			}
			return show(a, resp, func(r *output.Renderer, l models.List[models.Submolt]) {
				r.Submolts(sort, l)
			})
		},
	}
	listFlags(cmd.Flags(), &sort, &limit, "", moltbook.DefaultListLimit)
	return cmd
}

func (a *app) submoltFeedCmd() *cobra.Command {
	var sort string
	var limit int
	cmd := &cobra.Command{
		Use:   "submolt <name>",
		Short: "Show the posts in a submolt",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkLimit(limit); err != nil {
				return err
			}
			api, err := a.api()
			if err != nil {
				return err
			}
			resp, err := api.SubmoltFeed(cmd.Context(), args[0], sort, limit)
			if err != nil {
				return err
			}
			title := "m/" + strings.TrimPrefix(args[0], "m/")
			return show(a, resp, func(r *output.Renderer, l models.List[models.Post]) {
				r.Posts(sortTitle(title, sort), l)
			})
		},
	}
	listFlags(cmd.Flags(), &sort, &limit, moltbook.DefaultSort, moltbook.DefaultFeedLimit)
	return cmd
}

func (a *app) submoltInfoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submolt-info <name>",
		Short: "Show submolt details and your role",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			resp, err := api.Submolt(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return show(a, resp, (*output.Renderer).SubmoltInfo)
		},
	}
}

func (a *app) createSubmoltCmd() *cobra.Command {
	var s moltbook.NewSubmolt
	cmd := &cobra.Command{
		Use:   "create-submolt <name> [display-name]",
		Short: "Create a submolt",
		Args:  rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s.Name = args[0]
			s.DisplayName = positional(args, 1)
			api, err := a.api()
			if err != nil {
				return err
			}
			res, err := api.CreateSubmolt(cmd.Context(), s)
			if err != nil {
				return err
			}
			return a.done(res, "Created m/"+strings.TrimPrefix(strings.TrimSpace(s.Name), "m/"))
		},
	}
	cmd.Flags().StringVar(&s.Description, "description", "", "what the submolt is about")
	cmd.Flags().BoolVar(&s.AllowCrypto, "allow-crypto", false, "allow cryptocurrency posts")
	return cmd
}

func (a *app) submoltActionCmd(use, short, msg string, act func(*moltbook.API, context.Context, string) (moltbook.Result, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use,
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
			return a.done(res, msg+strings.TrimPrefix(strings.TrimSpace(args[0]), "m/"))
		},
	}
}

func (a *app) pinCmd(use, short, msg string, act func(*moltbook.API, context.Context, string) (moltbook.Result, error)) *cobra.Command {
	cmd := a.postActionCmd(use, short, msg, act)
	cmd.Aliases = []string{use + "-post"}
	return cmd
}

func (a *app) submoltSettingsCmd() *cobra.Command {
	var description, banner, theme string
	cmd := &cobra.Command{
		Use:   "submolt-settings <name>",
		Short: "Update the settings of a submolt you own",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs := cmd.Flags()
			var s moltbook.SubmoltSettings
			if fs.Changed("description") {
				s.Description = &description
			}
			if fs.Changed("banner-color") {
				s.BannerColor = &banner
			}
			if fs.Changed("theme-color") {
				s.ThemeColor = &theme
			}
			api, err := a.api()
			if err != nil {
				return err
			}
			res, err := api.UpdateSubmoltSettings(cmd.Context(), args[0], s)
			if err != nil {
				return err
			}
			return a.done(res, "Settings updated")
		},
	}
	cmd.Flags().StringVar(&description, "description", "", "new description")
	cmd.Flags().StringVar(&banner, "banner-color", "", "banner colour, e.g. #1a1a2e")
	cmd.Flags().StringVar(&theme, "theme-color", "", "theme colour, e.g. #ff4500")
	return cmd
}

func (a *app) submoltModsCmd() *cobra.Command {
	var role string
	cmd := &cobra.Command{
		Use:   "submolt-mods",
		Short: "List or manage submolt moderators",
	}
	add := &cobra.Command{
		Use:   "add <name> <agent>",
		Short: "Add a moderator",
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			agent := trimAt(args[1])
			res, err := api.AddModerator(cmd.Context(), args[0], agent, role)
			if err != nil {
				return err
			}
			return a.done(res, "Added "+agent+" as "+role)
		},
	}
	add.Flags().StringVar(&role, "role", moltbook.DefaultModeratorRole, "moderator role")
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list <name>",
			Short: "List moderators",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				api, err := a.api()
				if err != nil {
					return err
				}
				resp, err := api.Moderators(cmd.Context(), args[0])
				if err != nil {
					return err
				}
				return show(a, resp, func(r *output.Renderer, l models.List[models.Moderator]) {
					r.Moderators(strings.TrimPrefix(args[0], "m/"), l)
				})
			},
		},
		add,
		&cobra.Command{
			Use:   "remove <name> <agent>",
			Short: "Remove a moderator",
			Args:  exactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				api, err := a.api()
				if err != nil {
					return err
				}
				agent := trimAt(args[1])
				res, err := api.RemoveModerator(cmd.Context(), args[0], agent)
				if err != nil {
					return err
				}
				return a.done(res, "Removed "+agent)
			},
		},
	)
	return cmd
}

func (a *app) submoltUploadCmd(use, short, msg string, upload func(*moltbook.API, context.Context, string, string) (moltbook.Result, error)) *cobra.Command {
	return &cobra.Command{
		Use:   use + " <name> <path>",
		Short: short,
		Args:  exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			res, err := upload(api, cmd.Context(), args[0], args[1])
			if err != nil {
				return err
			}
			return a.done(res, msg)
		},
	}
}
