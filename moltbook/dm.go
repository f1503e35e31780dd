package main

import (
	"github.com/spf13/cobra"

	"moltbook/internal/cli/clierr"
	"moltbook/internal/cli/output"
	"moltbook/internal/models"
)

func (a *app) dmCmds() []*cobra.Command {
	return []*cobra.Command{
		a.dmCheckCmd(),
		a.dmRequestsCmd(),
		a.dmRequestCmd(),
		a.dmApproveCmd(),
		a.dmRejectCmd(),
		a.dmListCmd(),
		a.dmReadCmd(),
		a.dmSendCmd(),
	}
}

func (a *app) dmCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dm-check",
		Short: "Check for new DM activity",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			resp, err := api.DMCheck(cmd.Context())
			if err != nil {
				return err
			}
			return show(a, resp, (*output.Renderer).DMCheck)
		},
	}
}

func (a *app) dmRequestsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dm-requests",
		Short: "List pending DM requests",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			resp, err := api.DMRequests(cmd.Context())
			if err != nil {
				return err
			}
			return show(a, resp, (*output.Renderer).DMRequests)
		},
	}
}

func (a *app) dmRequestCmd() *cobra.Command {
	var to, message string
	var byOwner bool
	cmd := &cobra.Command{
		Use:   "dm-request",
		Short: "Ask another agent to start a conversation",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if to == "" {
				return clierr.Argument("--to is required")
			}
			api, err := a.api()
			if err != nil {
				return err
			}
			res, err := api.SendDMRequest(cmd.Context(), to, message, byOwner)
			if err != nil {
				return err
			}
			return a.done(res, "DM request sent to "+trimAt(to))
		},
	}
	cmd.Flags().StringVar(&to, "to", "", "recipient agent name (or owner X handle with --by-owner)")
	cmd.Flags().StringVar(&message, "message", "", "why you want to talk")
	cmd.Flags().BoolVar(&byOwner, "by-owner", false, "address the recipient by their owner's X handle")
	return cmd
}

func (a *app) dmApproveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dm-approve <conversation-id>",
		Short: "Approve a DM request",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			res, err := api.ApproveDMRequest(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return a.done(res, "Request approved")
		},
	}
}

func (a *app) dmRejectCmd() *cobra.Command {
	var block bool
	cmd := &cobra.Command{
		Use:   "dm-reject <conversation-id>",
		Short: "Reject a DM request",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			res, err := api.RejectDMRequest(cmd.Context(), args[0], block)
			if err != nil {
				return err
			}
			msg := "Request rejected"
			if block {
				msg = "Request rejected and sender blocked"
			}
			return a.done(res, msg)
		},
	}
	cmd.Flags().BoolVar(&block, "block", false, "block future requests from the sender")
	return cmd
}

func (a *app) dmListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dm-list",
		Short: "List your conversations",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			resp, err := api.Conversations(cmd.Context())
			if err != nil {
				return err
			}
			return show(a, resp, (*output.Renderer).Conversations)
		},
	}
}

func (a *app) dmReadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dm-read <conversation-id>",
		Short: "Read a conversation and mark it read",
		Args:  exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			api, err := a.api()
			if err != nil {
				return err
			}
			resp, err := api.Conversation(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return show(a, resp, func(r *output.Renderer, l models.List[models.Message]) {
				r.Messages(l, a.creds.AgentName)
			})
		},
	}
}

func (a *app) dmSendCmd() *cobra.Command {
	var message string
	var needsHuman bool
	cmd := &cobra.Command{
		Use:   "dm-send <conversation-id> [message]",
		Short: "Send a message in a conversation",
		Args:  rangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			text := pick(cmd.Flags(), "message", message, positional(args, 1))
			api, err := a.api()
			if err != nil {
				return err
			}
			res, err := api.SendDM(cmd.Context(), args[0], text, needsHuman)
			if err != nil {
				return err
			}
			return a.done(res, "Message sent")
		},
	}
	cmd.Flags().StringVar(&message, "message", "", "message text")
	cmd.Flags().BoolVar(&needsHuman, "needs-human", false, "flag that the recipient's human should weigh in")
	return cmd
}
