package cli

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

func newSubmissionCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "submission",
		Short: "Inspect outbound invoice submissions",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "check <submission-id>",
		Short: "Poll KSeF for the status of a submission",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("invalid submission ID %q: %w", args[0], err)
			}
			return r.with(cmd, func(ctx context.Context, b *Backend, out *output) error {
				res, err := b.Engine.CheckStatus(ctx, id)
				if err != nil {
					return err
				}
				return out.submissionResult(res)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "attention",
		Short: "List offline submissions that still need to be sent",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.with(cmd, func(ctx context.Context, b *Backend, out *output) error {
				list, err := b.Engine.NeedsAttention(ctx)
				if err != nil {
					return err
				}
				return out.submissions(list)
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "stats",
		Short: "Count invoices by the status of their latest submission",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.with(cmd, func(ctx context.Context, b *Backend, out *output) error {
				stats, err := b.Engine.Statistics(ctx)
				if err != nil {
					return err
				}
				if out.format == "json" {
					return out.json(stats)
				}
				out.printf("environment: %s total: %d\n", stats.Environment, stats.Total)
				for status, n := range stats.Counts {
					out.printf("  %s: %d\n", status, n)
				}
				return nil
			})
		},
	})

	return cmd
}
