package cli

import (
	"context"

	"github.com/spf13/cobra"

	incomingsvc "github.com/chainsafe/ksef-middleware/pkg/incoming/service"
)

func newFetchCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Drive the incoming invoice fetch",
	}

	ops := []struct {
		use, short string
		op         func(incomingsvc.Coordinator) func(context.Context) (*incomingsvc.FetchResult, error)
	}{
		{"init", "Start an incoming export job", func(c incomingsvc.Coordinator) func(context.Context) (*incomingsvc.FetchResult, error) {
			return c.InitIncomingFetch
		}},
		{"status", "Poll the running export job", func(c incomingsvc.Coordinator) func(context.Context) (*incomingsvc.FetchResult, error) {
			return c.CheckIncomingFetchStatus
		}},
		{"reset", "Abandon the running export job", func(c incomingsvc.Coordinator) func(context.Context) (*incomingsvc.FetchResult, error) {
			return c.ResetIncomingFetch
		}},
		{"ack", "Acknowledge a finished fetch and return to IDLE", func(c incomingsvc.Coordinator) func(context.Context) (*incomingsvc.FetchResult, error) {
			return c.AcknowledgeIncomingFetch
		}},
	}
	for _, o := range ops {
		cmd.AddCommand(&cobra.Command{
			Use:   o.use,
			Short: o.short,
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return r.with(cmd, func(ctx context.Context, b *Backend, out *output) error {
					res, err := o.op(b.Coordinator)(ctx)
					if err != nil {
						return err
					}
					return out.fetchResult(res)
				})
			},
		})
	}
	return cmd
}

func newSyncCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sync",
		Short: "Inspect or rewind the incoming sync state",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "state",
		Short: "Show the persisted sync state",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.with(cmd, func(ctx context.Context, b *Backend, out *output) error {
				st, err := b.Coordinator.SyncState(ctx)
				if err != nil {
					return err
				}
				return out.fetchResult(&incomingsvc.FetchResult{Outcome: incomingsvc.OutcomeForStatus(st.FetchStatus), State: st})
			})
		},
	})

	var days int
	rollback := &cobra.Command{
		Use:   "rollback",
		Short: "Move the continuation date back by a number of days",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.with(cmd, func(ctx context.Context, b *Backend, out *output) error {
				res, err := b.Coordinator.ResetIncomingSyncState(ctx, days)
				if err != nil {
					return err
				}
				return out.fetchResult(res)
			})
		},
	}
	rollback.Flags().IntVar(&days, "days", 0, "days to move the continuation date back")
	_ = rollback.MarkFlagRequired("days")
	cmd.AddCommand(rollback)

	return cmd
}
