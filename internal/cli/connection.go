package cli

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/chainsafe/ksef-middleware/pkg/ksef"
)

func newConnectionCommand(r *runner) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "connection",
		Short: "KSeF connectivity",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "test",
		Short: "Check that the configured KSeF environment is reachable",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.with(cmd, func(ctx context.Context, b *Backend, out *output) error {
				env := b.Connection.Environment()
				if err := b.Connection.TestConnection(ctx); err != nil {
					kerr := ksef.AsError(err)
					if out.format == "json" {
						_ = out.json(map[string]any{"environment": env, "status": "error", "error": kerr})
					}
					return kerr
				}
				if out.format == "json" {
					return out.json(map[string]any{"environment": env, "status": "ok"})
				}
				out.printf("%s: ok\n", env)
				return nil
			})
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "cert",
		Short: "Show the configured authentication certificate",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return r.with(cmd, func(_ context.Context, b *Backend, out *output) error {
				info, err := b.Certificate.ConfiguredCertificateInfo()
				if err != nil {
					return err
				}
				if out.format == "json" {
					return out.json(info)
				}
				out.printf("subject: %s\nissuer: %s\nserial: %s\nvalid: %s - %s\n",
					info.Subject, info.Issuer, info.Serial,
					info.NotBefore.Format(time.RFC3339), info.NotAfter.Format(time.RFC3339))
				return nil
			})
		},
	})
	return cmd
}
