// Package cli implements the ksefctl administration commands.
package cli

import (
	"context"
	"fmt"
	"slices"

	"github.com/spf13/cobra"

	incomingsvc "github.com/chainsafe/ksef-middleware/pkg/incoming/service"
	"github.com/chainsafe/ksef-middleware/pkg/ksef"
	"github.com/chainsafe/ksef-middleware/pkg/ksefauth"
	submissionsvc "github.com/chainsafe/ksef-middleware/pkg/submission/service"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
	EnvFile    string
	Format     string // "json" | "text"
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// ConnectionTester probes the configured KSeF environment.
type ConnectionTester interface {
	Environment() ksef.Environment
	TestConnection(ctx context.Context) error
}

// CertificateSource describes the certificate configured for KSeF authentication.
type CertificateSource interface {
	ConfiguredCertificateInfo() (*ksefauth.CertInfo, error)
}

// Backend is the set of services a command operates on.
type Backend struct {
	Engine      submissionsvc.Engine
	Coordinator incomingsvc.Coordinator
	Connection  ConnectionTester
	Certificate CertificateSource
	Close       func() error
}

// BackendFactory builds a Backend from the global options.
type BackendFactory func(ctx context.Context, opts *RootOptions) (*Backend, error)

// NewRootCommand creates the root ksefctl command.
func NewRootCommand(factory BackendFactory) *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "ksefctl",
		Short: "Administer the KSeF middleware",
		Long: `ksefctl runs KSeF middleware operations directly against the configured
database and KSeF environment, bypassing the HTTP API.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "config.yaml", "path to configuration file")
	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", ".env", "optional dotenv file")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")

	r := &runner{opts: opts, factory: factory}
	cmd.AddCommand(newConnectionCommand(r))
	cmd.AddCommand(newFetchCommand(r))
	cmd.AddCommand(newSyncCommand(r))
	cmd.AddCommand(newSubmissionCommand(r))

	return cmd
}

type runner struct {
	opts    *RootOptions
	factory BackendFactory
}

// with builds the backend, runs fn and closes the backend afterwards.
func (r *runner) with(cmd *cobra.Command, fn func(context.Context, *Backend, *output) error) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	b, err := r.factory(ctx, r.opts)
	if err != nil {
		return err
	}
	if b.Close != nil {
		defer func() { _ = b.Close() }()
	}
	return fn(ctx, b, &output{format: r.opts.Format, w: cmd.OutOrStdout()})
}
