package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/chainsafe/ksef-middleware/internal/cli"
	"github.com/chainsafe/ksef-middleware/pkg/config"
	incomingsvc "github.com/chainsafe/ksef-middleware/pkg/incoming/service"
	"github.com/chainsafe/ksef-middleware/pkg/ksefapi"
	"github.com/chainsafe/ksef-middleware/pkg/ksefauth"
	"github.com/chainsafe/ksef-middleware/pkg/ksefstore"
	"github.com/chainsafe/ksef-middleware/pkg/pgutil"
	submissionsvc "github.com/chainsafe/ksef-middleware/pkg/submission/service"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := cli.NewRootCommand(newBackend).ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newBackend wires the same services as ksef-server, minus HTTP and the scheduler.
func newBackend(_ context.Context, opts *cli.RootOptions) (*cli.Backend, error) {
	if err := godotenv.Load(opts.EnvFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return nil, fmt.Errorf("setup logger: %w", err)
	}

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		return nil, err
	}

	client, err := ksefapi.New(&cfg.KSeF, ksefapi.WithLogger(logger.Named("ksefapi")))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create ksef client: %w", err)
	}
	auth, err := ksefauth.NewProvider(client, &cfg.KSeF, ksefauth.WithLogger(logger.Named("ksefauth")))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create ksef auth provider: %w", err)
	}

	env := client.Environment()
	store := ksefstore.NewStore(db)

	return &cli.Backend{
		Engine: submissionsvc.NewLog(
			submissionsvc.NewEngine(store, client, auth, env, cfg.Submission,
				submissionsvc.WithLogger(logger.Named("submission"))),
			logger,
		),
		Coordinator: incomingsvc.NewLog(
			incomingsvc.NewCoordinator(store, client, auth, env, cfg.Incoming,
				incomingsvc.WithLogger(logger.Named("incoming"))),
			logger,
		),
		Connection:  client,
		Certificate: auth,
		Close: func() error {
			_ = logger.Sync()
			return db.Close()
		},
	}, nil
}
