// Package api implements app.Runner for the KSeF middleware server process.
package api

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apperrors "github.com/chainsafe/ksef-middleware/pkg/app/errors"
	apphttp "github.com/chainsafe/ksef-middleware/pkg/app/http"
	"github.com/chainsafe/ksef-middleware/pkg/config"
	incomingsvc "github.com/chainsafe/ksef-middleware/pkg/incoming/service"
	"github.com/chainsafe/ksef-middleware/pkg/ksef"
	"github.com/chainsafe/ksef-middleware/pkg/ksefapi"
	"github.com/chainsafe/ksef-middleware/pkg/ksefauth"
	"github.com/chainsafe/ksef-middleware/pkg/ksefstore"
	"github.com/chainsafe/ksef-middleware/pkg/pgutil"
	"github.com/chainsafe/ksef-middleware/pkg/scheduler"
	submissionsvc "github.com/chainsafe/ksef-middleware/pkg/submission/service"
)

// Server holds cfg to init the KSeF middleware server.
type Server struct {
	cfg *config.Config
}

// NewServer initializes new server.
func NewServer(cfg *config.Config) *Server {
	return &Server{cfg: cfg}
}

// connectionTester is the KSeF reachability probe behind GET /connection.
type connectionTester interface {
	Environment() ksef.Environment
	TestConnection(ctx context.Context) error
}

func (s *Server) Run() error {
	if s.cfg == nil {
		return fmt.Errorf("server config is nil")
	}
	cfg := s.cfg

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger, err := config.NewLogger(cfg.Logging)
	if err != nil {
		return fmt.Errorf("setup logger: %w", err)
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting KSeF middleware",
		zap.String("environment", cfg.KSeF.Environment),
		zap.String("host", cfg.Server.Host),
		zap.Int("port", cfg.Server.Port),
	)

	db, err := pgutil.ConnectDB(&cfg.Database)
	if err != nil {
		return err
	}
	defer db.Close()

	logger.Info("Connected to database",
		zap.String("host", cfg.Database.Host),
		zap.String("database", cfg.Database.Database),
	)

	client, err := ksefapi.New(&cfg.KSeF, ksefapi.WithLogger(logger.Named("ksefapi")))
	if err != nil {
		return fmt.Errorf("create ksef client: %w", err)
	}
	auth, err := ksefauth.NewProvider(client, &cfg.KSeF, ksefauth.WithLogger(logger.Named("ksefauth")))
	if err != nil {
		return fmt.Errorf("create ksef auth provider: %w", err)
	}
	env := client.Environment()
	store := ksefstore.NewStore(db)

	engine := submissionsvc.NewLog(
		submissionsvc.NewEngine(store, client, auth, env, cfg.Submission,
			submissionsvc.WithLogger(logger.Named("submission"))),
		logger,
	)
	coordinator := incomingsvc.NewLog(
		incomingsvc.NewCoordinator(store, client, auth, env, cfg.Incoming,
			incomingsvc.WithLogger(logger.Named("incoming"))),
		logger,
	)

	stopScheduler := s.startScheduler(coordinator, engine, logger)
	// Stopped explicitly after ServeAndWait returns; the defer covers early exits.
	defer stopScheduler()

	router := s.setupRouter(engine, coordinator, client, logger)

	err = apphttp.ServeAndWait(ctx, router, logger, &cfg.Server)

	stopScheduler()

	return err
}

func (s *Server) startScheduler(
	coordinator incomingsvc.Coordinator,
	engine submissionsvc.Engine,
	logger *zap.Logger,
) func() {
	if !s.cfg.Scheduler.Enabled {
		return func() {}
	}

	sched := scheduler.New(s.cfg.Scheduler, coordinator, engine, logger.Named("scheduler"))
	sched.Start()

	stopped := false
	return func() {
		if stopped {
			return
		}
		stopped = true
		sched.Stop()
	}
}

func (s *Server) setupRouter(
	engine submissionsvc.Engine,
	coordinator incomingsvc.Coordinator,
	tester connectionTester,
	logger *zap.Logger,
) chi.Router {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.cfg.Server.RequestTimeout))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})

	if s.cfg.Monitoring.Enabled {
		r.Handle(s.cfg.Monitoring.MetricsPath, promhttp.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		submissionsvc.RegisterRoutes(r, engine, logger)
		incomingsvc.RegisterRoutes(r, coordinator, logger)
		r.Get("/connection", apphttp.HandleError(connectionHandler(tester)))
	})

	return r
}

func connectionHandler(tester connectionTester) apphttp.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) error {
		if err := tester.TestConnection(r.Context()); err != nil {
			return apperrors.FromKSeF(ksef.AsError(err))
		}
		apphttp.WriteJSON(w, http.StatusOK, map[string]string{
			"environment": string(tester.Environment()),
			"status":      "ok",
		})
		return nil
	}
}
