package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/dig"

	"dairyfresh-fulfillment/internal/logx"
	"dairyfresh-fulfillment/internal/service/generation"
)

// Runner runs the HTTP service.
type Runner struct {
	runFn func(*dig.Container) error
}

// NewRunner returns a new Runner
func NewRunner() *Runner {
	return &Runner{runFn: run}
}

// MustRun starts the HTTP service using the provided DI container
func (r *Runner) MustRun(container *dig.Container) {
	err := r.runFn(container)
	if err == nil {
		return
	}
	invErr := container.Invoke(func(logger logx.Logger) {
		switch {
		case errors.Is(err, context.Canceled):
			logger.Info("shutdown requested, exiting")
		case errors.Is(err, context.DeadlineExceeded):
			logger.Info("startup aborted: startup timeout exceeded")
		default:
			panic(err)
		}
	})
	if invErr != nil {
		panic(err)
	}
}

type runIn struct {
	dig.In

	Ctx       context.Context
	Server    *http.Server
	Pprof     *http.Server `name:"pprof_server" optional:"true"`
	Pool      *pgxpool.Pool
	Logger    logx.Logger
	Generator *generation.Service
	Interval  sweepInterval
}

func run(container *dig.Container) error {
	return container.Invoke(func(in runIn) error {
		startServer(in.Server, in.Logger)
		startPprofServer(in.Pprof, in.Logger)
		startGenerationLoop(in.Ctx, in.Logger, in.Generator, time.Duration(in.Interval))
		waitForShutdown(in.Ctx, in.Logger)
		gracefulShutdown(in.Server, in.Logger, 15*time.Second)
		closeResources(in.Pool, in.Server, in.Pprof, in.Logger)
		return in.Ctx.Err()
	})
}

func startServer(server *http.Server, logger logx.Logger) {
	go func() {
		logger.Info("service-fulfillment listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("listen error", logx.Err(err))
		}
	}()
}

func startPprofServer(server *http.Server, logger logx.Logger) {
	if server == nil {
		return
	}
	go func() {
		logger.Info("pprof listening", logx.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("pprof listen error", logx.Err(err))
		}
	}()
}

// orderGenerator is the slice of generation.Service the sweep loop needs.
type orderGenerator interface {
	GenerateForDate(ctx context.Context, date time.Time) (generation.Summary, error)
}

// startGenerationLoop periodically materializes orders for today. The HTTP
// trigger and the kafka job do the same work; the loop is the safety net when
// neither fires.
func startGenerationLoop(ctx context.Context, logger logx.Logger, gen orderGenerator, interval time.Duration) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sum, err := gen.GenerateForDate(ctx, time.Now().UTC())
				if err != nil {
					logger.Error("generation sweep failed", logx.Err(err))
					continue
				}
				if sum.Processed > 0 {
					logger.Info("generation sweep done",
						logx.Int("processed", sum.Processed),
						logx.Int("succeeded", sum.Succeeded),
						logx.Int("skipped", sum.Skipped),
						logx.Int("failed", sum.Failed),
					)
				}
			}
		}
	}()
}

func waitForShutdown(ctx context.Context, logger logx.Logger) {
	<-ctx.Done()
	logger.Info("shutting down service-fulfillment...")
}

func gracefulShutdown(srv *http.Server, logger logx.Logger, timeout time.Duration) {
	shCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shCtx); err != nil {
		logger.Warn("graceful shutdown error", logx.Err(err))
	}
}

func closeResources(pool *pgxpool.Pool, server *http.Server, pprofSrv *http.Server, logger logx.Logger) {
	if err := server.Close(); err != nil {
		logger.Warn("server close error", logx.Err(err))
	}
	if pprofSrv != nil {
		if err := pprofSrv.Close(); err != nil {
			logger.Warn("pprof close error", logx.Err(err))
		}
	}
	if pool != nil {
		pool.Close()
	}
}
