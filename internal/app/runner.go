package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"go.uber.org/dig"
	"google.golang.org/grpc"

	"droneDispatch/internal/config"
	"droneDispatch/internal/dispatcher"
	"droneDispatch/internal/events"
	grpcserver "droneDispatch/internal/grpc"
	"droneDispatch/internal/logx"
	"droneDispatch/repository"
)

const shutdownTimeout = 15 * time.Second

type runParams struct {
	dig.In

	Ctx        context.Context
	Config     *config.Config
	Logger     logx.Logger
	DB         *sql.DB
	HTTP       *http.Server
	GRPC       *grpc.Server
	Dispatcher *dispatcher.Service
	Users      *repository.UserRepository
	Interval   dispatchInterval
	Consumer   *events.Consumer `optional:"true"`
	Producer   *events.Producer `optional:"true"`
}

// Run starts every server and background loop from the container and blocks until the
// container's context is cancelled, then shuts everything down. A clean shutdown
// returns context.Canceled.
func Run(container *dig.Container) error {
	return container.Invoke(run)
}

func run(p runParams) error {
	logger := p.Logger
	ctx, cancel := context.WithCancel(p.Ctx)
	defer cancel()

	if err := ensureAdmin(ctx, p.Users, p.Config.Auth.AdminUser, logger); err != nil {
		closeResources(p, logger)
		return fmt.Errorf("bootstrap admin: %w", err)
	}

	stopGRPC, err := grpcserver.Start(p.GRPC, p.Config.GRPC.Address)
	if err != nil {
		closeResources(p, logger)
		return err
	}
	logger.Info("grpc listening", logx.String("addr", p.Config.GRPC.Address))

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", logx.String("addr", p.HTTP.Addr))
		if err := p.HTTP.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	var wg sync.WaitGroup
	if p.Consumer != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := p.Consumer.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("kafka consumer stopped", logx.Err(err))
			}
		}()
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		runDispatchLoop(ctx, p.Dispatcher, time.Duration(p.Interval), logger)
	}()

	var runErr error
	select {
	case <-ctx.Done():
		runErr = ctx.Err()
		logger.Info("shutting down")
	case runErr = <-errCh:
		logger.Error("http server failed", logx.Err(runErr))
		cancel()
	}

	shCtx, shCancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer shCancel()
	if err := p.HTTP.Shutdown(shCtx); err != nil {
		logger.Error("http shutdown error", logx.Err(err))
	}
	if err := stopGRPC(shCtx); err != nil {
		logger.Error("grpc shutdown error", logx.Err(err))
	}
	wg.Wait()
	closeResources(p, logger)
	return runErr
}

func closeResources(p runParams, logger logx.Logger) {
	if err := p.Consumer.Close(); err != nil {
		logger.Error("kafka consumer close error", logx.Err(err))
	}
	if err := p.Producer.Close(); err != nil {
		logger.Error("kafka producer close error", logx.Err(err))
	}
	if p.DB != nil {
		if err := p.DB.Close(); err != nil {
			logger.Error("db close error", logx.Err(err))
		}
	}
}
