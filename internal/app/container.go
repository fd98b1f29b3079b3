// Package app wires the dispatch service together and runs it.
package app

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/dig"
	"google.golang.org/grpc"

	"droneDispatch/internal/auth"
	"droneDispatch/internal/config"
	"droneDispatch/internal/db"
	"droneDispatch/internal/dispatcher"
	"droneDispatch/internal/events"
	"droneDispatch/internal/fleet"
	grpcserver "droneDispatch/internal/grpc"
	"droneDispatch/internal/httpapi"
	"droneDispatch/internal/logx"
	"droneDispatch/internal/metrics"
	"droneDispatch/repository"
)

// dispatchInterval is the period of the background dispatch pass. Zero disables it.
type dispatchInterval time.Duration

// ContainerBuilder is a dig container builder.
type ContainerBuilder struct {
	cfg        *config.Config
	openDB     func(string) (*sql.DB, error)
	registerer prometheus.Registerer
	logOut     io.Writer
}

// NewContainerBuilder returns a builder for cfg with production defaults.
func NewContainerBuilder(cfg *config.Config) *ContainerBuilder {
	return &ContainerBuilder{
		cfg:        cfg,
		openDB:     db.Open,
		registerer: prometheus.DefaultRegisterer,
		logOut:     os.Stdout,
	}
}

// WithOpenDB replaces the database opener.
func (b *ContainerBuilder) WithOpenDB(fn func(string) (*sql.DB, error)) *ContainerBuilder {
	if fn != nil {
		b.openDB = fn
	}
	return b
}

// WithRegisterer sets where dispatch metrics are registered.
func (b *ContainerBuilder) WithRegisterer(reg prometheus.Registerer) *ContainerBuilder {
	if reg != nil {
		b.registerer = reg
	}
	return b
}

// WithLogOutput redirects the JSON logger.
func (b *ContainerBuilder) WithLogOutput(w io.Writer) *ContainerBuilder {
	if w != nil {
		b.logOut = w
	}
	return b
}

// Build returns a container providing every component of the service.
func (b *ContainerBuilder) Build(ctx context.Context) (*dig.Container, error) {
	if b.cfg == nil {
		return nil, fmt.Errorf("config is required")
	}
	container := dig.New()

	if err := b.registerCore(container, ctx); err != nil {
		return nil, fmt.Errorf("core: %w", err)
	}
	if err := b.registerDB(container); err != nil {
		return nil, fmt.Errorf("DB: %w", err)
	}
	if err := registerService(container); err != nil {
		return nil, fmt.Errorf("service: %w", err)
	}
	if err := registerEvents(container); err != nil {
		return nil, fmt.Errorf("events: %w", err)
	}
	if err := registerTransport(container); err != nil {
		return nil, fmt.Errorf("transport: %w", err)
	}
	return container, nil
}

func provideAll(container *dig.Container, providers ...any) error {
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return fmt.Errorf("provide %T: %w", provider, err)
		}
	}
	return nil
}

func (b *ContainerBuilder) registerCore(container *dig.Container, ctx context.Context) error {
	return provideAll(container,
		func() context.Context { return ctx },
		func() *config.Config { return b.cfg },
		func(cfg *config.Config) logx.Logger { return logx.NewJSON(b.logOut, cfg.Log.Level) },
		func(cfg *config.Config) dispatchInterval { return dispatchInterval(cfg.Dispatch.Interval) },
		func() (*metrics.Dispatch, error) { return metrics.NewDispatch(b.registerer) },
	)
}

func (b *ContainerBuilder) registerDB(container *dig.Container) error {
	return provideAll(container, func(cfg *config.Config) (*sql.DB, error) {
		return b.openDB(cfg.Database.Path)
	})
}

func registerService(container *dig.Container) error {
	return provideAll(container,
		repository.NewDroneRepository,
		repository.NewOrderRepository,
		repository.NewRestaurantRepository,
		repository.NewUserRepository,
		repository.NewDispatchRepository,
		func(d *repository.DroneRepository, r *repository.RestaurantRepository, cfg *config.Config) *fleet.Service {
			return fleet.NewService(d, r, cfg.Dispatch.OperationTimeout)
		},
		func(
			drones *repository.DroneRepository,
			orders *repository.OrderRepository,
			restaurants *repository.RestaurantRepository,
			assigner *repository.DispatchRepository,
			producer *events.Producer,
			m *metrics.Dispatch,
			logger logx.Logger,
			cfg *config.Config,
		) *dispatcher.Service {
			opts := []dispatcher.Option{
				dispatcher.WithMetrics(m),
				dispatcher.WithLogger(logger.With(logx.Component("dispatcher"))),
				dispatcher.WithOperationTimeout(cfg.Dispatch.OperationTimeout),
				dispatcher.WithMaxAssignAttempts(cfg.Dispatch.MaxAssignAttempts),
			}
			if producer != nil {
				opts = append(opts, dispatcher.WithPublisher(producer))
			}
			return dispatcher.NewService(dispatcher.Stores{
				Drones:      drones,
				Orders:      orders,
				Restaurants: restaurants,
				Dispatch:    assigner,
			}, opts...)
		},
	)
}

func registerEvents(container *dig.Container) error {
	return provideAll(container,
		func(cfg *config.Config) (*events.Producer, error) {
			return events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.AssignmentsTopic)
		},
		func(cfg *config.Config, logger logx.Logger, svc *dispatcher.Service) (*events.Consumer, error) {
			k := cfg.Kafka
			return events.NewConsumer(logger, k.Brokers, k.GroupID, k.OrdersTopic, svc.HandleOrderPlaced)
		},
	)
}

func registerTransport(container *dig.Container) error {
	routerProvider := func(
		cfg *config.Config,
		f *fleet.Service,
		d *dispatcher.Service,
		users *repository.UserRepository,
		logger logx.Logger,
	) http.Handler {
		h := httpapi.NewHandler(f, d, logger)
		return httpapi.NewRouter(h, httpapi.RouterConfig{
			JWTSecret: cfg.Auth.JWTSecret,
			Users:     userLookup(users),
			Logger:    logger,
		})
	}
	serverProvider := func(cfg *config.Config, mux http.Handler) *http.Server {
		return &http.Server{
			Addr:              cfg.HTTP.Address,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
			ReadTimeout:       15 * time.Second,
			WriteTimeout:      15 * time.Second,
			IdleTimeout:       60 * time.Second,
		}
	}
	grpcProvider := func(cfg *config.Config, d *dispatcher.Service, users *repository.UserRepository, logger logx.Logger) *grpc.Server {
		return grpcserver.NewServer(d, grpcserver.Config{
			JWTSecret: cfg.Auth.JWTSecret,
			Users:     userLookup(users),
			Logger:    logger.With(logx.Component("grpc")),
		})
	}
	return provideAll(container, routerProvider, serverProvider, grpcProvider)
}

// userLookup keeps a nil repository from becoming a non-nil interface.
func userLookup(users *repository.UserRepository) auth.UserLookup {
	if users == nil {
		return nil
	}
	return users
}
