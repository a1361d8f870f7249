package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	xhttp "EconPull/pkg/http"
	pkgkafka "EconPull/pkg/kafka"
	applogger "EconPull/pkg/logger"
)

// RunFunc is a background loop that returns when ctx is done.
type RunFunc func(ctx context.Context) error

type closer struct {
	name string
	fn   func() error
}

// App owns the lifecycle of one binary: an optional HTTP server, an
// optional Kafka consumer, background loops and resources to close.
type App struct {
	logger          *applogger.Logger
	httpServer      *xhttp.Server
	consumer        *pkgkafka.Consumer
	handlers        []pkgkafka.MessageHandler
	runners         map[string]RunFunc
	closers         []closer
	shutdownTimeout time.Duration
}

type Option func(*App)

func WithHTTPServer(s *xhttp.Server) Option {
	return func(a *App) { a.httpServer = s }
}

// WithConsumer registers handlers on c; a nil consumer is ignored.
func WithConsumer(c *pkgkafka.Consumer, handlers ...pkgkafka.MessageHandler) Option {
	return func(a *App) {
		if c == nil {
			return
		}
		a.consumer = c
		a.handlers = append(a.handlers, handlers...)
	}
}

func WithRunner(name string, fn RunFunc) Option {
	return func(a *App) { a.runners[name] = fn }
}

// WithCloser adds a resource closed on shutdown, in reverse order of registration.
func WithCloser(name string, fn func() error) Option {
	return func(a *App) {
		if fn != nil {
			a.closers = append(a.closers, closer{name: name, fn: fn})
		}
	}
}

func WithShutdownTimeout(d time.Duration) Option {
	return func(a *App) {
		if d > 0 {
			a.shutdownTimeout = d
		}
	}
}

func New(log *applogger.Logger, opts ...Option) *App {
	a := &App{
		logger:          log,
		runners:         make(map[string]RunFunc),
		shutdownTimeout: 15 * time.Second,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Run starts every component and blocks until SIGINT/SIGTERM, ctx
// cancellation, or a component failure, then shuts down.
func (a *App) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)

	if a.httpServer != nil {
		errCh := a.httpServer.Start()
		g.Go(func() error {
			select {
			case err, ok := <-errCh:
				if ok && err != nil {
					return fmt.Errorf("http server: %w", err)
				}
				return nil
			case <-gctx.Done():
				return nil
			}
		})
	}

	if a.consumer != nil {
		for _, h := range a.handlers {
			a.consumer.RegisterHandler(h)
			a.logger.Info("kafka handler registered", applogger.String("topic", h.Topic()))
		}
		if err := a.consumer.Start(); err != nil {
			return fmt.Errorf("kafka consumer: %w", err)
		}
	}

	for name, fn := range a.runners {
		g.Go(func() error {
			a.logger.Info("runner started", applogger.String("runner", name))
			if err := fn(gctx); err != nil && !errors.Is(err, context.Canceled) {
				return fmt.Errorf("%s: %w", name, err)
			}
			return nil
		})
	}

	<-gctx.Done()
	a.logger.Info("shutdown signal received")
	runErr := a.shutdown()
	if err := g.Wait(); err != nil {
		a.logger.Error("component failed", applogger.Error(err))
		return err
	}
	return runErr
}

func (a *App) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), a.shutdownTimeout)
	defer cancel()

	var errs []error
	if a.httpServer != nil {
		if err := a.httpServer.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	if a.consumer != nil {
		if err := a.consumer.Stop(ctx); err != nil {
			errs = append(errs, err)
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		c := a.closers[i]
		if err := c.fn(); err != nil {
			a.logger.Warn("close error", applogger.String("resource", c.name), applogger.Error(err))
		}
	}
	a.logger.Info("shutdown complete")
	return errors.Join(errs...)
}
