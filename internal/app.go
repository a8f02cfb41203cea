package internal

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"meshagotchi/internal/controllers"
	"meshagotchi/internal/game"
	"meshagotchi/internal/game/interfaces"
	"meshagotchi/internal/providers"
	"meshagotchi/internal/structures"
	"meshagotchi/internal/transport"
)

type App struct {
	WebServer *http.Server
}

// NewApp assembles the daemon: the admin HTTP endpoint, the background
// scheduler (persistence + notification sweeps) and the mesh poll loop
// feeding the command engine. It blocks until a shutdown signal arrives.
func NewApp(healthController *controllers.HealthController, scheduler interfaces.SchedulerInterface, engine *game.Engine, trans transport.TransportInterface, conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) (*App, error) {
	adminMux := http.NewServeMux()
	adminMux.HandleFunc("/health", healthController.Health)
	if conf.Metrics.Enabled {
		adminMux.Handle("/metrics", promhttp.Handler())
	}
	instrumented := providers.MetricsMiddleware(metrics, adminMux)

	logger.Infof(providers.TypeApp, "Starting %s", conf.AppName)
	err := scheduler.Restore()
	if err != nil {
		logger.Errorf(providers.TypeApp, "Restore error: %s", err)
	}

	app := &App{
		WebServer: &http.Server{
			Addr:         conf.WebServer.Host + ":" + strconv.Itoa(conf.WebServer.Port),
			Handler:      instrumented,
			ReadTimeout:  5 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
	}

	scheduler.Init()

	serverErr := make(chan error, 1)
	go func() {
		logger.Infof(providers.TypeApp, "Listening HTTP clients on %s:%d", conf.WebServer.Host, conf.WebServer.Port)
		if err := app.WebServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	loopCtx, loopCancel := context.WithCancel(context.Background())
	loopDone := make(chan struct{})
	go pollLoop(loopCtx, loopDone, engine, trans, conf, logger)

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		logger.Infof(providers.TypeApp, "Shutdown signal received")
	case err := <-serverErr:
		loopCancel()
		return nil, fmt.Errorf("server error: %w", err)
	}

	loopCancel()
	<-loopDone
	scheduler.Stop()
	trans.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err = app.WebServer.Shutdown(ctx); err != nil {
		return nil, err
	}
	err = scheduler.Persist()
	if err != nil {
		return nil, err
	}
	logger.Infof(providers.TypeApp, "gracefully stopped")
	return app, nil
}

// pollLoop drains inbound mesh messages on a fixed interval and routes
// each one through the command engine, sending the response frames back
// to the originating node.
func pollLoop(ctx context.Context, done chan<- struct{}, engine *game.Engine, trans transport.TransportInterface, conf *structures.Config, logger providers.Logger) {
	defer close(done)

	interval := conf.Transport.PollInterval
	if interval <= 0 {
		interval = 5 * time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			messages, err := trans.Poll()
			if err != nil {
				logger.Warnf(providers.TypeMesh, "Poll failed: %s", err)
				continue
			}
			for _, msg := range messages {
				logger.Debugf(providers.TypeMesh, "Inbound %s from %s", msg.ID, msg.NodeID)
				for _, frame := range engine.HandleCommand(msg.NodeID, msg.Text) {
					if err := trans.Send(msg.NodeID, frame); err != nil {
						logger.Errorf(providers.TypeMesh, "Reply to %s failed: %s", msg.NodeID, err)
						break
					}
				}
			}
		}
	}
}
