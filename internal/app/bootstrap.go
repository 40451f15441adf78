package app

import (
	"context"
	"fmt"
	"strings"

	"jobmatch/internal/config"
	"jobmatch/internal/delivery/http/handler"
	"jobmatch/internal/delivery/http/middleware"
	"jobmatch/internal/delivery/http/routes"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"
)

type App struct {
	Fiber     *fiber.App
	Container *Container
}

// New builds the fiber app over an already wired container.
func New(c *Container) *App {
	errMw := middleware.NewErrorMiddleware(c.Log)
	f := fiber.New(fiber.Config{
		AppName:      c.Config.App.AppName,
		ErrorHandler: errMw.ErrorHandler,
	})

	registerGlobalMiddleware(f, c, errMw)
	registerRoutes(f, c)

	return &App{Fiber: f, Container: c}
}

// Bootstrap wires the container, makes sure a matching config exists and
// returns the app with its cleanup.
func Bootstrap(ctx context.Context, cfg config.Config, log *zap.Logger) (*App, func() error, error) {
	c, err := NewContainer(ctx, cfg, log)
	if err != nil {
		return nil, nil, err
	}

	if _, created, err := c.Profiles.EnsureDefault(ctx); err != nil {
		_ = c.Close()
		return nil, nil, fmt.Errorf("ensure default matching config: %w", err)
	} else if created {
		c.Log.Info("matching config initialised with defaults")
	}

	return New(c), c.Close, nil
}

func registerGlobalMiddleware(app *fiber.App, c *Container, errMw *middleware.ErrorMiddleware) {
	if app == nil {
		return
	}

	app.Use(middleware.NewAccessLogMiddleware(c.Log).Middleware())
	app.Use(errMw.Middleware())
	if t := c.Config.Matching.RequestTimeout; t > 0 {
		app.Use(middleware.Timeout(t))
	}
}

func registerRoutes(app *fiber.App, c *Container) {
	if app == nil {
		return
	}

	var cachePinger handler.Pinger
	if c.Config.Redis.Enabled {
		cachePinger = c.Cache
	}

	routes.NewRegistry(routes.Deps{
		JWT:      c.JWT,
		Store:    c.Store,
		Cache:    cachePinger,
		Recs:     c.Matching,
		Feedback: c.Feedback,
		Admin:    c.Profiles,
		Hub:      c.Hub,
	}).Register(app)
}

func ListenAddr(port string) (string, error) {
	p := strings.TrimSpace(port)
	if p == "" {
		return "", fmt.Errorf("empty HTTP port")
	}
	if strings.HasPrefix(p, ":") {
		return p, nil
	}
	return ":" + p, nil
}
