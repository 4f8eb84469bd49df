package bootstrap

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/locvowork/array_to_excel/internal/config"
	"github.com/locvowork/array_to_excel/internal/handler"
	"github.com/locvowork/array_to_excel/internal/logger"
	"github.com/locvowork/array_to_excel/internal/service"
	"github.com/locvowork/array_to_excel/internal/toolserver"
	"github.com/locvowork/array_to_excel/pkg/arrayexcel"
)

type App struct {
	Echo      *echo.Echo
	Converter service.ConverterService
	Tools     *toolserver.ToolServer
}

func NewApp() *App {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	return &App{
		Echo: e,
	}
}

func (a *App) Initialize(ctx context.Context) error {
	// Load environment configuration
	if err := config.LoadEnvConfig(); err != nil {
		return fmt.Errorf("failed to load env config: %w", err)
	}
	cfg := config.DefaultEnvConfig

	// Initialize logging
	logger.InitLogging(cfg.LOG_FILE_PATH, cfg.LOG_LEVEL)
	logger.InfoLog(ctx, "Environment variables loaded successfully")

	// Initialize dependencies
	converter := arrayexcel.New(arrayexcel.WithLogger(logger.Get()))
	a.Converter = service.NewConverterService(converter)
	convertHandler := handler.NewConvertHandler(a.Converter)
	a.Tools = toolserver.New(cfg.MCP_SERVER_NAME, cfg.MCP_SERVER_VERSION, a.Converter)

	// Register Middlewares
	a.RegisterMiddlewares()

	// Register Routes
	a.RegisterRoutes(convertHandler)

	return nil
}

func (a *App) RegisterMiddlewares() {
	a.Echo.Use(middleware.RequestID())
	a.Echo.Use(requestContext(config.DefaultEnvConfig.REQUEST_TIMEOUT))
	a.Echo.Use(middleware.Recover())
	a.Echo.Use(middleware.BodyLimit(config.DefaultEnvConfig.BODY_LIMIT))
}

func (a *App) RegisterRoutes(convertHandler *handler.ConvertHandler) {
	a.Echo.GET("/healthz", convertHandler.HealthHandler)

	apiGroup := a.Echo.Group("/api/v1")
	apiGroup.POST("/convert", convertHandler.ConvertHandler)
}

// Run serves HTTP until ctx is cancelled, then shuts down gracefully.
func (a *App) Run(ctx context.Context) error {
	addr := ":" + config.DefaultEnvConfig.APP_PORT
	errCh := make(chan error, 1)
	go func() {
		logger.InfoLog(ctx, "HTTP server listening on %s", addr)
		errCh <- a.Echo.Start(addr)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	logger.InfoLog(ctx, "Shutting down HTTP server")
	return a.Echo.Shutdown(shutdownCtx)
}

// RunTools serves the MCP tool over stdio.
func (a *App) RunTools(ctx context.Context) error {
	logger.InfoLog(ctx, "Serving MCP tool %s over stdio", toolserver.ToolName)
	return a.Tools.ServeStdio()
}

// requestContext attaches the request ID and a deadline to every request, and
// logs its outcome.
func requestContext(timeout time.Duration) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			req := c.Request()
			ctx := logger.WithRequestID(req.Context(), c.Response().Header().Get(echo.HeaderXRequestID))
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			c.SetRequest(req.WithContext(ctx))

			err := next(c)
			if err != nil {
				c.Error(err)
			}
			logger.InfoLog(ctx, "%s %s -> %d (%s)", req.Method, req.URL.Path, c.Response().Status, time.Since(start))
			return nil
		}
	}
}
