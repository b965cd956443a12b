package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	_ "overlay_editor_service/cmd/editor_service/docs" // swagger doc
	"overlay_editor_service/internal/editor/app"
	"overlay_editor_service/internal/editor/domain"
	"overlay_editor_service/internal/editor/repository"
	"overlay_editor_service/internal/editor/router"
	"overlay_editor_service/pkg/config"
	"overlay_editor_service/pkg/database"
	"overlay_editor_service/pkg/logger"
	testtool "overlay_editor_service/pkg/test_tool"

	"github.com/gofiber/fiber/v2"
	fiber_log "github.com/gofiber/fiber/v2/middleware/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

func main() {
	logger.Log = logger.Initialize(config.EnvConfig.EditorService, config.EnvConfig.EditorServiceLogPath)
	defer logger.Log.Sync()

	cfg, err := config.LoadConfig[config.EditorService](config.EnvConfig.EditorService, config.EnvConfig.EditorServiceYAMLPath)
	if err != nil {
		logger.Log.Fatal("load config failed", zap.Error(err))
	}
	if config.EnvConfig.EditorServicePort != "" {
		cfg.Port = config.EnvConfig.EditorServicePort
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// 1. backend base url, resolved once
	apiBase := config.ResolveAPIBase(os.LookupEnv, config.IsLocal())
	localOrigin := "http://127.0.0.1:" + cfg.Port
	logger.Log.Info("render backend", zap.String("apiBase", apiBase), zap.Bool("local", config.IsLocal()))
	render := repository.NewRenderClient(apiBase, localOrigin, cfg.Render.RequestTimeout)

	// 2. result sink
	sink, err := newResultSink(ctx, cfg.Sink)
	if err != nil {
		logger.Log.Fatal("create result sink failed", zap.String("type", cfg.Sink.Type), zap.Error(err))
	}

	// 3. session
	policy := domain.AllowOffCanvas
	if cfg.Editor.ClampPercent {
		policy = domain.ClampPercent
	}
	maxUpload := cfg.Editor.MaxUploadMB * 1024 * 1024
	session := app.NewSession(render, sink, app.SessionConfig{
		Policy:        policy,
		MaxUploadSize: maxUpload,
		HealthTimeout: cfg.Render.HealthTimeout,
		PollInterval:  cfg.Render.PollInterval,
	})

	// 4. fiber
	r := fiber.New(fiber.Config{
		BodyLimit:             int(maxUpload) + 1024*1024,
		DisableStartupMessage: config.IsProduction(),
	})
	file, err := os.OpenFile(fmt.Sprintf("%s/access.log", config.EnvConfig.EditorServiceLogPath), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		logger.Log.Fatal("open access log failed", zap.Error(err))
	}
	defer file.Close()

	r.Use(fiber_log.New(fiber_log.Config{
		Output: file,
	}))

	router.RegisterRoutes(r,
		app.NewEditorHandler(session, cfg.Editor.UploadDir, maxUpload),
		app.NewEditorWebsocketHandler(session))
	if config.IsLocal() {
		target := config.ResolveProxyTarget(os.LookupEnv, cfg.Render.ProxyTarget)
		router.RegisterDevProxy(r, target)
		logger.Log.Info("dev proxy", zap.String("from", "/api/*"), zap.String("to", target))
		testtool.StartPprof(":6060")
	}

	// 5. serve until a signal arrives
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Log.Info("editor service listening", zap.String("port", cfg.Port))
		return r.Listen(":" + cfg.Port)
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Log.Info("shutting down")
		session.Close()
		return r.ShutdownWithTimeout(10 * time.Second)
	})
	if err := g.Wait(); err != nil {
		logger.Log.Error("editor service stopped", zap.Error(err))
	}
}

func newResultSink(ctx context.Context, cfg config.SinkConfig) (repository.ResultSink, error) {
	switch cfg.Type {
	case "minio":
		mc, err := database.NewMinIOConnection(ctx, database.MinIOConnection{
			Endpoint:      cfg.MinIO.Host + ":" + strconv.Itoa(cfg.MinIO.Port),
			User:          cfg.MinIO.User,
			Password:      cfg.MinIO.Password,
			BucketName:    cfg.MinIO.BucketName,
			UseSSL:        cfg.MinIO.UseSSL,
			RetryCount:    cfg.MinIO.RetryCount,
			RetryInterval: time.Duration(cfg.MinIO.RetryInterval),
		})
		if err != nil {
			return nil, err
		}
		return repository.NewMinIOSink(mc, time.Hour), nil
	default:
		return repository.NewFileSink(cfg.Dir)
	}
}
