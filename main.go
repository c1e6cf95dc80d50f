package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/urfave/cli/v3"

	"github.com/wattzwebdesign/simply-qr/internal/api"
	"github.com/wattzwebdesign/simply-qr/internal/config"
	"github.com/wattzwebdesign/simply-qr/internal/middleware"
	"github.com/wattzwebdesign/simply-qr/internal/pkg/banner"
	"github.com/wattzwebdesign/simply-qr/internal/pkg/cache"
	"github.com/wattzwebdesign/simply-qr/internal/pkg/database"
	"github.com/wattzwebdesign/simply-qr/internal/pkg/geoip"
	"github.com/wattzwebdesign/simply-qr/internal/pkg/logger"
	"github.com/wattzwebdesign/simply-qr/internal/router"
	"github.com/wattzwebdesign/simply-qr/internal/service"
)

// Version info, set at build time via ldflags.
var (
	Version   = "v0.1.0"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	cmd := &cli.Command{
		Name:    "Simply QR API Server",
		Usage:   "QR code management and scan analytics backend",
		Version: Version,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "path to the config file",
			},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			configPath := cmd.String("config")

			if configPath == "" {
				possiblePaths := []string{
					"config.yaml",
					filepath.Join("config", "config.yaml"),
				}
				for _, path := range possiblePaths {
					if _, err := os.Stat(path); err == nil {
						configPath = path
						break
					}
				}
				if configPath == "" {
					return fmt.Errorf("no config file given and none found at config.yaml or config/config.yaml")
				}
			}

			return startApp(configPath)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		log.Fatalf("failed to start: %v", err)
	}
}

func startApp(configPath string) error {
	banner.Print(Version, Commit, BuildTime)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("load config: %v", err)
	}

	if err := logger.Setup(cfg.Log); err != nil {
		return fmt.Errorf("setup logger: %v", err)
	}
	logger.Info("configuration loaded")

	db, err := database.New(cfg.Database)
	if err != nil {
		return fmt.Errorf("setup database: %v", err)
	}
	defer func() {
		if err := database.Close(db); err != nil {
			logger.Errorf("closing database: %v", err)
		}
	}()

	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migrate database: %v", err)
	}
	logger.Info("database ready")

	cacheClient, err := cache.New(cfg.Redis)
	if err != nil {
		return fmt.Errorf("setup cache: %v", err)
	}
	if cacheClient != nil {
		defer cacheClient.Close()
		logger.Infof("redis cache enabled at %s", cfg.Redis.Addr)
	} else {
		logger.Info("redis cache disabled")
	}

	var geoClient service.GeoLookup
	if cfg.GeoIP.Enabled {
		geoClient = geoip.New(cfg.GeoIP.Endpoint, time.Duration(cfg.GeoIP.Timeout)*time.Second)
		logger.Info("geolocation lookups enabled")
	}

	qrService := service.NewQRCodeService(db, cacheClient)

	recorder := service.NewScanRecorder(
		qrService,
		geoClient,
		cfg.Scan.QueueSize,
		cfg.Scan.Workers,
		time.Duration(cfg.GeoIP.Timeout)*time.Second,
	)
	recorder.Start()
	defer recorder.Stop()
	logger.Infof("scan recorder started (%d workers, queue %d)", cfg.Scan.Workers, cfg.Scan.QueueSize)

	gin.SetMode(cfg.Server.Mode)
	r := gin.New()
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())

	handlers := router.Handlers{
		Auth:      api.NewAuthHandler(service.NewAuthService(db), cfg.JWT),
		QRCode:    api.NewQRCodeHandler(qrService, cfg.Server.BaseURL),
		Analytics: api.NewAnalyticsHandler(service.NewAnalyticsService(db)),
		Redirect:  api.NewRedirectHandler(qrService, recorder),
	}
	router.SetupRoutes(r, cfg, db, handlers)
	logger.Info("routes registered")

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("server listening on port %s", cfg.Server.Port)
		errCh <- r.Run(":" + cfg.Server.Port)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		return fmt.Errorf("server stopped: %v", err)
	case sig := <-quit:
		logger.Infof("received %s, shutting down", sig)
		return nil
	}
}
