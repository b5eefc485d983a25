package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"gorm.io/gorm"

	"artisthub/internal/config"
	"artisthub/internal/database"
	"artisthub/internal/middleware"
	"artisthub/internal/modules/artist"
	"artisthub/internal/modules/auth"
	"artisthub/internal/modules/photo"
	"artisthub/internal/modules/song"
	jwtsvc "artisthub/internal/pkg/jwt"
	"artisthub/internal/pkg/tokenstore"
	"artisthub/internal/repository"
	"artisthub/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal(err)
	}
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed: ", err)
	}

	blobs, err := openBlobStore(ctx, cfg.Storage)
	if err != nil {
		log.Fatal(err)
	}

	revoker, closeRevoker := openRevoker(ctx, cfg)
	defer closeRevoker()

	j := jwtsvc.New(cfg.JWTSecret, cfg.JWTTTL)

	userRepo := repository.NewUserRepository(db)
	artistRepo := repository.NewArtistRepository(db)
	photoRepo := repository.NewPhotoRepository(db)
	songRepo := repository.NewSongRepository(db)

	authHandler := auth.NewHandler(auth.NewService(userRepo, j, revoker))
	artistHandler := artist.NewHandler(artist.NewService(artistRepo, userRepo, blobs), !cfg.IsProduction())
	photoHandler := photo.NewHandler(photo.NewService(artistRepo, photoRepo, blobs))
	songHandler := song.NewHandler(song.NewService(artistRepo, songRepo, blobs))

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewHTTPMetrics(registry)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(
		middleware.ErrorLogger(!cfg.IsProduction()),
		middleware.RequestLogger(),
		middleware.CORS(cfg.CORSAllowedOrigins),
		metrics.Handler(),
	)

	r.GET("/healthz", healthz(db))
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	if local, ok := blobs.(*storage.LocalStore); ok {
		r.Static("/storage", local.Dir())
	}

	v1 := r.Group("/api/v1")
	{
		// public
		authHandler.RegisterPublicRoutes(v1)
		artistHandler.RegisterPublicRoutes(v1)

		protected := v1.Group("")
		protected.Use(middleware.JWTAuth(j, revoker))
		{
			authHandler.RegisterProtectedRoutes(protected)
			artistHandler.RegisterProtectedRoutes(protected)
			photoHandler.RegisterRoutes(protected)
			songHandler.RegisterRoutes(protected)
		}
	}

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		log.Printf("http_listen_start addr=%s env=%s", cfg.HTTPAddr, cfg.AppEnv)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("http_serve_failed err=%v", err)
		}
	}()

	<-ctx.Done()
	log.Println("http_shutdown_start")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("http_shutdown_failed err=%v", err)
	}
}

func openBlobStore(ctx context.Context, cfg config.StorageConfig) (storage.BlobStore, error) {
	if cfg.Driver == config.StorageMinio {
		initCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		store, err := storage.NewMinioStore(initCtx, storage.MinioConfig{
			Endpoint:  cfg.MinioEndpoint,
			AccessKey: cfg.MinioAccessKey,
			SecretKey: cfg.MinioSecretKey,
			Bucket:    cfg.MinioBucket,
			UseSSL:    cfg.MinioUseSSL,
			PublicURL: cfg.PublicURL,
		})
		if err != nil {
			return nil, err
		}
		log.Printf("storage_ready driver=minio bucket=%s", cfg.MinioBucket)
		return store, nil
	}

	store, err := storage.NewLocalStore(cfg.LocalDir, cfg.PublicURL)
	if err != nil {
		return nil, err
	}
	log.Printf("storage_ready driver=local dir=%s", cfg.LocalDir)
	return store, nil
}

// openRevoker uses Redis when REDIS_ADDR is set, memory otherwise.
func openRevoker(ctx context.Context, cfg *config.Config) (tokenstore.Revoker, func()) {
	if cfg.RedisAddr == "" {
		log.Println("token_revoker=memory")
		return tokenstore.NewMemoryRevoker(), func() {}
	}

	rdb := tokenstore.NewRedisRevoker(cfg.RedisAddr, cfg.RedisPassword)
	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := rdb.Ping(pingCtx); err != nil {
		log.Fatalf("redis_connect_failed addr=%s err=%v", cfg.RedisAddr, err)
	}
	log.Printf("token_revoker=redis addr=%s", cfg.RedisAddr)
	return rdb, func() { _ = rdb.Close() }
}

func healthz(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.PingContext(c.Request.Context())
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
