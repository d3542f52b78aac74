package app

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/MrSnakeDoc/linkroll/internal/config"
	"github.com/MrSnakeDoc/linkroll/internal/httpserver"
	"github.com/MrSnakeDoc/linkroll/internal/httpserver/deps"
	"github.com/MrSnakeDoc/linkroll/internal/index"
	"github.com/MrSnakeDoc/linkroll/internal/logger"
	"github.com/MrSnakeDoc/linkroll/internal/redis"
	"github.com/MrSnakeDoc/linkroll/internal/render"
	"github.com/MrSnakeDoc/linkroll/internal/scheduler"
	redisstore "github.com/MrSnakeDoc/linkroll/internal/store/redis"
	"github.com/MrSnakeDoc/linkroll/internal/store/sqlite"
	"github.com/MrSnakeDoc/linkroll/internal/utils"
	"github.com/MrSnakeDoc/linkroll/internal/version"
)

type App struct {
	cfg      *config.Config
	logger   logger.Logger
	server   *httpserver.Server
	stores   *components
	reloader *scheduler.BookmarkReloader
	gc       *scheduler.GarbageCollector
}

func New(ctx context.Context, cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	c, err := wire(ctx, cfg, loggerClient)
	if err != nil {
		return nil, err
	}

	var reloader *scheduler.BookmarkReloader
	var reloadTrigger chan struct{}
	if c.source != nil {
		loggerClient.Info("bookmark file configured, initializing bookmark reloader",
			logger.String("file", cfg.BookmarkFile),
			logger.String("source", c.source.Name()))
		reloadTrigger = make(chan struct{}, 1)
		reloader = scheduler.NewBookmarkReloader(
			c.source,
			c.memIndex,
			c.replicas,
			c.renderCache(),
			loggerClient,
			cfg.ReloadInterval,
			reloadTrigger,
		)
	} else {
		loggerClient.Info("bookmark file not configured, serving the stored catalog only")
	}

	gc := scheduler.NewGarbageCollector(
		c.memIndex,
		c.replicas,
		loggerClient,
		cfg.GCInterval,
		cfg.GCThreshold,
	)

	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		AllowedHosts:   cfg.AllowedHosts,
		AllowedCIDRS:   cfg.AllowedCIDRS,
		TrustProxy:     cfg.TrustProxy,
		MemoryIndex:    c.memIndex,
		CatalogMode:    cfg.Catalog,
		RedisClient:    c.redisClient,
		RenderStore:    c.redisStore,
		SQLite:         c.db,
		Renderer:       c.renderer,
		ListDefaults:   render.ParseListArgs(cfg.ListArgs),
		RenderCacheTTL: cfg.RenderCacheTTL,
		RateBurst:      cfg.RateBurst,
		RatePerMin:     cfg.RatePerMin,
		ReloadTrigger:  reloadTrigger,
	}

	return &App{
		cfg:      cfg,
		logger:   loggerClient,
		server:   httpserver.New(cfg.ListenPort, d),
		stores:   c,
		reloader: reloader,
		gc:       gc,
	}, nil
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting linkroll v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("linkroll %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if a.reloader != nil {
		if err := a.reloader.Start(ctx); err != nil {
			return fmt.Errorf("failed to start bookmark reloader: %w", err)
		}
		a.logger.Info("bookmark reloader started",
			logger.Duration("interval", a.cfg.ReloadInterval))
	}

	if err := a.gc.Start(ctx); err != nil {
		return fmt.Errorf("failed to start garbage collector: %w", err)
	}
	a.logger.Info("garbage collector started",
		logger.Duration("interval", a.cfg.GCInterval))

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		return err
	}

	if a.reloader != nil {
		a.reloader.Stop()
	}
	a.gc.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.stores.close(a.logger)
	a.logger.Info("✅ linkroll stopped cleanly")
	return nil
}

// components are the pieces shared by the server and the one-shot commands.
type components struct {
	memIndex    *index.MemoryIndex
	redisClient *goredis.Client
	redisStore  *redisstore.Store
	db          *sqlite.Store
	replicas    []scheduler.Replica
	source      scheduler.Source

	renderConfig render.Config
	renderer     *render.Renderer
}

func (c *components) renderCache() scheduler.RenderCache {
	if c.redisStore == nil {
		return nil
	}
	return c.redisStore
}

func (c *components) close(log logger.Logger) {
	if c.redisClient != nil {
		utils.CloseLogged(c.redisClient, log, "redis")
	}
	if c.db != nil {
		utils.CloseLogged(c.db, log, "sqlite")
	}
}

// wire connects the optional stores, warms the memory index from them and
// builds the renderer over the configured catalog.
func wire(ctx context.Context, cfg *config.Config, log logger.Logger) (*components, error) {
	c := &components{memIndex: index.NewMemoryIndex()}

	if cfg.Database != "" {
		db, err := sqlite.Open(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("failed to open database: %w", err)
		}
		log.Info("SQLite catalog opened", logger.String("path", db.Path()))
		c.db = db
		c.replicas = append(c.replicas, db)
	}

	if cfg.RedisEnabled() {
		log.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	}
	client, err := redis.Connect(ctx, redis.Options{
		Addr:           cfg.RedisAddr,
		Username:       cfg.RedisUser,
		Password:       cfg.RedisPassword,
		DB:             cfg.RedisDB,
		DialTimeout:    cfg.RedisDT,
		ReadTimeout:    cfg.RedisRT,
		WriteTimeout:   cfg.RedisWT,
		PoolSize:       cfg.RedisPoolSize,
		ConnectTimeout: cfg.RedisConnectTimeout,
		RetryInterval:  cfg.RedisRetryInterval,
		MaxWait:        cfg.RedisMaxWait,
		PingTimeout:    cfg.RedisPingTimeout,
		WarnThreshold:  cfg.RedisWarnThreshold,
	}, log)
	switch {
	case errors.Is(err, redis.ErrDisabled):
		log.Info("Redis not configured, render cache disabled")
	case err != nil:
		c.close(log)
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	default:
		log.Info("Redis initialized successfully")
		c.redisClient = client
		c.redisStore = redisstore.NewStore(client)
		c.replicas = append(c.replicas, c.redisStore)
	}

	// Warm the index from the fastest store that has data.
	var warm *scheduler.Syncer
	switch {
	case c.redisStore != nil:
		warm = scheduler.NewSyncer("redis", c.redisStore, c.memIndex, log)
	case c.db != nil:
		warm = scheduler.NewSyncer("sqlite", c.db, c.memIndex, log)
	}
	if warm != nil {
		if err := warm.Sync(ctx); err != nil {
			log.Warn("failed to warm the catalog on startup, will load from the bookmark file",
				logger.Error(err))
		}
	}

	c.source = NewSource(cfg.BookmarkFile)

	var catalog render.Catalog = c.memIndex
	if cfg.Catalog == config.CatalogSQLite {
		catalog = c.db
	}

	var filters []render.Filter
	if cfg.SanitizeOutput {
		filters = append(filters, render.SanitizeOutput())
	}

	c.renderConfig = render.Config{
		Catalog: catalog,
		Settings: render.Settings{
			BaseURL:         cfg.SiteURL,
			DateFormat:      cfg.DateFormat,
			Offset:          cfg.GMTOffset,
			RecentlyUpdated: cfg.RecentlyUpdated,
		},
		Filters: filters,
		Logger:  log,
	}
	c.renderer = render.New(c.renderConfig)

	return c, nil
}
