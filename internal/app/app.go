package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"taskboard/internal/cache"
	"taskboard/internal/cache/rediscache"
	"taskboard/internal/config"
	"taskboard/internal/handlers"
	"taskboard/internal/logger"
	"taskboard/internal/repository/task/inmemory"
	"taskboard/internal/repository/task/postgres"
	"taskboard/internal/service"
	"taskboard/internal/worker"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type App struct {
	config     *config.Config
	server     *http.Server
	router     http.Handler
	repository service.TaskRepository // интерфейс!
	service    handlers.Service
	health     handlers.HealthReporter
	shutdowns  []func() // функции для graceful shutdown
	closeOnce  sync.Once
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

// Init собирает зависимости по конфигу. При ошибке уже созданное закрывается.
func (a *App) Init(ctx context.Context) (*App, error) {
	if err := logger.Init(a.config.Logging.Development, a.config.Logging.Level); err != nil {
		return nil, fmt.Errorf("инициализация логгера: %w", err)
	}

	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("App: Завершение работы логгирования...")
		logger.Sync()
	})

	repository, err := a.initRepository(ctx)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.repository = repository

	store, pinger := a.initCache()

	a.service = service.NewTaskService(a.repository, store, service.CacheConfig{
		Key: a.config.Cache.Key,
		TTL: a.config.Cache.TTL,
	})
	a.health = service.NewHealthReporter(a.repository, pinger, service.AdminLinks{
		PgAdminURL:      a.config.Admin.PgAdminURL,
		RedisInsightURL: a.config.Admin.RedisInsightURL,
	})

	a.router = NewRouter(handlers.NewTaskHandler(a.service, a.health), a.config.Server)
	a.server = &http.Server{
		Addr:         a.config.GetServerAddr(),
		Handler:      a.router,
		ReadTimeout:  a.config.Server.ReadTimeout,
		WriteTimeout: a.config.Server.WriteTimeout,
	}

	logger.Info("App: Приложение инициализировано",
		zap.String("repository", a.config.Repository.Type),
		zap.Bool("cache", store != nil))

	return a, nil
}

func (a *App) initRepository(ctx context.Context) (service.TaskRepository, error) {
	if a.config.Repository.Type == config.RepositoryInMemory {
		logger.Info("App: Используется хранилище в памяти")
		return inmemory.NewTaskStorage(), nil
	}

	storage, err := postgres.New(ctx, a.config.Database.URL, poolOptions(a.config.Database))
	if err != nil {
		return nil, fmt.Errorf("подключение к PostgreSQL: %w", err)
	}
	a.shutdowns = append(a.shutdowns, storage.Close)

	if a.config.Database.MigrateOnStart {
		if err := storage.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("миграции: %w", err)
		}
	}

	return storage, nil
}

// initCache возвращает nil, nil, если кэш выключен или адрес неверный:
// сервис работает и без него.
func (a *App) initCache() (cache.Store, service.Pinger) {
	if a.config.Cache.URL == "" {
		logger.Info("App: Кэш отключён")
		return nil, nil
	}

	redisCache, err := rediscache.New(rediscache.Options{
		URL:          a.config.Cache.URL,
		DialTimeout:  a.config.Cache.DialTimeout,
		ReadTimeout:  a.config.Cache.ReadTimeout,
		WriteTimeout: a.config.Cache.WriteTimeout,
		MaxRetries:   a.config.Cache.MaxRetries,
	})
	if err != nil {
		logger.Warn("App: Кэш недоступен, работаем без него", zap.Error(err))
		return nil, nil
	}

	a.shutdowns = append(a.shutdowns, func() {
		if err := redisCache.Close(); err != nil {
			logger.Warn("App: Ошибка закрытия Redis", zap.Error(err))
		}
	})
	return redisCache, redisCache
}

func poolOptions(cfg config.DatabaseConfig) postgres.PoolOptions {
	opts := postgres.DefaultPoolOptions()
	opts.MaxConns = cfg.MaxConnections
	opts.MinConns = cfg.MinConnections
	if cfg.IdleTimeout > 0 {
		opts.MaxConnIdleTime = cfg.IdleTimeout
	}
	if cfg.StartupTimeout > 0 {
		opts.StartupTimeout = cfg.StartupTimeout
	}
	return opts
}

func (a *App) Handler() http.Handler {
	return a.router
}

// Run блокируется до отмены ctx или ошибки сервера, затем останавливает
// сервер и закрывает ресурсы.
func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	if interval := a.config.Health.WatchInterval; interval > 0 {
		watcher := worker.NewHealthWatcher(a.health, &interval)
		g.Go(func() error {
			watcher.Start(gctx)
			return nil
		})
	}

	g.Go(func() error {
		logger.Info("App: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("запуск сервера: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), a.config.Server.ShutdownTimeout)
		defer cancel()

		logger.Info("App: Остановка сервера")
		if err := a.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("остановка сервера: %w", err)
		}
		return nil
	})

	err := g.Wait()
	a.Close()
	return err
}

// Close выполняет shutdowns в обратном порядке, повторный вызов ничего не делает.
func (a *App) Close() {
	a.closeOnce.Do(func() {
		for i := len(a.shutdowns) - 1; i >= 0; i-- {
			a.shutdowns[i]()
		}
	})
}
