package app

import (
	"context"
	"errors"
	"fmt"
	"focusFlow/internal/ai"
	"focusFlow/internal/config"
	"focusFlow/internal/handlers"
	"focusFlow/internal/logger"
	"focusFlow/internal/middleware"
	"focusFlow/internal/service"
	"focusFlow/internal/timer"
	"focusFlow/internal/worker"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/sourcegraph/conc"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.uber.org/zap"
)

const shutdownTimeout = 10 * time.Second

type App struct {
	config    *config.Config
	server    *http.Server
	router    *chi.Mux
	store     Store
	service   *service.TaskService
	worker    *worker.TickWorker
	shutdowns []func() // функции для graceful shutdown
}

func New(cfg *config.Config) *App {
	return &App{
		config:    cfg,
		shutdowns: make([]func(), 0),
	}
}

func (a *App) Init(ctx context.Context) error {
	if err := logger.Init(a.config.Logging.Development); err != nil {
		return fmt.Errorf("инициализация логгера: %w", err)
	}
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Завершение работы логгирования...")
		logger.Sync()
	})

	store, err := NewStore(ctx, a.config.Storage)
	if err != nil {
		return fmt.Errorf("инициализация хранилища: %w", err)
	}
	a.store = store
	a.shutdowns = append(a.shutdowns, func() {
		logger.Info("Закрытие хранилища...")
		store.Close()
	})

	options := []service.ServiceOption{}
	suggester, err := ai.New(ctx, a.config.AI)
	switch {
	case errors.Is(err, ai.ErrNoAPIKey):
		logger.Info("App: Ключ AI не задан, подсказки отключены")
	case err != nil:
		logger.Error("App: Клиент AI недоступен, подсказки отключены", err)
	default:
		options = append(options, service.WithSuggester(suggester))
	}

	a.service = service.NewTaskService(store, timer.NewEngine(a.config.Timer.MinDelta), options...)
	loaded := a.service.Load(ctx)

	interval := a.config.Timer.TickInterval
	a.worker = worker.NewTickWorker(a.service, &interval)

	a.router = a.newRouter()
	a.server = &http.Server{
		Addr:              a.config.GetServerAddr(),
		Handler:           otelhttp.NewHandler(a.router, "focusflow"),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      a.config.AI.Timeout + 15*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	logger.Info("App: Инициализация завершена",
		zap.String("storage", a.config.Storage.Type),
		zap.Int("tasks", loaded),
		zap.String("addr", a.server.Addr))
	return nil
}

func (a *App) newRouter() *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.Recover)
	r.Use(middleware.Logging)
	r.Use(middleware.RateLimit(a.config.RateLimit.RPM))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   a.config.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID", "X-RateLimit-Remaining"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	handlers.NewTaskHandler(a.service).Routes(r)
	return r
}

func (a *App) Handler() http.Handler {
	return a.server.Handler
}

// Run обслуживает HTTP и тикает таймер, пока не отменён ctx
func (a *App) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	serveErr := make(chan error, 1)
	wg := conc.NewWaitGroup()

	wg.Go(func() {
		a.worker.Start(ctx)
	})
	wg.Go(func() {
		logger.Info("App: Сервер запущен", zap.String("addr", a.server.Addr))
		if err := a.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			cancel()
		}
	})

	<-ctx.Done()

	shutdownCtx, stop := context.WithTimeout(context.Background(), shutdownTimeout)
	defer stop()
	if err := a.server.Shutdown(shutdownCtx); err != nil {
		logger.Error("App: Ошибка остановки сервера", err)
	}
	wg.Wait()

	// финальный тик, чтобы не потерять время с последнего
	a.service.Tick(context.Background())

	select {
	case err := <-serveErr:
		return fmt.Errorf("HTTP сервер: %w", err)
	default:
		return nil
	}
}

// Shutdown вызывает хуки в обратном порядке регистрации
func (a *App) Shutdown() {
	for i := len(a.shutdowns) - 1; i >= 0; i-- {
		a.shutdowns[i]()
	}
	a.shutdowns = nil
}
