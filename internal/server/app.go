// Package server initializes and runs the main application server.
// It opens the database pool, applies schema migrations, seeds the default
// user, and starts the HTTP API with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/demeter/internal/common"
	"github.com/dmitrijs2005/demeter/internal/logging"
	"github.com/dmitrijs2005/demeter/internal/server/config"
	"github.com/dmitrijs2005/demeter/internal/server/httpapi"
	"github.com/dmitrijs2005/demeter/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/demeter/internal/server/services"
	_ "github.com/jackc/pgx/v5/stdlib"
)

// Default credentials seeded on first start so a fresh deployment has a
// loggable account. Replace via the createuser utility.
const (
	defaultUsername = "admin"
	defaultPassword = "password"
)

type App struct {
	config        *config.Config
	logger        logging.Logger
	db            *sql.DB
	repomanager   repomanager.RepositoryManager
	userService   *services.UserService
	accessService *services.AccessService
	todoService   *services.TodoService
}

func NewApp(c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := sql.Open("pgx", c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	us := services.NewUserService(db, rm, c)
	ac := services.NewAccessService(db, rm, c)
	ts := services.NewTodoService(db, rm, c)

	return &App{
		config:        c,
		logger:        logger,
		db:            db,
		repomanager:   rm,
		userService:   us,
		accessService: ac,
		todoService:   ts,
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// seedDefaultUser creates the default account unless it already exists.
func (app *App) seedDefaultUser(ctx context.Context) error {
	_, err := app.userService.CreateUser(ctx, defaultUsername, defaultPassword, false, false)
	if err != nil {
		if errors.Is(err, common.ErrorUsernameTaken) {
			return nil
		}
		return err
	}
	app.logger.Info(ctx, "created default user", "username", defaultUsername)
	return nil
}

func (app *App) startHTTPServer(ctx context.Context, cancelFunc context.CancelFunc) {

	s := httpapi.NewServer(app.config.EndpointAddr, app.logger,
		app.userService, app.accessService, app.todoService)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	if err := app.repomanager.RunMigrations(ctx, app.db); err != nil {
		app.logger.Error(ctx, "migration error", "error", err.Error())
		return
	}

	if err := app.seedDefaultUser(ctx); err != nil {
		app.logger.Error(ctx, "seed error", "error", err.Error())
		return
	}

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startHTTPServer(ctx, cancelFunc)
	}()

	wg.Wait()

	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
