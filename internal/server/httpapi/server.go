// Package httpapi exposes the REST surface of the server: login and
// registration, todo CRUD, the history view, and public-access settings.
// Bearer credentials are carried in the Authorization header and resolved
// per request; there is no server-side session state.
package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/demeter/internal/common"
	"github.com/dmitrijs2005/demeter/internal/logging"
	"github.com/dmitrijs2005/demeter/internal/server/models"
	"github.com/dmitrijs2005/demeter/internal/server/services"
	"github.com/google/uuid"
	"github.com/julienschmidt/httprouter"
)

// UserProvider is the credential-store surface the handlers need.
type UserProvider interface {
	Register(ctx context.Context, username, password string) (*models.User, error)
	Login(ctx context.Context, username, password string) (*models.User, string, error)
	UpdatePublicAccess(ctx context.Context, userID int64, value bool) (*models.User, error)
	FirstUser(ctx context.Context) (*models.User, error)
}

// AccessController resolves bearer tokens and gates writes.
type AccessController interface {
	RequireWriter(ctx context.Context, token string) (int64, error)
	ResolveReadScope(ctx context.Context, token string) (int64, bool, error)
}

// TodoProvider is the todo-store surface the handlers need.
type TodoProvider interface {
	List(ctx context.Context, ownerID int64) ([]*models.Todo, error)
	Create(ctx context.Context, ownerID int64, title string, description *string, emoji string) (*models.Todo, error)
	Update(ctx context.Context, id int64, upd services.TodoUpdate) (*models.Todo, error)
	Delete(ctx context.Context, id int64, ownerID int64) error
	History(ctx context.Context, ownerID int64) ([]services.HistoryDay, error)
}

type Server struct {
	address string
	logger  logging.Logger
	users   UserProvider
	access  AccessController
	todos   TodoProvider
}

func NewServer(a string, l logging.Logger, us UserProvider, ac AccessController, ts TodoProvider) *Server {
	return &Server{
		address: a,
		logger:  l.With("module", "http_server"),
		users:   us,
		access:  ac,
		todos:   ts,
	}
}

func (s *Server) routes() http.Handler {
	router := httprouter.New()

	router.HandlerFunc(http.MethodPost, "/api/login", s.login)
	router.HandlerFunc(http.MethodPost, "/api/register", s.register)
	router.HandlerFunc(http.MethodGet, "/api/todos", s.listTodos)
	router.HandlerFunc(http.MethodPost, "/api/todos", s.createTodo)
	router.Handle(http.MethodPut, "/api/todos/:id", s.updateTodo)
	router.Handle(http.MethodDelete, "/api/todos/:id", s.deleteTodo)
	router.HandlerFunc(http.MethodGet, "/api/history", s.history)
	router.HandlerFunc(http.MethodGet, "/api/public-access", s.publicAccess)
	router.HandlerFunc(http.MethodPut, "/api/user/settings", s.updateSettings)

	return s.withRequestID(router)
}

// withRequestID tags every request with a generated id, echoed back in the
// X-Request-Id header and attached to the request-scoped log lines.
func (s *Server) withRequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := uuid.NewString()
		w.Header().Set("X-Request-Id", id)

		ctx := r.Context()
		s.logger.Debug(ctx, "request", "request_id", id, "method", r.Method, "path", r.URL.Path)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from the Authorization header. An absent
// or malformed header yields the empty string; callers decide whether that
// is an error or an anonymous request.
func bearerToken(r *http.Request) string {
	header := r.Header.Get(common.AuthorizationHeaderName)
	if !strings.HasPrefix(header, common.BearerPrefix) {
		return ""
	}
	return strings.TrimPrefix(header, common.BearerPrefix)
}

// Run starts the HTTP server and blocks until ctx is cancelled or the
// listener fails.
func (s *Server) Run(ctx context.Context) error {

	srv := &http.Server{
		Addr:    s.address,
		Handler: s.routes(),
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping HTTP server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()

	s.logger.Info(ctx, "Starting HTTP server", "address", s.address)

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}

	return nil
}
