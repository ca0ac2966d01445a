// Package server exposes the tempo API: JSON over HTTP with bearer token
// authentication.
package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime/debug"
	"time"

	"github.com/rs/zerolog"

	"github.com/tempoapp/tempo/board"
	"github.com/tempoapp/tempo/habit"
	"github.com/tempoapp/tempo/internal/auth"
	"github.com/tempoapp/tempo/task"
	"github.com/tempoapp/tempo/timelog"
	"github.com/tempoapp/tempo/user"
)

const shutdownTimeout = 5 * time.Second

// Options configures a server.
type Options struct {
	DB     *sql.DB
	Issuer *auth.Issuer
	Logger zerolog.Logger
}

// Server routes API requests to the domain stores.
type Server struct {
	users   *user.Store
	habits  *habit.Store
	boards  *board.Store
	tasks   *task.Store
	entries *timelog.Store
	issuer  *auth.Issuer
	logger  zerolog.Logger
}

// NewServer creates a server over the given database.
func NewServer(opts Options) (*Server, error) {
	if opts.DB == nil {
		return nil, fmt.Errorf("database is required")
	}
	if opts.Issuer == nil {
		return nil, auth.ErrMissingSecret
	}
	return &Server{
		users:   user.NewStore(opts.DB),
		habits:  habit.NewStore(opts.DB),
		boards:  board.NewStore(opts.DB),
		tasks:   task.NewStore(opts.DB),
		entries: timelog.NewStore(opts.DB),
		issuer:  opts.Issuer,
		logger:  opts.Logger,
	}, nil
}

// Handler returns the HTTP handler for the API.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/healthz", s.handleHealthz)
	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)

	mux.Handle("GET /api/habits", s.authed(s.handleHabitsList))
	mux.Handle("POST /api/habits", s.authed(s.handleHabitsCreate))
	mux.Handle("PATCH /api/habits/{id}/toggle", s.authed(s.handleHabitsToggle))
	mux.Handle("GET /api/habits/{id}/stats", s.authed(s.handleHabitsStats))
	mux.Handle("GET /api/habits/{id}/progress", s.authed(s.handleHabitsProgress))
	mux.Handle("DELETE /api/habits/{id}", s.authed(s.handleHabitsDelete))

	mux.Handle("GET /api/boards", s.authed(s.handleBoardsList))
	mux.Handle("POST /api/boards", s.authed(s.handleBoardsCreate))
	mux.Handle("GET /api/boards/{id}", s.authed(s.handleBoardsGet))
	mux.Handle("PATCH /api/boards/{id}", s.authed(s.handleBoardsUpdate))
	mux.Handle("DELETE /api/boards/{id}", s.authed(s.handleBoardsDelete))

	mux.Handle("GET /api/columns", s.authed(s.handleColumnsList))
	mux.Handle("POST /api/columns", s.authed(s.handleColumnsCreate))
	mux.Handle("PATCH /api/columns/{id}", s.authed(s.handleColumnsRename))
	mux.Handle("PATCH /api/columns/reorder/{boardId}/batch", s.authed(s.handleColumnsReorder))
	mux.Handle("DELETE /api/columns/{id}", s.authed(s.handleColumnsDelete))

	mux.Handle("GET /api/cards", s.authed(s.handleCardsList))
	mux.Handle("POST /api/cards", s.authed(s.handleCardsCreate))
	mux.Handle("PATCH /api/cards/{id}", s.authed(s.handleCardsUpdate))
	mux.Handle("PATCH /api/cards/reorder/{columnId}/batch", s.authed(s.handleCardsReorder))
	mux.Handle("DELETE /api/cards/{id}", s.authed(s.handleCardsDelete))

	mux.Handle("GET /api/tasks", s.authed(s.handleTasksList))
	mux.Handle("POST /api/tasks", s.authed(s.handleTasksCreate))
	mux.Handle("PATCH /api/tasks/{id}", s.authed(s.handleTasksUpdate))
	mux.Handle("DELETE /api/tasks/{id}", s.authed(s.handleTasksDelete))

	mux.Handle("GET /api/projects", s.authed(s.handleProjectsList))
	mux.Handle("POST /api/projects", s.authed(s.handleProjectsCreate))
	mux.Handle("PATCH /api/projects/{id}", s.authed(s.handleProjectsUpdate))
	mux.Handle("DELETE /api/projects/{id}", s.authed(s.handleProjectsDelete))

	mux.Handle("GET /api/time-entries", s.authed(s.handleEntriesList))
	mux.Handle("POST /api/time-entries", s.authed(s.handleEntriesCreate))
	mux.Handle("DELETE /api/time-entries/{id}", s.authed(s.handleEntriesDelete))

	return s.recoverHandler(s.logHandler(mux))
}

// Serve runs the server on the given address until an interrupt.
func (s *Server) Serve(addr string) error {
	server := &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}

	listenErrs := make(chan error, 1)
	go func() {
		listenErrs <- server.ListenAndServe()
	}()
	s.logger.Info().Str("addr", addr).Msg("listening")

	interrupts := make(chan os.Signal, 1)
	signal.Notify(interrupts, os.Interrupt)
	defer signal.Stop(interrupts)

	select {
	case err := <-listenErrs:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("server stopped")
			return err
		}
		return nil
	case <-interrupts:
		s.logger.Info().Msg("interrupt received, shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		shutdownErr := server.Shutdown(shutdownCtx)
		cancel()
		listenErr := <-listenErrs
		if errors.Is(listenErr, http.ErrServerClosed) {
			listenErr = nil
		}
		return errors.Join(shutdownErr, listenErr)
	}
}

type contextKey string

const ownerKey contextKey = "owner"

// authed resolves the bearer token to an owner id and stores it in the
// request context.
func (s *Server) authed(next http.HandlerFunc) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		const prefix = "Bearer "
		if len(header) <= len(prefix) || header[:len(prefix)] != prefix {
			s.writeError(w, r, http.StatusUnauthorized, fmt.Errorf("missing bearer token"))
			return
		}
		ownerID, err := s.issuer.Verify(header[len(prefix):])
		if err != nil {
			s.writeError(w, r, http.StatusUnauthorized, err)
			return
		}
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ownerKey, ownerID)))
	})
}

func owner(r *http.Request) string {
	ownerID, _ := r.Context().Value(ownerKey).(string)
	return ownerID
}

func (s *Server) recoverHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer := &responseTracker{ResponseWriter: w, status: http.StatusOK}
		defer func() {
			if recovered := recover(); recovered != nil {
				s.logger.Error().
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Interface("panic", recovered).
					Bytes("stack", debug.Stack()).
					Msg("panic handling request")
				if writer.wroteHeader {
					return
				}
				writeJSON(writer, http.StatusInternalServerError, errorResponse{Error: "internal server error"})
			}
		}()
		next.ServeHTTP(writer, r)
	})
}

// logHandler logs one event per request.
func (s *Server) logHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer, ok := w.(*responseTracker)
		if !ok {
			writer = &responseTracker{ResponseWriter: w, status: http.StatusOK}
		}
		start := time.Now()
		next.ServeHTTP(writer, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", writer.status).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

type errorResponse struct {
	Error string `json:"error"`
}

func decodeJSON(r *http.Request, dest any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dest); err != nil {
		return err
	}
	if decoder.More() {
		return fmt.Errorf("unexpected extra JSON data")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, err error) {
	if status >= http.StatusInternalServerError {
		s.logger.Error().Str("method", r.Method).Str("path", r.URL.Path).Err(err).Msg("request failed")
	}
	writeJSON(w, status, errorResponse{Error: err.Error()})
}

// writeDomainError maps a store error to its HTTP status.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error) {
	s.writeError(w, r, statusForError(err), err)
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, habit.ErrHabitNotFound),
		errors.Is(err, board.ErrBoardNotFound),
		errors.Is(err, board.ErrColumnNotFound),
		errors.Is(err, board.ErrCardNotFound),
		errors.Is(err, task.ErrTaskNotFound),
		errors.Is(err, task.ErrProjectNotFound),
		errors.Is(err, timelog.ErrEntryNotFound),
		errors.Is(err, user.ErrUserNotFound):
		return http.StatusNotFound
	case errors.Is(err, board.ErrStaleScope),
		errors.Is(err, user.ErrEmailTaken):
		return http.StatusConflict
	case errors.Is(err, user.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, habit.ErrEmptyName),
		errors.Is(err, habit.ErrNameTooLong),
		errors.Is(err, habit.ErrInvalidGoal),
		errors.Is(err, habit.ErrInvalidDay),
		errors.Is(err, board.ErrEmptyTitle),
		errors.Is(err, board.ErrEmptyContent),
		errors.Is(err, board.ErrInvalidScope),
		errors.Is(err, task.ErrEmptyText),
		errors.Is(err, task.ErrEmptyName),
		errors.Is(err, task.ErrInvalidDay),
		errors.Is(err, task.ErrInvalidRange),
		errors.Is(err, timelog.ErrEmptyTaskName),
		errors.Is(err, timelog.ErrInvalidDuration),
		errors.Is(err, timelog.ErrInvalidSource),
		errors.Is(err, timelog.ErrInvalidDay),
		errors.Is(err, user.ErrInvalidEmail),
		errors.Is(err, user.ErrWeakPassword):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}

type responseTracker struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
}

func (w *responseTracker) WriteHeader(status int) {
	w.status = status
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(status)
}

func (w *responseTracker) Write(data []byte) (int, error) {
	if !w.wroteHeader {
		w.wroteHeader = true
	}
	return w.ResponseWriter.Write(data)
}
