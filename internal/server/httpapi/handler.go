package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/dmitrijs2005/demeter/internal/common"
	"github.com/dmitrijs2005/demeter/internal/server/services"
	"github.com/julienschmidt/httprouter"
)

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, token, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		if !errors.Is(err, common.ErrorUnauthorized) {
			s.logger.Error(ctx, err.Error())
		}
		status, msg := statusFromError(err)
		writeError(w, status, msg)
		return
	}

	s.logger.Info(ctx, "login ok", "username", req.Username)
	writeJSON(w, http.StatusOK, LoginResponse{
		User:    newUserResponse(user),
		Token:   token,
		Message: "login successful",
	})
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.Register(ctx, req.Username, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, common.ErrorUsernameTaken):
			// not a failure status: the envelope carries the outcome
			writeJSON(w, http.StatusOK, apiError("username already exists"))
		case errors.Is(err, common.ErrorValidation):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			s.logger.Error(ctx, err.Error())
			writeError(w, http.StatusInternalServerError, "internal error")
		}
		return
	}

	s.logger.Info(ctx, "user registered", "username", user.Username)
	writeJSON(w, http.StatusOK, apiSuccess(newUserResponse(user)))
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok, err := s.access.ResolveReadScope(ctx, bearerToken(r))
	if err != nil {
		s.logger.Error(ctx, err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		// no identity and no public user: an empty list, not an error
		writeJSON(w, http.StatusOK, []TodoResponse{})
		return
	}

	list, err := s.todos.List(ctx, ownerID)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	writeJSON(w, http.StatusOK, newTodoResponses(list))
}

func (s *Server) createTodo(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, err := s.access.RequireWriter(ctx, bearerToken(r))
	if err != nil {
		status, msg := statusFromError(err)
		writeError(w, status, msg)
		return
	}

	var req CreateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	todo, err := s.todos.Create(ctx, ownerID, req.Title, req.Description, req.Emoji)
	if err != nil {
		if !errors.Is(err, common.ErrorValidation) {
			s.logger.Error(ctx, err.Error())
		}
		status, msg := statusFromError(err)
		writeError(w, status, msg)
		return
	}

	s.logger.Info(ctx, "todo created", "id", todo.ID, "title", todo.Title)
	writeJSON(w, http.StatusOK, newTodoResponse(todo))
}

func (s *Server) updateTodo(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	ctx := r.Context()

	if _, err := s.access.RequireWriter(ctx, bearerToken(r)); err != nil {
		status, msg := statusFromError(err)
		writeError(w, status, msg)
		return
	}

	id, err := strconv.ParseInt(p.ByName("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	var req UpdateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	todo, err := s.todos.Update(ctx, id, services.TodoUpdate{
		Title:       req.Title,
		Description: req.Description,
		Emoji:       req.Emoji,
		Completed:   req.Completed,
	})
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, err.Error())
		}
		status, msg := statusFromError(err)
		writeError(w, status, msg)
		return
	}

	s.logger.Info(ctx, "todo updated", "id", id)
	writeJSON(w, http.StatusOK, newTodoResponse(todo))
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
	ctx := r.Context()

	ownerID, err := s.access.RequireWriter(ctx, bearerToken(r))
	if err != nil {
		status, msg := statusFromError(err)
		writeError(w, status, msg)
		return
	}

	id, err := strconv.ParseInt(p.ByName("id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid todo id")
		return
	}

	if err := s.todos.Delete(ctx, id, ownerID); err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, err.Error())
		}
		status, msg := statusFromError(err)
		writeError(w, status, msg)
		return
	}

	s.logger.Info(ctx, "todo deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) history(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	ownerID, ok, err := s.access.ResolveReadScope(ctx, bearerToken(r))
	if err != nil {
		s.logger.Error(ctx, err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if !ok {
		writeJSON(w, http.StatusOK, []HistoryDayResponse{})
		return
	}

	days, err := s.todos.History(ctx, ownerID)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}

	result := make([]HistoryDayResponse, 0, len(days))
	for _, day := range days {
		result = append(result, newHistoryDayResponse(day))
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) publicAccess(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	user, err := s.users.FirstUser(ctx)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, err.Error())
		}
		status, msg := statusFromError(err)
		writeError(w, status, msg)
		return
	}

	writeJSON(w, http.StatusOK, PublicAccessResponse{
		PublicAccess: user.PublicAccess,
		Username:     user.Username,
	})
}

func (s *Server) updateSettings(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	userID, err := s.access.RequireWriter(ctx, bearerToken(r))
	if err != nil {
		status, msg := statusFromError(err)
		writeError(w, status, msg)
		return
	}

	var req UpdateUserSettingsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := s.users.UpdatePublicAccess(ctx, userID, req.PublicAccess)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.logger.Error(ctx, err.Error())
		}
		status, msg := statusFromError(err)
		writeError(w, status, msg)
		return
	}

	s.logger.Info(ctx, "user settings updated", "user_id", userID, "public_access", req.PublicAccess)
	writeJSON(w, http.StatusOK, apiSuccess(newUserResponse(user)))
}
