package httpapi

import (
	"time"

	"github.com/dmitrijs2005/demeter/internal/server/models"
	"github.com/dmitrijs2005/demeter/internal/server/services"
)

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
	Message string       `json:"message"`
}

// UserResponse is the outward shape of a user. The password hash and the
// readonly flag stay internal.
type UserResponse struct {
	ID           int64  `json:"id"`
	Username     string `json:"username"`
	PublicAccess bool   `json:"public_access"`
}

type UpdateUserSettingsRequest struct {
	PublicAccess bool `json:"public_access"`
}

type PublicAccessResponse struct {
	PublicAccess bool   `json:"public_access"`
	Username     string `json:"username"`
}

type CreateTodoRequest struct {
	Title       string  `json:"title"`
	Description *string `json:"description"`
	Emoji       string  `json:"emoji"`
}

type UpdateTodoRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
	Emoji       *string `json:"emoji"`
	Completed   *bool   `json:"completed"`
}

// TodoResponse is the outward shape of a todo; the owner id is omitted.
type TodoResponse struct {
	ID          int64     `json:"id"`
	Title       string    `json:"title"`
	Description *string   `json:"description"`
	Emoji       string    `json:"emoji"`
	Completed   bool      `json:"completed"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type HistoryDayResponse struct {
	Date           string         `json:"date"`
	Count          int64          `json:"count"`
	CompletedCount int64          `json:"completed_count"`
	Tasks          []TodoResponse `json:"tasks"`
}

// ApiResponse is the uniform envelope for endpoints that report success or
// failure distinctly from pure data retrieval.
type ApiResponse struct {
	Success bool   `json:"success"`
	Data    any    `json:"data"`
	Message string `json:"message"`
}

func apiSuccess(data any) ApiResponse {
	return ApiResponse{Success: true, Data: data, Message: "ok"}
}

func apiError(message string) ApiResponse {
	return ApiResponse{Success: false, Message: message}
}

func newUserResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Username:     u.Username,
		PublicAccess: u.PublicAccess,
	}
}

func newTodoResponse(t *models.Todo) TodoResponse {
	resp := TodoResponse{
		ID:        t.ID,
		Title:     t.Title,
		Emoji:     t.Emoji,
		Completed: t.Completed,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
	if t.Description.Valid {
		d := t.Description.String
		resp.Description = &d
	}
	return resp
}

func newTodoResponses(list []*models.Todo) []TodoResponse {
	result := make([]TodoResponse, 0, len(list))
	for _, t := range list {
		result = append(result, newTodoResponse(t))
	}
	return result
}

func newHistoryDayResponse(day services.HistoryDay) HistoryDayResponse {
	return HistoryDayResponse{
		Date:           day.Date.Format("2006-01-02"),
		Count:          day.Count,
		CompletedCount: day.CompletedCount,
		Tasks:          newTodoResponses(day.Tasks),
	}
}
