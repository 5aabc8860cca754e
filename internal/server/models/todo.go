package models

import (
	"database/sql"
	"time"
)

// Todo is a stored task. UserID is the owning user and never changes after
// creation; UpdatedAt is bumped on every mutation.
type Todo struct {
	ID          int64
	UserID      int64
	Title       string
	Description sql.NullString
	Emoji       string
	Completed   bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
