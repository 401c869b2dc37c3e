package domain

import (
	"time"

	"github.com/google/uuid"
)

type Task struct {
	ID          int
	UUID        uuid.UUID
	Description string `validate:"required,max=1000"`
	Completed   bool
	UserId      int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (t *Task) BelongsToUser(userID int) bool {
	return t.UserId == userID
}

func (t *Task) ToMap() map[string]interface{} {
	return map[string]interface{}{
		"id":          t.ID,
		"uuid":        t.UUID,
		"description": t.Description,
		"completed":   t.Completed,
		"user_id":     t.UserId,
		"created_at":  t.CreatedAt,
		"updated_at":  t.UpdatedAt,
	}
}

// TaskMutableFields lists the payload keys a task update may carry.
var TaskMutableFields = []string{"description", "completed"}

// TaskSortFields maps the accepted sortBy field names to their columns.
var TaskSortFields = map[string]string{
	"completed": "completed",
	"createdAt": "created_at",
	"updatedAt": "updated_at",
}
