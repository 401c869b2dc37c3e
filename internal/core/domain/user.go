package domain

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID                int
	UUID              uuid.UUID
	Name              string `validate:"required,min=1,max=100"`
	Email             string `validate:"required,email,max=255"`
	EncryptedPassword string `validate:"required"`
	Age               int    `validate:"gte=0"`
	Avatar            []byte
	AvatarContentType string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

func (u *User) HasAvatar() bool {
	return len(u.Avatar) > 0
}

// UserMutableFields lists the payload keys a profile update may carry.
// Any other key rejects the whole update.
var UserMutableFields = []string{"name", "email", "password", "age"}
