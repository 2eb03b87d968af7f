package types

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleAdmin     = "admin"
	RoleAssistant = "assistant"
)

// Assistant is a login credential acting on a teacher's behalf. The teacher
// who registers the account gets an admin assistant; further assistants are
// added to the same teacher.
type Assistant struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID    uuid.UUID `gorm:"type:uuid;index;not null" json:"teacher_id"`
	Name         string    `gorm:"not null" json:"name"`
	Email        string    `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash string    `gorm:"not null" json:"-"`
	Role         string    `gorm:"not null" json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Assistant) TableName() string {
	return "assistant"
}
