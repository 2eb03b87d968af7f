package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Teacher is the aggregate root for a tutoring business: every group,
// assistant and student enrollment hangs off one teacher. The rosters are
// denormalized copies kept in lockstep with the enrollment records; counts
// are derived from list length so the two can never disagree.
type Teacher struct {
	ID         uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"id"`
	Name       string                           `gorm:"not null" json:"name"`
	Phone      string                           `json:"phone"`
	Subject    string                           `json:"subject"`
	Students   datatypes.JSONSlice[RosterEntry] `json:"students"`
	Assistants datatypes.JSONSlice[RosterEntry] `json:"assistants"`
	Groups     datatypes.JSONSlice[RosterEntry] `json:"groups"`
	CreatedAt  time.Time                        `json:"created_at"`
	UpdatedAt  time.Time                        `json:"updated_at"`
}

func (Teacher) TableName() string {
	return "teacher"
}
