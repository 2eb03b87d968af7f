package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Group is one tutoring group owned by a teacher. Fee amounts are the
// configured prices, independent of the per-student payment ledgers. Rounds
// holds the attendance-round log, most-recent first.
type Group struct {
	ID            uuid.UUID                        `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID     uuid.UUID                        `gorm:"type:uuid;index;not null" json:"teacher_id"`
	Name          string                           `gorm:"not null" json:"name"`
	Day           string                           `json:"day"`
	AttendanceFee int64                            `gorm:"not null;default:0" json:"attendance_fee"`
	BooksFee      int64                            `gorm:"not null;default:0" json:"books_fee"`
	MaxScore      int64                            `gorm:"not null;default:0" json:"max_score"`
	RedoScore     int64                            `gorm:"not null;default:0" json:"redo_score"`
	Students      datatypes.JSONSlice[RosterEntry] `json:"students"`
	Rounds        datatypes.JSONSlice[RoundRecord] `json:"rounds"`
	CreatedAt     time.Time                        `json:"created_at"`
	UpdatedAt     time.Time                        `json:"updated_at"`
}

func (Group) TableName() string {
	return "group_record"
}

// LatestRound returns the most recently opened round, or false when no
// round has ever been opened for the group.
func (g *Group) LatestRound() (RoundRecord, bool) {
	if len(g.Rounds) == 0 {
		return RoundRecord{}, false
	}
	return g.Rounds[0], true
}
