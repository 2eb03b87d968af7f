package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Enrollment is the per-teacher membership of a student in exactly one home
// group. It carries the student's absence and attendance ledgers plus the two
// independent payment ledgers, all ordered most-recent first.
//
// HasRecordedAttendance is true once attendance has been confirmed for the
// current open round of the home group. AttendedFromAnotherGroup marks a
// guest attendance pending reconciliation at the home group's next round.
type Enrollment struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	TeacherID uuid.UUID `gorm:"type:uuid;index;not null" json:"teacher_id"`
	GroupID   uuid.UUID `gorm:"type:uuid;index;not null" json:"group_id"`
	Name      string    `gorm:"not null" json:"name"`
	Phone     string    `json:"phone"`

	Absences                 datatypes.JSONSlice[time.Time] `json:"absences"`
	Attendances              datatypes.JSONSlice[time.Time] `json:"attendances"`
	HasRecordedAttendance    bool                           `gorm:"not null;default:false" json:"has_recorded_attendance"`
	AttendedFromAnotherGroup bool                           `gorm:"not null;default:false" json:"attended_from_another_group"`

	AttendancePayments  datatypes.JSONSlice[PaymentEntry] `json:"attendance_payments"`
	AttendanceTotalPaid int64                             `gorm:"not null;default:0" json:"attendance_total_paid"`
	BookPayments        datatypes.JSONSlice[time.Time]    `json:"book_payments"`

	Scores datatypes.JSONSlice[ScoreEntry] `json:"scores"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Enrollment) TableName() string {
	return "enrollment"
}
