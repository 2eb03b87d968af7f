package types

import (
	"time"

	"github.com/google/uuid"
)

// RosterEntry is one denormalized membership row kept on the Teacher and
// Group aggregates. Insertion order is membership order.
type RosterEntry struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// RoundRecord is one attendance-taking session on a group's round log.
type RoundRecord struct {
	ID        uuid.UUID `json:"id"`
	TeacherID uuid.UUID `json:"teacher_id"`
	OpenedAt  time.Time `json:"opened_at"`
}

// PaymentEntry is one attendance-fee payment on a student's ledger.
type PaymentEntry struct {
	Amount int64     `json:"amount"`
	Date   time.Time `json:"date"`
}

// ScoreEntry is one recorded exam score for a student.
type ScoreEntry struct {
	ID    uuid.UUID `json:"id"`
	Value int64     `json:"value"`
	Date  time.Time `json:"date"`
}
