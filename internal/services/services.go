package services

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tadrees-app/tadrees-backend/internal/platform/apierr"
	"github.com/tadrees-app/tadrees-backend/internal/requestdata"
	"github.com/tadrees-app/tadrees-backend/internal/types"
)

// prepend inserts v at the head of list, keeping ledgers most-recent first.
func prepend[S ~[]E, E any](list S, v E) S {
	out := make(S, 0, len(list)+1)
	out = append(out, v)
	return append(out, list...)
}

// removeEntry filters a roster by id, preserving membership order.
func removeEntry(list []types.RosterEntry, id uuid.UUID) []types.RosterEntry {
	out := make([]types.RosterEntry, 0, len(list))
	for _, entry := range list {
		if entry.ID == id {
			continue
		}
		out = append(out, entry)
	}
	return out
}

// notFoundOr maps a repo load failure to the API taxonomy: a missing row
// becomes NOT_FOUND, anything else is a persistence failure.
func notFoundOr(err error, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apierr.NotFound("%s not found", what)
	}
	return apierr.Persistence(err)
}

// ensureGroupOwned rejects mutations against a group the acting assistant's
// teacher does not own. Runs before any write.
func ensureGroupOwned(p *requestdata.Principal, group *types.Group) error {
	if p == nil {
		return apierr.Unauthorized("missing principal")
	}
	if group.TeacherID != p.TeacherID {
		return apierr.Forbidden("group does not belong to the acting teacher")
	}
	return nil
}

// ensureEnrollmentOwned rejects mutations against a student enrolled with a
// different teacher.
func ensureEnrollmentOwned(p *requestdata.Principal, enrollment *types.Enrollment) error {
	if p == nil {
		return apierr.Unauthorized("missing principal")
	}
	if enrollment.TeacherID != p.TeacherID {
		return apierr.Forbidden("student does not belong to the acting teacher")
	}
	return nil
}
