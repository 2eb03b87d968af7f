package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tadrees-app/tadrees-backend/internal/platform/apierr"
	"github.com/tadrees-app/tadrees-backend/internal/platform/logger"
	"github.com/tadrees-app/tadrees-backend/internal/repos"
	"github.com/tadrees-app/tadrees-backend/internal/requestdata"
	"github.com/tadrees-app/tadrees-backend/internal/types"
)

// AttendanceService runs the per-group attendance rounds. Opening a round is
// a speculative debit: every enrolled student is marked absent up front, and
// presence has to be confirmed one student at a time to reverse the debit.
type AttendanceService interface {
	OpenRound(ctx context.Context, p *requestdata.Principal, groupID uuid.UUID) (*types.RoundRecord, error)
	ConfirmAttendance(ctx context.Context, p *requestdata.Principal, groupID, studentID uuid.UUID) (*types.Enrollment, error)
}

type attendanceService struct {
	db             *gorm.DB
	log            *logger.Logger
	groupRepo      repos.GroupRepo
	enrollmentRepo repos.EnrollmentRepo
}

func NewAttendanceService(db *gorm.DB, baseLog *logger.Logger, groupRepo repos.GroupRepo, enrollmentRepo repos.EnrollmentRepo) AttendanceService {
	return &attendanceService{
		db:             db,
		log:            baseLog.With("service", "AttendanceService"),
		groupRepo:      groupRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

// OpenRound appends a round record to the group's log and fans out over the
// roster: students flagged as guests elsewhere are reconciled (flag cleared,
// no absence entry), everyone else gets a speculative absence stamped with
// the round's open time. Exactly one of the two happens per student. The
// whole fan-out commits atomically with the group row.
func (as *attendanceService) OpenRound(ctx context.Context, p *requestdata.Principal, groupID uuid.UUID) (*types.RoundRecord, error) {
	var round types.RoundRecord

	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		group, err := as.groupRepo.GetByIDForUpdate(ctx, tx, groupID)
		if err != nil {
			return notFoundOr(err, "group")
		}
		if err := ensureGroupOwned(p, group); err != nil {
			return err
		}

		openedAt := time.Now().UTC()
		round = types.RoundRecord{
			ID:        uuid.New(),
			TeacherID: p.TeacherID,
			OpenedAt:  openedAt,
		}
		group.Rounds = prepend(group.Rounds, round)

		students, err := as.enrollmentRepo.ListByGroupForUpdate(ctx, tx, groupID)
		if err != nil {
			return apierr.Persistence(fmt.Errorf("list enrollments: %w", err))
		}

		for _, student := range students {
			if student.AttendedFromAnotherGroup {
				// The guest attendance already covered this student for the
				// period; reconcile by clearing the flag and skip the debit.
				student.AttendedFromAnotherGroup = false
			} else {
				student.Absences = prepend(student.Absences, openedAt)
			}
			student.HasRecordedAttendance = false
			if err := as.enrollmentRepo.Save(ctx, tx, student); err != nil {
				return apierr.Persistence(fmt.Errorf("save enrollment %s: %w", student.ID, err))
			}
		}

		if err := as.groupRepo.Save(ctx, tx, group); err != nil {
			return apierr.Persistence(fmt.Errorf("save group: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	as.log.Info("Opened attendance round", "group_id", groupID, "round_id", round.ID)
	return &round, nil
}

// ConfirmAttendance records one student as present. A student confirmed in a
// group other than their home group is a guest: their flag is set and their
// absence ledger is left alone, since the speculative debit belongs to the
// home group's round. A home student gets the latest speculative absence
// reversed, at most once per round.
func (as *attendanceService) ConfirmAttendance(ctx context.Context, p *requestdata.Principal, groupID, studentID uuid.UUID) (*types.Enrollment, error) {
	var updated *types.Enrollment

	err := as.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		group, err := as.groupRepo.GetByIDForUpdate(ctx, tx, groupID)
		if err != nil {
			return notFoundOr(err, "group")
		}
		if err := ensureGroupOwned(p, group); err != nil {
			return err
		}

		student, err := as.enrollmentRepo.GetByIDForUpdate(ctx, tx, studentID)
		if err != nil {
			return notFoundOr(err, "student")
		}
		if err := ensureEnrollmentOwned(p, student); err != nil {
			return err
		}

		switch {
		case student.GroupID != groupID:
			student.AttendedFromAnotherGroup = true
		case student.HasRecordedAttendance:
			return apierr.DuplicateAttendance("attendance already recorded for this student in the current round")
		default:
			if len(student.Absences) == 0 {
				return apierr.Consistency("no speculative absence to reverse for student %s", student.ID)
			}
			student.Absences = student.Absences[1:]
		}

		student.Attendances = prepend(student.Attendances, time.Now().UTC())
		student.HasRecordedAttendance = true

		if err := as.enrollmentRepo.Save(ctx, tx, student); err != nil {
			return apierr.Persistence(fmt.Errorf("save enrollment: %w", err))
		}
		updated = student
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}
