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

const (
	FeeKindAttendance = "attendance"
	FeeKindBooks      = "books"
)

// PaymentService keeps the two per-student payment ledgers. Both are
// append-only logs; the only way to remove an entry is a LIFO reversal of
// the most recent one, which covers the accidental double-charge case
// without having to identify an arbitrary historical entry.
type PaymentService interface {
	PayAttendanceFee(ctx context.Context, p *requestdata.Principal, groupID, studentID uuid.UUID, amount int64) (*types.Enrollment, error)
	ReverseAttendanceFee(ctx context.Context, p *requestdata.Principal, groupID, studentID uuid.UUID) (*types.Enrollment, error)
	PayBooksFee(ctx context.Context, p *requestdata.Principal, groupID, studentID uuid.UUID) (*types.Enrollment, error)
	ReverseBooksFee(ctx context.Context, p *requestdata.Principal, groupID, studentID uuid.UUID) (*types.Enrollment, error)
	SetFeeAmount(ctx context.Context, p *requestdata.Principal, feeKind string, amount int64) error
}

type paymentService struct {
	db             *gorm.DB
	log            *logger.Logger
	groupRepo      repos.GroupRepo
	enrollmentRepo repos.EnrollmentRepo
}

func NewPaymentService(db *gorm.DB, baseLog *logger.Logger, groupRepo repos.GroupRepo, enrollmentRepo repos.EnrollmentRepo) PaymentService {
	return &paymentService{
		db:             db,
		log:            baseLog.With("service", "PaymentService"),
		groupRepo:      groupRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (ps *paymentService) PayAttendanceFee(ctx context.Context, p *requestdata.Principal, groupID, studentID uuid.UUID, amount int64) (*types.Enrollment, error) {
	if amount <= 0 {
		return nil, apierr.Validation("payment amount must be positive")
	}
	return ps.mutateStudent(ctx, p, groupID, studentID, func(student *types.Enrollment) error {
		student.AttendancePayments = prepend(student.AttendancePayments, types.PaymentEntry{
			Amount: amount,
			Date:   time.Now().UTC(),
		})
		student.AttendanceTotalPaid += amount
		return nil
	})
}

func (ps *paymentService) ReverseAttendanceFee(ctx context.Context, p *requestdata.Principal, groupID, studentID uuid.UUID) (*types.Enrollment, error) {
	return ps.mutateStudent(ctx, p, groupID, studentID, func(student *types.Enrollment) error {
		if len(student.AttendancePayments) == 0 || student.AttendanceTotalPaid == 0 {
			return apierr.NothingToReverse("no attendance payment to reverse")
		}
		last := student.AttendancePayments[0]
		student.AttendancePayments = student.AttendancePayments[1:]
		student.AttendanceTotalPaid -= last.Amount
		return nil
	})
}

func (ps *paymentService) PayBooksFee(ctx context.Context, p *requestdata.Principal, groupID, studentID uuid.UUID) (*types.Enrollment, error) {
	return ps.mutateStudent(ctx, p, groupID, studentID, func(student *types.Enrollment) error {
		student.BookPayments = prepend(student.BookPayments, time.Now().UTC())
		return nil
	})
}

func (ps *paymentService) ReverseBooksFee(ctx context.Context, p *requestdata.Principal, groupID, studentID uuid.UUID) (*types.Enrollment, error) {
	return ps.mutateStudent(ctx, p, groupID, studentID, func(student *types.Enrollment) error {
		if len(student.BookPayments) == 0 {
			return apierr.NothingToReverse("no book payment to reverse")
		}
		student.BookPayments = student.BookPayments[1:]
		return nil
	})
}

// SetFeeAmount bulk-sets the configured price on every group the teacher
// owns. It configures the price only; per-student ledgers are untouched.
func (ps *paymentService) SetFeeAmount(ctx context.Context, p *requestdata.Principal, feeKind string, amount int64) error {
	if amount < 0 {
		return apierr.Validation("fee amount must not be negative")
	}
	if feeKind != FeeKindAttendance && feeKind != FeeKindBooks {
		return apierr.Validation("unrecognized fee kind %q", feeKind)
	}

	return ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		groups, err := ps.groupRepo.ListByTeacherForUpdate(ctx, tx, p.TeacherID)
		if err != nil {
			return apierr.Persistence(fmt.Errorf("list groups: %w", err))
		}
		for _, group := range groups {
			switch feeKind {
			case FeeKindAttendance:
				group.AttendanceFee = amount
			case FeeKindBooks:
				group.BooksFee = amount
			}
			if err := ps.groupRepo.Save(ctx, tx, group); err != nil {
				return apierr.Persistence(fmt.Errorf("save group %s: %w", group.ID, err))
			}
		}
		return nil
	})
}

// mutateStudent runs a ledger mutation under the standard precondition
// chain: group exists and is owned, student exists and is owned, all inside
// one transaction with the student row locked.
func (ps *paymentService) mutateStudent(ctx context.Context, p *requestdata.Principal, groupID, studentID uuid.UUID, mutate func(*types.Enrollment) error) (*types.Enrollment, error) {
	var updated *types.Enrollment

	err := ps.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		group, err := ps.groupRepo.GetByID(ctx, tx, groupID)
		if err != nil {
			return notFoundOr(err, "group")
		}
		if err := ensureGroupOwned(p, group); err != nil {
			return err
		}

		student, err := ps.enrollmentRepo.GetByIDForUpdate(ctx, tx, studentID)
		if err != nil {
			return notFoundOr(err, "student")
		}
		if err := ensureEnrollmentOwned(p, student); err != nil {
			return err
		}

		if err := mutate(student); err != nil {
			return err
		}
		if err := ps.enrollmentRepo.Save(ctx, tx, student); err != nil {
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
