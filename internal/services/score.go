package services

import (
	"context"
	"fmt"
	"sort"
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
	ScoreKindMax  = "max"
	ScoreKindRedo = "redo"

	scoreDateLayout = "2006-01-02"
)

// StudentScore is one student's score for a given exam date.
type StudentScore struct {
	StudentID uuid.UUID `json:"student_id"`
	Name      string    `json:"name"`
	Value     int64     `json:"value"`
}

// ScoreService tracks per-student exam scores and the group-level score
// configuration (full mark and redo threshold).
type ScoreService interface {
	AddScore(ctx context.Context, p *requestdata.Principal, groupID, studentID uuid.UUID, value int64) (*types.ScoreEntry, error)
	EditScore(ctx context.Context, p *requestdata.Principal, groupID, studentID, scoreID uuid.UUID, value int64) (*types.ScoreEntry, error)
	DeleteScore(ctx context.Context, p *requestdata.Principal, groupID, studentID, scoreID uuid.UUID) error
	SetScoreConfig(ctx context.Context, p *requestdata.Principal, scoreKind string, value int64) error
	GetScores(ctx context.Context, p *requestdata.Principal, studentID uuid.UUID) ([]types.ScoreEntry, error)
	ScoreDates(ctx context.Context, p *requestdata.Principal, groupID uuid.UUID) ([]string, error)
	ScoresByDate(ctx context.Context, p *requestdata.Principal, groupID uuid.UUID, date string) ([]StudentScore, error)
}

type scoreService struct {
	db             *gorm.DB
	log            *logger.Logger
	groupRepo      repos.GroupRepo
	enrollmentRepo repos.EnrollmentRepo
}

func NewScoreService(db *gorm.DB, baseLog *logger.Logger, groupRepo repos.GroupRepo, enrollmentRepo repos.EnrollmentRepo) ScoreService {
	return &scoreService{
		db:             db,
		log:            baseLog.With("service", "ScoreService"),
		groupRepo:      groupRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (ss *scoreService) AddScore(ctx context.Context, p *requestdata.Principal, groupID, studentID uuid.UUID, value int64) (*types.ScoreEntry, error) {
	if value < 0 {
		return nil, apierr.Validation("score must not be negative")
	}

	var entry types.ScoreEntry
	err := ss.mutate(ctx, p, groupID, studentID, func(student *types.Enrollment) error {
		entry = types.ScoreEntry{
			ID:    uuid.New(),
			Value: value,
			Date:  time.Now().UTC(),
		}
		student.Scores = prepend(student.Scores, entry)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (ss *scoreService) EditScore(ctx context.Context, p *requestdata.Principal, groupID, studentID, scoreID uuid.UUID, value int64) (*types.ScoreEntry, error) {
	if value < 0 {
		return nil, apierr.Validation("score must not be negative")
	}

	var entry types.ScoreEntry
	err := ss.mutate(ctx, p, groupID, studentID, func(student *types.Enrollment) error {
		for i := range student.Scores {
			if student.Scores[i].ID == scoreID {
				student.Scores[i].Value = value
				entry = student.Scores[i]
				return nil
			}
		}
		return apierr.NotFound("score not found")
	})
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

func (ss *scoreService) DeleteScore(ctx context.Context, p *requestdata.Principal, groupID, studentID, scoreID uuid.UUID) error {
	return ss.mutate(ctx, p, groupID, studentID, func(student *types.Enrollment) error {
		for i := range student.Scores {
			if student.Scores[i].ID == scoreID {
				student.Scores = append(student.Scores[:i:i], student.Scores[i+1:]...)
				return nil
			}
		}
		return apierr.NotFound("score not found")
	})
}

// SetScoreConfig bulk-sets the full mark or redo threshold on every group
// the teacher owns, mirroring the fee configuration shape.
func (ss *scoreService) SetScoreConfig(ctx context.Context, p *requestdata.Principal, scoreKind string, value int64) error {
	if value < 0 {
		return apierr.Validation("score config must not be negative")
	}
	if scoreKind != ScoreKindMax && scoreKind != ScoreKindRedo {
		return apierr.Validation("unrecognized score kind %q", scoreKind)
	}

	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		groups, err := ss.groupRepo.ListByTeacherForUpdate(ctx, tx, p.TeacherID)
		if err != nil {
			return apierr.Persistence(fmt.Errorf("list groups: %w", err))
		}
		for _, group := range groups {
			switch scoreKind {
			case ScoreKindMax:
				group.MaxScore = value
			case ScoreKindRedo:
				group.RedoScore = value
			}
			if err := ss.groupRepo.Save(ctx, tx, group); err != nil {
				return apierr.Persistence(fmt.Errorf("save group %s: %w", group.ID, err))
			}
		}
		return nil
	})
}

func (ss *scoreService) GetScores(ctx context.Context, p *requestdata.Principal, studentID uuid.UUID) ([]types.ScoreEntry, error) {
	student, err := ss.enrollmentRepo.GetByID(ctx, nil, studentID)
	if err != nil {
		return nil, notFoundOr(err, "student")
	}
	if err := ensureEnrollmentOwned(p, student); err != nil {
		return nil, err
	}
	return student.Scores, nil
}

// ScoreDates returns the distinct exam dates recorded across a group's
// roster, newest first.
func (ss *scoreService) ScoreDates(ctx context.Context, p *requestdata.Principal, groupID uuid.UUID) ([]string, error) {
	students, err := ss.loadGroupStudents(ctx, p, groupID)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	dates := []string{}
	for _, student := range students {
		for _, score := range student.Scores {
			day := score.Date.Format(scoreDateLayout)
			if !seen[day] {
				seen[day] = true
				dates = append(dates, day)
			}
		}
	}
	sort.Sort(sort.Reverse(sort.StringSlice(dates)))
	return dates, nil
}

// ScoresByDate returns each rostered student's score for the given exam
// date; students with no score that day are omitted.
func (ss *scoreService) ScoresByDate(ctx context.Context, p *requestdata.Principal, groupID uuid.UUID, date string) ([]StudentScore, error) {
	if _, err := time.Parse(scoreDateLayout, date); err != nil {
		return nil, apierr.Validation("date must be formatted as YYYY-MM-DD")
	}

	students, err := ss.loadGroupStudents(ctx, p, groupID)
	if err != nil {
		return nil, err
	}

	results := []StudentScore{}
	for _, student := range students {
		for _, score := range student.Scores {
			if score.Date.Format(scoreDateLayout) == date {
				results = append(results, StudentScore{
					StudentID: student.ID,
					Name:      student.Name,
					Value:     score.Value,
				})
				break
			}
		}
	}
	return results, nil
}

func (ss *scoreService) loadGroupStudents(ctx context.Context, p *requestdata.Principal, groupID uuid.UUID) ([]*types.Enrollment, error) {
	group, err := ss.groupRepo.GetByID(ctx, nil, groupID)
	if err != nil {
		return nil, notFoundOr(err, "group")
	}
	if err := ensureGroupOwned(p, group); err != nil {
		return nil, err
	}
	students, err := ss.enrollmentRepo.ListByGroup(ctx, nil, groupID)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("list enrollments: %w", err))
	}
	return students, nil
}

func (ss *scoreService) mutate(ctx context.Context, p *requestdata.Principal, groupID, studentID uuid.UUID, mutate func(*types.Enrollment) error) error {
	return ss.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		group, err := ss.groupRepo.GetByID(ctx, tx, groupID)
		if err != nil {
			return notFoundOr(err, "group")
		}
		if err := ensureGroupOwned(p, group); err != nil {
			return err
		}

		student, err := ss.enrollmentRepo.GetByIDForUpdate(ctx, tx, studentID)
		if err != nil {
			return notFoundOr(err, "student")
		}
		if err := ensureEnrollmentOwned(p, student); err != nil {
			return err
		}

		if err := mutate(student); err != nil {
			return err
		}
		if err := ss.enrollmentRepo.Save(ctx, tx, student); err != nil {
			return apierr.Persistence(fmt.Errorf("save enrollment: %w", err))
		}
		return nil
	})
}
