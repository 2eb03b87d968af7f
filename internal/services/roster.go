package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/tadrees-app/tadrees-backend/internal/platform/apierr"
	"github.com/tadrees-app/tadrees-backend/internal/platform/logger"
	"github.com/tadrees-app/tadrees-backend/internal/repos"
	"github.com/tadrees-app/tadrees-backend/internal/requestdata"
	"github.com/tadrees-app/tadrees-backend/internal/types"
)

var validDays = map[string]bool{
	"sat": true, "sun": true, "mon": true, "tue": true,
	"wed": true, "thu": true, "fri": true,
}

type CreateGroupInput struct {
	Name string
	Day  string
}

type AddStudentInput struct {
	Name  string
	Phone string
}

// RosterService maintains the denormalized membership data mirrored on the
// Teacher and Group aggregates. The two views are kept in lockstep by
// construction: every membership change updates both inside one transaction.
type RosterService interface {
	CreateGroup(ctx context.Context, p *requestdata.Principal, input CreateGroupInput) (*types.Group, error)
	ListGroups(ctx context.Context, p *requestdata.Principal) ([]*types.Group, error)
	AddStudent(ctx context.Context, p *requestdata.Principal, groupID uuid.UUID, input AddStudentInput) (*types.Enrollment, error)
	RemoveStudent(ctx context.Context, p *requestdata.Principal, groupID, studentID uuid.UUID) error
	GetStudent(ctx context.Context, p *requestdata.Principal, studentID uuid.UUID) (*types.Enrollment, error)
}

type rosterService struct {
	db             *gorm.DB
	log            *logger.Logger
	teacherRepo    repos.TeacherRepo
	groupRepo      repos.GroupRepo
	enrollmentRepo repos.EnrollmentRepo
}

func NewRosterService(db *gorm.DB, baseLog *logger.Logger, teacherRepo repos.TeacherRepo, groupRepo repos.GroupRepo, enrollmentRepo repos.EnrollmentRepo) RosterService {
	return &rosterService{
		db:             db,
		log:            baseLog.With("service", "RosterService"),
		teacherRepo:    teacherRepo,
		groupRepo:      groupRepo,
		enrollmentRepo: enrollmentRepo,
	}
}

func (rs *rosterService) CreateGroup(ctx context.Context, p *requestdata.Principal, input CreateGroupInput) (*types.Group, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apierr.Validation("group name is required")
	}
	if !validDays[input.Day] {
		return nil, apierr.Validation("day must be one of sat, sun, mon, tue, wed, thu, fri")
	}

	var group *types.Group
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		teacher, err := rs.teacherRepo.GetByIDForUpdate(ctx, tx, p.TeacherID)
		if err != nil {
			return notFoundOr(err, "teacher")
		}

		for _, existing := range teacher.Groups {
			if existing.Name == name {
				return apierr.Validation("a group named %q already exists", name)
			}
		}

		group = &types.Group{
			ID:        uuid.New(),
			TeacherID: teacher.ID,
			Name:      name,
			Day:       input.Day,
		}
		if err := rs.groupRepo.Create(ctx, tx, group); err != nil {
			return apierr.Persistence(fmt.Errorf("create group: %w", err))
		}

		teacher.Groups = append(teacher.Groups, types.RosterEntry{ID: group.ID, Name: name})
		if err := rs.teacherRepo.Save(ctx, tx, teacher); err != nil {
			return apierr.Persistence(fmt.Errorf("save teacher: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rs.log.Info("Created group", "group_id", group.ID, "teacher_id", p.TeacherID)
	return group, nil
}

func (rs *rosterService) ListGroups(ctx context.Context, p *requestdata.Principal) ([]*types.Group, error) {
	groups, err := rs.groupRepo.ListByTeacher(ctx, nil, p.TeacherID)
	if err != nil {
		return nil, apierr.Persistence(fmt.Errorf("list groups: %w", err))
	}
	return groups, nil
}

func (rs *rosterService) AddStudent(ctx context.Context, p *requestdata.Principal, groupID uuid.UUID, input AddStudentInput) (*types.Enrollment, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, apierr.Validation("student name is required")
	}

	var enrollment *types.Enrollment
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		teacher, err := rs.teacherRepo.GetByIDForUpdate(ctx, tx, p.TeacherID)
		if err != nil {
			return notFoundOr(err, "teacher")
		}
		group, err := rs.groupRepo.GetByIDForUpdate(ctx, tx, groupID)
		if err != nil {
			return notFoundOr(err, "group")
		}
		if err := ensureGroupOwned(p, group); err != nil {
			return err
		}

		enrollment = &types.Enrollment{
			ID:        uuid.New(),
			TeacherID: teacher.ID,
			GroupID:   group.ID,
			Name:      name,
			Phone:     strings.TrimSpace(input.Phone),
		}
		if err := rs.enrollmentRepo.Create(ctx, tx, enrollment); err != nil {
			return apierr.Persistence(fmt.Errorf("create enrollment: %w", err))
		}

		entry := types.RosterEntry{ID: enrollment.ID, Name: name}
		teacher.Students = append(teacher.Students, entry)
		group.Students = append(group.Students, entry)

		if err := rs.groupRepo.Save(ctx, tx, group); err != nil {
			return apierr.Persistence(fmt.Errorf("save group: %w", err))
		}
		if err := rs.teacherRepo.Save(ctx, tx, teacher); err != nil {
			return apierr.Persistence(fmt.Errorf("save teacher: %w", err))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	rs.log.Info("Added student", "enrollment_id", enrollment.ID, "group_id", groupID)
	return enrollment, nil
}

func (rs *rosterService) RemoveStudent(ctx context.Context, p *requestdata.Principal, groupID, studentID uuid.UUID) error {
	err := rs.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		teacher, err := rs.teacherRepo.GetByIDForUpdate(ctx, tx, p.TeacherID)
		if err != nil {
			return notFoundOr(err, "teacher")
		}
		group, err := rs.groupRepo.GetByIDForUpdate(ctx, tx, groupID)
		if err != nil {
			return notFoundOr(err, "group")
		}
		if err := ensureGroupOwned(p, group); err != nil {
			return err
		}
		student, err := rs.enrollmentRepo.GetByIDForUpdate(ctx, tx, studentID)
		if err != nil {
			return notFoundOr(err, "student")
		}
		if err := ensureEnrollmentOwned(p, student); err != nil {
			return err
		}

		teacher.Students = removeEntry(teacher.Students, studentID)
		group.Students = removeEntry(group.Students, studentID)

		if err := rs.enrollmentRepo.Delete(ctx, tx, studentID); err != nil {
			return apierr.Persistence(fmt.Errorf("delete enrollment: %w", err))
		}
		if err := rs.groupRepo.Save(ctx, tx, group); err != nil {
			return apierr.Persistence(fmt.Errorf("save group: %w", err))
		}
		if err := rs.teacherRepo.Save(ctx, tx, teacher); err != nil {
			return apierr.Persistence(fmt.Errorf("save teacher: %w", err))
		}
		return nil
	})
	if err != nil {
		return err
	}

	rs.log.Info("Removed student", "enrollment_id", studentID, "group_id", groupID)
	return nil
}

func (rs *rosterService) GetStudent(ctx context.Context, p *requestdata.Principal, studentID uuid.UUID) (*types.Enrollment, error) {
	student, err := rs.enrollmentRepo.GetByID(ctx, nil, studentID)
	if err != nil {
		return nil, notFoundOr(err, "student")
	}
	if err := ensureEnrollmentOwned(p, student); err != nil {
		return nil, err
	}
	return student, nil
}
