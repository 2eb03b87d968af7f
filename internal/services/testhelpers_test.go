package services

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/tadrees-app/tadrees-backend/internal/platform/logger"
	"github.com/tadrees-app/tadrees-backend/internal/repos"
	"github.com/tadrees-app/tadrees-backend/internal/requestdata"
	"github.com/tadrees-app/tadrees-backend/internal/types"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := db.AutoMigrate(&types.Teacher{}, &types.Assistant{}, &types.Group{}, &types.Enrollment{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

// fixture wires the real services against an in-memory database with one
// seeded teacher and an acting admin principal.
type fixture struct {
	db         *gorm.DB
	teacher    *types.Teacher
	principal  *requestdata.Principal
	roster     RosterService
	attendance AttendanceService
	payment    PaymentService
	score      ScoreService
	report     ReportService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)
	log := newTestLogger(t)

	teacherRepo := repos.NewTeacherRepo(db, log)
	groupRepo := repos.NewGroupRepo(db, log)
	enrollmentRepo := repos.NewEnrollmentRepo(db, log)

	teacher := &types.Teacher{ID: uuid.New(), Name: "Mr. Fathy", Subject: "math"}
	if err := teacherRepo.Create(context.Background(), nil, teacher); err != nil {
		t.Fatalf("seed teacher: %v", err)
	}

	return &fixture{
		db:      db,
		teacher: teacher,
		principal: &requestdata.Principal{
			AssistantID: uuid.New(),
			TeacherID:   teacher.ID,
			Role:        types.RoleAdmin,
		},
		roster:     NewRosterService(db, log, teacherRepo, groupRepo, enrollmentRepo),
		attendance: NewAttendanceService(db, log, groupRepo, enrollmentRepo),
		payment:    NewPaymentService(db, log, groupRepo, enrollmentRepo),
		score:      NewScoreService(db, log, groupRepo, enrollmentRepo),
		report:     NewReportService(log, groupRepo, enrollmentRepo),
	}
}

func (f *fixture) mustCreateGroup(t *testing.T, name string) *types.Group {
	t.Helper()
	group, err := f.roster.CreateGroup(context.Background(), f.principal, CreateGroupInput{Name: name, Day: "sat"})
	if err != nil {
		t.Fatalf("create group %q: %v", name, err)
	}
	return group
}

func (f *fixture) mustAddStudent(t *testing.T, groupID uuid.UUID, name string) *types.Enrollment {
	t.Helper()
	enrollment, err := f.roster.AddStudent(context.Background(), f.principal, groupID, AddStudentInput{
		Name:  name,
		Phone: "01234567890",
	})
	if err != nil {
		t.Fatalf("add student %q: %v", name, err)
	}
	return enrollment
}

func mustParseID(t *testing.T, raw string) uuid.UUID {
	t.Helper()
	id, err := uuid.Parse(raw)
	if err != nil {
		t.Fatalf("parse id %q: %v", raw, err)
	}
	return id
}

// newForeignTeacher seeds a second teacher and returns its id, for tests
// that exercise cross-teacher access checks.
func newForeignTeacher(t *testing.T, f *fixture) uuid.UUID {
	t.Helper()
	teacher := &types.Teacher{ID: uuid.New(), Name: "Mr. Hassan", Subject: "physics"}
	if err := f.db.Create(teacher).Error; err != nil {
		t.Fatalf("seed foreign teacher: %v", err)
	}
	return teacher.ID
}

func (f *fixture) reloadStudent(t *testing.T, studentID uuid.UUID) *types.Enrollment {
	t.Helper()
	var student types.Enrollment
	if err := f.db.Where("id = ?", studentID).First(&student).Error; err != nil {
		t.Fatalf("reload student: %v", err)
	}
	return &student
}

func (f *fixture) reloadGroup(t *testing.T, groupID uuid.UUID) *types.Group {
	t.Helper()
	var group types.Group
	if err := f.db.Where("id = ?", groupID).First(&group).Error; err != nil {
		t.Fatalf("reload group: %v", err)
	}
	return &group
}

func (f *fixture) reloadTeacher(t *testing.T) *types.Teacher {
	t.Helper()
	var teacher types.Teacher
	if err := f.db.Where("id = ?", f.teacher.ID).First(&teacher).Error; err != nil {
		t.Fatalf("reload teacher: %v", err)
	}
	return &teacher
}

// memoryTokenStore is the in-process TokenStore used by auth tests.
type memoryTokenStore struct {
	mu     sync.Mutex
	tokens map[uuid.UUID]string
}

func newMemoryTokenStore() *memoryTokenStore {
	return &memoryTokenStore{tokens: map[uuid.UUID]string{}}
}

func (ms *memoryTokenStore) SaveRefresh(_ context.Context, assistantID uuid.UUID, token string, _ time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	ms.tokens[assistantID] = token
	return nil
}

func (ms *memoryTokenStore) GetRefresh(_ context.Context, assistantID uuid.UUID) (string, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return ms.tokens[assistantID], nil
}

func (ms *memoryTokenStore) DeleteRefresh(_ context.Context, assistantID uuid.UUID) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	delete(ms.tokens, assistantID)
	return nil
}
