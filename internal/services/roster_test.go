package services

import (
	"context"
	"testing"

	"github.com/tadrees-app/tadrees-backend/internal/platform/apierr"
)

func TestCreateGroupUpdatesTeacherRoster(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	group, err := f.roster.CreateGroup(ctx, f.principal, CreateGroupInput{Name: "saturday group", Day: "sat"})
	if err != nil {
		t.Fatalf("CreateGroup: %v", err)
	}
	if group.TeacherID != f.teacher.ID {
		t.Fatalf("group teacher id: want=%s got=%s", f.teacher.ID, group.TeacherID)
	}

	teacher := f.reloadTeacher(t)
	if len(teacher.Groups) != 1 {
		t.Fatalf("teacher group roster: want=1 got=%d", len(teacher.Groups))
	}
	if teacher.Groups[0].ID != group.ID || teacher.Groups[0].Name != "saturday group" {
		t.Fatalf("teacher roster entry: got %+v", teacher.Groups[0])
	}
}

func TestCreateGroupRejectsDuplicateNameAndBadDay(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustCreateGroup(t, "saturday group")

	_, err := f.roster.CreateGroup(ctx, f.principal, CreateGroupInput{Name: "saturday group", Day: "sun"})
	assertCode(t, err, apierr.CodeValidation)

	_, err = f.roster.CreateGroup(ctx, f.principal, CreateGroupInput{Name: "weekend group", Day: "saturday"})
	assertCode(t, err, apierr.CodeValidation)

	_, err = f.roster.CreateGroup(ctx, f.principal, CreateGroupInput{Name: "   ", Day: "sun"})
	assertCode(t, err, apierr.CodeValidation)

	if got := len(f.reloadTeacher(t).Groups); got != 1 {
		t.Fatalf("teacher group roster after rejections: want=1 got=%d", got)
	}
}

func TestAddStudentKeepsBothRostersInLockstep(t *testing.T) {
	f := newFixture(t)
	group := f.mustCreateGroup(t, "saturday group")
	a := f.mustAddStudent(t, group.ID, "Ahmed Samir")

	teacher := f.reloadTeacher(t)
	if len(teacher.Students) != 1 || teacher.Students[0].ID != a.ID {
		t.Fatalf("teacher student roster: got %+v", teacher.Students)
	}

	reloaded := f.reloadGroup(t, group.ID)
	if len(reloaded.Students) != 1 || reloaded.Students[0].ID != a.ID {
		t.Fatalf("group student roster: got %+v", reloaded.Students)
	}
	if a.GroupID != group.ID || a.TeacherID != f.teacher.ID {
		t.Fatalf("enrollment linkage: group=%s teacher=%s", a.GroupID, a.TeacherID)
	}
}

func TestRemoveStudentClearsBothRostersAndEnrollment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group := f.mustCreateGroup(t, "saturday group")
	a := f.mustAddStudent(t, group.ID, "Ahmed Samir")
	b := f.mustAddStudent(t, group.ID, "Omar Khaled")

	if err := f.roster.RemoveStudent(ctx, f.principal, group.ID, a.ID); err != nil {
		t.Fatalf("RemoveStudent: %v", err)
	}

	teacher := f.reloadTeacher(t)
	if len(teacher.Students) != 1 || teacher.Students[0].ID != b.ID {
		t.Fatalf("teacher student roster after remove: got %+v", teacher.Students)
	}
	reloaded := f.reloadGroup(t, group.ID)
	if len(reloaded.Students) != 1 || reloaded.Students[0].ID != b.ID {
		t.Fatalf("group student roster after remove: got %+v", reloaded.Students)
	}

	_, err := f.roster.GetStudent(ctx, f.principal, a.ID)
	assertCode(t, err, apierr.CodeNotFound)
}

func TestGetStudentForeignTeacherForbidden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group := f.mustCreateGroup(t, "saturday group")
	a := f.mustAddStudent(t, group.ID, "Ahmed Samir")

	outsider := *f.principal
	outsider.TeacherID = newForeignTeacher(t, f)
	_, err := f.roster.GetStudent(ctx, &outsider, a.ID)
	assertCode(t, err, apierr.CodeForbidden)
}

func TestListGroupsReturnsOnlyOwnedGroups(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.mustCreateGroup(t, "saturday group")
	f.mustCreateGroup(t, "sunday group")

	groups, err := f.roster.ListGroups(ctx, f.principal)
	if err != nil {
		t.Fatalf("ListGroups: %v", err)
	}
	if len(groups) != 2 {
		t.Fatalf("owned group count: want=2 got=%d", len(groups))
	}

	outsider := *f.principal
	outsider.TeacherID = newForeignTeacher(t, f)
	groups, err = f.roster.ListGroups(ctx, &outsider)
	if err != nil {
		t.Fatalf("ListGroups outsider: %v", err)
	}
	if len(groups) != 0 {
		t.Fatalf("foreign group count: want=0 got=%d", len(groups))
	}
}
