package services

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/tadrees-app/tadrees-backend/internal/platform/apierr"
)

func TestAddScorePrependsEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group := f.mustCreateGroup(t, "saturday group")
	a := f.mustAddStudent(t, group.ID, "Ahmed Samir")

	first, err := f.score.AddScore(ctx, f.principal, group.ID, a.ID, 7)
	if err != nil {
		t.Fatalf("AddScore 7: %v", err)
	}
	second, err := f.score.AddScore(ctx, f.principal, group.ID, a.ID, 9)
	if err != nil {
		t.Fatalf("AddScore 9: %v", err)
	}

	scores, err := f.score.GetScores(ctx, f.principal, a.ID)
	if err != nil {
		t.Fatalf("GetScores: %v", err)
	}
	if len(scores) != 2 {
		t.Fatalf("score count: want=2 got=%d", len(scores))
	}
	if scores[0].ID != second.ID || scores[1].ID != first.ID {
		t.Fatalf("score order: want most-recent first")
	}
	if scores[0].Value != 9 || scores[1].Value != 7 {
		t.Fatalf("score values: want [9 7] got [%d %d]", scores[0].Value, scores[1].Value)
	}
}

func TestAddScoreRejectsNegativeValue(t *testing.T) {
	f := newFixture(t)
	group := f.mustCreateGroup(t, "saturday group")
	a := f.mustAddStudent(t, group.ID, "Ahmed Samir")

	_, err := f.score.AddScore(context.Background(), f.principal, group.ID, a.ID, -1)
	assertCode(t, err, apierr.CodeValidation)
}

func TestEditScoreChangesValueInPlace(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group := f.mustCreateGroup(t, "saturday group")
	a := f.mustAddStudent(t, group.ID, "Ahmed Samir")

	entry, err := f.score.AddScore(ctx, f.principal, group.ID, a.ID, 7)
	if err != nil {
		t.Fatalf("AddScore: %v", err)
	}

	edited, err := f.score.EditScore(ctx, f.principal, group.ID, a.ID, entry.ID, 10)
	if err != nil {
		t.Fatalf("EditScore: %v", err)
	}
	if edited.ID != entry.ID || edited.Value != 10 {
		t.Fatalf("edited entry: got id=%s value=%d", edited.ID, edited.Value)
	}

	scores, err := f.score.GetScores(ctx, f.principal, a.ID)
	if err != nil {
		t.Fatalf("GetScores: %v", err)
	}
	if len(scores) != 1 || scores[0].Value != 10 {
		t.Fatalf("persisted scores: got %+v", scores)
	}
}

func TestDeleteScoreUnknownIDNotFound(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group := f.mustCreateGroup(t, "saturday group")
	a := f.mustAddStudent(t, group.ID, "Ahmed Samir")

	if _, err := f.score.AddScore(ctx, f.principal, group.ID, a.ID, 7); err != nil {
		t.Fatalf("AddScore: %v", err)
	}

	err := f.score.DeleteScore(ctx, f.principal, group.ID, a.ID, uuid.New())
	assertCode(t, err, apierr.CodeNotFound)

	scores, err := f.score.GetScores(ctx, f.principal, a.ID)
	if err != nil {
		t.Fatalf("GetScores: %v", err)
	}
	if len(scores) != 1 {
		t.Fatalf("score count after failed delete: want=1 got=%d", len(scores))
	}
}

func TestDeleteScoreRemovesEntry(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group := f.mustCreateGroup(t, "saturday group")
	a := f.mustAddStudent(t, group.ID, "Ahmed Samir")

	entry, err := f.score.AddScore(ctx, f.principal, group.ID, a.ID, 7)
	if err != nil {
		t.Fatalf("AddScore: %v", err)
	}
	if err := f.score.DeleteScore(ctx, f.principal, group.ID, a.ID, entry.ID); err != nil {
		t.Fatalf("DeleteScore: %v", err)
	}

	scores, err := f.score.GetScores(ctx, f.principal, a.ID)
	if err != nil {
		t.Fatalf("GetScores: %v", err)
	}
	if len(scores) != 0 {
		t.Fatalf("score count after delete: want=0 got=%d", len(scores))
	}
}

func TestSetScoreConfigAppliesToEveryOwnedGroup(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	g1 := f.mustCreateGroup(t, "saturday group")
	g2 := f.mustCreateGroup(t, "sunday group")

	if err := f.score.SetScoreConfig(ctx, f.principal, ScoreKindMax, 20); err != nil {
		t.Fatalf("SetScoreConfig max: %v", err)
	}
	if err := f.score.SetScoreConfig(ctx, f.principal, ScoreKindRedo, 10); err != nil {
		t.Fatalf("SetScoreConfig redo: %v", err)
	}

	for _, id := range []uuid.UUID{g1.ID, g2.ID} {
		group := f.reloadGroup(t, id)
		if group.MaxScore != 20 || group.RedoScore != 10 {
			t.Fatalf("score config: want max=20 redo=10 got max=%d redo=%d", group.MaxScore, group.RedoScore)
		}
	}

	err := f.score.SetScoreConfig(ctx, f.principal, "bonus", 5)
	assertCode(t, err, apierr.CodeValidation)
}

func TestScoreDatesAndScoresByDate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	group := f.mustCreateGroup(t, "saturday group")
	a := f.mustAddStudent(t, group.ID, "Ahmed Samir")
	b := f.mustAddStudent(t, group.ID, "Omar Khaled")

	if _, err := f.score.AddScore(ctx, f.principal, group.ID, a.ID, 7); err != nil {
		t.Fatalf("AddScore a: %v", err)
	}
	if _, err := f.score.AddScore(ctx, f.principal, group.ID, b.ID, 9); err != nil {
		t.Fatalf("AddScore b: %v", err)
	}

	today := time.Now().UTC().Format("2006-01-02")

	dates, err := f.score.ScoreDates(ctx, f.principal, group.ID)
	if err != nil {
		t.Fatalf("ScoreDates: %v", err)
	}
	if len(dates) != 1 || dates[0] != today {
		t.Fatalf("score dates: want [%s] got %v", today, dates)
	}

	results, err := f.score.ScoresByDate(ctx, f.principal, group.ID, today)
	if err != nil {
		t.Fatalf("ScoresByDate: %v", err)
	}
	if len(results) != 2 {
		t.Fatalf("results for %s: want=2 got=%d", today, len(results))
	}

	_, err = f.score.ScoresByDate(ctx, f.principal, group.ID, "29-08-2026")
	assertCode(t, err, apierr.CodeValidation)
}
