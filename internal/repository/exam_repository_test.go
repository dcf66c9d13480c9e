package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stemsi/smartexam/internal/model"
	"github.com/stemsi/smartexam/internal/store"
)

func TestSeedExamsSatisfyQuota(t *testing.T) {
	for _, e := range SeedExams() {
		e := e
		if err := ValidateExam(&e); err != nil {
			t.Errorf("seed exam %s: %v", e.ID, err)
		}
	}
}

func TestExamRepositoryCreateValidatesQuota(t *testing.T) {
	repo := NewExamRepository(store.NewMemoryStore())
	ctx := context.Background()

	bad := &model.ExamConfig{
		Title:           "Mixed",
		Difficulty:      model.DifficultyMedium,
		DurationMinutes: 20,
		TotalQuestions:  5,
		Quota:           model.Quota{Easy: 2, Medium: 2},
	}
	if err := repo.Create(ctx, bad); !errors.Is(err, ErrQuotaMismatch) {
		t.Fatalf("err = %v, want ErrQuotaMismatch", err)
	}

	bad.Quota.Hard = 1
	if err := repo.Create(ctx, bad); err != nil {
		t.Fatalf("Create: %v", err)
	}

	exams, err := repo.List(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(exams) != 4 || exams[3].ID != bad.ID || !exams[3].Custom {
		t.Fatalf("exams = %+v", exams)
	}

	got, err := repo.GetByID(ctx, bad.ID)
	if err != nil || got.Quota.Hard != 1 {
		t.Fatalf("GetByID = (%+v, %v)", got, err)
	}
}

func TestExamRepositoryDelete(t *testing.T) {
	repo := NewExamRepository(store.NewMemoryStore())
	ctx := context.Background()

	if err := repo.Delete(ctx, "upsc-prelims-1"); !errors.Is(err, ErrSeedImmutable) {
		t.Fatalf("delete seed: err = %v", err)
	}
	if err := repo.Delete(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing: err = %v", err)
	}
	if _, err := repo.GetByID(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID missing: err = %v", err)
	}
}

func TestValidateExam(t *testing.T) {
	base := model.ExamConfig{Title: "T", Difficulty: model.DifficultyEasy, DurationMinutes: 10, TotalQuestions: 2, Quota: model.Quota{Easy: 2}}

	cases := []struct {
		name   string
		mutate func(*model.ExamConfig)
		want   error
	}{
		{"valid", func(*model.ExamConfig) {}, nil},
		{"no duration", func(e *model.ExamConfig) { e.DurationMinutes = 0 }, ErrInvalidRecord},
		{"negative quota", func(e *model.ExamConfig) { e.Quota = model.Quota{Easy: 3, Hard: -1} }, ErrInvalidRecord},
		{"mismatch", func(e *model.ExamConfig) { e.TotalQuestions = 3 }, ErrQuotaMismatch},
		{"bad tier", func(e *model.ExamConfig) { e.Difficulty = "x" }, ErrInvalidRecord},
	}
	for _, tc := range cases {
		e := base
		tc.mutate(&e)
		err := ValidateExam(&e)
		if tc.want == nil && err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if tc.want != nil && !errors.Is(err, tc.want) {
			t.Errorf("%s: err = %v, want %v", tc.name, err, tc.want)
		}
	}
}
