package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/stemsi/smartexam/internal/model"
	"github.com/stemsi/smartexam/internal/store"
)

func TestQuestionRepositorySeedTiers(t *testing.T) {
	repo := NewQuestionRepository(store.NewMemoryStore())
	ctx := context.Background()

	for _, d := range model.Difficulties() {
		qs, err := repo.ListByDifficulty(ctx, d)
		if err != nil {
			t.Fatalf("ListByDifficulty(%s): %v", d, err)
		}
		if len(qs) != 4 {
			t.Errorf("%s pool = %d, want 4", d, len(qs))
		}
		for _, q := range qs {
			if q.Difficulty != d || q.Custom {
				t.Errorf("unexpected question %+v in %s pool", q, d)
			}
		}
	}
}

func TestQuestionRepositoryFilter(t *testing.T) {
	repo := NewQuestionRepository(store.NewMemoryStore())
	ctx := context.Background()

	geo, err := repo.List(ctx, model.QuestionFilter{Subject: "geography", Difficulty: model.DifficultyHard})
	if err != nil {
		t.Fatal(err)
	}
	if len(geo) != 2 {
		t.Fatalf("hard geography = %d, want 2", len(geo))
	}

	found, err := repo.List(ctx, model.QuestionFilter{Search: "KANCHENJUNGA"})
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 0 {
		t.Fatalf("search matched option text: %+v", found)
	}

	found, err = repo.List(ctx, model.QuestionFilter{Search: "highest peak"})
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0].ID != "4" {
		t.Fatalf("search = %+v", found)
	}

	subjects, err := repo.Subjects(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(subjects) != 2 || subjects[0] != "Geography" || subjects[1] != "Indian Polity" {
		t.Fatalf("subjects = %v", subjects)
	}
}

func TestQuestionRepositoryCreateAndDelete(t *testing.T) {
	st := store.NewMemoryStore()
	repo := NewQuestionRepository(st)
	ctx := context.Background()

	q := &model.Question{
		Text:               "Capital of Rajasthan?",
		Options:            []string{"Jaipur", "Jodhpur"},
		CorrectAnswerIndex: 0,
		Difficulty:         model.DifficultyEasy,
		Subject:            "Geography",
	}
	if err := repo.Create(ctx, q); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if q.ID == "" || !q.Custom {
		t.Fatalf("created question = %+v", q)
	}

	// A second repository over the same store sees the custom question.
	again := NewQuestionRepository(st)
	easy, err := again.ListByDifficulty(ctx, model.DifficultyEasy)
	if err != nil {
		t.Fatal(err)
	}
	if len(easy) != 5 || easy[4].ID != q.ID || !easy[4].Custom {
		t.Fatalf("easy pool after create = %+v", easy)
	}

	if err := repo.Delete(ctx, "1"); !errors.Is(err, ErrSeedImmutable) {
		t.Fatalf("delete seed: err = %v", err)
	}
	if err := repo.Delete(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("delete missing: err = %v", err)
	}
	if err := repo.Delete(ctx, q.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, q.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetByID after delete: err = %v", err)
	}
}

func TestQuestionRepositoryRejectsInvalid(t *testing.T) {
	repo := NewQuestionRepository(store.NewMemoryStore())
	cases := map[string]model.Question{
		"one option":   {Text: "x", Options: []string{"a"}, Difficulty: model.DifficultyEasy, Subject: "s"},
		"bad answer":   {Text: "x", Options: []string{"a", "b"}, CorrectAnswerIndex: 2, Difficulty: model.DifficultyEasy, Subject: "s"},
		"bad tier":     {Text: "x", Options: []string{"a", "b"}, Difficulty: "extreme", Subject: "s"},
		"empty text":   {Options: []string{"a", "b"}, Difficulty: model.DifficultyEasy, Subject: "s"},
		"seven option": {Text: "x", Options: []string{"a", "b", "c", "d", "e", "f", "g"}, Difficulty: model.DifficultyEasy, Subject: "s"},
	}
	for name, q := range cases {
		q := q
		if err := repo.Create(context.Background(), &q); !errors.Is(err, ErrInvalidRecord) {
			t.Errorf("%s: err = %v, want ErrInvalidRecord", name, err)
		}
	}
}

func TestSeedQuestionsAreCopies(t *testing.T) {
	a := SeedQuestions()
	a[0].Options[0] = "changed"
	if SeedQuestions()[0].Options[0] == "changed" {
		t.Fatal("SeedQuestions shares option slices")
	}
}
