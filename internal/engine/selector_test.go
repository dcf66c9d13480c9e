package engine

import (
	"context"
	"errors"
	"testing"

	"github.com/stemsi/smartexam/internal/model"
)

func TestSelectMeetsQuota(t *testing.T) {
	cases := []struct {
		name  string
		quota model.Quota
	}{
		{"easy heavy", model.Quota{Easy: 4, Medium: 2}},
		{"balanced", model.Quota{Easy: 2, Medium: 4, Hard: 2}},
		{"hard heavy", model.Quota{Easy: 2, Medium: 4, Hard: 4}},
		{"single tier", model.Quota{Hard: 3}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := model.ExamConfig{ID: "x", TotalQuestions: tc.quota.Total(), Quota: tc.quota}
			got, err := NewSelector(nil).Select(context.Background(), cfg, fullPool())
			if err != nil {
				t.Fatalf("Select: %v", err)
			}
			if len(got) != cfg.TotalQuestions {
				t.Fatalf("len = %d, want %d", len(got), cfg.TotalQuestions)
			}

			seen := map[string]bool{}
			counts := map[model.Difficulty]int{}
			for _, q := range got {
				if seen[q.ID] {
					t.Fatalf("question %s selected twice", q.ID)
				}
				seen[q.ID] = true
				counts[q.Difficulty]++
			}
			for _, d := range model.Difficulties() {
				if counts[d] != tc.quota.For(d) {
					t.Errorf("%s count = %d, want %d", d, counts[d], tc.quota.For(d))
				}
			}
		})
	}
}

func TestSelectInsufficientPool(t *testing.T) {
	src := fullPool()
	src[model.DifficultyHard] = src[model.DifficultyHard][:2]
	cfg := model.ExamConfig{ID: "x", TotalQuestions: 8, Quota: model.Quota{Easy: 2, Medium: 2, Hard: 4}}

	got, err := NewSelector(nil).Select(context.Background(), cfg, src)
	if !errors.Is(err, ErrInsufficientQuestions) {
		t.Fatalf("err = %v, want ErrInsufficientQuestions", err)
	}
	if got != nil {
		t.Fatalf("partial selection returned: %d questions", len(got))
	}

	var ie *InsufficientQuestionsError
	if !errors.As(err, &ie) {
		t.Fatalf("err is %T, want *InsufficientQuestionsError", err)
	}
	if ie.Difficulty != model.DifficultyHard || ie.Required != 4 || ie.Available != 2 {
		t.Errorf("got %+v", *ie)
	}
}

func TestSelectDoesNotMutatePools(t *testing.T) {
	src := fullPool()
	before := make([]string, 0, 4)
	for _, q := range src[model.DifficultyEasy] {
		before = append(before, q.ID)
	}

	cfg := model.ExamConfig{ID: "x", TotalQuestions: 3, Quota: model.Quota{Easy: 3}}
	if _, err := NewSelector(reverseShuffler).Select(context.Background(), cfg, src); err != nil {
		t.Fatalf("Select: %v", err)
	}

	for i, q := range src[model.DifficultyEasy] {
		if q.ID != before[i] {
			t.Fatalf("pool reordered at %d: %s != %s", i, q.ID, before[i])
		}
	}
}

func TestSelectDeterministicWithInjectedShuffler(t *testing.T) {
	cfg := model.ExamConfig{ID: "x", TotalQuestions: 3, Quota: model.Quota{Easy: 2, Medium: 1}}

	got, err := NewSelector(reverseShuffler).Select(context.Background(), cfg, fullPool())
	if err != nil {
		t.Fatalf("Select: %v", err)
	}

	// Per tier reversed then sliced: easy-4, easy-3, medium-4. Then reversed again.
	want := []string{"medium-4", "easy-3", "easy-4"}
	for i, q := range got {
		if q.ID != want[i] {
			t.Fatalf("order = %v, want %v", ids(got), want)
		}
	}
}

func TestSelectZeroQuotaSkipsTier(t *testing.T) {
	src := fullPool()
	delete(src, model.DifficultyHard)
	cfg := model.ExamConfig{ID: "x", TotalQuestions: 2, Quota: model.Quota{Easy: 1, Medium: 1}}

	got, err := NewSelector(identityShuffler).Select(context.Background(), cfg, src)
	if err != nil {
		t.Fatalf("Select: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
}

func ids(qs []model.Question) []string {
	out := make([]string, len(qs))
	for i, q := range qs {
		out[i] = q.ID
	}
	return out
}
