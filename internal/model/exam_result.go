package model

import "time"

// LevelPerformance counts correct answers against questions asked.
type LevelPerformance struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// CompletionReason records what ended the attempt.
type CompletionReason string

const (
	CompletionSubmitted CompletionReason = "submitted"
	CompletionExpired   CompletionReason = "expired"
)

// ExamResult is the scored outcome of one completed attempt. Immutable once created.
type ExamResult struct {
	ID                   string                          `json:"id"`
	SessionID            string                          `json:"sessionId"`
	ExamConfigID         string                          `json:"examConfigId"`
	ExamTitle            string                          `json:"examTitle"`
	TotalQuestions       int                             `json:"totalQuestions"`
	CorrectAnswers       int                             `json:"correctAnswers"`
	UnansweredCount      int                             `json:"unansweredCount"`
	Score                int                             `json:"score"`
	TimeSpentMinutes     float64                         `json:"timeSpentMinutes"`
	CompletedAt          time.Time                       `json:"completedAt"`
	Difficulty           Difficulty                      `json:"difficulty"`
	CompletionReason     CompletionReason                `json:"completionReason"`
	PerformanceByLevel   map[Difficulty]LevelPerformance `json:"performanceByLevel"`
	PerformanceBySubject map[string]LevelPerformance     `json:"performanceBySubject"`
}

// UserProgress summarises the result history for the dashboard.
type UserProgress struct {
	TotalExamsTaken int          `json:"totalExamsTaken"`
	AverageScore    int          `json:"averageScore"`
	StrongSubjects  []string     `json:"strongSubjects"`
	WeakSubjects    []string     `json:"weakSubjects"`
	RecentResults   []ExamResult `json:"recentResults"`
}
