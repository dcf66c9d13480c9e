package model

import "time"

// SessionStatus enumerates exam session states.
type SessionStatus string

const (
	SessionStatusInitializing SessionStatus = "INITIALIZING"
	SessionStatusInProgress   SessionStatus = "IN_PROGRESS"
	SessionStatusCompleted    SessionStatus = "COMPLETED"
)

// UserAnswer is the latest response recorded for one question.
type UserAnswer struct {
	QuestionID          string  `json:"questionId"`
	SelectedOptionIndex int     `json:"selectedOptionIndex"`
	TimeSpentSeconds    float64 `json:"timeSpentSeconds"`
}

// ExamSession is a point-in-time copy of one attempt.
type ExamSession struct {
	ID           string                `json:"id"`
	ExamConfigID string                `json:"examConfigId"`
	Questions    []Question            `json:"questions"`
	StartTime    time.Time             `json:"startTime"`
	CompletedAt  *time.Time            `json:"completedAt,omitempty"`
	Answers      map[string]UserAnswer `json:"answers"`
	CurrentIndex int                   `json:"currentIndex"`
	Completed    bool                  `json:"completed"`
	Status       SessionStatus         `json:"status"`
}

// TimerLevel is the advisory urgency of the remaining time.
type TimerLevel string

const (
	TimerLevelNormal   TimerLevel = "normal"
	TimerLevelWarning  TimerLevel = "warning"
	TimerLevelCritical TimerLevel = "critical"
	TimerLevelExpired  TimerLevel = "expired"
)

// SessionState is what the candidate sees while an attempt is running.
type SessionState struct {
	SessionID        string                `json:"sessionId"`
	ExamConfigID     string                `json:"examConfigId"`
	ExamTitle        string                `json:"examTitle"`
	Status           SessionStatus         `json:"status"`
	CurrentIndex     int                   `json:"currentIndex"`
	TotalQuestions   int                   `json:"totalQuestions"`
	AnsweredCount    int                   `json:"answeredCount"`
	Answered         []bool                `json:"answered"`
	CurrentQuestion  *QuestionForCandidate `json:"currentQuestion,omitempty"`
	SelectedOption   *int                  `json:"selectedOption,omitempty"`
	StartTime        time.Time             `json:"startTime"`
	RemainingSeconds float64               `json:"remainingSeconds"`
	TimerLevel       TimerLevel            `json:"timerLevel"`
}

// ReviewItem is one row of the post-completion review.
type ReviewItem struct {
	Question       Question `json:"question"`
	SelectedOption *int     `json:"selectedOption,omitempty"`
	IsCorrect      bool     `json:"isCorrect"`
	TimeSpent      float64  `json:"timeSpentSeconds"`
}

// RecordAnswerRequest is the payload for answering a question.
// When TimeSpentSeconds is omitted the time since the question was shown is used.
type RecordAnswerRequest struct {
	QuestionID          string   `json:"questionId" binding:"required"`
	SelectedOptionIndex *int     `json:"selectedOptionIndex" binding:"required,min=0,max=5"`
	TimeSpentSeconds    *float64 `json:"timeSpentSeconds" binding:"omitempty,min=0"`
}

// GoToRequest is the payload for jumping to a question from the navigation grid.
type GoToRequest struct {
	Index *int `json:"index" binding:"required,min=0"`
}

// StartSessionRequest is the payload for starting an attempt.
type StartSessionRequest struct {
	ExamID string `json:"examId" binding:"required,max=128"`
}
