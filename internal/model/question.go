package model

// Difficulty is the tier a question belongs to and the unit exam quotas are expressed in.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Difficulties returns the tiers in canonical order.
func Difficulties() []Difficulty {
	return []Difficulty{DifficultyEasy, DifficultyMedium, DifficultyHard}
}

// Valid reports whether d is one of the known tiers.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

const (
	MinOptions = 2
	MaxOptions = 6
)

// Question represents a single multiple-choice question.
type Question struct {
	ID                 string     `json:"id"`
	Text               string     `json:"text"`
	Options            []string   `json:"options"`
	CorrectAnswerIndex int        `json:"correctAnswerIndex"`
	Difficulty         Difficulty `json:"difficulty"`
	Subject            string     `json:"subject"`
	Explanation        string     `json:"explanation,omitempty"`
	Custom             bool       `json:"custom"`
}

// QuestionForCandidate is a question without the answer key, shown while an attempt is running.
type QuestionForCandidate struct {
	ID         string     `json:"id"`
	Text       string     `json:"text"`
	Options    []string   `json:"options"`
	Difficulty Difficulty `json:"difficulty"`
	Subject    string     `json:"subject"`
}

// ForCandidate strips the answer key and explanation.
func (q Question) ForCandidate() QuestionForCandidate {
	opts := make([]string, len(q.Options))
	copy(opts, q.Options)
	return QuestionForCandidate{
		ID:         q.ID,
		Text:       q.Text,
		Options:    opts,
		Difficulty: q.Difficulty,
		Subject:    q.Subject,
	}
}

// QuestionFilter narrows a question listing. Zero values match everything.
type QuestionFilter struct {
	Difficulty Difficulty
	Subject    string
	Search     string
}

// AddQuestionRequest is the payload for adding a custom question.
// The answer index is checked against the option count by a struct-level rule.
type AddQuestionRequest struct {
	Text               string   `json:"text" binding:"required,min=1,max=2000"`
	Options            []string `json:"options" binding:"required,min=2,max=6,dive,required,max=500"`
	CorrectAnswerIndex *int     `json:"correctAnswerIndex" binding:"required,min=0"`
	Difficulty         string   `json:"difficulty" binding:"required,oneof=easy medium hard"`
	Subject            string   `json:"subject" binding:"required,min=1,max=100"`
	Explanation        string   `json:"explanation" binding:"omitempty,max=2000"`
}
