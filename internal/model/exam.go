package model

// Quota is the number of questions an exam draws from each tier.
type Quota struct {
	Easy   int `json:"easy" binding:"min=0"`
	Medium int `json:"medium" binding:"min=0"`
	Hard   int `json:"hard" binding:"min=0"`
}

// For returns the quota for a single tier.
func (q Quota) For(d Difficulty) int {
	switch d {
	case DifficultyEasy:
		return q.Easy
	case DifficultyMedium:
		return q.Medium
	case DifficultyHard:
		return q.Hard
	}
	return 0
}

// Total is the sum over all tiers.
func (q Quota) Total() int {
	return q.Easy + q.Medium + q.Hard
}

// ExamConfig describes the shape every attempt of an exam must have.
// Quota.Total() == TotalQuestions is enforced when the config is created.
type ExamConfig struct {
	ID              string     `json:"id"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	Difficulty      Difficulty `json:"difficulty"`
	DurationMinutes int        `json:"durationMinutes"`
	TotalQuestions  int        `json:"totalQuestions"`
	Quota           Quota      `json:"quota"`
	Custom          bool       `json:"custom"`
}

// CreateExamRequest is the payload for creating a custom exam.
type CreateExamRequest struct {
	Title           string `json:"title" binding:"required,min=3,max=255"`
	Description     string `json:"description" binding:"omitempty,max=1000"`
	Difficulty      string `json:"difficulty" binding:"required,oneof=easy medium hard"`
	DurationMinutes int    `json:"durationMinutes" binding:"required,min=1,max=480"`
	TotalQuestions  int    `json:"totalQuestions" binding:"required,min=1,max=200"`
	Quota           Quota  `json:"quota"`
}
