package engine

import (
	"errors"
	"fmt"

	"github.com/stemsi/smartexam/internal/model"
)

var (
	ErrInsufficientQuestions = errors.New("insufficient questions for quota")
	ErrInvalidState          = errors.New("session is not in progress")
	ErrInvalidSession        = errors.New("invalid session")
	ErrPersistenceFailure    = errors.New("result persistence failed")
	ErrUnknownQuestion       = errors.New("question is not part of this session")
	ErrInvalidOption         = errors.New("selected option is out of range")
	ErrIndexOutOfRange       = errors.New("question index out of range")
)

// InsufficientQuestionsError names the tier that could not satisfy its quota.
type InsufficientQuestionsError struct {
	Difficulty model.Difficulty
	Required   int
	Available  int
}

func (e *InsufficientQuestionsError) Error() string {
	return fmt.Sprintf("%s: %s tier needs %d, pool has %d",
		ErrInsufficientQuestions, e.Difficulty, e.Required, e.Available)
}

func (e *InsufficientQuestionsError) Is(target error) bool {
	return target == ErrInsufficientQuestions
}
