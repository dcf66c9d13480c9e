package response

// ErrCode is a typed error code enum for consistent API error identification.
type ErrCode string

const (
	// ─── Authentication ────────────────────────────────────────────────
	ErrInvalidCredentials ErrCode = "INVALID_CREDENTIALS"
	ErrAdminDisabled      ErrCode = "ADMIN_LOGIN_DISABLED"
	ErrTokenRequired      ErrCode = "TOKEN_REQUIRED"
	ErrTokenInvalid       ErrCode = "TOKEN_INVALID"
	ErrAdminAccessOnly    ErrCode = "ADMIN_ACCESS_ONLY"

	// ─── Validation ────────────────────────────────────────────────────
	ErrValidation     ErrCode = "VALIDATION_ERROR"
	ErrInvalidPayload ErrCode = "INVALID_PAYLOAD"
	ErrQuotaMismatch  ErrCode = "QUOTA_MISMATCH"

	// ─── Resources ─────────────────────────────────────────────────────
	ErrNotFound        ErrCode = "NOT_FOUND"
	ErrSeedImmutable   ErrCode = "SEED_IMMUTABLE"
	ErrExamNotFound    ErrCode = "EXAM_NOT_FOUND"
	ErrSessionNotFound ErrCode = "SESSION_NOT_FOUND"

	// ─── Exam session ──────────────────────────────────────────────────
	ErrInsufficientQuestions ErrCode = "INSUFFICIENT_QUESTIONS"
	ErrSessionNotActive      ErrCode = "SESSION_NOT_IN_PROGRESS"
	ErrSessionNotCompleted   ErrCode = "SESSION_NOT_COMPLETED"
	ErrUnknownQuestion       ErrCode = "UNKNOWN_QUESTION"
	ErrInvalidOption         ErrCode = "INVALID_OPTION"
	ErrIndexOutOfRange       ErrCode = "INDEX_OUT_OF_RANGE"
	ErrInvalidSession        ErrCode = "INVALID_SESSION"

	// ─── Rate Limiting ─────────────────────────────────────────────────
	ErrRateLimitExceeded ErrCode = "RATE_LIMIT_EXCEEDED"

	// ─── Server ────────────────────────────────────────────────────────
	ErrInternal ErrCode = "INTERNAL_ERROR"
)

// GetMessage returns a human-readable message for a given error code.
func GetMessage(code ErrCode) string {
	switch code {
	// ─── Authentication ────────────────────────────────────────────────
	case ErrInvalidCredentials:
		return "Incorrect email or password."
	case ErrAdminDisabled:
		return "Admin login is not configured on this server."
	case ErrTokenRequired:
		return "An access token is required."
	case ErrTokenInvalid:
		return "The access token is invalid or has expired."
	case ErrAdminAccessOnly:
		return "This page is only available to the administrator."

	// ─── Validation ────────────────────────────────────────────────────
	case ErrValidation:
		return "Some fields are invalid."
	case ErrInvalidPayload:
		return "The request body could not be read."
	case ErrQuotaMismatch:
		return "Questions per level must add up to the total number of questions."

	// ─── Resources ─────────────────────────────────────────────────────
	case ErrNotFound:
		return "The requested item was not found."
	case ErrSeedImmutable:
		return "Built-in exams and questions cannot be deleted."
	case ErrExamNotFound:
		return "Exam not found."
	case ErrSessionNotFound:
		return "Exam session not found or already discarded."

	// ─── Exam session ──────────────────────────────────────────────────
	case ErrInsufficientQuestions:
		return "Not enough questions in the bank to build this exam."
	case ErrSessionNotActive:
		return "This exam session has already finished."
	case ErrSessionNotCompleted:
		return "This exam session is still in progress."
	case ErrUnknownQuestion:
		return "That question is not part of this exam session."
	case ErrInvalidOption:
		return "The selected option does not exist."
	case ErrIndexOutOfRange:
		return "There is no question at that position."
	case ErrInvalidSession:
		return "The exam session could not be graded."

	// ─── Rate Limiting ─────────────────────────────────────────────────
	case ErrRateLimitExceeded:
		return "Too many requests. Please wait a moment and try again."

	// ─── Server ────────────────────────────────────────────────────────
	case ErrInternal:
		return "Something went wrong on our side."

	default:
		return "An unknown error occurred."
	}
}
