package validator

import (
	"errors"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	govalidator "github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/stemsi/smartexam/internal/model"
)

const (
	tagQuotaSum        = "quota_sum"
	tagAnswerInOptions = "answer_in_options"
)

var (
	// trans is the singleton English translator for validation errors.
	trans     ut.Translator
	setupOnce sync.Once
)

// Setup registers the validator with English translations and the
// cross-field rules on Gin's binding engine. Safe to call more than once.
func Setup() {
	setupOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*govalidator.Validate)
		if !ok {
			return
		}

		// Use JSON tag name for field names in error messages.
		v.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			return name
		})

		enLocale := en.New()
		uni := ut.New(enLocale, enLocale)
		trans, _ = uni.GetTranslator("en")
		_ = en_translations.RegisterDefaultTranslations(v, trans)

		v.RegisterStructValidation(validateCreateExam, model.CreateExamRequest{})
		v.RegisterStructValidation(validateAddQuestion, model.AddQuestionRequest{})

		registerMessage(v, tagQuotaSum, "{0} must add up to totalQuestions")
		registerMessage(v, tagAnswerInOptions, "{0} must point at one of the options")
	})
}

func validateCreateExam(sl govalidator.StructLevel) {
	req := sl.Current().Interface().(model.CreateExamRequest)
	if req.Quota.Total() != req.TotalQuestions {
		sl.ReportError(req.Quota, "quota", "Quota", tagQuotaSum, "")
	}
}

func validateAddQuestion(sl govalidator.StructLevel) {
	req := sl.Current().Interface().(model.AddQuestionRequest)
	if req.CorrectAnswerIndex != nil && *req.CorrectAnswerIndex >= len(req.Options) {
		sl.ReportError(req.CorrectAnswerIndex, "correctAnswerIndex", "CorrectAnswerIndex", tagAnswerInOptions, "")
	}
}

func registerMessage(v *govalidator.Validate, tag, text string) {
	_ = v.RegisterTranslation(tag, trans,
		func(ut ut.Translator) error {
			return ut.Add(tag, text, true)
		},
		func(ut ut.Translator, fe govalidator.FieldError) string {
			msg, err := ut.T(tag, fe.Field())
			if err != nil {
				return fe.Error()
			}
			return msg
		},
	)
}

// TranslateErrors takes a binding/validation error and returns a map of
// field name to human-readable error message. If the error is not a
// validation error, it returns a single-key map with "detail".
func TranslateErrors(err error) map[string]string {
	fields := make(map[string]string)

	var ve govalidator.ValidationErrors
	if errors.As(err, &ve) {
		for _, fe := range ve {
			fields[fe.Field()] = fe.Translate(trans)
		}
		return fields
	}

	// Not a validation error (e.g., JSON syntax error).
	fields["detail"] = err.Error()
	return fields
}

// Bind binds and validates the request body into dst.
// Returns nil on success or a translated field error map on failure.
func Bind(c *gin.Context, dst interface{}) map[string]string {
	if err := c.ShouldBindJSON(dst); err != nil {
		return TranslateErrors(err)
	}
	return nil
}
