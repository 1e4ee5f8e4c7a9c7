package validator

import (
	"fmt"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/SAP-F-2025/quiz-admin-service/internal/models"
	"github.com/go-playground/validator/v10"
)

const (
	MaxTitleLength = 100
	MinPoints      = 1
	MaxPoints      = 1000
)

// BusinessValidator handles business rule validation
type BusinessValidator struct {
	validate *validator.Validate
}

// NewBusinessValidator creates a new business validator
func NewBusinessValidator() *BusinessValidator {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return field.Name
		}
		return name
	})

	bv := &BusinessValidator{validate: validate}
	bv.registerBusinessRules()

	return bv
}

// Validate validates business rules for any struct
func (bv *BusinessValidator) Validate(s interface{}) ValidationErrors {
	err := bv.validate.Struct(s)
	if err != nil {
		return ToValidationErrors(err)
	}
	return nil
}

// ValidateQuizCreate validates quiz creation business rules
func (bv *BusinessValidator) ValidateQuizCreate(req *CreateQuizRequest) ValidationErrors {
	var errors ValidationErrors

	// Basic struct validation
	errors = append(errors, bv.Validate(req)...)

	// Question-specific business validations
	for i := range req.Questions {
		errors = append(errors, bv.validateQuestionBusinessRules(i, &req.Questions[i])...)
	}

	return errors
}

// ValidateRegister validates account registration
func (bv *BusinessValidator) ValidateRegister(req *RegisterRequest) ValidationErrors {
	return bv.Validate(req)
}

// ValidateAccountUpdate validates an account update
func (bv *BusinessValidator) ValidateAccountUpdate(req *UpdateAccountRequest) ValidationErrors {
	return bv.Validate(req)
}

// registerBusinessRules registers custom business rule validators
func (bv *BusinessValidator) registerBusinessRules() {
	// Title validation (1-100 characters after trimming)
	bv.validate.RegisterValidation("quiz_title", func(fl validator.FieldLevel) bool {
		title := strings.TrimSpace(fl.Field().String())
		n := utf8.RuneCountInString(title)
		return n >= 1 && n <= MaxTitleLength
	})

	// question type validation
	bv.validate.RegisterValidation("question_type", func(fl validator.FieldLevel) bool {
		switch models.QuestionType(fl.Field().String()) {
		case models.MultipleChoice, models.ShortAnswer:
			return true
		}
		return false
	})

	// Correct option letter, case-insensitive
	bv.validate.RegisterValidation("option_letter", func(fl validator.FieldLevel) bool {
		letter := strings.ToLower(strings.TrimSpace(fl.Field().String()))
		for _, valid := range models.OptionLetters {
			if letter == valid {
				return true
			}
		}
		return false
	})

	// Points range validation
	bv.validate.RegisterValidation("points_range", func(fl validator.FieldLevel) bool {
		points := fl.Field().Int()
		return points >= MinPoints && points <= MaxPoints
	})
}

// validateQuestionBusinessRules validates business rules for one question
func (bv *BusinessValidator) validateQuestionBusinessRules(index int, q *QuestionSpec) ValidationErrors {
	var errors ValidationErrors
	prefix := fmt.Sprintf("questions[%d]", index)

	if q.Text != "" && strings.TrimSpace(q.Text) == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".text",
			Message: "cannot be blank",
			Value:   q.Text,
			Rule:    "business_logic",
		})
	}

	if q.Type != models.MultipleChoice {
		return errors
	}

	options := map[string]string{
		"option_a": q.OptionA,
		"option_b": q.OptionB,
		"option_c": q.OptionC,
		"option_d": q.OptionD,
	}
	for _, field := range []string{"option_a", "option_b", "option_c", "option_d"} {
		if strings.TrimSpace(options[field]) == "" {
			errors = append(errors, ValidationError{
				Field:   prefix + "." + field,
				Message: "is required for multiple choice questions",
				Rule:    "business_logic",
			})
		}
	}

	if strings.TrimSpace(q.CorrectOption) == "" {
		errors = append(errors, ValidationError{
			Field:   prefix + ".correct_option",
			Message: "is required for multiple choice questions",
			Rule:    "business_logic",
		})
	}

	return errors
}
