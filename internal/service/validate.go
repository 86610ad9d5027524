package service

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/bilgann/The-Backdoor-Mission-Project/internal/calendar"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func validatorInstance() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		validate.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "-" {
				return ""
			}
			if name == "" {
				return f.Name
			}
			return name
		})
	})
	return validate
}

// validateInput runs the struct tags of in and reports field level messages.
func validateInput(in any) error {
	err := validatorInstance().Struct(in)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return validationError("invalid input", nil)
	}

	fields := make(map[string][]string, len(verrs))
	var first string
	for _, fe := range verrs {
		msg := fieldMessage(fe)
		if first == "" {
			first = msg
		}
		fields[fe.Field()] = append(fields[fe.Field()], msg)
	}
	return validationError(first, fields)
}

func fieldMessage(fe validator.FieldError) string {
	field := fe.Field()
	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "min", "gte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max", "lte":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be greater than %s", field, fe.Param())
	case "oneof":
		return fmt.Sprintf("%s must be one of %s", field, strings.ReplaceAll(fe.Param(), " ", ", "))
	default:
		return field + " is invalid"
	}
}

// checkOrder fails when later is present and not strictly after earlier.
func checkOrder(earlierField, laterField string, earlier time.Time, later *time.Time) error {
	if later == nil || earlier.IsZero() {
		return nil
	}
	if _, err := calendar.NewTimeRange(earlier, *later); err != nil {
		return fieldError(laterField, fmt.Sprintf("%s must be after %s", laterField, earlierField))
	}
	return nil
}

// NormalizeName trims, collapses inner whitespace and title-cases a name.
// A Caser keeps state, so each call builds its own.
func NormalizeName(s string) string {
	return cases.Title(language.Und).String(strings.Join(strings.Fields(s), " "))
}

var instantLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// parseInstant accepts RFC 3339 or a wall-clock time in loc.
func parseInstant(field, s string, loc *time.Location) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t.UTC(), nil
	}
	for _, layout := range instantLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fieldError(field, field+" must be an RFC 3339 timestamp or YYYY-MM-DD")
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}
