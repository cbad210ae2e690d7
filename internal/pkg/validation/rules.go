package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/schoolbook/marksdesk/internal/pkg/apperrors"
)

// Validation rule patterns
var (
	// StudentIDPattern is the business key format, STU- followed by at least three digits
	StudentIDPattern = `^STU-\d{3,}$`

	// MobilePattern allows an optional leading +, then digits, hyphens and spaces with at least one digit
	MobilePattern = `^\+?[0-9 \-]*[0-9][0-9 \-]*$`
)

// CompiledPatterns caches compiled regex patterns
var CompiledPatterns = struct {
	StudentID *regexp.Regexp
	Mobile    *regexp.Regexp
}{
	StudentID: regexp.MustCompile(StudentIDPattern),
	Mobile:    regexp.MustCompile(MobilePattern),
}

// TagName is the struct tag read by both gin binding and the service validator
const TagName = "binding"

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.SetTagName(TagName)
	if err := Register(v); err != nil {
		panic(err)
	}
	return v
}

// Register installs the custom rules and JSON field naming on v.
// It is applied to gin's binding engine as well so both layers agree.
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	if err := v.RegisterValidation("mobile", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.Mobile.MatchString(fl.Field().String())
	}); err != nil {
		return err
	}
	return v.RegisterValidation("studentid", func(fl validator.FieldLevel) bool {
		return CompiledPatterns.StudentID.MatchString(fl.Field().String())
	})
}

// Struct validates s and converts failures into an apperrors validation error
func Struct(s interface{}) error {
	if err := validate.Struct(s); err != nil {
		return Translate(err)
	}
	return nil
}

// Translate converts validator output into an apperrors validation error.
// Errors of any other kind are returned unchanged.
func Translate(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	fields := make([]apperrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, apperrors.FieldError{
			Field:   fieldPath(fe),
			Message: describe(fe),
		})
	}
	return apperrors.NewValidationError(fields...)
}

// fieldPath drops the top-level struct name from the namespace, e.g.
// CreateMarksRequest.subjects[1].mark -> subjects[1].mark
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.Index(ns, "."); i >= 0 {
		return ns[i+1:]
	}
	return fe.Field()
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at least %s characters", fe.Param())
		}
		return "must be at least " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("must be at most %s characters", fe.Param())
		}
		return "must be at most " + fe.Param()
	case "gte":
		return "must be greater than or equal to " + fe.Param()
	case "lte":
		return "must be less than or equal to " + fe.Param()
	case "mobile":
		return fmt.Sprintf("invalid mobile number format: %v", fe.Value())
	case "studentid":
		return "must look like STU-001"
	case "oneof":
		return "must be one of: " + fe.Param()
	default:
		return "failed " + fe.Tag() + " validation"
	}
}
