package repository

import (
	stderrors "errors"
	"reflect"
	"strings"
	"sync"

	"github.com/bassista/go_quotes/internal/errors"
	"github.com/go-playground/validator/v10"
)

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func quoteValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New()
		// Report json names ("text") instead of Go field names ("Text").
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateQuote checks that both fields are present. It does not trim;
// callers trim first so whitespace-only values fail.
func ValidateQuote(q Quote) error {
	return toValidationError(quoteValidator().Struct(q))
}

// ValidateQuotes checks every record of a collection.
func ValidateQuotes(quotes []Quote) error {
	return toValidationError(quoteValidator().Struct(Collection{Quotes: quotes}))
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if stderrors.As(err, &verrs) && len(verrs) > 0 {
		first := verrs[0]
		return errors.NewValidationError(first.Field(), first.Value(), describeTag(first.Tag()))
	}
	return errors.NewValidationError("", nil, err.Error())
}

func describeTag(tag string) string {
	switch tag {
	case "required":
		return "must not be empty"
	default:
		return "failed " + tag + " rule"
	}
}
