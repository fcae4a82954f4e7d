package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"
	"sync"

	"github.com/go-playground/validator"
	"github.com/meghashyamc/docsearch/apperror"
	"github.com/meghashyamc/docsearch/logger"
)

const (
	LocationBody  = "body"
	LocationQuery = "query"
)

var digitsRegex = regexp.MustCompile(`^\d+$`)

type Validator struct {
	validator                *validator.Validate
	logger                   logger.Logger
	tagValidationDetailsOnce sync.Once
	tagValidationDetailsMap  map[string]tagValidationDetails
}

type tagValidationDetails struct {
	validatorFunc validator.Func
	message       func(location string, field string) string
}

func New(logger logger.Logger) (*Validator, error) {
	validator := &Validator{validator: validator.New(), logger: logger}
	validator.validator.RegisterTagNameFunc(useParameterNames)
	if err := validator.registerCustomValidatorsForTags(); err != nil {
		return nil, err
	}

	return validator, nil
}

// ValidateBody checks a decoded JSON request body.
func (v *Validator) ValidateBody(i any) error {
	return v.validate(i, LocationBody)
}

// ValidateQuery checks bound query parameters.
func (v *Validator) ValidateQuery(i any) error {
	return v.validate(i, LocationQuery)
}

// validate reports only the first failing field, in struct field order.
func (v *Validator) validate(i any, location string) error {

	if err := v.validator.Struct(i); err != nil {
		var validationErrs validator.ValidationErrors
		if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
			v.logger.Error("could not run validation", "err", err.Error())
			return err
		}

		first := validationErrs[0]
		v.logger.Debug("validation failed", "location", location, "field", first.Field(), "tag", first.Tag())

		if details, ok := v.getTagValidationDetails()[first.Tag()]; ok {
			return apperror.Validation(details.message(location, first.Field()))
		}

		switch first.Tag() {
		case "required":
			return apperror.Validation(missingParameter(location, first.Field()))
		default:
			return apperror.Validation(badParameter(location, first.Field()))
		}
	}
	return nil
}

func (v *Validator) getTagValidationDetails() map[string]tagValidationDetails {
	v.tagValidationDetailsOnce.Do(func() {
		v.tagValidationDetailsMap = map[string]tagValidationDetails{
			"present": {validatorFunc: isPresent, message: missingParameter},
			"digits":  {validatorFunc: isDigits, message: badParameter},
		}
	})
	return v.tagValidationDetailsMap
}

func (v *Validator) registerCustomValidatorsForTags() error {

	tagValidationDetailsMap := v.getTagValidationDetails()

	for tag, tagValidationDetails := range tagValidationDetailsMap {
		if err := v.validator.RegisterValidation(tag, tagValidationDetails.validatorFunc); err != nil {
			v.logger.Error("failed to register custom validator function", "tag", tag, "err", err.Error())
			return err
		}
	}
	return nil
}

// useParameterNames reports fields by their JSON name, or their query name
// for structs bound from the query string.
func useParameterNames(fld reflect.StructField) string {
	for _, tag := range []string{"json", "form"} {
		name := strings.SplitN(fld.Tag.Get(tag), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

func missingParameter(location string, field string) string {
	return fmt.Sprintf("required %s parameter %q is missing", location, field)
}

// BadParameter is the failure for a parameter that is present but malformed.
func BadParameter(location string, field string) error {
	return apperror.Validation(badParameter(location, field))
}

func badParameter(location string, field string) string {
	return fmt.Sprintf("bad %s parameter %q", location, field)
}

// isPresent accepts any value. The validator reports nil pointers for a
// tagged field before calling the tag's function, so a "present" tag on a
// pointer field fails exactly when the key was absent (or null).
func isPresent(fl validator.FieldLevel) bool {
	return true
}

func isDigits(fl validator.FieldLevel) bool {
	return digitsRegex.MatchString(fl.Field().String())
}
