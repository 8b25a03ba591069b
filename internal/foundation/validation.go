// Package foundation holds small generic building blocks shared by docgen packages.
package foundation

import (
	"fmt"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/docgen/internal/foundation/errors"
)

// Validator checks one aspect of a value.
type Validator[T any] func(T) ValidationResult

// ValidationResult contains the result of a validation operation.
type ValidationResult struct {
	Valid  bool
	Errors []FieldError
}

// FieldError represents a single validation failure.
type FieldError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface.
func (fe FieldError) Error() string {
	if fe.Field != "" {
		return fmt.Sprintf("field '%s': %s", fe.Field, fe.Message)
	}
	return fe.Message
}

// Valid creates a successful validation result.
func Valid() ValidationResult {
	return ValidationResult{Valid: true}
}

// Invalid creates a failed validation result with errors.
func Invalid(errs ...FieldError) ValidationResult {
	return ValidationResult{Valid: false, Errors: errs}
}

// NewFieldError creates a validation failure for field.
func NewFieldError(field, code, message string) FieldError {
	return FieldError{Field: field, Code: code, Message: message}
}

// Combine merges multiple validation results.
func (vr ValidationResult) Combine(other ValidationResult) ValidationResult {
	if vr.Valid && other.Valid {
		return Valid()
	}
	all := make([]FieldError, 0, len(vr.Errors)+len(other.Errors))
	all = append(all, vr.Errors...)
	all = append(all, other.Errors...)
	return Invalid(all...)
}

// Prefix qualifies every field name with prefix (e.g. "examples[2]").
func (vr ValidationResult) Prefix(prefix string) ValidationResult {
	if vr.Valid {
		return vr
	}
	out := make([]FieldError, len(vr.Errors))
	for i, fe := range vr.Errors {
		fe.Field = prefix + "." + fe.Field
		out[i] = fe
	}
	return Invalid(out...)
}

// ToError converts an invalid result into a classified error of the given category.
func (vr ValidationResult) ToError(category errors.ErrorCategory, message string) error {
	if vr.Valid {
		return nil
	}
	messages := make([]string, 0, len(vr.Errors))
	for _, fe := range vr.Errors {
		messages = append(messages, fe.Error())
	}
	return errors.NewError(category, message+": "+strings.Join(messages, "; ")).
		Fatal().
		WithContext("problems", len(vr.Errors)).
		Build()
}

// ValidatorChain runs validators in order and collects every failure.
type ValidatorChain[T any] struct {
	validators []Validator[T]
}

// NewValidatorChain creates a new validator chain.
func NewValidatorChain[T any](validators ...Validator[T]) *ValidatorChain[T] {
	return &ValidatorChain[T]{validators: validators}
}

// Add appends a validator to the chain.
func (vc *ValidatorChain[T]) Add(validator Validator[T]) *ValidatorChain[T] {
	vc.validators = append(vc.validators, validator)
	return vc
}

// Validate runs all validators in the chain.
func (vc *ValidatorChain[T]) Validate(value T) ValidationResult {
	result := Valid()
	for _, validator := range vc.validators {
		result = result.Combine(validator(value))
	}
	return result
}

// Required fails when the extracted string is blank.
func Required[T any](field string, get func(T) string) Validator[T] {
	return func(v T) ValidationResult {
		if strings.TrimSpace(get(v)) == "" {
			return Invalid(NewFieldError(field, "required", "must not be empty"))
		}
		return Valid()
	}
}

// Matches fails when a non-empty extracted string does not match re.
func Matches[T any](field string, re *regexp.Regexp, get func(T) string) Validator[T] {
	return func(v T) ValidationResult {
		s := get(v)
		if s != "" && !re.MatchString(s) {
			return Invalid(NewFieldError(field, "format", fmt.Sprintf("%q does not match %s", s, re.String())))
		}
		return Valid()
	}
}

// ExactlyOne fails unless exactly one of the named alternatives is set.
// With optional=true, zero set values are also accepted.
func ExactlyOne[T any](fields [2]string, optional bool, get func(T) (string, string)) Validator[T] {
	return func(v T) ValidationResult {
		a, b := get(v)
		switch {
		case a != "" && b != "":
			return Invalid(NewFieldError(fields[0], "exclusive", fmt.Sprintf("cannot be combined with %s", fields[1])))
		case a == "" && b == "" && !optional:
			return Invalid(NewFieldError(fields[0], "required", fmt.Sprintf("either %s or %s is required", fields[0], fields[1])))
		}
		return Valid()
	}
}
