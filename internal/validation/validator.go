// ArtLens - Museum Artwork Recognition and Visitor Analytics
// Copyright 2026 ArtLens Contributors
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/artlens/artlens

package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
)

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// FieldError describes one failed constraint on one request field. Field
// holds the wire name taken from the json tag, not the Go identifier, so
// clients can match it against the payload they sent.
type FieldError struct {
	Field   string
	Tag     string
	Param   string
	Value   interface{}
	Message string
}

// Errors is the outcome of validating a request struct. It implements
// error; handlers turn it into the VALIDATION_ERROR envelope through
// Message and Details.
type Errors struct {
	fields []FieldError
}

// Fields returns the individual field errors in struct declaration order.
func (e *Errors) Fields() []FieldError {
	return e.fields
}

// Error implements the error interface.
func (e *Errors) Error() string {
	return e.Message()
}

// Message renders the client-facing summary. A single failure reads as its
// own sentence; several are joined with their field names prefixed.
func (e *Errors) Message() string {
	switch len(e.fields) {
	case 0:
		return "validation failed"
	case 1:
		return e.fields[0].Message
	}

	parts := make([]string, len(e.fields))
	for i, fe := range e.fields {
		parts[i] = fmt.Sprintf("%s: %s", fe.Field, fe.Message)
	}
	return strings.Join(parts, "; ")
}

// Details returns the structured payload for the envelope's details field:
// field, tag, and the rejected value for a single failure, or a fields list
// when several constraints failed at once.
func (e *Errors) Details() map[string]interface{} {
	if len(e.fields) == 0 {
		return nil
	}

	if len(e.fields) == 1 {
		fe := e.fields[0]
		return map[string]interface{}{
			"field": fe.Field,
			"tag":   fe.Tag,
			"value": fe.Value,
		}
	}

	fields := make([]map[string]interface{}, len(e.fields))
	for i, fe := range e.fields {
		fields[i] = map[string]interface{}{
			"field":   fe.Field,
			"tag":     fe.Tag,
			"message": fe.Message,
		}
	}
	return map[string]interface{}{"fields": fields}
}

// Validator returns the shared instance. validator.Validate caches parsed
// struct tags, so one instance serves the whole process.
func Validator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		// Report wire names, not Go identifiers: a client that sent
		// user_latitude should not be told about UserLatitude.
		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return fld.Name
			}
			return name
		})
	})
	return validate
}

// ValidateStruct checks a request struct against its validate tags. A nil
// return means the struct passed.
func ValidateStruct(s interface{}) *Errors {
	err := Validator().Struct(s)
	if err == nil {
		return nil
	}

	var ferrs validator.ValidationErrors
	if !errors.As(err, &ferrs) {
		// InvalidValidationError: the argument was not a struct. A
		// programming error, surfaced as a single opaque entry.
		return &Errors{fields: []FieldError{{
			Field:   "request",
			Tag:     "struct",
			Message: err.Error(),
		}}}
	}

	fields := make([]FieldError, len(ferrs))
	for i, fe := range ferrs {
		fields[i] = FieldError{
			Field:   fe.Field(),
			Tag:     fe.Tag(),
			Param:   fe.Param(),
			Value:   fe.Value(),
			Message: describe(fe),
		}
	}
	return &Errors{fields: fields}
}

// describe renders one failed constraint as a client-facing sentence. Only
// the tags the request structs actually carry get bespoke wording; anything
// else falls through to a generic line.
func describe(fe validator.FieldError) string {
	field := fe.Field()

	switch fe.Tag() {
	case "required":
		return field + " is required"
	case "uuid4":
		return field + " must be a valid UUID"
	case "latitude":
		return field + " must be a latitude between -90 and 90"
	case "longitude":
		return field + " must be a longitude between -180 and 180"
	case "bcp47_language_tag":
		return field + " must be a language tag such as en or fr-CA"
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", field,
			strings.ReplaceAll(fe.Param(), " ", ", "))
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at least %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at least %s", field, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
		}
		return fmt.Sprintf("%s must be at most %s", field, fe.Param())
	default:
		return fmt.Sprintf("%s failed %s validation", field, fe.Tag())
	}
}
