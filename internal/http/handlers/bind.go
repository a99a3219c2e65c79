package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Param   string `json:"param,omitempty"`
	Message string `json:"message,omitempty"`
}

// BindJSON binds and validates the request body. On failure it writes a
// 400 with a flat error message plus per-field detail and returns false.
func BindJSON(ctx *gin.Context, out interface{}) bool {
	err := ctx.ShouldBindJSON(out)

	if err != nil {
		message, fields := parseBindError(err)

		body := gin.H{"error": message}

		if len(fields) > 0 {
			body["fields"] = fields
		}

		ctx.JSON(http.StatusBadRequest, body)

		return false
	}

	return true
}

func parseBindError(err error) (string, []FieldError) {
	// validator errors (struct bind tags)

	var validatorError validator.ValidationErrors

	if errors.As(err, &validatorError) {
		fields := make([]FieldError, 0, len(validatorError))
		allRequired := true

		for _, fieldError := range validatorError {
			rule := fieldError.Tag()
			param := fieldError.Param()

			if rule != "required" {
				allRequired = false
			}

			fields = append(fields, FieldError{
				Field:   jsonFieldName(fieldError.Field()),
				Rule:    rule,
				Param:   param,
				Message: validationMessage(rule, param),
			})
		}

		// keep the original API's blunt wording when everything
		// missing is simply absent
		if allRequired {
			return "All fields are required", fields
		}

		return "Invalid request body", fields
	}

	// in the event of bad json

	var syntaxError *json.SyntaxError

	if errors.As(err, &syntaxError) {
		return "Invalid JSON", nil
	}

	// in the event of a type mismatch

	var unmatchedTypeError *json.UnmarshalTypeError

	if errors.As(err, &unmatchedTypeError) {
		field := jsonFieldName(unmatchedTypeError.Field)

		return "Invalid request body", []FieldError{
			{
				Field:   field,
				Rule:    "type",
				Message: "must be of type " + unmatchedTypeError.Type.String(),
			},
		}
	}

	// final fallback if the error could not be deciphered
	return "Invalid request body", nil
}

// jsonFieldName lowercases the Go field name the way our request structs
// tag them (FullName -> full_name, Email -> email).
func jsonFieldName(name string) string {
	var b strings.Builder

	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte('_')
			}
			b.WriteRune(r - 'A' + 'a')
			continue
		}
		b.WriteRune(r)
	}

	return b.String()
}

func validationMessage(rule, param string) string {
	switch rule {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "min":
		return "must be at least " + param
	case "max":
		return "must be at most " + param
	case "oneof":
		return "must be one of " + strings.ReplaceAll(param, " ", ", ")
	default:
		if param != "" {
			return "failed " + rule + " validation (" + param + ")"
		}
		return "failed " + rule + " validation"
	}
}
