package util

import (
	"fmt"
	"runtime/debug"
	"sort"

	"github.com/fadilmartias/recruit-scheduler/internal/config"
	"github.com/fadilmartias/recruit-scheduler/internal/response"
	"github.com/gofiber/fiber/v2"
)

type SuccessResponseFormat struct {
	Code       int
	Message    string
	Data       any
	Pagination *response.Pagination
	Meta       any
}

type OrderedSuccessResponse struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Meta       any                  `json:"meta,omitempty"`
	Pagination *response.Pagination `json:"pagination,omitempty"`
	Data       any                  `json:"data,omitempty"`
}

type ErrorResponseFormat struct {
	Code    int
	Message string
	// Details is always returned. DevMessage and Trace are dropped in production.
	Details    any
	DevMessage string
	Trace      string
}

type OrderedErrorResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	Details    any    `json:"details,omitempty"`
	DevMessage string `json:"dev_message,omitempty"`
	Trace      string `json:"trace,omitempty"`
}

// FormError carries per-field validation messages keyed by wire name.
type FormError struct {
	Errors  map[string]string
	Message string
}

func (e *FormError) Error() string {
	fields := make([]string, 0, len(e.Errors))
	for f := range e.Errors {
		fields = append(fields, f)
	}
	sort.Strings(fields)
	return fmt.Sprintf("%s: %v", e.Message, fields)
}

func NewFormError(message string, errors map[string]string) *FormError {
	return &FormError{
		Message: message,
		Errors:  errors,
	}
}

// SuccessResponse writes the standard success envelope. Code defaults to 200.
func SuccessResponse(c *fiber.Ctx, params SuccessResponseFormat) error {
	code := params.Code
	if code == 0 {
		code = fiber.StatusOK
	}
	return c.Status(code).JSON(OrderedSuccessResponse{
		Success:    true,
		Message:    params.Message,
		Data:       params.Data,
		Pagination: params.Pagination,
		Meta:       params.Meta,
	})
}

// ErrorResponse writes the standard error envelope. Outside production the
// cause is echoed as dev_message along with a stack trace. It returns the
// write error, not cause.
func ErrorResponse(c *fiber.Ctx, params ErrorResponseFormat, cause ...error) error {
	body := OrderedErrorResponse{
		Success: false,
		Message: params.Message,
		Details: params.Details,
	}
	if !config.LoadAppConfig().IsProduction() {
		body.DevMessage = params.DevMessage
		body.Trace = params.Trace
		if len(cause) > 0 && cause[0] != nil {
			if body.DevMessage == "" {
				body.DevMessage = cause[0].Error()
			}
			if body.Trace == "" {
				body.Trace = string(debug.Stack())
			}
		}
	}

	code := params.Code
	if code == 0 {
		code = fiber.StatusInternalServerError
	}
	return c.Status(code).JSON(body)
}

// ValidationResponse writes a 422 whose details list the invalid fields.
func ValidationResponse(c *fiber.Ctx, formErr *FormError) error {
	return ErrorResponse(c, ErrorResponseFormat{
		Code:    fiber.StatusUnprocessableEntity,
		Message: formErr.Message,
		Details: formErr.Errors,
	}, formErr)
}
