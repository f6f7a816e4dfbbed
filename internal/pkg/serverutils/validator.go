package serverutils

import (
	"errors"

	"cv-chat-be/internal/pkg/apperror"

	"github.com/go-playground/validator/v10"
)

const invalidBodyMessage = "Invalid request body"

var validate = validator.New(validator.WithRequiredStructEnabled())

// ValidationMessenger lets a request type pick the client-facing message for
// its failed fields.
type ValidationMessenger interface {
	ValidationMessage(errs validator.ValidationErrors) string
}

func ValidateRequest(req interface{}) error {
	err := validate.Struct(req)
	if err == nil {
		return nil
	}

	var errs validator.ValidationErrors
	if !errors.As(err, &errs) || len(errs) == 0 {
		return apperror.Validation("request.validate", invalidBodyMessage, err)
	}

	message := invalidBodyMessage
	if m, ok := req.(ValidationMessenger); ok {
		message = m.ValidationMessage(errs)
	}
	return apperror.Validation("request.validate", message, err)
}

// BadBody is returned when the request body cannot be decoded.
func BadBody(err error) error {
	return apperror.Validation("request.parse", invalidBodyMessage, err)
}
