package dto

import (
	"errors"
	"fmt"
	"strings"

	"bank-ledger/internal/core/domain"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

func init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		_ = v.RegisterValidation("account_id", validateAccountID)
	}
}

// validateAccountID applies the domain identifier rules.
func validateAccountID(fl validator.FieldLevel) bool {
	_, err := domain.NewAccountID(fl.Field().String())
	return err == nil
}

// ValidationMessage turns a binding error into a short client-facing message.
func ValidationMessage(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return "invalid request body"
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.ToLower(fe.Field())
		switch fe.Tag() {
		case "required":
			msgs = append(msgs, fmt.Sprintf("%s is required", field))
		case "account_id":
			msgs = append(msgs, fmt.Sprintf("%s must be 1-64 characters of letters, digits, '_', '-' or '.'", field))
		default:
			msgs = append(msgs, fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return strings.Join(msgs, "; ")
}
