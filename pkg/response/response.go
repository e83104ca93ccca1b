package response

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"bank-ledger/pkg/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RequestIDKey is the gin context key holding the request ID.
const RequestIDKey = "request_id"

// RetryAfterSeconds is advertised on 503 responses. Conflicting writes on a
// busy account usually clear within a second.
const RetryAfterSeconds = 1

// SuccessResponse wraps every successful JSON body.
type SuccessResponse struct {
	Data      interface{} `json:"data"`
	RequestID string      `json:"request_id"`
	Timestamp string      `json:"timestamp"`
}

// ErrorResponse wraps every failed request.
type ErrorResponse struct {
	ErrorCode string `json:"error_code"`
	Message   string `json:"message"`
	RequestID string `json:"request_id"`
	Timestamp string `json:"timestamp"`
}

// OK sends a 200 response with data.
func OK(c *gin.Context, data interface{}) {
	Success(c, http.StatusOK, data)
}

// Created sends a 201 response with data.
func Created(c *gin.Context, data interface{}) {
	Success(c, http.StatusCreated, data)
}

// Success sends data in the success envelope with the given status.
func Success(c *gin.Context, status int, data interface{}) {
	c.JSON(status, SuccessResponse{
		Data:      data,
		RequestID: requestID(c),
		Timestamp: timestamp(),
	})
}

// Text sends a raw 200 body, used for statement exports.
func Text(c *gin.Context, contentType string, body string) {
	c.Header("X-Request-ID", requestID(c))
	c.Data(http.StatusOK, contentType, []byte(body))
}

// Error writes err in the error envelope. An *apperror.AppError anywhere in
// the chain decides the status and code; anything else is a 500 SYS_000.
func Error(c *gin.Context, err error) {
	status, code, msg := http.StatusInternalServerError, "SYS_000", "Internal server error"

	var appErr *apperror.AppError
	if errors.As(err, &appErr) {
		status, code, msg = appErr.HTTPStatus, appErr.Code, appErr.Message
		if appErr.Retryable() {
			c.Header("Retry-After", strconv.Itoa(RetryAfterSeconds))
		}
	}

	c.JSON(status, ErrorResponse{
		ErrorCode: code,
		Message:   msg,
		RequestID: requestID(c),
		Timestamp: timestamp(),
	})
}

func timestamp() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// requestID returns the ID set by the RequestID middleware, or a fresh one
// when the handler runs without it.
func requestID(c *gin.Context) string {
	if id, exists := c.Get(RequestIDKey); exists {
		if s, ok := id.(string); ok {
			return s
		}
	}
	return uuid.New().String()
}
