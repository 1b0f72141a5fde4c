package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/videotube/account-service/internal/domain"
)

// ApiResponse is the uniform success envelope.
type ApiResponse struct {
	StatusCode int         `json:"statusCode"`
	Data       interface{} `json:"data"`
	Message    string      `json:"message"`
	Success    bool        `json:"success"`
}

// ApiErrorResponse is the uniform failure envelope.
type ApiErrorResponse struct {
	StatusCode int      `json:"statusCode"`
	Message    string   `json:"message"`
	Success    bool     `json:"success"`
	Errors     []string `json:"errors"`
}

func respond(c *gin.Context, status int, data interface{}, message string) {
	c.JSON(status, ApiResponse{
		StatusCode: status,
		Data:       data,
		Message:    message,
		Success:    true,
	})
}

func respondError(c *gin.Context, err error) {
	status := domain.StatusOf(err)
	message := "internal server error"
	var e *domain.Error
	if errors.As(err, &e) {
		message = e.Message
	}
	c.JSON(status, ApiErrorResponse{
		StatusCode: status,
		Message:    message,
		Success:    false,
		Errors:     []string{message},
	})
}
