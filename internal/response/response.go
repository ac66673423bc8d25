package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func errorJSON(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}

func UnprocessableEntity(c *gin.Context, message string) {
	errorJSON(c, http.StatusUnprocessableEntity, "VALIDATION_ERROR", message)
}

func NotFound(c *gin.Context, message string) {
	errorJSON(c, http.StatusNotFound, "NOT_FOUND", message)
}

func Conflict(c *gin.Context, code, message string) {
	errorJSON(c, http.StatusConflict, code, message)
}

func InternalServerError(c *gin.Context) {
	errorJSON(c, http.StatusInternalServerError, "INTERNAL", "internal server error")
}
