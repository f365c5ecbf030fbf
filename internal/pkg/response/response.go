package response

import "github.com/gin-gonic/gin"

// APIError is the wire shape of every failed request: a human-readable
// error, optional details (usually an upstream status), and an optional
// actionable hint.
type APIError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Hint    string `json:"hint,omitempty"`
}

func Success(c *gin.Context, data interface{}) {
	c.JSON(200, data)
}

func Error(c *gin.Context, status int, message string) {
	c.JSON(status, APIError{Error: message})
}

func ErrorDetails(c *gin.Context, status int, message, details string) {
	c.JSON(status, APIError{Error: message, Details: details})
}

func ErrorHint(c *gin.Context, status int, message, hint string) {
	c.JSON(status, APIError{Error: message, Hint: hint})
}
