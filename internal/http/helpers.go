package http

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/openshelf/librarium/internal/articles"
	"github.com/openshelf/librarium/internal/auth"
	"github.com/openshelf/librarium/internal/imaging"
)

// GetUserID extracts the authenticated user's id from the Gin context.
// Returns auth.AnonymousUserID when auth is disabled or no user is
// authenticated.
func GetUserID(c *gin.Context) string {
	return auth.GetUserID(c)
}

// --- Response Types ---

// ErrorResponse is the standard error response format for all API errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`    // machine-readable error code
	Details any    `json:"details,omitempty"` // additional context (validation errors, etc.)
}

// SuccessResponse is a standard success response with optional data.
type SuccessResponse struct {
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// --- Error Response Helpers ---

// respondBadRequest sends a 400 Bad Request response.
func respondBadRequest(c *gin.Context, message string) {
	c.JSON(http.StatusBadRequest, ErrorResponse{Error: message, Code: "bad_request"})
}

// respondNotFound sends a 404 Not Found response.
func respondNotFound(c *gin.Context, resource string) {
	c.JSON(http.StatusNotFound, ErrorResponse{Error: resource + " not found", Code: "not_found"})
}

// respondForbidden sends a 403 Forbidden response.
func respondForbidden(c *gin.Context, message string) {
	c.JSON(http.StatusForbidden, ErrorResponse{Error: message, Code: "forbidden"})
}

// respondInternalError logs the error and sends a 500 Internal Server Error
// response. The actual error is logged but not exposed to the client.
func respondInternalError(c *gin.Context, err error, context string) {
	log.Printf("Internal error (%s): %v", context, err)
	c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "internal server error", Code: "internal"})
}

// respondServiceError maps article service errors onto HTTP status codes:
// missing records map to 404, refused authorization to 403, validation and
// undecodable images to 400, anything else to 500.
func respondServiceError(c *gin.Context, err error, context string) {
	switch {
	case errors.Is(err, articles.ErrArticleNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "article_not_found"})
	case errors.Is(err, articles.ErrAuthorNotFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Error: err.Error(), Code: "author_not_found"})
	case errors.Is(err, articles.ErrNotAuthorized):
		c.JSON(http.StatusForbidden, ErrorResponse{Error: err.Error(), Code: "forbidden"})
	case errors.Is(err, articles.ErrInvalidTransfer):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "invalid_transfer"})
	case errors.Is(err, imaging.ErrCorruptImage):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "corrupt_image"})
	case errors.Is(err, imaging.ErrImageTooLarge):
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: err.Error(), Code: "image_too_large"})
	default:
		respondInternalError(c, err, context)
	}
}

// --- Success Response Helpers ---

// respondSuccess sends a 200 OK response with a message.
func respondSuccess(c *gin.Context, message string) {
	c.JSON(http.StatusOK, SuccessResponse{Message: message})
}

// respondCreated sends a 201 Created response with data.
func respondCreated(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, data)
}

// --- Parameter Parsing ---

// parseIDParam extracts and validates an unsigned integer ID from URL
// parameters. Responds with a 400 error and returns 0, false on failure.
func parseIDParam(c *gin.Context, paramName string) (uint, bool) {
	idStr := c.Param(paramName)
	id, err := strconv.ParseUint(idStr, 10, 32)
	if err != nil {
		respondBadRequest(c, "invalid "+paramName)
		return 0, false
	}
	return uint(id), true
}
