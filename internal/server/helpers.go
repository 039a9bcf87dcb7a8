package server

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode"

	"socialmedia/internal/models"

	"github.com/gofiber/fiber/v2"
)

// errResponseWritten is a sentinel indicating the HTTP response was already
// committed by a helper. Handlers must return nil (not this error) to avoid
// Fiber's ErrorHandler overwriting the response.
var errResponseWritten = errors.New("response already written")

// parseID extracts a route parameter by name as a positive uint.
// On failure it writes a 400 JSON response and returns errResponseWritten.
func parseID(c *fiber.Ctx, param string) (uint, error) {
	id, err := c.ParamsInt(param)
	if err != nil || id <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+humanizeParam(param)))
		return 0, errResponseWritten
	}
	return uint(id), nil
}

// humanizeParam turns "id" into "ID" and "userId" into "user ID".
func humanizeParam(param string) string {
	if param == "id" {
		return "ID"
	}
	prefix, ok := strings.CutSuffix(param, "Id")
	if !ok {
		return param
	}
	var words []string
	start := 0
	for i, r := range prefix {
		if i > 0 && unicode.IsUpper(r) {
			words = append(words, prefix[start:i])
			start = i
		}
	}
	words = append(words, prefix[start:])
	return strings.ToLower(strings.Join(words, " ")) + " ID"
}

// statusFor maps an AppError code to an HTTP status.
func statusFor(err error) int {
	switch {
	case models.IsNotFound(err):
		return fiber.StatusNotFound
	case models.IsValidation(err):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

const handlerTimeout = 5 * time.Second

// handlerContext bounds the service call of one request.
func handlerContext(c *fiber.Ctx) (context.Context, context.CancelFunc) {
	return context.WithTimeout(c.UserContext(), handlerTimeout)
}

// respondError writes err with the status its code maps to. A request that
// ran out of time gets 504.
func respondError(c *fiber.Ctx, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return c.Status(fiber.StatusGatewayTimeout).JSON(fiber.Map{
			"error": "Request timeout",
		})
	}
	return models.RespondWithError(c, statusFor(err), err)
}
