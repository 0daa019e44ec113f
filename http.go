package tokenauth

import (
	"errors"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	goerrors "github.com/goliatone/go-errors"
	"github.com/goliatone/go-print"
)

// BearerTokenFromRequest extracts the token from the Authorization header.
// Returns the empty string when the header is absent or not a Bearer scheme.
func BearerTokenFromRequest(c *fiber.Ctx) string {
	header := c.Get(fiber.HeaderAuthorization)
	if header == "" {
		return ""
	}

	const prefix = "Bearer "
	if len(header) <= len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}

	return strings.TrimSpace(header[len(prefix):])
}

func setRefreshCookie(c *fiber.Ctx, cfg Config, token string) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.GetRefreshCookieName(),
		Value:    token,
		Path:     "/",
		MaxAge:   int(cfg.GetRefreshTokenTTL().Seconds()),
		HTTPOnly: true,
		Secure:   cfg.GetCookieSecure(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearRefreshCookie(c *fiber.Ctx, cfg Config) {
	c.Cookie(&fiber.Cookie{
		Name:     cfg.GetRefreshCookieName(),
		Value:    "",
		Path:     "/",
		Expires:  time.Now().Add(-time.Hour * (24 * 365)),
		HTTPOnly: true,
		Secure:   cfg.GetCookieSecure(),
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// HTTPErrorHandler maps rich errors onto JSON responses. Wire it as the
// fiber app ErrorHandler so every handler can just return its error.
func HTTPErrorHandler(logger Logger) fiber.ErrorHandler {
	if logger == nil {
		logger = defLogger{}
	}

	return func(c *fiber.Ctx, err error) error {
		var fiberErr *fiber.Error
		if errors.As(err, &fiberErr) {
			return c.Status(fiberErr.Code).JSON(fiber.Map{
				"error": fiberErr.Message,
			})
		}

		var richErr *goerrors.Error
		if !goerrors.As(err, &richErr) {
			richErr = goerrors.Wrap(err, goerrors.CategoryInternal, "an unexpected server error occurred").
				WithCode(goerrors.CodeInternal)
		}

		status := httpStatusFor(richErr)
		if status >= fiber.StatusInternalServerError {
			logger.Error(
				"request failed",
				"error", richErr.Message,
				"category", richErr.Category,
				"details", print.MaybePrettyJSON(richErr.Metadata),
			)
		}

		body := fiber.Map{"error": richErr.Message}
		if richErr.TextCode != "" {
			body["text_code"] = richErr.TextCode
		}

		return c.Status(status).JSON(body)
	}
}

func httpStatusFor(err *goerrors.Error) int {
	if err.Code > 0 {
		return err.Code
	}

	switch err.Category {
	case goerrors.CategoryAuth:
		return fiber.StatusUnauthorized
	case goerrors.CategoryAuthz:
		return fiber.StatusForbidden
	case goerrors.CategoryNotFound:
		return fiber.StatusNotFound
	case goerrors.CategoryConflict:
		return fiber.StatusConflict
	case goerrors.CategoryBadInput, goerrors.CategoryValidation:
		return fiber.StatusBadRequest
	case goerrors.CategoryRateLimit:
		return fiber.StatusTooManyRequests
	default:
		return fiber.StatusInternalServerError
	}
}
