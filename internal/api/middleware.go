package api

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/zubaerSumon/ileap-sub000/internal/apperr"
	"github.com/zubaerSumon/ileap-sub000/internal/auth"
	"github.com/zubaerSumon/ileap-sub000/internal/domain"
	"go.uber.org/zap"
)

// RequireAuth resolves the bearer token to a principal and stashes it in
// Locals. Everything behind it can assume an authenticated caller.
func RequireAuth(jv *auth.JWTValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		hdr := c.Get("Authorization")
		token, ok := strings.CutPrefix(hdr, "Bearer ")
		if !ok || token == "" {
			return unauthenticated(c, "missing bearer token")
		}
		p, err := jv.Validate(token)
		if err != nil {
			return unauthenticated(c, "invalid token")
		}
		c.Locals("user_id", p.ID)
		c.Locals("role", string(p.Role))
		return c.Next()
	}
}

func unauthenticated(c *fiber.Ctx, msg string) error {
	err := fmt.Errorf("%s: %w", msg, apperr.ErrUnauthenticated)
	return c.Status(apperr.Status(err)).JSON(fiber.Map{"error": err.Error()})
}

func principalFrom(c *fiber.Ctx) domain.Principal {
	id, _ := c.Locals("user_id").(string)
	role, _ := c.Locals("role").(string)
	return domain.Principal{ID: id, Role: domain.Role(role)}
}

// RequestLogger emits one line per request.
func RequestLogger(log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()
		log.Infow("request",
			"method", c.Method(),
			"path", c.OriginalURL(),
			"status", c.Response().StatusCode(),
			"duration", time.Since(start),
		)
		return err
	}
}

func Recovery(log *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				log.Errorw("panic recovered", "panic", r, "path", c.OriginalURL())
				_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "internal server error"})
			}
		}()
		return c.Next()
	}
}
