package middleware

import (
	"context"
	"log"
	"strings"

	"modernblog/internal/session"

	"github.com/gofiber/fiber/v2"
)

const (
	sessionKey = "session"
	tokenKey   = "token"
)

// SessionResolver turns a bearer token into a session.
type SessionResolver interface {
	Session(ctx context.Context, token string) (session.Context, error)
}

// Session is a Fiber middleware that resolves the optional bearer token into a
// session.Context stored in the request locals. A missing, malformed, expired
// or revoked token leaves the request anonymous.
func Session(resolver SessionResolver) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := session.Anonymous()

		// Expected format: "Bearer <token>"
		token := bearerToken(c.Get(fiber.HeaderAuthorization))
		if token != "" {
			resolved, err := resolver.Session(c.UserContext(), token)
			if err != nil {
				log.Printf("JWT validation failed, continuing anonymously: %v", err)
			} else {
				sess = resolved
				c.Locals(tokenKey, token)
			}
		}

		c.Locals(sessionKey, sess)
		return c.Next()
	}
}

// AuthRequired rejects anonymous requests and points the client at the login page.
func AuthRequired() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !SessionFrom(c).Authenticated() {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"message":  "Please sign in to continue",
				"redirect": "/login",
			})
		}
		return c.Next()
	}
}

// GuestOnly rejects signed-in requests to the login and registration routes.
func GuestOnly() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if SessionFrom(c).Authenticated() {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"message":  "You are already signed in",
				"redirect": "/",
			})
		}
		return c.Next()
	}
}

// SessionFrom returns the session stored by Session, or an anonymous one.
func SessionFrom(c *fiber.Ctx) session.Context {
	if sess, ok := c.Locals(sessionKey).(session.Context); ok {
		return sess
	}
	return session.Anonymous()
}

// TokenFrom returns the validated bearer token of the request, if any.
func TokenFrom(c *fiber.Ctx) string {
	token, _ := c.Locals(tokenKey).(string)
	return token
}

func bearerToken(header string) string {
	parts := strings.SplitN(header, " ", 2)
	if !(len(parts) == 2 && parts[0] == "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
