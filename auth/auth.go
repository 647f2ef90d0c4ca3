package auth

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"golang.org/x/crypto/bcrypt"
)

const localsUserKey = "auth.user_id"

// Token pairs a user id with the bcrypt hash of that user's API token.
// Plaintext tokens never touch the config file.
type Token struct {
	UserID string
	Hash   string
}

type Registry struct {
	tokens []Token
}

func NewRegistry(tokens []Token) *Registry {
	return &Registry{tokens: tokens}
}

// Resolve maps a presented token to a user id.
func (r *Registry) Resolve(token string) (string, bool) {
	for _, t := range r.tokens {
		if bcrypt.CompareHashAndPassword([]byte(t.Hash), []byte(token)) == nil {
			return t.UserID, true
		}
	}
	return "", false
}

// HashToken produces the registry form of a plaintext token.
func HashToken(token string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(token), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// Middleware rejects requests without a resolvable bearer token and stores
// the owning user id on the request context. Everything downstream only ever
// sees the user id, never the credential.
func Middleware(reg *Registry) fiber.Handler {
	return func(c *fiber.Ctx) error {
		header := c.Get(fiber.HeaderAuthorization)
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || token == "" {
			return fiber.NewError(fiber.StatusUnauthorized, "missing bearer token")
		}
		userID, ok := reg.Resolve(token)
		if !ok {
			return fiber.NewError(fiber.StatusUnauthorized, "invalid token")
		}
		c.Locals(localsUserKey, userID)
		return c.Next()
	}
}

// UserID returns the authenticated user for the request, if any.
func UserID(c *fiber.Ctx) (string, bool) {
	id, ok := c.Locals(localsUserKey).(string)
	return id, ok && id != ""
}
