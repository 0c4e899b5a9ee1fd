package middleware

import (
	"crypto/sha256"
	"crypto/subtle"
	"errors"

	"github.com/fadilmartias/recruit-scheduler/internal/util"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/keyauth"
)

const AdminHeader = "X-Admin-Secret"

// AdminAuth guards HR endpoints with a shared secret sent in X-Admin-Secret.
// With an empty secret every request is refused.
func AdminAuth(secret string) fiber.Handler {
	if secret == "" {
		return func(c *fiber.Ctx) error {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusServiceUnavailable,
				Message: "admin access is not configured",
			})
		}
	}
	want := sha256.Sum256([]byte(secret))
	return keyauth.New(keyauth.Config{
		KeyLookup: "header:" + AdminHeader,
		Validator: func(c *fiber.Ctx, key string) (bool, error) {
			got := sha256.Sum256([]byte(key))
			if subtle.ConstantTimeCompare(got[:], want[:]) == 1 {
				return true, nil
			}
			return false, keyauth.ErrMissingOrMalformedAPIKey
		},
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			message := "invalid admin secret"
			if errors.Is(err, keyauth.ErrMissingOrMalformedAPIKey) && c.Get(AdminHeader) == "" {
				message = "missing " + AdminHeader + " header"
			}
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code:    fiber.StatusUnauthorized,
				Message: message,
			})
		},
	})
}
