package helper

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// Keys di c.Locals, diisi oleh middleware auth setelah verifikasi JWT.
const (
	LocUserID      = "user_id"
	LocRolesGlobal = "roles_global"
	LocRawToken    = "raw_token"
)

// GetUserIDFromToken mengambil user_id dari c.Locals.
// Return 401 kalau belum login, 400 kalau formatnya tidak valid.
func GetUserIDFromToken(c *fiber.Ctx) (uuid.UUID, error) {
	v := c.Locals(LocUserID)
	if v == nil {
		return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
	}

	switch t := v.(type) {
	case uuid.UUID:
		if t == uuid.Nil {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
		}
		return t, nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return uuid.Nil, fiber.NewError(fiber.StatusUnauthorized, "User belum login")
		}
		id, err := uuid.Parse(s)
		if err != nil {
			return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "User ID pada token tidak valid")
		}
		return id, nil
	default:
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "User ID pada token tidak valid")
	}
}

// HasGlobalRole cek roles_global di Locals (di-hydrate middleware).
func HasGlobalRole(c *fiber.Ctx, role string) bool {
	v := c.Locals(LocRolesGlobal)
	if v == nil {
		return false
	}
	switch arr := v.(type) {
	case []string:
		for _, r := range arr {
			if strings.EqualFold(r, role) {
				return true
			}
		}
	case []any:
		for _, it := range arr {
			if s, ok := it.(string); ok && strings.EqualFold(s, role) {
				return true
			}
		}
	}
	return false
}

// GetRawAccessToken: cookie access_token → Locals → Authorization header.
func GetRawAccessToken(c *fiber.Ctx) string {
	if v := strings.TrimSpace(c.Cookies("access_token")); v != "" {
		return v
	}
	if v, ok := c.Locals(LocRawToken).(string); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	const p = "Bearer "
	auth := c.Get(fiber.HeaderAuthorization)
	if len(auth) > len(p) && strings.HasPrefix(auth, p) {
		return strings.TrimSpace(auth[len(p):])
	}
	return ""
}
