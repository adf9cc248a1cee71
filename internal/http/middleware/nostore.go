package middleware

import "github.com/gofiber/fiber/v2"

// NoStore marks responses as uncacheable. Console views are per-session
// snapshots and go stale on the next action.
func NoStore() fiber.Handler {
	return func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderCacheControl, "no-store")
		return c.Next()
	}
}
