package middleware

import (
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
)

// SecurityHeaders adds the standard hardening headers and the time spent
// serving the request, in seconds.
func SecurityHeaders() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		err := c.Next()

		c.Set(fiber.HeaderXContentTypeOptions, "nosniff")
		c.Set(fiber.HeaderXFrameOptions, "DENY")
		c.Set(fiber.HeaderReferrerPolicy, "no-referrer")
		c.Set("X-Process-Time", strconv.FormatFloat(time.Since(start).Seconds(), 'f', 6, 64))
		return err
	}
}
