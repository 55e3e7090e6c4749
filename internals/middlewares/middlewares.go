package middlewares

import (
	"github.com/gofiber/fiber/v2"
)

// SetupMiddlewares pasang middleware global dengan urutan:
// recovery → cors → rate limiter. Logger request sudah di main.go.
func SetupMiddlewares(app *fiber.App) {
	app.Use(RecoveryMiddleware())
	app.Use(CorsMiddleware())
	app.Use(GlobalRateLimiter())
}
