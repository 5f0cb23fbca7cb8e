// Package app assembles services, middleware, and routes into the Fiber app.
package app

import (
	"log/slog"
	"strings"

	"github.com/amirasaad/walletchat/pkg/config"
	"github.com/amirasaad/walletchat/pkg/lava"
	"github.com/amirasaad/walletchat/pkg/provider/openai"
	checkoutsvc "github.com/amirasaad/walletchat/pkg/service/checkout"
	chatsvc "github.com/amirasaad/walletchat/pkg/service/chat"
	connectionsvc "github.com/amirasaad/walletchat/pkg/service/connection"
	"github.com/amirasaad/walletchat/web"
	"github.com/amirasaad/walletchat/webapi/chat"
	"github.com/amirasaad/walletchat/webapi/checkout"
	"github.com/amirasaad/walletchat/webapi/common"
	"github.com/amirasaad/walletchat/webapi/connection"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/swagger"

	_ "github.com/amirasaad/walletchat/docs"
)

// Deps holds the process-wide handles the app is built from.
type Deps struct {
	Lava        *lava.Client
	Completions *openai.Client
	Logger      *slog.Logger
	Config      *config.App
}

// New builds all services and returns the Fiber app with routes registered.
func New(deps Deps) *fiber.App {
	connectionSvc := connectionsvc.New(deps.Lava, deps.Logger)
	checkoutSvc := checkoutsvc.New(deps.Lava, deps.Config.Lava, deps.Logger)
	chatSvc := chatsvc.New(deps.Lava, deps.Completions, deps.Config.Chat, deps.Logger)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			status := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				status = e.Code
			}
			return common.ErrorJSON(c, status, err.Error())
		},
	})

	app.Get("/swagger/*", swagger.New(swagger.Config{
		TryItOutEnabled: true,
	}))

	app.Use(limiter.New(limiter.Config{
		Max:        deps.Config.RateLimit.MaxRequests,
		Expiration: deps.Config.RateLimit.Window,
		KeyGenerator: func(c *fiber.Ctx) string {
			// Prefer the forwarded client IP when running behind a proxy.
			if forwardedFor := c.Get("X-Forwarded-For"); forwardedFor != "" {
				if commaIndex := strings.Index(forwardedFor, ","); commaIndex != -1 {
					return strings.TrimSpace(forwardedFor[:commaIndex])
				}
				return strings.TrimSpace(forwardedFor)
			}
			if realIP := c.Get("X-Real-IP"); realIP != "" {
				return realIP
			}
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return common.ErrorJSON(c, fiber.StatusTooManyRequests, "Rate limit exceeded")
		},
	}))
	app.Use(recover.New())

	app.Get("/", func(c *fiber.Ctx) error {
		c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
		return c.Send(web.IndexHTML)
	})

	connection.Routes(app, connectionSvc)
	checkout.Routes(app, checkoutSvc)
	chat.Routes(app, chatSvc)
	return app
}
