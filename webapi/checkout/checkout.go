package checkout

import (
	"github.com/amirasaad/walletchat/pkg/jsonutil"
	checkoutsvc "github.com/amirasaad/walletchat/pkg/service/checkout"
	"github.com/amirasaad/walletchat/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers HTTP routes for hosted checkout sessions.
func Routes(app *fiber.App, svc *checkoutsvc.Service) {
	app.Post("/api/create-checkout-session", CreateCheckoutSession(svc))
	app.Post("/api/create-topup-session", CreateTopupSession(svc))
}

// CreateCheckoutSession returns a Fiber handler creating an onboarding
// checkout session. The route takes no body; mode is always onboarding.
// @Summary Create onboarding checkout session
// @Description Creates a hosted checkout session for connecting a new wallet and returns its opaque token.
// @Tags checkout
// @Produce json
// @Success 200 {object} checkout.SessionResponse
// @Failure 500 {object} common.ErrorResponse
// @Router /api/create-checkout-session [post]
func CreateCheckoutSession(svc *checkoutsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token, err := svc.CreateOnboardingSession(c.Context())
		if err != nil {
			log.Errorf("Failed to create checkout session: %v", err)
			return common.ErrorJSON(
				c, fiber.StatusInternalServerError, "Failed to create checkout session")
		}
		return c.JSON(SessionResponse{Token: token})
	}
}

// CreateTopupSession returns a Fiber handler creating a topup checkout
// session for an existing connection.
// @Summary Create top-up checkout session
// @Description Creates a hosted checkout session adding funds to an existing connection's wallet.
// @Tags checkout
// @Accept json
// @Produce json
// @Param request body checkout.TopupRequest true "Connection to top up"
// @Success 200 {object} checkout.SessionResponse
// @Failure 400 {object} common.ErrorResponse
// @Failure 500 {object} common.ErrorResponse
// @Router /api/create-topup-session [post]
func CreateTopupSession(svc *checkoutsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := jsonutil.SafeParseObject(c.Body())
		if body == nil {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "Invalid request body")
		}

		connectionID, ok := body["connectionId"].(string)
		if !ok || connectionID == "" {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "Connection ID is required")
		}

		token, err := svc.CreateTopupSession(c.Context(), connectionID)
		if err != nil {
			log.Errorf("Failed to create top-up session: %v", err)
			return common.ErrorJSON(
				c, fiber.StatusInternalServerError, "Failed to create top-up session")
		}
		return c.JSON(SessionResponse{Token: token})
	}
}
