package connection

import (
	"errors"

	"github.com/amirasaad/walletchat/pkg/domain"
	connectionsvc "github.com/amirasaad/walletchat/pkg/service/connection"
	"github.com/amirasaad/walletchat/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

// Routes registers HTTP routes for connection lookup.
func Routes(app *fiber.App, svc *connectionsvc.Service) {
	app.Get("/api/connections/:connectionId?", GetConnection(svc))
}

// GetConnection returns a Fiber handler resolving a connection identifier to
// its public wallet projection.
// @Summary Get connection details
// @Description Resolves a connection identifier to its wallet balance and email. The connection secret is never included.
// @Tags connections
// @Produce json
// @Param connectionId path string true "Connection identifier"
// @Success 200 {object} connection.Details
// @Failure 400 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Failure 500 {object} common.ErrorResponse
// @Router /api/connections/{connectionId} [get]
func GetConnection(svc *connectionsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		connectionID := c.Params("connectionId")
		if connectionID == "" {
			return common.ErrorJSON(c, fiber.StatusBadRequest, "Connection ID is required")
		}

		details, err := svc.GetDetails(c.Context(), connectionID)
		if err != nil {
			if errors.Is(err, domain.ErrConnectionNotFound) {
				return common.ErrorJSON(c, fiber.StatusNotFound, "Connection not found")
			}
			log.Errorf("Failed to fetch connection details: %v", err)
			return common.ErrorJSON(
				c, fiber.StatusInternalServerError, "Failed to fetch connection details")
		}

		return c.JSON(details)
	}
}
