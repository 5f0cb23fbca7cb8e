package chat

import (
	"bufio"
	"context"
	"errors"

	"github.com/amirasaad/walletchat/pkg/domain"
	chatsvc "github.com/amirasaad/walletchat/pkg/service/chat"
	"github.com/amirasaad/walletchat/webapi/common"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/valyala/fasthttp"
)

// Routes registers the HTTP route for the chat proxy.
func Routes(app *fiber.App, svc *chatsvc.Service) {
	app.Post("/api/chat", ChatCompletion(svc))
}

// ChatCompletion returns a Fiber handler relaying a conversation to the model
// API through the payments proxy. The default mode streams the assistant text
// incrementally; {"stream": false} buffers the full completion into {text}.
// @Summary Chat with the metered model
// @Description Relays the conversation history to the model API through the payments proxy, billing usage against the connection's wallet.
// @Tags chat
// @Accept json
// @Produce json
// @Param request body chat.Request true "Conversation history and connection"
// @Success 200 {object} chat.Response
// @Failure 400 {object} common.ErrorResponse
// @Failure 404 {object} common.ErrorResponse
// @Failure 500 {object} common.ErrorResponse
// @Router /api/chat [post]
func ChatCompletion(svc *chatsvc.Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		input, err := common.BindAndValidate[Request](c)
		if input == nil {
			return err // Error already written by BindAndValidate
		}

		if input.Stream != nil && !*input.Stream {
			text, err := svc.Complete(c.Context(), input.ConnectionID, input.Messages)
			if err != nil {
				return chatError(c, err)
			}
			return c.JSON(Response{Text: text})
		}

		return streamCompletion(c, svc, input)
	}
}

func streamCompletion(c *fiber.Ctx, svc *chatsvc.Service, input *Request) error {
	deltas := make(chan string)
	result := make(chan error, 1)

	// The goroutine outlives the handler when the response streams, so it
	// must not touch the request context; the service additionally detaches
	// the upstream call so a client abort never cancels the drain.
	go func() {
		result <- svc.Stream(
			context.Background(),
			input.ConnectionID,
			input.Messages,
			func(delta string) error {
				deltas <- delta
				return nil
			},
		)
		close(deltas)
	}()

	// Hold the response open until the upstream either fails outright or
	// produces its first fragment, so resolution failures still map to real
	// status codes.
	select {
	case err := <-result:
		if err != nil {
			return chatError(c, err)
		}
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		return c.SendString("")
	case first := <-deltas:
		c.Set(fiber.HeaderContentType, fiber.MIMETextPlainCharsetUTF8)
		c.Context().SetBodyStreamWriter(fasthttp.StreamWriter(func(w *bufio.Writer) {
			clientGone := false
			write := func(s string) {
				if clientGone {
					return
				}
				if _, err := w.WriteString(s); err != nil {
					clientGone = true
					return
				}
				if err := w.Flush(); err != nil {
					clientGone = true
				}
			}

			write(first)
			// Keep consuming after a client abort so the upstream drain
			// (and its usage finalization) runs to completion.
			for delta := range deltas {
				write(delta)
			}
			if err := <-result; err != nil {
				log.Errorf("Chat stream ended with error: %v", err)
			}
		}))
		return nil
	}
}

func chatError(c *fiber.Ctx, err error) error {
	if errors.Is(err, domain.ErrConnectionNotFound) {
		return common.ErrorJSON(c, fiber.StatusNotFound, "Connection not found")
	}
	if errors.Is(err, domain.ErrValidation) {
		return common.ErrorJSON(c, fiber.StatusBadRequest, err.Error())
	}
	log.Errorf("Error in chat route: %v", err)
	return common.ErrorJSON(c, fiber.StatusInternalServerError, err.Error())
}
