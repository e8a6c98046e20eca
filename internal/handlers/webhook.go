package handlers

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aumigobot/aumigobot/internal/reply"
	"github.com/aumigobot/aumigobot/internal/webhook"
)

// TurnProcessor runs one conversational turn.
type TurnProcessor interface {
	Process(ctx context.Context, in webhook.Inbound) (reply.Envelope, error)
}

// WebhookHandler receives the messaging provider's inbound webhook and
// answers with the channel's XML reply envelope.
type WebhookHandler struct {
	processor            TurnProcessor
	exposeInternalErrors bool
	logger               *slog.Logger
}

func NewWebhookHandler(log *slog.Logger, processor TurnProcessor, exposeInternalErrors bool) *WebhookHandler {
	return &WebhookHandler{
		processor:            processor,
		exposeInternalErrors: exposeInternalErrors,
		logger:               log.With(slog.String("handler", "webhook")),
	}
}

func (h *WebhookHandler) Register(e *echo.Echo) {
	e.POST("/webhook", h.Receive)
}

func (h *WebhookHandler) Receive(c echo.Context) error {
	in := webhook.Inbound{
		Body:             c.FormValue("Body"),
		From:             c.FormValue("From"),
		MediaContentType: c.FormValue("MediaContentType0"),
		MediaURL:         c.FormValue("MediaUrl0"),
	}
	if in.From == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"message": "Entrada inválida: falta Body ou From",
		})
	}

	env, err := h.processor.Process(c.Request().Context(), in)
	if err != nil {
		h.logger.Error("turn failed", slog.Any("error", err))
		detail := "erro inesperado"
		if h.exposeInternalErrors {
			detail = err.Error()
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": fmt.Sprintf("Erro interno no servidor: %s", detail),
		})
	}

	body, err := env.TwiML()
	if err != nil {
		h.logger.Error("reply serialization failed", slog.Any("error", err))
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"message": "Erro interno no servidor: falha ao montar a resposta",
		})
	}
	return c.Blob(http.StatusOK, "text/xml", body)
}
