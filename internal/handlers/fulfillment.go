package handlers

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/aumigobot/aumigobot/internal/intents"
)

// FulfillmentHandler receives the dialogue engine's intent-dispatch calls.
type FulfillmentHandler struct {
	dispatcher *intents.Dispatcher
	logger     *slog.Logger
}

func NewFulfillmentHandler(log *slog.Logger, dispatcher *intents.Dispatcher) *FulfillmentHandler {
	return &FulfillmentHandler{
		dispatcher: dispatcher,
		logger:     log.With(slog.String("handler", "fulfillment")),
	}
}

func (h *FulfillmentHandler) Register(e *echo.Echo) {
	e.POST("/fulfillment", h.Fulfill)
}

func (h *FulfillmentHandler) Fulfill(c echo.Context) error {
	var event intents.Event
	if err := c.Bind(&event); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid fulfillment event")
	}
	if event.SessionState.Intent.Name == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "intent name is required")
	}
	resp := h.dispatcher.Dispatch(c.Request().Context(), event)
	return c.JSON(http.StatusOK, resp)
}
