package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aumigobot/aumigobot/internal/intents"
)

func testLogger() *slog.Logger {
	return slog.Default()
}

func TestFulfillmentRejectsMalformedEvent(t *testing.T) {
	t.Parallel()

	h := NewFulfillmentHandler(testLogger(), intents.NewDispatcher(nil, intents.NewResponder(nil, nil), nil, nil, nil, ""))
	e := echo.New()
	h.Register(e)

	req := httptest.NewRequest(http.MethodPost, "/fulfillment", strings.NewReader(`{"sessionState":{}}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestFulfillmentDispatchesIntent(t *testing.T) {
	t.Parallel()

	h := NewFulfillmentHandler(testLogger(), intents.NewDispatcher(nil, intents.NewResponder(nil, nil), nil, nil, nil, ""))
	e := echo.New()
	h.Register(e)

	payload := `{"sessionState":{"intent":{"name":"intencaoDesconhecida"},"sessionAttributes":{"nome":"Ana"}}}`
	req := httptest.NewRequest(http.MethodPost, "/fulfillment", strings.NewReader(payload))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp intents.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "intencaoDesconhecida", resp.SessionState.Intent.Name)
	assert.Equal(t, "Failed", resp.SessionState.Intent.State)
	require.NotEmpty(t, resp.Messages)
}
