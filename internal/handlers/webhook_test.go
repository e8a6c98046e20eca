package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aumigobot/aumigobot/internal/dialogue"
	"github.com/aumigobot/aumigobot/internal/reply"
	"github.com/aumigobot/aumigobot/internal/webhook"
)

type fakeProcessor struct {
	env reply.Envelope
	err error
	got webhook.Inbound
}

func (f *fakeProcessor) Process(_ context.Context, in webhook.Inbound) (reply.Envelope, error) {
	f.got = in
	return f.env, f.err
}

func postWebhook(t *testing.T, h *WebhookHandler, form url.Values) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	h.Register(e)
	req := httptest.NewRequest(http.MethodPost, "/webhook", strings.NewReader(form.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestWebhookMissingFromIsBadRequest(t *testing.T) {
	t.Parallel()

	h := NewWebhookHandler(testLogger(), &fakeProcessor{}, true)
	rec := postWebhook(t, h, url.Values{"Body": {"Oi"}})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"message": "Entrada inválida: falta Body ou From"}`, rec.Body.String())
}

func TestWebhookSuccessReturnsXML(t *testing.T) {
	t.Parallel()

	env := reply.Render([]dialogue.ReplyPart{
		{ContentType: dialogue.ContentTypePlainText, Content: "Olá!"},
	})
	processor := &fakeProcessor{env: env}
	h := NewWebhookHandler(testLogger(), processor, true)

	rec := postWebhook(t, h, url.Values{
		"Body": {"Oi"},
		"From": {"whatsapp:+5511999999999"},
	})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Header().Get(echo.HeaderContentType), "text/xml")
	assert.Contains(t, rec.Body.String(), "<Body>Olá!</Body>")

	assert.Equal(t, "whatsapp:+5511999999999", processor.got.From)
	assert.Equal(t, "Oi", processor.got.Body)
}

func TestWebhookMediaFieldsForwarded(t *testing.T) {
	t.Parallel()

	processor := &fakeProcessor{}
	h := NewWebhookHandler(testLogger(), processor, true)

	postWebhook(t, h, url.Values{
		"Body":              {""},
		"From":              {"whatsapp:+5511999999999"},
		"MediaContentType0": {"image/jpeg"},
		"MediaUrl0":         {"https://api.twilio.test/media/1"},
	})

	assert.Equal(t, "image/jpeg", processor.got.MediaContentType)
	assert.Equal(t, "https://api.twilio.test/media/1", processor.got.MediaURL)
}

func TestWebhookEngineFailureIs500WithDetail(t *testing.T) {
	t.Parallel()

	processor := &fakeProcessor{err: &dialogue.EngineError{Op: "recognize text", Err: errors.New("timeout")}}
	h := NewWebhookHandler(testLogger(), processor, true)

	rec := postWebhook(t, h, url.Values{"Body": {"Oi"}, "From": {"whatsapp:+551199"}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "Erro interno no servidor: ")
	assert.Contains(t, rec.Body.String(), "timeout")
}

func TestWebhookHidesDetailWhenNotExposed(t *testing.T) {
	t.Parallel()

	processor := &fakeProcessor{err: errors.New("pgx: connection refused at 10.0.0.3")}
	h := NewWebhookHandler(testLogger(), processor, false)

	rec := postWebhook(t, h, url.Values{"Body": {"Oi"}, "From": {"whatsapp:+551199"}})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	require.Contains(t, rec.Body.String(), "Erro interno no servidor: erro inesperado")
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
}
