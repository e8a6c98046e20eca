// Package media converts an inbound attachment plus raw user text into a
// single textual utterance for the dialogue engine.
package media

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/aumigobot/aumigobot/internal/storage"
	"github.com/aumigobot/aumigobot/internal/vision"
)

// AudioNotSupportedReply is the canned utterance for voice notes.
const AudioNotSupportedReply = "Ainda não sei processar áudios, mas estou aprendendo!"

const assetPrefix = "assets/"

// Normalizer relays image attachments into object storage, runs pet
// detection on them, and synthesizes the detection utterance. Text and
// audio turns pass through without touching storage or the detector.
type Normalizer struct {
	httpClient *http.Client
	provider   storage.Provider
	detector   vision.Detector
	accountSID string
	authToken  string
	logger     *slog.Logger
	now        func() time.Time
}

// NewNormalizer creates a normalizer. accountSID and authToken authenticate
// the media fetch against the messaging provider.
func NewNormalizer(log *slog.Logger, provider storage.Provider, detector vision.Detector, accountSID, authToken string, timeout time.Duration) *Normalizer {
	if log == nil {
		log = slog.Default()
	}
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &Normalizer{
		httpClient: &http.Client{Timeout: timeout},
		provider:   provider,
		detector:   detector,
		accountSID: accountSID,
		authToken:  authToken,
		logger:     log.With(slog.String("service", "media")),
		now:        time.Now,
	}
}

func isImageType(mediaType string) bool {
	switch mediaType {
	case "image/jpg", "image/jpeg", "image/png":
		return true
	}
	return false
}

// Normalize produces the utterance for one turn. Relay or detection
// failures surface as *ProcessingError; the caller decides whether to
// degrade to userText.
func (n *Normalizer) Normalize(ctx context.Context, mediaType, mediaURL, userText string) (string, error) {
	switch {
	case isImageType(mediaType):
		return n.normalizeImage(ctx, mediaURL)
	case mediaType == "audio/ogg":
		return AudioNotSupportedReply, nil
	default:
		return userText, nil
	}
}

func (n *Normalizer) normalizeImage(ctx context.Context, mediaURL string) (string, error) {
	objectKey := assetPrefix + n.now().Format("20060102150405") + "pet_image.jpg"

	if err := n.relay(ctx, mediaURL, objectKey); err != nil {
		return "", &ProcessingError{Op: "relay image", Err: err}
	}

	detection, err := n.detector.DetectPet(ctx, objectKey)
	if err != nil {
		return "", &ProcessingError{Op: "detect pet", Err: err}
	}

	n.logger.Debug("image normalized",
		slog.String("object_key", objectKey),
		slog.Bool("detected", detection.Success),
	)
	return detectionUtterance(detection), nil
}

func (n *Normalizer) relay(ctx context.Context, mediaURL, objectKey string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, mediaURL, nil)
	if err != nil {
		return fmt.Errorf("build fetch request: %w", err)
	}
	if n.accountSID != "" {
		req.SetBasicAuth(n.accountSID, n.authToken)
	}

	resp, err := n.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("fetch media: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return fmt.Errorf("media fetch returned %d", resp.StatusCode)
	}

	if err := n.provider.Put(ctx, objectKey, resp.Body); err != nil {
		return fmt.Errorf("store media: %w", err)
	}
	return nil
}

// detectionUtterance renders the detector result as the fixed-shape
// utterance the dialogue engine's breed-identification intent expects.
// Type and confidence come from the first pet; breed guesses are joined
// across every pet.
func detectionUtterance(d vision.Detection) string {
	pets := d.Pets
	if len(pets) == 0 {
		pets = []vision.Pet{{Type: "Não identificado", Confidence: 0, Breeds: []string{"Não identificada"}}}
	}

	var breeds []string
	for _, pet := range pets {
		breeds = append(breeds, pet.Breeds...)
	}

	return fmt.Sprintf("Tipo Detectado:%s, Raças detectadas: %s, chance de acerto: %s",
		pets[0].Type,
		strings.Join(breeds, ", "),
		strconv.FormatFloat(pets[0].Confidence, 'f', -1, 64),
	)
}
