package vision

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"google.golang.org/genai"

	errx "github.com/cementops-poc/server/internal/core/error"
	logx "github.com/cementops-poc/server/pkg/logger"
)

// Config holds the service knobs beyond the shared Gemini settings.
type Config struct {
	Bucket string `envconfig:"GCS_BUCKET_NAME" default:"hackathon-cement-plant-image-data"`
	Prefix string `envconfig:"KILN_GCS_PREFIX" default:"kiln/"`
}

// ContentGenerator runs the assembled prompt against the hosted model and
// returns its text. Kept as an interface so handlers can be tested with
// fakes.
type ContentGenerator interface {
	Generate(ctx context.Context, contents []*genai.Content) (string, error)
}

// GeminiGenerator calls the Gemini API with a forced JSON response and
// deterministic decoding.
type GeminiGenerator struct {
	Client *genai.Client
	Model  string
}

func (g *GeminiGenerator) Generate(ctx context.Context, contents []*genai.Content) (string, error) {
	resp, err := g.Client.Models.GenerateContent(ctx, g.Model, contents, &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: SystemInstruction}}},
		ResponseMIMEType:  "application/json",
		Temperature:       genai.Ptr(float32(0)),
	})
	if err != nil {
		return "", fmt.Errorf("generate content: %w", err)
	}
	return resp.Text(), nil
}

// AnalyzeRequest is the inbound payload: a base64 snapshot of the kiln
// shell camera.
type AnalyzeRequest struct {
	ImageDataB64 string `json:"image_data_b64"`
	MIMEType     string `json:"mime_type"`
}

// Handler serves the image analysis endpoint.
type Handler struct {
	Generator ContentGenerator
	Lister    ImageLister
	Config    Config
}

// Register mounts the analysis route.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/", h.Analyze)
}

// Analyze lists the reference images, builds the few-shot prompt around the
// live snapshot, and relays the model's JSON verbatim.
func (h *Handler) Analyze(c echo.Context) error {
	ctx := c.Request().Context()

	var req AnalyzeRequest
	if err := c.Bind(&req); err != nil {
		return errx.BadRequest("invalid JSON or empty request body")
	}
	if req.ImageDataB64 == "" {
		return errx.BadRequest("missing required key 'image_data_b64' in the JSON payload")
	}
	if req.MIMEType == "" {
		req.MIMEType = "image/jpeg"
	}

	liveImage, err := base64.StdEncoding.DecodeString(req.ImageDataB64)
	if err != nil {
		return errx.BadRequest("image_data_b64 is not valid base64")
	}

	uris, err := h.Lister.List(ctx, h.Config.Bucket, h.Config.Prefix)
	if err != nil {
		return errx.Internal(err, "failed to gather reference images")
	}

	contents, err := BuildPrompt(uris, liveImage, req.MIMEType)
	if err != nil {
		return errx.Internal(err, "failed to build prompt")
	}

	logx.Debug().Int("reference_images", len(uris)).Msg("invoking kiln image analysis")

	text, err := h.Generator.Generate(ctx, contents)
	if err != nil {
		return errx.Internal(err, "image analysis failed")
	}

	return c.Blob(http.StatusOK, echo.MIMEApplicationJSON, []byte(text))
}
