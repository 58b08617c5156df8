package recommend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/labstack/echo/v4"

	errx "github.com/cementops-poc/server/internal/core/error"
	logx "github.com/cementops-poc/server/pkg/logger"
)

const (
	ActionIncrease = "INCREASE"
	ActionDecrease = "DECREASE"
	ActionMaintain = "MAINTAIN"
)

const engineFailureMessage = "The LLM recommendation engine encountered an error. Please check the logs."

// Recommendation is one prescriptive adjustment from the model.
type Recommendation struct {
	VariableName string  `json:"variable_name"`
	Description  string  `json:"description"`
	Action       string  `json:"action"`
	Magnitude    float64 `json:"magnitude"`
}

// Request carries the live process state and the predicted KPIs the
// recommendations should react to.
type Request struct {
	CurrentInputs map[string]any `json:"current_inputs"`
	PredictedKPIs map[string]any `json:"predicted_kpis"`
}

// Handler serves the prescriptive recommendation endpoint through an eino
// chat model.
type Handler struct {
	Model model.BaseChatModel
}

// Register mounts the recommendation route.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/", h.Recommend)
}

// Recommend prompts the model with the current state and relays the parsed
// recommendation array.
func (h *Handler) Recommend(c echo.Context) error {
	ctx := c.Request().Context()

	var req Request
	if err := c.Bind(&req); err != nil {
		return errx.BadRequest("invalid JSON or empty request body. Expected 'current_inputs' and 'predicted_kpis'")
	}
	if len(req.CurrentInputs) == 0 || len(req.PredictedKPIs) == 0 {
		return errx.BadRequest("missing 'current_inputs' or 'predicted_kpis' in the JSON payload")
	}

	recs, err := h.generate(ctx, req)
	if err != nil {
		logx.Error().Err(err).Msg("recommendation generation failed")
		return errx.Internal(err, err.Error()).WithHint(engineFailureMessage)
	}

	return c.JSON(http.StatusOK, recs)
}

func (h *Handler) generate(ctx context.Context, req Request) ([]Recommendation, error) {
	userPrompt, err := BuildUserPrompt(req.CurrentInputs, req.PredictedKPIs)
	if err != nil {
		return nil, err
	}

	msg, err := h.Model.Generate(ctx, []*schema.Message{
		schema.SystemMessage(SystemInstruction),
		schema.UserMessage(userPrompt),
	})
	if err != nil {
		return nil, fmt.Errorf("generate recommendations: %w", err)
	}

	return ParseRecommendations(msg.Content)
}

// ParseRecommendations decodes the model output into the recommendation
// array, tolerating a fenced code block around the JSON.
func ParseRecommendations(content string) ([]Recommendation, error) {
	content = strings.TrimSpace(content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")
	content = strings.TrimSpace(content)

	var recs []Recommendation
	if err := json.Unmarshal([]byte(content), &recs); err != nil {
		return nil, fmt.Errorf("parse recommendations: %w", err)
	}

	for i, r := range recs {
		switch r.Action {
		case ActionIncrease, ActionDecrease, ActionMaintain:
		default:
			return nil, fmt.Errorf("recommendation %d has unknown action %q", i, r.Action)
		}
	}
	return recs, nil
}
