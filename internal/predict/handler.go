package predict

import (
	"encoding/json"
	"fmt"
	"math"
	"net/http"

	"github.com/labstack/echo/v4"

	errx "github.com/cementops-poc/server/internal/core/error"
	logx "github.com/cementops-poc/server/pkg/logger"
)

// Handler proxies one KPI's regression endpoint. A nil Predictor means the
// endpoint was never configured; a nil Cache disables memoisation.
type Handler struct {
	KPI       KPI
	Predictor Predictor
	Cache     Cache
}

// Register mounts the prediction route.
func (h *Handler) Register(e *echo.Echo) {
	e.POST("/", h.Predict)
}

// Predict validates the feature vector, consults the cache, and calls the
// deployed model. The response carries the KPI under its legacy name,
// rounded to two decimals.
func (h *Handler) Predict(c echo.Context) error {
	ctx := c.Request().Context()

	var body map[string]any
	if err := json.NewDecoder(c.Request().Body).Decode(&body); err != nil {
		return errx.BadRequest("the request body is empty or not a valid JSON")
	}

	if missing := h.KPI.Missing(body); len(missing) > 0 {
		return errx.BadRequest(fmt.Sprintf(
			"missing data for required features: %v. required: %v", missing, h.KPI.Features))
	}
	if err := h.KPI.Validate(body); err != nil {
		return errx.BadRequest(fmt.Sprintf("invalid feature payload: %v", err))
	}

	if h.Predictor == nil {
		return errx.Unavailable(fmt.Sprintf("prediction service is unavailable for %s", h.KPI.Name))
	}

	instance := h.KPI.Instance(body)

	if h.Cache != nil {
		if v, ok := h.Cache.Get(ctx, h.KPI.Slug, instance); ok {
			logx.Debug().Str("kpi", h.KPI.Slug).Msg("prediction served from cache")
			return c.JSON(http.StatusOK, map[string]float64{h.KPI.Name: round2(v)})
		}
	}

	value, err := h.Predictor.Predict(ctx, instance)
	if err != nil {
		return errx.Internal(err, "prediction returned an invalid or null value")
	}

	if h.Cache != nil {
		h.Cache.Put(ctx, h.KPI.Slug, instance, value)
	}

	return c.JSON(http.StatusOK, map[string]float64{h.KPI.Name: round2(value)})
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
