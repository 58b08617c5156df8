package predict

import (
	"context"
	"fmt"

	aiplatform "cloud.google.com/go/aiplatform/apiv1"
	"cloud.google.com/go/aiplatform/apiv1/aiplatformpb"
	"google.golang.org/api/option"
	"google.golang.org/protobuf/types/known/structpb"
)

// Predictor is the call boundary to a deployed regression model: one feature
// vector in, one scalar out.
type Predictor interface {
	Predict(ctx context.Context, instance map[string]float64) (float64, error)
}

// EndpointConfig locates a deployed Vertex AI endpoint.
type EndpointConfig struct {
	Project    string `envconfig:"GOOGLE_CLOUD_PROJECT"`
	Location   string `envconfig:"REGION" default:"us-central1"`
	EndpointID string `envconfig:"VERTEX_ENDPOINT_ID"`
}

// Configured reports whether the endpoint is fully identified. Placeholder
// IDs from deployment templates count as unconfigured.
func (c EndpointConfig) Configured() bool {
	return c.Project != "" && c.EndpointID != "" && !hasPlaceholder(c.EndpointID)
}

func hasPlaceholder(id string) bool {
	return len(id) >= 5 && id[:5] == "your-"
}

// VertexPredictor calls a Vertex AI prediction endpoint.
type VertexPredictor struct {
	client   *aiplatform.PredictionClient
	endpoint string
}

// NewVertexPredictor dials the regional prediction service.
func NewVertexPredictor(ctx context.Context, cfg EndpointConfig) (*VertexPredictor, error) {
	client, err := aiplatform.NewPredictionClient(ctx,
		option.WithEndpoint(fmt.Sprintf("%s-aiplatform.googleapis.com:443", cfg.Location)))
	if err != nil {
		return nil, fmt.Errorf("create prediction client: %w", err)
	}

	return &VertexPredictor{
		client: client,
		endpoint: fmt.Sprintf("projects/%s/locations/%s/endpoints/%s",
			cfg.Project, cfg.Location, cfg.EndpointID),
	}, nil
}

// Predict sends one instance and interprets the regression response, which
// arrives either as a bare number or as {"value": x}.
func (p *VertexPredictor) Predict(ctx context.Context, instance map[string]float64) (float64, error) {
	fields := make(map[string]any, len(instance))
	for k, v := range instance {
		fields[k] = v
	}
	st, err := structpb.NewStruct(fields)
	if err != nil {
		return 0, fmt.Errorf("encode instance: %w", err)
	}

	resp, err := p.client.Predict(ctx, &aiplatformpb.PredictRequest{
		Endpoint:  p.endpoint,
		Instances: []*structpb.Value{structpb.NewStructValue(st)},
	})
	if err != nil {
		return 0, fmt.Errorf("vertex predict: %w", err)
	}
	if len(resp.GetPredictions()) == 0 {
		return 0, fmt.Errorf("vertex predict: empty prediction list")
	}

	return scalarFromPrediction(resp.GetPredictions()[0])
}

func scalarFromPrediction(pred *structpb.Value) (float64, error) {
	switch v := pred.GetKind().(type) {
	case *structpb.Value_NumberValue:
		return v.NumberValue, nil
	case *structpb.Value_StructValue:
		if inner, ok := v.StructValue.GetFields()["value"]; ok {
			if n, ok := inner.GetKind().(*structpb.Value_NumberValue); ok {
				return n.NumberValue, nil
			}
		}
	}
	return 0, fmt.Errorf("prediction response was not in the expected format")
}

// Close releases the underlying gRPC connection.
func (p *VertexPredictor) Close() error {
	return p.client.Close()
}
