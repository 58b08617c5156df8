package vision

import (
	"encoding/json"
	"fmt"

	"google.golang.org/genai"
)

// SystemInstruction frames the model as the kiln controller and pins down
// the output schema and severity/adjustment rules.
const SystemInstruction = "You are the autonomous Kiln Controller. Analyze the attached images to predict the kiln's thermal efficiency. " +
	"Your primary objective is to minimize 'kiln_specific_thermal_energy_Kcal/kg_clinker' by recommending immediate adjustments. " +
	"The standard operating range for the fuel feed rate is 9.2 - 9.8 tph. " +
	"Output MUST be a single JSON object matching the schema shown in the examples." +
	"\n\n--- DYNAMIC LOGIC RULES ---" +
	"\n1. Severity Level: Classify the thermal state into 'low' (normal/minor), 'medium' (deviation/warning), or 'high' (critical/severe)." +
	"\n2. Adjustment Value (Dynamic):" +
	"\n  - If action is 'DECREASE' and severity is 'low', set 'value' to 0.1." +
	"\n  - If action is 'DECREASE' and severity is 'medium', set 'value' to 0.2." +
	"\n  - If action is 'DECREASE' and severity is 'high', set 'value' to 0.3." +
	"\n  - If action is 'MAINTAIN', 'value' MUST be 0.0." +
	"\n3. Recommendation Key: Generate a **unique, non-repetitive** natural language explanation (1-2 sentences) of the visual finding and the prescribed corrective action. The tone should be authoritative and informative. Reference the fuel feed rate range (9.2 - 9.8 tph) when the action is MAINTAIN."

const finalTaskText = "FINAL TASK: Analyze this current live image and provide the required JSON recommendation, strictly following the specified DYNAMIC LOGIC RULES."

// BuildPrompt assembles the few-shot contents: for each reference URI a
// user turn (example text + file reference) and a model turn (the
// rule-derived assessment JSON), then the live image as the final user turn.
func BuildPrompt(referenceURIs []string, liveImage []byte, liveMIMEType string) ([]*genai.Content, error) {
	contents := make([]*genai.Content, 0, 2*len(referenceURIs)+1)

	for i, uri := range referenceURIs {
		target, err := json.Marshal(AssessReference(uri))
		if err != nil {
			return nil, fmt.Errorf("marshal assessment for %s: %w", uri, err)
		}

		contents = append(contents, &genai.Content{
			Role: genai.RoleUser,
			Parts: []*genai.Part{
				{Text: fmt.Sprintf("EXAMPLE %d: Analyze this image at %s", i+1, uri)},
				{FileData: &genai.FileData{FileURI: uri, MIMEType: "image/jpeg"}},
			},
		})
		contents = append(contents, &genai.Content{
			Role:  genai.RoleModel,
			Parts: []*genai.Part{{Text: string(target)}},
		})
	}

	contents = append(contents, &genai.Content{
		Role: genai.RoleUser,
		Parts: []*genai.Part{
			{Text: finalTaskText},
			{InlineData: &genai.Blob{Data: liveImage, MIMEType: liveMIMEType}},
		},
	})

	return contents, nil
}
