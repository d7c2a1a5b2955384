package recommend

// generateRequest is the body of a generateContent call.
type generateRequest struct {
	Contents         []content         `json:"contents"`
	GenerationConfig *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generationConfig struct {
	ResponseMimeType string  `json:"response_mime_type,omitempty"`
	ResponseSchema   *schema `json:"response_schema,omitempty"`
}

type schema struct {
	Type       string             `json:"type"`
	Properties map[string]*schema `json:"properties,omitempty"`
	Items      *schema            `json:"items,omitempty"`
	Required   []string           `json:"required,omitempty"`
}

type generateResponse struct {
	Candidates []candidate `json:"candidates"`
}

type candidate struct {
	Content      content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type errorResponse struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}

// analysisSchema constrains the model output to the Analysis shape.
func analysisSchema() *schema {
	str := &schema{Type: "string"}
	list := &schema{Type: "array", Items: &schema{Type: "string"}}
	return &schema{
		Type: "object",
		Properties: map[string]*schema{
			"summary":        str,
			"pros":           list,
			"cons":           list,
			"recommendation": str,
		},
		Required: []string{"summary", "pros", "cons", "recommendation"},
	}
}
