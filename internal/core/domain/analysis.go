package domain

// DefaultLabel is used when the backend omits a classification label.
const DefaultLabel = "General Document"

// AnalysisResult is the structured output of one document analysis.
// It is immutable once constructed and owned by the caller that
// receives it from the analysis client.
type AnalysisResult struct {
	// ExtractedText is the OCR transcription of the document.
	ExtractedText string `json:"extractedText"`

	// Summary is the generated summary.
	Summary string `json:"summary"`

	// Label is the primary classification tag.
	// Defaults to DefaultLabel when absent from the response.
	Label string `json:"label"`

	// DetectedInfo is the optional structured breakdown.
	DetectedInfo *DetectedInfo `json:"detectedInfo,omitempty"`

	// Tags are optional free-form tags.
	Tags []string `json:"tags,omitempty"`
}

// DetectedInfo is the structured breakdown the backend may attach
// to an analysis result.
type DetectedInfo struct {
	// DocumentType describes the kind of document detected.
	DocumentType string `json:"documentType"`

	// Entities are the detected entities, in backend order.
	Entities []Entity `json:"entities"`

	// KeyPoints are the main points extracted from the document.
	KeyPoints []string `json:"keyPoints"`

	// Understanding is the backend's prose interpretation.
	Understanding string `json:"understanding"`
}

// Entity is a single detected entity within a document.
type Entity struct {
	Type       string `json:"type"`
	Value      string `json:"value"`
	Confidence string `json:"confidence"`
}

// Normalize applies the field defaults the deserialization boundary
// guarantees: a missing label becomes DefaultLabel. Text fields keep
// their zero value (empty string) when absent.
func (r *AnalysisResult) Normalize() {
	if r.Label == "" {
		r.Label = DefaultLabel
	}
}
