package domain

// Compatibility is the tri-state verdict returned by the analyzer. The wire
// values are the Portuguese words the response schema constrains the model to.
type Compatibility string

const (
	CompatibilityYes     Compatibility = "sim"
	CompatibilityNo      Compatibility = "não"
	CompatibilityPartial Compatibility = "parcial"
)

// Macros is the estimated macronutrient breakdown in grams for the whole meal.
type Macros struct {
	Protein      float64 `json:"proteina"`
	Fat          float64 `json:"gordura"`
	SaturatedFat float64 `json:"gordura_saturada"`
	Carbs        float64 `json:"carboidratos"`
}

// DetectedItem is a single food item the model identified in the photo.
type DetectedItem struct {
	Item       string `json:"item"`
	Compatible bool   `json:"compativel"`
}

// AnalysisResult is the structured verdict for one meal photo. It is immutable
// once parsed; the field names mirror the provider's response schema.
type AnalysisResult struct {
	Compatibility   Compatibility  `json:"compatibilidade"`
	Macros          Macros         `json:"macros_estimados"`
	DetectedItems   []DetectedItem `json:"itens_detectados"`
	Recommendations []string       `json:"ajustes_recomendados"`
	Explanation     string         `json:"explicacao"`
}

// Valid reports whether the verdict carries one of the three allowed values.
func (c Compatibility) Valid() bool {
	switch c {
	case CompatibilityYes, CompatibilityNo, CompatibilityPartial:
		return true
	}
	return false
}
