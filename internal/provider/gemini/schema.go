package gemini

// Schema is the subset of the Gemini response-schema vocabulary the analyzer
// needs. Types use the API's uppercase names.
type Schema struct {
	Type        string             `json:"type"`
	Description string             `json:"description,omitempty"`
	Properties  map[string]*Schema `json:"properties,omitempty"`
	Items       *Schema            `json:"items,omitempty"`
	Required    []string           `json:"required,omitempty"`
}

// analysisSchema constrains the structured meal-analysis response. It mirrors
// the AnalysisResult wire shape field for field, including the tri-state
// compatibility verdict.
func analysisSchema() *Schema {
	return &Schema{
		Type: "OBJECT",
		Properties: map[string]*Schema{
			"compatibilidade": {
				Type:        "STRING",
				Description: "Avaliação da compatibilidade. Deve ser 'sim', 'não', ou 'parcial'.",
			},
			"macros_estimados": {
				Type: "OBJECT",
				Properties: map[string]*Schema{
					"proteina":         {Type: "NUMBER", Description: "Quantidade de proteína em gramas."},
					"gordura":          {Type: "NUMBER", Description: "Quantidade de gordura total em gramas."},
					"gordura_saturada": {Type: "NUMBER", Description: "Quantidade de gordura saturada em gramas."},
					"carboidratos":     {Type: "NUMBER", Description: "Quantidade de carboidratos em gramas."},
				},
				Required: []string{"proteina", "gordura", "gordura_saturada", "carboidratos"},
			},
			"itens_detectados": {
				Type: "ARRAY",
				Items: &Schema{
					Type: "OBJECT",
					Properties: map[string]*Schema{
						"item":       {Type: "STRING", Description: "O nome do item alimentar detectado."},
						"compativel": {Type: "BOOLEAN", Description: "Se o item é compatível com a dieta."},
					},
					Required: []string{"item", "compativel"},
				},
			},
			"ajustes_recomendados": {
				Type:  "ARRAY",
				Items: &Schema{Type: "STRING", Description: "Uma recomendação para ajustar a refeição."},
			},
			"explicacao": {
				Type:        "STRING",
				Description: "Uma explicação geral da análise, incluindo o aviso legal.",
			},
		},
		Required: []string{"compatibilidade", "macros_estimados", "itens_detectados", "ajustes_recomendados", "explicacao"},
	}
}
