package domain

// Diet enumerates the supported diet profiles.
type Diet string

const (
	DietCarnivore Diet = "carnivore"
	DietKetogenic Diet = "ketogenic"
)

// Strictness enumerates the diet-specific rigor levels. Carnivore accepts
// strict/permissive; ketogenic accepts very_low/moderate.
type Strictness string

const (
	StrictnessStrict     Strictness = "strict"
	StrictnessPermissive Strictness = "permissive"
	StrictnessVeryLow    Strictness = "very_low"
	StrictnessModerate   Strictness = "moderate"
)

// Protein enumerates the main protein choices for menu suggestions. The
// values are the user-facing Portuguese identifiers.
type Protein string

const (
	ProteinBeef    Protein = "carne"
	ProteinChicken Protein = "frango"
	ProteinPork    Protein = "porco"
	ProteinFish    Protein = "peixe"
)

// StrictnessRule carries the display name and the natural-language rule
// description embedded into prompts.
type StrictnessRule struct {
	Name        string
	Description string
}

// DietConfig describes one diet profile and its strictness levels.
type DietConfig struct {
	Name       string
	Strictness map[Strictness]StrictnessRule
}

// DietConfigs holds the evaluation rules per diet, keyed by Diet. The
// descriptions are user-facing Portuguese text and feed directly into the
// analysis and menu prompts.
var DietConfigs = map[Diet]DietConfig{
	DietCarnivore: {
		Name: "Carnívora",
		Strictness: map[Strictness]StrictnessRule{
			StrictnessStrict: {
				Name:        "Estrita",
				Description: "Apenas alimentos de origem animal são permitidos. Qualquer vegetal, grão ou açúcar torna a refeição incompatível.",
			},
			StrictnessPermissive: {
				Name:        "Permissiva",
				Description: "Principalmente alimentos de origem animal. Pequenas quantidades de temperos, ervas ou café são aceitáveis, mas carboidratos significativos não são.",
			},
		},
	},
	DietKetogenic: {
		Name: "Cetogênica",
		Strictness: map[Strictness]StrictnessRule{
			StrictnessVeryLow: {
				Name:        "Muito Baixa em Carboidratos",
				Description: "O objetivo é manter os carboidratos líquidos extremamente baixos, idealmente abaixo de 10-20g por refeição. Alimentos como batatas, arroz, pão e frutas açucaradas são incompatíveis.",
			},
			StrictnessModerate: {
				Name:        "Moderada em Carboidratos",
				Description: "Permite um pouco mais de flexibilidade, com um limite de carboidratos líquidos de até 20-50g por refeição. Ainda assim, grãos, açúcares e tubérculos devem ser evitados.",
			},
		},
	},
}

// ValidDiet reports whether d is a known diet.
func ValidDiet(d Diet) bool {
	_, ok := DietConfigs[d]
	return ok
}

// ValidStrictness reports whether level belongs to the given diet.
func ValidStrictness(d Diet, level Strictness) bool {
	cfg, ok := DietConfigs[d]
	if !ok {
		return false
	}
	_, ok = cfg.Strictness[level]
	return ok
}

// ValidProtein reports whether p is one of the fixed protein choices.
func ValidProtein(p Protein) bool {
	switch p {
	case ProteinBeef, ProteinChicken, ProteinPork, ProteinFish:
		return true
	}
	return false
}
