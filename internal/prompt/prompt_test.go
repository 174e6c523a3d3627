package prompt

import (
	"errors"
	"strings"
	"testing"

	"mealcheck/internal/domain"
)

func TestAnalysisIncludesDietContext(t *testing.T) {
	text, err := Analysis(domain.DietCarnivore, domain.StrictnessStrict)
	if err != nil {
		t.Fatalf("Analysis: %v", err)
	}
	for _, want := range []string{"Carnívora", "Estrita", "Apenas alimentos de origem animal"} {
		if !strings.Contains(text, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if !strings.Contains(text, Disclaimer) {
		t.Error("prompt missing disclaimer")
	}
}

func TestAnalysisKetogenicLevels(t *testing.T) {
	text, err := Analysis(domain.DietKetogenic, domain.StrictnessVeryLow)
	if err != nil {
		t.Fatalf("Analysis: %v", err)
	}
	if !strings.Contains(text, "Cetogênica") || !strings.Contains(text, "Muito Baixa em Carboidratos") {
		t.Error("ketogenic context missing")
	}
}

func TestAnalysisInvalidCombinations(t *testing.T) {
	if _, err := Analysis("paleo", domain.StrictnessStrict); !errors.Is(err, domain.ErrInvalidDiet) {
		t.Errorf("err = %v, want ErrInvalidDiet", err)
	}
	// strictness levels are diet-specific
	if _, err := Analysis(domain.DietCarnivore, domain.StrictnessVeryLow); !errors.Is(err, domain.ErrInvalidStrictness) {
		t.Errorf("err = %v, want ErrInvalidStrictness", err)
	}
}

func TestMenuIncludesProtein(t *testing.T) {
	text, err := Menu(domain.ProteinBeef, domain.DietKetogenic, domain.StrictnessModerate)
	if err != nil {
		t.Fatalf("Menu: %v", err)
	}
	if !strings.Contains(text, "Carne bovina") {
		t.Error("protein name missing")
	}
	if !strings.Contains(text, "Moderada em Carboidratos") {
		t.Error("strictness name missing")
	}
}

func TestMenuRejectsUnknownProtein(t *testing.T) {
	if _, err := Menu("tofu", domain.DietKetogenic, domain.StrictnessModerate); !errors.Is(err, domain.ErrInvalidProtein) {
		t.Errorf("err = %v, want ErrInvalidProtein", err)
	}
}

func TestProteinName(t *testing.T) {
	if got := ProteinName(domain.ProteinChicken); got != "Frango" {
		t.Errorf("ProteinName(frango) = %q", got)
	}
	// unmapped values fall back to title casing
	if got := ProteinName(domain.Protein("cordeiro")); got != "Cordeiro" {
		t.Errorf("ProteinName(cordeiro) = %q", got)
	}
}
