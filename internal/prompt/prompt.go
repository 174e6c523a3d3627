// Package prompt builds the Portuguese-language instructions sent to the
// inference provider for meal analysis and menu suggestions.
package prompt

import (
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"mealcheck/internal/domain"
)

// Disclaimer is the fixed safety sentence the model is instructed to append
// to every explanation.
const Disclaimer = "Aviso: Estas informações são para fins educacionais e não substituem o aconselhamento médico. Consulte um profissional de saúde para orientações clínicas."

var proteinNames = map[domain.Protein]string{
	domain.ProteinBeef:    "Carne bovina",
	domain.ProteinChicken: "Frango",
	domain.ProteinPork:    "Porco",
	domain.ProteinFish:    "Peixe",
}

// ProteinName returns the display name for a protein choice, title-casing
// unknown values as a fallback.
func ProteinName(p domain.Protein) string {
	if name, ok := proteinNames[p]; ok {
		return name
	}
	return cases.Title(language.BrazilianPortuguese).String(string(p))
}

// Analysis renders the structured-analysis prompt for the given diet and
// strictness level. The caller is expected to attach the meal image as a
// separate inline part.
func Analysis(diet domain.Diet, strictness domain.Strictness) (string, error) {
	cfg, rule, err := lookup(diet, strictness)
	if err != nil {
		return "", err
	}

	sb := &strings.Builder{}
	sb.WriteString("Você é um assistente nutricional especialista em dietas Cetogênica e Carnívora. Sua tarefa é analisar a imagem de uma refeição e fornecer uma avaliação detalhada.\n\n")
	sb.WriteString("**Contexto da Análise:**\n")
	fmt.Fprintf(sb, "- **Dieta Selecionada:** %s\n", cfg.Name)
	fmt.Fprintf(sb, "- **Nível de Rigor:** %s\n", rule.Name)
	fmt.Fprintf(sb, "- **Regras:** %s\n\n", rule.Description)
	sb.WriteString("**Suas Tarefas:**\n")
	sb.WriteString("1. **Identificar Alimentos:** Detecte todos os itens alimentares na imagem.\n")
	sb.WriteString("2. **Estimar Macronutrientes:** Forneça uma estimativa aproximada em gramas para proteína, gordura total, gordura saturada e carboidratos para a refeição inteira.\n")
	sb.WriteString("3. **Avaliar Compatibilidade:** Com base nas regras fornecidas, avalie se a refeição é compatível. O valor para a compatibilidade deve ser estritamente 'sim', 'não' ou 'parcial'.\n")
	sb.WriteString("4. **Gerar Recomendações:** Ofereça 1 a 3 sugestões práticas para melhorar a refeição ou alinhá-la melhor à dieta.\n")
	sb.WriteString("5. **Fornecer Explicação:** Escreva um texto conciso e amigável, como um nutricionista faria, explicando sua análise.\n\n")
	sb.WriteString("**Diretrizes Adicionais:**\n")
	sb.WriteString("- **Tom:** Profissional, amigável e técnico. Evite julgamentos e use uma linguagem positiva e incentivadora.\n")
	sb.WriteString("- **Foco:** Proteína adequada, gorduras saudáveis e carboidratos mínimos (conforme a dieta).\n")
	fmt.Fprintf(sb, "- **Segurança:** No final da sua explicação, inclua SEMPRE o seguinte aviso: %q\n\n", Disclaimer)
	sb.WriteString("**Formato de Saída:**\n")
	sb.WriteString("Sua resposta DEVE ser um objeto JSON que adere estritamente ao schema fornecido. Não inclua nenhum texto explicativo, saudações ou markdown (como ```json) em torno do JSON.")
	return sb.String(), nil
}

// Menu renders the free-text menu-suggestion prompt for the given protein,
// diet and strictness level.
func Menu(protein domain.Protein, diet domain.Diet, strictness domain.Strictness) (string, error) {
	if !domain.ValidProtein(protein) {
		return "", domain.ErrInvalidProtein
	}
	cfg, rule, err := lookup(diet, strictness)
	if err != nil {
		return "", err
	}

	sb := &strings.Builder{}
	sb.WriteString("Você é um assistente culinário especialista em dietas Cetogênica e Carnívora. Sua tarefa é criar uma sugestão de refeição criativa e deliciosa.\n\n")
	sb.WriteString("**Contexto da Sugestão:**\n")
	fmt.Fprintf(sb, "- **Dieta Selecionada:** %s\n", cfg.Name)
	fmt.Fprintf(sb, "- **Nível de Rigor:** %s\n", rule.Name)
	fmt.Fprintf(sb, "- **Regras da Dieta:** %s\n", rule.Description)
	fmt.Fprintf(sb, "- **Proteína Principal:** %s\n\n", ProteinName(protein))
	sb.WriteString("**Sua Tarefa:**\n")
	sb.WriteString("Crie uma sugestão de refeição completa (prato principal e, se aplicável, acompanhamentos) que seja estritamente compatível com a dieta e o nível de rigor especificados.\n\n")
	sb.WriteString("**Diretrizes:**\n")
	sb.WriteString("- Forneça um nome criativo para o prato.\n")
	sb.WriteString("- Liste os ingredientes de forma clara.\n")
	sb.WriteString("- Descreva o modo de preparo em passos simples.\n")
	sb.WriteString("- O resultado deve ser apenas o texto da sugestão, sem JSON ou formatação extra.\n")
	sb.WriteString("- Seja direto e conciso. O texto deve ser útil para alguém que procura o que cozinhar.\n\n")
	sb.WriteString("Responda apenas com o texto da sugestão. Não inclua saudações, observações ou qualquer texto introdutório.")
	return sb.String(), nil
}

func lookup(diet domain.Diet, strictness domain.Strictness) (domain.DietConfig, domain.StrictnessRule, error) {
	cfg, ok := domain.DietConfigs[diet]
	if !ok {
		return domain.DietConfig{}, domain.StrictnessRule{}, domain.ErrInvalidDiet
	}
	rule, ok := cfg.Strictness[strictness]
	if !ok {
		return domain.DietConfig{}, domain.StrictnessRule{}, domain.ErrInvalidStrictness
	}
	return cfg, rule, nil
}
