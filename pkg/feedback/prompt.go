package feedback

import (
	"fmt"
	"strings"
)

// Request is everything the assistant sees about one evaluation.
type Request struct {
	ConsultantName string   `json:"consultant_name"`
	Description    string   `json:"description"`
	NegativePoints []string `json:"negative_points"`
	Score          float64  `json:"score"`
}

// BuildPrompt creates the QA feedback prompt (pt-BR).
func BuildPrompt(req Request) (prompt string) {
	points := make([]string, 0, len(req.NegativePoints))
	for _, p := range req.NegativePoints {
		points = append(points, "- "+p)
	}

	prompt = fmt.Sprintf(`Você é um especialista sênior em Garantia de Qualidade (QA) para Call Centers de vendas educacionais.
Analise os seguintes dados de uma monitoria realizada:

Consultor: %s
Nota Final: %.2f%%
Descrição do Contato: "%s"
Pontos de Atenção (Respostas "Não" ou Falhas Graves):
%s

Tarefa:
Escreva um feedback construtivo, profissional e motivador.

Diretrizes:
1. Se houver "FALHA GRAVE", o tom deve ser sério e corretivo, focando na conformidade imediata.
2. Se a nota for baixa (<60%%) mas sem falha grave, foque em plano de ação e recuperação.
3. Se a nota for alta, reconheça os méritos e sugira pequenos polimentos.
4. Agrupe o feedback por blocos (Ex: Abordagem, Negociação) se possível.
5. Use formatação Markdown (negrito para pontos chaves).
6. Seja empático mas firme nos pontos de correção.
`, req.ConsultantName, req.Score, req.Description, strings.Join(points, "\n"))

	return prompt
}
