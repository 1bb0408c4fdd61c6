// Package feedback asks a text-generation assistant to write coaching feedback
// for an evaluation. The reply is opaque text; failures degrade to fixed
// messages so callers always have something to show.
package feedback

import (
	"context"

	"github.com/RVSV1104/qualitrack/pkg/evaluation"
	"github.com/RVSV1104/qualitrack/pkg/scorer"
)

const (
	// EmptyFallback is returned when the assistant answers with no text.
	EmptyFallback = "Não foi possível gerar o feedback automático."
	// ErrorFallback is returned when the assistant cannot be reached.
	ErrorFallback = "Erro ao conectar com o assistente de IA. Verifique sua chave de API."
)

// RequestFor builds the feedback request for ev.
func RequestFor(ev evaluation.Evaluation, s *scorer.Scorer) (req Request) {
	req = Request{
		ConsultantName: ev.ConsultantName,
		Description:    ev.Notes,
		NegativePoints: s.NegativePoints(ev),
		Score:          ev.FinalScore,
	}
	return req
}

// Analyze generates feedback for req. The error is returned for logging only;
// text always holds either the assistant's reply or a fallback.
func Analyze(ctx context.Context, gen Generator, req Request) (text string, err error) {
	text, err = gen.Complete(ctx, BuildPrompt(req))
	if err != nil {
		text = ErrorFallback
		return text, err
	}

	if text == "" {
		text = EmptyFallback
	}

	return text, err
}
