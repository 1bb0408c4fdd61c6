package scorer

import (
	"math"
	"testing"

	"github.com/RVSV1104/qualitrack/pkg/evaluation"
	"github.com/RVSV1104/qualitrack/pkg/rubric"
)

const (
	yes = evaluation.AnswerYes
	no  = evaluation.AnswerNo
	na  = evaluation.AnswerNotApplicable
)

func twoSectionRubric() (r rubric.Rubric) {
	r = rubric.Rubric{Sections: []rubric.Section{
		{ID: "A", Title: "Abordagem", Weight: 60, Questions: []rubric.Question{
			{ID: "a1", Text: "Pergunta a1"},
			{ID: "a2", Text: "Pergunta a2"},
			{ID: "a3", Text: "Pergunta a3"},
		}},
		{ID: "B", Title: "Fechamento", Weight: 40, Questions: []rubric.Question{
			{ID: "b1", Text: "Pergunta b1"},
			{ID: "b2", Text: "Pergunta b2"},
		}},
	}}
	return r
}

func TestCalculateScores(t *testing.T) {
	scr := NewScorer(twoSectionRubric())

	tests := []struct {
		name      string
		answers   map[string]evaluation.Answer
		critical  bool
		wantA     float64
		wantB     float64
		wantTotal float64
	}{
		{
			name:      "section A perfect, section B failed",
			answers:   map[string]evaluation.Answer{"a1": yes, "a2": yes, "a3": yes, "b1": no, "b2": no},
			wantA:     60,
			wantB:     0,
			wantTotal: 60,
		},
		{
			name:      "N/A excluded from denominator",
			answers:   map[string]evaluation.Answer{"a1": yes, "a2": na, "a3": no, "b1": yes, "b2": yes},
			wantA:     30,
			wantB:     40,
			wantTotal: 70,
		},
		{
			name:      "all N/A section is fully satisfied",
			answers:   map[string]evaluation.Answer{"a1": yes, "a2": yes, "a3": yes, "b1": na, "b2": na},
			wantA:     60,
			wantB:     40,
			wantTotal: 100,
		},
		{
			name:      "unanswered section scores zero",
			answers:   map[string]evaluation.Answer{"a1": yes, "a2": yes, "a3": yes},
			wantA:     60,
			wantB:     0,
			wantTotal: 60,
		},
		{
			name:      "critical failure zeroes everything",
			answers:   map[string]evaluation.Answer{"a1": yes, "a2": yes, "a3": yes, "b1": yes, "b2": yes},
			critical:  true,
			wantA:     0,
			wantB:     0,
			wantTotal: 0,
		},
		{
			name:      "no answers",
			answers:   map[string]evaluation.Answer{},
			wantTotal: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			scores := scr.CalculateScores(tt.answers, tt.critical)

			if math.Abs(scores.Sections["A"]-tt.wantA) > 1e-9 {
				t.Errorf("Expected section A %v, got %v", tt.wantA, scores.Sections["A"])
			}
			if math.Abs(scores.Sections["B"]-tt.wantB) > 1e-9 {
				t.Errorf("Expected section B %v, got %v", tt.wantB, scores.Sections["B"])
			}
			if math.Abs(scores.Total-tt.wantTotal) > 1e-9 {
				t.Errorf("Expected total %v, got %v", tt.wantTotal, scores.Total)
			}
			if len(scores.Sections) != 2 {
				t.Errorf("Expected 2 section scores, got %d", len(scores.Sections))
			}
		})
	}
}

func TestTotalIsSumOfSections(t *testing.T) {
	scr := NewScorer(rubric.Default())

	answerSets := []map[string]evaluation.Answer{
		{"intro": yes, "momento": no, "solucoes": yes, "registro": na},
		{"intro": na, "momento": na, "espera": na, "linguagem_acolhedora": na, "tom_voz": na, "foco": na},
		{"perguntas_abertas": no, "detalhes": no, "validacao": yes, "finalizacao": yes},
	}

	for i, answers := range answerSets {
		scores := scr.CalculateScores(answers, false)

		sum := 0.0
		for _, v := range scores.Sections {
			sum += v
		}
		if math.Abs(sum-scores.Total) > 1e-9 {
			t.Errorf("set %d: total %v != sum of sections %v", i, scores.Total, sum)
		}
		if scores.Total < 0 || scores.Total > 100 {
			t.Errorf("set %d: total %v out of range", i, scores.Total)
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		total    float64
		critical bool
		want     evaluation.Criticality
	}{
		{name: "perfect", total: 100, want: evaluation.CriticalityExcellent},
		{name: "exactly 90", total: 90, want: evaluation.CriticalityExcellent},
		{name: "89.99", total: 89.99, want: evaluation.CriticalityGood},
		{name: "exactly 80", total: 80, want: evaluation.CriticalityGood},
		{name: "exactly 70", total: 70, want: evaluation.CriticalityFair},
		{name: "below 70", total: 60, want: evaluation.CriticalityCritical},
		{name: "zero", total: 0, want: evaluation.CriticalityCritical},
		{name: "critical failure overrides", total: 100, critical: true, want: evaluation.CriticalityCritical},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.total, tt.critical)
			if got != tt.want {
				t.Errorf("Classify(%v, %v) = %s, want %s", tt.total, tt.critical, got, tt.want)
			}
		})
	}
}

func TestApply(t *testing.T) {
	scr := NewScorer(twoSectionRubric())

	ev := evaluation.Evaluation{
		Answers: map[string]evaluation.Answer{"a1": yes, "a2": yes, "a3": yes, "b1": no, "b2": no},
	}
	scr.Apply(&ev)

	if ev.FinalScore != 60 {
		t.Errorf("Expected final score 60, got %v", ev.FinalScore)
	}
	if ev.Criticality != evaluation.CriticalityCritical {
		t.Errorf("Expected CRÍTICO, got %s", ev.Criticality)
	}

	ev.HasCriticalFailure = true
	scr.Apply(&ev)
	if ev.FinalScore != 0 {
		t.Errorf("Expected 0 after critical failure, got %v", ev.FinalScore)
	}
	for id, v := range ev.SectionScores {
		if v != 0 {
			t.Errorf("Expected section %s to be 0, got %v", id, v)
		}
	}
}

func TestNegativePoints(t *testing.T) {
	scr := NewScorer(twoSectionRubric())

	ev := evaluation.Evaluation{
		Answers:               map[string]evaluation.Answer{"a1": yes, "a2": no, "b2": no},
		HasCriticalFailure:    true,
		CriticalFailureReason: "Vender sem consentimento explícito",
	}

	points := scr.NegativePoints(ev)

	want := []string{
		"Abordagem: Pergunta a2",
		"Fechamento: Pergunta b2",
		"FALHA GRAVE: Vender sem consentimento explícito",
	}
	if len(points) != len(want) {
		t.Fatalf("Expected %d points, got %d: %v", len(want), len(points), points)
	}
	for i := range want {
		if points[i] != want[i] {
			t.Errorf("point %d: expected %q, got %q", i, want[i], points[i])
		}
	}
}
