package scorer

import (
	"github.com/RVSV1104/qualitrack/pkg/evaluation"
	"github.com/RVSV1104/qualitrack/pkg/rubric"
)

// Scores is the result of scoring one set of answers.
type Scores struct {
	Total    float64
	Sections map[string]float64
}

// Scorer calculates weighted rubric scores.
type Scorer struct {
	rubric rubric.Rubric
}

// NewScorer creates a new scorer instance for r.
func NewScorer(r rubric.Rubric) (scorer *Scorer) {
	scorer = &Scorer{rubric: r}
	return scorer
}

// CalculateScores computes per-section weighted points and their total.
// A critical failure zeroes every section regardless of the answers.
func (s *Scorer) CalculateScores(answers map[string]evaluation.Answer, hasCriticalFailure bool) (scores Scores) {
	scores = Scores{Sections: make(map[string]float64, len(s.rubric.Sections))}

	if hasCriticalFailure {
		for _, section := range s.rubric.Sections {
			scores.Sections[section.ID] = 0
		}
		return scores
	}

	for _, section := range s.rubric.Sections {
		points := section.Weight * s.sectionRatio(section, answers)
		scores.Sections[section.ID] = points
		scores.Total += points
	}

	return scores
}

// sectionRatio is positive/applicable. A section answered entirely with N/A
// counts as fully satisfied; a section with no answers at all scores zero.
func (s *Scorer) sectionRatio(section rubric.Section, answers map[string]evaluation.Answer) (ratio float64) {
	applicable := 0
	positive := 0
	answered := 0

	for _, q := range section.Questions {
		answer, ok := answers[q.ID]
		if !ok {
			continue
		}
		answered++
		if answer == evaluation.AnswerNotApplicable {
			continue
		}
		applicable++
		if answer == evaluation.AnswerYes {
			positive++
		}
	}

	switch {
	case applicable > 0:
		ratio = float64(positive) / float64(applicable)
	case answered > 0:
		ratio = 1
	}

	return ratio
}

// Classify maps a total to its criticality label.
// Below-70 totals share the Critical label with critical failures.
func Classify(total float64, hasCriticalFailure bool) (criticality evaluation.Criticality) {
	if hasCriticalFailure {
		criticality = evaluation.CriticalityCritical
		return criticality
	}

	for _, band := range CriticalityBands {
		if total >= band.MinScore {
			criticality = band.Criticality
			return criticality
		}
	}

	criticality = evaluation.CriticalityCritical
	return criticality
}

// Apply recomputes section scores, final score and criticality on ev.
func (s *Scorer) Apply(ev *evaluation.Evaluation) {
	scores := s.CalculateScores(ev.Answers, ev.HasCriticalFailure)
	ev.SectionScores = scores.Sections
	ev.FinalScore = scores.Total
	ev.Criticality = Classify(scores.Total, ev.HasCriticalFailure)
}

// NegativePoints lists what went wrong in ev, one line per "Não" answer
// plus the critical failure, for feedback generation.
func (s *Scorer) NegativePoints(ev evaluation.Evaluation) (points []string) {
	points = []string{}

	for _, sq := range s.rubric.Questions() {
		if ev.Answers[sq.Question.ID] == evaluation.AnswerNo {
			points = append(points, sq.Section.Title+": "+sq.Question.Text)
		}
	}

	if ev.HasCriticalFailure {
		points = append(points, "FALHA GRAVE: "+ev.CriticalFailureReason)
	}

	return points
}
