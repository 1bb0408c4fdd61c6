package scorer

import "github.com/RVSV1104/qualitrack/pkg/evaluation"

// Band is the lowest total that earns a criticality label.
type Band struct {
	MinScore    float64
	Criticality evaluation.Criticality
}

// CriticalityBands is checked top-down; totals below the last band are Critical.
//
//nolint:gochecknoglobals // Scoring configuration constants
var CriticalityBands = []Band{
	{MinScore: 90, Criticality: evaluation.CriticalityExcellent},
	{MinScore: 80, Criticality: evaluation.CriticalityGood},
	{MinScore: 70, Criticality: evaluation.CriticalityFair},
}
