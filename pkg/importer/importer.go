package importer

import (
	"fmt"
	"time"

	"github.com/RVSV1104/qualitrack/pkg/dates"
	"github.com/RVSV1104/qualitrack/pkg/evaluation"
	"github.com/RVSV1104/qualitrack/pkg/ingest"
	"github.com/RVSV1104/qualitrack/pkg/pdi"
	"github.com/RVSV1104/qualitrack/pkg/rubric"
	"github.com/RVSV1104/qualitrack/pkg/scorer"
	"github.com/google/uuid"
)

// Importer turns spreadsheet exports and fresh submissions into scored
// evaluations and their action items.
type Importer struct {
	rubric  rubric.Rubric
	table   ingest.HeaderTable
	scorer  *scorer.Scorer
	builder *ingest.Builder
	engine  *pdi.Engine
	now     func() time.Time
	newID   func() string
}

// Options carries the injectable collaborators. Zero values pick production defaults.
type Options struct {
	IDs   pdi.IDGenerator
	NewID func() string
	Now   func() time.Time
}

// Result is the outcome of one import batch.
type Result struct {
	Evaluations []evaluation.Evaluation `json:"evaluations"`
	ActionItems []evaluation.ActionItem `json:"action_items"`
	Warnings    []ingest.Warning        `json:"warnings"`
	Skipped     []int                   `json:"skipped_rows"`
	Active      int                     `json:"active"`
	Retroactive int                     `json:"retroactive"`
}

// New creates an importer for the given rubric and header table.
func New(r rubric.Rubric, table ingest.HeaderTable, opts Options) (imp *Importer) {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.NewID == nil {
		opts.NewID = uuid.NewString
	}
	if opts.IDs == nil {
		opts.IDs = pdi.NewSequence()
	}

	s := scorer.NewScorer(r)
	imp = &Importer{
		rubric:  r,
		table:   table,
		scorer:  s,
		builder: ingest.NewBuilder(s, opts.Now, opts.NewID),
		engine:  pdi.NewEngine(r, opts.IDs, opts.Now),
		now:     opts.Now,
		newID:   opts.NewID,
	}
	return imp
}

// Scorer returns the scorer shared by imports and submissions.
func (imp *Importer) Scorer() (s *scorer.Scorer) {
	s = imp.scorer
	return s
}

// Import decodes raw file bytes and imports them. The only error is an
// undecodable payload (*ingest.ParseError); everything else becomes a warning.
func (imp *Importer) Import(raw []byte, history []evaluation.Evaluation) (result Result, err error) {
	var text string
	text, err = ingest.Decode(raw)
	if err != nil {
		return result, err
	}

	result = imp.ImportText(text, history)
	return result, err
}

// ImportText imports already-decoded text. Rows are processed in file order and
// each row's rules see the pre-existing history plus every earlier row of the batch.
//
// Action items whose evaluation falls in the current month stay Pending; older
// ones are recorded as Done since the batch is retroactive history.
func (imp *Importer) ImportText(text string, history []evaluation.Evaluation) (result Result) {
	result = Result{
		Evaluations: make([]evaluation.Evaluation, 0),
		ActionItems: make([]evaluation.ActionItem, 0),
		Warnings:    make([]ingest.Warning, 0),
		Skipped:     make([]int, 0),
	}

	rows := ingest.Tokenize(text)
	if len(rows) == 0 {
		return result
	}

	pos := ingest.Resolve(rows[0], imp.table, imp.rubric)
	now := imp.now()

	cumulative := make([]evaluation.Evaluation, len(history), len(history)+len(rows))
	copy(cumulative, history)

	for i, row := range rows[1:] {
		rowIndex := i + 1

		ev, warnings, ok := imp.builder.Build(rowIndex, row, pos)
		if !ok {
			result.Skipped = append(result.Skipped, rowIndex)
			result.Warnings = append(result.Warnings, ingest.Warning{
				Row:     rowIndex,
				Field:   "row",
				Message: fmt.Sprintf("skipped: %d fields for %d headers", len(row), pos.HeaderCount),
			})
			continue
		}
		result.Warnings = append(result.Warnings, warnings...)

		items := imp.engine.Generate(ev, cumulative)
		active := dates.SameMonth(ev.Date, now)
		for j := range items {
			if active {
				items[j].Status = evaluation.ActionPending
				result.Active++
			} else {
				items[j].Status = evaluation.ActionDone
				result.Retroactive++
			}
		}

		result.Evaluations = append(result.Evaluations, ev)
		result.ActionItems = append(result.ActionItems, items...)
		cumulative = append(cumulative, ev)
	}

	return result
}
