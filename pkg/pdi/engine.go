package pdi

import (
	"fmt"
	"sort"
	"time"

	"github.com/RVSV1104/qualitrack/pkg/dates"
	"github.com/RVSV1104/qualitrack/pkg/evaluation"
	"github.com/RVSV1104/qualitrack/pkg/rubric"
)

// Engine derives corrective action items from a scored evaluation and the
// consultant's earlier evaluations.
type Engine struct {
	rubric rubric.Rubric
	ids    IDGenerator
	now    func() time.Time
}

// NewEngine creates an engine. A nil ids uses a fresh Sequence; a nil now uses time.Now.
func NewEngine(r rubric.Rubric, ids IDGenerator, now func() time.Time) (engine *Engine) {
	if ids == nil {
		ids = NewSequence()
	}
	if now == nil {
		now = time.Now
	}
	engine = &Engine{
		rubric: r,
		ids:    ids,
		now:    now,
	}
	return engine
}

// Generate runs every trigger against current. history may hold evaluations of
// any consultant and may include current itself; both are filtered out here.
// Items are returned Pending; the caller decides whether they stay active.
func (e *Engine) Generate(current evaluation.Evaluation, history []evaluation.Evaluation) (items []evaluation.ActionItem) {
	items = make([]evaluation.ActionItem, 0)
	now := e.now()

	add := func(rule Rule, key string, title string, plan string) {
		items = append(items, evaluation.ActionItem{
			ID:                 e.ids.NewID(rule.IDPrefix + "-" + key),
			ConsultantName:     current.ConsultantName,
			Title:              title,
			ActionPlan:         plan,
			Deadline:           dates.AddDays(now, rule.DeadlineDays),
			Status:             evaluation.ActionPending,
			CreatedAt:          now,
			Priority:           rule.Priority,
			Responsible:        rule.Responsible,
			OriginEvaluationID: current.ID,
			Kind:               rule.Kind,
		})
	}

	// 1. Low overall score
	if current.FinalScore < LowScoreThreshold {
		rule := Rules[TriggerLowScore]
		add(rule, current.ID, rule.Title, rule.ActionPlan)
	}

	// 2. Section below its block threshold
	for _, section := range e.rubric.Sections {
		percentage := current.SectionScores[section.ID] / section.Weight * 100
		if percentage < SectionBlockThreshold {
			rule := Rules[TriggerSectionBlock]
			add(rule, section.ID+"-"+current.ID,
				fmt.Sprintf(rule.Title, section.Title),
				fmt.Sprintf(rule.ActionPlan, section.Title, percentage))
		}
	}

	// 3. Critical failure
	if current.HasCriticalFailure {
		rule := Rules[TriggerCriticalFailure]
		add(rule, current.ID, rule.Title, fmt.Sprintf(rule.ActionPlan, current.CriticalFailureReason))
	}

	prior := ConsultantHistory(current, history)

	// 4. Same question missed in the latest RepeatWindow evaluations
	window := append([]evaluation.Evaluation{current}, prior...)
	if len(window) >= RepeatWindow {
		window = window[:RepeatWindow]
		for _, sq := range e.rubric.Questions() {
			if !missedInAll(window, sq.Question.ID) {
				continue
			}
			rule := Rules[TriggerRepeatedFailure]
			add(rule, sq.Question.ID+"-"+current.ID,
				fmt.Sprintf(rule.Title, truncate(sq.Question.Text, repeatTitleLen)),
				fmt.Sprintf(rule.ActionPlan, sq.Question.Text))
		}
	}

	// 5. Recurrent generic disinterest
	if !current.SaleEffective && current.NoSaleReason == GenericDisinterestReason {
		recurrences := 0
		for _, ev := range prior {
			if ev.NoSaleReason == GenericDisinterestReason {
				recurrences++
			}
		}
		if recurrences >= DisinterestRecurrence {
			rule := Rules[TriggerRecurrentDisinterest]
			add(rule, current.ID, rule.Title, rule.ActionPlan)
		}
	}

	return items
}

// ConsultantHistory returns the evaluations of current's consultant other than
// current, newest first. Equal dates keep their input order.
func ConsultantHistory(current evaluation.Evaluation, history []evaluation.Evaluation) (prior []evaluation.Evaluation) {
	prior = make([]evaluation.Evaluation, 0)
	for _, ev := range history {
		if ev.ConsultantName != current.ConsultantName {
			continue
		}
		if current.ID != "" && ev.ID == current.ID {
			continue
		}
		prior = append(prior, ev)
	}

	sort.SliceStable(prior, func(i, j int) bool {
		return prior[i].Date.After(prior[j].Date)
	})

	return prior
}

func missedInAll(window []evaluation.Evaluation, questionID string) (missed bool) {
	for _, ev := range window {
		if ev.Answers[questionID] != evaluation.AnswerNo {
			return missed
		}
	}
	missed = true
	return missed
}

func truncate(s string, n int) (out string) {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	out = string(runes)
	return out
}
