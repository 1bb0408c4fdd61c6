package importer

import (
	"github.com/RVSV1104/qualitrack/pkg/dates"
	"github.com/RVSV1104/qualitrack/pkg/evaluation"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
)

// Submission is a freshly filled-in evaluation form.
type Submission struct {
	ConsultantName        string                       `json:"consultant_name" validate:"required"`
	MonitorName           string                       `json:"monitor_name"`
	SupervisorName        string                       `json:"supervisor_name"`
	Center                string                       `json:"center"`
	Base                  string                       `json:"base"`
	Shift                 string                       `json:"shift"`
	Cycle                 string                       `json:"cycle"`
	Channel               string                       `json:"channel"`
	ContactLink           string                       `json:"contact_link"`
	Date                  string                       `json:"date" validate:"required"`
	SaleEffective         bool                         `json:"sale_effective"`
	NoSaleReason          string                       `json:"no_sale_reason"`
	Answers               map[string]evaluation.Answer `json:"answers" validate:"required,min=1,dive,oneof=Sim Não N/A"`
	HasCriticalFailure    bool                         `json:"has_critical_failure"`
	CriticalFailureReason string                       `json:"critical_failure_reason" validate:"required_if=HasCriticalFailure true"`
	Notes                 string                       `json:"notes"`
	Pros                  string                       `json:"pros"`
	Cons                  string                       `json:"cons"`
}

// Submit scores a submission and runs the action-item rules against history.
// Items from a submission are always Pending.
func (imp *Importer) Submit(sub Submission, history []evaluation.Evaluation) (ev evaluation.Evaluation, items []evaluation.ActionItem, err error) {
	err = validator.New().Struct(sub)
	if err != nil {
		err = errors.Wrap(err, "invalid submission")
		return ev, items, err
	}

	date, ok := dates.Normalize(sub.Date)
	if !ok {
		err = errors.Errorf("invalid contact date: %q", sub.Date)
		return ev, items, err
	}

	known := make(map[string]bool)
	for _, sq := range imp.rubric.Questions() {
		known[sq.Question.ID] = true
	}
	for id := range sub.Answers {
		if !known[id] {
			err = errors.Errorf("unknown question: %s", id)
			return ev, items, err
		}
	}

	ev = evaluation.Evaluation{
		ID:                    imp.newID(),
		CreatedAt:             imp.now(),
		Date:                  date,
		Month:                 dates.MonthName(date),
		Week:                  dates.Week(date),
		Year:                  date.Year(),
		ConsultantName:        sub.ConsultantName,
		MonitorName:           sub.MonitorName,
		SupervisorName:        sub.SupervisorName,
		Center:                sub.Center,
		Base:                  sub.Base,
		Shift:                 sub.Shift,
		Cycle:                 sub.Cycle,
		Channel:               sub.Channel,
		ContactLink:           sub.ContactLink,
		SaleEffective:         sub.SaleEffective,
		NoSaleReason:          sub.NoSaleReason,
		Answers:               sub.Answers,
		HasCriticalFailure:    sub.HasCriticalFailure,
		CriticalFailureReason: sub.CriticalFailureReason,
		Notes:                 sub.Notes,
		Pros:                  sub.Pros,
		Cons:                  sub.Cons,
		FeedbackStatus:        evaluation.FeedbackPending,
		Status:                evaluation.WorkflowMonitored,
	}
	imp.scorer.Apply(&ev)

	items = imp.engine.Generate(ev, history)

	return ev, items, err
}
