package importer

import (
	"testing"
	"time"

	"github.com/RVSV1104/qualitrack/pkg/evaluation"
)

func validSubmission() (sub Submission) {
	sub = Submission{
		ConsultantName: "Ana",
		MonitorName:    "Carla",
		Date:           "15/03/2024",
		SaleEffective:  true,
		Answers: map[string]evaluation.Answer{
			"q1": evaluation.AnswerYes,
			"q2": evaluation.AnswerNotApplicable,
			"q3": evaluation.AnswerNo,
		},
	}
	return sub
}

func TestSubmit(t *testing.T) {
	ev, items, err := newTestImporter().Submit(validSubmission(), nil)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if ev.ID != "ev-1" {
		t.Errorf("Expected injected id ev-1, got %q", ev.ID)
	}
	if !ev.Date.Equal(time.Date(2024, time.March, 15, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("Unexpected date %v", ev.Date)
	}
	if ev.Month != "março" || ev.Year != 2024 || ev.Week != 11 {
		t.Errorf("Expected março/2024/week 11, got %s/%d/%d", ev.Month, ev.Year, ev.Week)
	}
	if ev.FinalScore != 60 {
		t.Errorf("Expected 60, got %v", ev.FinalScore)
	}
	if ev.Criticality != evaluation.CriticalityCritical {
		t.Errorf("Expected CRÍTICO, got %s", ev.Criticality)
	}
	if ev.FeedbackStatus != evaluation.FeedbackPending || ev.Status != evaluation.WorkflowMonitored {
		t.Errorf("Expected default statuses, got %s/%s", ev.FeedbackStatus, ev.Status)
	}

	if len(items) != 2 {
		t.Fatalf("Expected 2 items, got %d", len(items))
	}
	for _, item := range items {
		if item.Status != evaluation.ActionPending {
			t.Errorf("Expected Pending, got %s", item.Status)
		}
	}
}

func TestSubmitInvalid(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(s *Submission)
	}{
		{name: "missing consultant", mutate: func(s *Submission) { s.ConsultantName = "" }},
		{name: "missing date", mutate: func(s *Submission) { s.Date = "" }},
		{name: "us date", mutate: func(s *Submission) { s.Date = "03-15-2024" }},
		{name: "no answers", mutate: func(s *Submission) { s.Answers = nil }},
		{name: "unknown question", mutate: func(s *Submission) { s.Answers["zz"] = evaluation.AnswerYes }},
		{name: "bad answer token", mutate: func(s *Submission) { s.Answers["q1"] = "Talvez" }},
		{name: "critical failure without reason", mutate: func(s *Submission) { s.HasCriticalFailure = true }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := validSubmission()
			tt.mutate(&sub)

			_, _, err := newTestImporter().Submit(sub, nil)
			if err == nil {
				t.Error("Expected error, got nil")
			}
		})
	}
}
