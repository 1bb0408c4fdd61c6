package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/RVSV1104/qualitrack/pkg/dates"
	"github.com/RVSV1104/qualitrack/pkg/evaluation"
	"github.com/RVSV1104/qualitrack/pkg/scorer"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// UnknownConsultant is recorded when a row carries no consultant name.
const UnknownConsultant = "Consultor Desconhecido"

// scoreMismatchTolerance is how far a source total may drift from the recomputed one before a warning.
const scoreMismatchTolerance = 0.01

// Warning is a non-fatal problem attached to a data row.
// Row is the 1-based index of the row in the tokenized file (the header is row 0).
type Warning struct {
	Row     int    `json:"row"`
	Field   string `json:"field"`
	Message string `json:"message"`
}

func (w Warning) String() string {
	return fmt.Sprintf("row %d [%s]: %s", w.Row, w.Field, w.Message)
}

// Builder assembles Evaluations from tokenized rows.
type Builder struct {
	scorer *scorer.Scorer
	now    func() time.Time
	newID  func() string
}

// NewBuilder creates a builder. Nil now/newID default to time.Now and random UUIDs.
func NewBuilder(s *scorer.Scorer, now func() time.Time, newID func() string) (builder *Builder) {
	if now == nil {
		now = time.Now
	}
	if newID == nil {
		newID = uuid.NewString
	}
	builder = &Builder{
		scorer: s,
		now:    now,
		newID:  newID,
	}
	return builder
}

// Build turns one data row into an Evaluation. ok is false when the row has
// fewer than half as many fields as the header and must be skipped.
func (b *Builder) Build(rowIndex int, row []string, pos Positions) (ev evaluation.Evaluation, warnings []Warning, ok bool) {
	warnings = make([]Warning, 0)
	if float64(len(row)) < float64(pos.HeaderCount)/2 {
		return ev, warnings, ok
	}
	ok = true

	value := func(key Field) (v string, present bool) {
		idx, found := pos.Index(key)
		if !found || idx >= len(row) {
			return v, present
		}
		v = row[idx]
		present = true
		return v, present
	}
	text := func(key Field) (v string) {
		v, _ = value(key)
		return v
	}
	warn := func(field Field, format string, args ...interface{}) {
		warnings = append(warnings, Warning{Row: rowIndex, Field: string(field), Message: fmt.Sprintf(format, args...)})
	}

	now := b.now()
	ev = evaluation.Evaluation{
		ID:             b.newID(),
		CreatedAt:      now,
		Answers:        extractAnswers(row, pos),
		SectionScores:  make(map[string]float64),
		FeedbackStatus: evaluation.FeedbackPending,
		Status:         evaluation.WorkflowMonitored,
		Timestamp:      text(FieldTimestamp),
		Month:          text(FieldMonth),
		MonitorName:    text(FieldMonitorName),
		SupervisorName: text(FieldSupervisorName),
		Center:         text(FieldCenter),
		Base:           text(FieldBase),
		Shift:          text(FieldShift),
		Cycle:          text(FieldCycle),
		ContactLink:    text(FieldContactLink),
		Channel:        text(FieldChannel),
		NoSaleReason:   text(FieldNoSaleReason),
		Notes:          text(FieldNotes),
		Pros:           text(FieldPros),
		Cons:           text(FieldCons),

		CriticalFailureReason: text(FieldCriticalFailureReason),
		SaleEffective:         parseFlag(text(FieldSaleEffective)),
		HasCriticalFailure:    parseFlag(text(FieldHasCriticalFailure)),
		Week:                  parseDigits(text(FieldWeek)),
		Year:                  parseDigits(text(FieldYear)),
	}

	ev.ConsultantName = text(FieldConsultantName)
	if ev.ConsultantName == "" {
		ev.ConsultantName = UnknownConsultant
		warn(FieldConsultantName, "missing consultant name, recorded as %q", UnknownConsultant)
	}

	if feedbackStatus := text(FieldFeedbackStatus); feedbackStatus != "" {
		switch evaluation.FeedbackStatus(feedbackStatus) {
		case evaluation.FeedbackPending, evaluation.FeedbackApplied, evaluation.FeedbackAcknowledged:
			ev.FeedbackStatus = evaluation.FeedbackStatus(feedbackStatus)
		}
	}
	if status := text(FieldStatus); evaluation.KnownWorkflowStatus(status) {
		ev.Status = evaluation.WorkflowStatus(status)
	}
	if ackRaw := text(FieldAcknowledgedAt); ackRaw != "" {
		if ack, parsed := dates.Normalize(ackRaw); parsed {
			ev.AcknowledgedAt = &ack
		}
	}

	// Contact date first, then the form timestamp, then today.
	rawDate := text(FieldDate)
	date, found := dates.Normalize(rawDate)
	if !found {
		date, found = dates.Normalize(ev.Timestamp)
	}
	if !found {
		date = dates.FromTime(now)
		warn(FieldDate, "could not parse date (date=%q, timestamp=%q), defaulting to %s",
			rawDate, ev.Timestamp, date.Format("2006-01-02"))
	}
	ev.Date = date

	if ev.Month == "" {
		ev.Month = dates.MonthName(date)
	}
	if ev.Year == 0 {
		ev.Year = date.Year()
	}
	if ev.Week == 0 {
		ev.Week = dates.Week(date)
	}

	sourceScore := 0.0
	if raw, present := value(FieldFinalScore); present && raw != "" {
		parsed, parseErr := strconv.ParseFloat(strings.Replace(raw, ",", ".", 1), 64)
		if parseErr != nil || math.IsNaN(parsed) {
			warn(FieldFinalScore, "invalid score %q, treated as 0", raw)
		} else {
			sourceScore = parsed
		}
	}

	// Rows never carry section scores, so scores are always recomputed from the answers.
	b.scorer.Apply(&ev)
	if sourceScore != 0 && math.Abs(sourceScore-ev.FinalScore) > scoreMismatchTolerance {
		warn(FieldFinalScore, "source score %.2f differs from recomputed %.2f", sourceScore, ev.FinalScore)
	}

	return ev, warnings, ok
}

// extractAnswers reads matched question columns. Unrecognized tokens leave the question unanswered.
func extractAnswers(row []string, pos Positions) (answers map[string]evaluation.Answer) {
	answers = make(map[string]evaluation.Answer)
	for _, qc := range pos.Questions {
		if qc.Index >= len(row) {
			continue
		}
		if answer, ok := ParseAnswer(row[qc.Index]); ok {
			answers[qc.QuestionID] = answer
		}
	}
	return answers
}

// ParseAnswer accepts only the literal tokens "Sim", "Não", "N/A" and "Não se aplica".
func ParseAnswer(raw string) (answer evaluation.Answer, ok bool) {
	token := norm.NFC.String(strings.TrimSpace(raw))
	switch token {
	case "Sim":
		answer, ok = evaluation.AnswerYes, true
	case "Não":
		answer, ok = evaluation.AnswerNo, true
	case "N/A", "Não se aplica":
		answer, ok = evaluation.AnswerNotApplicable, true
	}
	return answer, ok
}

// parseFlag is true only for "sim" in any case.
func parseFlag(raw string) (flag bool) {
	flag = strings.EqualFold(strings.TrimSpace(raw), "sim")
	return flag
}

// parseDigits keeps only the digits of raw ("Semana 12" -> 12); empty yields 0.
func parseDigits(raw string) (n int) {
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, raw)
	if digits == "" {
		return n
	}
	n, _ = strconv.Atoi(digits)
	return n
}
