// Package export writes evaluations back out as spreadsheet-friendly CSV.
//
// Export always uses ';' and a UTF-8 BOM so Excel on pt-BR desktops opens the
// file with the right columns and accents, whatever delimiter the import used.
package export

import (
	"io"
	"strconv"
	"strings"

	"github.com/RVSV1104/qualitrack/pkg/evaluation"
	"github.com/RVSV1104/qualitrack/pkg/ingest"
	"github.com/RVSV1104/qualitrack/pkg/rubric"
	"github.com/pkg/errors"
)

// Delimiter separates exported cells.
const Delimiter = ';'

const (
	bom        = "\xEF\xBB\xBF"
	dateLayout = "2006-01-02"
)

// Write renders evs as CSV: the header table's labels in table order, then one
// column per rubric question in rubric order.
func Write(w io.Writer, evs []evaluation.Evaluation, table ingest.HeaderTable, r rubric.Rubric) (err error) {
	questions := r.Questions()

	var sb strings.Builder
	sb.WriteString(bom)

	header := make([]string, 0, len(table)+len(questions))
	for _, col := range table {
		header = append(header, col.Label)
	}
	for _, sq := range questions {
		header = append(header, sq.Question.Text)
	}
	writeRow(&sb, header)

	for _, ev := range evs {
		row := make([]string, 0, len(header))
		for _, col := range table {
			row = append(row, FieldValue(ev, col.Key))
		}
		for _, sq := range questions {
			// Unanswered stays empty so a re-import leaves it unanswered.
			row = append(row, string(ev.Answers[sq.Question.ID]))
		}
		writeRow(&sb, row)
	}

	_, err = io.WriteString(w, sb.String())
	if err != nil {
		err = errors.Wrap(err, "failed to write export")
		return err
	}

	return err
}

// FieldValue renders one metadata field the way the import side reads it back.
func FieldValue(ev evaluation.Evaluation, key ingest.Field) (value string) {
	switch key {
	case ingest.FieldTimestamp:
		value = ev.Timestamp
	case ingest.FieldMonth:
		value = ev.Month
	case ingest.FieldWeek:
		value = strconv.Itoa(ev.Week)
	case ingest.FieldYear:
		value = strconv.Itoa(ev.Year)
	case ingest.FieldDate:
		if !ev.Date.IsZero() {
			value = ev.Date.Format(dateLayout)
		}
	case ingest.FieldConsultantName:
		value = ev.ConsultantName
	case ingest.FieldMonitorName:
		value = ev.MonitorName
	case ingest.FieldSupervisorName:
		value = ev.SupervisorName
	case ingest.FieldCenter:
		value = ev.Center
	case ingest.FieldBase:
		value = ev.Base
	case ingest.FieldShift:
		value = ev.Shift
	case ingest.FieldCycle:
		value = ev.Cycle
	case ingest.FieldContactLink:
		value = ev.ContactLink
	case ingest.FieldChannel:
		value = ev.Channel
	case ingest.FieldSaleEffective:
		value = yesNo(ev.SaleEffective)
	case ingest.FieldNoSaleReason:
		value = ev.NoSaleReason
	case ingest.FieldFinalScore:
		value = strconv.FormatFloat(ev.FinalScore, 'f', -1, 64)
	case ingest.FieldCriticality:
		value = string(ev.Criticality)
	case ingest.FieldFeedbackStatus:
		value = string(ev.FeedbackStatus)
	case ingest.FieldStatus:
		value = string(ev.Status)
		if value == "" {
			value = string(evaluation.WorkflowMonitored)
		}
	case ingest.FieldAcknowledgedAt:
		if ev.AcknowledgedAt != nil {
			value = ev.AcknowledgedAt.Format(dateLayout)
		}
	case ingest.FieldHasCriticalFailure:
		value = yesNo(ev.HasCriticalFailure)
	case ingest.FieldCriticalFailureReason:
		value = ev.CriticalFailureReason
	case ingest.FieldNotes:
		value = ev.Notes
	case ingest.FieldPros:
		value = ev.Pros
	case ingest.FieldCons:
		value = ev.Cons
	}
	return value
}

// Quote wraps value in double quotes, doubling inner quotes, when it holds a
// delimiter, a quote or a line break. Commas are quoted too since the importer
// may sniff either delimiter.
func Quote(value string) (quoted string) {
	if !strings.ContainsAny(value, ",;\"\n\r") {
		quoted = value
		return quoted
	}
	quoted = `"` + strings.ReplaceAll(value, `"`, `""`) + `"`
	return quoted
}

func writeRow(sb *strings.Builder, cells []string) {
	for i, cell := range cells {
		if i > 0 {
			sb.WriteRune(Delimiter)
		}
		sb.WriteString(Quote(cell))
	}
	sb.WriteString("\r\n")
}

func yesNo(b bool) (s string) {
	s = "Não"
	if b {
		s = "Sim"
	}
	return s
}
