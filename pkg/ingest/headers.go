package ingest

import (
	"os"
	"strings"

	"github.com/RVSV1104/qualitrack/pkg/rubric"
	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
	"gopkg.in/yaml.v3"
)

// Field is a canonical evaluation metadata key.
type Field string

const (
	FieldTimestamp             Field = "timestamp"
	FieldMonth                 Field = "month"
	FieldWeek                  Field = "week"
	FieldYear                  Field = "year"
	FieldDate                  Field = "date"
	FieldConsultantName        Field = "consultantName"
	FieldMonitorName           Field = "monitorName"
	FieldSupervisorName        Field = "supervisorName"
	FieldCenter                Field = "center"
	FieldBase                  Field = "base"
	FieldShift                 Field = "shift"
	FieldCycle                 Field = "cycle"
	FieldContactLink           Field = "contactLink"
	FieldChannel               Field = "channel"
	FieldSaleEffective         Field = "saleEffective"
	FieldNoSaleReason          Field = "noSaleReason"
	FieldFinalScore            Field = "finalScore"
	FieldCriticality           Field = "criticality"
	FieldFeedbackStatus        Field = "feedbackStatus"
	FieldStatus                Field = "status"
	FieldAcknowledgedAt        Field = "acknowledgedAt"
	FieldHasCriticalFailure    Field = "hasCriticalFailure"
	FieldCriticalFailureReason Field = "criticalFailureReason"
	FieldNotes                 Field = "notes"
	FieldPros                  Field = "pros"
	FieldCons                  Field = "cons"
)

// questionPrefixLen is how much of a question's text a header must contain.
// Source headers are truncated inconsistently, so only this prefix is compared.
const questionPrefixLen = 20

// HeaderColumn maps a canonical key to the spreadsheet label that carries it.
type HeaderColumn struct {
	Key   Field  `json:"key" yaml:"key" validate:"required"`
	Label string `json:"label" yaml:"label" validate:"required"`
}

// HeaderTable is the ordered key→label table. Its order is the export column order.
type HeaderTable []HeaderColumn

// DefaultHeaderTable returns the labels used by the call-center spreadsheets.
func DefaultHeaderTable() (table HeaderTable) {
	table = HeaderTable{
		{Key: FieldTimestamp, Label: "Carimbo de data/hora"},
		{Key: FieldMonth, Label: "Mês"},
		{Key: FieldWeek, Label: "Semana"},
		{Key: FieldYear, Label: "Ano"},
		{Key: FieldDate, Label: "Data do Contato"},
		{Key: FieldConsultantName, Label: "Nome do consultor"},
		{Key: FieldMonitorName, Label: "Monitor (a) Responsável:"},
		{Key: FieldSupervisorName, Label: "Supervisor (a):"},
		{Key: FieldCenter, Label: "Central de Atendimento:"},
		{Key: FieldBase, Label: "Base de Atendimento:"},
		{Key: FieldShift, Label: "Turno do Agente:"},
		{Key: FieldCycle, Label: "Ciclo de Monitoria:"},
		{Key: FieldContactLink, Label: "Link do Contato:"},
		{Key: FieldChannel, Label: "Canal de Atendimento:"},
		{Key: FieldSaleEffective, Label: "A venda foi efetivada?"},
		{Key: FieldNoSaleReason, Label: "Motivo da não venda"},
		{Key: FieldFinalScore, Label: "Nota final"},
		{Key: FieldCriticality, Label: "Nível de criticidade"},
		{Key: FieldFeedbackStatus, Label: "Status feedback"},
		{Key: FieldStatus, Label: "Status da Análise"},
		{Key: FieldAcknowledgedAt, Label: "Data da ciência"},
		{Key: FieldHasCriticalFailure, Label: "Falha Grave"},
		{Key: FieldCriticalFailureReason, Label: "Motivo Falha Grave"},
		{Key: FieldNotes, Label: "Descrição do contato"},
		{Key: FieldPros, Label: "Pontos positivos"},
		{Key: FieldCons, Label: "Pontos de melhoria"},
	}
	return table
}

// LoadHeaderTable reads a header table from a YAML or JSON file.
func LoadHeaderTable(path string) (table HeaderTable, err error) {
	var fileData []byte
	fileData, err = os.ReadFile(path)
	if err != nil {
		err = errors.Wrapf(err, "failed to read header table: %s", path)
		return table, err
	}

	err = yaml.Unmarshal(fileData, &table)
	if err != nil {
		err = errors.Wrapf(err, "failed to parse header table: %s", path)
		return table, err
	}

	err = table.Validate()
	if err != nil {
		err = errors.Wrap(err, "header table validation failed")
		return table, err
	}

	return table, err
}

// Validate checks that every entry is complete and no key repeats.
func (t HeaderTable) Validate() (err error) {
	if len(t) == 0 {
		err = errors.New("header table is empty")
		return err
	}

	validate := validator.New()
	seen := make(map[Field]bool)
	for i, col := range t {
		err = validate.Struct(col)
		if err != nil {
			err = errors.Wrapf(err, "header table entry %d", i)
			return err
		}
		if seen[col.Key] {
			err = errors.Errorf("duplicate header key: %s", col.Key)
			return err
		}
		seen[col.Key] = true
	}

	return err
}

// Label returns the label configured for key.
func (t HeaderTable) Label(key Field) (label string, ok bool) {
	for _, col := range t {
		if col.Key == key {
			label = col.Label
			ok = true
			return label, ok
		}
	}
	return label, ok
}

// QuestionColumn binds a header position to a rubric question.
type QuestionColumn struct {
	Index      int
	QuestionID string
}

// Positions is the result of resolving a header row.
// Fields absent from the map were not found; that is never an error.
type Positions struct {
	Fields      map[Field]int
	Questions   []QuestionColumn
	HeaderCount int
}

// Index returns the column for key.
func (p Positions) Index(key Field) (idx int, ok bool) {
	idx, ok = p.Fields[key]
	return idx, ok
}

// CleanHeader strips wrapping quotes and whitespace and composes accents (NFC).
func CleanHeader(raw string) (clean string) {
	clean = strings.TrimSpace(raw)
	clean = strings.TrimPrefix(clean, `"`)
	clean = strings.TrimSuffix(clean, `"`)
	clean = norm.NFC.String(strings.TrimSpace(clean))
	return clean
}

// Resolve maps a header row to canonical field and rubric question positions.
//
// Fields are matched in table order: exact label, then the label without its
// trailing colon, then a case-insensitive comparison against both. Questions
// match when the header contains the first 20 characters of the question text,
// ignoring case. Scans run in column order and the first match wins; a column
// already claimed by a field (or by a question) is not claimed again.
func Resolve(headerRow []string, table HeaderTable, r rubric.Rubric) (pos Positions) {
	fold := cases.Fold()

	headers := make([]string, len(headerRow))
	folded := make([]string, len(headerRow))
	for i, h := range headerRow {
		headers[i] = CleanHeader(h)
		folded[i] = fold.String(headers[i])
	}

	pos = Positions{
		Fields:      make(map[Field]int),
		Questions:   make([]QuestionColumn, 0),
		HeaderCount: len(headerRow),
	}

	fieldClaimed := make(map[int]bool)
	for _, col := range table {
		expected := norm.NFC.String(col.Label)
		noColon := strings.TrimSpace(strings.TrimSuffix(expected, ":"))

		matchers := []func(i int) bool{
			func(i int) bool { return headers[i] == expected },
			func(i int) bool { return headers[i] == noColon },
			func(i int) bool {
				return folded[i] == fold.String(expected) || folded[i] == fold.String(noColon)
			},
		}

		for _, matches := range matchers {
			idx := firstUnclaimed(len(headers), fieldClaimed, matches)
			if idx >= 0 {
				pos.Fields[col.Key] = idx
				fieldClaimed[idx] = true
				break
			}
		}
	}

	questionClaimed := make(map[int]bool)
	for _, sq := range r.Questions() {
		prefix := fold.String(truncateRunes(norm.NFC.String(sq.Question.Text), questionPrefixLen))

		idx := firstUnclaimed(len(headers), questionClaimed, func(i int) bool {
			return strings.Contains(folded[i], prefix)
		})
		if idx >= 0 {
			pos.Questions = append(pos.Questions, QuestionColumn{Index: idx, QuestionID: sq.Question.ID})
			questionClaimed[idx] = true
		}
	}

	return pos
}

func firstUnclaimed(n int, claimed map[int]bool, matches func(i int) bool) (idx int) {
	for i := 0; i < n; i++ {
		if claimed[i] {
			continue
		}
		if matches(i) {
			idx = i
			return idx
		}
	}
	idx = -1
	return idx
}

func truncateRunes(s string, n int) (out string) {
	runes := []rune(s)
	if len(runes) > n {
		runes = runes[:n]
	}
	out = string(runes)
	return out
}
