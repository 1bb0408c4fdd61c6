package evaluation

import "time"

// Answer is the reply recorded for a single rubric question.
type Answer string

const (
	AnswerYes           Answer = "Sim"
	AnswerNo            Answer = "Não"
	AnswerNotApplicable Answer = "N/A"
)

// Criticality is the qualitative label derived from the final score.
type Criticality string

const (
	CriticalityExcellent Criticality = "ÓTIMO"
	CriticalityGood      Criticality = "BOM"
	CriticalityFair      Criticality = "REGULAR"
	CriticalityCritical  Criticality = "CRÍTICO"
)

// FeedbackStatus tracks whether the consultant has seen the feedback.
type FeedbackStatus string

const (
	FeedbackPending      FeedbackStatus = "Pendente"
	FeedbackApplied      FeedbackStatus = "Aplicado"
	FeedbackAcknowledged FeedbackStatus = "Ciente"
)

// WorkflowStatus is the review stage of an evaluation.
type WorkflowStatus string

const (
	WorkflowMonitored          WorkflowStatus = "Monitorado"
	WorkflowReviewed           WorkflowStatus = "Revisado"
	WorkflowAwaitingEvidence   WorkflowStatus = "Aguardando evidência"
	WorkflowAwaitingConsultant WorkflowStatus = "Aguardando consultor"
	WorkflowAwaitingSupervisor WorkflowStatus = "Aguardando supervisão"
)

//nolint:gochecknoglobals // Workflow configuration constants
var WorkflowStatuses = []WorkflowStatus{
	WorkflowMonitored,
	WorkflowReviewed,
	WorkflowAwaitingEvidence,
	WorkflowAwaitingConsultant,
	WorkflowAwaitingSupervisor,
}

// KnownWorkflowStatus reports whether s is one of the configured workflow stages.
func KnownWorkflowStatus(s string) (ok bool) {
	for _, known := range WorkflowStatuses {
		if string(known) == s {
			ok = true
			return ok
		}
	}
	return ok
}

// Evaluation is one scored quality review of a customer contact.
type Evaluation struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Date is the contact date at 00:00 UTC.
	Date      time.Time `json:"date"`
	Timestamp string    `json:"timestamp,omitempty"` // raw "Carimbo de data/hora"
	Month     string    `json:"month"`
	Week      int       `json:"week"`
	Year      int       `json:"year"`

	ConsultantName string `json:"consultant_name"`
	MonitorName    string `json:"monitor_name,omitempty"`
	SupervisorName string `json:"supervisor_name,omitempty"`
	Center         string `json:"center,omitempty"`
	Base           string `json:"base,omitempty"`
	Shift          string `json:"shift,omitempty"`
	Cycle          string `json:"cycle,omitempty"`
	Channel        string `json:"channel,omitempty"`
	ContactLink    string `json:"contact_link,omitempty"`

	SaleEffective bool   `json:"sale_effective"`
	NoSaleReason  string `json:"no_sale_reason,omitempty"`

	Answers map[string]Answer `json:"answers"`

	HasCriticalFailure    bool               `json:"has_critical_failure"`
	CriticalFailureReason string             `json:"critical_failure_reason,omitempty"`
	SectionScores         map[string]float64 `json:"section_scores"`
	FinalScore            float64            `json:"final_score"`
	Criticality           Criticality        `json:"criticality"`

	Notes string `json:"notes,omitempty"`
	Pros  string `json:"pros,omitempty"`
	Cons  string `json:"cons,omitempty"`

	FeedbackStatus FeedbackStatus `json:"feedback_status"`
	Status         WorkflowStatus `json:"status"`
	AcknowledgedAt *time.Time     `json:"acknowledged_at,omitempty"`
	AIFeedback     string         `json:"ai_feedback,omitempty"`
}
