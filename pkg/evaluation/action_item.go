package evaluation

import "time"

// ActionStatus is the lifecycle state of an action item.
type ActionStatus string

const (
	ActionPending    ActionStatus = "Pendente"
	ActionInProgress ActionStatus = "Em Andamento"
	ActionDone       ActionStatus = "Concluído"
)

// Priority orders action items for follow-up.
type Priority string

const (
	PriorityHigh   Priority = "Alta"
	PriorityMedium Priority = "Média"
	PriorityLow    Priority = "Baixa"
)

// Responsible names who must carry out an action item.
type Responsible string

const (
	ResponsibleConsultant Responsible = "Consultor"
	ResponsibleSupervisor Responsible = "Supervisor"
)

// ActionKind distinguishes development plans from short follow-ups.
type ActionKind string

const (
	KindDevelopmentPlan ActionKind = "PDI"
	KindFollowUp        ActionKind = "FollowUp"
)

// ActionItem is a corrective task (PDI) owned by a consultant.
type ActionItem struct {
	ID                 string       `json:"id"`
	ConsultantName     string       `json:"consultant_name"`
	Title              string       `json:"title"`
	ActionPlan         string       `json:"action_plan"`
	Deadline           time.Time    `json:"deadline"`
	Status             ActionStatus `json:"status"`
	CreatedAt          time.Time    `json:"created_at"`
	Priority           Priority     `json:"priority"`
	Responsible        Responsible  `json:"responsible"`
	OriginEvaluationID string       `json:"origin_evaluation_id,omitempty"`
	Kind               ActionKind   `json:"kind"`
}

// ParseActionStatus validates a status string coming from a collaborator.
func ParseActionStatus(s string) (status ActionStatus, ok bool) {
	switch ActionStatus(s) {
	case ActionPending, ActionInProgress, ActionDone:
		status = ActionStatus(s)
		ok = true
	}
	return status, ok
}
