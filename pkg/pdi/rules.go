package pdi

import "github.com/RVSV1104/qualitrack/pkg/evaluation"

// Trigger names for the action-item rules.
const (
	TriggerLowScore             = "LOW_SCORE"
	TriggerSectionBlock         = "SECTION_BLOCK"
	TriggerCriticalFailure      = "CRITICAL_FAILURE"
	TriggerRepeatedFailure      = "REPEATED_FAILURE"
	TriggerRecurrentDisinterest = "RECURRENT_DISINTEREST"
)

// GenericDisinterestReason is the no-sale reason watched by the recurrence rule.
const GenericDisinterestReason = "Desinteresse genérico (resposta vaga)"

const (
	// LowScoreThreshold is the final score below which a performance plan is opened.
	LowScoreThreshold = 80.0
	// SectionBlockThreshold is the section percentage below which a competence plan is opened.
	SectionBlockThreshold = 60.0
	// RepeatWindow is how many of the latest evaluations must all miss the same question.
	RepeatWindow = 3
	// DisinterestRecurrence is how many earlier evaluations must share the generic reason.
	DisinterestRecurrence = 2
	// repeatTitleLen is how much of the question text goes into a repetition title.
	repeatTitleLen = 30
)

// Rule describes what a trigger produces when it fires.
type Rule struct {
	Name         string
	IDPrefix     string
	Priority     evaluation.Priority
	Responsible  evaluation.Responsible
	Kind         evaluation.ActionKind
	DeadlineDays int
	Title        string // may contain one %s verb
	ActionPlan   string // fmt template, see Engine for its arguments
}

//nolint:gochecknoglobals // Action-item configuration constants
var Rules = map[string]Rule{
	TriggerLowScore: {
		Name:         TriggerLowScore,
		IDPrefix:     "auto-score",
		Priority:     evaluation.PriorityHigh,
		Responsible:  evaluation.ResponsibleSupervisor,
		Kind:         evaluation.KindDevelopmentPlan,
		DeadlineDays: 7,
		Title:        "Performance: Nota Abaixo de 80%",
		ActionPlan:   "Revisar técnicas de negociação e realizar treinamento de contorno de objeções.",
	},
	TriggerSectionBlock: {
		Name:         TriggerSectionBlock,
		IDPrefix:     "auto-block",
		Priority:     evaluation.PriorityMedium,
		Responsible:  evaluation.ResponsibleConsultant,
		Kind:         evaluation.KindDevelopmentPlan,
		DeadlineDays: 7,
		Title:        "Melhoria em Competência: %s",
		ActionPlan:   "Realizar plano de recuperação focado em %s (Nota atual: %.0f%%). Revisar materiais e agendar monitoria de acompanhamento.",
	},
	TriggerCriticalFailure: {
		Name:         TriggerCriticalFailure,
		IDPrefix:     "auto-crit",
		Priority:     evaluation.PriorityHigh,
		Responsible:  evaluation.ResponsibleSupervisor,
		Kind:         evaluation.KindFollowUp,
		DeadlineDays: 1,
		Title:        "FALHA GRAVE: Plano de Correção Imediata",
		ActionPlan:   "Feedback obrigatório sobre: %s. Monitoria de acompanhamento em 24h.",
	},
	TriggerRepeatedFailure: {
		Name:         TriggerRepeatedFailure,
		IDPrefix:     "auto-repeat",
		Priority:     evaluation.PriorityHigh,
		Responsible:  evaluation.ResponsibleSupervisor,
		Kind:         evaluation.KindDevelopmentPlan,
		DeadlineDays: 7,
		Title:        "Reincidência de Erro: %s...",
		ActionPlan:   "O consultor perdeu pontos neste item por 3 vezes seguidas. Treino específico de \"%s\" + Role Play obrigatório.",
	},
	TriggerRecurrentDisinterest: {
		Name:         TriggerRecurrentDisinterest,
		IDPrefix:     "auto-reason-desinterest",
		Priority:     evaluation.PriorityMedium,
		Responsible:  evaluation.ResponsibleConsultant,
		Kind:         evaluation.KindDevelopmentPlan,
		DeadlineDays: 7,
		Title:        "Recorrência: Desinteresse Genérico",
		ActionPlan:   "Treinamento intensivo de Criação de Valor e Gatilhos de Urgência. Revisar abordagem inicial.",
	},
}
