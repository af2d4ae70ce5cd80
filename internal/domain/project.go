package domain

import "time"

// ProjectType distinguishes one-time builds from recurring maintenance.
type ProjectType string

const (
	ProjectTypeSI ProjectType = "SI"
	ProjectTypeSM ProjectType = "SM"
)

// Valid reports whether t is a known project type.
func (t ProjectType) Valid() bool {
	return t == ProjectTypeSI || t == ProjectTypeSM
}

// ProjectStatus enumerates lifecycle states for projects.
type ProjectStatus string

const (
	ProjectStatusDraft             ProjectStatus = "draft"
	ProjectStatusActive            ProjectStatus = "active"
	ProjectStatusSettlementPending ProjectStatus = "settlement_pending"
	ProjectStatusSettled           ProjectStatus = "settled"
	ProjectStatusOnHold            ProjectStatus = "on_hold"
	ProjectStatusCancelled         ProjectStatus = "cancelled"
)

var projectTransitions = map[ProjectStatus][]ProjectStatus{
	ProjectStatusDraft:             {ProjectStatusActive, ProjectStatusCancelled},
	ProjectStatusActive:            {ProjectStatusSettlementPending, ProjectStatusOnHold, ProjectStatusCancelled},
	ProjectStatusOnHold:            {ProjectStatusActive, ProjectStatusCancelled},
	ProjectStatusSettlementPending: {ProjectStatusSettled, ProjectStatusActive},
	ProjectStatusSettled:           {},
	ProjectStatusCancelled:         {},
}

var projectStatusLabels = map[ProjectStatus]string{
	ProjectStatusDraft:             "초안",
	ProjectStatusActive:            "진행중",
	ProjectStatusSettlementPending: "정산대기",
	ProjectStatusSettled:           "정산완료",
	ProjectStatusOnHold:            "보류",
	ProjectStatusCancelled:         "취소",
}

// Label returns the Korean display label, or the raw code when unknown.
func (s ProjectStatus) Label() string {
	if l, ok := projectStatusLabels[s]; ok {
		return l
	}
	return string(s)
}

// Valid reports whether s is a known project status.
func (s ProjectStatus) Valid() bool {
	_, ok := projectTransitions[s]
	return ok
}

// Terminal reports whether no further changes are accepted in s.
func (s ProjectStatus) Terminal() bool {
	return s == ProjectStatusSettled || s == ProjectStatusCancelled
}

// CanTransition reports whether a project may move from s to next.
func (s ProjectStatus) CanTransition(next ProjectStatus) bool {
	for _, candidate := range projectTransitions[s] {
		if candidate == next {
			return true
		}
	}
	return false
}

// ProjectStatuses lists all statuses in display order.
func ProjectStatuses() []ProjectStatus {
	return []ProjectStatus{
		ProjectStatusDraft,
		ProjectStatusActive,
		ProjectStatusSettlementPending,
		ProjectStatusSettled,
		ProjectStatusOnHold,
		ProjectStatusCancelled,
	}
}

// PaymentSchedule is one installment of the contract amount.
type PaymentSchedule struct {
	Label   string `json:"label"`
	DueDate string `json:"due_date"`
	Amount  int64  `json:"amount"`
}

// Project is the aggregate tracked for profitability.
type Project struct {
	ID               string
	Code             string
	Name             string
	Type             ProjectType
	Status           ProjectStatus
	ClientID         string
	DepartmentIDs    []string
	SalesRepID       *string
	PMEmployeeID     *string
	PMExternalName   *string
	ContractAmount   int64
	StartDate        time.Time
	EndDate          time.Time
	Description      string
	PaymentSchedules []PaymentSchedule
	CreatedBy        *string
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// PaymentScheduleTotal sums the scheduled installments.
func (p *Project) PaymentScheduleTotal() int64 {
	var total int64
	for _, schedule := range p.PaymentSchedules {
		total += schedule.Amount
	}
	return total
}
