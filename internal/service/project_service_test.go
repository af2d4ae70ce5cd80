package service

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/sebit-insight/internal/costcalc"
	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/events"
)

func TestProjectCreate_DefaultsAndCode(t *testing.T) {
	f := newFixture()
	manager := f.addUser("mgr", domain.RoleManager)

	project, err := f.projectSvc.Create(context.Background(), manager, validProjectInput(), SourceWizard)
	require.NoError(t, err)

	assert.Equal(t, domain.ProjectStatusDraft, project.Status)
	assert.Regexp(t, regexp.MustCompile(`^PRJ-2024-[0-9A-F]{6}$`), project.Code)
	require.NotNil(t, project.CreatedBy)
	assert.Equal(t, "mgr", *project.CreatedBy)
	assert.Equal(t, []events.EventType{events.EventProjectCreated}, f.dispatcher.types())
	require.Len(t, f.history.items, 1)
	assert.Equal(t, domain.ChangeTypeCreated, f.history.items[0].ChangeType)
}

func TestProjectCreate_Validation(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*ProjectInput)
		field  string
	}{
		{"missing name", func(in *ProjectInput) { in.Name = "  " }, "name"},
		{"bad type", func(in *ProjectInput) { in.Type = "XX" }, "type"},
		{"no departments", func(in *ProjectInput) { in.DepartmentIDs = nil }, "department_ids"},
		{"negative amount", func(in *ProjectInput) { in.ContractAmount = -1 }, "contract_amount"},
		{"bad start", func(in *ProjectInput) { in.StartDate = "2024/01/01" }, "start_date"},
		{"end before start", func(in *ProjectInput) { in.EndDate = "2023-12-31" }, "end_date"},
		{"unknown department", func(in *ProjectInput) { in.DepartmentIDs = []string{"d-missing"} }, "department_ids"},
		{"unknown client", func(in *ProjectInput) { in.ClientID = "c-missing" }, "client_id"},
		{"unknown sales rep", func(in *ProjectInput) { in.SalesRepID = strPtr("e-missing") }, "sales_rep_id"},
		{"schedule sum mismatch", func(in *ProjectInput) {
			in.PaymentSchedules = []domain.PaymentSchedule{{Label: "착수금", Amount: 30_000_000}}
		}, "payment_schedules"},
		{"schedule non-positive", func(in *ProjectInput) {
			in.PaymentSchedules = []domain.PaymentSchedule{{Amount: 100_000_000}, {Amount: 0}}
		}, "payment_schedules"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture()
			input := validProjectInput()
			tc.mutate(&input)
			_, err := f.projectSvc.Create(context.Background(), nil, input, SourceWizard)
			require.Error(t, err)
			assert.Equal(t, "VALIDATION_FAILED", domainCode(err))
			assert.Contains(t, fieldsOf(err), tc.field)
			assert.Empty(t, f.projects.items)
		})
	}
}

func TestProjectCreate_PaymentSchedulesMatchingContract(t *testing.T) {
	f := newFixture()
	project := f.createProject(nil, func(in *ProjectInput) {
		in.PaymentSchedules = []domain.PaymentSchedule{
			{Label: "착수금", DueDate: "2024-01-31", Amount: 30_000_000},
			{Label: "잔금", DueDate: "2024-12-31", Amount: 70_000_000},
		}
	})
	assert.Equal(t, project.ContractAmount, project.PaymentScheduleTotal())
}

func TestProjectCreate_PMEmployeeWinsOverExternalName(t *testing.T) {
	f := newFixture()
	project := f.createProject(nil, func(in *ProjectInput) {
		in.PMEmployeeID = strPtr("e-kim")
		in.PMExternalName = strPtr("홍길동")
	})
	assert.Equal(t, "e-kim", *project.PMEmployeeID)
	assert.Nil(t, project.PMExternalName)
}

func TestProjectChangeStatus(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	project := f.createProject(nil, nil)

	_, err := f.projectSvc.ChangeStatus(ctx, nil, project.ID, domain.ProjectStatusSettled, "")
	assert.Equal(t, "CONFLICT", domainCode(err))

	updated, err := f.projectSvc.ChangeStatus(ctx, nil, project.ID, domain.ProjectStatusActive, "계약 체결")
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectStatusActive, updated.Status)

	history, err := f.projectSvc.History(ctx, project.ID, Page{})
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, domain.ChangeTypeStatus, history[0].ChangeType)
	assert.Equal(t, domain.ProjectStatusDraft, history[0].OldValue["status"])
	assert.Equal(t, "계약 체결", history[0].NewValue["comment"])

	_, err = f.projectSvc.ChangeStatus(ctx, nil, project.ID, "finished", "")
	assert.Equal(t, "VALIDATION_FAILED", domainCode(err))
}

func TestProjectChangeStatus_HistoryFailureIsReported(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	core, logs := observer.New(zap.ErrorLevel)
	f.projectSvc.logger = zap.New(core)
	project := f.createProject(nil, nil)

	f.history.failErr = errors.New("connection reset")
	_, err := f.projectSvc.ChangeStatus(ctx, nil, project.ID, domain.ProjectStatusActive, "")
	require.Error(t, err)
	assert.Equal(t, "INTERNAL_ERROR", domainCode(err))

	entries := logs.FilterMessage("project history write failed").All()
	require.Len(t, entries, 1)
	assert.Equal(t, project.ID, entries[0].ContextMap()["project_id"])
	assert.Equal(t, string(domain.ChangeTypeStatus), entries[0].ContextMap()["change_type"])
	assert.Contains(t, f.dispatcher.types(), events.EventProjectStatusChanged)
}

func TestProjectUpdate_KeepsStatusAndRejectsTerminal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	project := f.createProject(nil, nil)
	_, err := f.projectSvc.ChangeStatus(ctx, nil, project.ID, domain.ProjectStatusActive, "")
	require.NoError(t, err)

	input := validProjectInput()
	input.Name = "차세대 ERP 2차"
	input.Status = domain.ProjectStatusSettled
	updated, err := f.projectSvc.Update(ctx, nil, project.ID, input)
	require.NoError(t, err)
	assert.Equal(t, "차세대 ERP 2차", updated.Name)
	assert.Equal(t, domain.ProjectStatusActive, updated.Status)
	assert.Equal(t, project.Code, updated.Code)

	_, err = f.projectSvc.ChangeStatus(ctx, nil, project.ID, domain.ProjectStatusCancelled, "")
	require.NoError(t, err)
	_, err = f.projectSvc.Update(ctx, nil, project.ID, input)
	assert.Equal(t, "CONFLICT", domainCode(err))
}

func TestProjectDelete_OnlyDraftOrCancelled(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	draft := f.createProject(nil, nil)
	active := f.createProject(nil, func(in *ProjectInput) { in.Status = domain.ProjectStatusActive })

	require.NoError(t, f.projectSvc.Delete(ctx, nil, draft.ID))
	_, err := f.projectSvc.Get(ctx, draft.ID)
	assert.Equal(t, "NOT_FOUND", domainCode(err))

	assert.Equal(t, "CONFLICT", domainCode(f.projectSvc.Delete(ctx, nil, active.ID)))
	_, err = f.projectSvc.ChangeStatus(ctx, nil, active.ID, domain.ProjectStatusCancelled, "")
	require.NoError(t, err)
	assert.NoError(t, f.projectSvc.Delete(ctx, nil, active.ID))
}

func TestProjectDetail_CostSummary(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	project := f.createProject(nil, func(in *ProjectInput) { in.Status = domain.ProjectStatusActive })

	rate := int64(500)
	_, err := f.staffingSvc.Create(ctx, nil, project.ID, StaffingInput{ExternalName: strPtr("외주 개발자"), ManMonth: 2, MonthlyRate: &rate})
	require.NoError(t, err)

	detail, err := f.projectSvc.Detail(ctx, project.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Staffing, 1)
	assert.Equal(t, 10_000_000.0, detail.Cost.TotalLabor)
	assert.Equal(t, 90_000_000.0, detail.Cost.OperatingProfit)
	assert.Equal(t, 90.0, detail.Cost.ProfitRate)
}

func TestProjectList_FiltersAndTotal(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		f.createProject(nil, nil)
	}
	f.createProject(nil, func(in *ProjectInput) {
		in.DepartmentIDs = []string{"d-infra"}
		in.Type = domain.ProjectTypeSM
	})

	list, err := f.projectSvc.List(ctx, ProjectListFilters{Page: Page{Page: 1, PageSize: 2}})
	require.NoError(t, err)
	assert.Len(t, list.Projects, 2)
	assert.Equal(t, 4, list.Total)

	sm := domain.ProjectTypeSM
	list, err = f.projectSvc.List(ctx, ProjectListFilters{Type: &sm})
	require.NoError(t, err)
	assert.Equal(t, 1, list.Total)

	_, err = f.projectSvc.List(ctx, ProjectListFilters{Statuses: []domain.ProjectStatus{"bogus"}})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(err))
}

func TestEstimateCost(t *testing.T) {
	res, err := EstimateCost(costcalc.Input{
		ContractAmount: 100_000_000,
		Staffing:       []costcalc.StaffingLine{{ManMonth: 2, MonthlyRate: 500}},
	})
	require.NoError(t, err)
	assert.Equal(t, 90.0, res.ProfitRate)

	_, err = EstimateCost(costcalc.Input{Expenses: []costcalc.ExpenseLine{{Amount: -5}}})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(err))
}
