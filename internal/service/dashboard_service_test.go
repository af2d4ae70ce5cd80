package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sebit-insight/internal/cache"
	"github.com/spec-kit/sebit-insight/internal/domain"
)

func TestDashboardAggregates(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	f.dashboardSvc.now = func() time.Time { return time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC) }

	big := f.createProject(nil, func(in *ProjectInput) {
		in.Status = domain.ProjectStatusActive
		in.DepartmentIDs = []string{"d-dev", "d-infra"}
	})
	small := f.createProject(nil, func(in *ProjectInput) {
		in.ContractAmount = 20_000_000
		in.DepartmentIDs = []string{"d-infra"}
	})
	cancelled := f.createProject(nil, func(in *ProjectInput) { in.Status = domain.ProjectStatusCancelled })
	f.createProject(nil, func(in *ProjectInput) {
		in.StartDate, in.EndDate = "2022-01-01", "2022-12-31"
	})

	_, err := f.staffingSvc.Create(ctx, nil, big.ID, StaffingInput{ExternalName: strPtr("외부"), ManMonth: 2, MonthlyRate: ptrInt64(500)})
	require.NoError(t, err)
	_, err = f.expenseSvc.Create(ctx, nil, small.ID, ExpenseInput{Amount: 2_000_000, ExpenseDate: "2024-02-01"})
	require.NoError(t, err)
	s, err := f.settlementSvc.Create(ctx, nil, SettlementInput{ProjectID: big.ID, Period: "2024-03", Amount: 30_000_000})
	require.NoError(t, err)
	_, err = f.settlementSvc.ChangeStatus(ctx, nil, s.ID, domain.SettlementPaid)
	require.NoError(t, err)

	dash, err := f.dashboardSvc.Get(ctx, DashboardQuery{})
	require.NoError(t, err)

	assert.Equal(t, 2024, dash.Year)
	assert.Equal(t, 1, dash.StatusCounts[domain.ProjectStatusActive])
	assert.Equal(t, 1, dash.StatusCounts[domain.ProjectStatusDraft])
	assert.Equal(t, 1, dash.StatusCounts[domain.ProjectStatusCancelled])
	assert.Equal(t, 0, dash.StatusCounts[domain.ProjectStatusSettled])

	assert.Equal(t, 2, dash.Totals.ProjectCount)
	assert.Equal(t, 120_000_000.0, dash.Totals.ContractAmount)
	assert.Equal(t, 10_000_000.0, dash.Totals.LaborCost)
	assert.Equal(t, 2_000_000.0, dash.Totals.ExpenseCost)
	assert.Equal(t, 108_000_000.0, dash.Totals.OperatingProfit)
	assert.Equal(t, 90.0, dash.Totals.ProfitRate)

	require.Len(t, dash.Departments, 2)
	assert.Equal(t, "d-infra", dash.Departments[0].DepartmentID)
	assert.Equal(t, "인프라팀", dash.Departments[0].Name)
	assert.Equal(t, 2, dash.Departments[0].ProjectCount)

	require.Len(t, dash.MonthlySettlements, 12)
	assert.Equal(t, "2024-03", dash.MonthlySettlements[2].Period)
	assert.Equal(t, int64(30_000_000), dash.MonthlySettlements[2].Paid)
	assert.Zero(t, dash.MonthlySettlements[0].Amount)

	require.Len(t, dash.TopProjects, 2)
	assert.Equal(t, big.ID, dash.TopProjects[0].ID)
	for _, p := range dash.TopProjects {
		assert.NotEqual(t, cancelled.ID, p.ID)
	}
}

func TestDashboardDepartmentScope(t *testing.T) {
	f := newFixture()
	year := 2024
	f.createProject(nil, func(in *ProjectInput) { in.DepartmentIDs = []string{"d-dev", "d-infra"} })
	f.createProject(nil, func(in *ProjectInput) { in.DepartmentIDs = []string{"d-infra"} })

	dash, err := f.dashboardSvc.Get(context.Background(), DashboardQuery{Year: &year, DepartmentID: strPtr("d-dev")})
	require.NoError(t, err)
	assert.Equal(t, 1, dash.Totals.ProjectCount)
	require.Len(t, dash.Departments, 1)
	assert.Equal(t, "d-dev", dash.Departments[0].DepartmentID)
}

func TestDashboardRejectsOutOfRangeYear(t *testing.T) {
	f := newFixture()
	year := 1999
	_, err := f.dashboardSvc.Get(context.Background(), DashboardQuery{Year: &year})
	assert.Equal(t, "VALIDATION_FAILED", domainCode(err))
}

func TestDashboardCacheServesUntilDataChanges(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	svc := NewDashboardService(DashboardDependencies{
		ProjectRepo:    f.projects,
		StaffingRepo:   f.staffing,
		ExpenseRepo:    f.expenses,
		SettlementRepo: f.settlements,
		DepartmentRepo: f.departments,
		Cache:          cache.NewDashboardCache(client, time.Minute),
	})
	svc.now = func() time.Time { return time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC) }

	f.createProject(nil, nil)
	first, err := svc.Get(ctx, DashboardQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Totals.ProjectCount)

	// Written straight to the repository so no change event fires.
	require.NoError(t, f.projects.Create(ctx, &domain.Project{
		ID: "p-direct", Code: "P-DIRECT", Name: "direct", Type: domain.ProjectTypeSI,
		Status: domain.ProjectStatusDraft, ClientID: "c-hanbit", DepartmentIDs: []string{"d-dev"},
		ContractAmount: 1_000_000, StartDate: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate: time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC),
	}))
	cached, err := svc.Get(ctx, DashboardQuery{})
	require.NoError(t, err)
	assert.Equal(t, 1, cached.Totals.ProjectCount)

	require.NoError(t, svc.Invalidate(ctx))

	fresh, err := svc.Get(ctx, DashboardQuery{})
	require.NoError(t, err)
	assert.Equal(t, 2, fresh.Totals.ProjectCount)
}
