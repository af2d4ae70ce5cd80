package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/spec-kit/sebit-insight/internal/cache"
	"github.com/spec-kit/sebit-insight/internal/costcalc"
	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/repository"
	apperrors "github.com/spec-kit/sebit-insight/pkg/util"
)

const (
	dashboardProjectLimit = 10000
	dashboardTopProjects  = 5
)

// DashboardService aggregates portfolio figures for the dashboard.
type DashboardService struct {
	projects    repository.ProjectRepository
	staffing    repository.StaffingRepository
	expenses    repository.ExpenseRepository
	settlements repository.SettlementRepository
	departments repository.DepartmentRepository
	cache       *cache.DashboardCache
	logger      *zap.Logger
	now         func() time.Time
}

// DashboardDependencies bundles collaborators for the dashboard.
type DashboardDependencies struct {
	ProjectRepo    repository.ProjectRepository
	StaffingRepo   repository.StaffingRepository
	ExpenseRepo    repository.ExpenseRepository
	SettlementRepo repository.SettlementRepository
	DepartmentRepo repository.DepartmentRepository
	Cache          *cache.DashboardCache
	Logger         *zap.Logger
}

// DashboardQuery scopes the aggregation.
type DashboardQuery struct {
	Year         *int
	DepartmentID *string
}

// DashboardTotals are portfolio-wide sums.
type DashboardTotals struct {
	ProjectCount    int     `json:"project_count"`
	ContractAmount  float64 `json:"contract_amount"`
	LaborCost       float64 `json:"labor_cost"`
	ExpenseCost     float64 `json:"expense_cost"`
	OperatingProfit float64 `json:"operating_profit"`
	ProfitRate      float64 `json:"profit_rate"`
}

// DepartmentBreakdown sums the projects a department takes part in.
type DepartmentBreakdown struct {
	DepartmentID    string  `json:"department_id"`
	Name            string  `json:"name"`
	ProjectCount    int     `json:"project_count"`
	ContractAmount  float64 `json:"contract_amount"`
	TotalCost       float64 `json:"total_cost"`
	OperatingProfit float64 `json:"operating_profit"`
	ProfitRate      float64 `json:"profit_rate"`
}

// MonthlySettlement is one month of settled revenue.
type MonthlySettlement struct {
	Period string `json:"period"`
	Amount int64  `json:"amount"`
	Paid   int64  `json:"paid"`
}

// ProjectRanking is a row of the top-projects table.
type ProjectRanking struct {
	ID              string               `json:"id"`
	Code            string               `json:"code"`
	Name            string               `json:"name"`
	Status          domain.ProjectStatus `json:"status"`
	ContractAmount  float64              `json:"contract_amount"`
	OperatingProfit float64              `json:"operating_profit"`
	ProfitRate      float64              `json:"profit_rate"`
}

// Dashboard is the aggregated response.
type Dashboard struct {
	Year               int                          `json:"year"`
	DepartmentID       *string                      `json:"department_id,omitempty"`
	StatusCounts       map[domain.ProjectStatus]int `json:"status_counts"`
	Totals             DashboardTotals              `json:"totals"`
	Departments        []DepartmentBreakdown        `json:"departments"`
	MonthlySettlements []MonthlySettlement          `json:"monthly_settlements"`
	TopProjects        []ProjectRanking             `json:"top_projects"`
	GeneratedAt        time.Time                    `json:"generated_at"`
}

// NewDashboardService constructs the service.
func NewDashboardService(deps DashboardDependencies) *DashboardService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		projects:    deps.ProjectRepo,
		staffing:    deps.StaffingRepo,
		expenses:    deps.ExpenseRepo,
		settlements: deps.SettlementRepo,
		departments: deps.DepartmentRepo,
		cache:       deps.Cache,
		logger:      logger,
		now:         time.Now,
	}
}

// Get returns the dashboard, served from cache when possible.
func (s *DashboardService) Get(ctx context.Context, query DashboardQuery) (*Dashboard, error) {
	year := s.now().Year()
	if query.Year != nil {
		year = *query.Year
	}
	if year < 2000 || year > 2100 {
		return nil, fieldErrors{"year": "year must be between 2000 and 2100"}.err()
	}
	params := fmt.Sprintf("year=%d&department=%s", year, derefString(query.DepartmentID))

	// The slot is taken before aggregating so a change event raised
	// mid-aggregation orphans this write instead of being masked by it.
	var slot cache.Slot
	if s.cache.Enabled() {
		var cached Dashboard
		var hit bool
		var err error
		slot, hit, err = s.cache.Get(ctx, params, &cached)
		if err != nil {
			s.logger.Warn("dashboard cache read failed", zap.Error(err))
		} else if hit {
			return &cached, nil
		}
	}

	dash, err := s.aggregate(ctx, year, query.DepartmentID)
	if err != nil {
		return nil, err
	}

	if slot.Valid() {
		if err := s.cache.Set(ctx, slot, dash); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.Error(err))
		}
	}
	return dash, nil
}

// Invalidate drops every cached dashboard.
func (s *DashboardService) Invalidate(ctx context.Context) error {
	if !s.cache.Enabled() {
		return nil
	}
	return s.cache.Invalidate(ctx)
}

func (s *DashboardService) aggregate(ctx context.Context, year int, departmentID *string) (*Dashboard, error) {
	filter := repository.ProjectFilter{
		DepartmentID: departmentID,
		Year:         &year,
		Limit:        dashboardProjectLimit,
	}

	var (
		projects []domain.Project
		staffing []domain.Staffing
		expenses []domain.Expense
		monthly  []repository.MonthlySettlementTotal
		depts    []domain.Department
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		projects, err = s.projects.List(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		if staffing, err = s.staffing.ListByProjectFilter(gctx, filter); err != nil {
			return err
		}
		expenses, err = s.expenses.ListByProjectFilter(gctx, filter)
		return err
	})
	g.Go(func() error {
		var err error
		monthly, err = s.settlements.MonthlyTotals(gctx, year, departmentID)
		return err
	})
	g.Go(func() error {
		var err error
		depts, err = s.departments.List(gctx, true)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, apperrors.MapError(err)
	}

	dash := buildDashboard(projects, staffing, expenses, monthly, depts, departmentID)
	dash.Year = year
	dash.MonthlySettlements = fillMonths(year, monthly)
	dash.DepartmentID = departmentID
	dash.GeneratedAt = s.now().UTC()
	return dash, nil
}

func buildDashboard(projects []domain.Project, staffing []domain.Staffing, expenses []domain.Expense,
	monthly []repository.MonthlySettlementTotal, depts []domain.Department, departmentID *string) *Dashboard {
	staffingByProject := make(map[string][]domain.Staffing)
	for _, row := range staffing {
		staffingByProject[row.ProjectID] = append(staffingByProject[row.ProjectID], row)
	}
	expensesByProject := make(map[string][]domain.Expense)
	for _, row := range expenses {
		expensesByProject[row.ProjectID] = append(expensesByProject[row.ProjectID], row)
	}
	deptNames := make(map[string]string, len(depts))
	for _, d := range depts {
		deptNames[d.ID] = d.Name
	}

	dash := &Dashboard{
		StatusCounts:       make(map[domain.ProjectStatus]int),
		Departments:        []DepartmentBreakdown{},
		MonthlySettlements: []MonthlySettlement{},
		TopProjects:        []ProjectRanking{},
	}
	for _, status := range domain.ProjectStatuses() {
		dash.StatusCounts[status] = 0
	}

	byDept := make(map[string]*DepartmentBreakdown)
	var deptOrder []string
	rankings := make([]ProjectRanking, 0, len(projects))
	for i := range projects {
		p := &projects[i]
		dash.StatusCounts[p.Status]++
		if p.Status == domain.ProjectStatusCancelled {
			continue
		}
		res := costcalc.Calculate(costcalc.FromProject(p, staffingByProject[p.ID], expensesByProject[p.ID]))
		dash.Totals.ProjectCount++
		dash.Totals.ContractAmount += res.ContractAmount
		dash.Totals.LaborCost += res.TotalLabor
		dash.Totals.ExpenseCost += res.TotalExpense
		dash.Totals.OperatingProfit += res.OperatingProfit

		for _, deptID := range p.DepartmentIDs {
			if departmentID != nil && deptID != *departmentID {
				continue
			}
			entry, ok := byDept[deptID]
			if !ok {
				entry = &DepartmentBreakdown{DepartmentID: deptID, Name: deptNames[deptID]}
				byDept[deptID] = entry
				deptOrder = append(deptOrder, deptID)
			}
			entry.ProjectCount++
			entry.ContractAmount += res.ContractAmount
			entry.TotalCost += res.TotalCost
			entry.OperatingProfit += res.OperatingProfit
		}
		rankings = append(rankings, ProjectRanking{
			ID:              p.ID,
			Code:            p.Code,
			Name:            p.Name,
			Status:          p.Status,
			ContractAmount:  res.ContractAmount,
			OperatingProfit: res.OperatingProfit,
			ProfitRate:      res.ProfitRate,
		})
	}
	dash.Totals.ProfitRate = costcalc.ProfitRate(dash.Totals.OperatingProfit, dash.Totals.ContractAmount)

	for _, id := range deptOrder {
		entry := byDept[id]
		entry.ProfitRate = costcalc.ProfitRate(entry.OperatingProfit, entry.ContractAmount)
		dash.Departments = append(dash.Departments, *entry)
	}
	sort.SliceStable(dash.Departments, func(i, j int) bool {
		return dash.Departments[i].ContractAmount > dash.Departments[j].ContractAmount
	})

	sort.SliceStable(rankings, func(i, j int) bool {
		return rankings[i].ContractAmount > rankings[j].ContractAmount
	})
	if len(rankings) > dashboardTopProjects {
		rankings = rankings[:dashboardTopProjects]
	}
	dash.TopProjects = rankings
	return dash
}

// fillMonths returns twelve entries so the chart has no gaps.
func fillMonths(year int, totals []repository.MonthlySettlementTotal) []MonthlySettlement {
	byPeriod := make(map[string]repository.MonthlySettlementTotal, len(totals))
	for _, t := range totals {
		byPeriod[t.Period] = t
	}
	out := make([]MonthlySettlement, 0, 12)
	for month := 1; month <= 12; month++ {
		period := fmt.Sprintf("%04d-%02d", year, month)
		t := byPeriod[period]
		out = append(out, MonthlySettlement{Period: period, Amount: t.Amount, Paid: t.Paid})
	}
	return out
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
