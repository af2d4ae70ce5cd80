package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/events"
	"github.com/spec-kit/sebit-insight/internal/repository"
	apperrors "github.com/spec-kit/sebit-insight/pkg/util"
)

var idSeq struct {
	sync.Mutex
	n int
}

func nextID(prefix string) string {
	idSeq.Lock()
	defer idSeq.Unlock()
	idSeq.n++
	return fmt.Sprintf("%s-%d", prefix, idSeq.n)
}

func uniqueViolation() error {
	return apperrors.NewConflict("resource already exists", nil)
}

type fakeUsers struct {
	mu    sync.Mutex
	items map[string]*domain.User
}

func newFakeUsers(users ...*domain.User) *fakeUsers {
	f := &fakeUsers{items: map[string]*domain.User{}}
	for _, u := range users {
		f.items[u.ID] = u
	}
	return f
}

func (f *fakeUsers) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, existing := range f.items {
		if strings.EqualFold(existing.Email, user.Email) {
			return uniqueViolation()
		}
	}
	user.ID = nextID("user")
	user.CreatedAt = time.Now()
	cp := *user
	f.items[user.ID] = &cp
	return nil
}

func (f *fakeUsers) Update(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.items[user.ID]; !ok {
		return repository.ErrNoRows
	}
	cp := *user
	f.items[user.ID] = &cp
	return nil
}

func (f *fakeUsers) GetByID(_ context.Context, id string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.items[id]
	if !ok {
		return nil, repository.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (f *fakeUsers) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.items {
		if strings.EqualFold(u.Email, email) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (f *fakeUsers) List(_ context.Context, filter repository.UserFilter) ([]domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.User
	for _, u := range f.items {
		if filter.Role != nil && u.Role != *filter.Role {
			continue
		}
		if filter.Active != nil && u.IsActive != *filter.Active {
			continue
		}
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out, nil
}

type fakeResets struct {
	mu    sync.Mutex
	items map[string]*domain.PasswordResetToken
}

func newFakeResets() *fakeResets {
	return &fakeResets{items: map[string]*domain.PasswordResetToken{}}
}

func (f *fakeResets) Create(_ context.Context, token *domain.PasswordResetToken) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	token.ID = nextID("reset")
	cp := *token
	f.items[token.Token] = &cp
	return nil
}

func (f *fakeResets) GetByToken(_ context.Context, token string) (*domain.PasswordResetToken, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	t, ok := f.items[token]
	if !ok {
		return nil, repository.ErrNoRows
	}
	cp := *t
	return &cp, nil
}

func (f *fakeResets) MarkUsed(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.items {
		if t.ID == id && t.UsedAt == nil {
			now := time.Now()
			t.UsedAt = &now
			return nil
		}
	}
	return repository.ErrNoRows
}

type fakeDepartments struct {
	mu    sync.Mutex
	items []*domain.Department
}

func newFakeDepartments(depts ...domain.Department) *fakeDepartments {
	f := &fakeDepartments{}
	for i := range depts {
		d := depts[i]
		f.items = append(f.items, &d)
	}
	return f
}

func (f *fakeDepartments) Create(_ context.Context, dept *domain.Department) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.items {
		if strings.EqualFold(d.Name, dept.Name) {
			return uniqueViolation()
		}
	}
	dept.ID = nextID("dept")
	cp := *dept
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeDepartments) Update(_ context.Context, dept *domain.Department) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, d := range f.items {
		if d.ID == dept.ID {
			cp := *dept
			f.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNoRows
}

func (f *fakeDepartments) GetByID(_ context.Context, id string) (*domain.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, d := range f.items {
		if d.ID == id {
			cp := *d
			return &cp, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (f *fakeDepartments) List(_ context.Context, includeInactive bool) ([]domain.Department, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Department
	for _, d := range f.items {
		if d.IsActive || includeInactive {
			out = append(out, *d)
		}
	}
	return out, nil
}

type fakeClients struct {
	mu      sync.Mutex
	items   []*domain.Client
	created int
}

func newFakeClients(clients ...domain.Client) *fakeClients {
	f := &fakeClients{}
	for i := range clients {
		c := clients[i]
		f.items = append(f.items, &c)
	}
	return f
}

func (f *fakeClients) Create(_ context.Context, client *domain.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if strings.EqualFold(c.Name, client.Name) {
			return uniqueViolation()
		}
	}
	client.ID = nextID("client")
	cp := *client
	f.items = append(f.items, &cp)
	f.created++
	return nil
}

func (f *fakeClients) Update(_ context.Context, client *domain.Client) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.items {
		if c.ID == client.ID {
			cp := *client
			f.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNoRows
}

func (f *fakeClients) GetByID(_ context.Context, id string) (*domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (f *fakeClients) GetByName(_ context.Context, name string) (*domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if strings.EqualFold(c.Name, name) {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (f *fakeClients) List(_ context.Context, filter repository.ClientFilter) ([]domain.Client, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Client
	for _, c := range f.items {
		if c.IsActive || filter.IncludeInactive {
			out = append(out, *c)
		}
	}
	return out, nil
}

type fakeEmployees struct {
	mu    sync.Mutex
	items []*domain.Employee
}

func newFakeEmployees(emps ...domain.Employee) *fakeEmployees {
	f := &fakeEmployees{}
	for i := range emps {
		e := emps[i]
		f.items = append(f.items, &e)
	}
	return f
}

func (f *fakeEmployees) Create(_ context.Context, emp *domain.Employee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	emp.ID = nextID("emp")
	cp := *emp
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeEmployees) Update(_ context.Context, emp *domain.Employee) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, e := range f.items {
		if e.ID == emp.ID {
			cp := *emp
			f.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNoRows
}

func (f *fakeEmployees) GetByID(_ context.Context, id string) (*domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, e := range f.items {
		if e.ID == id {
			cp := *e
			return &cp, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (f *fakeEmployees) List(_ context.Context, filter repository.EmployeeFilter) ([]domain.Employee, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Employee
	for _, e := range f.items {
		if !e.IsActive && !filter.IncludeInactive {
			continue
		}
		if filter.DepartmentID != nil && (e.DepartmentID == nil || *e.DepartmentID != *filter.DepartmentID) {
			continue
		}
		out = append(out, *e)
	}
	return out, nil
}

type fakeRateCards struct {
	mu    sync.Mutex
	items []*domain.RateCard
}

func newFakeRateCards(cards ...domain.RateCard) *fakeRateCards {
	f := &fakeRateCards{}
	for i := range cards {
		c := cards[i]
		f.items = append(f.items, &c)
	}
	return f
}

func (f *fakeRateCards) Create(_ context.Context, card *domain.RateCard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.IsActive && card.IsActive && strings.EqualFold(c.Grade, card.Grade) && c.Year == card.Year {
			return uniqueViolation()
		}
	}
	card.ID = nextID("rate")
	cp := *card
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeRateCards) Update(_ context.Context, card *domain.RateCard) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, c := range f.items {
		if c.ID == card.ID {
			cp := *card
			f.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNoRows
}

func (f *fakeRateCards) GetByID(_ context.Context, id string) (*domain.RateCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.ID == id {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (f *fakeRateCards) List(_ context.Context, filter repository.RateCardFilter) ([]domain.RateCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.RateCard
	for _, c := range f.items {
		if filter.Year != nil && c.Year != *filter.Year {
			continue
		}
		if c.IsActive || filter.IncludeInactive {
			out = append(out, *c)
		}
	}
	return out, nil
}

func (f *fakeRateCards) FindActive(_ context.Context, grade string, year int) (*domain.RateCard, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, c := range f.items {
		if c.IsActive && strings.EqualFold(c.Grade, grade) && c.Year == year {
			cp := *c
			return &cp, nil
		}
	}
	return nil, repository.ErrNoRows
}

type fakeProjects struct {
	mu    sync.Mutex
	items []*domain.Project
}

func (f *fakeProjects) Create(_ context.Context, project *domain.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	project.ID = nextID("prj")
	project.CreatedAt = time.Now()
	cp := *project
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeProjects) Update(_ context.Context, project *domain.Project) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.items {
		if p.ID == project.ID {
			cp := *project
			f.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNoRows
}

func (f *fakeProjects) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.items {
		if p.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNoRows
}

func (f *fakeProjects) GetByID(_ context.Context, id string) (*domain.Project, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.items {
		if p.ID == id {
			cp := *p
			return &cp, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (f *fakeProjects) matching(filter repository.ProjectFilter) []domain.Project {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Project
	for _, p := range f.items {
		if len(filter.Statuses) > 0 && !containsStatus(filter.Statuses, p.Status) {
			continue
		}
		if filter.Type != nil && p.Type != *filter.Type {
			continue
		}
		if filter.DepartmentID != nil && !containsID(p.DepartmentIDs, *filter.DepartmentID) {
			continue
		}
		if filter.ClientID != nil && p.ClientID != *filter.ClientID {
			continue
		}
		if filter.Year != nil && (p.StartDate.Year() > *filter.Year || p.EndDate.Year() < *filter.Year) {
			continue
		}
		if filter.SearchTerm != nil && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(*filter.SearchTerm)) {
			continue
		}
		out = append(out, *p)
	}
	return out
}

func (f *fakeProjects) List(_ context.Context, filter repository.ProjectFilter) ([]domain.Project, error) {
	out := f.matching(filter)
	if filter.Offset >= len(out) {
		return nil, nil
	}
	out = out[filter.Offset:]
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakeProjects) Count(_ context.Context, filter repository.ProjectFilter) (int, error) {
	return len(f.matching(filter)), nil
}

func (f *fakeProjects) ids(filter repository.ProjectFilter) map[string]bool {
	set := map[string]bool{}
	for _, p := range f.matching(filter) {
		set[p.ID] = true
	}
	return set
}

func containsStatus(list []domain.ProjectStatus, s domain.ProjectStatus) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func containsID(list []string, id string) bool {
	for _, item := range list {
		if item == id {
			return true
		}
	}
	return false
}

type fakeHistory struct {
	mu      sync.Mutex
	items   []domain.ProjectHistory
	failErr error
}

func (f *fakeHistory) Create(_ context.Context, h *domain.ProjectHistory) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.failErr != nil {
		return f.failErr
	}
	h.ID = nextID("hist")
	f.items = append(f.items, *h)
	return nil
}

func (f *fakeHistory) ListByProject(_ context.Context, projectID string, limit, offset int) ([]domain.ProjectHistory, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.ProjectHistory
	for i := len(f.items) - 1; i >= 0; i-- {
		if f.items[i].ProjectID == projectID {
			out = append(out, f.items[i])
		}
	}
	return out, nil
}

type fakeStaffing struct {
	mu       sync.Mutex
	items    []*domain.Staffing
	projects *fakeProjects
}

func (f *fakeStaffing) Create(_ context.Context, s *domain.Staffing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s.ID = nextID("stf")
	cp := *s
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeStaffing) Update(_ context.Context, s *domain.Staffing) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, item := range f.items {
		if item.ID == s.ID {
			cp := *s
			f.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNoRows
}

func (f *fakeStaffing) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, item := range f.items {
		if item.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNoRows
}

func (f *fakeStaffing) GetByID(_ context.Context, id string) (*domain.Staffing, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.ID == id {
			cp := *item
			return &cp, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (f *fakeStaffing) ListByProject(_ context.Context, projectID string) ([]domain.Staffing, error) {
	return f.filter(map[string]bool{projectID: true}), nil
}

func (f *fakeStaffing) ListByProjectFilter(_ context.Context, filter repository.ProjectFilter) ([]domain.Staffing, error) {
	filter.Limit, filter.Offset = 0, 0
	return f.filter(f.projects.ids(filter)), nil
}

func (f *fakeStaffing) filter(ids map[string]bool) []domain.Staffing {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Staffing
	for _, item := range f.items {
		if ids[item.ProjectID] {
			out = append(out, *item)
		}
	}
	return out
}

type fakeExpenses struct {
	mu       sync.Mutex
	items    []*domain.Expense
	projects *fakeProjects
}

func (f *fakeExpenses) Create(_ context.Context, e *domain.Expense) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	e.ID = nextID("exp")
	cp := *e
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeExpenses) Update(_ context.Context, e *domain.Expense) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, item := range f.items {
		if item.ID == e.ID {
			cp := *e
			f.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNoRows
}

func (f *fakeExpenses) Delete(_ context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, item := range f.items {
		if item.ID == id {
			f.items = append(f.items[:i], f.items[i+1:]...)
			return nil
		}
	}
	return repository.ErrNoRows
}

func (f *fakeExpenses) GetByID(_ context.Context, id string) (*domain.Expense, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.ID == id {
			cp := *item
			return &cp, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (f *fakeExpenses) ListByProject(_ context.Context, projectID string) ([]domain.Expense, error) {
	return f.filter(map[string]bool{projectID: true}), nil
}

func (f *fakeExpenses) ListByProjectFilter(_ context.Context, filter repository.ProjectFilter) ([]domain.Expense, error) {
	filter.Limit, filter.Offset = 0, 0
	return f.filter(f.projects.ids(filter)), nil
}

func (f *fakeExpenses) filter(ids map[string]bool) []domain.Expense {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Expense
	for _, item := range f.items {
		if ids[item.ProjectID] {
			out = append(out, *item)
		}
	}
	return out
}

type fakeSettlements struct {
	mu    sync.Mutex
	items []*domain.Settlement
}

func (f *fakeSettlements) Create(_ context.Context, s *domain.Settlement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.ProjectID == s.ProjectID && item.Period == s.Period {
			return uniqueViolation()
		}
	}
	s.ID = nextID("stl")
	cp := *s
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakeSettlements) Update(_ context.Context, s *domain.Settlement) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, item := range f.items {
		if item.ID == s.ID {
			cp := *s
			f.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNoRows
}

func (f *fakeSettlements) GetByID(_ context.Context, id string) (*domain.Settlement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.ID == id {
			cp := *item
			return &cp, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (f *fakeSettlements) List(_ context.Context, filter repository.SettlementFilter) ([]domain.Settlement, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.Settlement
	for _, item := range f.items {
		if filter.ProjectID != nil && item.ProjectID != *filter.ProjectID {
			continue
		}
		if filter.Status != nil && item.Status != *filter.Status {
			continue
		}
		if filter.Period != nil && item.Period != *filter.Period {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

func (f *fakeSettlements) MonthlyTotals(_ context.Context, year int, _ *string) ([]repository.MonthlySettlementTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	byPeriod := map[string]*repository.MonthlySettlementTotal{}
	var periods []string
	for _, item := range f.items {
		if !strings.HasPrefix(item.Period, fmt.Sprintf("%04d-", year)) {
			continue
		}
		t, ok := byPeriod[item.Period]
		if !ok {
			t = &repository.MonthlySettlementTotal{Period: item.Period}
			byPeriod[item.Period] = t
			periods = append(periods, item.Period)
		}
		t.Amount += item.Amount
		if item.Status == domain.SettlementPaid {
			t.Paid += item.Amount
		}
	}
	sort.Strings(periods)
	out := make([]repository.MonthlySettlementTotal, 0, len(periods))
	for _, p := range periods {
		out = append(out, *byPeriod[p])
	}
	return out, nil
}

type fakePermissionRequests struct {
	mu    sync.Mutex
	items []*domain.PermissionRequest
}

func (f *fakePermissionRequests) Create(_ context.Context, req *domain.PermissionRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	req.ID = nextID("perm")
	cp := *req
	f.items = append(f.items, &cp)
	return nil
}

func (f *fakePermissionRequests) Update(_ context.Context, req *domain.PermissionRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, item := range f.items {
		if item.ID == req.ID {
			cp := *req
			f.items[i] = &cp
			return nil
		}
	}
	return repository.ErrNoRows
}

func (f *fakePermissionRequests) GetByID(_ context.Context, id string) (*domain.PermissionRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.ID == id {
			cp := *item
			return &cp, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (f *fakePermissionRequests) GetPendingByRequester(_ context.Context, requesterID string) (*domain.PermissionRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, item := range f.items {
		if item.RequesterID == requesterID && item.Status == domain.PermissionPending {
			cp := *item
			return &cp, nil
		}
	}
	return nil, repository.ErrNoRows
}

func (f *fakePermissionRequests) List(_ context.Context, filter repository.PermissionRequestFilter) ([]domain.PermissionRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []domain.PermissionRequest
	for _, item := range f.items {
		if filter.RequesterID != nil && item.RequesterID != *filter.RequesterID {
			continue
		}
		if filter.Status != nil && item.Status != *filter.Status {
			continue
		}
		out = append(out, *item)
	}
	return out, nil
}

// recordingDispatcher captures published events in order.
type recordingDispatcher struct {
	mu     sync.Mutex
	events []events.Event
}

func (d *recordingDispatcher) Publish(_ context.Context, event events.Event) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.events = append(d.events, event)
	return nil
}

func (d *recordingDispatcher) Subscribe(events.EventType, events.EventHandler) {}

func (d *recordingDispatcher) types() []events.EventType {
	d.mu.Lock()
	defer d.mu.Unlock()
	out := make([]events.EventType, 0, len(d.events))
	for _, e := range d.events {
		out = append(out, e.Type)
	}
	return out
}

// fixture wires every service over shared fakes.
type fixture struct {
	users       *fakeUsers
	departments *fakeDepartments
	clients     *fakeClients
	employees   *fakeEmployees
	rateCards   *fakeRateCards
	projects    *fakeProjects
	history     *fakeHistory
	staffing    *fakeStaffing
	expenses    *fakeExpenses
	settlements *fakeSettlements
	permissions *fakePermissionRequests
	dispatcher  *recordingDispatcher

	masterData    *MasterDataService
	projectSvc    *ProjectService
	staffingSvc   *StaffingService
	expenseSvc    *ExpenseService
	settlementSvc *SettlementService
	permissionSvc *PermissionService
	dashboardSvc  *DashboardService
	bulkImportSvc *BulkImportService
}

func strPtr(s string) *string { return &s }

func newFixture() *fixture {
	projects := &fakeProjects{}
	f := &fixture{
		users: newFakeUsers(),
		departments: newFakeDepartments(
			domain.Department{ID: "d-dev", Name: "개발1팀", Code: strPtr("DEV1"), IsActive: true},
			domain.Department{ID: "d-infra", Name: "인프라팀", Code: strPtr("INFRA"), IsActive: true},
		),
		clients: newFakeClients(
			domain.Client{ID: "c-hanbit", Name: "한빛전자", IsActive: true},
		),
		employees: newFakeEmployees(
			domain.Employee{ID: "e-kim", Name: "김철수", Grade: "특급", EmploymentType: domain.EmploymentInternal, IsActive: true},
			domain.Employee{ID: "e-lee", Name: "이영희", Grade: "중급", EmploymentType: domain.EmploymentInternal, IsActive: true},
		),
		rateCards: newFakeRateCards(
			domain.RateCard{ID: "r-1", Grade: "특급", Year: 2024, MonthlyRate: 900, IsActive: true},
		),
		projects:    projects,
		history:     &fakeHistory{},
		staffing:    &fakeStaffing{projects: projects},
		expenses:    &fakeExpenses{projects: projects},
		settlements: &fakeSettlements{},
		permissions: &fakePermissionRequests{},
		dispatcher:  &recordingDispatcher{},
	}
	f.masterData = NewMasterDataService(MasterDataDependencies{
		DepartmentRepo: f.departments,
		ClientRepo:     f.clients,
		EmployeeRepo:   f.employees,
		RateCardRepo:   f.rateCards,
		Dispatcher:     f.dispatcher,
	})
	f.projectSvc = NewProjectService(ProjectDependencies{
		ProjectRepo:    f.projects,
		HistoryRepo:    f.history,
		StaffingRepo:   f.staffing,
		ExpenseRepo:    f.expenses,
		ClientRepo:     f.clients,
		DepartmentRepo: f.departments,
		EmployeeRepo:   f.employees,
		Dispatcher:     f.dispatcher,
	})
	f.staffingSvc = NewStaffingService(StaffingDependencies{
		ProjectRepo:  f.projects,
		StaffingRepo: f.staffing,
		EmployeeRepo: f.employees,
		RateCardRepo: f.rateCards,
		Dispatcher:   f.dispatcher,
	})
	f.expenseSvc = NewExpenseService(ExpenseDependencies{
		ProjectRepo: f.projects,
		ExpenseRepo: f.expenses,
		Dispatcher:  f.dispatcher,
	})
	f.settlementSvc = NewSettlementService(SettlementDependencies{
		ProjectRepo:    f.projects,
		SettlementRepo: f.settlements,
		Dispatcher:     f.dispatcher,
	})
	f.permissionSvc = NewPermissionService(PermissionDependencies{
		PermissionRequestRepo: f.permissions,
		UserRepo:              f.users,
		Dispatcher:            f.dispatcher,
	})
	f.dashboardSvc = NewDashboardService(DashboardDependencies{
		ProjectRepo:    f.projects,
		StaffingRepo:   f.staffing,
		ExpenseRepo:    f.expenses,
		SettlementRepo: f.settlements,
		DepartmentRepo: f.departments,
	})
	f.bulkImportSvc = NewBulkImportService(BulkImportDependencies{
		ProjectService: f.projectSvc,
		MasterData:     f.masterData,
		ClientRepo:     f.clients,
		Dispatcher:     f.dispatcher,
		MaxRows:        50,
	})
	return f
}

func (f *fixture) addUser(id string, role domain.Role) *domain.User {
	u := &domain.User{ID: id, Email: id + "@sebit.co.kr", Name: id, Role: role, IsActive: true}
	f.users.items[id] = u
	cp := *u
	return &cp
}

func validProjectInput() ProjectInput {
	return ProjectInput{
		Name:           "차세대 ERP 구축",
		Type:           domain.ProjectTypeSI,
		ClientID:       "c-hanbit",
		DepartmentIDs:  []string{"d-dev"},
		ContractAmount: 100_000_000,
		StartDate:      "2024-01-01",
		EndDate:        "2024-12-31",
	}
}

func (f *fixture) createProject(actor *domain.User, mutate func(*ProjectInput)) *domain.Project {
	input := validProjectInput()
	if mutate != nil {
		mutate(&input)
	}
	project, err := f.projectSvc.Create(context.Background(), actor, input, SourceWizard)
	if err != nil {
		panic(err)
	}
	return project
}

func domainCode(err error) string {
	if err == nil {
		return ""
	}
	return apperrors.ToDomainError(err).Code
}

func fieldsOf(err error) map[string]string {
	de := apperrors.ToDomainError(err)
	if de == nil || de.Details == nil {
		return nil
	}
	fields, _ := de.Details["fields"].(map[string]string)
	return fields
}
