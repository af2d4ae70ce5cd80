package bulkimport

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

// RowStatus classifies a validated row.
type RowStatus string

const (
	RowValid   RowStatus = "valid"
	RowWarning RowStatus = "warning"
	RowError   RowStatus = "error"
)

// Message is a row-level finding.
type Message struct {
	Field Field     `json:"field,omitempty"`
	Level RowStatus `json:"level"`
	Text  string    `json:"message"`
}

// RowFields holds the resolved values of one import row.
type RowFields struct {
	Name            string               `json:"name"`
	Type            domain.ProjectType   `json:"type"`
	Status          domain.ProjectStatus `json:"status"`
	ClientID        *string              `json:"client_id,omitempty" validate:"omitempty,uuid"`
	ClientName      string               `json:"client_name"`
	NewClient       bool                 `json:"new_client"`
	DepartmentIDs   []string             `json:"department_ids" validate:"dive,uuid"`
	DepartmentNames []string             `json:"department_names"`
	SalesRepID      *string              `json:"sales_rep_id,omitempty" validate:"omitempty,uuid"`
	SalesRepName    string               `json:"sales_rep_name,omitempty"`
	PMEmployeeID    *string              `json:"pm_employee_id,omitempty" validate:"omitempty,uuid"`
	PMExternalName  *string              `json:"pm_external_name,omitempty"`
	ContractAmount  *int64               `json:"contract_amount,omitempty"`
	StartDate       string               `json:"start_date,omitempty"`
	EndDate         string               `json:"end_date,omitempty"`
	Description     string               `json:"description,omitempty"`
}

// RowResult is the outcome of validating one row.
type RowResult struct {
	RowNumber int               `json:"row_number"`
	Status    RowStatus         `json:"status"`
	Selected  bool              `json:"selected"`
	Fields    RowFields         `json:"fields"`
	Messages  []Message         `json:"messages"`
	Raw       map[string]string `json:"raw"`
}

// Reference is the master data rows are resolved against.
type Reference struct {
	Departments []domain.Department
	Employees   []domain.Employee
	Clients     []domain.Client
}

// Options tunes validation.
type Options struct {
	AutoCreateClients bool
}

// Summary counts results by status.
type Summary struct {
	Total    int `json:"total"`
	Valid    int `json:"valid"`
	Warning  int `json:"warning"`
	Error    int `json:"error"`
	Selected int `json:"selected"`
}

// Validate resolves and checks every row independently.
func Validate(rows []map[string]string, mapping []ColumnMapping, ref Reference, opts Options) []RowResult {
	v := newValidator(mapping, ref, opts)
	results := make([]RowResult, 0, len(rows))
	for i, row := range rows {
		results = append(results, v.row(i+1, row))
	}
	return results
}

// Summarize counts rows per status.
func Summarize(results []RowResult) Summary {
	s := Summary{Total: len(results)}
	for _, r := range results {
		switch r.Status {
		case RowValid:
			s.Valid++
		case RowWarning:
			s.Warning++
		case RowError:
			s.Error++
		}
		if r.Selected {
			s.Selected++
		}
	}
	return s
}

type candidate struct {
	id   string
	keys []string
}

type validator struct {
	columns     map[Field]string
	departments []candidate
	employees   []candidate
	clients     []candidate
	opts        Options
}

func newValidator(mapping []ColumnMapping, ref Reference, opts Options) *validator {
	v := &validator{columns: make(map[Field]string), opts: opts}
	for _, m := range mapping {
		if m.Field != "" {
			if _, taken := v.columns[m.Field]; !taken {
				v.columns[m.Field] = m.Header
			}
		}
	}
	for _, d := range ref.Departments {
		keys := []string{matchKey(d.Name)}
		if d.Code != nil && *d.Code != "" {
			keys = append(keys, matchKey(*d.Code))
		}
		v.departments = append(v.departments, candidate{id: d.ID, keys: keys})
	}
	for _, e := range ref.Employees {
		keys := []string{matchKey(e.Name)}
		if e.Email != "" {
			keys = append(keys, matchKey(e.Email))
		}
		v.employees = append(v.employees, candidate{id: e.ID, keys: keys})
	}
	for _, c := range ref.Clients {
		v.clients = append(v.clients, candidate{id: c.ID, keys: []string{matchKey(c.Name)}})
	}
	return v
}

func (v *validator) cell(row map[string]string, field Field) string {
	header, ok := v.columns[field]
	if !ok {
		return ""
	}
	return strings.TrimSpace(row[header])
}

type rowState struct {
	result *RowResult
}

func (s rowState) fail(field Field, format string, args ...any) {
	s.result.Messages = append(s.result.Messages, Message{Field: field, Level: RowError, Text: fmt.Sprintf(format, args...)})
}

func (s rowState) warn(field Field, format string, args ...any) {
	s.result.Messages = append(s.result.Messages, Message{Field: field, Level: RowWarning, Text: fmt.Sprintf(format, args...)})
}

func (v *validator) row(number int, row map[string]string) RowResult {
	result := RowResult{RowNumber: number, Raw: row, Messages: []Message{}}
	st := rowState{result: &result}
	f := &result.Fields

	f.Name = v.cell(row, FieldName)
	if f.Name == "" {
		st.fail(FieldName, "프로젝트명은 필수입니다")
	}

	f.Type = domain.ProjectTypeSI
	if raw := v.cell(row, FieldType); raw != "" {
		if t, ok := ParseProjectType(raw); ok {
			f.Type = t
		} else {
			st.warn(FieldType, "알 수 없는 유형 '%s', SI로 설정됩니다", raw)
		}
	}

	f.Status = domain.ProjectStatusDraft
	if raw := v.cell(row, FieldStatus); raw != "" {
		if s, ok := ParseProjectStatus(raw); ok {
			f.Status = s
		} else {
			st.warn(FieldStatus, "알 수 없는 상태 '%s', 초안으로 설정됩니다", raw)
		}
	}

	v.resolveDepartments(st, v.cell(row, FieldDepartments))
	v.resolveClient(st, v.cell(row, FieldClient))

	if raw := v.cell(row, FieldSalesRep); raw != "" {
		if id, ok := resolve(v.employees, raw); ok {
			f.SalesRepID = &id
		} else {
			f.SalesRepName = raw
			st.warn(FieldSalesRep, "영업대표 '%s'을(를) 찾을 수 없어 비워둡니다", raw)
		}
	}

	if raw := v.cell(row, FieldPM); raw != "" {
		if id, ok := resolve(v.employees, raw); ok {
			f.PMEmployeeID = &id
		} else {
			name := raw
			f.PMExternalName = &name
			st.warn(FieldPM, "PM '%s'은(는) 등록된 직원이 아니므로 외부 PM으로 등록됩니다", raw)
		}
	}

	if raw := v.cell(row, FieldContractAmount); raw == "" {
		st.fail(FieldContractAmount, "계약금액은 필수입니다")
	} else if amount, err := ParseAmount(raw); err != nil {
		if errors.Is(err, ErrNegativeAmount) {
			st.fail(FieldContractAmount, "계약금액은 0 이상이어야 합니다: '%s'", raw)
		} else {
			st.fail(FieldContractAmount, "계약금액 형식이 올바르지 않습니다: '%s'", raw)
		}
	} else {
		f.ContractAmount = &amount
	}

	f.StartDate = v.date(st, row, FieldStartDate, "시작일")
	f.EndDate = v.date(st, row, FieldEndDate, "종료일")
	if f.StartDate != "" && f.EndDate != "" && f.EndDate < f.StartDate {
		st.fail(FieldEndDate, "종료일이 시작일보다 빠릅니다")
	}

	f.Description = v.cell(row, FieldDescription)

	result.Status = RowValid
	for _, m := range result.Messages {
		if m.Level == RowError {
			result.Status = RowError
			break
		}
		result.Status = RowWarning
	}
	result.Selected = result.Status != RowError
	return result
}

func (v *validator) date(st rowState, row map[string]string, field Field, label string) string {
	raw := v.cell(row, field)
	if raw == "" {
		st.fail(field, "%s은(는) 필수입니다", label)
		return ""
	}
	normalized, ok := NormalizeDate(raw)
	if !ok {
		st.fail(field, "%s 형식이 올바르지 않습니다: '%s' (YYYY-MM-DD)", label, raw)
		return ""
	}
	return normalized
}

func (v *validator) resolveDepartments(st rowState, raw string) {
	f := &st.result.Fields
	f.DepartmentIDs = []string{}
	names := SplitList(raw)
	f.DepartmentNames = names
	if len(names) == 0 {
		st.fail(FieldDepartments, "부서는 최소 1개 이상 필요합니다")
		return
	}

	seen := make(map[string]bool)
	var missing []string
	for _, name := range names {
		id, ok := resolve(v.departments, name)
		if !ok {
			missing = append(missing, name)
			continue
		}
		if !seen[id] {
			seen[id] = true
			f.DepartmentIDs = append(f.DepartmentIDs, id)
		}
	}

	switch {
	case len(f.DepartmentIDs) == 0:
		st.fail(FieldDepartments, "등록된 부서를 찾을 수 없습니다: %s", strings.Join(missing, ", "))
	case len(missing) > 0:
		st.warn(FieldDepartments, "일부 부서를 찾을 수 없어 제외됩니다: %s", strings.Join(missing, ", "))
	}
}

func (v *validator) resolveClient(st rowState, raw string) {
	f := &st.result.Fields
	f.ClientName = raw
	if raw == "" {
		st.fail(FieldClient, "고객사는 필수입니다")
		return
	}
	if id, ok := resolve(v.clients, raw); ok {
		f.ClientID = &id
		return
	}
	if v.opts.AutoCreateClients {
		f.NewClient = true
		st.warn(FieldClient, "미등록 고객사 '%s'은(는) 신규 등록됩니다", raw)
		return
	}
	st.fail(FieldClient, "등록되지 않은 고객사입니다: '%s'", raw)
}

// resolve matches value exactly against any key, then by substring when
// exactly one candidate contains or is contained in the value.
func resolve(candidates []candidate, value string) (string, bool) {
	key := matchKey(value)
	if key == "" {
		return "", false
	}
	for _, c := range candidates {
		for _, k := range c.keys {
			if k == key {
				return c.id, true
			}
		}
	}

	var match string
	hits := 0
	for _, c := range candidates {
		for _, k := range c.keys {
			if k != "" && (strings.Contains(k, key) || strings.Contains(key, k)) {
				hits++
				match = c.id
				break
			}
		}
	}
	if hits == 1 {
		return match, true
	}
	return "", false
}

func matchKey(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), "")
}
