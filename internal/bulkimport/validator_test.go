package bulkimport

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sebit-insight/internal/domain"
)

func strPtr(s string) *string { return &s }

func testReference() Reference {
	return Reference{
		Departments: []domain.Department{
			{ID: "d-dev1", Name: "개발1팀", Code: strPtr("DEV1")},
			{ID: "d-dev2", Name: "개발2팀", Code: strPtr("DEV2")},
			{ID: "d-infra", Name: "인프라운영팀"},
		},
		Employees: []domain.Employee{
			{ID: "e-kim", Name: "김민수", Email: "minsu.kim@sebit.co.kr"},
			{ID: "e-lee", Name: "이서연"},
		},
		Clients: []domain.Client{
			{ID: "c-hanbit", Name: "한빛은행"},
			{ID: "c-nuri", Name: "누리카드"},
		},
	}
}

var testHeaders = []string{"프로젝트명", "유형", "상태", "고객사", "부서", "영업대표", "PM", "계약금액", "시작일", "종료일"}

func validRow() map[string]string {
	return map[string]string{
		"프로젝트명": "차세대 여신시스템 구축",
		"유형":    "구축",
		"상태":    "진행중",
		"고객사":   "한빛은행",
		"부서":    "개발1팀, DEV2",
		"영업대표":  "김민수",
		"PM":    "이서연",
		"계약금액":  "₩1,200,000,000",
		"시작일":   "2024.01.02",
		"종료일":   "20241231",
	}
}

func validateOne(t *testing.T, row map[string]string, opts Options) RowResult {
	t.Helper()
	results := Validate([]map[string]string{row}, AutoMap(testHeaders), testReference(), opts)
	require.Len(t, results, 1)
	return results[0]
}

func TestValidate_FullyResolvedRowIsValid(t *testing.T) {
	res := validateOne(t, validRow(), Options{})

	assert.Equal(t, RowValid, res.Status, "%v", res.Messages)
	assert.True(t, res.Selected)
	assert.Empty(t, res.Messages)
	assert.Equal(t, 1, res.RowNumber)

	f := res.Fields
	assert.Equal(t, "차세대 여신시스템 구축", f.Name)
	assert.Equal(t, domain.ProjectTypeSI, f.Type)
	assert.Equal(t, domain.ProjectStatusActive, f.Status)
	assert.Equal(t, []string{"d-dev1", "d-dev2"}, f.DepartmentIDs)
	require.NotNil(t, f.ClientID)
	assert.Equal(t, "c-hanbit", *f.ClientID)
	require.NotNil(t, f.SalesRepID)
	assert.Equal(t, "e-kim", *f.SalesRepID)
	require.NotNil(t, f.PMEmployeeID)
	assert.Equal(t, "e-lee", *f.PMEmployeeID)
	require.NotNil(t, f.ContractAmount)
	assert.Equal(t, int64(1_200_000_000), *f.ContractAmount)
	assert.Equal(t, "2024-01-02", f.StartDate)
	assert.Equal(t, "2024-12-31", f.EndDate)
}

func TestValidate_SubstringResolution(t *testing.T) {
	row := validRow()
	row["부서"] = "인프라"
	row["고객사"] = "누리"
	res := validateOne(t, row, Options{})
	assert.Equal(t, RowValid, res.Status, "%v", res.Messages)
	assert.Equal(t, []string{"d-infra"}, res.Fields.DepartmentIDs)
	assert.Equal(t, "c-nuri", *res.Fields.ClientID)
}

func TestValidate_AmbiguousSubstringIsUnresolved(t *testing.T) {
	row := validRow()
	row["부서"] = "개발"
	res := validateOne(t, row, Options{})
	assert.Equal(t, RowError, res.Status)
	assert.False(t, res.Selected)
}

func TestValidate_UnknownPMIsWarning(t *testing.T) {
	row := validRow()
	row["PM"] = "외부 컨설턴트 박"
	res := validateOne(t, row, Options{})

	assert.Equal(t, RowWarning, res.Status)
	assert.True(t, res.Selected)
	require.NotNil(t, res.Fields.PMExternalName)
	assert.Equal(t, "외부 컨설턴트 박", *res.Fields.PMExternalName)
	assert.Nil(t, res.Fields.PMEmployeeID)
}

func TestValidate_UnknownSalesRepAndTypeAreWarnings(t *testing.T) {
	row := validRow()
	row["영업대표"] = "홍길동"
	row["유형"] = "컨설팅"
	row["상태"] = "보관"
	res := validateOne(t, row, Options{})

	assert.Equal(t, RowWarning, res.Status)
	assert.Nil(t, res.Fields.SalesRepID)
	assert.Equal(t, domain.ProjectTypeSI, res.Fields.Type)
	assert.Equal(t, domain.ProjectStatusDraft, res.Fields.Status)
	assert.Len(t, res.Messages, 3)
}

func TestValidate_PartialDepartmentsWarn(t *testing.T) {
	row := validRow()
	row["부서"] = "개발1팀 / 디자인팀"
	res := validateOne(t, row, Options{})
	assert.Equal(t, RowWarning, res.Status)
	assert.Equal(t, []string{"d-dev1"}, res.Fields.DepartmentIDs)
}

func TestValidate_UnregisteredClient(t *testing.T) {
	row := validRow()
	row["고객사"] = "새벽증권"

	strict := validateOne(t, row, Options{})
	assert.Equal(t, RowError, strict.Status)
	assert.False(t, strict.Selected)

	auto := validateOne(t, row, Options{AutoCreateClients: true})
	assert.Equal(t, RowWarning, auto.Status)
	assert.True(t, auto.Selected)
	assert.True(t, auto.Fields.NewClient)
	assert.Equal(t, "새벽증권", auto.Fields.ClientName)
	assert.Nil(t, auto.Fields.ClientID)
}

func TestValidate_InvalidValues(t *testing.T) {
	cases := map[string]func(map[string]string){
		"negative amount": func(r map[string]string) { r["계약금액"] = "-100" },
		"bad amount":      func(r map[string]string) { r["계약금액"] = "천만원" },
		"bad date":        func(r map[string]string) { r["시작일"] = "01/02/2024" },
		"impossible date": func(r map[string]string) { r["종료일"] = "2024-02-30" },
		"end before start": func(r map[string]string) {
			r["시작일"] = "2024-06-01"
			r["종료일"] = "2024-05-31"
		},
		"no department resolves": func(r map[string]string) { r["부서"] = "디자인팀" },
	}
	for name, mutate := range cases {
		row := validRow()
		mutate(row)
		res := validateOne(t, row, Options{AutoCreateClients: true})
		assert.Equal(t, RowError, res.Status, name)
		assert.False(t, res.Selected, name)
	}
}

func TestValidate_RowsAreIndependent(t *testing.T) {
	bad := validRow()
	bad["프로젝트명"] = ""
	rows := []map[string]string{validRow(), bad, validRow()}

	results := Validate(rows, AutoMap(testHeaders), testReference(), Options{})
	require.Len(t, results, 3)
	assert.Equal(t, RowValid, results[0].Status)
	assert.Equal(t, RowError, results[1].Status)
	assert.Equal(t, RowValid, results[2].Status)
	assert.Equal(t, []int{1, 2, 3}, []int{results[0].RowNumber, results[1].RowNumber, results[2].RowNumber})

	summary := Summarize(results)
	assert.Equal(t, Summary{Total: 3, Valid: 2, Error: 1, Selected: 2}, summary)
}

func TestValidate_MissingRequiredFieldsProperty(t *testing.T) {
	required := []string{"프로젝트명", "고객사", "부서", "계약금액", "시작일", "종료일"}
	optional := []string{"유형", "상태", "영업대표", "PM"}
	rng := rand.New(rand.NewSource(42))

	for i := 0; i < 300; i++ {
		row := validRow()
		for _, h := range optional {
			if rng.Intn(2) == 0 {
				row[h] = ""
			}
		}
		dropped := 0
		for _, h := range required {
			if rng.Intn(4) == 0 {
				row[h] = ""
				dropped++
			}
		}

		res := validateOne(t, row, Options{AutoCreateClients: rng.Intn(2) == 0})
		if dropped > 0 {
			require.Equal(t, RowError, res.Status, fmt.Sprintf("iteration %d: %v", i, row))
			require.False(t, res.Selected)
		} else {
			require.Equal(t, RowValid, res.Status, fmt.Sprintf("iteration %d: %v", i, res.Messages))
			require.True(t, res.Selected)
		}
	}
}

func TestValidate_UnmappedColumnsCountAsMissing(t *testing.T) {
	mapping := []ColumnMapping{{Header: "프로젝트명", Field: FieldName}}
	results := Validate([]map[string]string{validRow()}, mapping, testReference(), Options{})
	require.Len(t, results, 1)
	assert.Equal(t, RowError, results[0].Status)
	assert.GreaterOrEqual(t, len(results[0].Messages), 5)
}
