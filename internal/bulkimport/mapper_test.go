package bulkimport

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeHeader(t *testing.T) {
	assert.Equal(t, "contractamountkrw", NormalizeHeader(" Contract_Amount (KRW) "))
	assert.Equal(t, "프로젝트명", NormalizeHeader("프로젝트 명"))
	assert.Equal(t, "startdate", NormalizeHeader("start-date:"))
	assert.Equal(t, "", NormalizeHeader(" ./ "))
}

func TestAutoMap_KoreanHeaders(t *testing.T) {
	headers := []string{"프로젝트명", "유형", "고객사", "담당 부서", "영업대표", "PM", "계약금액", "시작일", "종료일", "비고"}

	got := AutoMap(headers)
	want := []ColumnMapping{
		{Header: "프로젝트명", Field: FieldName},
		{Header: "유형", Field: FieldType},
		{Header: "고객사", Field: FieldClient},
		{Header: "담당 부서", Field: FieldDepartments},
		{Header: "영업대표", Field: FieldSalesRep},
		{Header: "PM", Field: FieldPM},
		{Header: "계약금액", Field: FieldContractAmount},
		{Header: "시작일", Field: FieldStartDate},
		{Header: "종료일", Field: FieldEndDate},
		{Header: "비고", Field: FieldDescription},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("AutoMap mismatch (-want +got):\n%s", diff)
	}
}

func TestAutoMap_SubstringAndUniqueness(t *testing.T) {
	headers := []string{"Project Name", "Project Start Date", "Contract Amount (KRW)", "Name", "Unrelated", "프로젝트 종료일자"}

	got := AutoMap(headers)
	want := []ColumnMapping{
		{Header: "Project Name", Field: FieldName},
		{Header: "Project Start Date", Field: FieldStartDate},
		{Header: "Contract Amount (KRW)", Field: FieldContractAmount},
		{Header: "Name"},
		{Header: "Unrelated"},
		{Header: "프로젝트 종료일자", Field: FieldEndDate},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("AutoMap mismatch (-want +got):\n%s", diff)
	}
}

func TestAutoMap_ShortLatinAliasesNeedExactMatch(t *testing.T) {
	headers := []string{"Project", "Vendor", "Frontend", "PMO Office", "Start"}

	got := AutoMap(headers)
	want := []ColumnMapping{
		{Header: "Project", Field: FieldName},
		{Header: "Vendor"},
		{Header: "Frontend"},
		{Header: "PMO Office"},
		{Header: "Start", Field: FieldStartDate},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("AutoMap mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, FieldEndDate, AutoMap([]string{"계약 종료일 (예정)"})[0].Field)
}

func TestAutoMap_EachFieldOnce(t *testing.T) {
	mapping := AutoMap([]string{"금액", "계약금액", "amount", "부서", "department"})
	seen := map[Field]int{}
	for _, m := range mapping {
		if m.Field != "" {
			seen[m.Field]++
		}
	}
	for field, count := range seen {
		assert.Equal(t, 1, count, "field %s", field)
	}
	assert.Equal(t, FieldContractAmount, mapping[0].Field)
	assert.Equal(t, FieldDepartments, mapping[3].Field)
	require.NoError(t, CheckMapping(mapping))
}

func TestCheckMapping(t *testing.T) {
	assert.NoError(t, CheckMapping([]ColumnMapping{{Header: "a", Field: FieldName}, {Header: "b"}}))
	assert.Error(t, CheckMapping([]ColumnMapping{{Header: "a", Field: "budget"}}))
	assert.Error(t, CheckMapping([]ColumnMapping{{Header: "a", Field: FieldName}, {Header: "b", Field: FieldName}}))
}

func TestAliasTableCoversEveryField(t *testing.T) {
	for _, f := range Fields() {
		assert.NotEmpty(t, aliasTable[f], "field %s", f)
	}
}
