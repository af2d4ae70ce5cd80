package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/sebit-insight/internal/domain"
	"github.com/spec-kit/sebit-insight/internal/events"
)

func TestStaffingCreate_DefaultsFromEmployeeAndRateCard(t *testing.T) {
	f := newFixture()
	project := f.createProject(nil, nil)

	row, err := f.staffingSvc.Create(context.Background(), nil, project.ID, StaffingInput{
		EmployeeID:   strPtr("e-kim"),
		ExternalName: strPtr("ignored"),
		Role:         "PL",
		ManMonth:     3,
	})
	require.NoError(t, err)
	assert.Equal(t, "특급", row.Grade)
	assert.Equal(t, int64(900), row.MonthlyRate)
	assert.Nil(t, row.ExternalName)
	assert.Equal(t, []events.EventType{events.EventProjectCreated, events.EventStaffingChanged}, f.dispatcher.types())
}

func TestStaffingCreate_Validation(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	project := f.createProject(nil, nil)

	_, err := f.staffingSvc.Create(ctx, nil, project.ID, StaffingInput{ManMonth: 1})
	assert.Contains(t, fieldsOf(err), "employee_id")

	_, err = f.staffingSvc.Create(ctx, nil, project.ID, StaffingInput{ExternalName: strPtr("외부"), ManMonth: 0})
	assert.Contains(t, fieldsOf(err), "man_month")

	_, err = f.staffingSvc.Create(ctx, nil, project.ID, StaffingInput{EmployeeID: strPtr("e-missing"), ManMonth: 1})
	assert.Contains(t, fieldsOf(err), "employee_id")

	// 중급 has no rate card for 2024.
	_, err = f.staffingSvc.Create(ctx, nil, project.ID, StaffingInput{EmployeeID: strPtr("e-lee"), ManMonth: 1})
	assert.Contains(t, fieldsOf(err), "monthly_rate")

	_, err = f.staffingSvc.Create(ctx, nil, project.ID, StaffingInput{
		ExternalName: strPtr("외부"), ManMonth: 1, MonthlyRate: ptrInt64(100),
		StartDate: strPtr("2024-05-01"), EndDate: strPtr("2024-04-01"),
	})
	assert.Contains(t, fieldsOf(err), "end_date")

	_, err = f.staffingSvc.Create(ctx, nil, "prj-missing", StaffingInput{ExternalName: strPtr("외부"), ManMonth: 1})
	assert.Equal(t, "NOT_FOUND", domainCode(err))
}

func TestStaffingWritesRejectedOnTerminalProject(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	project := f.createProject(nil, nil)
	row, err := f.staffingSvc.Create(ctx, nil, project.ID, StaffingInput{ExternalName: strPtr("외부"), ManMonth: 1, MonthlyRate: ptrInt64(300)})
	require.NoError(t, err)

	_, err = f.projectSvc.ChangeStatus(ctx, nil, project.ID, domain.ProjectStatusCancelled, "")
	require.NoError(t, err)

	_, err = f.staffingSvc.Create(ctx, nil, project.ID, StaffingInput{ExternalName: strPtr("외부"), ManMonth: 1, MonthlyRate: ptrInt64(300)})
	assert.Equal(t, "CONFLICT", domainCode(err))
	_, err = f.staffingSvc.Update(ctx, nil, row.ID, StaffingInput{ExternalName: strPtr("외부"), ManMonth: 2, MonthlyRate: ptrInt64(300)})
	assert.Equal(t, "CONFLICT", domainCode(err))
	assert.Equal(t, "CONFLICT", domainCode(f.staffingSvc.Delete(ctx, nil, row.ID)))
}

func TestStaffingUpdateAndDelete(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	project := f.createProject(nil, nil)
	row, err := f.staffingSvc.Create(ctx, nil, project.ID, StaffingInput{ExternalName: strPtr("외부"), ManMonth: 1, MonthlyRate: ptrInt64(300)})
	require.NoError(t, err)

	updated, err := f.staffingSvc.Update(ctx, nil, row.ID, StaffingInput{ExternalName: strPtr("외부"), ManMonth: 1.5, MonthlyRate: ptrInt64(350)})
	require.NoError(t, err)
	assert.Equal(t, 1.5, updated.ManMonth)
	assert.Equal(t, int64(350), updated.MonthlyRate)

	require.NoError(t, f.staffingSvc.Delete(ctx, nil, row.ID))
	rows, err := f.staffingSvc.ListByProject(ctx, project.ID)
	require.NoError(t, err)
	assert.Empty(t, rows)
	assert.Equal(t, "NOT_FOUND", domainCode(f.staffingSvc.Delete(ctx, nil, row.ID)))
}

func ptrInt64(v int64) *int64 { return &v }
