package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRoleOrdering(t *testing.T) {
	assert.True(t, RoleMaster.AtLeast(RoleAdmin))
	assert.True(t, RoleAdmin.AtLeast(RoleAdmin))
	assert.False(t, RoleManager.AtLeast(RoleAdmin))
	assert.False(t, Role("guest").AtLeast(Role("guest")))
	assert.Equal(t, []Role{RoleUser, RoleManager, RoleAdmin, RoleMaster}, Roles())
}

func TestRoleGrantCeiling(t *testing.T) {
	assert.True(t, RoleMaster.CanGrant(RoleMaster))
	assert.True(t, RoleAdmin.CanGrant(RoleManager))
	assert.False(t, RoleAdmin.CanGrant(RoleAdmin))
	assert.False(t, RoleManager.CanGrant(RoleUser))
	assert.False(t, RoleMaster.CanGrant(Role("root")))
}

func TestProjectStatusTransitions(t *testing.T) {
	allowed := map[ProjectStatus][]ProjectStatus{
		ProjectStatusDraft:             {ProjectStatusActive, ProjectStatusCancelled},
		ProjectStatusActive:            {ProjectStatusSettlementPending, ProjectStatusOnHold, ProjectStatusCancelled},
		ProjectStatusOnHold:            {ProjectStatusActive, ProjectStatusCancelled},
		ProjectStatusSettlementPending: {ProjectStatusSettled, ProjectStatusActive},
	}
	for _, from := range ProjectStatuses() {
		for _, to := range ProjectStatuses() {
			want := false
			for _, candidate := range allowed[from] {
				if candidate == to {
					want = true
				}
			}
			assert.Equal(t, want, from.CanTransition(to), "%s -> %s", from, to)
		}
	}
	assert.True(t, ProjectStatusSettled.Terminal())
	assert.True(t, ProjectStatusCancelled.Terminal())
	assert.False(t, ProjectStatusOnHold.Terminal())
}

func TestSettlementTransitions(t *testing.T) {
	assert.True(t, SettlementPending.CanTransition(SettlementInvoiced))
	assert.True(t, SettlementPending.CanTransition(SettlementPaid))
	assert.True(t, SettlementInvoiced.CanTransition(SettlementPaid))
	assert.False(t, SettlementPaid.CanTransition(SettlementPending))
	assert.False(t, SettlementInvoiced.CanTransition(SettlementPending))
}

func TestPaymentScheduleTotal(t *testing.T) {
	p := Project{PaymentSchedules: []PaymentSchedule{{Amount: 30}, {Amount: 70}}}
	assert.Equal(t, int64(100), p.PaymentScheduleTotal())
}

func TestPasswordResetTokenUsable(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	token := &PasswordResetToken{ExpiresAt: now.Add(time.Minute)}
	assert.True(t, token.Usable(now))
	assert.False(t, token.Usable(now.Add(2*time.Minute)))
	used := now
	token.UsedAt = &used
	assert.False(t, token.Usable(now))
	var missing *PasswordResetToken
	assert.False(t, missing.Usable(now))
}

func TestProjectStatusLabel(t *testing.T) {
	for _, s := range ProjectStatuses() {
		assert.NotEqual(t, string(s), s.Label(), "status %s has no label", s)
	}
	assert.Equal(t, "정산대기", ProjectStatusSettlementPending.Label())
	assert.Equal(t, "archived", ProjectStatus("archived").Label())
}
