package middleware

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/careledger/careledger/internal/domain"
)

func TestPolicyTable(t *testing.T) {
	tests := []struct {
		op   Operation
		role domain.Role
		want bool
	}{
		{OpManagePatients, domain.RoleAdmin, true},
		{OpManagePatients, domain.RoleStaff, true},
		{OpManagePatients, domain.RolePatient, false},

		{OpDeletePatients, domain.RoleAdmin, true},
		{OpDeletePatients, domain.RoleStaff, false},

		{OpReadPatients, domain.RolePatient, true},

		{OpManageUsers, domain.RoleAdmin, true},
		{OpManageUsers, domain.RoleStaff, false},

		{OpViewAudit, domain.RoleAdmin, true},
		{OpViewAudit, domain.RoleStaff, false},
		{OpViewAudit, domain.RolePatient, false},

		{OpViewStats, domain.RoleStaff, true},
		{OpViewStats, domain.RolePatient, false},

		{OpExportData, domain.RoleStaff, true},
		{OpExportData, domain.RolePatient, false},

		{OpAppointments, domain.RolePatient, true},

		{OpRunAnalysis, domain.RoleStaff, true},
		{OpRunAnalysis, domain.RolePatient, false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Allowed(tt.op, tt.role),
			"%s / %s", tt.op, tt.role)
	}
}

func TestPolicyDeniesUnknownOperation(t *testing.T) {
	assert.False(t, Allowed(Operation("bogus:op"), domain.RoleAdmin))
}
