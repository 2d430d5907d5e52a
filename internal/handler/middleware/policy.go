package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/careledger/careledger/internal/domain"
)

// Operation names a guarded API capability. The policy table below is the
// single authority for which roles may invoke which operation; handlers only
// add per-record ownership checks on top.
type Operation string

const (
	OpManagePatients Operation = "patients:manage"
	OpDeletePatients Operation = "patients:delete"
	OpReadPatients   Operation = "patients:read"
	OpManageUsers    Operation = "users:manage"
	OpViewAudit      Operation = "audit:view"
	OpViewStats      Operation = "stats:view"
	OpExportData     Operation = "data:export"
	OpAppointments   Operation = "appointments:manage"
	OpRunAnalysis    Operation = "analysis:run"
)

var policy = map[Operation][]domain.Role{
	OpManagePatients: {domain.RoleAdmin, domain.RoleStaff},
	OpDeletePatients: {domain.RoleAdmin},
	OpReadPatients:   {domain.RoleAdmin, domain.RoleStaff, domain.RolePatient},
	OpManageUsers:    {domain.RoleAdmin},
	OpViewAudit:      {domain.RoleAdmin},
	OpViewStats:      {domain.RoleAdmin, domain.RoleStaff},
	OpExportData:     {domain.RoleAdmin, domain.RoleStaff},
	OpAppointments:   {domain.RoleAdmin, domain.RoleStaff, domain.RolePatient},
	OpRunAnalysis:    {domain.RoleAdmin, domain.RoleStaff},
}

// Allowed reports whether the role may invoke the operation. Unknown
// operations are denied for every role.
func Allowed(op Operation, role domain.Role) bool {
	for _, allowed := range policy[op] {
		if allowed == role {
			return true
		}
	}
	return false
}

// Require gates a route group on the policy table. It must run after Auth.
func Require(op Operation) gin.HandlerFunc {
	return func(c *gin.Context) {
		principal, ok := PrincipalFrom(c)
		if !ok {
			abortUnauthorized(c, "authentication required")
			return
		}
		if !Allowed(op, principal.Role) {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}
