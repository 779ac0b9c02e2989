package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/teamstaff/staffdash-api/internal/models"
)

func runRoleGate(t *testing.T, claims *models.JWTClaims, roles ...models.StaffRole) (*httptest.ResponseRecorder, bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/sessions", nil)
	if claims != nil {
		c.Set(ContextUserKey, claims)
	}

	reached := false
	RequireRoles(roles...)(c)
	if !c.IsAborted() {
		reached = true
	}
	return rec, reached
}

func TestRequireRolesAllowsListedRole(t *testing.T) {
	_, reached := runRoleGate(t, &models.JWTClaims{UserID: "u1", Role: models.RoleCoach}, models.RoleAdmin, models.RoleCoach)
	assert.True(t, reached)
}

func TestRequireRolesForbidsOtherRole(t *testing.T) {
	rec, reached := runRoleGate(t, &models.JWTClaims{UserID: "u1", Role: models.RolePhysio}, models.RoleAdmin, models.RoleCoach)
	assert.False(t, reached)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRolesRejectsMissingClaims(t *testing.T) {
	rec, reached := runRoleGate(t, nil, models.RoleAdmin)
	assert.False(t, reached)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
