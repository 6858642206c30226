package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"vegas_crm_backend/internal/models"
)

func runWithRole(t *testing.T, role string, guard gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	c.Request = httptest.NewRequest(http.MethodGet, "/", nil)
	c.Set("role", role)

	guard(c)
	return w
}

func TestRequireRoleHierarchy(t *testing.T) {
	guard := RequireRole(models.RoleSeller)

	assert.False(t, runWithRole(t, models.RoleOwner, guard).Code == http.StatusForbidden)
	assert.False(t, runWithRole(t, models.RoleAdmin, guard).Code == http.StatusForbidden)
	assert.False(t, runWithRole(t, models.RoleSeller, guard).Code == http.StatusForbidden)
	assert.Equal(t, http.StatusForbidden, runWithRole(t, models.RoleCashier, guard).Code)
	assert.Equal(t, http.StatusForbidden, runWithRole(t, "", guard).Code)
}

func TestRequireOwnerRejectsAdmin(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, runWithRole(t, models.RoleAdmin, RequireOwner).Code)
	assert.NotEqual(t, http.StatusForbidden, runWithRole(t, models.RoleOwner, RequireOwner).Code)
}

func TestRequireAdmin(t *testing.T) {
	assert.Equal(t, http.StatusForbidden, runWithRole(t, models.RoleSeller, RequireAdmin).Code)
	assert.NotEqual(t, http.StatusForbidden, runWithRole(t, models.RoleAdmin, RequireAdmin).Code)
}
