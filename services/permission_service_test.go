package services

import (
	"calibration-app/models"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestActionForMethod(t *testing.T) {
	cases := map[string]Action{
		http.MethodGet:    ActionView,
		http.MethodHead:   ActionView,
		http.MethodPost:   ActionAdd,
		http.MethodPut:    ActionEdit,
		http.MethodPatch:  ActionEdit,
		http.MethodDelete: ActionDelete,
	}
	for method, want := range cases {
		got, ok := ActionForMethod(method)
		assert.True(t, ok, method)
		assert.Equal(t, want, got, method)
	}
	_, ok := ActionForMethod(http.MethodOptions)
	assert.False(t, ok)
}

func TestPageCatalogueIsExplicitAndUnique(t *testing.T) {
	assert.GreaterOrEqual(t, len(PageCatalogue), 20)
	seen := map[string]bool{}
	for _, p := range PageCatalogue {
		assert.False(t, seen[p], "duplicate page %s", p)
		seen[p] = true
	}
	for _, p := range []string{PageRoles, PageUsers, PageWorkOrders} {
		assert.True(t, IsKnownPage(p), p)
	}
	assert.False(t, IsKnownPage("Roles"))
}

func TestCreateRoleSeedsViewOnlyCatalogue(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)

	role, err := svc.CreateRole("Technician", "bench staff")
	require.NoError(t, err)

	var perms []models.Permission
	require.NoError(t, db.Where("role_id = ?", role.ID).Find(&perms).Error)
	require.Len(t, perms, len(PageCatalogue))
	for _, p := range perms {
		assert.True(t, p.CanView, p.Page)
		assert.False(t, p.CanAdd || p.CanEdit || p.CanDelete, p.Page)
	}

	_, err = svc.CreateRole("Technician", "")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, int64(1), countRows(t, db, &models.Role{}, "name = ?", "Technician"))
}

func TestHasPermission(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)

	superadmin, err := svc.EnsureSuperadminRole()
	require.NoError(t, err)
	clerk, err := svc.CreateRole("Clerk", "")
	require.NoError(t, err)
	empty := &models.Role{Name: "Empty"}
	require.NoError(t, db.Create(empty).Error)

	_, err = svc.SetPermissions(clerk.ID, []PermissionInput{{Page: PageWorkOrders, CanView: true, CanAdd: true}})
	require.NoError(t, err)

	ptr := func(id uint) *uint { return &id }
	cases := []struct {
		name   string
		user   *models.User
		page   string
		action Action
		want   bool
	}{
		{"superuser without role", &models.User{IsSuperuser: true}, "anything", ActionDelete, true},
		{"superadmin role", &models.User{RoleID: ptr(superadmin.ID)}, PageRoles, ActionDelete, true},
		{"no role", &models.User{}, PageRoles, ActionView, false},
		{"role without permission row", &models.User{RoleID: ptr(empty.ID)}, PageRoles, ActionView, false},
		{"view only row allows view", &models.User{RoleID: ptr(clerk.ID)}, PageRoles, ActionView, true},
		{"view only row denies edit", &models.User{RoleID: ptr(clerk.ID)}, PageRoles, ActionEdit, false},
		{"granted add", &models.User{RoleID: ptr(clerk.ID)}, PageWorkOrders, ActionAdd, true},
		{"not granted delete", &models.User{RoleID: ptr(clerk.ID)}, PageWorkOrders, ActionDelete, false},
		{"unknown page", &models.User{RoleID: ptr(clerk.ID)}, "warehouse", ActionView, false},
		{"nil user", nil, PageRoles, ActionView, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := svc.HasPermission(tc.user, tc.page, tc.action)
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestSetPermissionsRejectsUnknownPage(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)
	role, err := svc.CreateRole("Sales", "")
	require.NoError(t, err)

	_, err = svc.SetPermissions(role.ID, []PermissionInput{{Page: "warehouse", CanView: true}})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestSuperadminRoleIsProtected(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)
	role, err := svc.EnsureSuperadminRole()
	require.NoError(t, err)

	again, err := svc.EnsureSuperadminRole()
	require.NoError(t, err)
	assert.Equal(t, role.ID, again.ID)

	var verr *ValidationError
	require.ErrorAs(t, svc.DeleteRole(role.ID), &verr)
	_, err = svc.UpdateRole(role.ID, "Admins", "")
	require.ErrorAs(t, err, &verr)
}

func TestDeleteRoleDetachesUsers(t *testing.T) {
	db := newTestDB(t)
	svc := NewPermissionService(db)
	role, err := svc.CreateRole("Temp", "")
	require.NoError(t, err)
	user := models.User{Username: "temp", Email: "temp@example.com", RoleID: &role.ID, IsActive: true}
	require.NoError(t, db.Create(&user).Error)

	require.NoError(t, svc.DeleteRole(role.ID))

	var reloaded models.User
	require.NoError(t, db.First(&reloaded, user.ID).Error)
	assert.Nil(t, reloaded.RoleID)
	assert.Zero(t, countRows(t, db, &models.Permission{}, "role_id = ?", role.ID))

	// the name can be reused since the role row is gone
	_, err = svc.CreateRole("Temp", "")
	require.NoError(t, err)
}
