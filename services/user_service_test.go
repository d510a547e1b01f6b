package services

import (
	"calibration-app/models"
	"calibration-app/repositories"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUserService(t *testing.T) (*UserService, *models.User) {
	t.Helper()
	db := newTestDB(t)
	hash, err := HashPassword("rootpass")
	require.NoError(t, err)
	root := &models.User{Username: "root", Email: "root@example.com", Password: hash, IsSuperuser: true, IsActive: true}
	require.NoError(t, db.Create(root).Error)
	return NewUserService(repositories.NewUserRepository(db)), root
}

func TestCreateUser(t *testing.T) {
	svc, root := newUserService(t)
	clerk, err := svc.CreateUser(root, UserInput{Username: "clerk", Name: "Clerk", Email: "clerk@example.com", Password: "secret123"})
	require.NoError(t, err)
	assert.True(t, clerk.IsActive)
	assert.Equal(t, int(root.ID), clerk.CreatedBy)
	assert.NotEqual(t, "secret123", clerk.Password)

	unknownRole := uint(999)
	cases := []struct {
		name  string
		actor *models.User
		in    UserInput
		field string
	}{
		{"not a superuser", clerk, UserInput{Username: "other", Email: "other@example.com", Password: "secret123"}, ""},
		{"no actor", nil, UserInput{Username: "other", Email: "other@example.com", Password: "secret123"}, ""},
		{"short password", root, UserInput{Username: "other", Email: "other@example.com", Password: "123"}, "password"},
		{"email taken", root, UserInput{Username: "other", Email: "clerk@example.com", Password: "secret123"}, "email"},
		{"username taken", root, UserInput{Username: "clerk", Email: "other@example.com", Password: "secret123"}, "username"},
		{"unknown role", root, UserInput{Username: "other", Email: "other@example.com", Password: "secret123", RoleID: &unknownRole}, "role_id"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.CreateUser(tc.actor, tc.in)
			if tc.field == "" {
				var ferr *ForbiddenError
				require.ErrorAs(t, err, &ferr)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tc.field)
		})
	}

	users, err := svc.GetAllUsers()
	require.NoError(t, err)
	assert.Len(t, users, 2)
}

func TestUpdateUser(t *testing.T) {
	svc, root := newUserService(t)
	clerk, err := svc.CreateUser(root, UserInput{Username: "clerk", Name: "Clerk", Email: "clerk@example.com", Password: "secret123"})
	require.NoError(t, err)

	inactive := false
	updated, err := svc.UpdateUser(root, clerk.ID, UserInput{Username: "clerk", Name: "Front Desk", Email: "desk@example.com", IsActive: &inactive})
	require.NoError(t, err)
	assert.Equal(t, "Front Desk", updated.Name)
	assert.Equal(t, "desk@example.com", updated.Email)
	assert.False(t, updated.IsActive)

	// an empty password keeps the old one
	reactivate := true
	_, err = svc.UpdateUser(root, clerk.ID, UserInput{Username: "clerk", Name: "Front Desk", Email: "desk@example.com", IsActive: &reactivate})
	require.NoError(t, err)
	_, err = svc.Authenticate("clerk", "secret123")
	require.NoError(t, err)

	_, err = svc.UpdateUser(root, clerk.ID, UserInput{Username: "clerk", Email: "root@example.com"})
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "email")

	_, err = svc.UpdateUser(root, clerk.ID, UserInput{Username: "clerk", Email: "desk@example.com", Password: "123"})
	require.ErrorAs(t, err, &verr)
	assert.Contains(t, verr.Fields, "password")

	_, err = svc.UpdateUser(root, 999, UserInput{Username: "ghost", Email: "ghost@example.com"})
	var nerr *NotFoundError
	require.ErrorAs(t, err, &nerr)
}

func TestDeleteUser(t *testing.T) {
	svc, root := newUserService(t)
	clerk, err := svc.CreateUser(root, UserInput{Username: "clerk", Name: "Clerk", Email: "clerk@example.com", Password: "secret123"})
	require.NoError(t, err)

	var ferr *ForbiddenError
	require.ErrorAs(t, svc.DeleteUser(clerk, root.ID), &ferr)

	var verr *ValidationError
	require.ErrorAs(t, svc.DeleteUser(root, root.ID), &verr)

	require.NoError(t, svc.DeleteUser(root, clerk.ID))
	_, err = svc.GetUserByID(clerk.ID)
	var nerr *NotFoundError
	require.ErrorAs(t, err, &nerr)
	require.ErrorAs(t, svc.DeleteUser(root, clerk.ID), &nerr)

	_, err = svc.Authenticate("clerk", "secret123")
	require.ErrorAs(t, err, &ferr)
}
