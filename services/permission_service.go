package services

import (
	"calibration-app/models"
	"calibration-app/repositories"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type PermissionService struct {
	DB    *gorm.DB
	roles *repositories.RoleRepository
}

func NewPermissionService(DB *gorm.DB) *PermissionService {
	return &PermissionService{DB: DB, roles: repositories.NewRoleRepository(DB)}
}

// Allows reports whether the permission row grants the action.
func Allows(perm models.Permission, action Action) bool {
	switch action {
	case ActionView:
		return perm.CanView
	case ActionAdd:
		return perm.CanAdd
	case ActionEdit:
		return perm.CanEdit
	case ActionDelete:
		return perm.CanDelete
	}
	return false
}

// HasPermission evaluates, in order: superuser, the Superadmin role, no role,
// then the (role, page) row. A missing row denies. user.Role must be loaded
// when RoleID is set.
func (s *PermissionService) HasPermission(user *models.User, page string, action Action) (bool, error) {
	if user == nil {
		return false, nil
	}
	if user.IsSuperuser {
		return true, nil
	}
	if user.RoleID == nil {
		return false, nil
	}
	if user.Role != nil && user.Role.Name == models.SuperadminRole {
		return true, nil
	}
	if user.Role == nil {
		role, err := s.roles.GetByID(*user.RoleID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return false, nil
			}
			return false, err
		}
		if role.Name == models.SuperadminRole {
			return true, nil
		}
	}

	perm, err := s.roles.FindPermission(*user.RoleID, page)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, err
	}
	return Allows(*perm, action), nil
}

// CreateRole creates the role and a view-only permission row for every
// catalogue page in one transaction.
func (s *PermissionService) CreateRole(name, description string) (*models.Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "required")
	}

	var role *models.Role
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.roles.WithTx(tx)
		if _, err := repo.GetByName(name); err == nil {
			return NewValidationError("name", "a role with this name already exists")
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		role = &models.Role{Name: name, Description: description}
		if err := repo.Create(role); err != nil {
			return err
		}

		perms := make([]models.Permission, 0, len(PageCatalogue))
		for _, page := range PageCatalogue {
			perms = append(perms, models.Permission{RoleID: role.ID, Page: page, CanView: true})
		}
		if err := repo.CreatePermissions(perms); err != nil {
			return err
		}
		role.Permissions = perms
		return nil
	})
	if err != nil {
		return nil, err
	}
	return role, nil
}

// EnsureSuperadminRole creates the Superadmin role when missing.
func (s *PermissionService) EnsureSuperadminRole() (*models.Role, error) {
	role, err := s.roles.GetByName(models.SuperadminRole)
	if err == nil {
		return role, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	return s.CreateRole(models.SuperadminRole, "Full access")
}

func (s *PermissionService) GetRoles() ([]models.Role, error) {
	return s.roles.GetAll()
}

func (s *PermissionService) GetRole(id uint) (*models.Role, error) {
	role, err := s.roles.GetByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "role", ID: id}
		}
		return nil, err
	}
	return role, nil
}

func (s *PermissionService) UpdateRole(id uint, name, description string) (*models.Role, error) {
	role, err := s.GetRole(id)
	if err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewValidationError("name", "required")
	}
	if role.Name == models.SuperadminRole && name != role.Name {
		return nil, NewValidationError("name", "the Superadmin role cannot be renamed")
	}
	if other, err := s.roles.GetByName(name); err == nil && other.ID != role.ID {
		return nil, NewValidationError("name", "a role with this name already exists")
	}
	role.Name = name
	role.Description = description
	if err := s.roles.Update(role); err != nil {
		return nil, err
	}
	return role, nil
}

func (s *PermissionService) DeleteRole(id uint) error {
	role, err := s.GetRole(id)
	if err != nil {
		return err
	}
	if role.Name == models.SuperadminRole {
		return NewValidationError("name", "the Superadmin role cannot be deleted")
	}
	return s.DB.Transaction(func(tx *gorm.DB) error {
		return s.roles.WithTx(tx).Delete(id)
	})
}

type PermissionInput struct {
	Page      string `json:"page" validate:"required"`
	CanView   bool   `json:"can_view"`
	CanAdd    bool   `json:"can_add"`
	CanEdit   bool   `json:"can_edit"`
	CanDelete bool   `json:"can_delete"`
}

// SetPermissions upserts the given page rows of a role.
func (s *PermissionService) SetPermissions(roleID uint, inputs []PermissionInput) (*models.Role, error) {
	if _, err := s.GetRole(roleID); err != nil {
		return nil, err
	}
	verr := &ValidationError{}
	for _, in := range inputs {
		if !IsKnownPage(in.Page) {
			verr.Add("page", "unknown page "+in.Page)
		}
	}
	if !verr.Empty() {
		return nil, verr
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		repo := s.roles.WithTx(tx)
		for _, in := range inputs {
			perm, err := repo.FindPermission(roleID, in.Page)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					return err
				}
				perm = &models.Permission{RoleID: roleID, Page: in.Page}
			}
			perm.CanView = in.CanView
			perm.CanAdd = in.CanAdd
			perm.CanEdit = in.CanEdit
			perm.CanDelete = in.CanDelete
			if err := repo.SavePermission(perm); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.GetRole(roleID)
}
