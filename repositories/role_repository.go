package repositories

import (
	"calibration-app/models"

	"gorm.io/gorm"
)

type RoleRepository struct {
	DB *gorm.DB
}

func NewRoleRepository(DB *gorm.DB) *RoleRepository {
	return &RoleRepository{DB: DB}
}

func (r *RoleRepository) WithTx(tx *gorm.DB) *RoleRepository {
	return &RoleRepository{DB: tx}
}

func (r *RoleRepository) Create(role *models.Role) error {
	return r.DB.Create(role).Error
}

func (r *RoleRepository) GetAll() ([]models.Role, error) {
	var roles []models.Role
	err := r.DB.Order("name").Find(&roles).Error
	return roles, err
}

func (r *RoleRepository) GetByID(id uint) (*models.Role, error) {
	var role models.Role
	err := r.DB.Preload("Permissions", func(db *gorm.DB) *gorm.DB {
		return db.Order("page")
	}).First(&role, id).Error
	return &role, err
}

func (r *RoleRepository) GetByName(name string) (*models.Role, error) {
	var role models.Role
	err := r.DB.Where("name = ?", name).First(&role).Error
	return &role, err
}

func (r *RoleRepository) Update(role *models.Role) error {
	return r.DB.Model(role).Updates(map[string]interface{}{
		"name":        role.Name,
		"description": role.Description,
	}).Error
}

// Delete removes the role and its permission rows, and detaches its users.
func (r *RoleRepository) Delete(id uint) error {
	if err := r.DB.Model(&models.User{}).Where("role_id = ?", id).Update("role_id", nil).Error; err != nil {
		return err
	}
	if err := r.DB.Where("role_id = ?", id).Delete(&models.Permission{}).Error; err != nil {
		return err
	}
	return r.DB.Unscoped().Delete(&models.Role{}, id).Error
}

func (r *RoleRepository) CreatePermissions(perms []models.Permission) error {
	if len(perms) == 0 {
		return nil
	}
	return r.DB.Create(&perms).Error
}

func (r *RoleRepository) FindPermission(roleID uint, page string) (*models.Permission, error) {
	var perm models.Permission
	err := r.DB.Where("role_id = ? AND page = ?", roleID, page).First(&perm).Error
	return &perm, err
}

func (r *RoleRepository) SavePermission(perm *models.Permission) error {
	return r.DB.Save(perm).Error
}
