package repositories

import (
	"calibration-app/models"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(DB *gorm.DB) *UserRepository {
	return &UserRepository{DB: DB}
}

func (r *UserRepository) Create(user *models.User) error {
	return r.DB.Create(user).Error
}

// GetByID loads the user with its role.
func (r *UserRepository) GetByID(id uint) (*models.User, error) {
	var user models.User
	err := r.DB.Preload("Role").First(&user, id).Error
	return &user, err
}

func (r *UserRepository) GetByLogin(login string) (*models.User, error) {
	var user models.User
	err := r.DB.Preload("Role").Where("email = ? OR username = ?", login, login).First(&user).Error
	return &user, err
}

func (r *UserRepository) GetAll() ([]models.User, error) {
	var users []models.User
	err := r.DB.Preload("Role").Order("id").Find(&users).Error
	return users, err
}

func (r *UserRepository) Update(user *models.User, fields map[string]interface{}) error {
	return r.DB.Model(user).Updates(fields).Error
}

func (r *UserRepository) Delete(id uint, actor int) error {
	if err := r.DB.Model(&models.User{}).Where("id = ?", id).Update("deleted_by", actor).Error; err != nil {
		return err
	}
	return r.DB.Delete(&models.User{}, id).Error
}

func (r *UserRepository) ExistsOther(field, value string, exceptID uint) (bool, error) {
	var n int64
	err := r.DB.Model(&models.User{}).Where(field+" = ? AND id <> ?", value, exceptID).Count(&n).Error
	return n > 0, err
}
