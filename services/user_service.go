package services

import (
	"calibration-app/models"
	"calibration-app/repositories"
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type UserInput struct {
	Username    string `json:"username" validate:"required,min=3"`
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number" validate:"max=20"`
	RoleID      *uint  `json:"role_id"`
	IsActive    *bool  `json:"is_active"`
}

type UserService struct {
	repo *repositories.UserRepository
}

func NewUserService(repo *repositories.UserRepository) *UserService {
	return &UserService{repo: repo}
}

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(hash), err
}

// Authenticate returns the active user matching login and password.
func (s *UserService) Authenticate(login, password string) (*models.User, error) {
	user, err := s.repo.GetByLogin(strings.TrimSpace(login))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &ForbiddenError{Reason: "invalid username or password"}
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, &ForbiddenError{Reason: "user is inactive"}
	}
	if bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) != nil {
		return nil, &ForbiddenError{Reason: "invalid username or password"}
	}
	return user, nil
}

func (s *UserService) checkUnique(in UserInput, exceptID uint) error {
	verr := &ValidationError{}
	if taken, err := s.repo.ExistsOther("email", in.Email, exceptID); err != nil {
		return err
	} else if taken {
		verr.Add("email", "already in use")
	}
	if taken, err := s.repo.ExistsOther("username", in.Username, exceptID); err != nil {
		return err
	} else if taken {
		verr.Add("username", "already in use")
	}
	if in.RoleID != nil {
		var n int64
		if err := s.repo.DB.Model(&models.Role{}).Where("id = ?", *in.RoleID).Count(&n).Error; err != nil {
			return err
		}
		if n == 0 {
			verr.Add("role_id", "unknown role")
		}
	}
	if !verr.Empty() {
		return verr
	}
	return nil
}

// CreateUser is reserved to superusers.
func (s *UserService) CreateUser(actor *models.User, in UserInput) (*models.User, error) {
	if actor == nil || !actor.IsSuperuser {
		return nil, &ForbiddenError{Reason: "only superusers can create users"}
	}
	if len(in.Password) < 6 {
		return nil, NewValidationError("password", "at least 6 characters")
	}
	if err := s.checkUnique(in, 0); err != nil {
		return nil, err
	}
	hash, err := HashPassword(in.Password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Username:    in.Username,
		Name:        in.Name,
		Email:       in.Email,
		Password:    hash,
		Address:     in.Address,
		PhoneNumber: in.PhoneNumber,
		RoleID:      in.RoleID,
		IsActive:    in.IsActive == nil || *in.IsActive,
		CreatedBy:   int(actor.ID),
		UpdatedBy:   int(actor.ID),
	}
	if err := s.repo.Create(user); err != nil {
		return nil, err
	}
	return s.GetUserByID(user.ID)
}

func (s *UserService) GetUserByID(id uint) (*models.User, error) {
	user, err := s.repo.GetByID(id)
	if err != nil {
		return nil, notFound("user", id, err)
	}
	return user, nil
}

func (s *UserService) GetAllUsers() ([]models.User, error) {
	return s.repo.GetAll()
}

func (s *UserService) UpdateUser(actor *models.User, id uint, in UserInput) (*models.User, error) {
	user, err := s.GetUserByID(id)
	if err != nil {
		return nil, err
	}
	if err := s.checkUnique(in, id); err != nil {
		return nil, err
	}
	fields := map[string]interface{}{
		"username":     in.Username,
		"name":         in.Name,
		"email":        in.Email,
		"address":      in.Address,
		"phone_number": in.PhoneNumber,
		"role_id":      in.RoleID,
		"updated_by":   int(actor.ID),
	}
	if in.IsActive != nil {
		fields["is_active"] = *in.IsActive
	}
	if in.Password != "" {
		if len(in.Password) < 6 {
			return nil, NewValidationError("password", "at least 6 characters")
		}
		hash, err := HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		fields["password"] = hash
	}
	if err := s.repo.Update(user, fields); err != nil {
		return nil, err
	}
	return s.GetUserByID(id)
}

func (s *UserService) DeleteUser(actor *models.User, id uint) error {
	if actor == nil || !actor.IsSuperuser {
		return &ForbiddenError{Reason: "only superusers can delete users"}
	}
	if actor.ID == id {
		return NewValidationError("id", "cannot delete yourself")
	}
	if _, err := s.GetUserByID(id); err != nil {
		return err
	}
	return s.repo.Delete(id, int(actor.ID))
}
