package models

import "gorm.io/gorm"

// SuperadminRole is the role name that bypasses permission rows.
const SuperadminRole = "Superadmin"

type User struct {
	gorm.Model
	Username    string `json:"username" gorm:"size:150;uniqueIndex"`
	Password    string `json:"-"`
	Name        string `json:"name"`
	Email       string `json:"email" gorm:"size:254;uniqueIndex"`
	Address     string `json:"address"`
	PhoneNumber string `json:"phone_number" gorm:"size:20"`
	IsSuperuser bool   `json:"is_superuser"`
	IsActive    bool   `json:"is_active"`
	RoleID      *uint  `json:"role_id"`
	Role        *Role  `json:"role,omitempty"`
	CreatedBy   int    `json:"created_by"`
	UpdatedBy   int    `json:"updated_by"`
	DeletedBy   int    `json:"deleted_by"`
}

// Role groups page permissions. Names are unique.
type Role struct {
	gorm.Model
	Name        string       `json:"name" gorm:"size:100;uniqueIndex;not null"`
	Description string       `json:"description"`
	Permissions []Permission `json:"permissions,omitempty" gorm:"foreignKey:RoleID"`
}

// Permission holds the four action flags of one role on one page.
// Rows are hard deleted with their role so (role_id, page) stays unique.
type Permission struct {
	ID        uint   `json:"id" gorm:"primaryKey"`
	RoleID    uint   `json:"role_id" gorm:"not null;uniqueIndex:idx_permission_role_page"`
	Page      string `json:"page" gorm:"size:100;not null;uniqueIndex:idx_permission_role_page"`
	CanView   bool   `json:"can_view"`
	CanAdd    bool   `json:"can_add"`
	CanEdit   bool   `json:"can_edit"`
	CanDelete bool   `json:"can_delete"`
}
