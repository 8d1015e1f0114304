package models

import (
	"strings"

	"gorm.io/gorm"
)

type Role string

const (
	TenantRole Role = "tenant"
	OwnerRole  Role = "owner"
	AdminRole  Role = "admin"
)

type UserStatus string

const (
	UserActive    UserStatus = "active"
	UserInactive  UserStatus = "inactive"
	UserSuspended UserStatus = "suspended"
)

type User struct {
	gorm.Model
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	Email          string     `json:"email" gorm:"uniqueIndex;not null"`
	Password       string     `json:"-"`
	Phone          string     `json:"phone"`
	ProfilePicture string     `json:"profilePicture"`
	Role           Role       `json:"role" gorm:"type:varchar(20);not null;index"`
	Status         UserStatus `json:"status" gorm:"type:varchar(20);default:active"`
	IsActive       bool       `json:"isActive" gorm:"default:true"`
	Tenant         *Tenant    `json:"tenant,omitempty"`
	Owner          *Owner     `json:"owner,omitempty"`
}

func (u User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// Dashboard is the landing page a user is sent to after login.
func (u User) Dashboard() string {
	switch u.Role {
	case AdminRole:
		return "admin_dashboard"
	case OwnerRole:
		return "owner_dashboard"
	default:
		return "tenant_dashboard"
	}
}
