package models

import (
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleAdmin  Role = "ADMIN"
	RoleWorker Role = "WORKER"
)

type User struct {
	ID                 uint           `gorm:"primaryKey" json:"id"`
	CreatedAt          time.Time      `json:"created_at"`
	UpdatedAt          time.Time      `json:"updated_at"`
	DeletedAt          gorm.DeletedAt `gorm:"index" json:"-"`
	Username           string         `gorm:"uniqueIndex;not null;size:100" json:"username"`
	FullName           string         `gorm:"not null;size:200" json:"full_name"`
	PasswordHash       string         `gorm:"not null" json:"-"`
	Role               Role           `gorm:"not null;size:20" json:"role"`
	MustChangePassword bool           `gorm:"default:true" json:"must_change_password"`
	WorkLogs           []WorkLog      `gorm:"foreignKey:UserID" json:"work_logs,omitempty"`
}

func (u *User) DisplayName() string {
	if u.FullName != "" {
		return u.FullName
	}
	return u.Username
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

func (u *User) IsWorker() bool {
	return u.Role == RoleWorker
}

// CanManageWorkLogFor reports whether the user may create, edit or delete
// work logs belonging to userID. Workers only manage their own logs.
func (u *User) CanManageWorkLogFor(userID uint) bool {
	if u.IsAdmin() {
		return true
	}
	return u.ID == userID
}

func (u *User) CanViewAllWorkLogs() bool {
	return u.IsAdmin()
}

func (u *User) CanManageInventory() bool {
	return u.IsAdmin()
}

func (u *User) CanManageBilling() bool {
	return u.IsAdmin()
}

func (u *User) CanCreateReports() bool {
	return u.IsAdmin() || u.IsWorker()
}

func (u *User) CanManageReports() bool {
	return u.IsAdmin()
}
