package domain

import (
	"strings"
	"time"
)

type UserStatus string

const (
	StatusActive   UserStatus = "Active"
	StatusInactive UserStatus = "Inactive"
)

// AllPlants grants access to every site.
const AllPlants = "ALL"

// Permission ids, "<area>:<action>".
const (
	PermBQView     = "bq:view"
	PermBQCreate   = "bq:create"
	PermBQEdit     = "bq:edit"
	PermBQDelete   = "bq:delete"
	PermBQApprove  = "bq:approve"
	PermRABView    = "rab:view"
	PermRABCreate  = "rab:create"
	PermRABEdit    = "rab:edit"
	PermRABDelete  = "rab:delete"
	PermRABApprove = "rab:approve"
	PermProjView   = "proyek:view"
	PermProjCreate = "proyek:create"
	PermProjEdit   = "proyek:edit"
	PermProjDelete = "proyek:delete"
	PermDBView     = "database:view"
	PermDBEdit     = "database:edit"
	PermAdminAcc   = "admin:access"
	PermAdminUsers = "admin:users"
	PermAdminData  = "admin:data"
	PermAdminLogs  = "admin:logs"
)

var AllPermissions = []string{
	PermBQView, PermBQCreate, PermBQEdit, PermBQDelete, PermBQApprove,
	PermRABView, PermRABCreate, PermRABEdit, PermRABDelete, PermRABApprove,
	PermProjView, PermProjCreate, PermProjEdit, PermProjDelete,
	PermDBView, PermDBEdit,
	PermAdminAcc, PermAdminUsers, PermAdminData, PermAdminLogs,
}

// User represents an account in the Users collection.
type User struct {
	ID           string     `json:"id" validate:"required"`
	Username     string     `json:"username" validate:"required"`
	Name         string     `json:"name" validate:"required"`
	Email        string     `json:"email" validate:"required,email"`
	Role         string     `json:"role" validate:"required"`
	Status       UserStatus `json:"status" validate:"oneof=Active Inactive"`
	PasswordHash string     `json:"passwordHash"`
	PhotoURL     string     `json:"photoUrl"`
	Permissions  StringSet  `json:"permissions" validate:"setitems"`
	Plant        StringSet  `json:"plant" validate:"setitems"`
	LastLogin    time.Time  `json:"lastLogin"`
}

// SafeUser represents a user without sensitive information
type SafeUser struct {
	ID          string     `json:"id"`
	Username    string     `json:"username"`
	Name        string     `json:"name"`
	Email       string     `json:"email"`
	Role        string     `json:"role"`
	Status      UserStatus `json:"status"`
	PhotoURL    string     `json:"photoUrl"`
	Permissions StringSet  `json:"permissions"`
	Plant       StringSet  `json:"plant"`
	LastLogin   time.Time  `json:"lastLogin"`
}

// ToSafeUser converts a User to a SafeUser
func (u *User) ToSafeUser() SafeUser {
	return SafeUser{
		ID:          u.ID,
		Username:    u.Username,
		Name:        u.Name,
		Email:       u.Email,
		Role:        u.Role,
		Status:      u.Status,
		PhotoURL:    u.PhotoURL,
		Permissions: u.Permissions,
		Plant:       u.Plant,
		LastLogin:   u.LastLogin,
	}
}

func (u *User) IsActive() bool {
	return u.Status == StatusActive
}

// Matches reports whether identifier is this user's email or username, ignoring case.
func (u *User) Matches(identifier string) bool {
	return strings.EqualFold(u.Email, identifier) || strings.EqualFold(u.Username, identifier)
}

func (u *SafeUser) HasPermission(perm string) bool {
	return u.Permissions.Contains(perm)
}

func (u *SafeUser) CanAccessPlant(plant string) bool {
	return u.Plant.Contains(AllPlants) || u.Plant.Contains(plant)
}

// Session is the current-session record kept apart from the Users collection.
type Session struct {
	User      SafeUser  `json:"user"`
	StartedAt time.Time `json:"startedAt"`
}
