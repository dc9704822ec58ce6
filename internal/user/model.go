package user

import "rab-dashboard/internal/domain"

// FormLogin represents login form data. Identifier is an email or username.
type FormLogin struct {
	Identifier string `json:"identifier" binding:"required"`
	Password   string `json:"password" binding:"required"`
}

// FormCreateUser represents the admin "add user" form
type FormCreateUser struct {
	Username    string            `json:"username" binding:"required"`
	Name        string            `json:"name" binding:"required"`
	Email       string            `json:"email" binding:"required,email"`
	Role        string            `json:"role" binding:"required"`
	Status      domain.UserStatus `json:"status" binding:"omitempty,oneof=Active Inactive"`
	Password    string            `json:"password" binding:"required,min=5"`
	PhotoURL    string            `json:"photoUrl"`
	Permissions domain.StringSet  `json:"permissions"`
	Plant       domain.StringSet  `json:"plant"`
}

// FormUpdateUser carries only the fields being changed. An empty password
// keeps the current one.
type FormUpdateUser struct {
	Username    *string            `json:"username" binding:"omitempty,min=1"`
	Name        *string            `json:"name" binding:"omitempty,min=1"`
	Email       *string            `json:"email" binding:"omitempty,email"`
	Role        *string            `json:"role" binding:"omitempty,min=1"`
	Status      *domain.UserStatus `json:"status" binding:"omitempty,oneof=Active Inactive"`
	Password    string             `json:"password" binding:"omitempty,min=5"`
	PhotoURL    *string            `json:"photoUrl"`
	Permissions *domain.StringSet  `json:"permissions"`
	Plant       *domain.StringSet  `json:"plant"`
}

// LoginResponse is returned by a successful login
type LoginResponse struct {
	AccessToken string          `json:"access_token"`
	User        domain.SafeUser `json:"user"`
}
