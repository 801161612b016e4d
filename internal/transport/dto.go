package transport

import "github.com/mkravets/auth-service/internal/models"

// UserDTO is the projection of a User that is safe to return to clients
// and to embed in token claims. It never carries the password hash.
type UserDTO struct {
	ID          uint   `json:"id"`
	Email       string `json:"email"`
	IsActivated bool   `json:"is_activated"`
}

func NewUserDTO(u *models.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		IsActivated: u.IsActivated,
	}
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse is the body of registration, login and refresh responses.
type AuthResponse struct {
	TokenPair
	User UserDTO `json:"user"`
}

type CredentialsRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
