package user

import "time"

// SafeUser is what leaves the API: no password hash, no token material.
type SafeUser struct {
	ID            uint       `json:"id"`
	FirstName     string     `json:"firstName"`
	LastName      string     `json:"lastName"`
	Username      string     `json:"username"`
	Email         string     `json:"email"`
	ContactNumber string     `json:"contactNumber"`
	Role          string     `json:"role"`
	IsActive      bool       `json:"isActive"`
	IsVerified    bool       `json:"isVerified"`
	LastLogin     *time.Time `json:"lastLogin,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
}

func ToSafeUser(u *User) SafeUser {
	return SafeUser{
		ID:            u.ID,
		FirstName:     u.FirstName,
		LastName:      u.LastName,
		Username:      u.Username,
		Email:         u.Email,
		ContactNumber: u.ContactNumber,
		Role:          u.Role,
		IsActive:      u.IsActive,
		IsVerified:    u.IsVerified,
		LastLogin:     u.LastLogin,
		CreatedAt:     u.CreatedAt,
	}
}

func ToSafeUsers(users []User) []SafeUser {
	out := make([]SafeUser, 0, len(users))
	for i := range users {
		out = append(out, ToSafeUser(&users[i]))
	}
	return out
}
