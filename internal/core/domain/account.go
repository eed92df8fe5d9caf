package domain

import "time"

// Account is a registered principal.
type Account struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	RoleID       int64     `json:"roleId"`
	Role         *Role     `json:"accountType,omitempty"`
	Snippets     []Snippet `json:"snippets,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// RoleName returns the name of the preloaded role, or "" when the role was
// not loaded.
func (a *Account) RoleName() string {
	if a.Role == nil {
		return ""
	}
	return a.Role.Name
}

// Principal is the identity embedded in a credential. It never carries the
// password hash.
type Principal struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	RoleName string `json:"roleName"`
}

// Principal projects the account onto its credential identity.
func (a *Account) Principal() Principal {
	return Principal{
		ID:       a.ID,
		Username: a.Username,
		Email:    a.Email,
		RoleName: a.RoleName(),
	}
}

// Credential is a signed bearer token plus its timing window.
type Credential struct {
	Token        string    `json:"token"`
	IssuedAt     time.Time `json:"issuedAt"`
	ExpiresAt    time.Time `json:"expiresAt"`
	RefreshAfter time.Time `json:"refreshAfter"`
}
