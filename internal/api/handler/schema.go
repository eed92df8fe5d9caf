package handler

import (
	"time"

	"github.com/snipbox/snippet-api/internal/core/domain"
)

// errorResponse documents the error envelope rendered by the API error handler.
type errorResponse struct {
	Message string   `json:"message"`
	Errors  []string `json:"errors,omitempty"`
}

// --- Request types ---

type createAccountRequest struct {
	Username string `json:"username" validate:"required,username"`
	Email    string `json:"email"    validate:"required"`
	Password string `json:"password" validate:"required"`
}

// updateAccountRequest leaves absent fields unchanged. Format checks run in
// the service so the response lists every rejected field at once.
type updateAccountRequest struct {
	Username *string `json:"username"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	RoleID   *int64  `json:"roleId"`
}

type roleRequest struct {
	Name string `json:"name" validate:"required,rolename"`
}

type createSnippetRequest struct {
	Name string `json:"name" validate:"required,snippetname"`
	Body string `json:"body" validate:"required"`
}

type updateSnippetRequest struct {
	Name *string `json:"name"`
	Body *string `json:"body"`
}

type loginRequest struct {
	Email    string `json:"email"    validate:"required_without=Username"`
	Username string `json:"username" validate:"required_without=Email"`
	Password string `json:"password" validate:"required"`
}

// Query structs spell out limit and offset: echo's binder skips embedded
// structs of unexported types.
type accountQuery struct {
	ID       int64  `query:"id"       validate:"min=0"`
	Username string `query:"username"`
	Email    string `query:"email"`
	RoleID   int64  `query:"roleId"   validate:"min=0"`
	Include  string `query:"include"`
	Limit    int    `query:"limit"    validate:"min=0"`
	Offset   int    `query:"offset"   validate:"min=0"`
}

type roleQuery struct {
	Name   string `query:"name"`
	Limit  int    `query:"limit"  validate:"min=0"`
	Offset int    `query:"offset" validate:"min=0"`
}

type snippetQuery struct {
	ID      int64  `query:"id"      validate:"min=0"`
	OwnerID int64  `query:"ownerId" validate:"min=0"`
	Name    string `query:"name"`
	Author  string `query:"author"`
	Include string `query:"include"`
	Limit   int    `query:"limit"   validate:"min=0"`
	Offset  int    `query:"offset"  validate:"min=0"`
}

// --- Response types ---

type roleResponse struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Immutable bool   `json:"immutable"`
}

type snippetResponse struct {
	ID        int64            `json:"id"`
	OwnerID   int64            `json:"ownerId"`
	Name      string           `json:"name"`
	Body      string           `json:"body"`
	Author    *accountResponse `json:"author,omitempty"`
	CreatedAt time.Time        `json:"createdAt"`
	UpdatedAt time.Time        `json:"updatedAt"`
}

type accountResponse struct {
	ID          int64             `json:"id"`
	Username    string            `json:"username"`
	Email       string            `json:"email"`
	RoleID      int64             `json:"roleId"`
	AccountType *roleResponse     `json:"accountType,omitempty"`
	Snippets    []snippetResponse `json:"snippets,omitempty"`
	CreatedAt   time.Time         `json:"createdAt"`
	UpdatedAt   time.Time         `json:"updatedAt"`
}

// credentialResponse is returned by registration, login and refresh.
type credentialResponse struct {
	Account      *accountResponse `json:"account,omitempty"`
	Token        string           `json:"token"`
	ExpiresAt    time.Time        `json:"expiresAt"`
	RefreshAfter time.Time        `json:"refreshAfter"`
}

type countResponse struct {
	Count int64 `json:"count"`
}

func newCredentialResponse(a *domain.Account, cred domain.Credential) credentialResponse {
	return credentialResponse{
		Account:      toAccountResponse(a),
		Token:        cred.Token,
		ExpiresAt:    cred.ExpiresAt,
		RefreshAfter: cred.RefreshAfter,
	}
}
