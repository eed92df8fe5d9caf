package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/snipbox/snippet-api/internal/core/authz"
	"github.com/snipbox/snippet-api/internal/core/domain"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

func TestRoleHandler_Create(t *testing.T) {
	stub := &stubRoleService{
		createFn: func(ctx context.Context, actor authz.Actor, name string) (*domain.Role, error) {
			if name != "Moderator" || !actor.IsAdmin() {
				t.Fatalf("unexpected args: %s %+v", name, actor)
			}
			return &domain.Role{ID: 3, Name: name}, nil
		},
	}
	h := NewRoleHandler(stub)

	c, rec := newContext(http.MethodPost, "/api/account-types", strings.NewReader(`{"name":"Moderator"}`), authz.Authenticated(1, "Admin"))

	if err := h.Create(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestRoleHandler_Create_InvalidName(t *testing.T) {
	h := NewRoleHandler(&stubRoleService{})

	c, _ := newContext(http.MethodPost, "/api/account-types", strings.NewReader(`{"name":"x1"}`), authz.Authenticated(1, "Admin"))

	if err := h.Create(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestRoleHandler_Delete_SystemRole(t *testing.T) {
	stub := &stubRoleService{
		deleteFn: func(ctx context.Context, actor authz.Actor, id int64) error {
			return domain.ErrRoleNotFound
		},
	}
	h := NewRoleHandler(stub)

	c, _ := newContext(http.MethodDelete, "/api/account-types/1", nil, authz.Authenticated(1, "Admin"))
	c.SetParamNames("id")
	c.SetParamValues("1")

	if err := h.Delete(c); !errors.Is(err, domain.ErrRoleNotFound) {
		t.Fatalf("expected ErrRoleNotFound, got %v", err)
	}
}

func TestRoleHandler_List_Paging(t *testing.T) {
	var got ports.RoleFilter
	stub := &stubRoleService{
		listFn: func(ctx context.Context, actor authz.Actor, f ports.RoleFilter) ([]*domain.Role, error) {
			got = f
			return []*domain.Role{{ID: 1, Name: "Admin", Immutable: true}}, nil
		},
	}
	h := NewRoleHandler(stub)

	c, _ := newContext(http.MethodGet, "/api/account-types?name=Admin&limit=2&offset=4", nil, authz.Anonymous())

	if err := h.List(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if got.Name != "Admin" || got.Limit != 2 || got.Offset != 4 {
		t.Fatalf("unexpected filter: %+v", got)
	}
}
