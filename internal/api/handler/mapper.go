package handler

import (
	"strings"

	"github.com/snipbox/snippet-api/internal/core/domain"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

// toAccountResponse maps a domain account onto its JSON contract. The
// password hash never leaves the service layer.
func toAccountResponse(a *domain.Account) *accountResponse {
	if a == nil {
		return nil
	}
	resp := &accountResponse{
		ID:          a.ID,
		Username:    a.Username,
		Email:       a.Email,
		RoleID:      a.RoleID,
		AccountType: toRoleResponse(a.Role),
		CreatedAt:   a.CreatedAt,
		UpdatedAt:   a.UpdatedAt,
	}
	if a.Snippets != nil {
		resp.Snippets = make([]snippetResponse, 0, len(a.Snippets))
		for i := range a.Snippets {
			resp.Snippets = append(resp.Snippets, *toSnippetResponse(&a.Snippets[i]))
		}
	}
	return resp
}

func toAccountResponses(accounts []*domain.Account) []*accountResponse {
	out := make([]*accountResponse, 0, len(accounts))
	for _, a := range accounts {
		out = append(out, toAccountResponse(a))
	}
	return out
}

func toRoleResponse(r *domain.Role) *roleResponse {
	if r == nil {
		return nil
	}
	return &roleResponse{ID: r.ID, Name: r.Name, Immutable: r.Immutable}
}

func toRoleResponses(roles []*domain.Role) []*roleResponse {
	out := make([]*roleResponse, 0, len(roles))
	for _, r := range roles {
		out = append(out, toRoleResponse(r))
	}
	return out
}

func toSnippetResponse(s *domain.Snippet) *snippetResponse {
	if s == nil {
		return nil
	}
	return &snippetResponse{
		ID:        s.ID,
		OwnerID:   s.OwnerID,
		Name:      s.Name,
		Body:      s.Body,
		Author:    toAccountResponse(s.Author),
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func toSnippetResponses(snippets []*domain.Snippet) []*snippetResponse {
	out := make([]*snippetResponse, 0, len(snippets))
	for _, s := range snippets {
		out = append(out, toSnippetResponse(s))
	}
	return out
}

// includes parses a comma separated include list such as "snippets,role".
func includes(raw string) map[string]bool {
	set := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(strings.ToLower(part)); part != "" {
			set[part] = true
		}
	}
	return set
}

func (q accountQuery) filter() ports.AccountFilter {
	inc := includes(q.Include)
	return ports.AccountFilter{
		ID:              q.ID,
		Username:        q.Username,
		Email:           q.Email,
		RoleID:          q.RoleID,
		IncludeRole:     inc["role"] || inc["accounttype"],
		IncludeSnippets: inc["snippets"],
		Limit:           q.Limit,
		Offset:          q.Offset,
	}
}

func (q roleQuery) filter() ports.RoleFilter {
	return ports.RoleFilter{Name: q.Name, Limit: q.Limit, Offset: q.Offset}
}

func (q snippetQuery) filter() ports.SnippetFilter {
	return ports.SnippetFilter{
		ID:            q.ID,
		OwnerID:       q.OwnerID,
		Name:          q.Name,
		Author:        q.Author,
		IncludeAuthor: includes(q.Include)["author"],
		Limit:         q.Limit,
		Offset:        q.Offset,
	}
}
