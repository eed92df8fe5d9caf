package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/snipbox/snippet-api/internal/core/authz"
	"github.com/snipbox/snippet-api/internal/core/domain"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

// SnippetService implements snippet CRUD with a read-through cache for
// lookups by id.
type SnippetService struct {
	snippets ports.SnippetRepository
	cache    ports.SnippetCache
	authz    authorizer
	settings Settings
	log      zerolog.Logger
}

func NewSnippetService(
	snippets ports.SnippetRepository,
	cache ports.SnippetCache,
	recorder ports.DecisionRecorder,
	settings Settings,
	log zerolog.Logger,
) *SnippetService {
	if cache == nil {
		cache = noopCache{}
	}
	return &SnippetService{
		snippets: snippets,
		cache:    cache,
		authz:    authorizer{recorder: recorder},
		settings: settings.withDefaults(),
		log:      log,
	}
}

// Create stores a snippet owned by the actor, whatever owner the caller asked for.
func (s *SnippetService) Create(ctx context.Context, actor authz.Actor, in ports.CreateSnippetInput) (*domain.Snippet, error) {
	if err := domain.CollectValidation(
		domain.ValidateSnippetName(in.Name),
		domain.ValidateSnippetBody(in.Body),
	); err != nil {
		return nil, err
	}

	d := s.authz.decide(actor, authz.CreateSnippet(), authz.Target{})
	if !d.Allowed() {
		return nil, d.Err()
	}

	snippet := &domain.Snippet{
		OwnerID: d.OwnerID,
		Name:    in.Name,
		Body:    in.Body,
	}
	if err := s.snippets.Create(ctx, snippet); err != nil {
		return nil, fmt.Errorf("create snippet: %w", err)
	}

	s.log.Info().Int64("snippet_id", snippet.ID).Int64("owner_id", snippet.OwnerID).Msg("snippet created")
	return snippet, nil
}

func (s *SnippetService) Get(ctx context.Context, actor authz.Actor, id int64, includeAuthor bool) (*domain.Snippet, error) {
	if d := s.authz.decide(actor, authz.ReadSnippet(), authz.Target{}); !d.Allowed() {
		return nil, d.Err()
	}

	// Only bare snippets are cached; the author may change independently.
	if !includeAuthor {
		if cached, ok := s.cache.Get(ctx, id); ok {
			return cached, nil
		}
	}

	snippet, err := s.snippets.FindByID(ctx, id, includeAuthor)
	if err != nil {
		return nil, err
	}
	if !includeAuthor {
		s.cache.Set(ctx, snippet)
	}
	return snippet, nil
}

func (s *SnippetService) GetByAuthorAndName(ctx context.Context, actor authz.Actor, username, name string) (*domain.Snippet, error) {
	if d := s.authz.decide(actor, authz.ReadSnippet(), authz.Target{}); !d.Allowed() {
		return nil, d.Err()
	}
	return s.snippets.FindByAuthorAndName(ctx, username, name)
}

func (s *SnippetService) List(ctx context.Context, actor authz.Actor, filter ports.SnippetFilter) ([]*domain.Snippet, error) {
	if d := s.authz.decide(actor, authz.ReadSnippet(), authz.Target{}); !d.Allowed() {
		return nil, d.Err()
	}
	filter.Limit, filter.Offset = s.settings.page(filter.Limit, filter.Offset)
	return s.snippets.List(ctx, filter)
}

func (s *SnippetService) Count(ctx context.Context, actor authz.Actor, filter ports.SnippetFilter) (int64, error) {
	if d := s.authz.decide(actor, authz.ReadSnippet(), authz.Target{}); !d.Allowed() {
		return 0, d.Err()
	}
	filter.Limit, filter.Offset = 0, 0
	return s.snippets.Count(ctx, filter)
}

// Update is restricted to the owner. Everyone else, Admins included, is told
// the snippet does not exist.
func (s *SnippetService) Update(ctx context.Context, actor authz.Actor, id int64, in ports.UpdateSnippetInput) (*domain.Snippet, error) {
	var checks []error
	if in.Name != nil {
		checks = append(checks, domain.ValidateSnippetName(*in.Name))
	}
	if in.Body != nil {
		checks = append(checks, domain.ValidateSnippetBody(*in.Body))
	}
	if err := domain.CollectValidation(checks...); err != nil {
		return nil, err
	}

	snippet, err := s.snippets.FindByID(ctx, id, false)
	if err != nil && !errors.Is(err, domain.ErrSnippetNotFound) {
		return nil, fmt.Errorf("update snippet: %w", err)
	}

	if d := s.authz.decide(actor, authz.UpdateSnippet(), snippetTarget(snippet)); !d.Allowed() {
		return nil, d.Err()
	}
	if snippet == nil {
		return nil, domain.ErrSnippetNotFound
	}

	if in.Name != nil {
		snippet.Name = *in.Name
	}
	if in.Body != nil {
		snippet.Body = *in.Body
	}
	if err := s.snippets.Update(ctx, snippet); err != nil {
		return nil, fmt.Errorf("update snippet: %w", err)
	}
	s.cache.Invalidate(ctx, id)
	return snippet, nil
}

// Delete is allowed to the owner and to Admins.
func (s *SnippetService) Delete(ctx context.Context, actor authz.Actor, id int64) error {
	snippet, err := s.snippets.FindByID(ctx, id, false)
	if err != nil && !errors.Is(err, domain.ErrSnippetNotFound) {
		return fmt.Errorf("delete snippet: %w", err)
	}

	if d := s.authz.decide(actor, authz.DeleteSnippet(), snippetTarget(snippet)); !d.Allowed() {
		return d.Err()
	}
	if snippet == nil {
		return domain.ErrSnippetNotFound
	}

	if err := s.snippets.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete snippet: %w", err)
	}
	s.cache.Invalidate(ctx, id)

	s.log.Info().Int64("snippet_id", id).Int64("actor_id", actor.ID).Msg("snippet deleted")
	return nil
}

func snippetTarget(snippet *domain.Snippet) authz.Target {
	if snippet == nil {
		return authz.Target{}
	}
	return authz.Target{OwnerID: snippet.OwnerID}
}
