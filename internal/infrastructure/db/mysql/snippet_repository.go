package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/snipbox/snippet-api/internal/core/domain"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

// SnippetRepository implements ports.SnippetRepository using GORM.
type SnippetRepository struct {
	db *gorm.DB
}

func NewSnippetRepository(db *gorm.DB) ports.SnippetRepository {
	return &SnippetRepository{db: db}
}

func (r *SnippetRepository) Create(ctx context.Context, s *domain.Snippet) error {
	m := newSnippetModel(s)
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(m).Error; err != nil {
		return translate(err, "snippet", domain.ErrSnippetNotFound, domain.ErrAccountNotFound)
	}
	s.ID = m.ID
	s.CreatedAt = m.CreatedAt
	s.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *SnippetRepository) FindByID(ctx context.Context, id int64, includeAuthor bool) (*domain.Snippet, error) {
	q := r.db.WithContext(ctx)
	if includeAuthor {
		q = q.Preload("Author")
	}

	var m snippetModel
	if err := q.First(&m, id).Error; err != nil {
		return nil, translate(err, "snippet", domain.ErrSnippetNotFound, nil)
	}
	return m.toDomain(), nil
}

func (r *SnippetRepository) FindByAuthorAndName(ctx context.Context, username, name string) (*domain.Snippet, error) {
	var m snippetModel
	err := r.db.WithContext(ctx).
		Joins("JOIN accounts ON accounts.id = snippets.author_id").
		Where("accounts.username = ? AND snippets.name = ?", username, name).
		First(&m).Error
	if err != nil {
		return nil, translate(err, "snippet", domain.ErrSnippetNotFound, nil)
	}
	return m.toDomain(), nil
}

func (r *SnippetRepository) filtered(ctx context.Context, f ports.SnippetFilter) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&snippetModel{})
	if f.ID != 0 {
		q = q.Where("snippets.id = ?", f.ID)
	}
	if f.OwnerID != 0 {
		q = q.Where("snippets.author_id = ?", f.OwnerID)
	}
	if f.Name != "" {
		q = q.Where("snippets.name LIKE ? ESCAPE '!'", likePattern(f.Name))
	}
	if f.Author != "" {
		authors := r.db.Model(&accountModel{}).Select("id").Where("username LIKE ? ESCAPE '!'", likePattern(f.Author))
		q = q.Where("snippets.author_id IN (?)", authors)
	}
	return q
}

func (r *SnippetRepository) List(ctx context.Context, f ports.SnippetFilter) ([]*domain.Snippet, error) {
	q := r.filtered(ctx, f).
		Order("snippets.updated_at DESC").
		Order("snippets.created_at DESC")
	if f.IncludeAuthor {
		q = q.Preload("Author")
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var models []snippetModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]*domain.Snippet, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

func (r *SnippetRepository) Count(ctx context.Context, f ports.SnippetFilter) (int64, error) {
	var n int64
	if err := r.filtered(ctx, f).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *SnippetRepository) IDsByOwner(ctx context.Context, ownerID int64) ([]int64, error) {
	var ids []int64
	err := r.db.WithContext(ctx).Model(&snippetModel{}).Where("author_id = ?", ownerID).Pluck("id", &ids).Error
	return ids, err
}

func (r *SnippetRepository) Update(ctx context.Context, s *domain.Snippet) error {
	s.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).
		Model(&snippetModel{ID: s.ID}).
		Updates(map[string]any{
			"name":       s.Name,
			"body":       s.Body,
			"body_hash":  bodyHash(s.Body),
			"updated_at": s.UpdatedAt,
		}).Error
	return translate(err, "snippet", domain.ErrSnippetNotFound, nil)
}

func (r *SnippetRepository) Delete(ctx context.Context, id int64) error {
	res := r.db.WithContext(ctx).Delete(&snippetModel{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return domain.ErrSnippetNotFound
	}
	return nil
}
