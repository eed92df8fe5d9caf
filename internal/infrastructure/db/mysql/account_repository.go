package mysql

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/snipbox/snippet-api/internal/core/domain"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

// AccountRepository implements ports.AccountRepository using GORM.
type AccountRepository struct {
	db *gorm.DB
}

func NewAccountRepository(db *gorm.DB) ports.AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	m := accountModel{
		Username:     a.Username,
		Email:        a.Email,
		PasswordHash: a.PasswordHash,
		RoleID:       a.RoleID,
	}
	if err := r.db.WithContext(ctx).Omit(clause.Associations).Create(&m).Error; err != nil {
		return translate(err, "account", domain.ErrAccountNotFound, domain.ErrRoleNotFound)
	}
	a.ID = m.ID
	a.CreatedAt = m.CreatedAt
	a.UpdatedAt = m.UpdatedAt
	return nil
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	var m accountModel
	if err := r.db.WithContext(ctx).Preload("Role").First(&m, id).Error; err != nil {
		return nil, translate(err, "account", domain.ErrAccountNotFound, nil)
	}
	return m.toDomain(), nil
}

func (r *AccountRepository) FindByLogin(ctx context.Context, identifier string) (*domain.Account, error) {
	var m accountModel
	err := r.db.WithContext(ctx).
		Preload("Role").
		Where("email = ? OR username = ?", identifier, identifier).
		First(&m).Error
	if err != nil {
		return nil, translate(err, "account", domain.ErrAccountNotFound, nil)
	}
	return m.toDomain(), nil
}

func (r *AccountRepository) List(ctx context.Context, f ports.AccountFilter) ([]*domain.Account, error) {
	q := r.db.WithContext(ctx).Model(&accountModel{})
	if f.ID != 0 {
		q = q.Where("id = ?", f.ID)
	}
	if f.Username != "" {
		q = q.Where("username = ?", f.Username)
	}
	if f.Email != "" {
		q = q.Where("email = ?", f.Email)
	}
	if f.RoleID != 0 {
		q = q.Where("account_type_id = ?", f.RoleID)
	}
	if f.IncludeRole {
		q = q.Preload("Role")
	}
	if f.IncludeSnippets {
		q = q.Preload("Snippets", func(db *gorm.DB) *gorm.DB {
			return db.Order("updated_at DESC").Order("created_at DESC")
		})
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var models []accountModel
	if err := q.Order("id").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]*domain.Account, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

func (r *AccountRepository) Update(ctx context.Context, a *domain.Account) error {
	a.UpdatedAt = time.Now().UTC()
	err := r.db.WithContext(ctx).
		Model(&accountModel{ID: a.ID}).
		Select("username", "email", "password_hash", "account_type_id", "updated_at").
		Updates(accountModel{
			Username:     a.Username,
			Email:        a.Email,
			PasswordHash: a.PasswordHash,
			RoleID:       a.RoleID,
			UpdatedAt:    a.UpdatedAt,
		}).Error
	return translate(err, "account", domain.ErrAccountNotFound, domain.ErrRoleNotFound)
}

// Delete removes the account's snippets and then the account in one
// transaction, so the cascade holds even where the schema lacks the
// ON DELETE CASCADE constraint.
func (r *AccountRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("author_id = ?", id).Delete(&snippetModel{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&accountModel{}, id)
		if res.Error != nil {
			return translate(res.Error, "account", domain.ErrAccountNotFound, nil)
		}
		if res.RowsAffected == 0 {
			return domain.ErrAccountNotFound
		}
		return nil
	})
}
