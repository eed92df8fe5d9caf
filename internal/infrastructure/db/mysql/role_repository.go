package mysql

import (
	"context"

	"gorm.io/gorm"

	"github.com/snipbox/snippet-api/internal/core/domain"
	"github.com/snipbox/snippet-api/internal/core/ports"
)

// RoleRepository implements ports.RoleRepository using GORM.
type RoleRepository struct {
	db *gorm.DB
}

func NewRoleRepository(db *gorm.DB) ports.RoleRepository {
	return &RoleRepository{db: db}
}

func (r *RoleRepository) FindByID(ctx context.Context, id int64) (*domain.Role, error) {
	var m roleModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err, "account type", domain.ErrRoleNotFound, nil)
	}
	return m.toDomain(), nil
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*domain.Role, error) {
	var m roleModel
	if err := r.db.WithContext(ctx).Where("name = ?", name).First(&m).Error; err != nil {
		return nil, translate(err, "account type", domain.ErrRoleNotFound, nil)
	}
	return m.toDomain(), nil
}

func (r *RoleRepository) List(ctx context.Context, f ports.RoleFilter) ([]*domain.Role, error) {
	q := r.db.WithContext(ctx).Model(&roleModel{})
	if f.Name != "" {
		q = q.Where("name = ?", f.Name)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	if f.Offset > 0 {
		q = q.Offset(f.Offset)
	}

	var models []roleModel
	if err := q.Order("id").Find(&models).Error; err != nil {
		return nil, err
	}

	out := make([]*domain.Role, 0, len(models))
	for i := range models {
		out = append(out, models[i].toDomain())
	}
	return out, nil
}

func (r *RoleRepository) FirstOrCreate(ctx context.Context, name string) (*domain.Role, error) {
	var m roleModel
	if err := r.db.WithContext(ctx).Where(roleModel{Name: name}).FirstOrCreate(&m).Error; err != nil {
		return nil, translate(err, "account type", domain.ErrRoleNotFound, nil)
	}
	return m.toDomain(), nil
}

func (r *RoleRepository) Update(ctx context.Context, role *domain.Role) error {
	res := r.db.WithContext(ctx).Model(&roleModel{ID: role.ID}).Update("name", role.Name)
	if res.Error != nil {
		return translate(res.Error, "account type", domain.ErrRoleNotFound, nil)
	}
	return nil
}

// Delete checks for referencing accounts inside the transaction; the foreign
// key restrict is the backstop for concurrent inserts.
func (r *RoleRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var inUse int64
		if err := tx.Model(&accountModel{}).Where("account_type_id = ?", id).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return domain.ErrRoleInUse
		}

		res := tx.Delete(&roleModel{}, id)
		if res.Error != nil {
			return translate(res.Error, "account type", domain.ErrRoleNotFound, domain.ErrRoleInUse)
		}
		if res.RowsAffected == 0 {
			return domain.ErrRoleNotFound
		}
		return nil
	})
}
