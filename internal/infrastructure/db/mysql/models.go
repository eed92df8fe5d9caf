package mysql

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/snipbox/snippet-api/internal/core/domain"
)

type roleModel struct {
	ID        int64  `gorm:"primaryKey"`
	Name      string `gorm:"size:24;not null;uniqueIndex"`
	Immutable bool   `gorm:"not null;default:false"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (roleModel) TableName() string { return "account_types" }

type accountModel struct {
	ID           int64          `gorm:"primaryKey"`
	Username     string         `gorm:"size:16;not null;uniqueIndex"`
	Email        string         `gorm:"size:255;not null;uniqueIndex"`
	PasswordHash string         `gorm:"size:60;not null"`
	RoleID       int64          `gorm:"column:account_type_id;not null;index"`
	Role         *roleModel     `gorm:"foreignKey:RoleID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
	Snippets     []snippetModel `gorm:"foreignKey:AuthorID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

func (accountModel) TableName() string { return "accounts" }

// snippetModel keeps a SHA-256 digest of the body so that per-author body
// uniqueness can be enforced with a bounded index.
type snippetModel struct {
	ID        int64         `gorm:"primaryKey"`
	AuthorID  int64         `gorm:"not null;uniqueIndex:idx_snippets_author_name;uniqueIndex:idx_snippets_author_body"`
	Name      string        `gorm:"size:24;not null;uniqueIndex:idx_snippets_author_name"`
	Body      string        `gorm:"type:text;not null"`
	BodyHash  string        `gorm:"size:64;not null;uniqueIndex:idx_snippets_author_body"`
	Author    *accountModel `gorm:"foreignKey:AuthorID"`
	CreatedAt time.Time     `gorm:"index"`
	UpdatedAt time.Time     `gorm:"index"`
}

func (snippetModel) TableName() string { return "snippets" }

func bodyHash(body string) string {
	sum := sha256.Sum256([]byte(body))
	return hex.EncodeToString(sum[:])
}

// likeEscape is the LIKE escape character. MySQL and SQLite disagree on how a
// backslash is written inside a string literal, so a plain character is used.
const likeEscape = "!"

// likePattern wraps s for a substring LIKE match, escaping wildcards. Pair it
// with an ESCAPE '!' clause.
func likePattern(s string) string {
	r := strings.NewReplacer(likeEscape, likeEscape+likeEscape, `%`, likeEscape+`%`, `_`, likeEscape+`_`)
	return "%" + r.Replace(s) + "%"
}

// translate maps GORM errors onto domain sentinels. A foreign key violation
// becomes refErr: the missing parent on writes, the referencing rows on
// deletes. A nil refErr leaves the violation untouched.
func translate(err error, entity string, notFound, refErr error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return notFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return fmt.Errorf("%s %w", entity, domain.ErrConflict)
	case refErr != nil && errors.Is(err, gorm.ErrForeignKeyViolated):
		return refErr
	default:
		return err
	}
}

func (m *roleModel) toDomain() *domain.Role {
	if m == nil {
		return nil
	}
	return &domain.Role{ID: m.ID, Name: m.Name, Immutable: m.Immutable}
}

func (m *accountModel) toDomain() *domain.Account {
	a := &domain.Account{
		ID:           m.ID,
		Username:     m.Username,
		Email:        m.Email,
		PasswordHash: m.PasswordHash,
		RoleID:       m.RoleID,
		Role:         m.Role.toDomain(),
		CreatedAt:    m.CreatedAt,
		UpdatedAt:    m.UpdatedAt,
	}
	if m.Snippets != nil {
		a.Snippets = make([]domain.Snippet, 0, len(m.Snippets))
		for i := range m.Snippets {
			a.Snippets = append(a.Snippets, *m.Snippets[i].toDomain())
		}
	}
	return a
}

func (m *snippetModel) toDomain() *domain.Snippet {
	s := &domain.Snippet{
		ID:        m.ID,
		OwnerID:   m.AuthorID,
		Name:      m.Name,
		Body:      m.Body,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
	if m.Author != nil {
		s.Author = m.Author.toDomain()
	}
	return s
}

func newSnippetModel(s *domain.Snippet) *snippetModel {
	return &snippetModel{
		ID:       s.ID,
		AuthorID: s.OwnerID,
		Name:     s.Name,
		Body:     s.Body,
		BodyHash: bodyHash(s.Body),
	}
}
