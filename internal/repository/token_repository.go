package repository

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"colloquium/backstage/internal/models/entities"
)

const entityToken = "token"

// TokenFilter selects activation tokens by value and vacancy.
type TokenFilter struct {
	Token  Field[string]
	Vacant Field[bool]
}

func (f TokenFilter) Clauses() []Clause {
	var cs []Clause
	cs = appendClause(cs, f.Token, "token")
	cs = appendClause(cs, f.Vacant, "vacant")
	return cs
}

type TokenChanges struct {
	Vacant Field[bool]
}

type TokenRepository struct {
	db *gorm.DB
}

func NewTokenRepository(db *gorm.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

func (r *TokenRepository) GetAll(ctx context.Context, f TokenFilter) ([]entities.Token, error) {
	return getAll[entities.Token](ctx, r.db, f)
}

func (r *TokenRepository) GetOne(ctx context.Context, f TokenFilter) (*entities.Token, error) {
	return getOne[entities.Token](ctx, r.db, f)
}

func (r *TokenRepository) Add(ctx context.Context, tokens ...entities.Token) ([]entities.Token, error) {
	values, err := columnSet[string](ctx, r.db, &entities.Token{}, "token")
	if err != nil {
		return nil, err
	}

	added := make([]entities.Token, 0, len(tokens))
	for _, t := range tokens {
		if t.Token == "" {
			return added, &MissingFieldError{Entity: entityToken, Field: "token"}
		}
		if _, dup := values[t.Token]; dup {
			return added, &DuplicateValueError{Entity: entityToken, Field: "token", Value: t.Token}
		}

		if err := r.db.WithContext(ctx).Create(&t).Error; err != nil {
			return added, fmt.Errorf("failed to persist token: %w", err)
		}
		values[t.Token] = struct{}{}
		added = append(added, t)
	}
	return added, nil
}

func (r *TokenRepository) Update(ctx context.Context, f TokenFilter, ch TokenChanges) error {
	tx, n := applyFilter(r.db.WithContext(ctx).Model(&entities.Token{}), f)
	if n == 0 {
		return nil
	}
	v, ok := ch.Vacant.Get()
	if !ok {
		return nil
	}
	if err := tx.Update("vacant", v).Error; err != nil {
		return fmt.Errorf("failed to update tokens: %w", err)
	}
	return nil
}

func (r *TokenRepository) Delete(ctx context.Context, f TokenFilter) error {
	return deleteAll[entities.Token](ctx, r.db, f)
}
