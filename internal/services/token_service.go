package services

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"colloquium/backstage/internal/logging"
	"colloquium/backstage/internal/models/entities"
	"colloquium/backstage/internal/repository"
)

var (
	// ErrTokenNotVacant is returned when the presented token does not
	// exist or has already been redeemed.
	ErrTokenNotVacant = errors.New("token is not vacant")
	// ErrUnknownUser is returned when the email presented with a token
	// does not belong to a stored user.
	ErrUnknownUser = errors.New("no user with this email")
)

// TokenService issues and redeems one-shot moderator activation tokens.
type TokenService struct {
	tokens *repository.TokenRepository
	users  *repository.UserRepository
}

func NewTokenService(tokens *repository.TokenRepository, users *repository.UserRepository) *TokenService {
	return &TokenService{tokens: tokens, users: users}
}

// Issue creates n vacant tokens and returns their values.
func (s *TokenService) Issue(ctx context.Context, n int) ([]string, error) {
	records := make([]entities.Token, n)
	for i := range records {
		records[i] = entities.Token{Token: uuid.NewString(), Vacant: true}
	}
	added, err := s.tokens.Add(ctx, records...)
	if err != nil {
		return nil, err
	}
	values := make([]string, len(added))
	for i, t := range added {
		values[i] = t.Token
	}
	return values, nil
}

// Redeem consumes a vacant token and promotes the user with the given
// email to moderator, linking their chat id. The token is only consumed
// when the user exists.
func (s *TokenService) Redeem(ctx context.Context, token, email string, chatID int64) (*entities.User, error) {
	vacant, err := s.tokens.GetOne(ctx, repository.TokenFilter{
		Token:  repository.Value(token),
		Vacant: repository.Value(true),
	})
	if err != nil {
		return nil, err
	}
	if vacant == nil {
		return nil, ErrTokenNotVacant
	}

	user, err := s.users.GetOne(ctx, repository.UserFilter{UID: repository.Value(email)})
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUnknownUser
	}

	err = s.users.Update(ctx,
		repository.UserFilter{UID: repository.Value(email)},
		repository.UserChanges{
			IsAdmin:  repository.Value(true),
			TgChatID: repository.Value(chatID),
		})
	if err != nil {
		return nil, err
	}

	err = s.tokens.Update(ctx,
		repository.TokenFilter{Token: repository.Value(token)},
		repository.TokenChanges{Vacant: repository.Value(false)})
	if err != nil {
		return nil, err
	}

	logging.Info("moderator token redeemed", "uid", email)
	return s.users.GetOne(ctx, repository.UserFilter{UID: repository.Value(email)})
}
