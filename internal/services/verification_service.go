package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"colloquium/backstage/internal/logging"
	"colloquium/backstage/internal/models/entities"
	"colloquium/backstage/internal/repository"
)

// ErrVerificationInvalid is returned for expired, malformed, or replayed
// verification links.
var ErrVerificationInvalid = errors.New("verification link is invalid")

type verificationClaims struct {
	UID    string `json:"uid"`
	ChatID int64  `json:"chat_id"`
	Nonce  string `json:"nonce"`
	jwt.RegisteredClaims
}

// VerificationService issues signed email-verification links and links a
// chat id to a user when the recipient clicks through. Each link carries
// a one-shot nonce stored in Redis, so a link cannot be replayed even
// inside its signature lifetime.
type VerificationService struct {
	secret  []byte
	redis   *redis.Client
	mailer  Mailer
	users   *repository.UserRepository
	baseURL string
	ttl     time.Duration
}

func NewVerificationService(
	secret []byte,
	redisClient *redis.Client,
	mailer Mailer,
	users *repository.UserRepository,
	baseURL string,
	ttl time.Duration,
) *VerificationService {
	return &VerificationService{
		secret:  secret,
		redis:   redisClient,
		mailer:  mailer,
		users:   users,
		baseURL: baseURL,
		ttl:     ttl,
	}
}

func nonceKey(nonce string) string { return "verify:" + nonce }

// IssueLink signs a verification link for the user with the given email
// and mails it to them. Returns the link for logging and tests.
func (s *VerificationService) IssueLink(ctx context.Context, email string, chatID int64) (string, error) {
	user, err := s.users.GetOne(ctx, repository.UserFilter{UID: repository.Value(email)})
	if err != nil {
		return "", err
	}
	if user == nil {
		return "", ErrUnknownUser
	}

	nonce := uuid.NewString()
	if err := s.redis.Set(ctx, nonceKey(nonce), email, s.ttl).Err(); err != nil {
		return "", fmt.Errorf("failed to store verification nonce: %w", err)
	}

	claims := verificationClaims{
		UID:    email,
		ChatID: chatID,
		Nonce:  nonce,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(s.ttl)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign verification token: %w", err)
	}

	link := fmt.Sprintf("%s/verify?token=%s", s.baseURL, signed)
	body := fmt.Sprintf("Hello %s,\n\nFollow this link to confirm your email:\n%s\n", user.SNP, link)
	if err := s.mailer.SendMail(ctx, email, "Confirm your email", body); err != nil {
		return "", fmt.Errorf("failed to send verification mail: %w", err)
	}

	logging.Info("verification link issued", "uid", email)
	return link, nil
}

// Verify validates a clicked link, consumes its nonce, and links the chat
// id carried in the claims to the user.
func (s *VerificationService) Verify(ctx context.Context, tokenString string) (*entities.User, error) {
	var claims verificationClaims
	token, err := jwt.ParseWithClaims(tokenString, &claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrVerificationInvalid
	}

	// Consume the nonce atomically so a link verifies exactly once.
	deleted, err := s.redis.Del(ctx, nonceKey(claims.Nonce)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to consume verification nonce: %w", err)
	}
	if deleted == 0 {
		return nil, ErrVerificationInvalid
	}

	err = s.users.Update(ctx,
		repository.UserFilter{UID: repository.Value(claims.UID)},
		repository.UserChanges{TgChatID: repository.Value(claims.ChatID)})
	if err != nil {
		return nil, err
	}

	logging.Info("email verified", "uid", claims.UID)
	return s.users.GetOne(ctx, repository.UserFilter{UID: repository.Value(claims.UID)})
}
