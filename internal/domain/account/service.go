package account

import (
	"context"
	"crypto/rand"
	"errors"
	"math/big"
	"strings"
)

const userIDLength = 64

type Service struct {
	repo Repository
}

func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// SignInInput carries the sign-in request fields. Guest sign-ins and
// requests without a user id get a server-generated identifier; a
// client-supplied id is ignored when Guest is set.
type SignInInput struct {
	Username string
	UserID   string
	Guest    bool
}

// SignIn gets or creates the account keyed on (username, user_id). The same
// username with a different id yields a second account, which is how
// multiple guest sessions share one display name.
func (s *Service) SignIn(ctx context.Context, input SignInInput) (*Account, bool, error) {
	username := strings.TrimSpace(input.Username)
	if username == "" {
		return nil, false, ErrUsernameMissing
	}

	userID := strings.TrimSpace(input.UserID)
	if input.Guest || userID == "" {
		generated, err := generateUserID()
		if err != nil {
			return nil, false, err
		}
		userID = generated
	}

	var (
		result  *Account
		created bool
	)
	err := s.repo.Transaction(ctx, func(tx Repository) error {
		existing, err := tx.Get(ctx, username, userID)
		if err == nil {
			result = existing
			return nil
		}
		if !errors.Is(err, ErrAccountNotFound) {
			return err
		}

		acc := Account{UserID: userID, Username: username}
		if err := tx.Create(ctx, &acc); err != nil {
			return err
		}
		result = &acc
		created = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}

	return result, created, nil
}

func (s *Service) GetByUserID(ctx context.Context, userID string) (*Account, error) {
	return s.repo.GetByUserID(ctx, userID)
}

func (s *Service) ListAccounts(ctx context.Context) ([]Account, error) {
	return s.repo.List(ctx)
}

func generateUserID() (string, error) {
	const alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	max := big.NewInt(int64(len(alphabet)))

	var builder strings.Builder
	builder.Grow(userIDLength)

	for i := 0; i < userIDLength; i++ {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		builder.WriteByte(alphabet[n.Int64()])
	}

	return builder.String(), nil
}
