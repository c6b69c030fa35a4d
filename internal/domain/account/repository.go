package account

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error
	GetByUserID(ctx context.Context, userID string) (*Account, error)
	Get(ctx context.Context, username, userID string) (*Account, error)
	List(ctx context.Context) ([]Account, error)
	Create(ctx context.Context, account *Account) error
}
