package account

import (
	"context"
	"errors"
	"testing"
)

type fakeAccountRepo struct {
	accounts []*Account
	nextID   uint
}

func newFakeAccountRepo() *fakeAccountRepo {
	return &fakeAccountRepo{}
}

func (r *fakeAccountRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeAccountRepo) GetByUserID(ctx context.Context, userID string) (*Account, error) {
	for _, acc := range r.accounts {
		if acc.UserID == userID {
			return acc, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *fakeAccountRepo) Get(ctx context.Context, username, userID string) (*Account, error) {
	for _, acc := range r.accounts {
		if acc.Username == username && acc.UserID == userID {
			return acc, nil
		}
	}
	return nil, ErrAccountNotFound
}

func (r *fakeAccountRepo) List(ctx context.Context) ([]Account, error) {
	result := make([]Account, 0, len(r.accounts))
	for _, acc := range r.accounts {
		result = append(result, *acc)
	}
	return result, nil
}

func (r *fakeAccountRepo) Create(ctx context.Context, account *Account) error {
	r.nextID++
	account.ID = r.nextID
	r.accounts = append(r.accounts, account)
	return nil
}

func TestSignInRequiresUsername(t *testing.T) {
	service := NewService(newFakeAccountRepo())

	_, _, err := service.SignIn(context.Background(), SignInInput{Username: "  "})
	if !errors.Is(err, ErrUsernameMissing) {
		t.Fatalf("got %v, want ErrUsernameMissing", err)
	}
}

func TestSignInCreatesAccountWithSuppliedID(t *testing.T) {
	service := NewService(newFakeAccountRepo())

	acc, created, err := service.SignIn(context.Background(), SignInInput{Username: "alice", UserID: "client-id-1"})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if !created {
		t.Error("expected account to be created")
	}
	if acc.UserID != "client-id-1" {
		t.Errorf("user_id = %q, want client-id-1", acc.UserID)
	}
}

func TestSignInExistingAccountIsNotDuplicated(t *testing.T) {
	repo := newFakeAccountRepo()
	service := NewService(repo)
	ctx := context.Background()

	input := SignInInput{Username: "alice", UserID: "client-id-1"}
	if _, _, err := service.SignIn(ctx, input); err != nil {
		t.Fatalf("first sign in: %v", err)
	}

	acc, created, err := service.SignIn(ctx, input)
	if err != nil {
		t.Fatalf("second sign in: %v", err)
	}
	if created {
		t.Error("second sign in must not create a new account")
	}
	if acc.UserID != "client-id-1" {
		t.Errorf("user_id = %q, want client-id-1", acc.UserID)
	}
	if len(repo.accounts) != 1 {
		t.Errorf("accounts = %d, want 1", len(repo.accounts))
	}
}

func TestGuestSignInGeneratesID(t *testing.T) {
	service := NewService(newFakeAccountRepo())

	acc, created, err := service.SignIn(context.Background(), SignInInput{
		Username: "guest1",
		UserID:   "ignored-client-id",
		Guest:    true,
	})
	if err != nil {
		t.Fatalf("sign in: %v", err)
	}
	if !created {
		t.Error("expected account to be created")
	}
	if len(acc.UserID) != 64 {
		t.Errorf("user_id length = %d, want 64", len(acc.UserID))
	}
	if acc.UserID == "ignored-client-id" {
		t.Error("guest sign-in must ignore the supplied user id")
	}
}

func TestGuestSignInsShareUsername(t *testing.T) {
	repo := newFakeAccountRepo()
	service := NewService(repo)
	ctx := context.Background()

	first, _, err := service.SignIn(ctx, SignInInput{Username: "guest1", Guest: true})
	if err != nil {
		t.Fatalf("first sign in: %v", err)
	}
	second, _, err := service.SignIn(ctx, SignInInput{Username: "guest1", Guest: true})
	if err != nil {
		t.Fatalf("second sign in: %v", err)
	}

	if first.UserID == second.UserID {
		t.Error("two guest sessions must get distinct user ids")
	}
	if len(repo.accounts) != 2 {
		t.Errorf("accounts = %d, want 2", len(repo.accounts))
	}
}
