package services

import (
	"context"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"github.com/shashiranjanraj/vastra/pkg/errs"
)

// fakeUserStore keeps users in a map keyed by email.
type fakeUserStore struct {
	byEmail map[string]models.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{byEmail: map[string]models.User{}}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) error {
	if _, exists := f.byEmail[user.Email]; exists {
		return errs.ErrDuplicateEmail
	}
	user.ID = primitive.NewObjectID()
	f.byEmail[user.Email] = *user
	return nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (models.User, error) {
	u, ok := f.byEmail[email]
	if !ok {
		return models.User{}, errs.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id string) (models.User, error) {
	if _, err := primitive.ObjectIDFromHex(id); err != nil {
		return models.User{}, errs.ErrInvalidID
	}
	for _, u := range f.byEmail {
		if u.ID.Hex() == id {
			return u, nil
		}
	}
	return models.User{}, errs.ErrNotFound
}

func TestRegisterIssuesValidToken(t *testing.T) {
	svc := NewAuthService(newFakeUserStore())

	user, token, err := svc.Register(context.Background(), "Priya", "priya@example.com", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if user.ID.IsZero() {
		t.Error("user has no ID")
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("issued token invalid: %v", err)
	}
	if claims.Subject != user.ID.Hex() {
		t.Errorf("token subject = %q, want %q", claims.Subject, user.ID.Hex())
	}
}

func TestRegisterHashesPassword(t *testing.T) {
	store := newFakeUserStore()
	svc := NewAuthService(store)

	if _, _, err := svc.Register(context.Background(), "Priya", "priya@example.com", "secret123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	stored := store.byEmail["priya@example.com"]
	if stored.Password == "secret123" {
		t.Error("password stored in plain text")
	}
	if !auth.CheckPassword(stored.Password, "secret123") {
		t.Error("stored hash does not verify")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewAuthService(newFakeUserStore())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "Priya", "priya@example.com", "secret123"); err != nil {
		t.Fatalf("first Register: %v", err)
	}
	_, _, err := svc.Register(ctx, "Other", "priya@example.com", "different1")
	if !errors.Is(err, errs.ErrDuplicateEmail) {
		t.Errorf("err = %v, want ErrDuplicateEmail", err)
	}
}

func TestLoginRoundtrip(t *testing.T) {
	svc := NewAuthService(newFakeUserStore())
	ctx := context.Background()

	registered, _, err := svc.Register(ctx, "Priya", "priya@example.com", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	user, token, err := svc.Login(ctx, "priya@example.com", "secret123")
	if err != nil {
		t.Fatalf("Login: %v", err)
	}
	if user.ID != registered.ID {
		t.Error("login returned a different user")
	}
	if token == "" {
		t.Error("login returned no token")
	}
}

// Wrong password and unknown email must be indistinguishable.
func TestLoginFailureShape(t *testing.T) {
	svc := NewAuthService(newFakeUserStore())
	ctx := context.Background()

	if _, _, err := svc.Register(ctx, "Priya", "priya@example.com", "secret123"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	_, _, wrongPass := svc.Login(ctx, "priya@example.com", "wrong-password")
	_, _, unknownEmail := svc.Login(ctx, "nobody@example.com", "secret123")

	if !errors.Is(wrongPass, errs.ErrInvalidCredentials) {
		t.Errorf("wrong password err = %v, want ErrInvalidCredentials", wrongPass)
	}
	if !errors.Is(unknownEmail, errs.ErrInvalidCredentials) {
		t.Errorf("unknown email err = %v, want ErrInvalidCredentials", unknownEmail)
	}
}

func TestMeResolvesTokenSubject(t *testing.T) {
	svc := NewAuthService(newFakeUserStore())
	ctx := context.Background()

	registered, token, err := svc.Register(ctx, "Priya", "priya@example.com", "secret123")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}

	claims, err := auth.ValidateToken(token)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}

	me, err := svc.Me(ctx, claims.Subject)
	if err != nil {
		t.Fatalf("Me: %v", err)
	}
	if me.ID != registered.ID {
		t.Error("Me resolved to a different user")
	}
}
