package user

import (
	"context"
	"errors"
	"testing"
)

type fakeUserRepo struct {
	byID    map[string]*User
	byEmail map[string]*User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{byID: make(map[string]*User), byEmail: make(map[string]*User)}
}

func (r *fakeUserRepo) GetByID(ctx context.Context, id string) (*User, error) {
	u, ok := r.byID[id]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*User, error) {
	u, ok := r.byEmail[email]
	if !ok {
		return nil, ErrUserNotFound
	}
	copied := *u
	return &copied, nil
}

func (r *fakeUserRepo) Create(ctx context.Context, u *User) error {
	if _, ok := r.byEmail[u.Email]; ok {
		return ErrEmailTaken
	}
	copied := *u
	r.byID[u.ID] = &copied
	r.byEmail[u.Email] = &copied
	return nil
}

func (r *fakeUserRepo) Update(ctx context.Context, u *User) error {
	if _, ok := r.byID[u.ID]; !ok {
		return ErrUserNotFound
	}
	copied := *u
	r.byID[u.ID] = &copied
	r.byEmail[u.Email] = &copied
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) Generate(userID string) (string, error) {
	return "token-" + userID, nil
}

func TestRegisterAndLogin(t *testing.T) {
	svc := NewService(newFakeUserRepo(), fakeIssuer{})

	session, err := svc.Register(context.Background(), "Ana@Example.com", "Ana", "correct horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if session.User.Email != "ana@example.com" {
		t.Errorf("expected normalized email, got %q", session.User.Email)
	}
	if session.Token == "" {
		t.Error("expected a session token")
	}

	login, err := svc.Login(context.Background(), "ana@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if login.User.ID != session.User.ID {
		t.Error("expected the same user")
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	svc := NewService(newFakeUserRepo(), fakeIssuer{})

	if _, err := svc.Register(context.Background(), "ana@example.com", "Ana", "correct horse"); err != nil {
		t.Fatalf("register: %v", err)
	}
	_, err := svc.Register(context.Background(), "ANA@example.com", "Other", "correct horse")
	if !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}
}

func TestRegisterWeakPassword(t *testing.T) {
	svc := NewService(newFakeUserRepo(), fakeIssuer{})

	_, err := svc.Register(context.Background(), "ana@example.com", "Ana", "short")
	if !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestLoginDoesNotLeakWhichPartFailed(t *testing.T) {
	svc := NewService(newFakeUserRepo(), fakeIssuer{})

	if _, err := svc.Register(context.Background(), "ana@example.com", "Ana", "correct horse"); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, badPassword := svc.Login(context.Background(), "ana@example.com", "wrong password")
	_, unknownEmail := svc.Login(context.Background(), "nobody@example.com", "correct horse")
	if !errors.Is(badPassword, ErrInvalidCredentials) || !errors.Is(unknownEmail, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for both, got %v and %v", badPassword, unknownEmail)
	}
}
