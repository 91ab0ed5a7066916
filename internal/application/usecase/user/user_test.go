package user

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/myeconomy/backend/internal/domain/entity"
	domainerror "github.com/myeconomy/backend/internal/domain/error"
)

type fakeUserRepository struct {
	users   map[uuid.UUID]*entity.User
	updates int
}

func (f *fakeUserRepository) Create(_ context.Context, user *entity.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepository) FindByID(_ context.Context, id uuid.UUID) (*entity.User, error) {
	if u, ok := f.users[id]; ok {
		return u, nil
	}
	return nil, domainerror.ErrUserNotFound
}

func (f *fakeUserRepository) FindByEmail(_ context.Context, _ string) (*entity.User, error) {
	return nil, domainerror.ErrUserNotFound
}

func (f *fakeUserRepository) Update(_ context.Context, user *entity.User) error {
	f.updates++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepository) Delete(_ context.Context, id uuid.UUID) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepository) ExistsByEmail(_ context.Context, _ string) (bool, error) {
	return false, nil
}

var (
	createdAt = time.Date(2024, time.January, 10, 0, 0, 0, 0, time.UTC)
	updatedAt = time.Date(2024, time.June, 15, 9, 30, 0, 0, time.UTC)
)

func newRepoWithUser() (*fakeUserRepository, *entity.User) {
	u := entity.NewUser("ana@example.com", "Ana Souza", "", time.Date(1990, 3, 2, 0, 0, 0, 0, time.UTC), "hash", createdAt)
	return &fakeUserRepository{users: map[uuid.UUID]*entity.User{u.ID: u}}, u
}

func strPtr(s string) *string { return &s }

func TestGetCurrentUser(t *testing.T) {
	repo, u := newRepoWithUser()
	uc := NewGetCurrentUserUseCase(repo)

	got, err := uc.Execute(context.Background(), u.ID)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Nickname != "Ana" {
		t.Errorf("expected default nickname Ana, got %q", got.Nickname)
	}

	_, err = uc.Execute(context.Background(), uuid.New())
	var authErr *domainerror.AuthError
	if !errors.As(err, &authErr) || authErr.Code != domainerror.ErrCodeUserNotFound {
		t.Errorf("expected user not found, got %v", err)
	}
}

func TestUpdateProfile(t *testing.T) {
	tests := []struct {
		name         string
		input        UpdateProfileInput
		wantName     string
		wantNickname string
		wantCode     domainerror.AuthErrorCode
	}{
		{"rename", UpdateProfileInput{Name: strPtr(" Ana Lima ")}, "Ana Lima", "Ana", ""},
		{"nickname", UpdateProfileInput{Nickname: strPtr("Aninha")}, "Ana Souza", "Aninha", ""},
		{"blank nickname resets to first name", UpdateProfileInput{Name: strPtr("Beatriz Costa"), Nickname: strPtr(" ")}, "Beatriz Costa", "Beatriz", ""},
		{"blank name", UpdateProfileInput{Name: strPtr("   ")}, "", "", domainerror.ErrCodeInvalidName},
		{"nothing to update", UpdateProfileInput{}, "", "", domainerror.ErrCodeMissingFields},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo, u := newRepoWithUser()
			uc := NewUpdateProfileUseCase(repo, func() time.Time { return updatedAt })

			input := tt.input
			input.UserID = u.ID
			got, err := uc.Execute(context.Background(), input)

			if tt.wantCode != "" {
				var authErr *domainerror.AuthError
				if !errors.As(err, &authErr) || authErr.Code != tt.wantCode {
					t.Fatalf("expected code %s, got %v", tt.wantCode, err)
				}
				if repo.updates != 0 {
					t.Errorf("user must not be updated")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Name != tt.wantName || got.Nickname != tt.wantNickname {
				t.Errorf("got %q/%q, want %q/%q", got.Name, got.Nickname, tt.wantName, tt.wantNickname)
			}
			if !got.UpdatedAt.Equal(updatedAt) {
				t.Errorf("expected UpdatedAt %v, got %v", updatedAt, got.UpdatedAt)
			}
		})
	}
}
