package usecase_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"go.uber.org/mock/gomock"

	"github.com/tellergo/teller/internal/domain"
	"github.com/tellergo/teller/internal/usecase"
	"github.com/tellergo/teller/internal/usecase/mocks"
)

func newSessionFixture(t *testing.T) (*usecase.SessionUseCase, *mocks.MockSessionRepository, *mocks.MockUserRepository) {
	ctrl := gomock.NewController(t)

	sessionRepo := mocks.NewMockSessionRepository(ctrl)
	userRepo := mocks.NewMockUserRepository(ctrl)

	uc := usecase.NewSessionUseCase(
		sessionRepo,
		userRepo,
		mocks.NewMockTokenGenerator(),
		24*time.Hour,
		zerolog.Nop(),
	)

	return uc, sessionRepo, userRepo
}

func TestSessionIssue(t *testing.T) {
	uc, sessionRepo, _ := newSessionFixture(t)

	var created *domain.Session
	sessionRepo.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, s *domain.Session) error {
			created = s
			return nil
		})

	session, err := uc.Issue(context.Background(), "user-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if session.UserID != "user-1" || session.Token == "" {
		t.Fatalf("unexpected session: %+v", session)
	}

	wantExpiry := session.CreatedAt.Add(24 * time.Hour)
	if !session.ExpiresAt.Equal(wantExpiry) {
		t.Errorf("expected expiry %s, got %s", wantExpiry, session.ExpiresAt)
	}

	if created == nil || created.Token != session.Token {
		t.Error("expected session persisted")
	}
}

func TestSessionValidate(t *testing.T) {
	now := time.Now().UTC()

	tests := []struct {
		name    string
		token   string
		session *domain.Session
		repoErr error
		wantErr error
	}{
		{
			name:    "valid token",
			token:   "tok-1",
			session: &domain.Session{Token: "tok-1", UserID: "user-1", ExpiresAt: now.Add(time.Hour)},
		},
		{
			name:    "unknown token",
			token:   "tok-missing",
			repoErr: domain.ErrSessionNotFound,
			wantErr: domain.ErrUnauthenticated,
		},
		{
			name:    "expired token",
			token:   "tok-old",
			session: &domain.Session{Token: "tok-old", UserID: "user-1", ExpiresAt: now.Add(-time.Minute)},
			wantErr: domain.ErrUnauthenticated,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc, sessionRepo, userRepo := newSessionFixture(t)

			sessionRepo.EXPECT().
				GetByToken(gomock.Any(), tt.token).
				Return(tt.session, tt.repoErr)

			if tt.wantErr == nil {
				userRepo.EXPECT().
					GetByID(gomock.Any(), "user-1").
					Return(&domain.User{ID: "user-1", Role: domain.RoleCustomer, HashedPassword: "secret"}, nil)
			}

			user, err := uc.Validate(context.Background(), tt.token)

			if tt.wantErr != nil {
				if err != tt.wantErr {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if user.ID != "user-1" {
				t.Errorf("expected user-1, got %s", user.ID)
			}

			if user.HashedPassword != "" {
				t.Error("hashed password must not leak through validation")
			}
		})
	}
}

func TestSessionValidateEmptyToken(t *testing.T) {
	uc, _, _ := newSessionFixture(t)

	if _, err := uc.Validate(context.Background(), ""); err != domain.ErrUnauthenticated {
		t.Fatalf("expected ErrUnauthenticated, got %v", err)
	}
}

func TestSessionRevoke(t *testing.T) {
	uc, sessionRepo, _ := newSessionFixture(t)

	sessionRepo.EXPECT().Delete(gomock.Any(), "tok-1").Return(nil)

	if err := uc.Revoke(context.Background(), "tok-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestSessionRevokeUnknownTokenIsNoop(t *testing.T) {
	uc, sessionRepo, _ := newSessionFixture(t)

	sessionRepo.EXPECT().Delete(gomock.Any(), "tok-gone").Return(domain.ErrSessionNotFound)

	if err := uc.Revoke(context.Background(), "tok-gone"); err != nil {
		t.Fatalf("expected revoking unknown token to succeed, got %v", err)
	}
}

func TestSessionSweep(t *testing.T) {
	uc, sessionRepo, _ := newSessionFixture(t)

	sessionRepo.EXPECT().
		DeleteExpired(gomock.Any(), gomock.Any()).
		Return(int64(3), nil)

	removed, err := uc.Sweep(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if removed != 3 {
		t.Errorf("expected 3 removed, got %d", removed)
	}
}
