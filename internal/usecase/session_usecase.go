package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/tellergo/teller/internal/domain"
)

// SessionUseCase issues, validates, and revokes opaque bearer tokens. A
// token proves an authenticated session by lookup; nothing is encoded in it.
type SessionUseCase struct {
	sessionRepo SessionRepository
	userRepo    UserRepository
	tokenGen    TokenGenerator
	ttl         time.Duration
	logger      zerolog.Logger
}

// NewSessionUseCase creates a new SessionUseCase.
func NewSessionUseCase(
	sessionRepo SessionRepository,
	userRepo UserRepository,
	tokenGen TokenGenerator,
	ttl time.Duration,
	logger zerolog.Logger,
) *SessionUseCase {
	return &SessionUseCase{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
		tokenGen:    tokenGen,
		ttl:         ttl,
		logger:      logger,
	}
}

// Issue creates a session for the user, valid for the configured window.
func (uc *SessionUseCase) Issue(ctx context.Context, userID string) (*domain.Session, error) {
	now := time.Now().UTC()

	session := &domain.Session{
		Token:     uc.tokenGen.Generate(),
		UserID:    userID,
		ExpiresAt: now.Add(uc.ttl),
		CreatedAt: now,
	}

	if err := uc.sessionRepo.Create(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

// Validate returns the identity bound to the token iff the session exists
// and has not expired. Expiry is checked here, so correctness never depends
// on the purge sweep having run.
func (uc *SessionUseCase) Validate(ctx context.Context, token string) (*domain.User, error) {
	if token == "" {
		return nil, domain.ErrUnauthenticated
	}

	session, err := uc.sessionRepo.GetByToken(ctx, token)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}

	if session.IsExpired(time.Now().UTC()) {
		return nil, domain.ErrUnauthenticated
	}

	user, err := uc.userRepo.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, err
	}

	user.HashedPassword = ""

	return user, nil
}

// Revoke invalidates a single token immediately.
func (uc *SessionUseCase) Revoke(ctx context.Context, token string) error {
	err := uc.sessionRepo.Delete(ctx, token)
	if errors.Is(err, domain.ErrSessionNotFound) {
		// Revoking an unknown or already-revoked token is a no-op.
		return nil
	}

	return err
}

// Sweep purges expired sessions. Storage hygiene only.
func (uc *SessionUseCase) Sweep(ctx context.Context) (int64, error) {
	return uc.sessionRepo.DeleteExpired(ctx, time.Now().UTC())
}

// RunSweeper runs the purge sweep at the given interval until ctx is done.
func (uc *SessionUseCase) RunSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := uc.Sweep(ctx)
			if err != nil {
				uc.logger.Warn().Err(err).Msg("session sweep failed")
				continue
			}

			if removed > 0 {
				uc.logger.Info().Int64("removed", removed).Msg("purged expired sessions")
			}
		}
	}
}
