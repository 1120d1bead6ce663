package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"

	"github.com/fastygo/gac-shell/domain"
	"github.com/fastygo/gac-shell/pkg/httpcontext"
	"github.com/fastygo/gac-shell/pkg/token"
	"github.com/fastygo/gac-shell/repository"
)

// Grant is an issued session together with the token that references it.
type Grant struct {
	Session *domain.Session `json:"session"`
	Token   string          `json:"token"`
}

type UseCase struct {
	users    repository.UserRepository
	sessions repository.SessionRepository
	signer   *token.Signer
	clock    clockwork.Clock
	logger   *zap.Logger
}

func New(users repository.UserRepository, sessions repository.SessionRepository, signer *token.Signer, clock clockwork.Clock, logger *zap.Logger) *UseCase {
	if logger == nil {
		logger = zap.NewNop()
	}
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &UseCase{
		users:    users,
		sessions: sessions,
		signer:   signer,
		clock:    clock,
		logger:   logger,
	}
}

func (uc *UseCase) CreateSession(ctx context.Context, userID string, ttl time.Duration) (*Grant, error) {
	user, err := uc.users.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsActive() {
		return nil, domain.ErrUnauthorized
	}

	now := uc.clock.Now()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := uc.sessions.Save(ctx, session); err != nil {
		return nil, err
	}
	return uc.grant(session)
}

func (uc *UseCase) GetSession(ctx context.Context, sessionID string) (*domain.Session, error) {
	session, err := uc.sessions.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if session.IsExpired(uc.clock.Now()) {
		_ = uc.sessions.Delete(ctx, sessionID)
		return nil, domain.ErrSessionNotFound
	}
	return session, nil
}

// RefreshSession extends a live session and reissues its token.
func (uc *UseCase) RefreshSession(ctx context.Context, sessionID string, ttl time.Duration) (*Grant, error) {
	session, err := uc.GetSession(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if err := uc.sessions.Extend(ctx, sessionID, ttl); err != nil {
		return nil, err
	}
	session.ExpiresAt = uc.clock.Now().Add(ttl)
	return uc.grant(session)
}

func (uc *UseCase) RevokeSession(ctx context.Context, sessionID string) error {
	return uc.sessions.Delete(ctx, sessionID)
}

// EnsureUser creates or refreshes a console user.
func (uc *UseCase) EnsureUser(ctx context.Context, user *domain.User) error {
	if user == nil || user.ID == "" {
		return domain.ErrInvalidPayload
	}
	now := uc.clock.Now()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	if user.Status == "" {
		user.Status = "active"
	}
	user.UpdatedAt = now
	if err := uc.users.Upsert(ctx, user); err != nil {
		return err
	}
	uc.logger.Info("console user ensured", zap.String("user_id", user.ID))
	return nil
}

// Me resolves the user behind the session carried by ctx.
func (uc *UseCase) Me(ctx context.Context) (*domain.User, error) {
	id := httpcontext.IdentityFrom(ctx)
	if id.SessionID == "" {
		return nil, domain.ErrUnauthorized
	}
	session, err := uc.GetSession(ctx, id.SessionID)
	if err != nil {
		return nil, err
	}
	if id.UserID != "" && id.UserID != session.UserID {
		uc.logger.Warn("token user does not own session",
			zap.String("session_id", session.ID),
			zap.String("user_id", id.UserID),
		)
		return nil, domain.ErrUnauthorized
	}
	return uc.users.GetByID(ctx, session.UserID)
}

func (uc *UseCase) grant(session *domain.Session) (*Grant, error) {
	signed, err := uc.signer.Sign(session.UserID, session.ID, session.ExpiresAt)
	if err != nil {
		return nil, domain.WrapError(domain.ErrCodeInternal, "issue token", err)
	}
	return &Grant{Session: session, Token: signed}, nil
}
