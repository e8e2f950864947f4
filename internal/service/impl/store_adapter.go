package impl

import (
	"context"
	"errors"
	"time"

	"sigmsg/internal/domain"
	"sigmsg/internal/store"

	"github.com/google/uuid"
)

// Narrow store interfaces keep the services testable against in-memory fakes
// while production wiring adapts the gorm store behind them.

type dataStore interface {
	WithTx(ctx context.Context, fn func(tx storeTx) error) error
	DeleteUserData(ctx context.Context, userID uuid.UUID) (map[string]int64, error)
}

type storeTx interface {
	Users() userStore
	Messages() messageStore
	AuthTokens() authTokenStore
	U2FRegistrations() u2fStore
}

type userStore interface {
	Create(ctx context.Context, usr *domain.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	List(ctx context.Context) ([]domain.User, error)
	Update(ctx context.Context, usr *domain.User) error
	SetTOTPActivated(ctx context.Context, userID uuid.UUID, activated bool) error
}

type messageStore interface {
	Create(ctx context.Context, msg *domain.Message) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Message, error)
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.Message, error)
	SetSignature(ctx context.Context, id uuid.UUID, signature string, at time.Time) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type authTokenStore interface {
	Create(ctx context.Context, t *domain.AuthToken) error
	GetByHash(ctx context.Context, hash []byte) (*domain.AuthToken, error)
	Consume(ctx context.Context, id uuid.UUID, at time.Time) (bool, error)
}

type u2fStore interface {
	ListByUser(ctx context.Context, userID uuid.UUID) ([]domain.U2FRegistration, error)
}

type gormStoreAdapter struct {
	store *store.Store
}

func (g gormStoreAdapter) WithTx(ctx context.Context, fn func(tx storeTx) error) error {
	if g.store == nil {
		return errors.New("nil store")
	}
	return g.store.WithTx(ctx, func(tx *store.Store) error {
		return fn(gormTxAdapter{tx: tx})
	})
}

func (g gormStoreAdapter) DeleteUserData(ctx context.Context, userID uuid.UUID) (map[string]int64, error) {
	if g.store == nil {
		return nil, errors.New("nil store")
	}
	return g.store.DeleteUserData(ctx, userID)
}

type gormTxAdapter struct {
	tx *store.Store
}

func (g gormTxAdapter) Users() userStore { return g.tx.Users() }

func (g gormTxAdapter) Messages() messageStore { return g.tx.Messages() }

func (g gormTxAdapter) AuthTokens() authTokenStore { return g.tx.AuthTokens() }

func (g gormTxAdapter) U2FRegistrations() u2fStore { return g.tx.U2FRegistrations() }
