package store

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound          = errors.New("resource not found")
	ErrConflict          = errors.New("resource already exists")
	QueryTimeoutDuration = time.Second * 5
)

type Storage struct {
	Users interface {
		Create(context.Context, *User) error
		GetByID(context.Context, int64) (*User, error)
		GetByLogin(context.Context, string) (*User, error)
		LoginExists(context.Context, string) (bool, error)
		Update(context.Context, int64, map[string]interface{}) error
		SetAvatar(context.Context, string, int64) error
	}
	Places interface {
		Create(context.Context, *Place) error
		GetByID(context.Context, int64) (*Place, error)
		List(context.Context, PlaceFilter) ([]Place, int, error)
		Update(context.Context, int64, map[string]interface{}) error
		SetStatus(context.Context, int64, string) error
		Delete(context.Context, int64) error
	}
	Reviews interface {
		Create(context.Context, *Review) error
		GetByID(context.Context, int64) (*Review, error)
		List(context.Context, int64) ([]Review, error)
		Update(context.Context, *Review) error
		Delete(context.Context, int64, int64) error
		Recompute(context.Context, int64) (int, *float64, error)
	}
}

func NewStorage(db *pgxpool.Pool) Storage {
	return Storage{
		Users:   &UsersStore{db},
		Places:  &PlacesStore{db},
		Reviews: &ReviewsStore{db},
	}
}
