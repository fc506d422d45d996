package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/think3er/ippo-backend/internal/repository"
)

// DBTX is the pgx surface the repos need. Satisfied by *pgxpool.Pool and pgx.Tx
type DBTX interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

type Storage struct {
	db DBTX
}

func NewStorage(db DBTX) *Storage {
	return &Storage{db: db}
}

func (s *Storage) User() repository.UserRepo {
	return &UserRepo{DB: s.db}
}

func (s *Storage) RefreshToken() repository.RefreshTokenRepo {
	return &RefreshTokenRepo{DB: s.db}
}

func (s *Storage) Circle() repository.CircleRepo {
	return &CircleRepo{DB: s.db}
}

func (s *Storage) Member() repository.MemberRepo {
	return &MemberRepo{DB: s.db}
}

func (s *Storage) CheckIn() repository.CheckInRepo {
	return &CheckInRepo{DB: s.db}
}

func (s *Storage) Clip() repository.ClipRepo {
	return &ClipRepo{DB: s.db}
}

func (s *Storage) Journal() repository.JournalRepo {
	return &JournalRepo{DB: s.db}
}

func (s *Storage) InTx(ctx context.Context, fn func(s repository.Storage) error) (err error) {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("db tx error: %w", err)
	}

	defer func() {
		switch err {
		case nil:
			err = tx.Commit(ctx)
		default:
			_ = tx.Rollback(ctx)
		}
	}()

	err = fn(NewStorage(tx))

	return err
}
