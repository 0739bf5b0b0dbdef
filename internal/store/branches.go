package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/team-final-project-3/be-temucs-sub000/internal/scheduling"
)

type BranchStore struct {
	db *pgxpool.Pool
}

func NewBranchStore(db *pgxpool.Pool) *BranchStore {
	return &BranchStore{db: db}
}

func (s *BranchStore) GetBranch(ctx context.Context, id int64) (*scheduling.Branch, error) {
	q := `SELECT id, code, name, address FROM branches WHERE id=$1`
	var b scheduling.Branch
	err := s.db.QueryRow(ctx, q, id).Scan(&b.ID, &b.Code, &b.Name, &b.Address)
	if errors.Is(err, errNoRows) {
		return nil, scheduling.ErrBranchNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get branch: %w", mapErr(err))
	}
	return &b, nil
}

// ListBranches returns every branch, used by the holiday reschedule job
// to walk all queues.
func (s *BranchStore) ListBranches(ctx context.Context) ([]scheduling.Branch, error) {
	q := `SELECT id, code, name, address FROM branches ORDER BY id`
	rows, err := s.db.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list branches: %w", mapErr(err))
	}
	defer rows.Close()

	var out []scheduling.Branch
	for rows.Next() {
		var b scheduling.Branch
		if err := rows.Scan(&b.ID, &b.Code, &b.Name, &b.Address); err != nil {
			return nil, err
		}
		out = append(out, b)
	}
	return out, rows.Err()
}
