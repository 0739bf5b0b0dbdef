package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type ServiceCatalog struct {
	db *pgxpool.Pool
}

func NewServiceCatalog(db *pgxpool.Pool) *ServiceCatalog {
	return &ServiceCatalog{db: db}
}

// GetDurations resolves service ids to estimated minutes. Unknown ids
// are simply absent from the map; the scheduler books them as zero.
func (s *ServiceCatalog) GetDurations(ctx context.Context, serviceIDs []int64) (map[int64]int, error) {
	q := `SELECT id, estimated_time FROM services WHERE id = ANY($1)`
	rows, err := s.db.Query(ctx, q, serviceIDs)
	if err != nil {
		return nil, fmt.Errorf("get durations: %w", mapErr(err))
	}
	defer rows.Close()

	out := make(map[int64]int, len(serviceIDs))
	for rows.Next() {
		var id int64
		var minutes int
		if err := rows.Scan(&id, &minutes); err != nil {
			return nil, err
		}
		out[id] = minutes
	}
	return out, rows.Err()
}
