package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/team-final-project-3/be-temucs-sub000/internal/scheduling"
)

type AgentRoster struct {
	db *pgxpool.Pool
}

func NewAgentRoster(db *pgxpool.Pool) *AgentRoster {
	return &AgentRoster{db: db}
}

// ListEligibleAgents returns the branch's schedulable CS accounts in id
// order, which is the scheduler's tie-break priority. Kiosk accounts
// (role 'tv', the branch lobby displays) are not schedulable and are
// filtered here rather than leaking the convention into the core.
func (s *AgentRoster) ListEligibleAgents(ctx context.Context, branchID int64) ([]scheduling.Agent, error) {
	q := `SELECT id, branch_id, username FROM cs_users
	      WHERE branch_id=$1 AND role='cs'
	      ORDER BY id`
	rows, err := s.db.Query(ctx, q, branchID)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", mapErr(err))
	}
	defer rows.Close()

	var out []scheduling.Agent
	for rows.Next() {
		var a scheduling.Agent
		if err := rows.Scan(&a.ID, &a.BranchID, &a.Username); err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}
