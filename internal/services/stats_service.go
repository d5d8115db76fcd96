package services

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// RoleResponseStats is one row of the per-event response roll-up.
type RoleResponseStats struct {
	Role         string `db:"role" json:"role"`
	Total        int    `db:"total" json:"total"`
	Acknowledged int    `db:"acknowledged" json:"acknowledged"`
}

// StatsService serves read-only aggregates for the admin surface off the
// secondary sqlx connection, keeping reporting load away from the GORM
// write path.
type StatsService struct {
	db *sqlx.DB
}

func NewStatsService(db *sqlx.DB) *StatsService {
	return &StatsService{db: db}
}

// EventResponseStats returns, per role, how many RSVP links exist for the
// event and how many carry an acknowledgment.
func (s *StatsService) EventResponseStats(ctx context.Context, eventKey string) ([]RoleResponseStats, error) {
	const query = `
		SELECT role,
		       COUNT(*) AS total,
		       COUNT(acknowledgment) AS acknowledged
		FROM rsvp_links
		WHERE key = $1
		GROUP BY role
		ORDER BY role`

	stats := make([]RoleResponseStats, 0)
	if err := s.db.SelectContext(ctx, &stats, query, eventKey); err != nil {
		return nil, fmt.Errorf("failed to aggregate event responses: %w", err)
	}
	return stats, nil
}
