package scraper

import (
	"context"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/JetWong0810/football-betting-system/models"
	"github.com/JetWong0810/football-betting-system/pkg/oddscache"
)

// Pool fetch order. Matches are upserted from every pool so partial feed
// outages still refresh what they can.
var poolOrder = []string{"had_hhad", "crs", "ttg", "hafu"}

// Stats summarizes one sync run.
type Stats struct {
	Matches int
	Odds    int
}

// Service runs feed-to-database synchronization.
type Service struct {
	db     *gorm.DB
	client *Client
	cache  *oddscache.Cache
	logger zerolog.Logger
}

func NewService(db *gorm.DB, client *Client, cache *oddscache.Cache, logger zerolog.Logger) *Service {
	return &Service{
		db:     db,
		client: client,
		cache:  cache,
		logger: logger.With().Str("component", "sporttery_sync").Logger(),
	}
}

// RunOnce fetches every pool group, upserts matches and odds, and finalizes
// the sync status row. A pool fetch error aborts the run; upsert errors on
// individual rows are logged and skipped.
func (s *Service) RunOnce(ctx context.Context) (Stats, error) {
	var stats Stats
	seen := map[string]struct{}{}

	for _, pool := range poolOrder {
		matches, err := s.client.FetchPool(ctx, poolCodes[pool])
		if err != nil {
			return stats, err
		}
		for i := range matches {
			m := &matches[i]
			matchID := m.MatchID.String()
			if matchID == "" {
				continue
			}
			if err := s.upsertMatch(m.toModel()); err != nil {
				s.logger.Warn().Err(err).Str("match_id", matchID).Msg("match upsert failed")
				continue
			}
			if _, ok := seen[matchID]; !ok {
				seen[matchID] = struct{}{}
				stats.Matches++
			}
			stats.Odds += s.upsertOdds(m)
			s.cache.Invalidate(ctx, "plays:"+matchID)
		}
	}

	if err := s.finalize(stats); err != nil {
		return stats, err
	}
	s.logger.Info().Int("matches", stats.Matches).Int("odds", stats.Odds).Msg("sync finished")
	return stats, nil
}

// Run loops RunOnce on the given interval until the context is cancelled.
// The first run starts immediately.
func (s *Service) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		if _, err := s.RunOnce(ctx); err != nil {
			s.logger.Error().Err(err).Msg("sync failed")
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}

func (s *Service) upsertMatch(m models.Match) error {
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "match_id"}},
		UpdateAll: true,
	}).Create(&m).Error
}

func (s *Service) upsertOdds(m *feedMatch) int {
	count := 0

	for _, row := range m.wdlModels() {
		err := s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "match_id"}, {Name: "odds_type"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"handicap", "win_odds", "draw_odds", "lose_odds",
				"win_support", "draw_support", "lose_support", "is_single",
			}),
		}).Create(&row).Error
		if err != nil {
			s.logger.Warn().Err(err).Str("match_id", row.MatchID).Msg("wdl upsert failed")
			continue
		}
		count++
	}

	for _, row := range m.scoreModels() {
		err := s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "match_id"}, {Name: "result_type"},
				{Name: "home_score"}, {Name: "away_score"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"odds", "score_label"}),
		}).Create(&row).Error
		if err != nil {
			s.logger.Warn().Err(err).Str("match_id", row.MatchID).Msg("score upsert failed")
			continue
		}
		count++
	}

	for _, row := range m.goalModels() {
		err := s.db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "match_id"}, {Name: "goal_range"}},
			DoUpdates: clause.AssignmentColumns([]string{"min_goals", "max_goals", "odds"}),
		}).Create(&row).Error
		if err != nil {
			s.logger.Warn().Err(err).Str("match_id", row.MatchID).Msg("goals upsert failed")
			continue
		}
		count++
	}

	for _, row := range m.hafuModels() {
		err := s.db.Clauses(clause.OnConflict{
			Columns: []clause.Column{
				{Name: "match_id"}, {Name: "half_result"}, {Name: "full_result"},
			},
			DoUpdates: clause.AssignmentColumns([]string{"result_label", "odds"}),
		}).Create(&row).Error
		if err != nil {
			s.logger.Warn().Err(err).Str("match_id", row.MatchID).Msg("hafu upsert failed")
			continue
		}
		count++
	}

	return count
}

func (s *Service) finalize(stats Stats) error {
	now := time.Now().UTC()
	status := models.SyncStatus{
		ID:           1,
		LastSyncedAt: &now,
		TotalMatches: stats.Matches,
		TotalOdds:    stats.Odds,
	}
	return s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		UpdateAll: true,
	}).Create(&status).Error
}
