package history

import (
	"context"
	"iter"
	"log/slog"
	"maps"
	"slices"

	"github.com/mcoot/playmaster/internal/dependencies/clock"
	"github.com/mcoot/playmaster/internal/model"
	"github.com/mcoot/playmaster/internal/storage"
)

// Service records game outcomes and serves history views
type Service struct {
	store  storage.HistoryStore
	clock  clock.Clock
	logger *slog.Logger
}

// New creates a new history Service
func New(store storage.HistoryStore, clock clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		store:  store,
		clock:  clock,
		logger: logger,
	}
}

// Record appends outcome to username's history, stamped with the current time
func (s *Service) Record(ctx context.Context, username string, outcome model.Outcome) (model.GameRecord, error) {
	record, err := s.store.AppendRecord(ctx, username, outcome, s.clock.Now())
	if err != nil {
		s.logger.Error("failed to record game",
			slog.String("username", username),
			slog.String("game", outcome.GameName),
			slog.String("error", err.Error()),
		)
		return model.GameRecord{}, err
	}

	s.logger.Info("game recorded",
		slog.String("username", username),
		slog.Int("game_id", record.GameID),
		slog.String("game", record.GameName),
		slog.Int("score", record.Score),
	)
	return record, nil
}

// View returns username's records in insertion order. Nothing is read until
// the sequence is ranged over, and every range reads the store again, so
// the view can be restarted. A read failure is yielded once as the error.
func (s *Service) View(ctx context.Context, username string) iter.Seq2[model.GameRecord, error] {
	return func(yield func(model.GameRecord, error) bool) {
		records, err := s.store.RecordsForUser(ctx, username)
		if err != nil {
			yield(model.GameRecord{}, err)
			return
		}
		for _, r := range records {
			if !yield(r, nil) {
				return
			}
		}
	}
}

// UserHistory is one user's records
type UserHistory struct {
	Username string             `json:"username"`
	Records  []model.GameRecord `json:"games"`
}

// All returns every user's history ordered by username
func (s *Service) All(ctx context.Context) ([]UserHistory, error) {
	all, err := s.store.AllRecords(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]UserHistory, 0, len(all))
	for _, username := range slices.Sorted(maps.Keys(all)) {
		out = append(out, UserHistory{Username: username, Records: all[username]})
	}
	return out, nil
}

// Stats summarizes one user's history
type Stats struct {
	Username string `json:"username"`
	Played   int    `json:"played"`
	Won      int    `json:"won"`
	Total    int    `json:"total_score"`
}

// Summarize computes per-user stats ordered by username
func Summarize(histories []UserHistory) []Stats {
	out := make([]Stats, 0, len(histories))
	for _, h := range histories {
		st := Stats{Username: h.Username, Played: len(h.Records)}
		for _, r := range h.Records {
			st.Total += r.Score
			if r.Score == model.ScoreWin {
				st.Won++
			}
		}
		out = append(out, st)
	}
	return out
}
