package catalog

import (
	"fmt"

	"github.com/bookmaster/bookmaster/internal/database/books"
	"github.com/bookmaster/bookmaster/internal/entities"
)

// recentlyFinishedLimit is how many finished books the stats page shows.
const recentlyFinishedLimit = 5

// Stats is a derived view over the user's books; it holds no state of
// its own.
type Stats struct {
	TotalBooks       int64
	NotStarted       int64
	Reading          int64
	Finished         int64
	RecentlyFinished []entities.Book
}

// StatsService computes reading statistics.
type StatsService struct {
	books *books.Repository
}

// NewStatsService creates a new statistics service.
func NewStatsService(booksRepo *books.Repository) *StatsService {
	return &StatsService{books: booksRepo}
}

// Compute aggregates per-status counts and the most recently finished
// books for the user.
func (s *StatsService) Compute(userID uint) (*Stats, error) {
	counts, err := s.books.CountByStatus(userID)
	if err != nil {
		return nil, fmt.Errorf("count books by status: %w", err)
	}

	recent, err := s.books.RecentlyFinished(userID, recentlyFinishedLimit)
	if err != nil {
		return nil, fmt.Errorf("recently finished books: %w", err)
	}

	stats := &Stats{
		NotStarted:       counts[entities.StatusNotStarted],
		Reading:          counts[entities.StatusReading],
		Finished:         counts[entities.StatusFinished],
		RecentlyFinished: recent,
	}
	stats.TotalBooks = stats.NotStarted + stats.Reading + stats.Finished

	return stats, nil
}
