package model

import (
	"log/slog"

	"github.com/aretw0/sysml/internal/logging"
	"github.com/aretw0/sysml/pkg/domain"
	"github.com/aretw0/sysml/pkg/ports"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the structured logger. Defaults to a no-op logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMetrics records store activity on m.
func WithMetrics(m *Metrics) Option {
	return func(s *Store) {
		s.metrics = m
	}
}

// WithHistoryLimit bounds the undo history to n snapshots, dropping the
// oldest first. Zero means unbounded.
func WithHistoryLimit(n int) Option {
	return func(s *Store) {
		if n >= 0 {
			s.historyLimit = n
		}
	}
}

// WithIDGenerator replaces the id generator used for elements and
// relationships added without an id.
func WithIDGenerator(gen func() string) Option {
	return func(s *Store) {
		if gen != nil {
			s.newID = gen
		}
	}
}

// WithLocker guards SaveTo with a lock on the model name.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(s *Store) {
		s.locker = locker
	}
}

func defaultStore() *Store {
	return &Store{
		elements:      make(map[string]domain.Element),
		relationships: make(map[string]domain.Relationship),
		effects:       make(map[string]sideEffect),
		newID:         domain.NewID,
		logger:        logging.NewNop(),
	}
}
