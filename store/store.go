package store

import (
	"context"
	"time"

	"github.com/todoai/todoai/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver

	// now is swapped in tests that need distinct timestamps.
	now func() time.Time
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		profile: profile,
		driver:  driver,
		now:     time.Now,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

// Migrate creates the tables and indexes the store needs. It is idempotent.
func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) timestamp() int64 {
	return s.now().Unix()
}
