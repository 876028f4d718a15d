package dictionary

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/doomedramen/autopwn-sub010/internal/models"
	"github.com/doomedramen/autopwn-sub010/pkg/debug"
	"github.com/robfig/cron/v3"
)

// Store defines the persistence operations the manager needs
type Store interface {
	ReplaceAll(ctx context.Context, dicts []models.Dictionary) error
	List(ctx context.Context) ([]models.Dictionary, error)
}

// Manager keeps the registered wordlist set in sync with the dictionary
// directory. Every sync replaces the prior set wholesale.
type Manager struct {
	store Store
	dir   string
	cron  *cron.Cron
}

// NewManager creates a dictionary manager over the given directory
func NewManager(store Store, dir string) *Manager {
	return &Manager{store: store, dir: dir}
}

// Scan reads the dictionary directory and returns one Dictionary per
// regular file. Dot-prefixed entries and subdirectories are ignored.
func (m *Manager) Scan() ([]models.Dictionary, error) {
	entries, err := os.ReadDir(m.dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read dictionary directory %s: %w", m.dir, err)
	}

	var dicts []models.Dictionary
	for _, entry := range entries {
		if entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			debug.Warning("Failed to stat dictionary %s: %v", entry.Name(), err)
			continue
		}

		dicts = append(dicts, models.Dictionary{
			Name: entry.Name(),
			Path: filepath.Join(m.dir, entry.Name()),
			Size: info.Size(),
		})
	}

	return dicts, nil
}

// Sync scans the directory and replaces the registered set
func (m *Manager) Sync(ctx context.Context) error {
	dicts, err := m.Scan()
	if err != nil {
		return err
	}

	if err := m.store.ReplaceAll(ctx, dicts); err != nil {
		return fmt.Errorf("failed to sync dictionaries: %w", err)
	}

	debug.Info("Dictionary sync registered %d wordlist(s) from %s", len(dicts), m.dir)
	return nil
}

// Start performs an initial sync and schedules periodic re-scans with the
// given cron spec (e.g. "@every 1m")
func (m *Manager) Start(ctx context.Context, schedule string) error {
	if err := m.Sync(ctx); err != nil {
		return err
	}

	m.cron = cron.New()
	_, err := m.cron.AddFunc(schedule, func() {
		if err := m.Sync(context.Background()); err != nil {
			debug.Error("Scheduled dictionary sync failed: %v", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule dictionary sync: %w", err)
	}

	m.cron.Start()
	debug.Info("Dictionary re-scan scheduled: %s", schedule)
	return nil
}

// Stop halts the periodic re-scan
func (m *Manager) Stop() {
	if m.cron != nil {
		m.cron.Stop()
	}
}
