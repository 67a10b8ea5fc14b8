package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shiftwatch/attendance-backend-go/internal/domain/settings"
	"github.com/shiftwatch/attendance-backend-go/internal/pkg/database"
)

type settingsStore struct {
	db *database.DB
}

var errSettingNotFound = errors.New("setting not found")

func (s *settingsStore) raw(ctx context.Context, key string) (string, error) {
	q := GetQuerier(ctx, s.db)

	var value string
	err := q.QueryRow(ctx, `SELECT value FROM settings WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", errSettingNotFound
		}
		return "", fmt.Errorf("failed to read setting %s: %w", key, err)
	}

	return value, nil
}

// Bool implements settings.Store.
func (s *settingsStore) Bool(ctx context.Context, key string, def bool) (bool, error) {
	value, err := s.raw(ctx, key)
	if errors.Is(err, errSettingNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}

	switch strings.ToLower(strings.TrimSpace(value)) {
	case "true", "1", "yes", "on":
		return true, nil
	case "false", "0", "no", "off":
		return false, nil
	}
	return def, fmt.Errorf("setting %s: invalid boolean %q", key, value)
}

// Int implements settings.Store.
func (s *settingsStore) Int(ctx context.Context, key string, def int) (int, error) {
	value, err := s.raw(ctx, key)
	if errors.Is(err, errSettingNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}

	n, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return def, fmt.Errorf("setting %s: invalid integer %q", key, value)
	}
	return n, nil
}

// String implements settings.Store.
func (s *settingsStore) String(ctx context.Context, key string, def string) (string, error) {
	value, err := s.raw(ctx, key)
	if errors.Is(err, errSettingNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}
	return value, nil
}

// TimeOfDay implements settings.Store.
func (s *settingsStore) TimeOfDay(ctx context.Context, key string, def time.Time) (time.Time, error) {
	value, err := s.raw(ctx, key)
	if errors.Is(err, errSettingNotFound) {
		return def, nil
	}
	if err != nil {
		return def, err
	}

	parsed, err := time.Parse("15:04", strings.TrimSpace(value))
	if err != nil {
		return def, fmt.Errorf("setting %s: invalid time-of-day %q", key, value)
	}
	return parsed, nil
}

func NewSettingsStore(db *database.DB) settings.Store {
	return &settingsStore{db: db}
}
