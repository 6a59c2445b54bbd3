package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/consultorio/painel/internal/database/repository"
	"github.com/consultorio/painel/internal/metrics"
	"github.com/consultorio/painel/internal/remote"
)

// RemoteStore is the slice of the remote table store the services need.
// A nil RemoteStore means local-only operation.
type RemoteStore interface {
	ListRecords(ctx context.Context) ([]remote.DailyRow, error)
	UpsertRecord(ctx context.Context, date string, data json.RawMessage) error
	ListGoals(ctx context.Context) ([]remote.GoalRow, error)
	UpsertGoals(ctx context.Context, scope string, data json.RawMessage) error
}

// SaveResult reports the outcome of a save. The local write has already
// succeeded by the time a SaveResult exists; RemoteErr only records that the
// write-through push failed and the row stays dirty until the next sync.
type SaveResult struct {
	Synced    bool
	RemoteErr error
}

// Records reads and writes daily records and goal sets. Every read merges
// the stored payload over defaults; every write lands locally before the
// remote push is attempted.
type Records struct {
	Repo   *repository.RecordRepo
	Goals  *repository.GoalRepo
	Remote RemoteStore
	Log    *logrus.Logger
}

// Load returns the record for a date, defaulted field by field. A date never
// saved reads as the all-zero record. Only a store failure returns an error.
func (s *Records) Load(ctx context.Context, date time.Time) (metrics.DailyRecord, error) {
	key := metrics.FormatDate(date)
	payload, ok, err := s.Repo.Get(ctx, key)
	if err != nil {
		return metrics.DefaultRecord(), fmt.Errorf("load %s: %w", key, err)
	}
	if !ok {
		return metrics.DefaultRecord(), nil
	}
	return metrics.DecodeRecord(payload), nil
}

// Save persists the record locally, then pushes it to the remote store.
// A push failure is non-fatal and surfaced in the result, not the error.
func (s *Records) Save(ctx context.Context, date time.Time, rec metrics.DailyRecord) (SaveResult, error) {
	key := metrics.FormatDate(date)
	payload, err := json.Marshal(rec)
	if err != nil {
		return SaveResult{}, fmt.Errorf("encode %s: %w", key, err)
	}
	if err := s.Repo.Put(ctx, key, payload); err != nil {
		return SaveResult{}, fmt.Errorf("save %s: %w", key, err)
	}
	return s.pushRecord(ctx, key, payload), nil
}

func (s *Records) pushRecord(ctx context.Context, key string, payload []byte) SaveResult {
	if s.Remote == nil {
		return SaveResult{}
	}
	if err := s.Remote.UpsertRecord(ctx, key, payload); err != nil {
		s.warn("push record", key, err)
		return SaveResult{RemoteErr: err}
	}
	if err := s.Repo.MarkClean(ctx, key); err != nil {
		s.warn("mark clean", key, err)
	}
	return SaveResult{Synced: true}
}

// LoadDailyGoals returns the daily goal singleton merged over defaults.
func (s *Records) LoadDailyGoals(ctx context.Context) (metrics.DailyGoals, error) {
	payload, ok, err := s.Goals.Get(ctx, string(metrics.ScopeDaily))
	if err != nil {
		return metrics.DefaultDailyGoals(), fmt.Errorf("load daily goals: %w", err)
	}
	if !ok {
		return metrics.DefaultDailyGoals(), nil
	}
	return metrics.DecodeDailyGoals(payload), nil
}

// LoadMonthlyGoals returns the monthly goal singleton merged over defaults.
func (s *Records) LoadMonthlyGoals(ctx context.Context) (metrics.MonthlyGoals, error) {
	payload, ok, err := s.Goals.Get(ctx, string(metrics.ScopeMonthly))
	if err != nil {
		return metrics.DefaultMonthlyGoals(), fmt.Errorf("load monthly goals: %w", err)
	}
	if !ok {
		return metrics.DefaultMonthlyGoals(), nil
	}
	return metrics.DecodeMonthlyGoals(payload), nil
}

// SaveDailyGoals write-throughs the whole daily goal set.
func (s *Records) SaveDailyGoals(ctx context.Context, g metrics.DailyGoals) (SaveResult, error) {
	return s.saveGoals(ctx, metrics.ScopeDaily, g)
}

// SaveMonthlyGoals write-throughs the whole monthly goal set.
func (s *Records) SaveMonthlyGoals(ctx context.Context, g metrics.MonthlyGoals) (SaveResult, error) {
	return s.saveGoals(ctx, metrics.ScopeMonthly, g)
}

func (s *Records) saveGoals(ctx context.Context, scope metrics.GoalScope, goals any) (SaveResult, error) {
	payload, err := json.Marshal(goals)
	if err != nil {
		return SaveResult{}, fmt.Errorf("encode %s goals: %w", scope, err)
	}
	if err := s.Goals.Put(ctx, string(scope), payload); err != nil {
		return SaveResult{}, fmt.Errorf("save %s goals: %w", scope, err)
	}
	if s.Remote == nil {
		return SaveResult{}, nil
	}
	if err := s.Remote.UpsertGoals(ctx, string(scope), payload); err != nil {
		s.warn("push goals", string(scope), err)
		return SaveResult{RemoteErr: err}, nil
	}
	if err := s.Goals.MarkClean(ctx, string(scope)); err != nil {
		s.warn("mark clean", string(scope), err)
	}
	return SaveResult{Synced: true}, nil
}

func (s *Records) warn(op, key string, err error) {
	if s.Log == nil {
		return
	}
	s.Log.WithFields(logrus.Fields{"op": op, "key": key}).Warn(err.Error())
}
