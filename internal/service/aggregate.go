package service

import (
	"context"
	"time"

	"github.com/consultorio/painel/internal/metrics"
)

// Aggregator loads date ranges through the accessor and reduces them.
type Aggregator struct {
	Records *Records
}

// LoadRange returns one entry per day in [start, end] that holds any
// activity, in chronological order. An empty or reversed range yields no
// entries; that is a valid zero-valued period, not an error.
func (a *Aggregator) LoadRange(ctx context.Context, start, end time.Time) ([]metrics.Entry, error) {
	var entries []metrics.Entry
	for _, day := range metrics.EnumerateDays(start, end) {
		rec, err := a.Records.Load(ctx, day)
		if err != nil {
			return nil, err
		}
		if rec.IsEmpty() {
			continue
		}
		entries = append(entries, metrics.Entry{Date: metrics.FormatDate(day), Record: rec})
	}
	return entries, nil
}

// SumRange is LoadRange followed by the componentwise reduction.
func (a *Aggregator) SumRange(ctx context.Context, start, end time.Time) ([]metrics.Entry, metrics.PeriodTotals, error) {
	entries, err := a.LoadRange(ctx, start, end)
	if err != nil {
		return nil, metrics.PeriodTotals{}, err
	}
	return entries, metrics.Sum(entries), nil
}
