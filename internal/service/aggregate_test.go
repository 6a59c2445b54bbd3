package service

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/consultorio/painel/internal/metrics"
)

func TestLoadRangeFiltersEmptyDaysAndKeepsOrder(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newRecords(t, testDB(t), nil)
	agg := &Aggregator{Records: svc}

	withFollowers := metrics.DefaultRecord()
	withFollowers.Seguidores = 10
	_, err := svc.Save(ctx, day("2026-06-03"), withFollowers)
	require.NoError(t, err)

	withPatients := metrics.DefaultRecord()
	withPatients.TotalPacientes = 2
	_, err = svc.Save(ctx, day("2026-06-01"), withPatients)
	require.NoError(t, err)

	// 2026-06-02 is saved but entirely empty
	_, err = svc.Save(ctx, day("2026-06-02"), metrics.DefaultRecord())
	require.NoError(t, err)

	entries, err := agg.LoadRange(ctx, day("2026-06-01"), day("2026-06-04"))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, "2026-06-01", entries[0].Date, "chronological order is load-bearing")
	require.Equal(t, "2026-06-03", entries[1].Date)
}

func TestLoadRangeReversedBoundsYieldNothing(t *testing.T) {
	t.Parallel()

	svc := newRecords(t, testDB(t), nil)
	agg := &Aggregator{Records: svc}

	entries, err := agg.LoadRange(context.Background(), day("2026-06-10"), day("2026-06-01"))
	require.NoError(t, err)
	require.Empty(t, entries)
}

func TestSumRangeThreeDayScenario(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newRecords(t, testDB(t), nil)
	agg := &Aggregator{Records: svc}

	patients := []int{2, 0, 5}
	revenue := []string{"100", "0", "250"}
	dates := []string{"2026-07-01", "2026-07-02", "2026-07-03"}
	for i, d := range dates {
		rec := metrics.DefaultRecord()
		rec.TotalPacientes = patients[i]
		rec.Faturamento = decimal.RequireFromString(revenue[i])
		_, err := svc.Save(ctx, day(d), rec)
		require.NoError(t, err)
	}

	entries, totals, err := agg.SumRange(ctx, day("2026-07-01"), day("2026-07-03"))
	require.NoError(t, err)
	require.Len(t, entries, 2, "the zero day is excluded")
	require.Equal(t, 7, totals.TotalPacientes)
	require.True(t, totals.Faturamento.Equal(decimal.NewFromInt(350)), "got %s", totals.Faturamento)
	require.Equal(t, 2, totals.DiasComDados)
}

func TestSumRangeEmptyPeriodIsValidZero(t *testing.T) {
	t.Parallel()

	svc := newRecords(t, testDB(t), nil)
	agg := &Aggregator{Records: svc}

	entries, totals, err := agg.SumRange(context.Background(), day("2026-08-01"), day("2026-08-07"))
	require.NoError(t, err)
	require.Empty(t, entries)
	require.Equal(t, 0, totals.DiasComDados)
	require.True(t, totals.CAC().IsZero())
}
