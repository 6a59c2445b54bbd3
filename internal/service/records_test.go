package service

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/consultorio/painel/internal/metrics"
	"github.com/consultorio/painel/internal/remote"
)

func day(s string) time.Time {
	d, err := metrics.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestLoadNeverSavedDateReturnsDefaults(t *testing.T) {
	t.Parallel()

	svc := newRecords(t, testDB(t), nil)
	rec, err := svc.Load(context.Background(), day("2026-04-01"))
	require.NoError(t, err)
	require.Equal(t, metrics.DefaultRecord(), rec)
}

func TestSaveThenLoadRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newRecords(t, testDB(t), nil)

	rec := metrics.DefaultRecord()
	rec.TotalPacientes = 7
	rec.Faturamento = decimal.RequireFromString("1234.56")
	rec.Procedimentos = "Preenchimento (2)"
	rec.ConversasIniciadas = 4

	res, err := svc.Save(ctx, day("2026-04-02"), rec)
	require.NoError(t, err)
	require.False(t, res.Synced, "no remote configured")
	require.NoError(t, res.RemoteErr)

	got, err := svc.Load(ctx, day("2026-04-02"))
	require.NoError(t, err)
	require.Equal(t, 7, got.TotalPacientes)
	require.True(t, got.Faturamento.Equal(rec.Faturamento))
	require.Equal(t, "Preenchimento (2)", got.Procedimentos)
	require.Equal(t, 4, got.ConversasIniciadas)
}

func TestSaveSurvivesUnreachableRemote(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := testDB(t)
	store := newFakeRemote()
	store.failUpserts = true
	svc := newRecords(t, db, store)

	rec := metrics.DefaultRecord()
	rec.Agendamentos = 3

	res, err := svc.Save(ctx, day("2026-04-03"), rec)
	require.NoError(t, err, "local write must not depend on the network")
	require.False(t, res.Synced)
	require.ErrorIs(t, res.RemoteErr, remote.ErrUnavailable)

	// local read-after-write holds regardless of remote reachability
	got, err := svc.Load(ctx, day("2026-04-03"))
	require.NoError(t, err)
	require.Equal(t, 3, got.Agendamentos)

	// the row stays dirty for the next sync to retry
	dirty, err := svc.Repo.ListDirty(ctx)
	require.NoError(t, err)
	require.Len(t, dirty, 1)
	require.Equal(t, "2026-04-03", dirty[0].Date)
}

func TestSavePushesAndClearsDirty(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := newFakeRemote()
	svc := newRecords(t, testDB(t), store)

	rec := metrics.DefaultRecord()
	rec.Novos = 2

	res, err := svc.Save(ctx, day("2026-04-04"), rec)
	require.NoError(t, err)
	require.True(t, res.Synced)

	require.Contains(t, store.records, "2026-04-04")
	dirty, err := svc.Repo.ListDirty(ctx)
	require.NoError(t, err)
	require.Empty(t, dirty)
}

func TestGoalsDefaultsAndRoundTrip(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := newRecords(t, testDB(t), nil)

	dg, err := svc.LoadDailyGoals(ctx)
	require.NoError(t, err)
	require.Equal(t, metrics.DefaultDailyGoals(), dg)

	dg.TotalPacientes = 15
	dg.Faturamento = decimal.NewFromInt(5000)
	_, err = svc.SaveDailyGoals(ctx, dg)
	require.NoError(t, err)

	got, err := svc.LoadDailyGoals(ctx)
	require.NoError(t, err)
	require.Equal(t, 15, got.TotalPacientes)
	require.True(t, got.Faturamento.Equal(dg.Faturamento))

	mg, err := svc.LoadMonthlyGoals(ctx)
	require.NoError(t, err)
	require.Equal(t, metrics.DefaultMonthlyGoals(), mg)

	mg.Pacientes = 250
	mg.CAC = decimal.RequireFromString("40")
	_, err = svc.SaveMonthlyGoals(ctx, mg)
	require.NoError(t, err)

	gotM, err := svc.LoadMonthlyGoals(ctx)
	require.NoError(t, err)
	require.Equal(t, 250, gotM.Pacientes)
	require.True(t, gotM.CAC.Equal(mg.CAC))
}

func TestLoadToleratesCorruptStoredPayload(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	db := testDB(t)
	svc := newRecords(t, db, nil)

	_, err := db.ExecContext(ctx,
		`INSERT INTO daily_records(date, payload, dirty) VALUES('2026-04-05', 'this is not json', 0)`)
	require.NoError(t, err)

	rec, err := svc.Load(ctx, day("2026-04-05"))
	require.NoError(t, err)
	require.Equal(t, metrics.DefaultRecord(), rec)
}
