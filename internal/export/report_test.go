package export

import (
	"bytes"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/consultorio/painel/internal/metrics"
)

func openSheet(t *testing.T, buf *bytes.Buffer) *excelize.File {
	t.Helper()
	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func cell(t *testing.T, f *excelize.File, ref string) string {
	t.Helper()
	v, err := f.GetCellValue("Sheet1", ref)
	require.NoError(t, err)
	return v
}

func TestWriteDaily(t *testing.T) {
	t.Parallel()

	rec := metrics.DefaultRecord()
	rec.TotalPacientes = 6
	rec.Faturamento = decimal.NewFromInt(900)
	dg := metrics.DefaultDailyGoals()
	dg.TotalPacientes = 10
	mg := metrics.DefaultMonthlyGoals()
	mg.Pacientes = 200

	var buf bytes.Buffer
	require.NoError(t, WriteDaily(&buf, "10/02/2026", rec, dg, mg))

	f := openSheet(t, &buf)
	require.Equal(t, "Relatório Diário", cell(t, f, "A1"))
	require.Equal(t, "10/02/2026", cell(t, f, "B1"))
	require.Equal(t, "Total Pacientes", cell(t, f, "A4"))
	require.Equal(t, "6", cell(t, f, "B4"))
	require.Equal(t, "10", cell(t, f, "C4"))
	require.Equal(t, "900", cell(t, f, "B8"))
}

func TestWritePeriodTotalRow(t *testing.T) {
	t.Parallel()

	day := func(pac int, fat int64) metrics.DailyRecord {
		r := metrics.DefaultRecord()
		r.TotalPacientes = pac
		r.Faturamento = decimal.NewFromInt(fat)
		return r
	}
	entries := []metrics.Entry{
		{Date: "2026-03-01", Record: day(2, 100)},
		{Date: "2026-03-03", Record: day(5, 250)},
	}
	totals := metrics.Sum(entries)

	var buf bytes.Buffer
	require.NoError(t, WritePeriod(&buf, "01/03/2026 - 03/03/2026", entries, totals, metrics.DefaultDailyGoals()))

	f := openSheet(t, &buf)
	require.Equal(t, "2 dia(s) com dados", cell(t, f, "A2"))
	require.Equal(t, "Data", cell(t, f, "A4"))

	// one row per entry, then the totals row
	require.Equal(t, "2026-03-01", cell(t, f, "A5"))
	require.Equal(t, "2026-03-03", cell(t, f, "A6"))
	require.Equal(t, "TOTAL", cell(t, f, "A7"))
	require.Equal(t, "7", cell(t, f, "B7"))
	require.Equal(t, "350", cell(t, f, "F7"))
}

func TestWritePeriodEmpty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	totals := metrics.Sum(nil)
	require.NoError(t, WritePeriod(&buf, "vazio", nil, totals, metrics.DefaultDailyGoals()))

	f := openSheet(t, &buf)
	require.Equal(t, "0 dia(s) com dados", cell(t, f, "A2"))
	require.Equal(t, "TOTAL", cell(t, f, "A5"))
	require.Equal(t, "0", cell(t, f, "B5"))
}
