// Package export renders daily and period reports as spreadsheets. It only
// formats structures the services already validated and aggregated.
package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/consultorio/painel/internal/metrics"
)

const sheet = "Sheet1"

// WriteDaily renders one day's record next to its goals.
func WriteDaily(w io.Writer, dateLabel string, rec metrics.DailyRecord, dg metrics.DailyGoals, mg metrics.MonthlyGoals) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue(sheet, "A1", "Relatório Diário")
	f.SetCellValue(sheet, "B1", dateLabel)

	f.SetCellValue(sheet, "A3", "Métrica")
	f.SetCellValue(sheet, "B3", "Valor")
	f.SetCellValue(sheet, "C3", "Meta Diária")

	row := 4
	put := func(label string, value any, goal any) {
		f.SetCellValue(sheet, "A"+fmt.Sprint(row), label)
		f.SetCellValue(sheet, "B"+fmt.Sprint(row), value)
		if goal != nil {
			f.SetCellValue(sheet, "C"+fmt.Sprint(row), goal)
		}
		row++
	}
	put("Total Pacientes", rec.TotalPacientes, dg.TotalPacientes)
	put("Desmarcaram", rec.Desmarcaram, nil)
	put("Pacientes Novos", rec.Novos, nil)
	put("Recorrentes", rec.Recorrentes, nil)
	put("Faturamento (R$)", rec.Faturamento.InexactFloat64(), dg.Faturamento.InexactFloat64())
	put("Procedimentos", rec.Procedimentos, nil)
	put("Total de Leads", rec.LeadsTotal, dg.LeadsTotal)
	put("Leads Campanha", rec.LeadsCampanha, nil)
	put("Leads Orgânico", rec.LeadsOrganico, nil)
	put("Leads Instagram", rec.LeadsInstagram, nil)
	put("Seguidores", rec.Seguidores, dg.Seguidores)
	put("Conversas Iniciadas", rec.ConversasIniciadas, dg.ConversasIniciadas)
	put("Conversas Respondidas", rec.ConversasRespondidas, dg.ConversasRespondidas)
	put("Agendamentos", rec.Agendamentos, dg.Agendamentos)
	put("Gasto Tráfego (R$)", rec.GastoTrafego.InexactFloat64(), nil)

	row++
	f.SetCellValue(sheet, "A"+fmt.Sprint(row), "Metas Mensais")
	row++
	putMonthly := func(label string, goal any) {
		f.SetCellValue(sheet, "A"+fmt.Sprint(row), label)
		f.SetCellValue(sheet, "B"+fmt.Sprint(row), goal)
		row++
	}
	putMonthly("Pacientes", mg.Pacientes)
	putMonthly("Faturamento (R$)", mg.Faturamento.InexactFloat64())
	putMonthly("Leads", mg.Leads)
	putMonthly("Agendamentos", mg.Agendamentos)
	putMonthly("Seguidores", mg.Seguidores)
	putMonthly("CAC teto (R$)", mg.CAC.InexactFloat64())

	return f.Write(w)
}

// WritePeriod renders the period breakdown table plus the totals row, in the
// same chronological order the aggregator produced.
func WritePeriod(w io.Writer, label string, entries []metrics.Entry, totals metrics.PeriodTotals, dg metrics.DailyGoals) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetCellValue(sheet, "A1", "Relatório de Período")
	f.SetCellValue(sheet, "B1", label)
	f.SetCellValue(sheet, "A2", fmt.Sprintf("%d dia(s) com dados", totals.DiasComDados))

	headers := []string{"Data", "Pacientes", "Desm.", "Novos", "Recorr.", "Faturamento", "Leads", "Agend.", "Seg.", "Gasto", "CAC"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 4)
		f.SetCellValue(sheet, cell, h)
	}

	setRow := func(rowNo int, date string, pac, desm, novos, rec, leads, agend, seg int, fat, gasto, cac float64) {
		values := []any{date, pac, desm, novos, rec, fat, leads, agend, seg, gasto, cac}
		for i, v := range values {
			cell, _ := excelize.CoordinatesToCellName(i+1, rowNo)
			f.SetCellValue(sheet, cell, v)
		}
	}

	rowNo := 5
	for _, e := range entries {
		r := e.Record
		setRow(rowNo, e.Date,
			r.TotalPacientes, r.Desmarcaram, r.Novos, r.Recorrentes,
			r.LeadsTotal, r.Agendamentos, r.Seguidores,
			r.Faturamento.InexactFloat64(), r.GastoTrafego.InexactFloat64(),
			metrics.CAC(r.GastoTrafego, r.Agendamentos).InexactFloat64())
		rowNo++
	}
	setRow(rowNo, "TOTAL",
		totals.TotalPacientes, totals.Desmarcaram, totals.Novos, totals.Recorrentes,
		totals.LeadsTotal, totals.Agendamentos, totals.Seguidores,
		totals.Faturamento.InexactFloat64(), totals.GastoTrafego.InexactFloat64(),
		totals.CAC().InexactFloat64())

	rowNo += 2
	f.SetCellValue(sheet, "A"+fmt.Sprint(rowNo), "Metas Diárias de Referência")
	rowNo++
	goals := []struct {
		label string
		value any
	}{
		{"Total Pacientes", dg.TotalPacientes},
		{"Faturamento (R$)", dg.Faturamento.InexactFloat64()},
		{"Total de Leads", dg.LeadsTotal},
		{"Conversas Iniciadas", dg.ConversasIniciadas},
		{"Conversas Respondidas", dg.ConversasRespondidas},
		{"Agendamentos", dg.Agendamentos},
		{"Seguidores", dg.Seguidores},
	}
	for _, g := range goals {
		f.SetCellValue(sheet, "A"+fmt.Sprint(rowNo), g.label)
		f.SetCellValue(sheet, "B"+fmt.Sprint(rowNo), g.value)
		rowNo++
	}

	return f.Write(w)
}
