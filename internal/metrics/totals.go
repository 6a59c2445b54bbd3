package metrics

import "github.com/shopspring/decimal"

// Entry pairs a record with its date key. Slices of entries stay in
// chronological order; the daily breakdown table depends on it.
type Entry struct {
	Date   string      `json:"date"`
	Record DailyRecord `json:"data"`
}

// PeriodTotals is the componentwise sum of the non-empty records in a range.
// Derived ratios (CAC, percent-of-goal) are computed at point of use from
// these totals, never stored alongside them.
type PeriodTotals struct {
	TotalPacientes       int             `json:"totalPacientes"`
	Desmarcaram          int             `json:"desmarcaram"`
	Novos                int             `json:"novos"`
	Recorrentes          int             `json:"recorrentes"`
	Faturamento          decimal.Decimal `json:"faturamento"`
	LeadsTotal           int             `json:"leadsTotal"`
	LeadsCampanha        int             `json:"leadsCampanha"`
	LeadsOrganico        int             `json:"leadsOrganico"`
	LeadsInstagram       int             `json:"leadsInstagram"`
	Seguidores           int             `json:"seguidores"`
	ConversasIniciadas   int             `json:"conversasIniciadas"`
	ConversasRespondidas int             `json:"conversasRespondidas"`
	Agendamentos         int             `json:"agendamentos"`
	GastoTrafego         decimal.Decimal `json:"gastoTrafego"`
	DiasComDados         int             `json:"diasComDados"`
}

// Sum reduces entries into period totals. Entries are assumed already
// filtered for emptiness; malformed fields were coerced to zero at decode,
// so one bad day never poisons the rest.
func Sum(entries []Entry) PeriodTotals {
	t := PeriodTotals{
		Faturamento:  decimal.Zero,
		GastoTrafego: decimal.Zero,
		DiasComDados: len(entries),
	}
	for _, e := range entries {
		r := e.Record
		t.TotalPacientes += r.TotalPacientes
		t.Desmarcaram += r.Desmarcaram
		t.Novos += r.Novos
		t.Recorrentes += r.Recorrentes
		t.Faturamento = t.Faturamento.Add(r.Faturamento)
		t.LeadsTotal += r.LeadsTotal
		t.LeadsCampanha += r.LeadsCampanha
		t.LeadsOrganico += r.LeadsOrganico
		t.LeadsInstagram += r.LeadsInstagram
		t.Seguidores += r.Seguidores
		t.ConversasIniciadas += r.ConversasIniciadas
		t.ConversasRespondidas += r.ConversasRespondidas
		t.Agendamentos += r.Agendamentos
		t.GastoTrafego = t.GastoTrafego.Add(r.GastoTrafego)
	}
	return t
}

// CAC returns marketing spend per booked appointment, rounded to cents.
// Zero appointments means zero CAC, never a division error.
func CAC(spend decimal.Decimal, agendamentos int) decimal.Decimal {
	if agendamentos <= 0 {
		return decimal.Zero
	}
	return spend.Div(decimal.NewFromInt(int64(agendamentos))).Round(2)
}

// CAC is the period's spend-per-appointment ratio.
func (t PeriodTotals) CAC() decimal.Decimal {
	return CAC(t.GastoTrafego, t.Agendamentos)
}

// PercentOfGoal returns value/goal as a percentage clamped to [0,100].
// A goal of zero (or less) reads as "no goal set" and yields 0.
func PercentOfGoal(value, goal float64) float64 {
	if goal <= 0 {
		return 0
	}
	pct := value / goal * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}

// DailyAverage divides a period money total by the number of days with data,
// rounded to cents. Zero days yields zero.
func (t PeriodTotals) DailyAverage(total decimal.Decimal) decimal.Decimal {
	if t.DiasComDados <= 0 {
		return decimal.Zero
	}
	return total.Div(decimal.NewFromInt(int64(t.DiasComDados))).Round(2)
}
