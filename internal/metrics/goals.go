package metrics

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// GoalScope identifies which goal singleton a payload belongs to.
type GoalScope string

const (
	ScopeDaily   GoalScope = "daily"
	ScopeMonthly GoalScope = "monthly"
)

// Valid reports whether s names one of the two goal singletons.
func (s GoalScope) Valid() bool {
	return s == ScopeDaily || s == ScopeMonthly
}

// DailyGoals holds per-day targets for a subset of DailyRecord fields.
// The whole set is read-modify-written; there is no per-field patching.
type DailyGoals struct {
	TotalPacientes       int             `json:"totalPacientes"`
	Faturamento          decimal.Decimal `json:"faturamento"`
	LeadsTotal           int             `json:"leadsTotal"`
	ConversasIniciadas   int             `json:"conversasIniciadas"`
	ConversasRespondidas int             `json:"conversasRespondidas"`
	Agendamentos         int             `json:"agendamentos"`
	Seguidores           int             `json:"seguidores"`
}

// MonthlyGoals holds aggregate targets, plus a cost-per-acquisition ceiling.
type MonthlyGoals struct {
	Pacientes    int             `json:"pacientes"`
	Faturamento  decimal.Decimal `json:"faturamento"`
	Leads        int             `json:"leads"`
	Agendamentos int             `json:"agendamentos"`
	Seguidores   int             `json:"seguidores"`
	CAC          decimal.Decimal `json:"cac"`
}

// DefaultDailyGoals returns the zero-target daily goal set.
func DefaultDailyGoals() DailyGoals {
	return DailyGoals{Faturamento: decimal.Zero}
}

// DefaultMonthlyGoals returns the zero-target monthly goal set.
func DefaultMonthlyGoals() MonthlyGoals {
	return MonthlyGoals{Faturamento: decimal.Zero, CAC: decimal.Zero}
}

// DecodeDailyGoals parses a stored goal payload over defaults with the same
// tolerance as DecodeRecord.
func DecodeDailyGoals(payload []byte) DailyGoals {
	g := DefaultDailyGoals()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return g
	}
	decodeInt(raw, "totalPacientes", &g.TotalPacientes)
	decodeMoney(raw, "faturamento", &g.Faturamento)
	decodeInt(raw, "leadsTotal", &g.LeadsTotal)
	decodeInt(raw, "conversasIniciadas", &g.ConversasIniciadas)
	decodeInt(raw, "conversasRespondidas", &g.ConversasRespondidas)
	decodeInt(raw, "agendamentos", &g.Agendamentos)
	decodeInt(raw, "seguidores", &g.Seguidores)
	return g
}

// DecodeMonthlyGoals parses a stored goal payload over defaults.
func DecodeMonthlyGoals(payload []byte) MonthlyGoals {
	g := DefaultMonthlyGoals()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return g
	}
	decodeInt(raw, "pacientes", &g.Pacientes)
	decodeMoney(raw, "faturamento", &g.Faturamento)
	decodeInt(raw, "leads", &g.Leads)
	decodeInt(raw, "agendamentos", &g.Agendamentos)
	decodeInt(raw, "seguidores", &g.Seguidores)
	decodeMoney(raw, "cac", &g.CAC)
	return g
}
