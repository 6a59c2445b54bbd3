package metrics

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the canonical key format for daily records.
const DateLayout = "2006-01-02"

func init() {
	// Remote rows and the browser both store money as bare JSON numbers.
	decimal.MarshalJSONWithoutQuotes = true
}

// DailyRecord holds one calendar day of clinic metrics. JSON names match the
// persisted wire format, so data written by older builds decodes unchanged.
type DailyRecord struct {
	TotalPacientes       int             `json:"totalPacientes"`
	Desmarcaram          int             `json:"desmarcaram"`
	Novos                int             `json:"novos"`
	Recorrentes          int             `json:"recorrentes"`
	Faturamento          decimal.Decimal `json:"faturamento"`
	Procedimentos        string          `json:"procedimentos"`
	LeadsTotal           int             `json:"leadsTotal"`
	LeadsCampanha        int             `json:"leadsCampanha"`
	LeadsOrganico        int             `json:"leadsOrganico"`
	LeadsInstagram       int             `json:"leadsInstagram"`
	Seguidores           int             `json:"seguidores"`
	ConversasIniciadas   int             `json:"conversasIniciadas"`
	ConversasRespondidas int             `json:"conversasRespondidas"`
	Agendamentos         int             `json:"agendamentos"`
	GastoTrafego         decimal.Decimal `json:"gastoTrafego"`
}

// DefaultRecord returns the all-zero record a never-saved date resolves to.
func DefaultRecord() DailyRecord {
	return DailyRecord{
		Faturamento:  decimal.Zero,
		GastoTrafego: decimal.Zero,
	}
}

// IsEmpty reports whether the record carries no activity at all. Empty days
// are excluded from period aggregation. A single non-zero field, including a
// follower snapshot, makes the day count.
func (r DailyRecord) IsEmpty() bool {
	return r.TotalPacientes == 0 &&
		r.Desmarcaram == 0 &&
		r.Novos == 0 &&
		r.Recorrentes == 0 &&
		r.Faturamento.IsZero() &&
		r.Procedimentos == "" &&
		r.LeadsTotal == 0 &&
		r.LeadsCampanha == 0 &&
		r.LeadsOrganico == 0 &&
		r.LeadsInstagram == 0 &&
		r.Seguidores == 0 &&
		r.ConversasIniciadas == 0 &&
		r.ConversasRespondidas == 0 &&
		r.Agendamentos == 0 &&
		r.GastoTrafego.IsZero()
}

// DecodeRecord parses a stored payload over defaults, field by field. A key
// that is absent, of the wrong type, or unparseable keeps its zero default;
// a payload that is not a JSON object degrades to the full default record.
// Decode never fails: corrupt data reads as a quieter day, not an error.
func DecodeRecord(payload []byte) DailyRecord {
	rec := DefaultRecord()
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(payload, &raw); err != nil {
		return rec
	}
	decodeInt(raw, "totalPacientes", &rec.TotalPacientes)
	decodeInt(raw, "desmarcaram", &rec.Desmarcaram)
	decodeInt(raw, "novos", &rec.Novos)
	decodeInt(raw, "recorrentes", &rec.Recorrentes)
	decodeMoney(raw, "faturamento", &rec.Faturamento)
	decodeString(raw, "procedimentos", &rec.Procedimentos)
	decodeInt(raw, "leadsTotal", &rec.LeadsTotal)
	decodeInt(raw, "leadsCampanha", &rec.LeadsCampanha)
	decodeInt(raw, "leadsOrganico", &rec.LeadsOrganico)
	decodeInt(raw, "leadsInstagram", &rec.LeadsInstagram)
	decodeInt(raw, "seguidores", &rec.Seguidores)
	decodeInt(raw, "conversasIniciadas", &rec.ConversasIniciadas)
	decodeInt(raw, "conversasRespondidas", &rec.ConversasRespondidas)
	decodeInt(raw, "agendamentos", &rec.Agendamentos)
	decodeMoney(raw, "gastoTrafego", &rec.GastoTrafego)
	return rec
}

func decodeInt(raw map[string]json.RawMessage, key string, dst *int) {
	v, ok := raw[key]
	if !ok {
		return
	}
	var f float64
	if err := json.Unmarshal(v, &f); err == nil {
		*dst = int(f)
		return
	}
	// tolerate numeric strings written by hand-edited exports
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			*dst = int(f)
		}
	}
}

func decodeMoney(raw map[string]json.RawMessage, key string, dst *decimal.Decimal) {
	v, ok := raw[key]
	if !ok {
		return
	}
	var d decimal.Decimal
	if err := json.Unmarshal(v, &d); err == nil {
		*dst = d
	}
}

func decodeString(raw map[string]json.RawMessage, key string, dst *string) {
	v, ok := raw[key]
	if !ok {
		return
	}
	var s string
	if err := json.Unmarshal(v, &s); err == nil {
		*dst = s
	}
}

// FormatDate renders t as a record key in t's own location.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// ParseDate parses a record key back into a UTC calendar date.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// Normalized clamps negative inputs to zero. Counts and money amounts never
// go below zero no matter what the client sends.
func (r DailyRecord) Normalized() DailyRecord {
	clamp := func(v int) int {
		if v < 0 {
			return 0
		}
		return v
	}
	r.TotalPacientes = clamp(r.TotalPacientes)
	r.Desmarcaram = clamp(r.Desmarcaram)
	r.Novos = clamp(r.Novos)
	r.Recorrentes = clamp(r.Recorrentes)
	r.LeadsTotal = clamp(r.LeadsTotal)
	r.LeadsCampanha = clamp(r.LeadsCampanha)
	r.LeadsOrganico = clamp(r.LeadsOrganico)
	r.LeadsInstagram = clamp(r.LeadsInstagram)
	r.Seguidores = clamp(r.Seguidores)
	r.ConversasIniciadas = clamp(r.ConversasIniciadas)
	r.ConversasRespondidas = clamp(r.ConversasRespondidas)
	r.Agendamentos = clamp(r.Agendamentos)
	if r.Faturamento.IsNegative() {
		r.Faturamento = decimal.Zero
	}
	if r.GastoTrafego.IsNegative() {
		r.GastoTrafego = decimal.Zero
	}
	return r
}
