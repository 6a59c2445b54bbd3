package metrics

import (
	"fmt"
	"time"
)

// Preset names a relative reporting period resolved against "now".
type Preset string

const (
	PresetToday  Preset = "today"
	Preset7Days  Preset = "7d"
	Preset15Days Preset = "15d"
	Preset30Days Preset = "30d"
	PresetWeek   Preset = "week"
	PresetMonth  Preset = "month"
	PresetCustom Preset = "custom"
)

// DateRange is an inclusive calendar range.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Label renders the range for report headers.
func (r DateRange) Label() string {
	return r.Start.Format("02/01/2006") + " - " + r.End.Format("02/01/2006")
}

// midnight drops the clock portion, keeping t's location.
func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// EnumerateDays returns every calendar day from start through end inclusive,
// in strictly increasing order. A reversed range yields nil rather than a
// silent bound swap, so a caller bug stays visible.
func EnumerateDays(start, end time.Time) []time.Time {
	s, e := midnight(start), midnight(end)
	if s.After(e) {
		return nil
	}
	var days []time.Time
	for d := s; !d.After(e); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// ResolvePreset turns a preset into a concrete range. It is a pure function
// of now and the preset; PresetCustom has no implicit bounds and errors.
func ResolvePreset(p Preset, now time.Time, weekStart time.Weekday) (DateRange, error) {
	today := midnight(now)
	switch p {
	case PresetToday:
		return DateRange{Start: today, End: today}, nil
	case Preset7Days:
		return DateRange{Start: today.AddDate(0, 0, -6), End: today}, nil
	case Preset15Days:
		return DateRange{Start: today.AddDate(0, 0, -14), End: today}, nil
	case Preset30Days:
		return DateRange{Start: today.AddDate(0, 0, -29), End: today}, nil
	case PresetWeek:
		start := startOfWeek(today, weekStart)
		return DateRange{Start: start, End: start.AddDate(0, 0, 6)}, nil
	case PresetMonth:
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return DateRange{Start: start, End: start.AddDate(0, 1, -1)}, nil
	case PresetCustom:
		return DateRange{}, fmt.Errorf("preset %q requires explicit start and end", p)
	default:
		return DateRange{}, fmt.Errorf("unknown preset %q", p)
	}
}

func startOfWeek(day time.Time, weekStart time.Weekday) time.Time {
	diff := (int(day.Weekday()) - int(weekStart) + 7) % 7
	return day.AddDate(0, 0, -diff)
}
