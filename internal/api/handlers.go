package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/consultorio/painel/internal/export"
	"github.com/consultorio/painel/internal/metrics"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type saveResponse struct {
	Synced  bool   `json:"synced"`
	Warning string `json:"warning,omitempty"`
}

type summaryResponse struct {
	Start           string               `json:"start"`
	End             string               `json:"end"`
	Label           string               `json:"label"`
	Entries         []metrics.Entry      `json:"entries"`
	Totals          metrics.PeriodTotals       `json:"totals"`
	CAC             decimal.Decimal            `json:"cac"`
	DailyAverages   map[string]decimal.Decimal `json:"dailyAverages"`
	MonthlyProgress map[string]float64         `json:"monthlyProgress"`
}

type syncResponse struct {
	RecordsApplied int    `json:"recordsApplied"`
	GoalsApplied   int    `json:"goalsApplied"`
	RecordsPushed  int    `json:"recordsPushed"`
	GoalsPushed    int    `json:"goalsPushed"`
	RecordsError   string `json:"recordsError,omitempty"`
	GoalsError     string `json:"goalsError,omitempty"`
}

func (s *Server) getDay(c *gin.Context) {
	date, err := metrics.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	rec, err := s.Records.Load(c.Request.Context(), date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, rec)
}

func (s *Server) putDay(c *gin.Context) {
	date, err := metrics.ParseDate(c.Param("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	var rec metrics.DailyRecord
	if err := c.ShouldBindJSON(&rec); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	res, err := s.Records.Save(c.Request.Context(), date, rec.Normalized())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, toSaveResponse(res.Synced, res.RemoteErr))
}

func (s *Server) getGoals(c *gin.Context) {
	switch metrics.GoalScope(c.Param("scope")) {
	case metrics.ScopeDaily:
		g, err := s.Records.LoadDailyGoals(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, g)
	case metrics.ScopeMonthly:
		g, err := s.Records.LoadMonthlyGoals(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, g)
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "scope must be daily or monthly"})
	}
}

func (s *Server) putGoals(c *gin.Context) {
	ctx := c.Request.Context()
	switch metrics.GoalScope(c.Param("scope")) {
	case metrics.ScopeDaily:
		var g metrics.DailyGoals
		if err := c.ShouldBindJSON(&g); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, err := s.Records.SaveDailyGoals(ctx, g)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, toSaveResponse(res.Synced, res.RemoteErr))
	case metrics.ScopeMonthly:
		var g metrics.MonthlyGoals
		if err := c.ShouldBindJSON(&g); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, err := s.Records.SaveMonthlyGoals(ctx, g)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, toSaveResponse(res.Synced, res.RemoteErr))
	default:
		c.JSON(http.StatusNotFound, gin.H{"error": "scope must be daily or monthly"})
	}
}

func (s *Server) getSummary(c *gin.Context) {
	rng, err := s.resolveRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	entries, totals, err := s.Aggregator.SumRange(c.Request.Context(), rng.Start, rng.End)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	mg, err := s.Records.LoadMonthlyGoals(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, summaryResponse{
		Start:   metrics.FormatDate(rng.Start),
		End:     metrics.FormatDate(rng.End),
		Label:   rng.Label(),
		Entries: entries,
		Totals:  totals,
		CAC:     totals.CAC(),
		DailyAverages: map[string]decimal.Decimal{
			"faturamento":  totals.DailyAverage(totals.Faturamento),
			"gastoTrafego": totals.DailyAverage(totals.GastoTrafego),
		},
		MonthlyProgress: map[string]float64{
			"pacientes":    metrics.PercentOfGoal(float64(totals.TotalPacientes), float64(mg.Pacientes)),
			"faturamento":  metrics.PercentOfGoal(totals.Faturamento.InexactFloat64(), mg.Faturamento.InexactFloat64()),
			"leads":        metrics.PercentOfGoal(float64(totals.LeadsTotal), float64(mg.Leads)),
			"agendamentos": metrics.PercentOfGoal(float64(totals.Agendamentos), float64(mg.Agendamentos)),
			"seguidores":   metrics.PercentOfGoal(float64(totals.Seguidores), float64(mg.Seguidores)),
		},
	})
}

func (s *Server) postSync(c *gin.Context) {
	rep := s.Syncer.PullAll(c.Request.Context())
	out := syncResponse{
		RecordsApplied: rep.RecordsApplied,
		GoalsApplied:   rep.GoalsApplied,
		RecordsPushed:  rep.RecordsPushed,
		GoalsPushed:    rep.GoalsPushed,
	}
	if rep.RecordsErr != nil {
		out.RecordsError = rep.RecordsErr.Error()
	}
	if rep.GoalsErr != nil {
		out.GoalsError = rep.GoalsErr.Error()
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) getDailyReport(c *gin.Context) {
	date, err := metrics.ParseDate(c.Query("date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return
	}
	ctx := c.Request.Context()
	rec, err := s.Records.Load(ctx, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	dg, err := s.Records.LoadDailyGoals(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	mg, err := s.Records.LoadMonthlyGoals(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=relatorio-%s.xlsx", metrics.FormatDate(date)))
	if err := export.WriteDaily(c.Writer, date.Format("02/01/2006"), rec, dg, mg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (s *Server) getPeriodReport(c *gin.Context) {
	rng, err := s.resolveRange(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx := c.Request.Context()
	entries, totals, err := s.Aggregator.SumRange(ctx, rng.Start, rng.End)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	dg, err := s.Records.LoadDailyGoals(ctx)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Header("Content-Type", xlsxContentType)
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=periodo-%s-%s.xlsx",
		metrics.FormatDate(rng.Start), metrics.FormatDate(rng.End)))
	if err := export.WritePeriod(c.Writer, rng.Label(), entries, totals, dg); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// resolveRange reads either ?preset= or the ?start=&end= pair. A custom
// range keeps reversed bounds as given; the aggregator treats them as empty.
func (s *Server) resolveRange(c *gin.Context) (metrics.DateRange, error) {
	startQ, endQ := c.Query("start"), c.Query("end")
	if startQ != "" || endQ != "" {
		start, err := metrics.ParseDate(startQ)
		if err != nil {
			return metrics.DateRange{}, fmt.Errorf("start must be YYYY-MM-DD")
		}
		end, err := metrics.ParseDate(endQ)
		if err != nil {
			return metrics.DateRange{}, fmt.Errorf("end must be YYYY-MM-DD")
		}
		return metrics.DateRange{Start: start, End: end}, nil
	}
	preset := metrics.Preset(c.DefaultQuery("preset", string(metrics.PresetMonth)))
	return metrics.ResolvePreset(preset, time.Now().In(s.Loc), s.WeekStart)
}

func toSaveResponse(synced bool, remoteErr error) saveResponse {
	out := saveResponse{Synced: synced}
	if remoteErr != nil {
		out.Warning = "saved locally; remote sync failed: " + remoteErr.Error()
	}
	return out
}
