package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/consultorio/painel/internal/database/repository"
)

// PullReport summarizes one PullAll run. The two tables fail independently;
// a nil error with zero counts just means the table was empty.
type PullReport struct {
	RecordsApplied int   `json:"recordsApplied"`
	GoalsApplied   int   `json:"goalsApplied"`
	RecordsPushed  int   `json:"recordsPushed"`
	GoalsPushed    int   `json:"goalsPushed"`
	RecordsErr     error `json:"-"`
	GoalsErr       error `json:"-"`
}

// Syncer reconciles the local store with the remote table store. PullAll
// runs once at session start; pushes ride on explicit save actions.
type Syncer struct {
	Records *repository.RecordRepo
	Goals   *repository.GoalRepo
	Remote  RemoteStore
	Log     *logrus.Logger
}

// PullAll fetches both remote tables and applies each atomically. One
// table's failure never blocks the other, never partially applies, and
// never touches rows holding an unpushed local edit. After pulling it
// flushes those dirty rows back out, which is the retry path for pushes
// that failed at save time.
func (s *Syncer) PullAll(ctx context.Context) PullReport {
	var rep PullReport
	if s.Remote == nil {
		return rep
	}

	if rows, err := s.Remote.ListRecords(ctx); err != nil {
		rep.RecordsErr = err
		s.warn("pull daily_records", err)
	} else {
		local := make([]repository.RecordRow, 0, len(rows))
		for _, row := range rows {
			local = append(local, repository.RecordRow{Date: row.Date, Payload: row.Data})
		}
		if err := s.Records.ApplyRemote(ctx, local); err != nil {
			rep.RecordsErr = err
			s.warn("apply daily_records", err)
		} else {
			rep.RecordsApplied = len(local)
		}
	}

	if rows, err := s.Remote.ListGoals(ctx); err != nil {
		rep.GoalsErr = err
		s.warn("pull goal_sets", err)
	} else {
		local := make([]repository.GoalRow, 0, len(rows))
		for _, row := range rows {
			local = append(local, repository.GoalRow{Scope: row.Scope, Payload: row.Data})
		}
		if err := s.Goals.ApplyRemote(ctx, local); err != nil {
			rep.GoalsErr = err
			s.warn("apply goal_sets", err)
		} else {
			rep.GoalsApplied = len(local)
		}
	}

	rep.RecordsPushed, rep.GoalsPushed = s.flushDirty(ctx)
	return rep
}

// flushDirty re-pushes rows whose save-time push failed, clearing the dirty
// flag per row on success. Failures are logged and left for the next run.
func (s *Syncer) flushDirty(ctx context.Context) (records, goals int) {
	dirtyRecords, err := s.Records.ListDirty(ctx)
	if err != nil {
		s.warn("list dirty records", err)
	}
	for _, row := range dirtyRecords {
		if err := s.Remote.UpsertRecord(ctx, row.Date, row.Payload); err != nil {
			s.warn("flush record "+row.Date, err)
			continue
		}
		if err := s.Records.MarkClean(ctx, row.Date); err != nil {
			s.warn("mark clean "+row.Date, err)
			continue
		}
		records++
	}

	dirtyGoals, err := s.Goals.ListDirty(ctx)
	if err != nil {
		s.warn("list dirty goals", err)
	}
	for _, row := range dirtyGoals {
		if err := s.Remote.UpsertGoals(ctx, row.Scope, row.Payload); err != nil {
			s.warn("flush goals "+row.Scope, err)
			continue
		}
		if err := s.Goals.MarkClean(ctx, row.Scope); err != nil {
			s.warn("mark clean "+row.Scope, err)
			continue
		}
		goals++
	}
	return records, goals
}

func (s *Syncer) warn(op string, err error) {
	if s.Log == nil {
		return
	}
	s.Log.WithField("op", op).Warn(err.Error())
}
