package service

import (
	"context"
	"time"

	"github.com/careledger/careledger/internal/domain/insight"
	"github.com/careledger/careledger/internal/domain/patient"
)

// Stats is the dashboard rollup. CriticalCases counts patients in the
// severity ladder's critical tier; NewAdmissions counts patients created on
// or after the start of the current server-local day.
type Stats struct {
	TotalPatients int64 `json:"totalPatients"`
	NewAdmissions int64 `json:"newAdmissions"`
	CriticalCases int64 `json:"criticalCases"`
	AIPredictions int64 `json:"aiPredictions"`
}

type StatsService struct {
	patients patient.Repository
	insights insight.Repository
	now      func() time.Time
}

func NewStatsService(patients patient.Repository, insights insight.Repository) *StatsService {
	return &StatsService{
		patients: patients,
		insights: insights,
		now:      time.Now,
	}
}

func (s *StatsService) Stats(ctx context.Context) (*Stats, error) {
	now := s.now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	counters, err := s.patients.Counters(ctx, midnight)
	if err != nil {
		return nil, err
	}

	predictions, err := s.insights.CountPredictions(ctx)
	if err != nil {
		return nil, err
	}

	return &Stats{
		TotalPatients: counters.Total,
		NewAdmissions: counters.CreatedSince,
		CriticalCases: counters.CriticalCases,
		AIPredictions: predictions,
	}, nil
}
