package service

import (
	"context"
	"sort"
	"sync"

	"go.uber.org/zap"

	"github.com/noah-isme/visa-admin/internal/models"
	appErrors "github.com/noah-isme/visa-admin/pkg/errors"
)

type collectionSource interface {
	Collection(ctx context.Context, m models.Module) ([]models.VisaApplication, error)
}

// DashboardService composes the home page: one status breakdown per module.
type DashboardService struct {
	apps   collectionSource
	logger *zap.Logger
}

// NewDashboardService constructs a DashboardService.
func NewDashboardService(apps collectionSource, logger *zap.Logger) *DashboardService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{apps: apps, logger: logger}
}

// Summary fetches every module concurrently. A failing module is reported in its own
// summary and does not hide the others; an unauthorized backend answer fails the whole page
// because the session is gone.
func (s *DashboardService) Summary(ctx context.Context, user models.UserProfile) (*models.DashboardSummary, error) {
	modules := models.Modules()
	summaries := make([]models.ModuleSummary, len(modules))
	errs := make([]error, len(modules))

	var wg sync.WaitGroup
	for i, m := range modules {
		wg.Add(1)
		go func(i int, m models.Module) {
			defer wg.Done()
			apps, err := s.apps.Collection(ctx, m)
			if err != nil {
				errs[i] = err
				summaries[i] = models.ModuleSummary{Module: m, Error: appErrors.FromError(err).Message}
				s.logger.Warn("dashboard module unavailable", zap.String("module", m.Name), zap.Error(err))
				return
			}
			summaries[i] = summarize(m, apps)
		}(i, m)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil && appErrors.FromError(err).Code == appErrors.ErrUnauthorized.Code {
			return nil, err
		}
	}
	return &models.DashboardSummary{User: user, Modules: summaries}, nil
}

func summarize(m models.Module, apps []models.VisaApplication) models.ModuleSummary {
	counts := make(map[models.ApplicationStatus]int)
	for _, app := range apps {
		counts[app.ApplicationStatus]++
	}
	byStatus := make([]models.StatusCount, 0, len(counts))
	for status, n := range counts {
		byStatus = append(byStatus, models.StatusCount{Status: status, Count: n})
	}
	sort.Slice(byStatus, func(i, j int) bool {
		if byStatus[i].Count != byStatus[j].Count {
			return byStatus[i].Count > byStatus[j].Count
		}
		return byStatus[i].Status < byStatus[j].Status
	})
	return models.ModuleSummary{Module: m, Total: len(apps), ByStatus: byStatus}
}
