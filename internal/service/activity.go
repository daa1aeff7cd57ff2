package service

import (
	"context"

	"github.com/pattarapk/storefront/internal/model"
	"github.com/pattarapk/storefront/internal/repository"
)

const defaultActivityLimit = 20

// ActivityService reads the audit trail
type ActivityService interface {
	FindByUserID(ctx context.Context, userID string, limit int64) ([]*model.ActivityLog, error)
}

type activityService struct {
	activityRps repository.ActivityLogRepository
}

// NewActivityService builds new ActivityService
func NewActivityService(activityRps repository.ActivityLogRepository) ActivityService {
	return &activityService{activityRps: activityRps}
}

func (s *activityService) FindByUserID(ctx context.Context, userID string, limit int64) ([]*model.ActivityLog, error) {
	if limit <= 0 {
		limit = defaultActivityLimit
	}
	return s.activityRps.FindByUserID(ctx, userID, limit)
}
