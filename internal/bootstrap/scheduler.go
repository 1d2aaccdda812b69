package bootstrap

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	dashboardservice "github.com/brightforge-labs/discovery-crm-backend/internal/dashboard/service"
)

// StartScheduler runs the nightly dashboard cache refresh at 03:00 UTC.
// The returned cron must be stopped on shutdown.
func StartScheduler(dashboard *dashboardservice.DashboardService, log *zap.SugaredLogger) (*cron.Cron, error) {
	c := cron.New(cron.WithLocation(time.UTC))

	_, err := c.AddFunc("0 3 * * *", func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := dashboard.Refresh(ctx); err != nil {
			log.Errorw("nightly dashboard refresh failed", "error", err)
		}
	})
	if err != nil {
		return nil, err
	}

	c.Start()
	return c, nil
}
