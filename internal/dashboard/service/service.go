// Package service computes dashboard analytics over interviews and
// projects. Unfiltered snapshots are cached in Redis and refreshed
// nightly; filtered queries always read through.
package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/brightforge-labs/discovery-crm-backend/internal/dashboard/domain"
	interviewsdomain "github.com/brightforge-labs/discovery-crm-backend/internal/interviews/domain"
	projectsdomain "github.com/brightforge-labs/discovery-crm-backend/internal/projects/domain"
)

const cacheKey = "dashboard:analytics"

type interviewLister interface {
	List(ctx context.Context, clientID, projectID string) ([]interviewsdomain.Interview, error)
}

type projectLister interface {
	List(ctx context.Context, clientID string) ([]projectsdomain.Project, error)
}

type DashboardService struct {
	interviews interviewLister
	projects   projectLister
	cache      *redis.Client
	ttl        time.Duration
	log        *zap.SugaredLogger

	now func() time.Time
}

func NewDashboardService(interviews interviewLister, projects projectLister, cache *redis.Client, ttl time.Duration, log *zap.SugaredLogger) *DashboardService {
	return &DashboardService{
		interviews: interviews,
		projects:   projects,
		cache:      cache,
		ttl:        ttl,
		log:        log,
		now:        time.Now,
	}
}

// GetAnalytics returns the snapshot for the given filter. The unfiltered
// snapshot is served from cache when present; cache failures fall back to
// computing directly.
func (s *DashboardService) GetAnalytics(ctx context.Context, filter domain.Filter) (*domain.Analytics, error) {
	if filter.Empty() && s.cache != nil {
		raw, err := s.cache.Get(ctx, cacheKey).Bytes()
		if err == nil {
			var cached domain.Analytics
			if err := json.Unmarshal(raw, &cached); err == nil {
				return &cached, nil
			}
		} else if !errors.Is(err, redis.Nil) {
			s.log.Warnw("dashboard cache read failed", "error", err)
		}
	}

	analytics, err := s.compute(ctx, filter)
	if err != nil {
		return nil, err
	}

	if filter.Empty() {
		s.store(ctx, analytics)
	}
	return analytics, nil
}

// Refresh recomputes the unfiltered snapshot and rewrites the cache. Run
// by the nightly scheduler.
func (s *DashboardService) Refresh(ctx context.Context) error {
	analytics, err := s.compute(ctx, domain.Filter{})
	if err != nil {
		return err
	}
	s.store(ctx, analytics)
	s.log.Infow("dashboard cache refreshed",
		"total_interviews", analytics.TotalInterviews,
		"active_projects", analytics.ActiveProjects)
	return nil
}

func (s *DashboardService) store(ctx context.Context, analytics *domain.Analytics) {
	if s.cache == nil {
		return
	}
	raw, err := json.Marshal(analytics)
	if err != nil {
		return
	}
	if err := s.cache.Set(ctx, cacheKey, raw, s.ttl).Err(); err != nil {
		s.log.Warnw("dashboard cache write failed", "error", err)
	}
}

func (s *DashboardService) compute(ctx context.Context, filter domain.Filter) (*domain.Analytics, error) {
	interviews, err := s.interviews.List(ctx, filter.ClientID, "")
	if err != nil {
		return nil, err
	}
	projects, err := s.projects.List(ctx, filter.ClientID)
	if err != nil {
		return nil, err
	}

	if filter.From != nil && filter.To != nil {
		scoped := interviews[:0]
		for _, iv := range interviews {
			if !iv.Date.Before(*filter.From) && !iv.Date.After(*filter.To) {
				scoped = append(scoped, iv)
			}
		}
		interviews = scoped
	}

	now := s.now()
	last30 := now.AddDate(0, 0, -30)
	last90 := now.AddDate(0, 0, -90)

	completed := 0
	recentProjects := make(map[string]bool)
	engaged := make(map[string]bool)
	trend := make(map[string]int)

	for _, iv := range interviews {
		if iv.Completed() {
			completed++
		}
		if iv.Date.After(last30) {
			recentProjects[iv.ProjectID] = true
		}
		if iv.Date.After(last90) {
			engaged[iv.ClientID] = true
		}
		trend[iv.Date.Format("2006-01-02")]++
	}

	active := 0
	for _, p := range projects {
		if recentProjects[p.ID] {
			active++
		}
	}

	days := make([]string, 0, len(trend))
	for day := range trend {
		days = append(days, day)
	}
	sort.Strings(days)

	points := make([]domain.TrendPoint, 0, len(days))
	for _, day := range days {
		points = append(points, domain.TrendPoint{Date: day, Count: trend[day]})
	}

	return &domain.Analytics{
		TotalInterviews:     len(interviews),
		CompletedInterviews: completed,
		ActiveProjects:      active,
		EngagedClients:      len(engaged),
		InterviewTrend:      points,
	}, nil
}
