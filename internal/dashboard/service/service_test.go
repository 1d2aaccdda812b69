package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/brightforge-labs/discovery-crm-backend/internal/dashboard/domain"
	interviewsdomain "github.com/brightforge-labs/discovery-crm-backend/internal/interviews/domain"
	projectsdomain "github.com/brightforge-labs/discovery-crm-backend/internal/projects/domain"
)

type fakeInterviews struct {
	items []interviewsdomain.Interview
	calls int
}

func (f *fakeInterviews) List(_ context.Context, clientID, _ string) ([]interviewsdomain.Interview, error) {
	f.calls++
	if clientID == "" {
		return f.items, nil
	}
	var out []interviewsdomain.Interview
	for _, iv := range f.items {
		if iv.ClientID == clientID {
			out = append(out, iv)
		}
	}
	return out, nil
}

type fakeProjects struct {
	items []projectsdomain.Project
}

func (f *fakeProjects) List(_ context.Context, clientID string) ([]projectsdomain.Project, error) {
	if clientID == "" {
		return f.items, nil
	}
	var out []projectsdomain.Project
	for _, p := range f.items {
		if p.ClientID == clientID {
			out = append(out, p)
		}
	}
	return out, nil
}

func boolPtr(b bool) *bool { return &b }

var now = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func completedInterview(id, clientID, projectID string, date time.Time) interviewsdomain.Interview {
	gdrive := "gd-" + id
	return interviewsdomain.Interview{
		ID: id, Name: "Interview " + id, Date: date,
		GDriveID:            &gdrive,
		RequestDistillation: boolPtr(true),
		RequestCoaching:     boolPtr(true),
		RequestUserStories:  boolPtr(true),
		ClientID:            clientID, ProjectID: projectID,
	}
}

func newDashboard(t *testing.T, interviews *fakeInterviews, projects *fakeProjects) (*DashboardService, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cache := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { cache.Close() })

	svc := NewDashboardService(interviews, projects, cache, 24*time.Hour, zap.NewNop().Sugar())
	svc.now = func() time.Time { return now }
	return svc, mr
}

func TestDashboardService_GetAnalytics(t *testing.T) {
	ctx := context.Background()

	interviews := &fakeInterviews{items: []interviewsdomain.Interview{
		completedInterview("iv-1", "cl-1", "proj-1", now.AddDate(0, 0, -5)),
		completedInterview("iv-2", "cl-1", "proj-1", now.AddDate(0, 0, -5)),
		{ID: "iv-3", Name: "Pending", Date: now.AddDate(0, 0, -40), ClientID: "cl-2", ProjectID: "proj-2"},
		{ID: "iv-4", Name: "Old", Date: now.AddDate(0, 0, -120), ClientID: "cl-3", ProjectID: "proj-3"},
	}}
	projects := &fakeProjects{items: []projectsdomain.Project{
		{ID: "proj-1", ClientID: "cl-1"},
		{ID: "proj-2", ClientID: "cl-2"},
		{ID: "proj-3", ClientID: "cl-3"},
	}}

	t.Run("computes the snapshot", func(t *testing.T) {
		svc, _ := newDashboard(t, interviews, projects)

		got, err := svc.GetAnalytics(ctx, domain.Filter{})
		require.NoError(t, err)

		assert.Equal(t, 4, got.TotalInterviews)
		assert.Equal(t, 2, got.CompletedInterviews)
		// Only proj-1 had an interview in the last 30 days.
		assert.Equal(t, 1, got.ActiveProjects)
		// cl-1 and cl-2 had interviews in the last 90 days; cl-3 did not.
		assert.Equal(t, 2, got.EngagedClients)

		require.Len(t, got.InterviewTrend, 3)
		assert.Equal(t, 2, got.InterviewTrend[2].Count)
		for i := 1; i < len(got.InterviewTrend); i++ {
			assert.Less(t, got.InterviewTrend[i-1].Date, got.InterviewTrend[i].Date)
		}
	})

	t.Run("unfiltered queries are served from cache", func(t *testing.T) {
		local := &fakeInterviews{items: interviews.items}
		svc, mr := newDashboard(t, local, projects)

		_, err := svc.GetAnalytics(ctx, domain.Filter{})
		require.NoError(t, err)
		require.True(t, mr.Exists("dashboard:analytics"))

		_, err = svc.GetAnalytics(ctx, domain.Filter{})
		require.NoError(t, err)
		assert.Equal(t, 1, local.calls)
	})

	t.Run("filtered queries bypass the cache", func(t *testing.T) {
		local := &fakeInterviews{items: interviews.items}
		svc, mr := newDashboard(t, local, projects)

		got, err := svc.GetAnalytics(ctx, domain.Filter{ClientID: "cl-1"})
		require.NoError(t, err)
		assert.Equal(t, 2, got.TotalInterviews)
		assert.False(t, mr.Exists("dashboard:analytics"))
	})

	t.Run("date window is inclusive", func(t *testing.T) {
		from := now.AddDate(0, 0, -40)
		to := now
		svc, _ := newDashboard(t, &fakeInterviews{items: interviews.items}, projects)

		got, err := svc.GetAnalytics(ctx, domain.Filter{From: &from, To: &to})
		require.NoError(t, err)
		// iv-4 falls outside the window, iv-3 sits exactly on its edge.
		assert.Equal(t, 3, got.TotalInterviews)
	})
}

func TestDashboardService_Refresh(t *testing.T) {
	ctx := context.Background()
	local := &fakeInterviews{items: []interviewsdomain.Interview{
		completedInterview("iv-1", "cl-1", "proj-1", now.AddDate(0, 0, -1)),
	}}
	svc, mr := newDashboard(t, local, &fakeProjects{})

	require.NoError(t, svc.Refresh(ctx))
	require.True(t, mr.Exists("dashboard:analytics"))

	// Subsequent unfiltered reads hit the refreshed cache.
	got, err := svc.GetAnalytics(ctx, domain.Filter{})
	require.NoError(t, err)
	assert.Equal(t, 1, got.TotalInterviews)
	assert.Equal(t, 1, local.calls)
}
