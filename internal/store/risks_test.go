package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robby/octoops/internal/domain"
)

func TestAddRiskSeedsClientDefaults(t *testing.T) {
	gw := &fakeGateway{}
	s, sched := newTestStore(t, gw)
	loadProject(t, s, gw)

	s.AddRisk(context.Background(), domain.Risk{Title: "Vendor delay", Severity: domain.RiskHigh})

	risks := s.Risks()
	require.Len(t, risks, 1)
	r := risks[0]
	assert.NotEmpty(t, r.ID)
	assert.Equal(t, sched.Now(), r.DetectedAt)
	assert.Equal(t, domain.DetectedByManual, r.DetectedBy)
	assert.False(t, r.Resolved, "new risks always start unresolved")
}

func TestAddRiskRaisesOneActivationAndOneWarning(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := newTestStore(t, gw)
	loadProject(t, s, gw)

	s.AddRisk(context.Background(), domain.Risk{Title: "Scope creep", Severity: domain.RiskMedium})

	assert.Equal(t, domain.AgentActive, s.AgentStatus(domain.AgentRisk))

	notifs := s.Notifications()
	require.Len(t, notifs, 1)
	assert.Equal(t, "New Risk Detected", notifs[0].Title)
	assert.Equal(t, domain.NotifyWarning, notifs[0].Kind)
	assert.Contains(t, notifs[0].Message, "Scope creep")
	assert.Contains(t, notifs[0].Message, "medium severity")

	acts := s.Activities()
	require.Len(t, acts, 1)
	assert.Equal(t, domain.AgentRisk, acts[0].Agent)
}

func TestAddRiskWithoutProjectIsSkipped(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := newTestStore(t, gw)

	s.AddRisk(context.Background(), domain.Risk{Title: "Orphan"})

	assert.Empty(t, s.Risks())
	assert.Zero(t, gw.count("CreateRisk"))
}

func TestResolveRiskIsOneWay(t *testing.T) {
	gw := &fakeGateway{risks: []domain.Risk{{ID: "r1", Title: "Burnout"}}}
	s, _ := newTestStore(t, gw)
	loadProject(t, s, gw)

	s.ResolveRisk(context.Background(), "r1")
	require.True(t, s.Risks()[0].Resolved)
	assert.Equal(t, 1, gw.count("ResolveRisk"))

	// Resolving again is a no-op, not a second round trip.
	s.ResolveRisk(context.Background(), "r1")
	assert.True(t, s.Risks()[0].Resolved)
	assert.Equal(t, 1, gw.count("ResolveRisk"))
}

func TestResolveRiskFailureWarnsButSticksLocally(t *testing.T) {
	gw := &fakeGateway{
		risks:          []domain.Risk{{ID: "r1", Title: "Flaky CI"}},
		resolveRiskErr: fmt.Errorf("500"),
	}
	s, _ := newTestStore(t, gw)
	loadProject(t, s, gw)

	s.ResolveRisk(context.Background(), "r1")

	assert.True(t, s.Risks()[0].Resolved, "local resolution is never rolled back")
	notifs := s.Notifications()
	require.NotEmpty(t, notifs)
	assert.Equal(t, "Resolve Not Synced", notifs[0].Title)
	assert.Equal(t, domain.NotifyWarning, notifs[0].Kind)
}

func TestAnalyzeRisksReplacesFindings(t *testing.T) {
	gw := &fakeGateway{
		risks:    []domain.Risk{{ID: "r1", Title: "Old finding"}},
		analyzed: []domain.Risk{{ID: "r2", Title: "Fresh finding"}, {ID: "r3", Title: "Another"}},
	}
	s, _ := newTestStore(t, gw)
	loadProject(t, s, gw)

	s.AnalyzeRisks(context.Background())

	risks := s.Risks()
	require.Len(t, risks, 2)
	assert.Equal(t, "r2", risks[0].ID)
}

func TestAnalyzeRisksFailureKeepsExistingList(t *testing.T) {
	gw := &fakeGateway{
		risks:      []domain.Risk{{ID: "r1", Title: "Keep me"}},
		analyzeErr: fmt.Errorf("model overloaded"),
	}
	s, _ := newTestStore(t, gw)
	loadProject(t, s, gw)

	s.AnalyzeRisks(context.Background())

	require.Len(t, s.Risks(), 1)
	assert.Equal(t, "r1", s.Risks()[0].ID)
	assert.Equal(t, domain.AgentIdle, s.AgentStatus(domain.AgentRisk))
}
