package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robby/octoops/internal/domain"
)

func activeAgents(s *Store) []domain.AgentName {
	var out []domain.AgentName
	for name, state := range s.AgentStatuses() {
		if state == domain.AgentActive {
			out = append(out, name)
		}
	}
	return out
}

func TestActivateAgentReturnsToIdleAfterWindow(t *testing.T) {
	s, sched := newTestStore(t, &fakeGateway{})

	s.ActivateAgent(domain.AgentPlanner, 3*time.Second)
	assert.Equal(t, domain.AgentActive, s.AgentStatus(domain.AgentPlanner))

	sched.Advance(2 * time.Second)
	assert.Equal(t, domain.AgentActive, s.AgentStatus(domain.AgentPlanner))

	sched.Advance(1 * time.Second)
	assert.Equal(t, domain.AgentIdle, s.AgentStatus(domain.AgentPlanner))
}

func TestActivateAgentSupersedesPendingReset(t *testing.T) {
	s, sched := newTestStore(t, &fakeGateway{})

	s.ActivateAgent(domain.AgentExecution, 3*time.Second)
	sched.Advance(2 * time.Second)

	// Reactivation restarts the window; the first reset must not fire.
	s.ActivateAgent(domain.AgentExecution, 3*time.Second)

	sched.Advance(2 * time.Second) // past the first activation's deadline
	assert.Equal(t, domain.AgentActive, s.AgentStatus(domain.AgentExecution),
		"a superseded reset must never deactivate early")

	sched.Advance(1 * time.Second) // full window from the second call
	assert.Equal(t, domain.AgentIdle, s.AgentStatus(domain.AgentExecution))
}

func TestActivateAgentDefaultsWindow(t *testing.T) {
	s, sched := newTestStore(t, &fakeGateway{})

	s.ActivateAgent(domain.AgentRisk, 0)
	sched.Advance(3 * time.Second)

	assert.Equal(t, domain.AgentIdle, s.AgentStatus(domain.AgentRisk))
}

func TestHeartbeatIsIdempotent(t *testing.T) {
	gw := &fakeGateway{}
	s, sched := newTestStore(t, gw)
	loadProject(t, s, gw) // starts the heartbeat

	s.StartAgentHeartbeat()
	s.StartAgentHeartbeat()

	assert.Equal(t, 1, sched.everyCalls, "repeated starts must not stack intervals")
}

func TestHeartbeatTickActivatesOneAgent(t *testing.T) {
	gw := &fakeGateway{}
	s, sched := newTestStore(t, gw)
	loadProject(t, s, gw)

	require.Empty(t, activeAgents(s))
	sched.Advance(15 * time.Second)

	assert.Len(t, activeAgents(s), 1, "each tick activates exactly one agent")
}

func TestHeartbeatSometimesLeavesActivity(t *testing.T) {
	gw := &fakeGateway{}
	s, sched := newTestStore(t, gw)
	loadProject(t, s, gw)

	for i := 0; i < 40; i++ {
		sched.Advance(15 * time.Second)
	}

	// Activity emission is probabilistic per tick, never guaranteed on
	// any single one, but a long run always yields some.
	acts := s.Activities()
	assert.NotEmpty(t, acts)
	assert.Less(t, len(acts), 40)
}

func TestHeartbeatGoesQuietWithoutProject(t *testing.T) {
	gw := &fakeGateway{}
	s, sched := newTestStore(t, gw)
	loadProject(t, s, gw)

	s.ClearProject()
	sched.Advance(60 * time.Second)

	assert.Empty(t, activeAgents(s))
	assert.Empty(t, s.Activities())
}

func TestAnalyzeRisksActivatesRiskAgent(t *testing.T) {
	gw := &fakeGateway{analyzed: []domain.Risk{{ID: "r1", Title: "Scope creep"}}}
	s, _ := newTestStore(t, gw)
	loadProject(t, s, gw)

	s.AnalyzeRisks(context.Background())

	// The call resolved synchronously here, so the agent already moved on
	// to its post-scan activation.
	assert.Equal(t, domain.AgentActive, s.AgentStatus(domain.AgentRisk))
	require.Len(t, s.Risks(), 1)
	assert.Equal(t, "Scope creep", s.Risks()[0].Title)
}
