package store

import (
	"time"

	"github.com/robby/octoops/internal/domain"
)

// heartbeatActivityChance is the probability that a heartbeat tick also
// appends a synthetic activity entry.
const heartbeatActivityChance = 0.3

// agentPhrases is the per-agent pool the heartbeat draws synthetic
// activity entries from.
var agentPhrases = map[domain.AgentName][]string{
	domain.AgentPlanner: {
		"re-evaluated the milestone plan",
		"reprioritized the backlog",
		"checked upcoming deadlines",
	},
	domain.AgentExecution: {
		"reviewed in-progress work",
		"checked task timers",
		"verified recent submissions",
	},
	domain.AgentRisk: {
		"scanned for new risks",
		"re-scored open risks",
		"watched the deadline burn-down",
	},
	domain.AgentCommunication: {
		"drafted a status summary",
		"checked pending invites",
		"synced the activity digest",
	},
	domain.AgentRecommendation: {
		"looked for optimization opportunities",
		"compared progress against similar projects",
		"refreshed task suggestions",
	},
}

// ActivateAgent flips the agent to active and schedules its return to
// idle after the window. A second activation before the reset fires
// supersedes it: the pending reset is canceled and the window restarts
// from the second call, so the agent never deactivates early and never
// gets stuck active.
func (s *Store) ActivateAgent(name domain.AgentName, window time.Duration) {
	if window <= 0 {
		window = s.agentWindow
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if prev, ok := s.agentTimers[name]; ok {
		prev.Stop()
	}
	s.agents[name] = domain.AgentActive

	var h TimerHandle
	h = s.sched.After(window, func() {
		s.mu.Lock()
		// Only the latest activation's reset may deactivate.
		if s.agentTimers[name] == h {
			s.agents[name] = domain.AgentIdle
			delete(s.agentTimers, name)
		}
		s.mu.Unlock()
		s.notify()
	})
	s.agentTimers[name] = h
	s.mu.Unlock()
	s.notify()
}

// StartAgentHeartbeat begins the recurring background simulation: every
// interval, while a project is loaded, one random agent activates and
// sometimes leaves a synthetic activity entry. Idempotent - calling it
// again while running does not stack intervals. It stops producing
// effects once the project is cleared and is canceled by Close.
func (s *Store) StartAgentHeartbeat() {
	s.mu.Lock()
	if s.heartbeat != nil || s.closed {
		s.mu.Unlock()
		return
	}
	s.heartbeat = s.sched.Every(s.heartbeatInterval, s.heartbeatTick)
	s.mu.Unlock()
}

func (s *Store) heartbeatTick() {
	s.mu.Lock()
	if s.project == nil || s.closed {
		s.mu.Unlock()
		return
	}
	names := domain.AllAgents()
	name := names[s.rand.Intn(len(names))]
	var action string
	if s.rand.Float64() < heartbeatActivityChance {
		pool := agentPhrases[name]
		action = pool[s.rand.Intn(len(pool))]
	}
	s.mu.Unlock()

	s.ActivateAgent(name, s.agentWindow)
	if action != "" {
		s.AddActivity(name, action)
	}
}
