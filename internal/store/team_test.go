package store

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robby/octoops/internal/domain"
	"github.com/robby/octoops/internal/gateway"
)

func TestAddTeamMemberRecordsPendingInvite(t *testing.T) {
	gw := &fakeGateway{}
	s, _ := newTestStore(t, gw)
	loadProject(t, s, gw)

	s.AddTeamMember(context.Background(), "sara@x.com", domain.RoleQA, "Testing")

	invites := s.PendingInvites()
	require.Len(t, invites, 1)
	assert.Equal(t, "sara@x.com", invites[0].Email)
	assert.Equal(t, domain.RoleQA, invites[0].Role)
	assert.Empty(t, s.Team(), "an invite is not a member until accepted")

	assert.Equal(t, domain.AgentActive, s.AgentStatus(domain.AgentCommunication))
}

func TestAddTeamMemberFailureLeavesStateAlone(t *testing.T) {
	gw := &fakeGateway{inviteErr: map[string]error{"bad@x.com": fmt.Errorf("422")}}
	s, _ := newTestStore(t, gw)
	loadProject(t, s, gw)

	s.AddTeamMember(context.Background(), "bad@x.com", domain.RoleMember, "")

	assert.Empty(t, s.PendingInvites())
	assert.Empty(t, s.Activities())
}

func TestRemoveTeamMemberIsOptimistic(t *testing.T) {
	gw := &fakeGateway{team: gateway.TeamList{
		Members: []domain.TeamMember{
			{ID: "m1", Name: "Mike"},
			{ID: "m2", Name: "Sara"},
		},
	}}
	s, _ := newTestStore(t, gw)
	loadProject(t, s, gw)

	s.RemoveTeamMember(context.Background(), "m1")

	team := s.Team()
	require.Len(t, team, 1)
	assert.Equal(t, "m2", team[0].ID)
	assert.Equal(t, 1, gw.count("RemoveMember"))
}

func TestRemoveTeamMemberFailureWarnsButNeverRollsBack(t *testing.T) {
	gw := &fakeGateway{
		team:            gateway.TeamList{Members: []domain.TeamMember{{ID: "m1", Name: "Mike"}}},
		removeMemberErr: fmt.Errorf("403"),
	}
	s, _ := newTestStore(t, gw)
	loadProject(t, s, gw)

	s.RemoveTeamMember(context.Background(), "m1")

	assert.Empty(t, s.Team())
	notifs := s.Notifications()
	require.NotEmpty(t, notifs)
	assert.Equal(t, "Removal Not Synced", notifs[0].Title)
	assert.Contains(t, notifs[0].Message, "Mike")
}

func TestRemoveUnknownMemberSkipsGateway(t *testing.T) {
	gw := &fakeGateway{team: gateway.TeamList{Members: []domain.TeamMember{{ID: "m1"}}}}
	s, _ := newTestStore(t, gw)
	loadProject(t, s, gw)

	s.RemoveTeamMember(context.Background(), "ghost")

	assert.Len(t, s.Team(), 1)
	assert.Zero(t, gw.count("RemoveMember"))
}

func TestCancelInviteWithdrawsPending(t *testing.T) {
	gw := &fakeGateway{team: gateway.TeamList{
		Pending: []domain.PendingInvite{{ID: "inv-1", Email: "sara@x.com"}},
	}}
	s, _ := newTestStore(t, gw)
	loadProject(t, s, gw)

	s.CancelInvite(context.Background(), "inv-1")

	assert.Empty(t, s.PendingInvites())
	assert.Equal(t, 1, gw.count("CancelInvite"))
}

func TestFetchTeamReplacesBothLists(t *testing.T) {
	gw := &fakeGateway{team: gateway.TeamList{
		Members: []domain.TeamMember{{ID: "m1"}},
		Pending: []domain.PendingInvite{{ID: "inv-1"}},
	}}
	s, _ := newTestStore(t, gw)
	loadProject(t, s, gw)

	gw.mu.Lock()
	gw.team = gateway.TeamList{Members: []domain.TeamMember{{ID: "m2"}, {ID: "m3"}}}
	gw.mu.Unlock()
	s.FetchTeam(context.Background())

	assert.Len(t, s.Team(), 2)
	assert.Empty(t, s.PendingInvites(), "pending list follows the server wholesale")
}
