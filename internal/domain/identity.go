package domain

import "strings"

// SameTask reports whether key identifies the task. A task's effective
// identity is "primary id OR server id": the client and server may use
// different key names for the same record, so both are accepted
// everywhere a task is looked up.
func SameTask(t Task, key string) bool {
	if key == "" {
		return false
	}
	return t.ID == key || t.ServerID == key
}

// AssigneeMatches reports whether the task belongs to the member. The
// assignee field is free-form — it may hold the member's id, email, or
// display name — so all three are compared. This is the single identity
// resolution point; call sites must not repeat ad hoc equality chains.
func AssigneeMatches(t Task, m TeamMember) bool {
	a := strings.TrimSpace(t.Assignee)
	if a == "" {
		return false
	}
	if a == m.ID {
		return true
	}
	if strings.EqualFold(a, m.Email) {
		return true
	}
	return strings.EqualFold(a, m.Name)
}
