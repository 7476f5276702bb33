package model

import "strings"

// Matches reports whether the meeting title or any tag contains query,
// ignoring case. An empty query matches every meeting.
func (m *Meeting) Matches(query string) bool {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return true
	}

	if strings.Contains(strings.ToLower(m.Title), q) {
		return true
	}
	for _, tag := range m.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// FilterMeetings returns the meetings matching query in their original
// order. The input slice is never modified.
func FilterMeetings(meetings []*Meeting, query string) []*Meeting {
	result := make([]*Meeting, 0, len(meetings))
	for _, m := range meetings {
		if m.Matches(query) {
			result = append(result, m)
		}
	}
	return result
}
