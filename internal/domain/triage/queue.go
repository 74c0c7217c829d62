package triage

import (
	"time"
)

// QueueKey is the ordering key of a case in the open queue.
type QueueKey struct {
	Score     int
	CreatedAt time.Time
	ID        string
}

// Less orders by score ascending, then creation time ascending, then ID.
func (k QueueKey) Less(o QueueKey) bool {
	if k.Score != o.Score {
		return k.Score < o.Score
	}
	if !k.CreatedAt.Equal(o.CreatedAt) {
		return k.CreatedAt.Before(o.CreatedAt)
	}
	return k.ID < o.ID
}

// QueueSummary carries the counts shown above the open queue.
type QueueSummary struct {
	TotalOpen int `json:"total_open"`
	Waiting   int `json:"waiting"`
	Critical  int `json:"critical"`
	High      int `json:"high"`
}

// Count adds one open case to the summary. Cases that are not open are ignored.
func (s *QueueSummary) Count(status Status, priority Priority) {
	if !status.Open() {
		return
	}
	s.TotalOpen++
	if status == StatusWaiting {
		s.Waiting++
	}
	switch priority {
	case PriorityCritical:
		s.Critical++
	case PriorityHigh:
		s.High++
	}
}
