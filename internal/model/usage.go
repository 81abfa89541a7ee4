package model

// UsageSnapshot reports how many free generations an identity has used today.
type UsageSnapshot struct {
	Used      int `json:"used"`
	Limit     int `json:"limit"`
	Remaining int `json:"remaining"`
}

// NewUsageSnapshot builds a snapshot for used out of limit. Remaining never goes
// below zero, even when concurrent requests pushed used past the limit.
func NewUsageSnapshot(used, limit int) UsageSnapshot {
	remaining := limit - used
	if remaining < 0 {
		remaining = 0
	}
	return UsageSnapshot{Used: used, Limit: limit, Remaining: remaining}
}
