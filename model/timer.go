package model

// TimerState is the countdown timer singleton. It is persisted to the
// local blob rather than the remote store. All values are seconds.
type TimerState struct {
	TimeLeft int  `json:"time_left"`
	Duration int  `json:"duration"`
	IsActive bool `json:"is_active"`
}
