package dto

import "time"

type SyncEntityResult struct {
	Entity   string `json:"entity"`
	Inserted int    `json:"inserted"`
	Updated  int    `json:"updated"`
	Deleted  int64  `json:"deleted"`
	Skipped  int    `json:"skipped"`
	Error    string `json:"error,omitempty"`
}

type SyncResponse struct {
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
	Entities   []SyncEntityResult `json:"entities"`
}
