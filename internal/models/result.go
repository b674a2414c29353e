package models

import "time"

// RunResult структурный итог прогона: либо Details, либо Error.
type RunResult struct {
	Success bool    `json:"success"`
	Details Details `json:"details,omitempty"`
	Error   string  `json:"error,omitempty"`

	Err error `json:"-"`
}

func Succeeded(d Details) RunResult {
	return RunResult{Success: true, Details: d}
}

func Failed(err error) RunResult {
	return RunResult{Success: false, Error: err.Error(), Err: err}
}

// RunRecord то, что уходит в хранилище после прогона.
type RunRecord struct {
	Strategy   string
	Success    bool
	Details    Details
	Error      string
	StartedAt  time.Time
	FinishedAt time.Time
}
