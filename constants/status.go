package constants

// RunStatus is the canonical status for rows in parse_run.
type RunStatus string

// Stable values (store these exact strings in DB).
const (
	RunStatusRunning RunStatus = "RUNNING" // in progress
	RunStatusParsed  RunStatus = "PARSED"  // engine produced a result
	RunStatusFailed  RunStatus = "FAILED"  // terminal failure (unreadable input, storage error)
)
