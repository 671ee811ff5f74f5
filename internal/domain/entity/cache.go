package entity

import "time"

// FetchStatus is the lifecycle of a cached report.
type FetchStatus string

const (
	FetchStatusNone       FetchStatus = "none"
	FetchStatusInProgress FetchStatus = "inProgress"
	FetchStatusComplete   FetchStatus = "complete"
)

// CachedReport é uma entrada do cache de relatórios.
type CachedReport struct {
	Status    FetchStatus
	Report    *Report
	Err       error
	FetchedAt time.Time
}
