package cache

import (
	"sync"
	"time"

	"github.com/diillson/cost-report-dashboard-go/internal/domain/entity"
	"github.com/diillson/cost-report-dashboard-go/internal/domain/repository"
)

// DefaultTTL is used when NewStore receives a non-positive ttl.
const DefaultTTL = 5 * time.Minute

type key struct {
	reportType  entity.ReportType
	queryString string
}

// Store keeps fetched reports per report type and query string.
// Complete entries older than the ttl are treated as absent.
type Store struct {
	mu      sync.RWMutex
	ttl     time.Duration
	now     func() time.Time
	entries map[key]entity.CachedReport
}

// NewStore cria um cache de relatórios.
func NewStore(ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[key]entity.CachedReport),
	}
}

var _ repository.ReportCache = (*Store)(nil)

// Get returns the entry for the pair, if present and not expired.
func (s *Store) Get(reportType entity.ReportType, queryString string) (entity.CachedReport, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entry, ok := s.entries[key{reportType, queryString}]
	if !ok || s.expired(entry) {
		return entity.CachedReport{}, false
	}
	return entry, true
}

// Begin marks a fetch as in progress. A previous report, if any, is kept
// until Complete replaces it.
func (s *Store) Begin(reportType entity.ReportType, queryString string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{reportType, queryString}
	entry := s.entries[k]
	entry.Status = entity.FetchStatusInProgress
	entry.Err = nil
	s.entries[k] = entry
}

// Complete stores the outcome of a fetch.
func (s *Store) Complete(reportType entity.ReportType, queryString string, report *entity.Report, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.entries[key{reportType, queryString}] = entity.CachedReport{
		Status:    entity.FetchStatusComplete,
		Report:    report,
		Err:       err,
		FetchedAt: s.now(),
	}
}

// Status returns the fetch status for the pair.
func (s *Store) Status(reportType entity.ReportType, queryString string) entity.FetchStatus {
	entry, ok := s.Get(reportType, queryString)
	if !ok {
		return entity.FetchStatusNone
	}
	return entry.Status
}

// Invalidate drops the entry for the pair; an empty query string drops
// every entry of the report type.
func (s *Store) Invalidate(reportType entity.ReportType, queryString string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if queryString != "" {
		delete(s.entries, key{reportType, queryString})
		return
	}
	for k := range s.entries {
		if k.reportType == reportType {
			delete(s.entries, k)
		}
	}
}

func (s *Store) expired(entry entity.CachedReport) bool {
	return entry.Status == entity.FetchStatusComplete && s.now().Sub(entry.FetchedAt) > s.ttl
}
