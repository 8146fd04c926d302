package refdata

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/spc-registrar/portal-api/internal/bus"
	"github.com/spc-registrar/portal-api/internal/models"
)

const (
	cacheKeyDocuments   = "refdata:documents"
	cacheKeyPurposes    = "refdata:purposes"
	cacheKeyDepartments = "refdata:departments"
	cacheKeyCourses     = "refdata:courses"
)

type upstreamClient interface {
	FetchDocuments(ctx context.Context) ([]models.DocumentType, error)
	FetchPurposes(ctx context.Context) ([]models.Purpose, error)
	FetchDepartments(ctx context.Context) ([]models.Department, error)
	FetchCourses(ctx context.Context) ([]models.Course, error)
}

type referenceCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

type lookupMetrics interface {
	RecordCacheLookup(hit bool)
}

// Loader serves the four reference lists the wizard needs. Each list is
// fetched independently: a failing upstream never takes the form down, it
// only degrades that one list to its hardcoded fallback.
type Loader struct {
	client  upstreamClient
	cache   referenceCache
	metrics lookupMetrics
	ttl     time.Duration
	logger  *zap.Logger
}

// LoaderConfig tunes caching behaviour.
type LoaderConfig struct {
	CacheTTL time.Duration
}

// NewLoader constructs a Loader. cache and metrics may be nil.
func NewLoader(client upstreamClient, cache referenceCache, metrics lookupMetrics, logger *zap.Logger, cfg LoaderConfig) *Loader {
	if logger == nil {
		logger = zap.NewNop()
	}
	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Loader{client: client, cache: cache, metrics: metrics, ttl: ttl, logger: logger}
}

// WatchBus re-fetches the document catalogue whenever the admin document
// management flow announces a change, so in-progress wizards pick up new or
// edited document types without waiting for cache expiry.
func (l *Loader) WatchBus(b *bus.Bus) func() {
	return b.Subscribe(bus.TopicDocumentsUpdated, func(bus.Event) {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		l.RefreshDocuments(ctx)
	})
}

// Documents returns the requestable document types.
func (l *Loader) Documents(ctx context.Context) []models.DocumentType {
	var docs []models.DocumentType
	if l.fromCache(ctx, cacheKeyDocuments, &docs) {
		return docs
	}

	docs, err := l.client.FetchDocuments(ctx)
	if err != nil || len(docs) == 0 {
		l.logger.Warn("documents fetch failed, using fallback", zap.Error(err))
		return fallbackDocuments()
	}
	l.toCache(ctx, cacheKeyDocuments, docs)
	return docs
}

// RefreshDocuments drops the cached catalogue and fetches a fresh copy.
func (l *Loader) RefreshDocuments(ctx context.Context) []models.DocumentType {
	if l.cache != nil {
		if err := l.cache.Delete(ctx, cacheKeyDocuments); err != nil {
			l.logger.Warn("documents cache invalidation failed", zap.Error(err))
		}
	}
	return l.Documents(ctx)
}

// Purposes returns the purpose-of-request options.
func (l *Loader) Purposes(ctx context.Context) []models.Purpose {
	var purposes []models.Purpose
	if l.fromCache(ctx, cacheKeyPurposes, &purposes) {
		return purposes
	}

	purposes, err := l.client.FetchPurposes(ctx)
	if err != nil || len(purposes) == 0 {
		l.logger.Warn("purposes fetch failed, using fallback", zap.Error(err))
		return fallbackPurposes()
	}
	l.toCache(ctx, cacheKeyPurposes, purposes)
	return purposes
}

// Departments returns the college departments.
func (l *Loader) Departments(ctx context.Context) []models.Department {
	var departments []models.Department
	if l.fromCache(ctx, cacheKeyDepartments, &departments) {
		return departments
	}

	departments, err := l.client.FetchDepartments(ctx)
	if err != nil || len(departments) == 0 {
		l.logger.Warn("departments fetch failed, using fallback", zap.Error(err))
		return fallbackDepartments()
	}
	l.toCache(ctx, cacheKeyDepartments, departments)
	return departments
}

// Courses returns the programs of study.
func (l *Loader) Courses(ctx context.Context) []models.Course {
	var courses []models.Course
	if l.fromCache(ctx, cacheKeyCourses, &courses) {
		return courses
	}

	courses, err := l.client.FetchCourses(ctx)
	if err != nil || len(courses) == 0 {
		l.logger.Warn("courses fetch failed, using fallback", zap.Error(err))
		return fallbackCourses()
	}
	l.toCache(ctx, cacheKeyCourses, courses)
	return courses
}

func (l *Loader) fromCache(ctx context.Context, key string, dest interface{}) bool {
	if l.cache == nil {
		return false
	}
	hit := l.cache.Get(ctx, key, dest) == nil
	if l.metrics != nil {
		l.metrics.RecordCacheLookup(hit)
	}
	return hit
}

func (l *Loader) toCache(ctx context.Context, key string, value interface{}) {
	if l.cache == nil {
		return
	}
	if err := l.cache.Set(ctx, key, value, l.ttl); err != nil {
		l.logger.Warn("reference cache write failed", zap.String("key", key), zap.Error(err))
	}
}
