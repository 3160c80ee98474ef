package services

import (
	"context"
	"sync"
	"time"

	logger "github.com/Bparsons0904/goLogger"
	"golang.org/x/sync/singleflight"
)

const (
	ecoTableFlightKey   = "eco:table"
	ecoFetchTimeout     = 10 * time.Second
	ecoStoreLoadTimeout = 2 * time.Second
)

// EcoResolver turns an ECO code into a human readable opening name. It never fails:
// anything it cannot resolve comes back as UnknownOpening.
type EcoResolver interface {
	Describe(ctx context.Context, code string) string
	DescribeCached(code string) string
	Table(ctx context.Context) *EcoTable
	Refresh(ctx context.Context) *EcoTable
}

type EcoTableFetcher interface {
	FetchEcoTable(ctx context.Context) (*EcoTable, error)
}

// EcoTableStore persists a fetched table between process restarts.
type EcoTableStore interface {
	LoadEcoTable(ctx context.Context) (*EcoTable, bool, error)
	SaveEcoTable(ctx context.Context, table *EcoTable) error
	ClearEcoTable(ctx context.Context) error
}

type StaticEcoResolver struct {
	table *EcoTable
}

func NewStaticEcoResolver(table *EcoTable) *StaticEcoResolver {
	if table == nil {
		table = StaticEcoTable()
	}
	return &StaticEcoResolver{table: table}
}

func (r *StaticEcoResolver) Describe(_ context.Context, code string) string {
	return r.table.Describe(code)
}

func (r *StaticEcoResolver) DescribeCached(code string) string {
	return r.table.DescribeNearby(code)
}

func (r *StaticEcoResolver) Table(context.Context) *EcoTable {
	return r.table
}

func (r *StaticEcoResolver) Refresh(ctx context.Context) *EcoTable {
	return r.Table(ctx)
}

// RemoteEcoResolver loads the table from the backend once and keeps it for the
// lifetime of the resolver. Concurrent first callers share a single fetch. A
// failed fetch caches the built-in fallback table and is not retried until Reset.
type RemoteEcoResolver struct {
	fetcher      EcoTableFetcher
	store        EcoTableStore
	group        singleflight.Group
	mu           sync.RWMutex
	table        *EcoTable
	generation   uint64
	fetchTimeout time.Duration
	log          logger.Logger
}

func NewRemoteEcoResolver(fetcher EcoTableFetcher, store EcoTableStore) *RemoteEcoResolver {
	return &RemoteEcoResolver{
		fetcher:      fetcher,
		store:        store,
		fetchTimeout: ecoFetchTimeout,
		log:          logger.New("ecoResolver"),
	}
}

func (r *RemoteEcoResolver) Describe(ctx context.Context, code string) string {
	if NormalizeEcoCode(code) == "" {
		return UnknownOpening
	}
	return r.Table(ctx).Describe(code)
}

// DescribeCached resolves against whatever is loaded right now, with exact and
// two character matching only. Before the first fetch finishes that is the
// loading placeholder table.
func (r *RemoteEcoResolver) DescribeCached(code string) string {
	return r.snapshot().DescribeNearby(code)
}

// Table returns the cached table, fetching it first if needed. The fetch is
// detached from ctx so one impatient caller cannot fail the shared flight.
func (r *RemoteEcoResolver) Table(ctx context.Context) *EcoTable {
	if table := r.cached(); table != nil {
		return table
	}

	result, _, _ := r.group.Do(ecoTableFlightKey, func() (any, error) {
		return r.load(context.WithoutCancel(ctx)), nil
	})
	return result.(*EcoTable)
}

// Prefetch starts loading the table in the background.
func (r *RemoteEcoResolver) Prefetch(ctx context.Context) {
	go r.Table(ctx)
}

// Reset drops the cached table so the next lookup fetches again.
func (r *RemoteEcoResolver) Reset() {
	r.mu.Lock()
	r.table = nil
	r.generation++
	r.mu.Unlock()
	r.group.Forget(ecoTableFlightKey)
}

// Refresh discards the stored and in-memory tables and loads a fresh one.
func (r *RemoteEcoResolver) Refresh(ctx context.Context) *EcoTable {
	log := r.log.Function("Refresh").TraceFromContext(ctx)

	if r.store != nil {
		if err := r.store.ClearEcoTable(ctx); err != nil {
			log.Warn("Failed to clear cached ECO table", "error", err)
		}
	}

	r.Reset()
	return r.Table(ctx)
}

func (r *RemoteEcoResolver) cached() *EcoTable {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.table
}

func (r *RemoteEcoResolver) snapshot() *EcoTable {
	if table := r.cached(); table != nil {
		return table
	}
	return LoadingEcoTable()
}

func (r *RemoteEcoResolver) load(ctx context.Context) *EcoTable {
	log := r.log.Function("load").TraceFromContext(ctx)

	r.mu.RLock()
	generation := r.generation
	if r.table != nil {
		table := r.table
		r.mu.RUnlock()
		return table
	}
	r.mu.RUnlock()

	table := r.loadFromStore(ctx, log)
	if table == nil {
		table = r.fetch(ctx, log)
	}

	r.mu.Lock()
	if r.generation == generation {
		r.table = table
	}
	r.mu.Unlock()

	return table
}

func (r *RemoteEcoResolver) loadFromStore(ctx context.Context, log logger.Logger) *EcoTable {
	if r.store == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(ctx, ecoStoreLoadTimeout)
	defer cancel()

	table, found, err := r.store.LoadEcoTable(ctx)
	if err != nil {
		log.Warn("Failed to read cached ECO table", "error", err)
		return nil
	}
	if !found || table.Len() == 0 {
		return nil
	}

	log.Info("Loaded ECO table from cache", "entries", table.Len())
	return table
}

func (r *RemoteEcoResolver) fetch(ctx context.Context, log logger.Logger) *EcoTable {
	ctx, cancel := context.WithTimeout(ctx, r.fetchTimeout)
	defer cancel()

	table, err := r.fetcher.FetchEcoTable(ctx)
	if err != nil {
		log.Er("Failed to fetch ECO table, using fallback", err)
		return FallbackEcoTable()
	}
	if table.Len() == 0 {
		log.Warn("Backend returned an empty ECO table, using fallback")
		return FallbackEcoTable()
	}

	log.Info("Fetched ECO table", "entries", table.Len())

	if r.store != nil {
		if err := r.store.SaveEcoTable(ctx, table); err != nil {
			log.Warn("Failed to cache ECO table", "error", err)
		}
	}

	return table
}
