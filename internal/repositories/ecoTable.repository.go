package repositories

import (
	"context"
	"time"

	"chessyui/internal/database"
	"chessyui/internal/services"

	logger "github.com/Bparsons0904/goLogger"
)

const (
	ECO_TABLE_CACHE_PREFIX = "eco"
	ECO_TABLE_CACHE_KEY    = "table"
	ECO_TABLE_CACHE_EXPIRY = 24 * time.Hour
)

type EcoTableRepository interface {
	LoadEcoTable(ctx context.Context) (*services.EcoTable, bool, error)
	SaveEcoTable(ctx context.Context, table *services.EcoTable) error
	ClearEcoTable(ctx context.Context) error
}

type ecoTableRepository struct {
	cache database.CacheClient
	log   logger.Logger
}

// NewEcoTableRepository keeps the fetched ECO table in valkey. A nil cache turns
// every call into a miss.
func NewEcoTableRepository(cache database.CacheClient) EcoTableRepository {
	return &ecoTableRepository{
		cache: cache,
		log:   logger.New("ecoTableRepository"),
	}
}

func (r *ecoTableRepository) LoadEcoTable(ctx context.Context) (*services.EcoTable, bool, error) {
	if r.cache == nil {
		return nil, false, nil
	}

	table := services.NewEcoTable()
	found, err := database.NewCacheBuilder(r.cache, ECO_TABLE_CACHE_KEY).
		WithContext(ctx).
		WithHash(ECO_TABLE_CACHE_PREFIX).
		Get(table)
	if err != nil {
		return nil, false, r.log.Function("LoadEcoTable").Err("failed to get ECO table from cache", err)
	}
	if !found {
		return nil, false, nil
	}

	return table, true, nil
}

func (r *ecoTableRepository) SaveEcoTable(ctx context.Context, table *services.EcoTable) error {
	if r.cache == nil || table == nil {
		return nil
	}

	err := database.NewCacheBuilder(r.cache, ECO_TABLE_CACHE_KEY).
		WithContext(ctx).
		WithHash(ECO_TABLE_CACHE_PREFIX).
		WithStruct(table).
		WithTTL(ECO_TABLE_CACHE_EXPIRY).
		Set()
	if err != nil {
		return r.log.Function("SaveEcoTable").Err("failed to set ECO table in cache", err, "entries", table.Len())
	}

	return nil
}

func (r *ecoTableRepository) ClearEcoTable(ctx context.Context) error {
	if r.cache == nil {
		return nil
	}

	err := database.NewCacheBuilder(r.cache, ECO_TABLE_CACHE_KEY).
		WithContext(ctx).
		WithHash(ECO_TABLE_CACHE_PREFIX).
		Delete()
	if err != nil {
		return r.log.Function("ClearEcoTable").Err("failed to delete ECO table from cache", err)
	}

	return nil
}
