package database

import (
	"fmt"

	"chessyui/config"

	"github.com/valkey-io/valkey-go"
)

// Valkey logical databases used by the gateway.
const (
	// CacheIndexGeneral holds the warm-start copy of the backend ECO table.
	CacheIndexGeneral = iota

	// CacheIndexEvents carries UI events between gateway instances.
	CacheIndexEvents
)

func (s *DB) initializeCacheDB(config config.Config) error {
	log := s.log.Function("initializeCacheDB")

	if config.DatabaseCacheAddress == "" || config.DatabaseCachePort == 0 {
		return log.Errorf("failed to initialize cache database", "address or port is empty")
	}
	address := fmt.Sprintf("%s:%d", config.DatabaseCacheAddress, config.DatabaseCachePort)
	log.Info("Connecting to valkey", "address", address)

	general, err := newCacheClient(address, CacheIndexGeneral)
	if err != nil {
		return log.Err("failed to create eco table cache client", err, "db", CacheIndexGeneral)
	}

	events, err := newCacheClient(address, CacheIndexEvents)
	if err != nil {
		general.Close()
		return log.Err("failed to create event bus cache client", err, "db", CacheIndexEvents)
	}

	s.Cache = Cache{General: general, Events: events}
	return nil
}

func newCacheClient(address string, index int) (valkey.Client, error) {
	return valkey.NewClient(valkey.ClientOption{
		InitAddress: []string{address},
		SelectDB:    index,
	})
}
