// Package modkit provides module wiring and core deps
package modkit

import (
	"genslang/internal/platform/config"
	"genslang/internal/platform/kv"
	"genslang/internal/platform/logger"
)

// Deps holds core dependencies passed to modules
// this is wiring only and does not introduce new abstractions
type Deps struct {
	Log logger.Logger
	Cfg config.Conf

	// CacheStore and LimitStore are separate instances on purpose:
	// the cache's size cap and eviction walk the whole store
	CacheStore kv.Store
	LimitStore kv.Store
}

// ZeroOK returns true when deps are safe to use with zero values in tests
// consumers should still nil check for optional stores
func (d Deps) ZeroOK() bool { return true }
