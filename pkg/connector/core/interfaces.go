package core

import (
	"context"
)

// WrapperType identifies a foreign data wrapper implementation
type WrapperType string

// OptionsType selects which options bag a wrapper reads from the host
type OptionsType string

const (
	// OptionsTypeServer is the bag attached to the foreign server
	OptionsTypeServer OptionsType = "server"
	// OptionsTypeTable is the bag attached to the foreign table
	OptionsTypeTable OptionsType = "table"
)

// ForeignDataWrapper is the lifecycle contract a host query engine drives to
// read a remote source as a relational table. The host calls one method at a
// time and blocks until it returns.
//
// Scan lifecycle:
//
//	Init -> BeginScan -> IterScan ... IterScan(false) -> EndScan
//
// IterScan returns true after filling row with one cell per requested column,
// and false (leaving row untouched) once the source is exhausted. EndScan must
// be safe to call in any state.
type ForeignDataWrapper interface {
	// HostVersionRequirement returns the semver expression of host versions
	// the wrapper works with.
	HostVersionRequirement() string

	// Init resolves connector-level settings. It is called once per wrapper.
	Init(ctx context.Context, fctx Context) error

	// Scan lifecycle
	BeginScan(ctx context.Context, fctx Context) error
	IterScan(ctx context.Context, fctx Context, row *Row) (bool, error)
	ReScan(fctx Context) error
	EndScan(fctx Context) error

	// Modify lifecycle
	BeginModify(fctx Context) error
	Insert(fctx Context, row *Row) error
	Update(fctx Context, rowID Cell, row *Row) error
	Delete(fctx Context, rowID Cell) error
	EndModify(fctx Context) error
}

// WrapperFactory creates a wrapper instance. Each instance owns its state and
// serves at most one scan or modify cycle at a time.
type WrapperFactory func(reporter Reporter) (ForeignDataWrapper, error)
