package settings

import (
	"fmt"
	"sync/atomic"

	"github.com/grovetools/wallprefs/schema"
)

// Origin tags every write so listeners can tell who caused a change.
type Origin string

const (
	OriginExternal  Origin = "external"
	OriginValidator Origin = "validator"
	OriginImport    Origin = "import"
	OriginPreset    Origin = "preset"
	OriginMigration Origin = "migration"
	OriginSession   Origin = "session"
	OriginDefault   Origin = "default"
)

var originSeq atomic.Uint64

// NewOrigin returns a unique origin, e.g. one per binding.
func NewOrigin(prefix string) Origin {
	return Origin(fmt.Sprintf("%s#%d", prefix, originSeq.Add(1)))
}

// Change describes one committed value change.
type Change struct {
	Key    schema.Key
	Old    interface{}
	New    interface{}
	Origin Origin
}

// Handler receives change notifications.
type Handler func(Change)
