package tracing_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jawline/Pulse/hookable"
	"github.com/jawline/Pulse/idgen"
	"github.com/jawline/Pulse/tracing"
)

type namedDomain struct{ name string }

func (d namedDomain) Name() string { return d.name }

func (d namedDomain) AcceptHook(hookable.Hook) {}

func (d namedDomain) NumHooks() int { return 0 }

func TestSinkBatchesAndFlushesOnClose(t *testing.T) {
	path := filepath.Join(t.TempDir(), "trace.sqlite3")

	sink := tracing.NewSQLiteSink(path, idgen.NewSequential())
	require.NoError(t, sink.Open())

	pos := &hookable.Pos{Name: "Test Pos"}

	for i := 0; i < 3; i++ {
		sink.Func(hookable.Ctx{
			Domain: namedDomain{name: "comp0"},
			Pos:    pos,
			Cycle:  uint64(i),
			Item:   i,
		})
	}

	require.NoError(t, sink.Close())
	assert.FileExists(t, path)
}
