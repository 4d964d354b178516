package daemon

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/columbia/loom"
	"github.com/columbia/loom/filter"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newRegistry() *filter.Registry {
	return filter.NewRegistry(loom.NewEngine())
}

func TestProcess_NoCommand(t *testing.T) {
	assert.Equal(t, "no command specified", process(newRegistry(), ""))
}

func TestProcess_UnknownCommand(t *testing.T) {
	assert.Equal(t, "unknown command", process(newRegistry(), "frob 1 2"))
}

func TestProcess_AddWrongFormat(t *testing.T) {
	assert.Equal(t, "wrong format. expect: add <filter ID> <file name>", process(newRegistry(), "add 0"))
}

func TestProcess_DelWrongFormat(t *testing.T) {
	assert.Equal(t, "wrong format. expect: del <filter ID>", process(newRegistry(), "del"))
}

func TestProcess_AddAndDeleteRoundTrip(t *testing.T) {
	registry := newRegistry()

	path := filepath.Join(t.TempDir(), "fa.txt")
	require.NoError(t, os.WriteFile(path, []byte("1 2\n0 7\n1 7\n"), 0o644))

	assert.Equal(t, "filter 0 is successfully added", process(registry, "add 0 "+path))
	assert.Equal(t, "failed to add the filter", process(registry, "add 0 "+path))
	assert.Equal(t, "filter 0 is successfully deleted", process(registry, "del 0"))
	assert.Equal(t, "failed to delete the filter", process(registry, "del 0"))
}

func TestProcess_AddMissingFile(t *testing.T) {
	assert.Equal(t, "failed to add the filter", process(newRegistry(), "add 0 /nonexistent/path"))
}
