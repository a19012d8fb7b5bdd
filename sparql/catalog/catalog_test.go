package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openMemory(t *testing.T) *Catalog {
	t.Helper()
	c, err := Open("")
	require.NoError(t, err)
	t.Cleanup(func() { c.Close() })
	return c
}

func TestDefaultGraphs(t *testing.T) {
	c := openMemory(t)

	iris, err := c.DefaultGraphs()
	require.NoError(t, err)
	assert.Empty(t, iris)

	require.NoError(t, c.SetDefaultGraphs("http://example.org/z", "http://example.org/a"))
	iris, err = c.DefaultGraphs()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://example.org/z", "http://example.org/a"}, iris, "insertion order is kept")

	require.NoError(t, c.SetDefaultGraphs("http://example.org/only"))
	iris, err = c.DefaultGraphs()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://example.org/only"}, iris, "setting replaces")

	require.NoError(t, c.SetDefaultGraphs())
	iris, err = c.DefaultGraphs()
	require.NoError(t, err)
	assert.Empty(t, iris)
}

func TestNamedGraphs(t *testing.T) {
	c := openMemory(t)

	for _, iri := range []string{"http://example.org/b", "http://example.org/a", "http://example.org/b"} {
		require.NoError(t, c.AddNamedGraph(iri))
	}
	iris, err := c.NamedGraphs()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://example.org/a", "http://example.org/b"}, iris)

	require.NoError(t, c.RemoveNamedGraph("http://example.org/a"))
	require.NoError(t, c.RemoveNamedGraph("http://example.org/unknown"))
	iris, err = c.NamedGraphs()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://example.org/b"}, iris)
}

func TestDefaultAndNamedAreIndependent(t *testing.T) {
	c := openMemory(t)

	require.NoError(t, c.SetDefaultGraphs("http://example.org/d"))
	require.NoError(t, c.AddNamedGraph("http://example.org/n"))
	require.NoError(t, c.SetDefaultGraphs())

	iris, err := c.NamedGraphs()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://example.org/n"}, iris)
}

func TestPersistence(t *testing.T) {
	dir := t.TempDir()

	c, err := Open(dir)
	require.NoError(t, err)
	require.NoError(t, c.SetDefaultGraphs("http://example.org/d"))
	require.NoError(t, c.AddNamedGraph("http://example.org/n"))
	require.NoError(t, c.Close())

	c, err = Open(dir)
	require.NoError(t, err)
	defer c.Close()

	defaults, err := c.DefaultGraphs()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://example.org/d"}, defaults)

	named, err := c.NamedGraphs()
	require.NoError(t, err)
	assert.Equal(t, []string{"http://example.org/n"}, named)
}
