package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/wbrown/janus-sparql/sparql/compiler"
	sparqlerr "github.com/wbrown/janus-sparql/sparql/errors"
)

// run executes the root command and returns stdout and stderr
func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := newRootCommand()
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

const selectQuery = "{:select [?s] :where [?s <http://example.org/p> ?o]}"

func TestCompileArgument(t *testing.T) {
	out, _, err := run(t, "", "compile", selectQuery)
	require.NoError(t, err)
	assert.Equal(t, "(select [?s]\n  :graph <sys:default>\n  :where [?s <http://example.org/p> ?o])\n", out)
}

func TestCompileStdinAndFile(t *testing.T) {
	out, _, err := run(t, selectQuery, "compile")
	require.NoError(t, err)
	assert.Contains(t, out, "(select [?s]")

	path := filepath.Join(t.TempDir(), "query.edn")
	require.NoError(t, os.WriteFile(path, []byte(selectQuery), 0o644))
	out, _, err = run(t, "", "compile", "--file", path)
	require.NoError(t, err)
	assert.Contains(t, out, "(select [?s]")

	_, _, err = run(t, "", "compile", "--file", path, selectQuery)
	assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeInvalidQuery))

	_, _, err = run(t, "  \n", "compile")
	assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeInvalidQuery))
}

func TestCompileGraphFlags(t *testing.T) {
	out, _, err := run(t, "", "compile",
		"--default-graph", "http://example.org/d1",
		"--default-graph", "http://example.org/d2",
		"--named-graph", "http://example.org/n1",
		"{:select [?s] :where [?s <p> ?o :graph ?g]}")
	require.NoError(t, err)
	assert.Contains(t, out, ":graph (union <http://example.org/d1> <http://example.org/d2>)")
	assert.Contains(t, out, ":where (and (in ?g [?s <p> ?o]) (is ?g <http://example.org/n1>))")
}

func TestCompileYAML(t *testing.T) {
	out, _, err := run(t, "", "--format", "yaml", "compile", selectQuery)
	require.NoError(t, err)

	var s compiler.Summary
	require.NoError(t, yaml.Unmarshal([]byte(out), &s))
	assert.Equal(t, "select", s.Kind)
	assert.Equal(t, []string{"sys:default"}, s.Graphs)
	assert.Equal(t, "[?s <http://example.org/p> ?o]", s.Where)
}

func TestCompileErrors(t *testing.T) {
	_, _, err := run(t, "", "--format", "json", "compile", selectQuery)
	assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeConfigInvalid))

	_, _, err = run(t, "", "compile", "{:select [?s]}")
	assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeMissingWhereClause))

	_, _, err = run(t, "", "compile", "{:select [?s] :where")
	assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeInvalidQuery))

	_, _, err = run(t, "", "compile", "--named-graph", "not an iri", selectQuery)
	assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeConfigInvalid))
}

func TestCompileVerbose(t *testing.T) {
	_, stderr, err := run(t, "", "--verbose", "compile", selectQuery)
	require.NoError(t, err)
	assert.Contains(t, stderr, "=== Compile")
	assert.Contains(t, stderr, "=== Compile done")
}

func TestExplain(t *testing.T) {
	out, _, err := run(t, "", "explain",
		"{:construct [?s <http://example.org/q> ?o] :where [?s <http://example.org/p> ?o] :limit 3}")
	require.NoError(t, err)
	assert.Contains(t, out, "CONSTRUCT query")
	assert.Contains(t, out, "default graphs: sys:default (union depth 0)")
	assert.Contains(t, out, "?_const0")
	assert.Contains(t, out, "limit 3")
}

func TestCatalogCommands(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "catalog")

	_, _, err := run(t, "", "catalog", "list")
	assert.True(t, sparqlerr.HasCode(err, sparqlerr.CodeConfigInvalid), "no catalog configured")

	_, _, err = run(t, "", "--catalog", dir, "catalog", "set-default", "http://example.org/d1", "http://example.org/d2")
	require.NoError(t, err)
	_, _, err = run(t, "", "--catalog", dir, "catalog", "add-named", "http://example.org/n2", "http://example.org/n1")
	require.NoError(t, err)
	_, _, err = run(t, "", "--catalog", dir, "catalog", "remove-named", "http://example.org/n2")
	require.NoError(t, err)

	out, _, err := run(t, "", "--catalog", dir, "catalog", "list")
	require.NoError(t, err)
	assert.Equal(t,
		"default <http://example.org/d1>\ndefault <http://example.org/d2>\nnamed   <http://example.org/n1>\n", out)

	out, _, err = run(t, "", "--catalog", dir, "compile", "{:select [?s] :where [?s <p> ?o :graph ?g]}")
	require.NoError(t, err)
	assert.Contains(t, out, ":graph (union <http://example.org/d1> <http://example.org/d2>)")
	assert.Contains(t, out, ":named [<http://example.org/n1>]")
}
