package zone

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeZoneFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestIncludeDirectivePullsInChildFile(t *testing.T) {
	dir := t.TempDir()
	writeZoneFile(t, dir, "child.zone", "child IN A 1.2.3.4\n")
	root := writeZoneFile(t, dir, "root.zone", "$INCLUDE child.zone\nparent IN A 9.9.9.9\n")

	var recs []Record
	p, err := Open(Options{Origin: "example.com.", DefaultTTL: 3600}, root)
	require.NoError(t, err)
	p.RegisterType(TypeA, parseTestA)
	p.opts.Accept.Add = captureSink(&recs)
	require.NoError(t, p.Parse(nil))
	require.NoError(t, p.Close())

	require.Len(t, recs, 2)
}

func TestIncludeDisabledIsSemanticError(t *testing.T) {
	dir := t.TempDir()
	writeZoneFile(t, dir, "child.zone", "child IN A 1.2.3.4\n")
	root := writeZoneFile(t, dir, "root.zone", "$INCLUDE child.zone\n")

	p, err := Open(Options{Origin: "example.com.", DefaultTTL: 3600, NoIncludes: true}, root)
	require.NoError(t, err)
	err = p.Parse(nil)
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindSemantic, zerr.Kind)
}

func TestIncludeCycleHitsMaxDepth(t *testing.T) {
	dir := t.TempDir()
	// a.zone includes itself directly, so every push recurses into the
	// same file: depth grows without bound until MaxIncludeDepth trips.
	a := writeZoneFile(t, dir, "a.zone", "$INCLUDE a.zone\n")

	p, err := Open(Options{Origin: "example.com.", DefaultTTL: 3600, MaxIncludeDepth: 4}, a)
	require.NoError(t, err)
	err = p.Parse(nil)
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindResource, zerr.Kind)
	require.EqualValues(t, -768, zerr.Code())
}

func TestIncludeMissingFileIsIOError(t *testing.T) {
	dir := t.TempDir()
	root := writeZoneFile(t, dir, "root.zone", "$INCLUDE missing.zone\n")

	p, err := Open(Options{Origin: "example.com.", DefaultTTL: 3600}, root)
	require.NoError(t, err)
	err = p.Parse(nil)
	require.Error(t, err)
	zerr, ok := err.(*Error)
	require.True(t, ok)
	require.Equal(t, KindIO, zerr.Kind)
}
