package registry

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wippyai/graph-runtime/errors"
)

const stdMetadata = `name: StandardExtension
id: 8ec2d5d6-b5df-48bf-8dee-0252606fdd7e
version: 2.3.0
components:
- typename: std::Allocator
  id: 3cdd82d0-2326-4867-8de2-d565dbf28122
  base_typename: std::Component
- typename: std::Codelet
  id: 5c6166fa-6eed-41e7-bbf0-bef48e037bc6
  base_typename: std::Component
`

const conflictingMetadata = `name: StandardExtension
id: 8ec2d5d6-b5df-48bf-8dee-0252606fdd7e
version: 2.3.0
components:
- typename: std::BlockAllocator
  id: 3cdd82d0-2326-4867-8de2-d565dbf28122
`

func writeMetadata(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestParseMetadataFile(t *testing.T) {
	path := writeMetadata(t, "std.yaml", stdMetadata)

	desc, err := ParseMetadataFile(path)
	require.NoError(t, err)
	assert.Equal(t, "StandardExtension", desc.Name)
	assert.Equal(t, extStd, desc.ID)
	require.Len(t, desc.Components, 2)
	assert.Equal(t, tidAllocator, desc.Components[0].TID)
	assert.Equal(t, "std::Component", desc.Components[0].BaseTypeName)
}

func TestParseMetadataFile_Errors(t *testing.T) {
	_, err := ParseMetadataFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.True(t, errors.IsKind(err, errors.KindNotFound))

	bad := writeMetadata(t, "bad.yaml", "{{{")
	_, err = ParseMetadataFile(bad)
	assert.True(t, errors.IsKind(err, errors.KindInvalidArg))

	noVersion := writeMetadata(t, "nover.yaml",
		"name: X\nid: 8ec2d5d6-b5df-48bf-8dee-0252606fdd7e\nversion: nope\n")
	_, err = ParseMetadataFile(noVersion)
	assert.True(t, errors.IsKind(err, errors.KindInvalidArg))
}

func TestImportMetadata_ResolvesWithoutImplementation(t *testing.T) {
	types := NewTypeRegistry(nil)
	exts := NewExtensionRegistry()
	path := writeMetadata(t, "std.yaml", stdMetadata)

	require.NoError(t, ImportMetadata(types, exts, path))

	// Types resolve even though no implementation was ever loaded.
	rec, err := types.Resolve(tidAllocator)
	require.NoError(t, err)
	assert.Equal(t, "std::Allocator", rec.TypeName)
	assert.False(t, exts.IsLoaded(extStd))
}

func TestImportMetadata_Idempotent(t *testing.T) {
	types := NewTypeRegistry(nil)
	exts := NewExtensionRegistry()
	path := writeMetadata(t, "std.yaml", stdMetadata)

	require.NoError(t, ImportMetadata(types, exts, path))
	require.NoError(t, ImportMetadata(types, exts, path))
	assert.Equal(t, 2, types.Len())

	// Importing the same file twice in one call is also a no-op.
	require.NoError(t, ImportMetadata(types, exts, path, path))
	assert.Equal(t, 2, types.Len())
}

func TestImportMetadata_Conflict(t *testing.T) {
	types := NewTypeRegistry(nil)
	exts := NewExtensionRegistry()
	std := writeMetadata(t, "std.yaml", stdMetadata)
	conflict := writeMetadata(t, "conflict.yaml", conflictingMetadata)

	require.NoError(t, ImportMetadata(types, exts, std))
	err := ImportMetadata(types, exts, conflict)
	assert.True(t, errors.IsKind(err, errors.KindTypeConflict))
}

func TestImportMetadata_DuplicateTypenameInOneFile(t *testing.T) {
	types := NewTypeRegistry(nil)
	exts := NewExtensionRegistry()
	dup := writeMetadata(t, "dup.yaml", `name: StandardExtension
id: 8ec2d5d6-b5df-48bf-8dee-0252606fdd7e
version: 2.3.0
components:
- typename: std::Allocator
  id: 3cdd82d0-2326-4867-8de2-d565dbf28122
- typename: std::Allocator
  id: 5c6166fa-6eed-41e7-bbf0-bef48e037bc6
`)

	err := ImportMetadata(types, exts, dup)
	assert.True(t, errors.IsKind(err, errors.KindTypeConflict))
	assert.Equal(t, 0, types.Len())
}

func TestImportMetadata_ParseErrorImportsNothing(t *testing.T) {
	types := NewTypeRegistry(nil)
	exts := NewExtensionRegistry()
	std := writeMetadata(t, "std.yaml", stdMetadata)
	bad := writeMetadata(t, "bad.yaml", "{{{")

	err := ImportMetadata(types, exts, std, bad)
	require.Error(t, err)
	assert.Equal(t, 0, types.Len(), "parse failures surface before any commit")
}

func TestImportMetadata_NoPaths(t *testing.T) {
	assert.NoError(t, ImportMetadata(NewTypeRegistry(nil), NewExtensionRegistry()))
}
