package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const samplePack = `
system: PostgreSQL
description: Core commerce entities
objects:
  - name: Customer
    type: entity
    attributes:
      - name: customer_id
        conceptualType: Identifier
        isPrimaryKey: true
      - name: full_name
        conceptualType: Text
        length: 120
  - name: Order
    type: entity
    attributes:
      - name: order_id
        conceptualType: Identifier
        isPrimaryKey: true
`

func writePack(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestLoadTemplatePack_Match(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "postgresql.yaml", samplePack)

	pack, err := LoadTemplatePack(dir, "PostgreSQL")
	require.NoError(t, err)
	require.NotNil(t, pack)
	assert.Equal(t, "PostgreSQL", pack.System)
	require.Len(t, pack.Objects, 2)
	assert.Equal(t, "Customer", pack.Objects[0].Name)
	require.Len(t, pack.Objects[0].Attributes, 2)
	assert.True(t, pack.Objects[0].Attributes[0].IsPrimaryKey)
	require.NotNil(t, pack.Objects[0].Attributes[1].Length)
	assert.Equal(t, 120, *pack.Objects[0].Attributes[1].Length)
}

func TestLoadTemplatePack_CaseInsensitive(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "pg.yml", samplePack)

	pack, err := LoadTemplatePack(dir, "postgresql")
	require.NoError(t, err)
	require.NotNil(t, pack)
}

func TestLoadTemplatePack_NoMatch(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "pg.yaml", samplePack)

	pack, err := LoadTemplatePack(dir, "Snowflake")
	require.NoError(t, err)
	assert.Nil(t, pack)
}

func TestLoadTemplatePack_MissingDir(t *testing.T) {
	pack, err := LoadTemplatePack(filepath.Join(t.TempDir(), "nope"), "PostgreSQL")
	require.NoError(t, err)
	assert.Nil(t, pack)
}

func TestLoadTemplatePack_EmptySystemName(t *testing.T) {
	pack, err := LoadTemplatePack(t.TempDir(), "")
	require.NoError(t, err)
	assert.Nil(t, pack)
}

func TestLoadTemplatePack_InvalidYAML(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "broken.yaml", "system: [unclosed")

	_, err := LoadTemplatePack(dir, "anything")
	require.Error(t, err)
}

func TestLoadTemplatePack_MissingSystemField(t *testing.T) {
	dir := t.TempDir()
	writePack(t, dir, "anon.yaml", "objects: []")

	_, err := LoadTemplatePack(dir, "anything")
	require.Error(t, err)
}
