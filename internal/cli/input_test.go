package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/hpos-config/pkg/registry"
	"github.com/aretw0/hpos-config/pkg/schema"
)

func TestReadDocument(t *testing.T) {
	data, name, err := ReadDocument("-", strings.NewReader(`{"a": 1}`))
	require.NoError(t, err)
	assert.Equal(t, StdinName, name)
	assert.Equal(t, `{"a": 1}`, string(data))

	_, name, err = ReadDocument("", strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, StdinName, name)

	path := filepath.Join(t.TempDir(), "hpos-config.json")
	require.NoError(t, os.WriteFile(path, []byte("{}"), 0644))
	data, name, err = ReadDocument(path, nil)
	require.NoError(t, err)
	assert.Equal(t, "hpos-config.json", name)
	assert.Equal(t, "{}", string(data))

	_, _, err = ReadDocument(filepath.Join(t.TempDir(), "missing.json"), nil)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestDecodeData(t *testing.T) {
	dec := schema.NewValidator(schema.WithRoot("data.json: "))

	v, err := DecodeData(dec, "data.json", []byte(`{"n": 1, "f": 1.5}`))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": json.Number("1"), "f": json.Number("1.5")}, v)

	v, err = DecodeData(dec, "data.YML", []byte("n: 1\nf: 1.5\ntags: [a]\n"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"n": 1, "f": 1.5, "tags": []any{"a"}}, v)

	_, err = DecodeData(dec, "data.yaml", []byte("a: ["))
	assert.Error(t, err)

	_, err = DecodeData(dec, "data.json", []byte("{"))
	require.Error(t, err)
	kind, ok := schema.KindOf(err)
	require.True(t, ok, "malformed JSON should be a validation error, got %T", err)
	assert.Equal(t, schema.DecodeError, kind)
	assert.True(t, strings.HasPrefix(err.Error(), "Failed to decode JSON for data.json: "), err.Error())
}

func TestDecodeData_YAMLValidates(t *testing.T) {
	s := schema.Object(schema.Field("n", schema.Int), schema.Field("f", schema.Float))

	dec := schema.NewValidator()

	v, err := DecodeData(dec, "data.yaml", []byte("n: 1\nf: 1.5\n"))
	require.NoError(t, err)
	assert.NoError(t, schema.Validate(s, v))

	v, err = DecodeData(dec, "data.yaml", []byte("n: 1.0\nf: 1.5\n"))
	require.NoError(t, err)
	err = schema.Validate(s, v)
	kind, _ := schema.KindOf(err)
	assert.Equal(t, schema.TypeMismatch, kind)
}

func TestLoadSchema(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "schema.yaml")
	require.NoError(t, os.WriteFile(path, []byte("owner: !pred is_email\n"), 0644))

	node, err := LoadSchema(path, registry.Default())
	require.NoError(t, err)
	assert.Equal(t, `{"owner": is_email}`, node.Describe())

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("owner: !pred is_url\n"), 0644))
	_, err = LoadSchema(bad, registry.Default())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid schema bad.yaml")
}
