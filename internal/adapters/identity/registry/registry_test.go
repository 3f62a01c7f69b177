package registry

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vncsmyrnk/elecciones/internal/core/domain"
)

func writeVoters(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "voters.json")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRegistry_Lookup(t *testing.T) {
	path := writeVoters(t, `{"voters": [
		{"dni": "12345678", "full_name": "JUAN PEREZ QUISPE", "district": "SURCO", "birth_date": "1990-05-01"},
		{"dni": "87654321", "full_name": "ANA TORRES"}
	]}`)

	r, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, 2, r.Len())

	v, err := r.Lookup(context.Background(), "12345678")
	require.NoError(t, err)
	assert.Equal(t, "JUAN PEREZ QUISPE", v.FullName)
	assert.Equal(t, "SURCO", v.District)

	_, err = r.Lookup(context.Background(), "11111111")
	assert.ErrorIs(t, err, domain.ErrVoterNotFound)

	_, err = r.Lookup(context.Background(), "abc")
	assert.ErrorIs(t, err, domain.ErrInvalidDNI)
}

func TestRegistry_RejectsInvalidEntries(t *testing.T) {
	path := writeVoters(t, `{"voters": [{"dni": "123", "full_name": "X"}]}`)

	_, err := Load(path)
	assert.ErrorIs(t, err, domain.ErrInvalidDNI)
}

func TestRegistry_Reload(t *testing.T) {
	path := writeVoters(t, `{"voters": []}`)
	r, err := Load(path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte(`{"voters": [{"dni": "12345678", "full_name": "NEW"}]}`), 0o600))
	require.NoError(t, r.Reload())

	v, err := r.Lookup(context.Background(), "12345678")
	require.NoError(t, err)
	assert.Equal(t, "NEW", v.FullName)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
