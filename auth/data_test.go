package auth

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func Test_Data_SaveLoadClear(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "auth.json")

	d := &Data{
		Token:    "token",
		Username: "jordan",
		Roles:    []string{"User"},
	}
	require.NoError(t, d.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, d, loaded)

	require.NoError(t, Clear(path))
	require.NoError(t, Clear(path))

	_, err = Load(path)
	require.Error(t, err)
}
