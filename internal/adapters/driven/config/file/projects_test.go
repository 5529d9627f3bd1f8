package file

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
)

func TestProjectStore_Get(t *testing.T) {
	ctx := context.Background()

	t.Run("reads an organisation's context file", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewProjectStore(dir)
		require.NoError(t, err)

		content := `name = "Pump Station Upgrade"
objectives = "Replace aging pumps with minimal downtime."
stakeholders = ["Water Authority", "Main Contractor"]
risks = ["Wet weather delays"]
disciplines = ["civil", "mechanical"]
`
		require.NoError(t, os.WriteFile(filepath.Join(dir, "projects", "org-1.toml"), []byte(content), 0600))

		pc, err := store.Get(ctx, "org-1")
		require.NoError(t, err)
		assert.Equal(t, "Pump Station Upgrade", pc.Name)
		assert.Equal(t, []string{"Water Authority", "Main Contractor"}, pc.Stakeholders)
		assert.Equal(t, []string{"civil", "mechanical"}, pc.Disciplines)
		assert.False(t, pc.Empty())
	})

	t.Run("missing file reports not found", func(t *testing.T) {
		store, err := NewProjectStore(t.TempDir())
		require.NoError(t, err)

		_, err = store.Get(ctx, "org-unknown")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("path segments in the org id are stripped", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewProjectStore(dir)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "projects", "org-1.toml"), []byte(`name = "P"`), 0600))

		pc, err := store.Get(ctx, "../projects/org-1")
		require.NoError(t, err)
		assert.Equal(t, "P", pc.Name)
	})

	t.Run("malformed TOML errors", func(t *testing.T) {
		dir := t.TempDir()
		store, err := NewProjectStore(dir)
		require.NoError(t, err)

		require.NoError(t, os.WriteFile(filepath.Join(dir, "projects", "org-1.toml"), []byte("name = ["), 0600))

		_, err = store.Get(ctx, "org-1")
		assert.Error(t, err)
	})
}
