package plaintext

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormaliser_Normalise(t *testing.T) {
	n := New()

	res, err := n.Normalise(context.Background(), "/docs/site_diary_week-12.txt", []byte("Excavation complete."))
	require.NoError(t, err)

	assert.Equal(t, "site diary week 12", res.Title)
	assert.Equal(t, "Excavation complete.", res.Content)
	assert.Empty(t, res.Type)
}

func TestNormaliser_Normalise_NilData(t *testing.T) {
	n := New()

	_, err := n.Normalise(context.Background(), "x.txt", nil)
	assert.Error(t, err)
}

func TestTitleFromFilename(t *testing.T) {
	assert.Equal(t, "spec section 03", TitleFromFilename("/tmp/spec_section-03.txt"))
	assert.Equal(t, "notes", TitleFromFilename("notes"))
}
