package normalisers

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/drafter-cli/internal/normalisers/eml"
	"github.com/custodia-labs/drafter-cli/internal/normalisers/markdown"
	"github.com/custodia-labs/drafter-cli/internal/normalisers/plaintext"
)

func TestRegistry_ForFile(t *testing.T) {
	r := Default()

	assert.IsType(t, markdown.New(), r.ForFile("report.md"))
	assert.IsType(t, markdown.New(), r.ForFile("REPORT.MD"))
	assert.IsType(t, eml.New(), r.ForFile("/mail/rfi-042.eml"))
	assert.IsType(t, plaintext.New(), r.ForFile("notes.txt"))
}

func TestRegistry_ForFile_UnknownExtensionFallsBack(t *testing.T) {
	r := Default()

	assert.IsType(t, plaintext.New(), r.ForFile("schedule.xyz"))
	assert.IsType(t, plaintext.New(), r.ForFile("no-extension"))
}
