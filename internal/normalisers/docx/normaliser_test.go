package docx

import (
	"archive/zip"
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildDocx(t *testing.T, files map[string]string) []byte {
	t.Helper()

	buf := new(bytes.Buffer)
	w := zip.NewWriter(buf)
	for name, content := range files {
		f, err := w.Create(name)
		require.NoError(t, err)
		_, err = f.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return buf.Bytes()
}

const documentXMLSample = `<?xml version="1.0"?>
<document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
  <body>
    <p><r><t>PART 1 GENERAL</t></r></p>
    <p><r><t>1.1 Scope of works.</t></r></p>
  </body>
</document>`

func TestNormaliser_Normalise(t *testing.T) {
	n := New()
	data := buildDocx(t, map[string]string{
		"word/document.xml": documentXMLSample,
		"docProps/core.xml": `<?xml version="1.0"?><coreProperties><title>Spec Section 03</title></coreProperties>`,
	})

	res, err := n.Normalise(context.Background(), "spec.docx", data)
	require.NoError(t, err)

	assert.Equal(t, "Spec Section 03", res.Title)
	assert.Contains(t, res.Content, "PART 1 GENERAL")
	assert.Contains(t, res.Content, "1.1 Scope of works.")
}

func TestNormaliser_Normalise_TitleFallsBackToFilename(t *testing.T) {
	n := New()
	data := buildDocx(t, map[string]string{
		"word/document.xml": documentXMLSample,
	})

	res, err := n.Normalise(context.Background(), "/files/structural_spec.docx", data)
	require.NoError(t, err)

	assert.Equal(t, "structural spec", res.Title)
}

func TestNormaliser_Normalise_NotAZip(t *testing.T) {
	n := New()

	_, err := n.Normalise(context.Background(), "bad.docx", []byte("plain text"))
	assert.Error(t, err)
}
