package eml

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/drafter-cli/internal/core/domain"
)

const plainEmail = `From: engineer@example.com
To: contractor@example.com
Date: Mon, 13 Jul 2026 10:00:00 +0000
Subject: RE: Defect list for Level 2
Content-Type: text/plain

The waterproofing defects noted last week remain outstanding.`

func TestNormaliser_Normalise(t *testing.T) {
	n := New()

	res, err := n.Normalise(context.Background(), "defects.eml", []byte(plainEmail))
	require.NoError(t, err)

	assert.Equal(t, "RE: Defect list for Level 2", res.Title)
	assert.Equal(t, domain.DocTypeCorrespondence, res.Type)
	assert.Contains(t, res.Content, "From: engineer@example.com")
	assert.Contains(t, res.Content, "Subject: RE: Defect list for Level 2")
	assert.Contains(t, res.Content, "waterproofing defects")
}

func TestNormaliser_Normalise_Multipart(t *testing.T) {
	n := New()
	input := "From: a@example.com\r\n" +
		"Subject: Variation 14\r\n" +
		"Content-Type: multipart/alternative; boundary=\"sep\"\r\n" +
		"\r\n" +
		"--sep\r\n" +
		"Content-Type: text/plain\r\n" +
		"\r\n" +
		"Approved subject to cost check.\r\n" +
		"--sep\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<p>Approved subject to cost check.</p>\r\n" +
		"--sep--\r\n"

	res, err := n.Normalise(context.Background(), "variation.eml", []byte(input))
	require.NoError(t, err)

	assert.Equal(t, "Variation 14", res.Title)
	assert.Contains(t, res.Content, "Approved subject to cost check.")
	assert.NotContains(t, res.Content, "<p>")
}

func TestNormaliser_Normalise_InvalidMessage(t *testing.T) {
	n := New()

	_, err := n.Normalise(context.Background(), "bad.eml", []byte("not an email"))
	assert.Error(t, err)
}
