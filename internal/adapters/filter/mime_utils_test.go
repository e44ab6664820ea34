package filter

import (
	"net/mail"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeEncodedHeader(t *testing.T) {
	assert.Equal(t, "Hello World", decodeEncodedHeader("=?utf-8?B?SGVsbG8gV29ybGQ=?="))
	assert.Equal(t, "Café news", decodeEncodedHeader("=?utf-8?Q?Caf=C3=A9_news?="))
	assert.Equal(t, "plain subject", decodeEncodedHeader("plain subject"))
	assert.Equal(t, "=?utf-8?B?*broken*?=", decodeEncodedHeader("=?utf-8?B?*broken*?="))
}

func TestExtractTextSinglePart(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Subject: hi\r\n" +
		"\r\n" +
		"just a plain body\r\n"
	msg, err := mail.ReadMessage(strings.NewReader(raw))
	require.NoError(t, err)

	text, err := extractTextFromMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, "just a plain body\r\n", text)
}

func TestExtractTextMultipart(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Content-Type: multipart/alternative; boundary=BOUNDARY\r\n" +
		"\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/plain; charset=utf-8\r\n" +
		"\r\n" +
		"the plain text part\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/html; charset=utf-8\r\n" +
		"\r\n" +
		"<p>the html part</p>\r\n" +
		"--BOUNDARY--\r\n"
	msg, err := mail.ReadMessage(strings.NewReader(raw))
	require.NoError(t, err)

	text, err := extractTextFromMessage(msg)
	require.NoError(t, err)
	assert.Contains(t, text, "the plain text part")
	assert.NotContains(t, text, "html part")
}

func TestExtractTextMultipartWithoutPlainPart(t *testing.T) {
	raw := "From: a@example.com\r\n" +
		"Content-Type: multipart/alternative; boundary=BOUNDARY\r\n" +
		"\r\n" +
		"--BOUNDARY\r\n" +
		"Content-Type: text/html\r\n" +
		"\r\n" +
		"<p>only html</p>\r\n" +
		"--BOUNDARY--\r\n"
	msg, err := mail.ReadMessage(strings.NewReader(raw))
	require.NoError(t, err)

	text, err := extractTextFromMessage(msg)
	require.NoError(t, err)
	assert.Equal(t, "[No text content found in multipart message]", text)
}
