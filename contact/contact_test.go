package contact_test

import (
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cyberguard/contact"
)

func TestMessageMailtoURL(t *testing.T) {
	msg := contact.Message{
		Name:    "Ada Lovelace",
		Email:   "ada@example.com",
		Message: "I think my account was compromised.",
	}

	link := msg.MailtoURL("")
	assert.True(t, strings.HasPrefix(link, "mailto:"+contact.DefaultSupportAddress+"?"))

	// Spaces encode as %20, never as +.
	assert.NotContains(t, link, "+")
	assert.Contains(t, link, "subject=%5BGENERAL%20CONTACT%5D%20Message%20from%20Ada%20Lovelace")

	body := decodeBody(t, link)
	assert.Contains(t, body, "Dear Cyber Guardian Support Team,")
	assert.Contains(t, body, "I think my account was compromised.")
	assert.Contains(t, body, "Full Name: Ada Lovelace")
	assert.Contains(t, body, "Return Email: ada@example.com")
}

func TestInquiryMailtoURL(t *testing.T) {
	inq := contact.Inquiry{
		Name:    "Tech Daily",
		Email:   "press@techdaily.example",
		Subject: "Interview request",
		Body:    "We would like to feature your team.",
	}

	link := inq.MailtoURL("media@override.example")
	assert.True(t, strings.HasPrefix(link, "mailto:media@override.example?"))
	assert.Contains(t, link, "subject=%5BPRESS%20INQUIRY%5D%20Interview%20request")

	body := decodeBody(t, link)
	assert.Contains(t, body, "Dear Cyber Guardian Press Team,")
	assert.Contains(t, body, "Name/Organization: Tech Daily")
}

func decodeBody(t *testing.T, link string) string {
	t.Helper()

	idx := strings.Index(link, "body=")
	require.NotEqual(t, -1, idx)

	body, err := url.QueryUnescape(link[idx+len("body="):])
	require.NoError(t, err)
	return body
}
