// Package contact drafts the mailto links the contact and press
// inquiry forms hand to the visitor's mail client. Nothing is sent
// server-side.
package contact

import (
	"fmt"
	"net/url"
	"strings"
)

const (
	// DefaultSupportAddress receives general contact messages.
	DefaultSupportAddress = "support@cyberguardian.com"
	// DefaultPressAddress receives press inquiries.
	DefaultPressAddress = "press@cyberguardian.com"
)

// Message is a general contact form submission.
type Message struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// MailtoURL drafts the support email for the message.
func (m Message) MailtoURL(target string) string {
	if target == "" {
		target = DefaultSupportAddress
	}

	body := fmt.Sprintf(`
Dear Cyber Guardian Support Team,

I am writing regarding a general inquiry:

---
Message:
%s
---

Sender Details:
Full Name: %s
Return Email: %s
        `, m.Message, m.Name, m.Email)

	subject := fmt.Sprintf("[GENERAL CONTACT] Message from %s", m.Name)
	return mailto(target, subject, body)
}

// Inquiry is a press inquiry form submission.
type Inquiry struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// MailtoURL drafts the press email for the inquiry.
func (i Inquiry) MailtoURL(target string) string {
	if target == "" {
		target = DefaultPressAddress
	}

	body := fmt.Sprintf(`
Dear Cyber Guardian Press Team,

I am writing to you regarding the following inquiry:

---
Inquiry Details:
%s
---

Sender Details:
Name/Organization: %s
Return Email: %s
        `, i.Body, i.Name, i.Email)

	subject := fmt.Sprintf("[PRESS INQUIRY] %s", i.Subject)
	return mailto(target, subject, body)
}

func mailto(target, subject, body string) string {
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
		target, encodeComponent(subject), encodeComponent(body))
}

// encodeComponent percent-encodes the way browsers encode URI
// components: spaces become %20, not +.
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
