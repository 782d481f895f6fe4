package digest

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// Message is one outbound mail.
type Message struct {
	From     string
	To       string
	Subject  string
	HTMLBody string
}

// Format renders the message with headers, ready to hand to a transport.
func (m *Message) Format() string {
	var buf strings.Builder
	fmt.Fprintf(&buf, "From: %s\r\n", m.From)
	fmt.Fprintf(&buf, "To: %s\r\n", m.To)
	fmt.Fprintf(&buf, "Subject: %s\r\n", m.Subject)
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/html; charset=utf-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(m.HTMLBody)
	return buf.String()
}

// Mailer delivers a message. Delivery must either fully succeed or return an
// error; the caller only marks items read on a nil return.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// SendmailMailer pipes the message to the local sendmail binary, which reads
// the recipients from the message headers (-t).
type SendmailMailer struct {
	Path string
}

var _ Mailer = (*SendmailMailer)(nil)

func (m *SendmailMailer) path() string {
	if m.Path != "" {
		return m.Path
	}
	return "/usr/sbin/sendmail"
}

func (m *SendmailMailer) Send(ctx context.Context, msg *Message) error {
	cmd := exec.CommandContext(ctx, m.path(), "-t")
	cmd.Stdin = strings.NewReader(msg.Format())

	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("sendmail failed: %w (output: %s)", err, strings.TrimSpace(string(out)))
	}

	return nil
}
