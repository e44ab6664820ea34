package filter

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net"
	"net/mail"
	"os"
	"strings"
	"time"

	"github.com/emersion/go-smtp"
	"go.uber.org/zap"

	"github.com/mikey/mailsift/internal/classifier"
	"github.com/mikey/mailsift/internal/core"
)

// SMTPFilter implements a Postfix-style content filter: it accepts mail over
// SMTP, stamps classification headers, and relays the result to the upstream
// MTA.
type SMTPFilter struct {
	engine           *classifier.Classifier
	logger           *zap.Logger
	listenAddr       string
	server           *smtp.Server
	blockSpam        bool
	categoryHeader   string
	confidenceHeader string
	reasonHeader     string
	actionHeader     string
	relayAddr        string
	relayPort        int
	relayEnabled     bool
	subjectPrefix    string
	modifySubject    bool
}

// NewSMTPFilter creates a new SMTP content filter
func NewSMTPFilter(
	engine *classifier.Classifier,
	logger *zap.Logger,
	listenAddr string,
	blockSpam bool,
	categoryHeader string,
	confidenceHeader string,
	reasonHeader string,
	actionHeader string,
	relayAddr string,
	relayPort int,
	relayEnabled bool,
	subjectPrefix string,
	modifySubject bool,
) *SMTPFilter {
	if subjectPrefix == "" && modifySubject {
		subjectPrefix = "[**SPAM**] "
	}

	return &SMTPFilter{
		engine:           engine,
		logger:           logger,
		listenAddr:       listenAddr,
		blockSpam:        blockSpam,
		categoryHeader:   categoryHeader,
		confidenceHeader: confidenceHeader,
		reasonHeader:     reasonHeader,
		actionHeader:     actionHeader,
		relayAddr:        relayAddr,
		relayPort:        relayPort,
		relayEnabled:     relayEnabled,
		subjectPrefix:    subjectPrefix,
		modifySubject:    modifySubject,
	}
}

// Start starts the SMTP filter service
func (f *SMTPFilter) Start() error {
	f.server = smtp.NewServer(&smtpBackend{filter: f})

	f.server.Addr = f.listenAddr
	f.server.Domain = "localhost"
	f.server.ReadTimeout = 30 * time.Second
	f.server.WriteTimeout = 30 * time.Second
	f.server.MaxMessageBytes = 30 * 1024 * 1024 // 30MB
	f.server.MaxRecipients = 50
	f.server.AllowInsecureAuth = true

	f.logger.Info("SMTP filter starting", zap.String("address", f.listenAddr))

	go func() {
		if err := f.server.ListenAndServe(); err != nil {
			if err != smtp.ErrServerClosed {
				f.logger.Error("SMTP server error", zap.Error(err))
			}
		}
	}()

	return nil
}

// Stop stops the SMTP filter service
func (f *SMTPFilter) Stop() error {
	if f.server != nil {
		return f.server.Close()
	}
	return nil
}

// ProcessEmail classifies an email and returns the verdict. This is mainly
// used for testing or direct API calls.
func (f *SMTPFilter) ProcessEmail(ctx context.Context, email *core.InboundEmail) (*core.Verdict, error) {
	return f.engine.Classify(ctx, email.From, email.Subject, email.Body), nil
}

// relay sends the processed email to the upstream MTA using go-smtp
func (f *SMTPFilter) relay(sender string, recipients []string, emailData []byte) error {
	relayAddr := fmt.Sprintf("%s:%d", f.relayAddr, f.relayPort)

	hostname, err := os.Hostname()
	if err != nil {
		hostname = "localhost"
	}

	conn, err := net.DialTimeout("tcp", relayAddr, 10*time.Second)
	if err != nil {
		return fmt.Errorf("failed to connect to relay: %w", err)
	}

	if err := conn.SetDeadline(time.Now().Add(30 * time.Second)); err != nil {
		conn.Close()
		return fmt.Errorf("failed to set connection deadline: %w", err)
	}

	c := smtp.NewClient(conn)
	defer c.Close()

	if err := c.Hello(hostname); err != nil {
		return fmt.Errorf("EHLO failed: %w", err)
	}

	if err := c.Mail(sender, nil); err != nil {
		return fmt.Errorf("MAIL FROM failed: %w", err)
	}

	recipientOK := false
	for _, recipient := range recipients {
		if err := c.Rcpt(recipient, nil); err != nil {
			f.logger.Warn("RCPT TO failed for recipient",
				zap.String("recipient", recipient),
				zap.Error(err))
			// Continue with other recipients even if one fails
		} else {
			recipientOK = true
		}
	}

	if !recipientOK {
		return fmt.Errorf("all recipients were rejected")
	}

	wc, err := c.Data()
	if err != nil {
		return fmt.Errorf("DATA command failed: %w", err)
	}

	if _, err = wc.Write(emailData); err != nil {
		wc.Close()
		return fmt.Errorf("failed to send email data: %w", err)
	}

	if err := wc.Close(); err != nil {
		return fmt.Errorf("failed to close data writer: %w", err)
	}

	if err := c.Quit(); err != nil {
		f.logger.Warn("QUIT command failed", zap.Error(err))
		// Not returning an error here as the email has already been sent
	}

	return nil
}

// smtpBackend implements the go-smtp Backend interface
type smtpBackend struct {
	filter *SMTPFilter
}

// NewSession creates a new SMTP session
func (b *smtpBackend) NewSession(c *smtp.Conn) (smtp.Session, error) {
	return &smtpSession{
		filter:     b.filter,
		recipients: make([]string, 0),
	}, nil
}

// smtpSession implements the go-smtp Session interface
type smtpSession struct {
	filter     *SMTPFilter
	sender     string
	recipients []string
}

// Reset resets the session state
func (s *smtpSession) Reset() {
	s.sender = ""
	s.recipients = make([]string, 0)
}

// AuthPlain handles PLAIN authentication (not needed for our filter)
func (s *smtpSession) AuthPlain(_ []byte) error {
	return smtp.ErrAuthUnsupported
}

// Mail sets the sender address
func (s *smtpSession) Mail(from string, _ *smtp.MailOptions) error {
	s.sender = from
	return nil
}

// Rcpt adds a recipient
func (s *smtpSession) Rcpt(to string, _ *smtp.RcptOptions) error {
	s.recipients = append(s.recipients, to)
	return nil
}

// Data classifies the message, stamps verdict headers and relays the result
func (s *smtpSession) Data(r io.Reader) error {
	rawData, err := io.ReadAll(r)
	if err != nil {
		s.filter.logger.Error("Failed to read message data", zap.Error(err))
		return err
	}

	msg, err := mail.ReadMessage(bytes.NewReader(rawData))
	if err != nil {
		s.filter.logger.Error("Failed to parse email message", zap.Error(err))
		return err
	}

	textContent, err := extractTextFromMessage(msg)
	if err != nil {
		s.filter.logger.Error("Failed to extract text content", zap.Error(err))
		return err
	}

	subject := decodeEncodedHeader(msg.Header.Get("Subject"))

	// The envelope sender can be bare; prefer the From header so display-name
	// heuristics see the full form.
	sender := msg.Header.Get("From")
	if sender == "" {
		sender = s.sender
	}

	senderDomain := "unknown"
	if parts := strings.Split(sender, "@"); len(parts) == 2 {
		senderDomain = strings.TrimSuffix(parts[1], ">")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	verdict := s.filter.engine.Classify(ctx, sender, subject, textContent)
	isSpam := verdict.Action == core.ActionDelete

	if isSpam && s.filter.blockSpam {
		s.filter.logger.Info("Rejecting spam email",
			zap.String("from", sender),
			zap.String("sender_domain", senderDomain),
			zap.String("category", verdict.Category.String()),
			zap.Float64("confidence", verdict.Confidence))
		return fmt.Errorf("550 Rejected as spam (%s, confidence %.2f)",
			verdict.Category, verdict.Confidence)
	}

	// Prepend the verdict headers, then the original headers (with an
	// optionally tagged subject), then the untouched raw body so MIME parts
	// and attachments survive.
	var modified bytes.Buffer
	fmt.Fprintf(&modified, "%s: %s\r\n", s.filter.categoryHeader, verdict.Category)
	fmt.Fprintf(&modified, "%s: %.4f\r\n", s.filter.confidenceHeader, verdict.Confidence)
	fmt.Fprintf(&modified, "%s: %s\r\n", s.filter.reasonHeader, verdict.Reason())
	fmt.Fprintf(&modified, "%s: %s\r\n", s.filter.actionHeader, verdict.Action)

	tagSubject := isSpam && s.filter.modifySubject && s.filter.subjectPrefix != "" &&
		!strings.HasPrefix(subject, s.filter.subjectPrefix)
	if tagSubject {
		fmt.Fprintf(&modified, "Subject: %s%s\r\n", s.filter.subjectPrefix, subject)
	}
	for key, values := range msg.Header {
		if tagSubject && strings.EqualFold(key, "Subject") {
			continue
		}
		for _, value := range values {
			fmt.Fprintf(&modified, "%s: %s\r\n", key, value)
		}
	}
	fmt.Fprintf(&modified, "\r\n")

	bodyStartIndex := bytes.Index(rawData, []byte("\r\n\r\n"))
	if bodyStartIndex != -1 {
		modified.Write(rawData[bodyStartIndex+4:])
	} else if bodyStartIndex = bytes.Index(rawData, []byte("\n\n")); bodyStartIndex != -1 {
		modified.Write(rawData[bodyStartIndex+2:])
	} else {
		bodyBytes, err := io.ReadAll(msg.Body)
		if err != nil {
			s.filter.logger.Error("Failed to read message body", zap.Error(err))
			return err
		}
		modified.Write(bodyBytes)
	}

	if s.filter.relayEnabled {
		if err := s.filter.relay(s.sender, s.recipients, modified.Bytes()); err != nil {
			s.filter.logger.Error("Failed to relay email",
				zap.Error(err),
				zap.String("sender", sender))
			return err
		}
	} else {
		s.filter.logger.Warn("Relay disabled, classified message was not forwarded")
	}

	s.filter.logger.Info("Processed email",
		zap.String("from", sender),
		zap.String("sender_domain", senderDomain),
		zap.String("category", verdict.Category.String()),
		zap.String("action", verdict.Action.String()),
		zap.Float64("confidence", verdict.Confidence))

	return nil
}

// Logout handles SMTP logout (not needed for our filter)
func (s *smtpSession) Logout() error {
	return nil
}
