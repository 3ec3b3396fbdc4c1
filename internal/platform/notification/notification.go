// Package notification delivers medication and pharmacy notices over email,
// SMS, or push, with template rendering and an in-memory delivery log.
package notification

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Channel is the delivery channel for a notice. Values align with the
// notification type a patient picks on a medication.
type Channel string

const (
	ChannelPush  Channel = "Push"
	ChannelEmail Channel = "Email"
	ChannelSMS   Channel = "SMS"
)

// Notice is a single outbound notification and its delivery outcome.
type Notice struct {
	ID         string            `json:"id"`
	Channel    Channel           `json:"channel"`
	Recipient  string            `json:"recipient"`
	Subject    string            `json:"subject,omitempty"`
	Body       string            `json:"body"`
	TemplateID string            `json:"templateId,omitempty"`
	Data       map[string]string `json:"data,omitempty"`
	Status     string            `json:"status"`
	CreatedAt  time.Time         `json:"createdAt"`
	SentAt     *time.Time        `json:"sentAt,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// EmailSender sends email messages.
type EmailSender interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSSender sends SMS messages.
type SMSSender interface {
	SendSMS(ctx context.Context, to, body string) error
}

// PushSender sends push messages keyed by user identifier.
type PushSender interface {
	SendPush(ctx context.Context, to, title, body string) error
}

// Template is a reusable notice template with {{key}} placeholders.
type Template struct {
	ID      string  `json:"id"`
	Name    string  `json:"name"`
	Subject string  `json:"subject"`
	Body    string  `json:"body"`
	Channel Channel `json:"channel"`
}

// TemplateEngine stores templates and renders them with data maps.
type TemplateEngine struct {
	mu        sync.RWMutex
	templates map[string]*Template
}

// Built-in template IDs used by the domain services.
const (
	TemplateNewPrescription     = "new-prescription"
	TemplateDoseReminder        = "dose-reminder"
	TemplatePrescriptionExpired = "prescription-expired"
	TemplateLowStockAlert       = "low-stock-alert"
)

// NewTemplateEngine creates a TemplateEngine with the built-in templates
// pre-registered.
func NewTemplateEngine() *TemplateEngine {
	e := &TemplateEngine{templates: make(map[string]*Template)}
	e.registerBuiltIn()
	return e
}

func (e *TemplateEngine) registerBuiltIn() {
	builtIn := []Template{
		{
			ID:      TemplateNewPrescription,
			Name:    "New Prescription",
			Subject: "New prescription from Dr. {{doctor_name}}",
			Body:    "You have a new prescription for {{medicine}} ({{dosage}}), valid until {{expiry}}.",
			Channel: ChannelEmail,
		},
		{
			ID:      TemplateDoseReminder,
			Name:    "Dose Reminder",
			Subject: "Time to take {{medicine}}",
			Body:    "It is {{time}}: take your {{dosage}} dose of {{medicine}}.",
			Channel: ChannelPush,
		},
		{
			ID:      TemplatePrescriptionExpired,
			Name:    "Prescription Expired",
			Subject: "Your prescription for {{medicine}} has expired",
			Body:    "The prescription for {{medicine}} expired on {{expiry}}. Contact your doctor for a renewal.",
			Channel: ChannelEmail,
		},
		{
			ID:      TemplateLowStockAlert,
			Name:    "Low Stock Alert",
			Subject: "Low stock: {{item}}",
			Body:    "Inventory item {{item}} (batch {{batch}}) is down to {{quantity}} units.",
			Channel: ChannelEmail,
		},
	}
	for i := range builtIn {
		t := builtIn[i]
		e.templates[t.ID] = &t
	}
}

// RegisterTemplate adds or replaces a template.
func (e *TemplateEngine) RegisterTemplate(t Template) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.templates[t.ID] = &t
}

// Render performs {{key}} replacement on the identified template. Keys in the
// template with no matching data entry are left as-is.
func (e *TemplateEngine) Render(templateID string, data map[string]string) (subject, body string, err error) {
	e.mu.RLock()
	t, ok := e.templates[templateID]
	e.mu.RUnlock()
	if !ok {
		return "", "", fmt.Errorf("template %q not found", templateID)
	}

	subject = t.Subject
	body = t.Body
	for k, v := range data {
		placeholder := "{{" + k + "}}"
		subject = strings.ReplaceAll(subject, placeholder, v)
		body = strings.ReplaceAll(body, placeholder, v)
	}
	return subject, body, nil
}

func (e *TemplateEngine) channelOf(templateID string) Channel {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if t, ok := e.templates[templateID]; ok {
		return t.Channel
	}
	return ChannelEmail
}

// Dispatcher sends notices through the channel senders and keeps an
// in-memory log of outcomes.
type Dispatcher struct {
	email EmailSender
	sms   SMSSender
	push  PushSender
	tpl   *TemplateEngine

	mu  sync.RWMutex
	log map[string]*Notice
}

func NewDispatcher(email EmailSender, sms SMSSender, push PushSender, tpl *TemplateEngine) *Dispatcher {
	return &Dispatcher{
		email: email,
		sms:   sms,
		push:  push,
		tpl:   tpl,
		log:   make(map[string]*Notice),
	}
}

// Send dispatches a notice on its channel and records the outcome.
func (d *Dispatcher) Send(ctx context.Context, n *Notice) error {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}
	n.CreatedAt = time.Now().UTC()
	n.Status = "pending"

	var sendErr error
	switch n.Channel {
	case ChannelEmail:
		if d.email == nil {
			sendErr = errors.New("no email sender configured")
		} else {
			sendErr = d.email.SendEmail(ctx, n.Recipient, n.Subject, n.Body)
		}
	case ChannelSMS:
		if d.sms == nil {
			sendErr = errors.New("no sms sender configured")
		} else {
			sendErr = d.sms.SendSMS(ctx, n.Recipient, n.Body)
		}
	case ChannelPush:
		if d.push == nil {
			sendErr = errors.New("no push sender configured")
		} else {
			sendErr = d.push.SendPush(ctx, n.Recipient, n.Subject, n.Body)
		}
	default:
		sendErr = fmt.Errorf("unsupported channel %q", n.Channel)
	}

	if sendErr != nil {
		n.Status = "failed"
		n.Error = sendErr.Error()
	} else {
		n.Status = "sent"
		sentAt := time.Now().UTC()
		n.SentAt = &sentAt
	}

	d.mu.Lock()
	d.log[n.ID] = n
	d.mu.Unlock()

	return sendErr
}

// SendFromTemplate renders a template and sends the result on the template's
// channel.
func (d *Dispatcher) SendFromTemplate(ctx context.Context, templateID, recipient string, data map[string]string) (*Notice, error) {
	subject, body, err := d.tpl.Render(templateID, data)
	if err != nil {
		return nil, fmt.Errorf("render template: %w", err)
	}

	n := &Notice{
		Channel:    d.tpl.channelOf(templateID),
		Recipient:  recipient,
		Subject:    subject,
		Body:       body,
		TemplateID: templateID,
		Data:       data,
	}
	if err := d.Send(ctx, n); err != nil {
		return n, err
	}
	return n, nil
}

// Recent returns the newest notices in the log, up to limit.
func (d *Dispatcher) Recent(limit int) []*Notice {
	d.mu.RLock()
	defer d.mu.RUnlock()

	notices := make([]*Notice, 0, len(d.log))
	for _, n := range d.log {
		notices = append(notices, n)
	}
	sort.Slice(notices, func(i, j int) bool {
		return notices[i].CreatedAt.After(notices[j].CreatedAt)
	})
	if limit > 0 && len(notices) > limit {
		notices = notices[:limit]
	}
	return notices
}

// LogSender writes notices to a callback instead of an external provider.
// The server uses it as the default sender so deliveries show up in the
// request log until real providers are configured.
type LogSender struct {
	Emit func(channel Channel, to, subject, body string)
}

func (s *LogSender) SendEmail(_ context.Context, to, subject, body string) error {
	if s.Emit != nil {
		s.Emit(ChannelEmail, to, subject, body)
	}
	return nil
}

func (s *LogSender) SendSMS(_ context.Context, to, body string) error {
	if s.Emit != nil {
		s.Emit(ChannelSMS, to, "", body)
	}
	return nil
}

func (s *LogSender) SendPush(_ context.Context, to, title, body string) error {
	if s.Emit != nil {
		s.Emit(ChannelPush, to, title, body)
	}
	return nil
}
