// Package messaging renders customer-facing offer, confirmation and reminder
// messages. Rendering is pure: nothing here sends anything.
package messaging

import (
	"bytes"
	"errors"
	"fmt"
	"html/template"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/xavierca1/rendetalje-leads/internal/entity"
	"github.com/xavierca1/rendetalje-leads/internal/scheduling"
)

// MaxSMSLength is a single GSM segment.
const MaxSMSLength = 160

var (
	ErrUnknownMessageType = errors.New("unknown message type")
	ErrOfferNeedsSlots    = errors.New("booking offer needs exactly 3 slots")
)

type Company struct {
	Name  string
	Phone string
	Email string
}

type TemplateData struct {
	CustomerName   string
	ServiceType    string
	Address        string
	City           string
	Slots          []entity.Slot
	EstimatedHours float64
	EstimatedPrice float64
	TotalAmount    float64
	BookingDate    string
	BookingTime    string
}

type Composed struct {
	Type    MessageType `json:"type"`
	Subject string      `json:"subject"`
	Text    string      `json:"text"`
	HTML    string      `json:"html"`
	SMS     string      `json:"sms"`
}

const htmlLayout = `<!DOCTYPE html>
<html lang="da">
<head><meta charset="utf-8"><title>{{.Subject}}</title></head>
<body style="font-family: Arial, sans-serif; color: #222;">
<div style="max-width: 600px; margin: 0 auto; white-space: pre-line;">{{.Body}}</div>
</body>
</html>`

type Composer struct {
	templates map[MessageType]Template
	company   Company
	layout    *template.Template
}

// NewComposer starts from DefaultTemplates; overrides replace whole entries.
func NewComposer(company Company, overrides map[MessageType]Template) *Composer {
	templates := make(map[MessageType]Template, len(DefaultTemplates))
	for k, v := range DefaultTemplates {
		templates[k] = v
	}
	for k, v := range overrides {
		templates[k] = v
	}
	return &Composer{
		templates: templates,
		company:   company,
		layout:    template.Must(template.New("email").Parse(htmlLayout)),
	}
}

func (c *Composer) Compose(kind MessageType, data TemplateData) (*Composed, error) {
	tmpl, ok := c.templates[kind]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMessageType, kind)
	}
	if kind == MessageBookingOffer && len(data.Slots) != entity.OfferSize {
		return nil, ErrOfferNeedsSlots
	}

	r := c.replacer(data)
	out := &Composed{
		Type:    kind,
		Subject: r.Replace(tmpl.Subject),
		Text:    r.Replace(tmpl.Body),
		SMS:     c.renderSMS(tmpl.SMS, data),
	}

	// html/template escapes the substituted text.
	var buf bytes.Buffer
	if err := c.layout.Execute(&buf, struct{ Subject, Body string }{out.Subject, out.Text}); err != nil {
		return nil, fmt.Errorf("erro ao renderizar html: %w", err)
	}
	out.HTML = buf.String()
	return out, nil
}

func (c *Composer) ComposeOffer(lead *entity.Lead, slots []entity.Slot, price entity.PriceBreakdown) (*Composed, error) {
	return c.Compose(MessageBookingOffer, TemplateData{
		CustomerName:   lead.CustomerName,
		ServiceType:    lead.ServiceType,
		Address:        lead.Address,
		City:           lead.City,
		Slots:          slots,
		EstimatedHours: price.Hours,
		EstimatedPrice: price.Subtotal,
		TotalAmount:    price.Total,
	})
}

func (c *Composer) ComposeConfirmation(b *entity.Booking, loc *time.Location) (*Composed, error) {
	return c.Compose(MessageConfirmation, bookingData(b, loc))
}

func (c *Composer) ComposeReminder(b *entity.Booking, loc *time.Location) (*Composed, error) {
	return c.Compose(MessageReminder, bookingData(b, loc))
}

func bookingData(b *entity.Booking, loc *time.Location) TemplateData {
	start := b.Start
	if loc != nil {
		start = start.In(loc)
	}
	return TemplateData{
		CustomerName:   b.CustomerName,
		ServiceType:    b.ServiceType,
		Address:        b.Address,
		City:           b.City,
		EstimatedHours: b.DurationHours,
		EstimatedPrice: b.TotalAmount,
		TotalAmount:    b.TotalAmount,
		BookingDate:    scheduling.DateLabel(start),
		BookingTime:    scheduling.TimeLabel(start),
	}
}

// replacer substitutes tokens in a fixed order. Values are inserted
// literally; a value that itself looks like a token is not expanded again.
func (c *Composer) replacer(d TemplateData) *strings.Replacer {
	pairs := []string{
		"{{customerName}}", d.CustomerName,
		"{{serviceType}}", d.ServiceType,
		"{{estimatedPrice}}", FormatAmount(d.EstimatedPrice),
		"{{estimatedHours}}", FormatHours(d.EstimatedHours),
		"{{totalAmount}}", FormatAmount(d.TotalAmount),
		"{{address}}", joinAddress(d.Address, d.City),
		"{{bookingDate}}", d.BookingDate,
		"{{bookingTime}}", d.BookingTime,
		"{{companyName}}", c.company.Name,
		"{{companyPhone}}", c.company.Phone,
		"{{companyEmail}}", c.company.Email,
	}
	for i := 0; i < entity.OfferSize; i++ {
		var long, short string
		if i < len(d.Slots) {
			long, short = d.Slots[i].Label, d.Slots[i].Short
		}
		n := strconv.Itoa(i + 1)
		pairs = append(pairs, "{{slot"+n+"}}", long, "{{slotShort"+n+"}}", short)
	}
	return strings.NewReplacer(pairs...)
}

func joinAddress(address, city string) string {
	parts := make([]string, 0, 2)
	for _, p := range []string{address, city} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// renderSMS shortens the customer name before anything else, so the slot
// choices and the reply instruction survive a long name.
func (c *Composer) renderSMS(tmpl string, d TemplateData) string {
	sms := c.replacer(d).Replace(tmpl)
	over := utf8.RuneCountInString(sms) - MaxSMSLength
	if over > 0 && strings.Contains(tmpl, "{{customerName}}") {
		d.CustomerName = shortenName(d.CustomerName, over)
		sms = c.replacer(d).Replace(tmpl)
	}
	return fitSMS(sms)
}

// shortenName drops the surname first, then cuts runes until over is absorbed.
func shortenName(name string, over int) string {
	short := strings.TrimSpace(name)
	if fields := strings.Fields(short); len(fields) > 1 {
		short = fields[0]
	}
	over -= utf8.RuneCountInString(name) - utf8.RuneCountInString(short)
	if over <= 0 {
		return short
	}
	r := []rune(short)
	if over >= len(r) {
		return ""
	}
	return string(r[:len(r)-over])
}

func fitSMS(s string) string {
	if utf8.RuneCountInString(s) <= MaxSMSLength {
		return s
	}
	r := []rune(s)
	return string(r[:MaxSMSLength-3]) + "..."
}

// FormatAmount renders kroner the Danish way: 1308.75 -> "1.308,75", 1047 -> "1.047".
func FormatAmount(v float64) string {
	v = math.Round(v*100) / 100
	neg := v < 0
	if neg {
		v = -v
	}
	whole := int64(v)
	cents := int64(math.Round((v - float64(whole)) * 100))
	if cents == 100 {
		whole, cents = whole+1, 0
	}

	digits := strconv.FormatInt(whole, 10)
	var b strings.Builder
	if neg {
		b.WriteByte('-')
	}
	for i, ch := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(ch)
	}
	if cents > 0 {
		fmt.Fprintf(&b, ",%02d", cents)
	}
	return b.String()
}

// FormatHours: 3 -> "3", 2.5 -> "2,5".
func FormatHours(h float64) string {
	return strings.Replace(strconv.FormatFloat(h, 'f', -1, 64), ".", ",", 1)
}
