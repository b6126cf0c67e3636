package messaging

// MessageType selects the template set used for an outbound message.
type MessageType string

const (
	MessageBookingOffer MessageType = "booking_offer"
	MessageConfirmation MessageType = "confirmation"
	MessageReminder     MessageType = "reminder"
)

// Template holds the literal token templates for one message type.
type Template struct {
	Subject string
	Body    string
	SMS     string
}

// DefaultTemplates are the texts the business sends today. Tokens are
// replaced literally, e.g. {{customerName}}.
var DefaultTemplates = map[MessageType]Template{
	MessageBookingOffer: {
		Subject: "Tak for din henvendelse - {{serviceType}}",
		Body: `Hej {{customerName}}!

Tak for din henvendelse om {{serviceType}}. Vi har 3 ledige tidspunkter:

🗓️ Mulighed 1: {{slot1}}
🗓️ Mulighed 2: {{slot2}}
🗓️ Mulighed 3: {{slot3}}

Svar venligst på denne besked med dit ønskede tidspunkt (1, 2 eller 3).

💰 Estimeret pris: {{estimatedPrice}} kr ekskl. moms ({{totalAmount}} kr inkl. moms) for {{estimatedHours}} timer
📍 Adresse: {{address}}

Vi glæder os til at høre fra dig!

Med venlig hilsen
{{companyName}}
📧 {{companyEmail}} | 📱 {{companyPhone}}`,
		SMS: "Hej {{customerName}}! Ledige tider: 1) {{slotShort1}} 2) {{slotShort2}} 3) {{slotShort3}}. Svar 1, 2 eller 3. Mvh {{companyName}}",
	},
	MessageConfirmation: {
		Subject: "Booking bekræftet - {{serviceType}}",
		Body: `Hej {{customerName}}!

Din booking er nu bekræftet:

📅 Dato: {{bookingDate}}
🕐 Tidspunkt: {{bookingTime}}
📍 Adresse: {{address}}
🧹 Service: {{serviceType}}
💰 Pris: {{totalAmount}} kr

Vi glæder os til at se dig!

Har du spørgsmål, så ring på {{companyPhone}}.

Med venlig hilsen
{{companyName}}`,
		SMS: "Booking bekræftet: {{bookingDate}} kl. {{bookingTime}}, {{serviceType}}. Mvh {{companyName}} {{companyPhone}}",
	},
	MessageReminder: {
		Subject: "Påmindelse: Vi kommer {{bookingDate}} - {{serviceType}}",
		Body: `Hej {{customerName}}!

Dette er en påmindelse om at vi kommer {{bookingDate}}:

🕐 Tidspunkt: {{bookingTime}}
📍 Adresse: {{address}}
🧹 Service: {{serviceType}}

Sørg venligst for at være hjemme og at området er tilgængeligt.

Ring på {{companyPhone}} hvis du har spørgsmål.

Med venlig hilsen
{{companyName}}`,
		SMS: "Påmindelse: vi kommer {{bookingDate}} kl. {{bookingTime}} til {{address}}. Mvh {{companyName}}",
	},
}
