package provider

import (
	"context"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"gopkg.in/gomail.v2"
)

// MailSender is satisfied by *gomail.Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

type emailTemplate struct {
	subject string
	text    string
	html    string
}

// EmailProvider delivers notifications over SMTP.
type EmailProvider struct {
	sender MailSender
	from   string
	log    *logrus.Logger
}

func NewEmailProvider(sender MailSender, from string, log *logrus.Logger) *EmailProvider {
	return &EmailProvider{
		sender: sender,
		from:   from,
		log:    log,
	}
}

func (p *EmailProvider) Channel() Channel {
	return ChannelEmail
}

func (p *EmailProvider) ValidateRecipient(recipient Recipient) bool {
	return isValidEmail(recipient.Email)
}

// isValidEmail is a shape check, not an RFC parser: one "@", a dot somewhere
// in the domain part, no whitespace anywhere.
func isValidEmail(email string) bool {
	if email == "" || strings.ContainsAny(email, " \t\r\n") {
		return false
	}
	at := strings.Index(email, "@")
	if at <= 0 || at != strings.LastIndex(email, "@") {
		return false
	}
	domain := email[at+1:]
	dot := strings.Index(domain, ".")
	return dot > 0 && dot < len(domain)-1
}

func (p *EmailProvider) Send(ctx context.Context, opts SendOptions) (Result, error) {
	if !p.ValidateRecipient(opts.Recipient) {
		return Result{Success: false, Error: "invalid email recipient"}, nil
	}

	template, err := p.template(opts.Type, opts.TemplateData)
	if err != nil {
		p.log.Warnf("Failed to render email template: %+v", err)
		return Result{Success: false, Error: err.Error()}, nil
	}

	m := gomail.NewMessage()
	m.SetHeader("From", p.from)
	m.SetHeader("To", opts.Recipient.Email)
	m.SetHeader("Subject", template.subject)
	m.SetBody("text/plain", template.text)
	m.AddAlternative("text/html", template.html)

	if err := p.sender.DialAndSend(m); err != nil {
		p.log.Warnf("Failed to send email to %s: %+v", opts.Recipient.Email, err)
		return Result{Success: false, Error: err.Error()}, nil
	}

	p.log.Infof("Email sent to %s: %s", opts.Recipient.Email, template.subject)

	return Result{
		Success:   true,
		MessageID: fmt.Sprintf("email_%s", opts.Recipient.Email),
		Metadata: map[string]string{
			"to":      opts.Recipient.Email,
			"subject": template.subject,
		},
	}, nil
}

func (p *EmailProvider) template(notificationType Type, data map[string]string) (emailTemplate, error) {
	switch notificationType {
	case TypeEmailVerification:
		return verificationEmailTemplate(data), nil
	case TypeWelcome:
		return welcomeEmailTemplate(data), nil
	case TypeAppointmentReminder:
		return appointmentReminderTemplate(data), nil
	default:
		return emailTemplate{}, fmt.Errorf("unsupported email template type: %s", notificationType)
	}
}

func templateValue(data map[string]string, key, fallback string) string {
	if v, ok := data[key]; ok && v != "" {
		return v
	}
	return fallback
}

func verificationEmailTemplate(data map[string]string) emailTemplate {
	name := templateValue(data, "patient_name", "Patient")
	verificationURL := templateValue(data, "verification_url", "")

	text := fmt.Sprintf(`Hello %s,

Thank you for registering with our healthcare platform.
To complete your registration, please verify your email address by visiting this link:

%s

If you didn't create an account with us, please ignore this email.
This verification link will expire in 24 hours for security reasons.
`, name, verificationURL)

	html := fmt.Sprintf(`<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto; padding: 20px;">
  <h1 style="color: #333; text-align: center;">Email Verification</h1>
  <p>Hello %s,</p>
  <p>Thank you for registering with our healthcare platform. To complete your registration,
  please verify your email address by clicking the button below.</p>
  <div style="text-align: center; margin: 30px 0;">
    <a href="%s" style="background-color: #007bff; color: white; padding: 12px 30px;
       text-decoration: none; border-radius: 5px; font-weight: bold;">Verify Email Address</a>
  </div>
  <p style="font-size: 12px; color: #999;">If the button doesn't work, copy and paste this link
  into your browser:<br><a href="%s">%s</a></p>
</div>`, name, verificationURL, verificationURL, verificationURL)

	return emailTemplate{
		subject: "Verify your email address",
		text:    text,
		html:    html,
	}
}

func welcomeEmailTemplate(data map[string]string) emailTemplate {
	name := templateValue(data, "patient_name", "Patient")

	return emailTemplate{
		subject: "Welcome to Our Healthcare Platform",
		text:    fmt.Sprintf("Hello %s, welcome to our platform!", name),
		html:    fmt.Sprintf("<h1>Hello %s, welcome to our platform!</h1>", name),
	}
}

func appointmentReminderTemplate(data map[string]string) emailTemplate {
	name := templateValue(data, "patient_name", "Patient")
	appointmentDate := templateValue(data, "appointment_date", "your upcoming appointment")

	return emailTemplate{
		subject: "Appointment Reminder",
		text:    fmt.Sprintf("Hello %s, this is a reminder about %s.", name, appointmentDate),
		html:    fmt.Sprintf("<h1>Hello %s, this is a reminder about %s.</h1>", name, appointmentDate),
	}
}
