// Package notify delivers guest-facing email notifications.  The
// reminder job depends only on the Sender interface; production wiring
// picks the SMTP sender when mail settings are configured and the log
// sender otherwise, so a missing mail server never breaks the jobs.
package notify

import (
    "context"
    "fmt"
    "log"
    "net/smtp"
    "time"
)

// Reminder is the payload of a day-before reservation reminder.
type Reminder struct {
    To             string    // recipient email address
    GuestName      string    // first name, falls back to email upstream
    RestaurantName string    // restaurant display name
    Date           time.Time // reservation date
    TimeSlot       string    // reservation time ("HH:MM:SS")
}

// Confirmation is the payload of the email sent right after a booking
// is accepted.
type Confirmation struct {
    To             string
    GuestName      string
    RestaurantName string
    Date           time.Time
    TimeSlot       string
    GuestsCount    uint16
}

// Sender dispatches reservation emails.  Implementations return an
// error for the caller to record; they must not retry internally.
type Sender interface {
    SendReminder(ctx context.Context, r Reminder) error
    SendConfirmation(ctx context.Context, c Confirmation) error
}

// SMTPSender sends reminders through a plain SMTP relay.
type SMTPSender struct {
    Addr string // host:port of the relay
    From string // sender address
    Auth smtp.Auth
}

// SendReminder composes and sends the reminder email.  The context is
// accepted for interface symmetry; net/smtp does not support
// cancellation mid-send.
func (s *SMTPSender) SendReminder(_ context.Context, r Reminder) error {
    subject := fmt.Sprintf("Reminder: your reservation at %s on %s",
        r.RestaurantName, r.Date.Format("2006-01-02"))
    body := fmt.Sprintf(
        "Hello, %s!\r\n\r\n"+
            "This is a reminder of your reservation at %s on %s at %s.\r\n\r\n"+
            "If you need to cancel or change it, please use your profile.\r\n",
        r.GuestName, r.RestaurantName, r.Date.Format("2006-01-02"), r.TimeSlot)
    msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
        s.From, r.To, subject, body)
    return smtp.SendMail(s.Addr, s.Auth, s.From, []string{r.To}, []byte(msg))
}

// SendConfirmation composes and sends the booking confirmation email.
func (s *SMTPSender) SendConfirmation(_ context.Context, c Confirmation) error {
    subject := fmt.Sprintf("Your reservation at %s is booked", c.RestaurantName)
    body := fmt.Sprintf(
        "Hello, %s!\r\n\r\n"+
            "Your table for %d at %s is booked for %s at %s.\r\n\r\n"+
            "We will remind you the day before.\r\n",
        c.GuestName, c.GuestsCount, c.RestaurantName,
        c.Date.Format("2006-01-02"), c.TimeSlot)
    msg := fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\n\r\n%s",
        s.From, c.To, subject, body)
    return smtp.SendMail(s.Addr, s.Auth, s.From, []string{c.To}, []byte(msg))
}

// LogSender writes emails to the application log instead of sending
// them.  Used in development and whenever SMTP is not configured.
type LogSender struct{}

func (LogSender) SendReminder(_ context.Context, r Reminder) error {
    log.Printf("reminder (not sent, no SMTP): to=%s restaurant=%q date=%s time=%s",
        r.To, r.RestaurantName, r.Date.Format("2006-01-02"), r.TimeSlot)
    return nil
}

func (LogSender) SendConfirmation(_ context.Context, c Confirmation) error {
    log.Printf("confirmation (not sent, no SMTP): to=%s restaurant=%q date=%s time=%s guests=%d",
        c.To, c.RestaurantName, c.Date.Format("2006-01-02"), c.TimeSlot, c.GuestsCount)
    return nil
}
