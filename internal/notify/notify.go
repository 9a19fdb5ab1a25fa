// Package notify sends the payment-confirmation email to a parent. It is
// its own failure domain: any failure is logged and reported as false, and
// never propagates to the caller.
package notify

import (
	"fmt"
	"log/slog"

	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/config"
	"github.com/Jacksonnavigator/School-Fee-Payment-Update/internal/util"

	gomail "gopkg.in/gomail.v2"
)

const subject = "School Fee Payment Update"

// Mailer sends fixed-template payment updates through an external SMTP
// relay. Each send opens a transient connection, authenticates, and closes
// it again on every exit path.
type Mailer struct {
	host     string
	port     int
	sender   string
	password string
	log      *slog.Logger
}

func New(cfg config.EmailConfig, log *slog.Logger) *Mailer {
	return &Mailer{
		host:     cfg.Host,
		port:     cfg.Port,
		sender:   cfg.Sender,
		password: cfg.Password,
		log:      log,
	}
}

// Notify emails the parent about a received payment. Returns false on any
// failure (unreachable relay, rejected auth, invalid recipient); failures
// are logged with their reason and never retried automatically.
func (m *Mailer) Notify(name, form, email string, amount, newTotal, requiredFee int64) bool {
	msg := gomail.NewMessage()
	msg.SetHeader("From", m.sender)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/plain", m.body(name, form, amount, newTotal, requiredFee))

	// DialAndSend connects with STARTTLS, authenticates, sends and closes
	// the connection even when the send fails midway.
	dialer := gomail.NewDialer(m.host, m.port, m.sender, m.password)
	if err := dialer.DialAndSend(msg); err != nil {
		m.log.Error("email failed", "to", email, "error", err)
		return false
	}

	m.log.Info("email sent", "to", email)
	return true
}

func (m *Mailer) body(name, form string, amount, newTotal, requiredFee int64) string {
	remaining := requiredFee - newTotal
	return fmt.Sprintf(`Dear Parent,

A payment of %s TSH has been received for %s (%s).
Total Paid: %s TSH
Remaining Balance: %s TSH

Thank you,
School Administration`,
		util.FormatAmount(amount), name, form,
		util.FormatAmount(newTotal),
		util.FormatAmount(remaining))
}
