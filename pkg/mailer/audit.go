package mailer

import (
	"log"

	"github.com/backoffice/pkg/entities"
	"gorm.io/gorm"
)

type auditedSender struct {
	next Sender
	db   *gorm.DB
}

// NewAuditedSender wraps a Sender so every delivery attempt is recorded in
// the email_logs table. Failures of the audit write itself are only logged.
func NewAuditedSender(next Sender, db *gorm.DB) Sender {
	return &auditedSender{next: next, db: db}
}

func (a *auditedSender) Send(to string, subject string, body string) error {
	sendErr := a.next.Send(to, subject, body)

	entry := entities.EmailLog{
		Recipient: to,
		Subject:   subject,
		Delivered: sendErr == nil,
	}
	if sendErr != nil {
		entry.Error = sendErr.Error()
		log.Printf("[error] mail delivery to %s failed: %v", to, sendErr)
	}

	if err := a.db.Create(&entry).Error; err != nil {
		log.Printf("[error] failed to record mail delivery attempt: %v", err)
	}

	return sendErr
}
