// Sends queued application emails over a single SMTP session. Each task
// is isolated: one bad recipient marks that task Failed and the batch
// keeps going.

package mailer

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"time"

	"gopkg.in/gomail.v2"

	"github.com/kangichu/autojob/internal/models"
)

var (
	ErrMissingCredentials = errors.New("smtp host, port, email and password are required")
	ErrMissingAttachment  = errors.New("a CV attachment is required before sending")
)

// TaskStore is what the dispatcher needs from persistence.
type TaskStore interface {
	GetTask(ctx context.Context, id int64) (*models.EmailTask, error)
	MarkTaskSent(ctx context.Context, id int64, sentAt time.Time) error
	MarkTaskFailed(ctx context.Context, id int64) error
	MarkJobApplied(ctx context.Context, jobID int64, appliedAt time.Time) error
}

// Settings carries the SMTP account used for a batch.
type Settings struct {
	Host       string
	Port       int
	Email      string
	Password   string
	SenderName string
}

func (s Settings) complete() bool {
	return s.Host != "" && s.Port != 0 && s.Email != "" && s.Password != ""
}

type Dispatcher struct {
	store TaskStore

	// dial and sleep are swapped out by tests to avoid a live SMTP
	// server and real waits.
	dial      func(Settings) (gomail.SendCloser, error)
	sleep     func(time.Duration)
	sendDelay time.Duration
}

func NewDispatcher(store TaskStore) *Dispatcher {
	return &Dispatcher{
		store:     store,
		dial:      dialSMTP,
		sleep:     time.Sleep,
		sendDelay: time.Second,
	}
}

func dialSMTP(s Settings) (gomail.SendCloser, error) {
	return gomail.NewDialer(s.Host, s.Port, s.Email, s.Password).Dial()
}

// TestConnection dials and logs in, then closes. Used by the settings
// check before any real batch goes out.
func (d *Dispatcher) TestConnection(settings Settings) error {
	if !settings.complete() {
		return ErrMissingCredentials
	}
	conn, err := d.dial(settings)
	if err != nil {
		return fmt.Errorf("email connection failed: %w", err)
	}
	return conn.Close()
}

// Send delivers the given queue tasks in one SMTP session. Attachments
// must exist on disk before dialing; the CV is mandatory, the cover
// letter optional. Returns how many tasks were sent and how many failed.
func (d *Dispatcher) Send(ctx context.Context, settings Settings, taskIDs []int64, cvPath, coverLetterPath string) (sent, failed int, err error) {
	if !settings.complete() {
		return 0, 0, ErrMissingCredentials
	}
	if cvPath == "" {
		return 0, 0, ErrMissingAttachment
	}
	for _, path := range []string{cvPath, coverLetterPath} {
		if path == "" {
			continue
		}
		if _, statErr := os.Stat(path); statErr != nil {
			return 0, 0, fmt.Errorf("attachment not readable: %w", statErr)
		}
	}

	conn, err := d.dial(settings)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	defer conn.Close()

	for _, id := range taskIDs {
		task, err := d.store.GetTask(ctx, id)
		if err != nil {
			log.Printf("⚠️ Skipping email task %d: %v", id, err)
			continue
		}
		if !models.ValidTaskTransition(task.Status, models.TaskSent) {
			log.Printf("⏭️ Skipping email task %d: status is %s", id, task.Status)
			continue
		}

		msg := gomail.NewMessage()
		msg.SetAddressHeader("From", settings.Email, settings.SenderName)
		msg.SetHeader("To", task.Recipient)
		msg.SetHeader("Subject", task.Subject)
		msg.SetBody("text/plain", task.Body)
		msg.Attach(cvPath)
		if coverLetterPath != "" {
			msg.Attach(coverLetterPath)
		}

		if err := gomail.Send(conn, msg); err != nil {
			log.Printf("❌ Error sending email %d to %s: %v", id, task.Recipient, err)
			if markErr := d.store.MarkTaskFailed(ctx, id); markErr != nil {
				log.Printf("⚠️ Failed to mark task %d failed: %v", id, markErr)
			}
			failed++
		} else {
			now := time.Now()
			if err := d.store.MarkTaskSent(ctx, id, now); err != nil {
				log.Printf("⚠️ Failed to mark task %d sent: %v", id, err)
			}
			if err := d.store.MarkJobApplied(ctx, task.JobID, now); err != nil {
				log.Printf("⚠️ Failed to mark job %d applied: %v", task.JobID, err)
			}
			sent++
		}

		// keep mail servers happy, delivered or not
		d.sleep(d.sendDelay)
	}

	return sent, failed, nil
}
