package mailbox

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"strings"
	"sync"
	"time"

	"github.com/emersion/go-imap/v2"
	"github.com/emersion/go-imap/v2/imapclient"
	"github.com/emersion/go-message/mail"

	"github.com/dftasks/dftasks-backend/internal/models"
)

// reconnectDelay is the fixed wait before reconnecting after any
// connection loss. No backoff, no retry cap: the mailbox is the only
// way reports come in, so the listener keeps trying until the process
// stops.
const reconnectDelay = 5 * time.Second

// idleRefresh restarts the IDLE command periodically, well under the
// RFC 2177 30-minute server cap.
const idleRefresh = 20 * time.Minute

// PendingTaskStore is what the listener needs from the persistence
// layer. Kept narrow so tests can run against a fake.
type PendingTaskStore interface {
	HasMessageID(ctx context.Context, messageID string) (bool, error)
	CreatePendingTask(ctx context.Context, task *models.PendingTask) error
}

// Listener owns one persistent IMAP connection: it sweeps unseen
// messages on startup, then wakes on new-mail notifications and
// ingests each fetched message as a pending task. Every fetched
// message is marked seen whether or not ingestion succeeds, so
// delivery is at-most-once.
type Listener struct {
	Host     string
	Port     string
	Username string
	Password string

	Store PendingTaskStore

	// OnCreated is called after a pending task is persisted, for
	// realtime notifications. Best-effort; may be nil.
	OnCreated func(ctx context.Context, task *models.PendingTask)

	stop chan struct{}
	wg   sync.WaitGroup
}

// Start launches the listener goroutine.
func (l *Listener) Start() {
	l.stop = make(chan struct{})
	l.wg.Add(1)
	go l.run()
}

// Stop terminates the listener and waits for the goroutine to exit.
func (l *Listener) Stop() {
	close(l.stop)
	l.wg.Wait()
}

func (l *Listener) run() {
	defer l.wg.Done()
	log.Println("Starting email listener...")

	for {
		if err := l.session(); err != nil {
			log.Printf("IMAP connection error: %v", err)
		}

		select {
		case <-l.stop:
			return
		case <-time.After(reconnectDelay):
			log.Println("Attempting to reconnect to IMAP server...")
		}
	}
}

// session runs one connection lifetime: connect, initial unseen sweep,
// then IDLE until new mail arrives or the connection drops.
func (l *Listener) session() error {
	newMail := make(chan struct{}, 1)

	opts := &imapclient.Options{
		UnilateralDataHandler: &imapclient.UnilateralDataHandler{
			Mailbox: func(data *imapclient.UnilateralDataMailbox) {
				if data.NumMessages != nil {
					select {
					case newMail <- struct{}{}:
					default:
					}
				}
			},
		},
	}

	addr := l.Host + ":" + l.Port
	client, err := imapclient.DialTLS(addr, opts)
	if err != nil {
		return fmt.Errorf("connecting to IMAP %s: %w", addr, err)
	}
	defer client.Close()

	if err := client.Login(l.Username, l.Password).Wait(); err != nil {
		return fmt.Errorf("IMAP login for %s: %w", l.Username, err)
	}
	defer client.Logout()

	if _, err := client.Select("INBOX", nil).Wait(); err != nil {
		return fmt.Errorf("selecting INBOX: %w", err)
	}

	log.Println("IMAP connection established successfully")

	if err := l.processUnseen(client); err != nil {
		return err
	}

	for {
		idleCmd, err := client.Idle()
		if err != nil {
			return fmt.Errorf("starting IDLE: %w", err)
		}

		var woke bool
		select {
		case <-newMail:
			woke = true
		case <-time.After(idleRefresh):
		case <-l.stop:
			idleCmd.Close()
			idleCmd.Wait()
			return nil
		}

		idleCmd.Close()
		if err := idleCmd.Wait(); err != nil {
			return fmt.Errorf("IDLE: %w", err)
		}

		if woke {
			log.Println("New email received")
			if err := l.processUnseen(client); err != nil {
				return err
			}
		}
	}
}

// processUnseen searches for unseen messages and ingests each one. The
// fetch is non-peek, so the server flags every fetched message as seen
// regardless of what happens downstream.
func (l *Listener) processUnseen(client *imapclient.Client) error {
	criteria := &imap.SearchCriteria{
		NotFlag: []imap.Flag{imap.FlagSeen},
	}
	searchData, err := client.UIDSearch(criteria, nil).Wait()
	if err != nil {
		return fmt.Errorf("searching unseen messages: %w", err)
	}

	uids := searchData.AllUIDs()
	if len(uids) == 0 {
		return nil
	}

	bodySection := &imap.FetchItemBodySection{}
	fetchOpts := &imap.FetchOptions{
		Envelope:    true,
		UID:         true,
		BodySection: []*imap.FetchItemBodySection{bodySection},
	}

	fetchCmd := client.Fetch(imap.UIDSetNum(uids...), fetchOpts)
	defer fetchCmd.Close()

	for {
		msg := fetchCmd.Next()
		if msg == nil {
			break
		}

		buf, err := msg.Collect()
		if err != nil {
			log.Printf("Error collecting message: %v", err)
			continue
		}

		var subject, messageID string
		if buf.Envelope != nil {
			subject = buf.Envelope.Subject
			messageID = buf.Envelope.MessageID
		}

		text := extractTextBody(buf.FindBodySection(bodySection))

		// Ingestion failures are logged and swallowed so one bad
		// email never stops the listener.
		if err := l.Ingest(context.Background(), subject, messageID, text); err != nil {
			log.Printf("Error creating pending task: %v", err)
		}
	}

	return fetchCmd.Close()
}

// Ingest turns one email into a pending task. Emails whose Message-ID
// was already ingested are skipped; emails without a Message-ID are
// never deduplicated.
func (l *Listener) Ingest(ctx context.Context, subject, messageID, body string) error {
	if messageID != "" {
		exists, err := l.Store.HasMessageID(ctx, messageID)
		if err != nil {
			return fmt.Errorf("checking message id: %w", err)
		}
		if exists {
			log.Printf("Skipping already ingested email %s", messageID)
			return nil
		}
	}

	report := ParseReport(body)

	title := strings.TrimSpace(subject)
	if title == "" {
		title = FallbackTitle
	}

	now := time.Now().UTC()
	task := &models.PendingTask{
		CreatedAt:       now,
		UpdatedAt:       now,
		Title:           title,
		Description:     report.Description,
		ReporterName:    report.ReporterName,
		ReporterEmail:   report.ReporterEmail,
		ReporterPhone:   report.ReporterPhone,
		Address:         report.Address,
		ApartmentNumber: report.ApartmentNumber,
		Status:          models.PendingStatusPending,
		MessageID:       messageID,
	}

	if err := l.Store.CreatePendingTask(ctx, task); err != nil {
		return fmt.Errorf("saving pending task: %w", err)
	}

	log.Printf("Pending task created: %s", title)

	if l.OnCreated != nil {
		l.OnCreated(ctx, task)
	}
	return nil
}

// extractTextBody parses the raw RFC 2822 message and returns its
// text/plain part. If MIME parsing fails the raw bytes are treated as
// plain text.
func extractTextBody(raw []byte) string {
	if raw == nil {
		return ""
	}

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil {
		return string(raw)
	}
	defer mr.Close()

	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			break
		}

		if h, ok := part.Header.(*mail.InlineHeader); ok {
			contentType, _, _ := h.ContentType()
			if strings.HasPrefix(contentType, "text/plain") {
				body, readErr := io.ReadAll(part.Body)
				if readErr != nil {
					continue
				}
				return string(body)
			}
		}
	}
	return ""
}
