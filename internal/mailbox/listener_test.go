package mailbox

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dftasks/dftasks-backend/internal/models"
)

type fakeStore struct {
	seen      map[string]bool
	created   []*models.PendingTask
	createErr error
	hasErr    error
}

func (s *fakeStore) HasMessageID(ctx context.Context, messageID string) (bool, error) {
	if s.hasErr != nil {
		return false, s.hasErr
	}
	return s.seen[messageID], nil
}

func (s *fakeStore) CreatePendingTask(ctx context.Context, task *models.PendingTask) error {
	if s.createErr != nil {
		return s.createErr
	}
	s.created = append(s.created, task)
	return nil
}

func TestIngestCreatesPendingTask(t *testing.T) {
	store := &fakeStore{}
	l := &Listener{Store: store}

	body := "Namn: Anna\nMeddelande:\nTrasig spis\n---"
	err := l.Ingest(context.Background(), "Spisen fungerar inte", "<msg-1@mail>", body)
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	task := store.created[0]
	assert.Equal(t, "Spisen fungerar inte", task.Title)
	assert.Equal(t, "Trasig spis", task.Description)
	assert.Equal(t, "Anna", task.ReporterName)
	assert.Equal(t, models.PendingStatusPending, task.Status)
	assert.Equal(t, "<msg-1@mail>", task.MessageID)
	assert.False(t, task.CreatedAt.IsZero())
}

func TestIngestFallbackTitle(t *testing.T) {
	store := &fakeStore{}
	l := &Listener{Store: store}

	err := l.Ingest(context.Background(), "   ", "", "Meddelande:\nHej\n---")
	require.NoError(t, err)

	require.Len(t, store.created, 1)
	assert.Equal(t, FallbackTitle, store.created[0].Title)
}

func TestIngestSkipsDuplicateMessageID(t *testing.T) {
	store := &fakeStore{seen: map[string]bool{"<dup@mail>": true}}
	l := &Listener{Store: store}

	err := l.Ingest(context.Background(), "Dubblett", "<dup@mail>", "body")
	require.NoError(t, err)
	assert.Empty(t, store.created)
}

func TestIngestNoMessageIDNeverDeduplicated(t *testing.T) {
	store := &fakeStore{}
	l := &Listener{Store: store}

	require.NoError(t, l.Ingest(context.Background(), "Första", "", "body"))
	require.NoError(t, l.Ingest(context.Background(), "Andra", "", "body"))
	assert.Len(t, store.created, 2)
}

func TestIngestPropagatesStoreError(t *testing.T) {
	store := &fakeStore{createErr: errors.New("insert failed")}
	l := &Listener{Store: store}

	err := l.Ingest(context.Background(), "Fel", "", "body")
	assert.ErrorContains(t, err, "insert failed")
}

func TestIngestPropagatesDedupCheckError(t *testing.T) {
	store := &fakeStore{hasErr: errors.New("lookup failed")}
	l := &Listener{Store: store}

	err := l.Ingest(context.Background(), "Fel", "<x@mail>", "body")
	assert.ErrorContains(t, err, "lookup failed")
	assert.Empty(t, store.created)
}

func TestIngestCallsOnCreated(t *testing.T) {
	store := &fakeStore{}
	var notified *models.PendingTask
	l := &Listener{
		Store: store,
		OnCreated: func(ctx context.Context, task *models.PendingTask) {
			notified = task
		},
	}

	require.NoError(t, l.Ingest(context.Background(), "Läcka", "", "Meddelande:\nVattenläcka\n---"))
	require.NotNil(t, notified)
	assert.Equal(t, "Läcka", notified.Title)
}

func TestExtractTextBodyPlainFallback(t *testing.T) {
	raw := []byte("not a mime message at all")
	assert.Equal(t, "not a mime message at all", extractTextBody(raw))
}

func TestExtractTextBodyNil(t *testing.T) {
	assert.Equal(t, "", extractTextBody(nil))
}
