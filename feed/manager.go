package feed

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	log "github.com/sirupsen/logrus"

	"betslip/events"
	"betslip/identity"
	"betslip/metrics"
	"betslip/models"
)

// Update is one emission of the live sync channel: the full, ordered
// snapshot of the current user's bet slip, or a terminal error for the
// subscription that produced it. Snapshots are always complete, never
// diffs, so consumers cannot accumulate incremental-merge bugs.
type Update struct {
	Records []*models.BetRecord
	Err     error
}

// SnapshotSource supplies the ordered collection the feed re-reads on every
// change notification. Implemented by repository.BetRecordRepository.
type SnapshotSource interface {
	GetByUser(ctx context.Context, userID string) ([]*models.BetRecord, error)
}

// Manager maintains at most one live change subscription, following the
// identity provider: signing in subscribes for that user, signing out tears
// the subscription down and emits an empty snapshot, and switching users
// always tears down before resubscribing so a stale subscription can never
// deliver another user's records.
type Manager struct {
	source   SnapshotSource
	notifier events.Notifier
	ident    identity.Provider
	updates  chan Update
}

// NewManager creates a live sync manager. Call Run to start it.
func NewManager(source SnapshotSource, notifier events.Notifier, ident identity.Provider) *Manager {
	return &Manager{
		source:   source,
		notifier: notifier,
		ident:    ident,
		updates:  make(chan Update, 16),
	}
}

// Updates returns the emission channel. It is closed when Run returns.
func (m *Manager) Updates() <-chan Update {
	return m.updates
}

// Run drives the subscription lifecycle until ctx is cancelled
func (m *Manager) Run(ctx context.Context) {
	defer close(m.updates)

	watch := m.ident.Watch(ctx)

	var sess *session
	stopSession := func() {
		if sess != nil {
			sess.stop()
			sess = nil
		}
	}
	defer stopSession()

	if userID, ok := m.ident.CurrentUserID(); ok {
		sess = m.startSession(ctx, userID)
	} else {
		m.emit(ctx, Update{Records: []*models.BetRecord{}})
	}

	for {
		select {
		case <-ctx.Done():
			return
		case userID := <-watch:
			// The previous subscription is torn down before anything else
			// happens for the new identity
			stopSession()

			if userID == "" {
				// Signed out: the view empties immediately rather than
				// holding the last user's records
				m.emit(ctx, Update{Records: []*models.BetRecord{}})
				continue
			}

			sess = m.startSession(ctx, userID)
		}
	}
}

func (m *Manager) emit(ctx context.Context, update Update) {
	select {
	case m.updates <- update:
	case <-ctx.Done():
	}
}

type session struct {
	userID string
	cancel context.CancelFunc
	done   chan struct{}
}

func (m *Manager) startSession(parent context.Context, userID string) *session {
	ctx, cancel := context.WithCancel(parent)
	s := &session{
		userID: userID,
		cancel: cancel,
		done:   make(chan struct{}),
	}
	go m.runSession(ctx, s)
	return s
}

// stop cancels the session and waits for its goroutine to finish, so no
// emission can trail in after teardown
func (s *session) stop() {
	s.cancel()
	<-s.done
}

func (m *Manager) runSession(ctx context.Context, s *session) {
	defer close(s.done)

	logger := log.WithField("userId", s.userID)

	sub, err := m.notifier.Subscribe(ctx, s.userID)
	if err != nil {
		metrics.FeedErrors.Inc()
		logger.WithError(err).Error("Failed to open live sync subscription")
		m.emit(ctx, Update{Err: fmt.Errorf("failed to subscribe to changes: %w", err)})
		return
	}
	defer sub.Close()

	logger.Debug("Live sync subscription established")

	var lastFingerprint string
	emitSnapshot := func() bool {
		records, err := m.source.GetByUser(ctx, s.userID)
		if err != nil {
			if ctx.Err() != nil {
				return false
			}
			metrics.FeedErrors.Inc()
			logger.WithError(err).Error("Failed to load bet slip snapshot")
			m.emit(ctx, Update{Err: fmt.Errorf("failed to load snapshot: %w", err)})
			return false
		}

		// Consecutive identical snapshots are suppressed; consumers only
		// see states that actually differ
		fp := fingerprint(records)
		if fp == lastFingerprint {
			return true
		}
		lastFingerprint = fp

		m.emit(ctx, Update{Records: records})
		metrics.FeedEmissions.Inc()
		return true
	}

	// The subscription is opened before the initial read, so a mutation
	// landing between the two is still notified and re-read
	if !emitSnapshot() {
		return
	}

	for range sub.Changes() {
		if !emitSnapshot() {
			return
		}
	}

	// The change channel closed underneath us. That is terminal for this
	// subscription; reconnecting is deliberately left to the consumer so
	// persistent failures stay visible.
	if err := sub.Err(); err != nil && ctx.Err() == nil {
		metrics.FeedErrors.Inc()
		logger.WithError(err).Error("Live sync subscription terminated")
		m.emit(ctx, Update{Err: fmt.Errorf("live sync channel failed: %w", err)})
	}
}

// fingerprint summarizes a snapshot for deduplication
func fingerprint(records []*models.BetRecord) string {
	var b strings.Builder
	for _, r := range records {
		b.WriteString(r.ID)
		b.WriteByte(':')
		b.WriteString(string(r.Status))
		b.WriteByte(':')
		b.WriteString(strconv.FormatInt(r.UpdatedAt.UnixNano(), 10))
		b.WriteByte(';')
	}
	return b.String()
}
