package nats

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"go.uber.org/zap"

	"github.com/gia-fashion/stylist-platform/internal/model"
	"github.com/gia-fashion/stylist-platform/internal/store"
	"github.com/gia-fashion/stylist-platform/pkg/metrics"
)

var (
	_ store.TurnStore      = (*StreamManager)(nil)
	_ store.EventPublisher = (*StreamManager)(nil)
)

const (
	// StreamName is the name of the session stream.
	StreamName = "STYLIST"

	// SubjectPrefix is the prefix for all session subjects.
	SubjectPrefix = "gia"

	fetchBatch = 100
)

// ErrInvalidSubjectToken is returned for ids that cannot be a subject token.
var ErrInvalidSubjectToken = errors.New("id is not a valid subject token")

// StreamManager keeps session turns and events on one JetStream stream.
type StreamManager struct {
	client *Client
}

// NewStreamManager creates a new stream manager.
func NewStreamManager(client *Client) *StreamManager {
	return &StreamManager{client: client}
}

// EnsureStream creates the stream when it does not exist yet.
func (m *StreamManager) EnsureStream(ctx context.Context) error {
	js := m.client.JetStream()

	if _, err := js.Stream(ctx, StreamName); err == nil {
		return nil
	}

	_, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:        StreamName,
		Subjects:    []string{SubjectPrefix + ".>"},
		Retention:   jetstream.LimitsPolicy,
		MaxAge:      180 * 24 * time.Hour,
		MaxBytes:    20 * 1024 * 1024 * 1024,
		Storage:     jetstream.FileStorage,
		Replicas:    1,
		Compression: jetstream.S2Compression,
		DenyDelete:  true,
		DenyPurge:   true,
		Description: "Stylist session turns and events",
	})
	if err != nil {
		return fmt.Errorf("failed to create stream: %w", err)
	}

	m.client.logger.Info("created JetStream stream", zap.String("stream", StreamName))
	return nil
}

// TurnSubject returns the subject a turn is stored on.
func TurnSubject(sessionID string, role model.Role) string {
	return fmt.Sprintf("%s.%s.turn.%s", SubjectPrefix, sessionID, role)
}

// EventSubject returns the subject for an event.
func EventSubject(sessionID string, eventType model.EventType) string {
	return fmt.Sprintf("%s.%s.event.%s", SubjectPrefix, sessionID, eventType)
}

// TurnFilter matches every turn of a session.
func TurnFilter(sessionID string) string {
	return fmt.Sprintf("%s.%s.turn.>", SubjectPrefix, sessionID)
}

func validToken(id string) bool {
	return id != "" && !strings.ContainsAny(id, ".*> \t\r\n")
}

// AppendTurn publishes a turn and records its stream sequence.
func (m *StreamManager) AppendTurn(ctx context.Context, turn *model.Turn) (uint64, error) {
	if !validToken(turn.SessionID) {
		return 0, ErrInvalidSubjectToken
	}

	data, err := json.Marshal(turn)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal turn: %w", err)
	}

	ack, err := m.client.JetStream().Publish(ctx, TurnSubject(turn.SessionID, turn.Role), data)
	if err != nil {
		return 0, fmt.Errorf("failed to publish turn: %w", err)
	}

	turn.Sequence = ack.Sequence
	return ack.Sequence, nil
}

// PublishEvent publishes an event to JetStream.
func (m *StreamManager) PublishEvent(ctx context.Context, event *model.SessionEvent) (uint64, error) {
	if !validToken(event.SessionID) {
		return 0, ErrInvalidSubjectToken
	}

	data, err := json.Marshal(event)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal event: %w", err)
	}

	ack, err := m.client.JetStream().Publish(ctx, EventSubject(event.SessionID, event.Type), data)
	if err != nil {
		return 0, fmt.Errorf("failed to publish event: %w", err)
	}

	event.Sequence = ack.Sequence
	return ack.Sequence, nil
}

// ListTurns replays every turn of a session in stream order through an
// ephemeral consumer.
func (m *StreamManager) ListTurns(ctx context.Context, sessionID string) ([]model.Turn, error) {
	if !validToken(sessionID) {
		return nil, ErrInvalidSubjectToken
	}
	js := m.client.JetStream()

	consumer, err := js.CreateConsumer(ctx, StreamName, jetstream.ConsumerConfig{
		FilterSubject:     TurnFilter(sessionID),
		AckPolicy:         jetstream.AckNonePolicy,
		DeliverPolicy:     jetstream.DeliverAllPolicy,
		InactiveThreshold: 30 * time.Second,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer: %w", err)
	}

	info := consumer.CachedInfo()
	defer func() {
		if err := js.DeleteConsumer(context.WithoutCancel(ctx), StreamName, info.Name); err != nil {
			m.client.logger.Debug("delete ephemeral consumer", zap.String("consumer", info.Name), zap.Error(err))
		}
	}()

	pending := int(info.NumPending)
	turns := make([]model.Turn, 0, pending)

	for len(turns) < pending {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		batch, err := consumer.Fetch(min(pending-len(turns), fetchBatch), jetstream.FetchMaxWait(2*time.Second))
		if err != nil {
			return nil, fmt.Errorf("failed to fetch turns: %w", err)
		}

		received := 0
		for msg := range batch.Messages() {
			received++

			var turn model.Turn
			if err := json.Unmarshal(msg.Data(), &turn); err != nil {
				m.client.logger.Warn("skipping undecodable turn", zap.String("subject", msg.Subject()), zap.Error(err))
				pending--
				continue
			}
			if meta, err := msg.Metadata(); err == nil {
				turn.Sequence = meta.Sequence.Stream
			}
			turns = append(turns, turn)
		}

		if err := batch.Error(); err != nil && !errors.Is(err, context.DeadlineExceeded) && !errors.Is(err, jetstream.ErrNoMessages) {
			return nil, fmt.Errorf("batch error: %w", err)
		}
		if received == 0 {
			break
		}
	}

	return turns, nil
}

// RecordStats publishes the stream size to the NATS gauges.
func (m *StreamManager) RecordStats(ctx context.Context) error {
	stream, err := m.client.JetStream().Stream(ctx, StreamName)
	if err != nil {
		return fmt.Errorf("failed to get stream: %w", err)
	}
	info, err := stream.Info(ctx)
	if err != nil {
		return fmt.Errorf("failed to get stream info: %w", err)
	}

	metrics.NATSStreamMessages.WithLabelValues(StreamName).Set(float64(info.State.Msgs))
	metrics.NATSStreamBytes.WithLabelValues(StreamName).Set(float64(info.State.Bytes))
	return nil
}

// WatchStats records stream stats every interval until ctx is done.
func (m *StreamManager) WatchStats(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := m.RecordStats(ctx); err != nil {
				m.client.logger.Warn("failed to record stream stats", zap.Error(err))
			}
		}
	}
}
