package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestNewEvent(t *testing.T) {
	event := NewEvent(QuizCreated, QuizCreatedEvent{QuizID: 1, Title: "Go"})

	if event.ID == "" {
		t.Error("Event ID should not be empty")
	}
	if event.Source != "quiz-admin-service" {
		t.Errorf("Expected source 'quiz-admin-service', got '%s'", event.Source)
	}
	if event.Version != "1.0" {
		t.Errorf("Expected version '1.0', got '%s'", event.Version)
	}
	if event.Timestamp.IsZero() {
		t.Error("Event timestamp should not be zero")
	}
	if other := NewEvent(QuizCreated, nil); other.ID == event.ID {
		t.Error("event ids should be unique")
	}
}

func TestWatermillEventPublisher_InMemoryRoundTrip(t *testing.T) {
	publisher := NewInMemoryEventPublisher("quiz", discardLogger())
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	messages, err := publisher.Subscribe(ctx, SubmissionGraded)
	if err != nil {
		t.Fatalf("subscribe: %v", err)
	}

	event := NewEvent(SubmissionGraded, SubmissionGradedEvent{SubmissionID: 7, QuizID: 3, Score: 4, MaxScore: 5})
	if err := publisher.Publish(ctx, event); err != nil {
		t.Fatalf("publish: %v", err)
	}

	select {
	case msg := <-messages:
		msg.Ack()
		if msg.UUID != event.ID {
			t.Errorf("message uuid = %s, want %s", msg.UUID, event.ID)
		}
		if got := msg.Metadata.Get("event_type"); got != SubmissionGraded {
			t.Errorf("event_type metadata = %q", got)
		}

		var decoded struct {
			Type string                `json:"type"`
			Data SubmissionGradedEvent `json:"data"`
		}
		if err := json.Unmarshal(msg.Payload, &decoded); err != nil {
			t.Fatalf("decode payload: %v", err)
		}
		if decoded.Type != SubmissionGraded || decoded.Data.Score != 4 || decoded.Data.SubmissionID != 7 {
			t.Errorf("decoded = %+v", decoded)
		}
	case <-ctx.Done():
		t.Fatal("timed out waiting for event")
	}
}

func TestWatermillEventPublisher_Topic(t *testing.T) {
	tests := []struct {
		prefix string
		want   string
	}{
		{prefix: "", want: "quiz.completed"},
		{prefix: "prod", want: "prod.quiz.completed"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			p := NewWatermillEventPublisher(nil, tt.prefix, discardLogger())
			if got := p.Topic(QuizCompleted); got != tt.want {
				t.Errorf("Topic() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMockEventPublisher(t *testing.T) {
	mock := NewMockEventPublisher(discardLogger())
	ctx := context.Background()

	_ = mock.Publish(ctx, NewEvent(QuizCreated, nil))
	_ = mock.Publish(ctx, NewEvent(QuizDeleted, nil))
	_ = mock.Publish(ctx, NewEvent(QuizCreated, nil))

	if got := len(mock.GetPublishedEvents()); got != 3 {
		t.Fatalf("events = %d, want 3", got)
	}
	if got := len(mock.EventsOfType(QuizCreated)); got != 2 {
		t.Errorf("quiz.created events = %d, want 2", got)
	}

	mock.ClearEvents()
	if got := len(mock.GetPublishedEvents()); got != 0 {
		t.Errorf("events after clear = %d", got)
	}

	boom := errors.New("broker down")
	mock.FailWith(boom)
	if err := mock.Publish(ctx, NewEvent(QuizCreated, nil)); !errors.Is(err, boom) {
		t.Errorf("publish err = %v, want %v", err, boom)
	}
}
