package queue

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"taskify-api/internal/config"
	"taskify-api/internal/models"

	"github.com/segmentio/kafka-go"
)

type recordingWriter struct {
	msgs   []kafka.Message
	closed bool
}

func (w *recordingWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *recordingWriter) Close() error {
	w.closed = true
	return nil
}

func TestEventPublisher_PublishKeysByTask(t *testing.T) {
	w := &recordingWriter{}
	p := NewEventPublisherWithWriter(w)
	ev := &models.TaskEvent{
		Type:       models.EventTaskDeleted,
		TaskID:     "task-1",
		UserID:     "user-1",
		OccurredAt: time.Unix(100, 0).UTC(),
	}

	if err := p.Publish(context.Background(), ev); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("got %d messages, want 1", len(w.msgs))
	}
	msg := w.msgs[0]
	if string(msg.Key) != "task-1" {
		t.Fatalf("key = %q, want task-1", msg.Key)
	}
	if len(msg.Headers) != 1 || string(msg.Headers[0].Value) != models.EventTaskDeleted {
		t.Fatalf("headers = %+v", msg.Headers)
	}
	var decoded map[string]any
	if err := json.Unmarshal(msg.Value, &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if _, ok := decoded["task"]; ok {
		t.Fatalf("delete event should omit task snapshot: %s", msg.Value)
	}

	if err := p.Close(); err != nil || !w.closed {
		t.Fatalf("Close: err=%v closed=%v", err, w.closed)
	}
}

func TestEventPublisher_NilIsNoop(t *testing.T) {
	var p *EventPublisher
	if err := p.Publish(context.Background(), &models.TaskEvent{TaskID: "x"}); err != nil {
		t.Fatalf("Publish on nil: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close on nil: %v", err)
	}
}

type fakeCreator struct {
	req  *kafka.CreateTopicsRequest
	resp *kafka.CreateTopicsResponse
	err  error
}

func (f *fakeCreator) CreateTopics(_ context.Context, req *kafka.CreateTopicsRequest) (*kafka.CreateTopicsResponse, error) {
	f.req = req
	return f.resp, f.err
}

func TestTopicConfig_ClampsToOne(t *testing.T) {
	got := topicConfig(&config.Config{KafkaTopic: "task-events"})
	if got.Topic != "task-events" || got.NumPartitions != 1 || got.ReplicationFactor != 1 {
		t.Fatalf("topicConfig = %+v", got)
	}
	got = topicConfig(&config.Config{KafkaTopic: "t", KafkaPartitions: 6, KafkaReplicationFactor: 3})
	if got.NumPartitions != 6 || got.ReplicationFactor != 3 {
		t.Fatalf("topicConfig = %+v", got)
	}
}

func TestEnsureTopic(t *testing.T) {
	cfg := &config.Config{KafkaTopic: "task-events", KafkaPartitions: 3}
	brokerDown := errors.New("dial tcp: connection refused")
	cases := []struct {
		name    string
		creator *fakeCreator
		wantErr bool
	}{
		{"created", &fakeCreator{resp: &kafka.CreateTopicsResponse{Errors: map[string]error{}}}, false},
		{"already exists", &fakeCreator{resp: &kafka.CreateTopicsResponse{Errors: map[string]error{"task-events": kafka.TopicAlreadyExists}}}, false},
		{"rejected", &fakeCreator{resp: &kafka.CreateTopicsResponse{Errors: map[string]error{"task-events": kafka.InvalidReplicationFactor}}}, true},
		{"unreachable", &fakeCreator{err: brokerDown}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ensureTopic(context.Background(), tc.creator, cfg)
			if (err != nil) != tc.wantErr {
				t.Fatalf("ensureTopic = %v, wantErr %v", err, tc.wantErr)
			}
			topics := tc.creator.req.Topics
			if len(topics) != 1 || topics[0].Topic != "task-events" || topics[0].NumPartitions != 3 {
				t.Fatalf("request topics = %+v", topics)
			}
		})
	}
}

func TestEnsureTopic_NoBrokers(t *testing.T) {
	if err := EnsureTopic(context.Background(), &config.Config{KafkaTopic: "x"}); err != nil {
		t.Fatalf("EnsureTopic: %v", err)
	}
}
