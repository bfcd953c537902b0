package queue

import (
	"testing"
	"time"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	occurred := time.Date(2025, 1, 2, 3, 4, 5, 123456000, time.UTC)

	env := Message[ObjectStoredPayload]{
		Header: EventHeader{
			Topic:      TopicObjectStored,
			Producer:   "filevault",
			OccurredAt: occurred,
			Version:    PayloadVersionV1,
		},
		Payload: ObjectStoredPayload{
			Object: ObjectRef{
				Owner:     "alice@example.com",
				FileID:    42,
				ObjectKey: "user-alice@example.com-files/objects/01ARZ3NDEKTSV4RRFFQ69G5FAV",
				Path:      "docs/2024",
				Name:      "report.pdf",
				Size:      1024,
				MimeType:  "application/pdf",
			},
		},
	}

	data, err := Encode(env)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := Decode[ObjectStoredPayload](data)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	if got.Header.Topic != env.Header.Topic {
		t.Errorf("topic = %q, want %q", got.Header.Topic, env.Header.Topic)
	}

	if !got.Header.OccurredAt.Equal(occurred) {
		t.Errorf("occurred_at = %v, want %v", got.Header.OccurredAt, occurred)
	}

	if got.Payload.Object != env.Payload.Object {
		t.Errorf("payload = %+v, want %+v", got.Payload.Object, env.Payload.Object)
	}
}

func TestNewWatermillMessage(t *testing.T) {
	payload := FolderMovedPayload{
		Folder:  FolderRef{Owner: "alice@example.com", FolderID: 7, Path: "archive/2024"},
		OldPath: "docs/2024",
	}

	msg, err := NewWatermillMessage(TopicFolderMoved, payload, WithProducer("filevault"))
	if err != nil {
		t.Fatalf("NewWatermillMessage: %v", err)
	}

	if msg.UUID == "" {
		t.Error("message UUID is empty")
	}

	if got := msg.Metadata.Get("topic"); got != TopicFolderMoved {
		t.Errorf("metadata topic = %q, want %q", got, TopicFolderMoved)
	}

	if got := msg.Metadata.Get("producer"); got != "filevault" {
		t.Errorf("metadata producer = %q, want %q", got, "filevault")
	}

	env, err := ParseWatermillMessage[FolderMovedPayload](msg)
	if err != nil {
		t.Fatalf("ParseWatermillMessage: %v", err)
	}

	if env.Header.Version != PayloadVersionV1 {
		t.Errorf("version = %q, want %q", env.Header.Version, PayloadVersionV1)
	}

	if env.Payload.OldPath != "docs/2024" || env.Payload.Folder.Path != "archive/2024" {
		t.Errorf("payload = %+v", env.Payload)
	}
}
