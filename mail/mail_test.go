package mail

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestLogSenderLogsMessage(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := NewLogSender("noreply@courses.test", zap.New(core))

	require.NoError(t, s.Send(context.Background(), Message{To: "ann@example.com", Subject: "Hi", Body: "link"}))
	entries := logs.FilterMessage("email queued").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "noreply@courses.test", fields["from"])
	assert.Equal(t, "ann@example.com", fields["to"])
	assert.Equal(t, "link", fields["body"])
}

func TestLogSenderHonoursCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	s := NewLogSender("noreply@courses.test", zap.NewNop())
	assert.ErrorIs(t, s.Send(ctx, Message{To: "a@b.c"}), context.Canceled)
}

func TestRecorderLast(t *testing.T) {
	var r Recorder
	_ = r.Send(context.Background(), Message{To: "a@example.com", Subject: "one"})
	_ = r.Send(context.Background(), Message{To: "b@example.com", Subject: "two"})
	_ = r.Send(context.Background(), Message{To: "A@example.com", Subject: "three"})

	m, ok := r.Last("a@example.com")
	require.True(t, ok)
	assert.Equal(t, "three", m.Subject)
	_, ok = r.Last("c@example.com")
	assert.False(t, ok)
}
