package service

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/padraicbc/courseapi/repository"
)

func TestDeleteFailedTreatsVanishedRowAsNoop(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := zap.New(core)

	// Commit wraps the failing op's description around the sentinel.
	deleted, err := deleteFailed(log, fmt.Errorf("delete courses: %w", repository.ErrNoRows), zap.String("course_id", "c1"))
	assert.NoError(t, err)
	assert.False(t, deleted)
	entries := logs.FilterMessage("row already deleted").All()
	if assert.Len(t, entries, 1) {
		assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
		assert.Equal(t, "c1", entries[0].ContextMap()["course_id"])
	}

	boom := errors.New("disk full")
	deleted, err = deleteFailed(log, boom)
	assert.ErrorIs(t, err, boom)
	assert.False(t, deleted)
}
