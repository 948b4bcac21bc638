package uuidx

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewRunID(t *testing.T) {
	id := NewRunID()
	assert.Equal(t, uuid.Version(7), uuid.UUID(id).Version())
	assert.NotEqual(t, id, NewRunID())
	assert.Regexp(t, "^[0-9a-f]{8}-[0-9a-f]{4}-7[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$", id.String())
}

func TestRunID_Started(t *testing.T) {
	before := time.Now().Add(-time.Second)
	id := NewRunID()
	assert.WithinRange(t, id.Started(), before, time.Now().Add(time.Second))
}

func TestRunID_LogValue(t *testing.T) {
	id := NewRunID()
	assert.Equal(t, id.String(), id.LogValue().String())
}
