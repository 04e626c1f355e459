package queue

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Slade66/number-generator/pkg/run"
)

func TestMessageDecode(t *testing.T) {
	req := run.Request{ID: uuid.New(), DelayMs: 0, Observers: run.DefaultObservers()}
	payload, err := json.Marshal(req)
	require.NoError(t, err)

	got, err := Message{ID: "1-0", Payload: string(payload)}.Decode()
	require.NoError(t, err)
	assert.Equal(t, req.ID, got.ID)
	assert.Equal(t, req.Observers, got.Observers)
}

func TestMessageDecodeGarbage(t *testing.T) {
	_, err := Message{ID: "1-0", Payload: "not json"}.Decode()
	assert.ErrorContains(t, err, "1-0")
}
