package handlers

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/urmzd/relayctl/pkg/relay"
	"github.com/urmzd/relayctl/pkg/routine"
)

func TestEventPayload(t *testing.T) {
	now := time.Now()

	pattern := eventPayload(routine.Event{
		RunID: "r1", Routine: "routine1", Seq: 2, Cycle: 1, Label: "B",
		State: relay.AllOn(), Status: routine.StatusRunning, Time: now,
	})
	assert.Equal(t, "B", pattern["label"])
	assert.Equal(t, "ffffffff", pattern["hex"])
	assert.Equal(t, 1, pattern["cycle"])
	assert.NotContains(t, pattern, "error")

	failed := eventPayload(routine.Event{
		RunID: "r1", Routine: "routine1", Seq: 3, Status: routine.StatusFailed,
		Err: errors.New("write failed"), Time: now,
	})
	assert.Equal(t, "write failed", failed["error"])
	assert.NotContains(t, failed, "label")
}

func TestSendSSEEvent(t *testing.T) {
	var buf bytes.Buffer
	sendSSEEvent(&buf, "heartbeat", map[string]any{"ok": true})

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "event: heartbeat\n"))
	assert.Contains(t, out, `data: {"ok":true}`)
	assert.True(t, strings.HasSuffix(out, "\n\n"))
}
