package events

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnvelopeRoundTripKeepsTypeAndTime(t *testing.T) {
	evt := New(AirdropStatusChanged, map[string]interface{}{"from": "TODO", "to": "CLAIMED"})

	raw, err := json.Marshal(ToEnvelope(evt))
	require.NoError(t, err)

	var env Envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	back := env.Event()

	assert.Equal(t, AirdropStatusChanged, back.EventType())
	assert.True(t, evt.Timestamp().Equal(back.Timestamp()))
	assert.Equal(t, "CLAIMED", back.Payload()["to"])
}

func TestNopPublisher(t *testing.T) {
	var p Publisher = NopPublisher{}
	assert.NoError(t, p.Publish(context.Background(), New(UserLogin, nil)))
}
