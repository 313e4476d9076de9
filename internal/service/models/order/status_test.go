package order

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStatus_CanTransitionTo(t *testing.T) {
	allowed := map[[2]Status]bool{
		{StatusPending, StatusReceived}:       true,
		{StatusReceived, StatusInPreparation}: true,
		{StatusInPreparation, StatusReady}:    true,
		{StatusReady, StatusFinished}:         true,
		{StatusPending, StatusCancelled}:      true,
		{StatusReceived, StatusCancelled}:     true,
	}

	for _, from := range Statuses {
		for _, to := range Statuses {
			assert.Equal(t, allowed[[2]Status{from, to}], from.CanTransitionTo(to), "%s -> %s", from, to)
		}
	}
}

func TestStatus_IsTerminal(t *testing.T) {
	for _, s := range Statuses {
		assert.Equal(t, s == StatusFinished || s == StatusCancelled, s.IsTerminal(), s)
	}
}

func TestParseStatus(t *testing.T) {
	for _, s := range Statuses {
		got, err := ParseStatus(string(s))
		require.NoError(t, err)
		assert.Equal(t, s, got)
	}

	for _, bad := range []string{"", "INVALID", "pending", "Fineshed"} {
		_, err := ParseStatus(bad)
		assert.ErrorIs(t, err, ErrInvalidStatus, bad)
	}
}

func TestStatus_ActivePriority(t *testing.T) {
	assert.Less(t, StatusReady.ActivePriority(), StatusInPreparation.ActivePriority(), "Ready sorts before InPreparation")
	assert.Less(t, StatusInPreparation.ActivePriority(), StatusReceived.ActivePriority(), "InPreparation sorts before Received")
	assert.Equal(t, -1, StatusPending.ActivePriority())
	assert.Equal(t, -1, StatusFinished.ActivePriority())
}
