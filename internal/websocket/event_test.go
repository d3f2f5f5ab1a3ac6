package websocket

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewEvent(t *testing.T) {
	payload := map[string]interface{}{
		"title":  "Dinner",
		"amount": "90.00",
	}

	before := time.Now()
	evt := NewEvent(EventTypeCreated, EntityTypeExpense, payload)
	after := time.Now()

	assert.Equal(t, "expense.created", evt.Type)
	assert.Equal(t, EntityTypeExpense, evt.Entity)
	assert.Equal(t, payload, evt.Payload)
	assert.True(t, !evt.Timestamp.Before(before) && !evt.Timestamp.After(after))
}

func TestEvent_ToJSON(t *testing.T) {
	evt := SplitSettled(map[string]interface{}{"settled": true})

	data, err := evt.ToJSON()
	require.NoError(t, err)

	var decoded map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &decoded))

	assert.Equal(t, "split.settled", decoded["type"])
	assert.Equal(t, "split", decoded["entity"])
	payload, ok := decoded["payload"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, payload["settled"])
}

func TestEventConstructors(t *testing.T) {
	tests := []struct {
		name     string
		event    Event
		expected string
	}{
		{"expense created", ExpenseCreated(nil), "expense.created"},
		{"expense updated", ExpenseUpdated(nil), "expense.updated"},
		{"expense deleted", ExpenseDeleted(nil), "expense.deleted"},
		{"split settled", SplitSettled(nil), "split.settled"},
		{"settlement computed", SettlementComputed(nil), "settlement.computed"},
		{"member joined", MemberJoined(nil), "member.joined"},
		{"member left", MemberLeft(nil), "member.left"},
		{"timeline item created", TimelineItemCreated(nil), "timeline_item.created"},
		{"timeline item updated", TimelineItemUpdated(nil), "timeline_item.updated"},
		{"timeline item deleted", TimelineItemDeleted(nil), "timeline_item.deleted"},
		{"note created", NoteCreated(nil), "note.created"},
		{"note deleted", NoteDeleted(nil), "note.deleted"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.event.Type)
		})
	}
}
