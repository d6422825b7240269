package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUnmarshalOrderPresence(t *testing.T) {
	var withOrder, without Todo
	require.NoError(t, json.Unmarshal([]byte(`{"id":"1","text":"a","done":true,"createdAt":5,"order":0}`), &withOrder))
	require.NoError(t, json.Unmarshal([]byte(`{"id":"2","text":"b","createdAt":6}`), &without))

	assert.True(t, withOrder.HasOrder())
	assert.Equal(t, 0, withOrder.Order)
	assert.True(t, withOrder.Done)
	assert.Equal(t, int64(5), withOrder.CreatedAt)

	assert.False(t, without.HasOrder())
	without.SetOrder(3)
	assert.True(t, without.HasOrder())
	assert.Equal(t, 3, without.Order)
}

func TestMarshalKeyOrder(t *testing.T) {
	b, err := json.Marshal(New("1", "a", 5, 2))
	require.NoError(t, err)
	assert.Equal(t, `{"id":"1","text":"a","done":false,"createdAt":5,"order":2}`, string(b))
}
