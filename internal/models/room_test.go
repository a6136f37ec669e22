package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRoomID_RoundTrip(t *testing.T) {
	id := RoomID("B", 2, 7)
	assert.Equal(t, "B-Floor2-R7", id)

	block, floor, number, err := ParseRoomID(id)
	require.NoError(t, err)
	assert.Equal(t, "B", block)
	assert.Equal(t, 2, floor)
	assert.Equal(t, 7, number)
}

func TestParseRoomID_Invalid(t *testing.T) {
	for _, id := range []string{"", "B-2-7", "B-Floor2", "Floor2-R7"} {
		_, _, _, err := ParseRoomID(id)
		assert.Error(t, err, id)
	}
}

func TestCoerceSeverity(t *testing.T) {
	assert.Equal(t, SeverityRed, CoerceSeverity("red"))
	assert.Equal(t, SeverityYellow, CoerceSeverity("RED"))
	assert.Equal(t, SeverityYellow, CoerceSeverity("yellow"))
	assert.Equal(t, SeverityYellow, CoerceSeverity(""))
	assert.Equal(t, SeverityYellow, CoerceSeverity("critical"))
}
