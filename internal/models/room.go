package models

import (
	"fmt"
	"time"
)

// RoomStatus is the derived health signal of a room. It is never set
// directly: the tracker re-derives it from the room's open issues.
type RoomStatus string

const (
	RoomGreen  RoomStatus = "green"
	RoomYellow RoomStatus = "yellow"
	RoomRed    RoomStatus = "red"
)

type Room struct {
	ID          string     `json:"id"`
	Block       string     `json:"block"`
	Floor       int        `json:"floor"`
	Number      int        `json:"number"`
	Status      RoomStatus `json:"status"`
	LastUpdated time.Time  `json:"last_updated"`
}

// RoomID builds the stable room id: "{block}-Floor{floor}-R{number}".
func RoomID(block string, floor, number int) string {
	return fmt.Sprintf("%s-Floor%d-R%d", block, floor, number)
}

// ParseRoomID is the inverse of RoomID.
func ParseRoomID(id string) (block string, floor, number int, err error) {
	n, err := fmt.Sscanf(id, "%1s-Floor%d-R%d", &block, &floor, &number)
	if err != nil || n != 3 {
		return "", 0, 0, fmt.Errorf("invalid room id %q", id)
	}
	return block, floor, number, nil
}
