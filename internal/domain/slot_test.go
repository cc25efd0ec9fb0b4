package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSlotStatus(t *testing.T) {
	tests := []struct {
		name string
		slot Slot
		want SlotStatus
	}{
		{
			name: "emptySlotIsAvailable",
			slot: Slot{Capacity: 5, Occupied: 0},
			want: SlotStatusAvailable,
		},
		{
			name: "belowThresholdIsAvailable",
			slot: Slot{Capacity: 5, Occupied: 3},
			want: SlotStatusAvailable,
		},
		{
			name: "atThresholdIsAlmostFull",
			slot: Slot{Capacity: 5, Occupied: 4},
			want: SlotStatusAlmostFull,
		},
		{
			name: "atCapacityIsFull",
			slot: Slot{Capacity: 5, Occupied: 5},
			want: SlotStatusFull,
		},
		{
			name: "overCapacityIsFull",
			slot: Slot{Capacity: 5, Occupied: 7},
			want: SlotStatusFull,
		},
		{
			name: "blockedWinsOverAvailable",
			slot: Slot{Capacity: 5, Occupied: 0, Blocked: true},
			want: SlotStatusBlocked,
		},
		{
			name: "blockedWinsOverFull",
			slot: Slot{Capacity: 5, Occupied: 5, Blocked: true},
			want: SlotStatusBlocked,
		},
		{
			name: "capacityOneOccupiedIsFull",
			slot: Slot{Capacity: 1, Occupied: 1},
			want: SlotStatusFull,
		},
		{
			name: "capacityOneEmptyIsAvailable",
			slot: Slot{Capacity: 1, Occupied: 0},
			want: SlotStatusAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.slot.Status())
		})
	}
}

func TestSlotAcceptsReservations(t *testing.T) {
	tests := []struct {
		name string
		slot Slot
		want bool
	}{
		{name: "openSlot", slot: Slot{Capacity: 5, Occupied: 2}, want: true},
		{name: "fullSlot", slot: Slot{Capacity: 5, Occupied: 5}, want: false},
		{name: "blockedSlot", slot: Slot{Capacity: 5, Occupied: 0, Blocked: true}, want: false},
		{name: "lastSpot", slot: Slot{Capacity: 5, Occupied: 4}, want: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.slot.AcceptsReservations())
		})
	}
}

func TestSlotRemainingSpots(t *testing.T) {
	assert.Equal(t, 3, (&Slot{Capacity: 5, Occupied: 2}).RemainingSpots())
	assert.Equal(t, 0, (&Slot{Capacity: 5, Occupied: 5}).RemainingSpots())

	// Счетчик мог уехать выше capacity после ручного вмешательства
	assert.Equal(t, 0, (&Slot{Capacity: 5, Occupied: 7}).RemainingSpots())
}

func TestSlotUpdateIsEmpty(t *testing.T) {
	assert.True(t, (&SlotUpdate{}).IsEmpty())

	capacity := 10
	assert.False(t, (&SlotUpdate{Capacity: &capacity}).IsEmpty())
}
