package models

import (
	"time"

	adjacency "floorplan/internal/adjacency/models"
)

// ============================================================
// Floorplan Model
// ============================================================

type Floorplan struct {
	ID          string                     `json:"id"`
	Name        string                     `json:"name"`
	Rooms       []adjacency.Room           `json:"rooms"`
	Doors       []adjacency.Door           `json:"doors"`
	Connections []adjacency.RoomConnection `json:"connections"`
	CreatedAt   time.Time                  `json:"createdAt"`
	UpdatedAt   time.Time                  `json:"updatedAt"`
}

// FloorplanSummary краткие данные для списка планов.
type FloorplanSummary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RoomCount int       `json:"roomCount"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (f *Floorplan) RoomIndex(roomID string) int {
	for i, room := range f.Rooms {
		if room.ID == roomID {
			return i
		}
	}
	return -1
}

func (f *Floorplan) ConnectionIndex(connID string) int {
	for i, conn := range f.Connections {
		if conn.ID == connID {
			return i
		}
	}
	return -1
}
