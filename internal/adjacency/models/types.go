package models

import (
	"fmt"
	"slices"
)

// ============================================================
// Geometry primitives
// ============================================================

// Position2D точка в мировых координатах (плоскость X-Z, Y это высота).
type Position2D struct {
	X float64 `json:"x" yaml:"x"`
	Z float64 `json:"z" yaml:"z"`
}

type BoundingBox struct {
	MinX float64 `json:"minX"`
	MaxX float64 `json:"maxX"`
	MinZ float64 `json:"minZ"`
	MaxZ float64 `json:"maxZ"`
}

// WallSide локальная сторона комнаты, не зависит от поворота.
type WallSide string

const (
	WallNorth WallSide = "north"
	WallEast  WallSide = "east"
	WallSouth WallSide = "south"
	WallWest  WallSide = "west"
)

type WallSegment struct {
	ID       string     `json:"id"`
	From     Position2D `json:"from"`
	To       Position2D `json:"to"`
	WallSide WallSide   `json:"wallSide"`
}

// ============================================================
// Rooms
// ============================================================

// Rotation поворот комнаты в градусах: 0, 90, 180 или 270.
type Rotation int

const (
	Rotation0   Rotation = 0
	Rotation90  Rotation = 90
	Rotation180 Rotation = 180
	Rotation270 Rotation = 270
)

// SwapsAxes сообщает, меняются ли местами length и width в мировых осях.
func (r Rotation) SwapsAxes() bool {
	return r == Rotation90 || r == Rotation270
}

func (r Rotation) Valid() bool {
	switch r {
	case Rotation0, Rotation90, Rotation180, Rotation270:
		return true
	}
	return false
}

type Room struct {
	ID       string     `json:"id" yaml:"id"`
	Name     string     `json:"name,omitempty" yaml:"name,omitempty"`
	Position Position2D `json:"position" yaml:"position"`
	Length   float64    `json:"length" yaml:"length"`
	Width    float64    `json:"width" yaml:"width"`
	Rotation Rotation   `json:"rotation" yaml:"rotation"`
}

// Validate проверяет инварианты комнаты: непустой id, положительные размеры, допустимый поворот.
func (r Room) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("room id is required")
	}
	if r.Length <= 0 || r.Width <= 0 {
		return fmt.Errorf("room %s: length and width must be positive", r.ID)
	}
	if !r.Rotation.Valid() {
		return fmt.Errorf("room %s: unsupported rotation %d", r.ID, r.Rotation)
	}
	return nil
}

// ============================================================
// Adjacency
// ============================================================

type SharedWall struct {
	Room1Wall     WallSide `json:"room1Wall"`
	Room2Wall     WallSide `json:"room2Wall"`
	Length        float64  `json:"length"`
	StartPosition float64  `json:"startPosition"` // 0.0-1.0 вдоль стены room1
	EndPosition   float64  `json:"endPosition"`   // 0.0-1.0 вдоль стены room1
}

type AdjacencyInfo struct {
	Room1ID    string     `json:"room1Id"`
	Room2ID    string     `json:"room2Id"`
	SharedWall SharedWall `json:"sharedWall"`
}

// RoomConnection связь между двумя комнатами. Связь ненаправленная:
// (room1, room2) и (room2, room1) это одна и та же смежность.
type RoomConnection struct {
	ID               string   `json:"id" yaml:"id"`
	Room1ID          string   `json:"room1Id" yaml:"room1Id"`
	Room2ID          string   `json:"room2Id" yaml:"room2Id"`
	Room1Wall        WallSide `json:"room1Wall,omitempty" yaml:"room1Wall,omitempty"`
	Room2Wall        WallSide `json:"room2Wall,omitempty" yaml:"room2Wall,omitempty"`
	SharedWallLength float64  `json:"sharedWallLength,omitempty" yaml:"sharedWallLength,omitempty"`
	Doors            []string `json:"doors" yaml:"doors"`
	IsManual         bool     `json:"isManual,omitempty" yaml:"isManual,omitempty"`
}

// Connects возвращает true, если связь соединяет комнаты a и b в любом порядке.
func (c RoomConnection) Connects(a, b string) bool {
	return (c.Room1ID == a && c.Room2ID == b) || (c.Room1ID == b && c.Room2ID == a)
}

// Touches возвращает true, если roomID один из концов связи.
func (c RoomConnection) Touches(roomID string) bool {
	return c.Room1ID == roomID || c.Room2ID == roomID
}

// Other возвращает комнату на другом конце связи.
func (c RoomConnection) Other(roomID string) string {
	if c.Room1ID == roomID {
		return c.Room2ID
	}
	return c.Room1ID
}

// Clone копирует связь вместе со списком дверей.
func (c RoomConnection) Clone() RoomConnection {
	out := c
	out.Doors = slices.Clone(c.Doors)
	if out.Doors == nil {
		out.Doors = []string{}
	}
	return out
}

// PairKey ключ неупорядоченной пары комнат.
func PairKey(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "\x00" + b
}

// ============================================================
// Doors
// ============================================================

type Door struct {
	ID           string   `json:"id" yaml:"id"`
	RoomID       string   `json:"roomId" yaml:"roomId"`
	ConnectionID string   `json:"connectionId,omitempty" yaml:"connectionId,omitempty"`
	WallSide     WallSide `json:"wallSide" yaml:"wallSide"`
	Position     float64  `json:"position" yaml:"position"` // 0.0-1.0 вдоль стены
	Width        float64  `json:"width" yaml:"width"`
	Height       float64  `json:"height" yaml:"height"`
	IsExterior   bool     `json:"isExterior" yaml:"isExterior"`
}
