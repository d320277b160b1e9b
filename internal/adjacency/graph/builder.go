package graph

import (
	"errors"

	"github.com/google/uuid"

	"floorplan/internal/adjacency/detection"
	"floorplan/internal/adjacency/geometry"
	"floorplan/internal/adjacency/models"
)

// ============================================================
// Graph Builder
// ============================================================

var ErrSelfConnection = errors.New("connection must join two different rooms")

type GraphBuilder struct {
	newID func() string
}

func NewGraphBuilder() *GraphBuilder {
	return &GraphBuilder{newID: uuid.NewString}
}

// SetIDGenerator задает генератор id новых связей (nil возвращает uuid).
func (b *GraphBuilder) SetIDGenerator(f func() string) {
	if f == nil {
		b.newID = uuid.NewString
		return
	}
	b.newID = f
}

// Build строит граф с нуля по списку комнат. Каждая пара проверяется один раз;
// найденная смежность становится новой связью с новым id и пустым списком дверей.
func (b *GraphBuilder) Build(rooms []models.Room) *AdjacencyGraph {
	g := New()

	bounds := make([]models.BoundingBox, len(rooms))
	for i, room := range rooms {
		bounds[i] = geometry.Bounds(room)
	}

	for i := 0; i < len(rooms); i++ {
		for j := i + 1; j < len(rooms); j++ {
			if rooms[i].ID == rooms[j].ID {
				continue
			}
			if !geometry.Near(bounds[i], bounds[j], detection.Tolerance) {
				continue
			}

			info := detection.DetectAdjacency(rooms[i], rooms[j])
			if info == nil {
				continue
			}
			g.AddConnection(models.RoomConnection{
				ID:               b.newID(),
				Room1ID:          info.Room1ID,
				Room2ID:          info.Room2ID,
				Room1Wall:        info.SharedWall.Room1Wall,
				Room2Wall:        info.SharedWall.Room2Wall,
				SharedWallLength: info.SharedWall.Length,
				Doors:            []string{},
			})
		}
	}

	return g
}

// CalculateAllConnections строит граф и возвращает все найденные связи.
func (b *GraphBuilder) CalculateAllConnections(rooms []models.Room) []models.RoomConnection {
	return b.Build(rooms).AllConnections()
}

// Recalculate пересчитывает связи и сливает их с предыдущими, сохраняя id и двери.
func (b *GraphBuilder) Recalculate(rooms []models.Room, previous []models.RoomConnection) []models.RoomConnection {
	return MergeConnections(b.CalculateAllConnections(rooms), previous, rooms)
}

// ManualConnection создает связь, заданную пользователем.
func (b *GraphBuilder) ManualConnection(room1ID, room2ID string) (models.RoomConnection, error) {
	if room1ID == room2ID {
		return models.RoomConnection{}, ErrSelfConnection
	}
	return models.RoomConnection{
		ID:       b.newID(),
		Room1ID:  room1ID,
		Room2ID:  room2ID,
		Doors:    []string{},
		IsManual: true,
	}, nil
}

// ============================================================
// Package-level helpers (uuid ids)
// ============================================================

func BuildGraph(rooms []models.Room) *AdjacencyGraph {
	return NewGraphBuilder().Build(rooms)
}

func CalculateAllConnections(rooms []models.Room) []models.RoomConnection {
	return NewGraphBuilder().CalculateAllConnections(rooms)
}

func Recalculate(rooms []models.Room, previous []models.RoomConnection) []models.RoomConnection {
	return NewGraphBuilder().Recalculate(rooms, previous)
}

func NewManualConnection(room1ID, room2ID string) (models.RoomConnection, error) {
	return NewGraphBuilder().ManualConnection(room1ID, room2ID)
}

func IsManual(conn models.RoomConnection) bool {
	return conn.IsManual
}
