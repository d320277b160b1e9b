package graph

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan/internal/adjacency/models"
)

func room(id string, x, z, length, width float64) models.Room {
	return models.Room{
		ID:       id,
		Position: models.Position2D{X: x, Z: z},
		Length:   length,
		Width:    width,
	}
}

func sequentialIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("conn-%d", n)
	}
}

func TestBuildGraph_DetectsAdjacencies(t *testing.T) {
	rooms := []models.Room{
		room("R1", 0, 0, 4, 4),
		room("R2", 4, 0, 4, 4),
		room("R3", 20, 20, 4, 4),
	}

	g := BuildGraph(rooms)

	all := g.AllConnections()
	require.Len(t, all, 1)
	assert.True(t, all[0].Connects("R1", "R2"))
	assert.NotEmpty(t, all[0].ID)
	assert.Empty(t, all[0].Doors)
	assert.NotNil(t, all[0].Doors)
	assert.False(t, all[0].IsManual)
	assert.Empty(t, g.ConnectionsForRoom("R3"))
}

func TestCalculateAllConnections_EndToEnd(t *testing.T) {
	rooms := []models.Room{room("R1", 0, 0, 4, 4), room("R2", 4, 0, 4, 4)}

	conns := CalculateAllConnections(rooms)
	require.Len(t, conns, 1)
	assert.InDelta(t, 4, conns[0].SharedWallLength, 1e-9)
	assert.Equal(t, models.WallEast, conns[0].Room1Wall)
	assert.Equal(t, models.WallWest, conns[0].Room2Wall)

	rooms[1].Position.X = 4.2
	assert.Empty(t, CalculateAllConnections(rooms))
}

func TestCalculateAllConnections_ComplexLayout(t *testing.T) {
	rooms := []models.Room{
		room("R1", 0, 0, 4, 4),
		room("R2", 4, 0, 4, 4),
		room("R3", 0, 4, 4, 4),
	}

	conns := CalculateAllConnections(rooms)
	require.Len(t, conns, 2)

	g := New(conns...)
	_, ok := g.Connection("R1", "R2")
	assert.True(t, ok)
	_, ok = g.Connection("R1", "R3")
	assert.True(t, ok)
	_, ok = g.Connection("R2", "R3")
	assert.False(t, ok, "diagonal rooms only touch at a corner")
}

func TestGraphBuilder_IDGenerator(t *testing.T) {
	b := NewGraphBuilder()
	b.SetIDGenerator(sequentialIDs())

	conns := b.CalculateAllConnections([]models.Room{
		room("A", 0, 0, 2, 2),
		room("B", 2, 0, 2, 2),
		room("C", 4, 0, 2, 2),
	})

	require.Len(t, conns, 2)
	assert.Equal(t, "conn-1", conns[0].ID)
	assert.True(t, conns[0].Connects("A", "B"))
	assert.Equal(t, "conn-2", conns[1].ID)
	assert.True(t, conns[1].Connects("B", "C"))

	b.SetIDGenerator(nil)
	again := b.CalculateAllConnections([]models.Room{room("A", 0, 0, 2, 2), room("B", 2, 0, 2, 2)})
	require.Len(t, again, 1)
	assert.Len(t, again[0].ID, 36)
}

func TestGraphBuilder_SkipsDuplicateRoomIDs(t *testing.T) {
	conns := CalculateAllConnections([]models.Room{room("A", 0, 0, 2, 2), room("A", 2, 0, 2, 2)})
	assert.Empty(t, conns)
}

func TestGraphBuilder_RotatedNeighbour(t *testing.T) {
	rotated := room("B", 4, 0, 4, 2)
	rotated.Rotation = models.Rotation90

	conns := CalculateAllConnections([]models.Room{room("A", 0, 0, 4, 4), rotated})
	require.Len(t, conns, 1)
	assert.InDelta(t, 4, conns[0].SharedWallLength, 1e-9)
}

func TestManualConnection(t *testing.T) {
	c, err := NewManualConnection("A", "B")
	require.NoError(t, err)

	assert.True(t, IsManual(c))
	assert.NotEmpty(t, c.ID)
	assert.Equal(t, "A", c.Room1ID)
	assert.Equal(t, "B", c.Room2ID)
	assert.Empty(t, c.Room1Wall)
	assert.Zero(t, c.SharedWallLength)
	assert.Equal(t, []string{}, c.Doors)

	_, err = NewManualConnection("A", "A")
	assert.ErrorIs(t, err, ErrSelfConnection)
}

func TestRecalculate_KeepsIdentityAcrossMoves(t *testing.T) {
	b := NewGraphBuilder()
	b.SetIDGenerator(sequentialIDs())

	rooms := []models.Room{room("R1", 0, 0, 4, 4), room("R2", 4, 0, 4, 4)}
	first := b.Recalculate(rooms, nil)
	require.Len(t, first, 1)
	first[0].Doors = append(first[0].Doors, "door-1")

	rooms[1].Position.Z = 2
	second := b.Recalculate(rooms, first)
	require.Len(t, second, 1)
	assert.Equal(t, first[0].ID, second[0].ID)
	assert.Equal(t, []string{"door-1"}, second[0].Doors)
	assert.InDelta(t, 2, second[0].SharedWallLength, 1e-9)

	rooms[1].Position.X = 5
	assert.Empty(t, b.Recalculate(rooms, second))
}
