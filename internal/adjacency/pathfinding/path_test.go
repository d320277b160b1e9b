package pathfinding

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan/internal/adjacency/models"
)

func link(id, r1, r2 string) models.RoomConnection {
	return models.RoomConnection{ID: id, Room1ID: r1, Room2ID: r2, Doors: []string{}}
}

func room(id string, x, z, length, width float64) models.Room {
	return models.Room{ID: id, Position: models.Position2D{X: x, Z: z}, Length: length, Width: width}
}

// A - B - C - D plus a detached E - F.
var chain = []models.RoomConnection{
	link("c1", "A", "B"),
	link("c2", "B", "C"),
	link("c3", "C", "D"),
	link("c4", "E", "F"),
}

func TestFindPath_Direct(t *testing.T) {
	assert.Equal(t, []string{"A", "B"}, FindPath("A", "B", chain))
}

func TestFindPath_Indirect(t *testing.T) {
	assert.Equal(t, []string{"A", "B", "C", "D"}, FindPath("A", "D", chain))
	assert.Equal(t, []string{"D", "C", "B", "A"}, FindPath("D", "A", chain))
}

func TestFindPath_ShortestRoute(t *testing.T) {
	// A - X - Y - Z (3 hops) is listed before A - P - Z (2 hops).
	conns := []models.RoomConnection{
		link("c1", "A", "X"),
		link("c2", "X", "Y"),
		link("c3", "Y", "Z"),
		link("c4", "A", "P"),
		link("c5", "P", "Z"),
	}

	assert.Equal(t, []string{"A", "P", "Z"}, FindPath("A", "Z", conns))
}

func TestFindPath_SameRoom(t *testing.T) {
	assert.Equal(t, []string{"A"}, FindPath("A", "A", chain))
	assert.Equal(t, []string{"ghost"}, FindPath("ghost", "ghost", nil))
}

func TestFindPath_NoPath(t *testing.T) {
	assert.Equal(t, []string{}, FindPath("A", "E", chain))
	assert.Equal(t, []string{}, FindPath("A", "unknown", chain))
	assert.Equal(t, []string{}, FindPath("A", "B", nil))
}

func TestFindPath_Cycle(t *testing.T) {
	conns := []models.RoomConnection{
		link("c1", "A", "B"),
		link("c2", "B", "C"),
		link("c3", "C", "A"),
		link("c4", "C", "D"),
	}
	assert.Equal(t, []string{"A", "C", "D"}, FindPath("A", "D", conns))
}

func TestPathDistance(t *testing.T) {
	rooms := []models.Room{
		room("R1", 0, 0, 4, 4),
		room("R2", 4, 0, 4, 4),
		room("R3", 8, 0, 4, 4),
	}

	d, err := PathDistance([]string{"R1", "R2", "R3"}, rooms)
	require.NoError(t, err)
	assert.InDelta(t, 8, d, 1e-9)
}

func TestPathDistance_Diagonal(t *testing.T) {
	rooms := []models.Room{room("R1", 0, 0, 2, 2), room("R2", 3, 4, 2, 2)}

	d, err := PathDistance([]string{"R1", "R2"}, rooms)
	require.NoError(t, err)
	assert.InDelta(t, 5, d, 1e-9)
}

func TestPathDistance_ShortPaths(t *testing.T) {
	d, err := PathDistance([]string{"R1"}, nil)
	require.NoError(t, err)
	assert.Zero(t, d)

	d, err = PathDistance(nil, nil)
	require.NoError(t, err)
	assert.Zero(t, d)
}

func TestPathDistance_MissingRoom(t *testing.T) {
	rooms := []models.Room{room("R1", 0, 0, 4, 4)}

	_, err := PathDistance([]string{"R1", "R2"}, rooms)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.Contains(t, err.Error(), "R2")
}
