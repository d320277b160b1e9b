package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"floorplan/internal/adjacency/graph"
	adjacency "floorplan/internal/adjacency/models"
	"floorplan/internal/planner/repository"
)

const migrationsPath = "../../../migrations/001_init_planner.sql"

func newTestService(t *testing.T) *FloorplanService {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	db.SetMaxOpenConns(1)
	t.Cleanup(func() { db.Close() })

	repo := repository.New(db)
	require.NoError(t, repo.Init(context.Background(), migrationsPath))

	n := 0
	builder := graph.NewGraphBuilder()
	builder.SetIDGenerator(func() string {
		n++
		return fmt.Sprintf("conn-%d", n)
	})
	return NewFloorplanService(repo, builder)
}

func room(id string, x, z, length, width float64) adjacency.Room {
	return adjacency.Room{ID: id, Position: adjacency.Position2D{X: x, Z: z}, Length: length, Width: width}
}

func TestFloorplanService_AddRoomConnectsNeighbours(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	fp, err := svc.CreateFloorplan(ctx, "Flat")
	require.NoError(t, err)

	_, err = svc.AddRoom(ctx, fp.ID, room("R1", 0, 0, 4, 4))
	require.NoError(t, err)
	got, err := svc.AddRoom(ctx, fp.ID, room("R2", 4, 0, 4, 4))
	require.NoError(t, err)

	require.Len(t, got.Connections, 1)
	assert.Equal(t, "conn-1", got.Connections[0].ID)
	assert.True(t, got.Connections[0].Connects("R1", "R2"))

	stored, err := svc.GetFloorplan(ctx, fp.ID)
	require.NoError(t, err)
	assert.Equal(t, got.Connections, stored.Connections)
}

func TestFloorplanService_AddRoomRejects(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	fp, err := svc.CreateFloorplan(ctx, "Flat")
	require.NoError(t, err)
	_, err = svc.AddRoom(ctx, fp.ID, room("R1", 0, 0, 4, 4))
	require.NoError(t, err)

	_, err = svc.AddRoom(ctx, fp.ID, room("R1", 10, 0, 4, 4))
	assert.ErrorIs(t, err, ErrRoomExists)

	_, err = svc.AddRoom(ctx, fp.ID, room("R2", 10, 0, 0, 4))
	assert.ErrorIs(t, err, ErrInvalidRoom)

	_, err = svc.AddRoom(ctx, "missing", room("R3", 10, 0, 4, 4))
	assert.ErrorIs(t, err, ErrFloorplanNotFound)
}

func TestFloorplanService_AddRoomGeneratesID(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	fp, err := svc.CreateFloorplan(ctx, "Flat")
	require.NoError(t, err)

	got, err := svc.AddRoom(ctx, fp.ID, room("", 0, 0, 3, 3))
	require.NoError(t, err)
	require.Len(t, got.Rooms, 1)
	assert.NotEmpty(t, got.Rooms[0].ID)
}

func TestFloorplanService_UpdateRoomKeepsConnectionIdentity(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	fp, err := svc.CreateFloorplan(ctx, "Flat")
	require.NoError(t, err)
	_, err = svc.AddRoom(ctx, fp.ID, room("R1", 0, 0, 4, 4))
	require.NoError(t, err)
	_, err = svc.AddRoom(ctx, fp.ID, room("R2", 4, 0, 4, 4))
	require.NoError(t, err)

	_, err = svc.AttachDoor(ctx, fp.ID, "conn-1", adjacency.Door{ID: "d1", WallSide: adjacency.WallEast, Position: 0.5, Width: 0.9, Height: 2})
	require.NoError(t, err)

	// сдвиг вдоль общей стены: связь та же, геометрия новая
	got, err := svc.UpdateRoom(ctx, fp.ID, room("R2", 4, 2, 4, 4))
	require.NoError(t, err)
	require.Len(t, got.Connections, 1)
	assert.Equal(t, "conn-1", got.Connections[0].ID)
	assert.Equal(t, []string{"d1"}, got.Connections[0].Doors)
	assert.InDelta(t, 2, got.Connections[0].SharedWallLength, 1e-9)

	// разрыв: связь исчезает, дверь отвязывается
	got, err = svc.UpdateRoom(ctx, fp.ID, room("R2", 4.2, 0, 4, 4))
	require.NoError(t, err)
	assert.Empty(t, got.Connections)
	require.Len(t, got.Doors, 1)
	assert.Empty(t, got.Doors[0].ConnectionID)

	_, err = svc.UpdateRoom(ctx, fp.ID, room("R9", 0, 0, 1, 1))
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestFloorplanService_ManualConnectionSurvivesRecalculation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	fp, err := svc.CreateFloorplan(ctx, "Flat")
	require.NoError(t, err)
	_, err = svc.AddRoom(ctx, fp.ID, room("R1", 0, 0, 4, 4))
	require.NoError(t, err)
	_, err = svc.AddRoom(ctx, fp.ID, room("R2", 10, 0, 4, 4))
	require.NoError(t, err)

	conn, err := svc.AddManualConnection(ctx, fp.ID, "R1", "R2")
	require.NoError(t, err)
	assert.True(t, conn.IsManual)

	again, err := svc.AddManualConnection(ctx, fp.ID, "R2", "R1")
	require.NoError(t, err)
	assert.Equal(t, conn.ID, again.ID)

	got, err := svc.AddRoom(ctx, fp.ID, room("R3", 0, 10, 1, 1))
	require.NoError(t, err)
	require.Len(t, got.Connections, 1)
	assert.Equal(t, conn.ID, got.Connections[0].ID)
	assert.True(t, got.Connections[0].IsManual)

	_, err = svc.AddManualConnection(ctx, fp.ID, "R1", "R1")
	assert.ErrorIs(t, err, graph.ErrSelfConnection)

	_, err = svc.AddManualConnection(ctx, fp.ID, "R1", "R404")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestFloorplanService_DeleteRoomDropsConnectionsAndDoors(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	fp, err := svc.CreateFloorplan(ctx, "Flat")
	require.NoError(t, err)
	for _, r := range []adjacency.Room{room("R1", 0, 0, 4, 4), room("R2", 4, 0, 4, 4), room("R3", 30, 0, 4, 4)} {
		_, err = svc.AddRoom(ctx, fp.ID, r)
		require.NoError(t, err)
	}
	_, err = svc.AddManualConnection(ctx, fp.ID, "R2", "R3")
	require.NoError(t, err)
	_, err = svc.AttachDoor(ctx, fp.ID, "conn-1", adjacency.Door{ID: "d1", RoomID: "R2", Width: 0.9})
	require.NoError(t, err)

	got, err := svc.DeleteRoom(ctx, fp.ID, "R2")
	require.NoError(t, err)
	assert.Len(t, got.Rooms, 2)
	assert.Empty(t, got.Connections)
	assert.Empty(t, got.Doors)

	_, err = svc.DeleteRoom(ctx, fp.ID, "R2")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestFloorplanService_RemoveConnection(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	fp, err := svc.CreateFloorplan(ctx, "Flat")
	require.NoError(t, err)
	_, err = svc.AddRoom(ctx, fp.ID, room("R1", 0, 0, 4, 4))
	require.NoError(t, err)
	_, err = svc.AddRoom(ctx, fp.ID, room("R2", 10, 0, 4, 4))
	require.NoError(t, err)
	conn, err := svc.AddManualConnection(ctx, fp.ID, "R1", "R2")
	require.NoError(t, err)
	_, err = svc.AttachDoor(ctx, fp.ID, conn.ID, adjacency.Door{ID: "d1"})
	require.NoError(t, err)

	require.NoError(t, svc.RemoveConnection(ctx, fp.ID, conn.ID))
	assert.ErrorIs(t, svc.RemoveConnection(ctx, fp.ID, conn.ID), ErrConnectionNotFound)

	got, err := svc.GetFloorplan(ctx, fp.ID)
	require.NoError(t, err)
	assert.Empty(t, got.Connections)
	require.Len(t, got.Doors, 1)
	assert.Empty(t, got.Doors[0].ConnectionID)
}

func TestFloorplanService_AttachDoor(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	fp, err := svc.CreateFloorplan(ctx, "Flat")
	require.NoError(t, err)
	_, err = svc.AddRoom(ctx, fp.ID, room("R1", 0, 0, 4, 4))
	require.NoError(t, err)
	_, err = svc.AddRoom(ctx, fp.ID, room("R2", 4, 0, 4, 4))
	require.NoError(t, err)

	conn, err := svc.AttachDoor(ctx, fp.ID, "conn-1", adjacency.Door{Width: 0.9})
	require.NoError(t, err)
	require.Len(t, conn.Doors, 1)

	got, err := svc.GetFloorplan(ctx, fp.ID)
	require.NoError(t, err)
	require.Len(t, got.Doors, 1)
	assert.Equal(t, conn.Doors[0], got.Doors[0].ID)
	assert.Equal(t, "R1", got.Doors[0].RoomID)
	assert.Equal(t, "conn-1", got.Doors[0].ConnectionID)

	// повторная привязка той же двери не дублирует id
	conn, err = svc.AttachDoor(ctx, fp.ID, "conn-1", got.Doors[0])
	require.NoError(t, err)
	assert.Len(t, conn.Doors, 1)

	_, err = svc.AttachDoor(ctx, fp.ID, "conn-1", adjacency.Door{RoomID: "R7"})
	assert.ErrorIs(t, err, ErrRoomNotFound)
	_, err = svc.AttachDoor(ctx, fp.ID, "nope", adjacency.Door{})
	assert.ErrorIs(t, err, ErrConnectionNotFound)
}

func TestFloorplanService_FindPath(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	fp, err := svc.CreateFloorplan(ctx, "Flat")
	require.NoError(t, err)
	for _, r := range []adjacency.Room{room("A", 0, 0, 4, 4), room("B", 4, 0, 4, 4), room("C", 8, 0, 4, 4), room("D", 30, 0, 4, 4)} {
		_, err = svc.AddRoom(ctx, fp.ID, r)
		require.NoError(t, err)
	}

	res, err := svc.FindPath(ctx, fp.ID, "A", "C")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B", "C"}, res.Path)
	assert.Equal(t, 2, res.Hops)
	assert.InDelta(t, 8, res.Distance, 1e-9)

	res, err = svc.FindPath(ctx, fp.ID, "A", "D")
	require.NoError(t, err)
	assert.Empty(t, res.Path)
	assert.Zero(t, res.Hops)
	assert.Zero(t, res.Distance)

	res, err = svc.FindPath(ctx, fp.ID, "B", "B")
	require.NoError(t, err)
	assert.Equal(t, []string{"B"}, res.Path)
	assert.Zero(t, res.Hops)

	_, err = svc.FindPath(ctx, "missing", "A", "B")
	assert.ErrorIs(t, err, ErrFloorplanNotFound)
}

func TestFloorplanService_Validate(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	fp, err := svc.CreateFloorplan(ctx, "Flat")
	require.NoError(t, err)
	for _, r := range []adjacency.Room{room("A", 0, 0, 4, 4), room("B", 4, 0, 4, 4), room("C", 30, 0, 4, 4)} {
		_, err = svc.AddRoom(ctx, fp.ID, r)
		require.NoError(t, err)
	}

	res, err := svc.Validate(ctx, fp.ID)
	require.NoError(t, err)
	assert.False(t, res.Valid())
	assert.Equal(t, []string{"C"}, res.OrphanRooms)
}

func TestFloorplanService_ListAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	fp, err := svc.CreateFloorplan(ctx, "Flat")
	require.NoError(t, err)

	list, err := svc.ListFloorplans(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "Flat", list[0].Name)

	require.NoError(t, svc.DeleteFloorplan(ctx, fp.ID))
	assert.ErrorIs(t, svc.DeleteFloorplan(ctx, fp.ID), ErrFloorplanNotFound)
	_, err = svc.GetFloorplan(ctx, fp.ID)
	assert.ErrorIs(t, err, ErrFloorplanNotFound)
}
