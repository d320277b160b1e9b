package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"floorplan/internal/adjacency/graph"
	adjacency "floorplan/internal/adjacency/models"
	"floorplan/internal/adjacency/pathfinding"
	"floorplan/internal/adjacency/validation"
	"floorplan/internal/planner/models"
	"floorplan/internal/planner/repository"
)

// ============================================================
// Floorplan Service
// ============================================================

var (
	ErrFloorplanNotFound  = errors.New("floorplan not found")
	ErrRoomNotFound       = errors.New("room not found")
	ErrRoomExists         = errors.New("room already exists")
	ErrConnectionNotFound = errors.New("connection not found")
	ErrInvalidRoom        = errors.New("invalid room")
)

type Store interface {
	CreateFloorplan(ctx context.Context, fp *models.Floorplan) error
	GetFloorplan(ctx context.Context, id string) (*models.Floorplan, error)
	SaveFloorplan(ctx context.Context, fp *models.Floorplan) error
	ListFloorplans(ctx context.Context) ([]models.FloorplanSummary, error)
	DeleteFloorplan(ctx context.Context, id string) error
}

// FloorplanService хранит планы и пересчитывает связи после каждого изменения геометрии.
// Изменения сериализуются мьютексом.
type FloorplanService struct {
	mu      sync.Mutex
	store   Store
	builder *graph.GraphBuilder
	now     func() time.Time
}

func NewFloorplanService(store Store, builder *graph.GraphBuilder) *FloorplanService {
	if builder == nil {
		builder = graph.NewGraphBuilder()
	}
	return &FloorplanService{
		store:   store,
		builder: builder,
		now:     time.Now,
	}
}

func (s *FloorplanService) CreateFloorplan(ctx context.Context, name string) (*models.Floorplan, error) {
	now := s.now()
	fp := &models.Floorplan{
		ID:          uuid.NewString(),
		Name:        name,
		Rooms:       []adjacency.Room{},
		Doors:       []adjacency.Door{},
		Connections: []adjacency.RoomConnection{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.store.CreateFloorplan(ctx, fp); err != nil {
		return nil, fmt.Errorf("create floorplan: %w", err)
	}
	log.Printf("[PLANNER] Floorplan created: %s", fp.ID)
	return fp, nil
}

func (s *FloorplanService) GetFloorplan(ctx context.Context, id string) (*models.Floorplan, error) {
	return s.load(ctx, id)
}

func (s *FloorplanService) ListFloorplans(ctx context.Context) ([]models.FloorplanSummary, error) {
	return s.store.ListFloorplans(ctx)
}

func (s *FloorplanService) DeleteFloorplan(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.store.DeleteFloorplan(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrFloorplanNotFound
		}
		return err
	}
	return nil
}

// ============================================================
// Rooms
// ============================================================

func (s *FloorplanService) AddRoom(ctx context.Context, floorplanID string, room adjacency.Room) (*models.Floorplan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if room.ID == "" {
		room.ID = uuid.NewString()
	}
	if err := room.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoom, err)
	}

	fp, err := s.load(ctx, floorplanID)
	if err != nil {
		return nil, err
	}
	if fp.RoomIndex(room.ID) >= 0 {
		return nil, fmt.Errorf("%w: %s", ErrRoomExists, room.ID)
	}

	fp.Rooms = append(fp.Rooms, room)
	return fp, s.recalculateAndSave(ctx, fp)
}

func (s *FloorplanService) UpdateRoom(ctx context.Context, floorplanID string, room adjacency.Room) (*models.Floorplan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := room.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidRoom, err)
	}

	fp, err := s.load(ctx, floorplanID)
	if err != nil {
		return nil, err
	}
	idx := fp.RoomIndex(room.ID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, room.ID)
	}

	fp.Rooms[idx] = room
	return fp, s.recalculateAndSave(ctx, fp)
}

// DeleteRoom удаляет комнату, ее двери и все связи с ней, включая ручные.
func (s *FloorplanService) DeleteRoom(ctx context.Context, floorplanID, roomID string) (*models.Floorplan, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fp, err := s.load(ctx, floorplanID)
	if err != nil {
		return nil, err
	}
	idx := fp.RoomIndex(roomID)
	if idx < 0 {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}

	fp.Rooms = slices.Delete(fp.Rooms, idx, idx+1)
	fp.Doors = slices.DeleteFunc(fp.Doors, func(d adjacency.Door) bool { return d.RoomID == roomID })
	fp.Connections = graph.RemoveRoomConnections(fp.Connections, roomID)
	return fp, s.recalculateAndSave(ctx, fp)
}

// ============================================================
// Connections
// ============================================================

// AddManualConnection соединяет комнаты вручную. Если связь для пары уже есть, возвращается она.
func (s *FloorplanService) AddManualConnection(ctx context.Context, floorplanID, room1ID, room2ID string) (adjacency.RoomConnection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fp, err := s.load(ctx, floorplanID)
	if err != nil {
		return adjacency.RoomConnection{}, err
	}
	for _, id := range []string{room1ID, room2ID} {
		if fp.RoomIndex(id) < 0 {
			return adjacency.RoomConnection{}, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
		}
	}

	if existing, ok := graph.New(fp.Connections...).Connection(room1ID, room2ID); ok {
		return existing, nil
	}

	conn, err := s.builder.ManualConnection(room1ID, room2ID)
	if err != nil {
		return adjacency.RoomConnection{}, err
	}
	fp.Connections = append(fp.Connections, conn)
	if err := s.save(ctx, fp); err != nil {
		return adjacency.RoomConnection{}, err
	}
	log.Printf("[PLANNER] Manual connection %s: %s <-> %s", conn.ID, room1ID, room2ID)
	return conn, nil
}

// RemoveConnection удаляет связь и отвязывает ее двери.
func (s *FloorplanService) RemoveConnection(ctx context.Context, floorplanID, connID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	fp, err := s.load(ctx, floorplanID)
	if err != nil {
		return err
	}
	idx := fp.ConnectionIndex(connID)
	if idx < 0 {
		return fmt.Errorf("%w: %s", ErrConnectionNotFound, connID)
	}

	fp.Connections = slices.Delete(fp.Connections, idx, idx+1)
	detachDoors(fp)
	return s.save(ctx, fp)
}

// AttachDoor добавляет дверь (или заменяет дверь с тем же id) и привязывает ее к связи.
func (s *FloorplanService) AttachDoor(ctx context.Context, floorplanID, connID string, door adjacency.Door) (adjacency.RoomConnection, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fp, err := s.load(ctx, floorplanID)
	if err != nil {
		return adjacency.RoomConnection{}, err
	}
	idx := fp.ConnectionIndex(connID)
	if idx < 0 {
		return adjacency.RoomConnection{}, fmt.Errorf("%w: %s", ErrConnectionNotFound, connID)
	}
	conn := fp.Connections[idx]
	if door.RoomID == "" {
		door.RoomID = conn.Room1ID
	}
	if !conn.Touches(door.RoomID) {
		return adjacency.RoomConnection{}, fmt.Errorf("%w: %s is not part of connection %s", ErrRoomNotFound, door.RoomID, connID)
	}
	if door.ID == "" {
		door.ID = uuid.NewString()
	}
	door.ConnectionID = connID
	door.IsExterior = false

	for i := range fp.Connections {
		fp.Connections[i].Doors = slices.DeleteFunc(fp.Connections[i].Doors, func(id string) bool { return id == door.ID })
	}
	fp.Connections[idx].Doors = append(fp.Connections[idx].Doors, door.ID)

	if i := slices.IndexFunc(fp.Doors, func(d adjacency.Door) bool { return d.ID == door.ID }); i >= 0 {
		fp.Doors[i] = door
	} else {
		fp.Doors = append(fp.Doors, door)
	}

	if err := s.save(ctx, fp); err != nil {
		return adjacency.RoomConnection{}, err
	}
	return fp.Connections[idx], nil
}

// ============================================================
// Queries
// ============================================================

type PathResult struct {
	Path     []string `json:"path"`
	Hops     int      `json:"hops"`
	Distance float64  `json:"distance"`
}

func (s *FloorplanService) FindPath(ctx context.Context, floorplanID, fromRoomID, toRoomID string) (PathResult, error) {
	fp, err := s.load(ctx, floorplanID)
	if err != nil {
		return PathResult{}, err
	}
	path := pathfinding.FindPath(fromRoomID, toRoomID, fp.Connections)
	distance, err := pathfinding.PathDistance(path, fp.Rooms)
	if err != nil {
		return PathResult{}, err
	}
	return PathResult{Path: path, Hops: max(len(path)-1, 0), Distance: distance}, nil
}

func (s *FloorplanService) Validate(ctx context.Context, floorplanID string) (validation.Result, error) {
	fp, err := s.load(ctx, floorplanID)
	if err != nil {
		return validation.Result{}, err
	}
	return validation.Validate(fp.Rooms, fp.Connections, fp.Doors), nil
}

// ============================================================
// Helpers
// ============================================================

func (s *FloorplanService) load(ctx context.Context, id string) (*models.Floorplan, error) {
	fp, err := s.store.GetFloorplan(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%w: %s", ErrFloorplanNotFound, id)
		}
		return nil, fmt.Errorf("load floorplan: %w", err)
	}
	return fp, nil
}

func (s *FloorplanService) recalculateAndSave(ctx context.Context, fp *models.Floorplan) error {
	before := len(fp.Connections)
	fp.Connections = s.builder.Recalculate(fp.Rooms, fp.Connections)
	detachDoors(fp)
	log.Printf("[ADJACENCY] Floorplan %s: %d rooms, connections %d -> %d",
		fp.ID, len(fp.Rooms), before, len(fp.Connections))
	return s.save(ctx, fp)
}

func (s *FloorplanService) save(ctx context.Context, fp *models.Floorplan) error {
	fp.UpdatedAt = s.now()
	if err := s.store.SaveFloorplan(ctx, fp); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("%w: %s", ErrFloorplanNotFound, fp.ID)
		}
		return fmt.Errorf("save floorplan: %w", err)
	}
	return nil
}

// detachDoors отвязывает двери, чья связь исчезла.
func detachDoors(fp *models.Floorplan) {
	alive := make(map[string]struct{}, len(fp.Connections))
	for _, conn := range fp.Connections {
		alive[conn.ID] = struct{}{}
	}
	for i, door := range fp.Doors {
		if door.ConnectionID == "" {
			continue
		}
		if _, ok := alive[door.ConnectionID]; !ok {
			fp.Doors[i].ConnectionID = ""
		}
	}
}
