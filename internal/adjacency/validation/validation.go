package validation

import (
	"sort"

	"github.com/zyedidia/generic/mapset"

	"floorplan/internal/adjacency/geometry"
	"floorplan/internal/adjacency/graph"
	"floorplan/internal/adjacency/models"
)

// ============================================================
// Connection Validation
// ============================================================

const overlapEpsilon = 0.001 // 1 мм: касание стенами не считается наложением

const (
	ReasonConnectionNotFound  = "connection not found"
	ReasonRoomNotInConnection = "door room is not part of connection"
	ReasonWiderThanWall       = "door wider than shared wall"
)

type InvalidDoor struct {
	DoorID string `json:"doorId"`
	Reason string `json:"reason"`
}

type Result struct {
	OrphanRooms      []string      `json:"orphanRooms"`
	UnreachableRooms []string      `json:"unreachableRooms"`
	OverlappingRooms [][2]string   `json:"overlappingRooms"`
	InvalidDoors     []InvalidDoor `json:"invalidDoors"`
}

// Valid сообщает, что ни одна проверка ничего не нашла.
func (r Result) Valid() bool {
	return len(r.OrphanRooms) == 0 && len(r.UnreachableRooms) == 0 &&
		len(r.OverlappingRooms) == 0 && len(r.InvalidDoors) == 0
}

// Validate проверяет связи и взаимное расположение комнат.
func Validate(rooms []models.Room, connections []models.RoomConnection, doors []models.Door) Result {
	return Result{
		OrphanRooms:      OrphanRooms(rooms, connections),
		UnreachableRooms: UnreachableRooms(rooms, connections),
		OverlappingRooms: OverlappingRooms(rooms),
		InvalidDoors:     InvalidDoors(connections, doors),
	}
}

// OrphanRooms комнаты, не входящие ни в одну связь.
func OrphanRooms(rooms []models.Room, connections []models.RoomConnection) []string {
	connected := mapset.New[string]()
	for _, conn := range connections {
		connected.Put(conn.Room1ID)
		connected.Put(conn.Room2ID)
	}

	out := []string{}
	for _, room := range rooms {
		if !connected.Has(room.ID) {
			out = append(out, room.ID)
		}
	}
	return out
}

// UnreachableRooms комнаты вне самой большой компоненты связности.
// При равных размерах главной считается компонента, найденная первой.
func UnreachableRooms(rooms []models.Room, connections []models.RoomConnection) []string {
	out := []string{}
	if len(rooms) < 2 {
		return out
	}

	components := Components(rooms, connections)
	if len(components) < 2 {
		return out
	}

	sort.SliceStable(components, func(i, j int) bool {
		return len(components[i]) > len(components[j])
	})
	for _, component := range components[1:] {
		out = append(out, component...)
	}
	return out
}

// Components делит комнаты на компоненты связности в порядке обхода списка комнат.
func Components(rooms []models.Room, connections []models.RoomConnection) [][]string {
	g := graph.New(connections...)
	visited := mapset.New[string]()
	var components [][]string

	for _, room := range rooms {
		if visited.Has(room.ID) {
			continue
		}
		visited.Put(room.ID)

		component := []string{room.ID}
		queue := []string{room.ID}
		for len(queue) > 0 {
			current := queue[0]
			queue = queue[1:]
			for _, next := range g.AdjacentRoomIDs(current) {
				if visited.Has(next) {
					continue
				}
				visited.Put(next)
				component = append(component, next)
				queue = append(queue, next)
			}
		}
		components = append(components, component)
	}
	return components
}

// OverlappingRooms пары комнат, которые накладываются друг на друга, а не просто касаются.
func OverlappingRooms(rooms []models.Room) [][2]string {
	out := [][2]string{}
	for i := 0; i < len(rooms); i++ {
		for j := i + 1; j < len(rooms); j++ {
			x, z := geometry.OverlapExtent(geometry.Bounds(rooms[i]), geometry.Bounds(rooms[j]))
			if x > overlapEpsilon && z > overlapEpsilon {
				out = append(out, [2]string{rooms[i].ID, rooms[j].ID})
			}
		}
	}
	return out
}

// InvalidDoors двери, привязанные к несуществующей связи или не помещающиеся в общую стену.
// Наружные двери и двери без связи не проверяются; у ручных связей нет длины стены.
func InvalidDoors(connections []models.RoomConnection, doors []models.Door) []InvalidDoor {
	byID := make(map[string]models.RoomConnection, len(connections))
	for _, conn := range connections {
		byID[conn.ID] = conn
	}

	out := []InvalidDoor{}
	for _, door := range doors {
		if door.IsExterior || door.ConnectionID == "" {
			continue
		}
		conn, ok := byID[door.ConnectionID]
		if !ok {
			out = append(out, InvalidDoor{DoorID: door.ID, Reason: ReasonConnectionNotFound})
			continue
		}
		if door.RoomID != "" && !conn.Touches(door.RoomID) {
			out = append(out, InvalidDoor{DoorID: door.ID, Reason: ReasonRoomNotInConnection})
			continue
		}
		if conn.IsManual {
			continue
		}
		if door.Width > conn.SharedWallLength {
			out = append(out, InvalidDoor{DoorID: door.ID, Reason: ReasonWiderThanWall})
		}
	}
	return out
}
