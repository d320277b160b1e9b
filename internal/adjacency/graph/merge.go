package graph

import (
	"github.com/zyedidia/generic/mapset"

	"floorplan/internal/adjacency/models"
)

// ============================================================
// Merge
// ============================================================

// MergeConnections сопоставляет свежие связи с предыдущими по паре комнат.
//
// Совпавшая связь получает id и двери предыдущей, геометрию свежей и теряет флаг isManual.
// Ручные связи без совпадения переносятся как есть, если обе комнаты еще существуют.
// Все остальные предыдущие связи отбрасываются. Порядок: сначала свежие, затем ручные.
func MergeConnections(fresh, previous []models.RoomConnection, rooms []models.Room) []models.RoomConnection {
	existing := mapset.New[string]()
	for _, room := range rooms {
		existing.Put(room.ID)
	}

	byPair := make(map[string]models.RoomConnection, len(previous))
	for _, conn := range previous {
		key := models.PairKey(conn.Room1ID, conn.Room2ID)
		if _, ok := byPair[key]; !ok {
			byPair[key] = conn
		}
	}

	covered := mapset.New[string]()
	merged := make([]models.RoomConnection, 0, len(fresh)+len(previous))

	for _, conn := range fresh {
		key := models.PairKey(conn.Room1ID, conn.Room2ID)
		out := conn.Clone()
		if old, ok := byPair[key]; ok {
			out.ID = old.ID
			out.Doors = old.Clone().Doors
		}
		out.IsManual = false
		covered.Put(key)
		merged = append(merged, out)
	}

	for _, conn := range previous {
		if !conn.IsManual {
			continue
		}
		key := models.PairKey(conn.Room1ID, conn.Room2ID)
		if covered.Has(key) {
			continue
		}
		if !existing.Has(conn.Room1ID) || !existing.Has(conn.Room2ID) {
			continue
		}
		covered.Put(key)
		merged = append(merged, conn.Clone())
	}

	return merged
}

// RemoveRoomConnections убирает все связи, касающиеся комнаты.
func RemoveRoomConnections(conns []models.RoomConnection, roomID string) []models.RoomConnection {
	out := make([]models.RoomConnection, 0, len(conns))
	for _, conn := range conns {
		if conn.Touches(roomID) {
			continue
		}
		out = append(out, conn.Clone())
	}
	return out
}
