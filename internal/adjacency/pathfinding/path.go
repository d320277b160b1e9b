package pathfinding

import (
	"errors"
	"fmt"

	"github.com/zyedidia/generic/mapset"

	"floorplan/internal/adjacency/geometry"
	"floorplan/internal/adjacency/graph"
	"floorplan/internal/adjacency/models"
)

// ============================================================
// Pathfinding
// ============================================================

var ErrRoomNotFound = errors.New("room not found")

// FindPath ищет кратчайший по числу переходов путь между комнатами (BFS).
// Возвращает id комнат от start до end включительно, пустой список если пути нет.
func FindPath(startRoomID, endRoomID string, connections []models.RoomConnection) []string {
	return ShortestPath(graph.New(connections...), startRoomID, endRoomID)
}

// ShortestPath то же, что FindPath, но по уже построенному графу.
func ShortestPath(g *graph.AdjacencyGraph, startRoomID, endRoomID string) []string {
	if startRoomID == endRoomID {
		return []string{startRoomID}
	}

	queue := [][]string{{startRoomID}}
	visited := mapset.New[string]()
	visited.Put(startRoomID)

	for len(queue) > 0 {
		path := queue[0]
		queue = queue[1:]

		current := path[len(path)-1]
		if current == endRoomID {
			return path
		}

		for _, next := range g.AdjacentRoomIDs(current) {
			if visited.Has(next) {
				continue
			}
			visited.Put(next)

			step := make([]string, len(path)+1)
			copy(step, path)
			step[len(path)] = next
			queue = append(queue, step)
		}
	}

	return []string{}
}

// PathDistance суммирует расстояния между центрами соседних комнат пути.
// Комната пути, которой нет в rooms, это ошибка вызывающего кода.
func PathDistance(path []string, rooms []models.Room) (float64, error) {
	if len(path) < 2 {
		return 0, nil
	}

	byID := make(map[string]models.Room, len(rooms))
	for _, room := range rooms {
		byID[room.ID] = room
	}

	centers := make([]models.Position2D, len(path))
	for i, id := range path {
		room, ok := byID[id]
		if !ok {
			return 0, fmt.Errorf("path distance: %w: %s", ErrRoomNotFound, id)
		}
		centers[i] = geometry.Center(room)
	}

	total := 0.0
	for i := 1; i < len(centers); i++ {
		total += geometry.Distance(centers[i-1], centers[i])
	}
	return total, nil
}
