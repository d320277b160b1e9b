package graph

import (
	"slices"

	"floorplan/internal/adjacency/models"
)

// ============================================================
// Adjacency Graph
// ============================================================

// AdjacencyGraph индекс связей по комнатам. Связи хранятся один раз по id,
// а для каждой комнаты хранится список id связей, в которых она участвует.
// Не потокобезопасен: одновременные изменения должен сериализовать вызывающий код.
type AdjacencyGraph struct {
	connections map[string]models.RoomConnection
	order       []string
	rooms       map[string][]string
}

// New создает граф и сразу индексирует переданные связи.
func New(initial ...models.RoomConnection) *AdjacencyGraph {
	g := &AdjacencyGraph{
		connections: make(map[string]models.RoomConnection),
		rooms:       make(map[string][]string),
	}
	for _, conn := range initial {
		g.AddConnection(conn)
	}
	return g
}

// AddConnection добавляет связь в списки обеих комнат. Повторное добавление id ничего не меняет.
func (g *AdjacencyGraph) AddConnection(conn models.RoomConnection) {
	if _, ok := g.connections[conn.ID]; ok {
		return
	}
	g.connections[conn.ID] = conn.Clone()
	g.order = append(g.order, conn.ID)
	g.attach(conn.Room1ID, conn.ID)
	g.attach(conn.Room2ID, conn.ID)
}

func (g *AdjacencyGraph) attach(roomID, connID string) {
	list := g.rooms[roomID]
	if !contains(list, connID) {
		g.rooms[roomID] = append(list, connID)
	}
}

// RemoveConnection убирает связь из всех комнат. Возвращает false, если связи не было.
func (g *AdjacencyGraph) RemoveConnection(connID string) bool {
	if _, ok := g.connections[connID]; !ok {
		return false
	}
	delete(g.connections, connID)
	g.order = slices.DeleteFunc(g.order, func(id string) bool { return id == connID })

	for roomID, list := range g.rooms {
		next := slices.DeleteFunc(list, func(id string) bool { return id == connID })
		if len(next) == 0 {
			delete(g.rooms, roomID)
			continue
		}
		g.rooms[roomID] = next
	}
	return true
}

// ConnectionsForRoom возвращает связи комнаты; пустой список для неизвестной комнаты.
func (g *AdjacencyGraph) ConnectionsForRoom(roomID string) []models.RoomConnection {
	ids := g.rooms[roomID]
	out := make([]models.RoomConnection, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.connections[id].Clone())
	}
	return out
}

// Connection ищет связь между двумя комнатами независимо от порядка аргументов.
func (g *AdjacencyGraph) Connection(room1ID, room2ID string) (models.RoomConnection, bool) {
	for _, id := range g.rooms[room1ID] {
		conn := g.connections[id]
		if conn.Connects(room1ID, room2ID) {
			return conn.Clone(), true
		}
	}
	return models.RoomConnection{}, false
}

// AllConnections возвращает каждую связь один раз, в порядке добавления.
func (g *AdjacencyGraph) AllConnections() []models.RoomConnection {
	out := make([]models.RoomConnection, 0, len(g.order))
	for _, id := range g.order {
		out = append(out, g.connections[id].Clone())
	}
	return out
}

// AdjacentRoomIDs возвращает комнаты на другом конце каждой связи комнаты.
func (g *AdjacencyGraph) AdjacentRoomIDs(roomID string) []string {
	ids := g.rooms[roomID]
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, g.connections[id].Other(roomID))
	}
	return out
}

func (g *AdjacencyGraph) Len() int {
	return len(g.connections)
}

func (g *AdjacencyGraph) Clear() {
	clear(g.connections)
	clear(g.rooms)
	g.order = g.order[:0]
}

// ============================================================
// Helpers
// ============================================================

func contains(list []string, target string) bool {
	for _, item := range list {
		if item == target {
			return true
		}
	}
	return false
}
