package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"floorplan/internal/adjacency/detection"
	"floorplan/internal/adjacency/graph"
	"floorplan/internal/adjacency/models"
	"floorplan/internal/adjacency/pathfinding"
	"floorplan/internal/adjacency/validation"
	"floorplan/internal/planner/render"
)

// ============================================================
// Adjacency Handler (stateless)
// ============================================================

// AdjacencyHandler считает смежность по присланным комнатам, ничего не сохраняя.
type AdjacencyHandler struct {
	builder *graph.GraphBuilder
}

func NewAdjacencyHandler(builder *graph.GraphBuilder) *AdjacencyHandler {
	if builder == nil {
		builder = graph.NewGraphBuilder()
	}
	return &AdjacencyHandler{builder: builder}
}

type detectRequest struct {
	Room1 models.Room `json:"room1"`
	Room2 models.Room `json:"room2"`
}

type layoutRequest struct {
	Rooms       []models.Room           `json:"rooms"`
	Connections []models.RoomConnection `json:"connections"`
	Doors       []models.Door           `json:"doors"`
}

type pathRequest struct {
	From        string                  `json:"from"`
	To          string                  `json:"to"`
	Rooms       []models.Room           `json:"rooms"`
	Connections []models.RoomConnection `json:"connections"`
}

type distanceRequest struct {
	Path  []string      `json:"path"`
	Rooms []models.Room `json:"rooms"`
}

// Detect проверяет пару комнат.
func (h *AdjacencyHandler) Detect(c fiber.Ctx) error {
	var req detectRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	info := detection.DetectAdjacency(req.Room1, req.Room2)
	return c.JSON(fiber.Map{
		"adjacent": info != nil,
		"info":     info,
	})
}

// Connections строит все связи с нуля.
func (h *AdjacencyHandler) Connections(c fiber.Ctx) error {
	var req layoutRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err)
	}
	if err := validateRooms(req.Rooms); err != nil {
		return badRequest(c, err)
	}

	conns := h.builder.CalculateAllConnections(req.Rooms)
	log.Printf("[ADJACENCY] %d rooms -> %d connections", len(req.Rooms), len(conns))
	return c.JSON(fiber.Map{"connections": conns})
}

// Merge пересчитывает связи и сливает их с присланными, сохраняя id и двери.
func (h *AdjacencyHandler) Merge(c fiber.Ctx) error {
	var req layoutRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err)
	}
	if err := validateRooms(req.Rooms); err != nil {
		return badRequest(c, err)
	}

	conns := h.builder.Recalculate(req.Rooms, req.Connections)
	log.Printf("[ADJACENCY] merge: %d previous -> %d connections", len(req.Connections), len(conns))
	return c.JSON(fiber.Map{"connections": conns})
}

func (h *AdjacencyHandler) Path(c fiber.Ctx) error {
	var req pathRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err)
	}
	if req.From == "" || req.To == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "from and to required"})
	}

	path := pathfinding.FindPath(req.From, req.To, req.Connections)
	distance, err := pathfinding.PathDistance(path, req.Rooms)
	if err != nil {
		return badRequest(c, err)
	}

	return c.JSON(fiber.Map{
		"path":     path,
		"hops":     max(len(path)-1, 0),
		"distance": distance,
	})
}

func (h *AdjacencyHandler) Distance(c fiber.Ctx) error {
	var req distanceRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	distance, err := pathfinding.PathDistance(req.Path, req.Rooms)
	if err != nil {
		return badRequest(c, err)
	}
	return c.JSON(fiber.Map{"distance": distance})
}

func (h *AdjacencyHandler) Validate(c fiber.Ctx) error {
	var req layoutRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err)
	}
	return c.JSON(validation.Validate(req.Rooms, req.Connections, req.Doors))
}

// Render рисует присланную сцену в SVG.
func (h *AdjacencyHandler) Render(c fiber.Ctx) error {
	var scene render.Scene
	if err := decodeBody(c, &scene); err != nil {
		return badRequest(c, err)
	}

	svg, err := render.NewRenderer().Render(scene)
	if err != nil {
		log.Printf("[RENDER] Render error: %v", err)
		if errors.Is(err, render.ErrEmptyScene) {
			return badRequest(c, err)
		}
		return c.Status(http.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// ============================================================
// Helpers
// ============================================================

var (
	errEmptyBody   = errors.New("body required")
	errInvalidJSON = errors.New("invalid JSON payload")
)

func decodeBody(c fiber.Ctx, dst any) error {
	if len(c.Body()) == 0 {
		return errEmptyBody
	}
	if err := json.Unmarshal(c.Body(), dst); err != nil {
		log.Printf("[PLANNER] Decode error: %v", err)
		return errInvalidJSON
	}
	return nil
}

func badRequest(c fiber.Ctx, err error) error {
	return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
}

func validateRooms(rooms []models.Room) error {
	for _, room := range rooms {
		if err := room.Validate(); err != nil {
			return err
		}
	}
	return nil
}
