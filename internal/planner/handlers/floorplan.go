package handlers

import (
	"context"
	"errors"
	"log"
	"net/http"

	"github.com/gofiber/fiber/v3"

	"floorplan/internal/adjacency/graph"
	"floorplan/internal/adjacency/models"
	"floorplan/internal/adjacency/pathfinding"
	"floorplan/internal/planner/render"
	"floorplan/internal/planner/service"
)

// ============================================================
// Floorplan Handler
// ============================================================

type FloorplanHandler struct {
	svc *service.FloorplanService
}

func NewFloorplanHandler(svc *service.FloorplanService) *FloorplanHandler {
	return &FloorplanHandler{svc: svc}
}

type createFloorplanRequest struct {
	Name string `json:"name"`
}

type manualConnectionRequest struct {
	Room1ID string `json:"room1Id"`
	Room2ID string `json:"room2Id"`
}

func (h *FloorplanHandler) List(c fiber.Ctx) error {
	list, err := h.svc.ListFloorplans(context.Background())
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(list)
}

func (h *FloorplanHandler) Create(c fiber.Ctx) error {
	var req createFloorplanRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err)
	}
	if req.Name == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "name required"})
	}

	fp, err := h.svc.CreateFloorplan(context.Background(), req.Name)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fp)
}

func (h *FloorplanHandler) Get(c fiber.Ctx) error {
	fp, err := h.svc.GetFloorplan(context.Background(), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fp)
}

func (h *FloorplanHandler) Delete(c fiber.Ctx) error {
	if err := h.svc.DeleteFloorplan(context.Background(), c.Params("id")); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

// ============================================================
// Rooms
// ============================================================

func (h *FloorplanHandler) AddRoom(c fiber.Ctx) error {
	var room models.Room
	if err := decodeBody(c, &room); err != nil {
		return badRequest(c, err)
	}

	fp, err := h.svc.AddRoom(context.Background(), c.Params("id"), room)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(fp)
}

// UpdateRoom заменяет комнату; id берется из пути.
func (h *FloorplanHandler) UpdateRoom(c fiber.Ctx) error {
	var room models.Room
	if err := decodeBody(c, &room); err != nil {
		return badRequest(c, err)
	}
	room.ID = c.Params("roomId")

	fp, err := h.svc.UpdateRoom(context.Background(), c.Params("id"), room)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fp)
}

func (h *FloorplanHandler) DeleteRoom(c fiber.Ctx) error {
	fp, err := h.svc.DeleteRoom(context.Background(), c.Params("id"), c.Params("roomId"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(fp)
}

// ============================================================
// Connections & doors
// ============================================================

func (h *FloorplanHandler) AddConnection(c fiber.Ctx) error {
	var req manualConnectionRequest
	if err := decodeBody(c, &req); err != nil {
		return badRequest(c, err)
	}

	conn, err := h.svc.AddManualConnection(context.Background(), c.Params("id"), req.Room1ID, req.Room2ID)
	if err != nil {
		return serviceError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(conn)
}

func (h *FloorplanHandler) RemoveConnection(c fiber.Ctx) error {
	if err := h.svc.RemoveConnection(context.Background(), c.Params("id"), c.Params("connId")); err != nil {
		return serviceError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}

func (h *FloorplanHandler) AttachDoor(c fiber.Ctx) error {
	var door models.Door
	if err := decodeBody(c, &door); err != nil {
		return badRequest(c, err)
	}

	conn, err := h.svc.AttachDoor(context.Background(), c.Params("id"), c.Params("connId"), door)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(conn)
}

// ============================================================
// Queries
// ============================================================

// Path ищет путь между комнатами: GET /floorplans/:id/path?from=..&to=..
func (h *FloorplanHandler) Path(c fiber.Ctx) error {
	from, to := c.Query("from"), c.Query("to")
	if from == "" || to == "" {
		return c.Status(http.StatusBadRequest).JSON(fiber.Map{"error": "from and to required"})
	}

	res, err := h.svc.FindPath(context.Background(), c.Params("id"), from, to)
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(res)
}

func (h *FloorplanHandler) Validate(c fiber.Ctx) error {
	res, err := h.svc.Validate(context.Background(), c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}
	return c.JSON(res)
}

// SVG рисует план; при заданных from и to подсвечивает путь.
func (h *FloorplanHandler) SVG(c fiber.Ctx) error {
	ctx := context.Background()
	fp, err := h.svc.GetFloorplan(ctx, c.Params("id"))
	if err != nil {
		return serviceError(c, err)
	}

	scene := render.Scene{Rooms: fp.Rooms, Connections: fp.Connections, Doors: fp.Doors}
	if from, to := c.Query("from"), c.Query("to"); from != "" && to != "" {
		scene.Path = pathfinding.FindPath(from, to, fp.Connections)
	}

	svg, err := render.NewRenderer().Render(scene)
	if err != nil {
		if errors.Is(err, render.ErrEmptyScene) {
			return badRequest(c, err)
		}
		return serviceError(c, err)
	}

	c.Set("Content-Type", "image/svg+xml")
	return c.SendString(svg)
}

// ============================================================
// Error mapping
// ============================================================

func serviceError(c fiber.Ctx, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrFloorplanNotFound),
		errors.Is(err, service.ErrRoomNotFound),
		errors.Is(err, service.ErrConnectionNotFound),
		errors.Is(err, pathfinding.ErrRoomNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrRoomExists):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidRoom),
		errors.Is(err, graph.ErrSelfConnection):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		log.Printf("[PLANNER] Internal error: %v", err)
	}
	return c.Status(status).JSON(fiber.Map{"error": err.Error()})
}
