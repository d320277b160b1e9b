package handlers

import (
	"github.com/gofiber/fiber/v3"
)

// ============================================================
// Routes
// ============================================================

// RegisterRoutes вешает все маршруты планировщика на приложение.
func RegisterRoutes(app *fiber.App, health *HealthHandler, adjacency *AdjacencyHandler, floorplans *FloorplanHandler) {
	app.Get("/health/live", health.LivenessProbe)
	app.Get("/health/ready", health.ReadinessProbe)

	api := app.Group("/api/v1")

	adj := api.Group("/adjacency")
	adj.Post("/detect", adjacency.Detect)
	adj.Post("/connections", adjacency.Connections)
	adj.Post("/merge", adjacency.Merge)
	adj.Post("/path", adjacency.Path)
	adj.Post("/distance", adjacency.Distance)
	adj.Post("/validate", adjacency.Validate)
	adj.Post("/render", adjacency.Render)

	fp := api.Group("/floorplans")
	fp.Get("/", floorplans.List)
	fp.Post("/", floorplans.Create)
	fp.Get("/:id", floorplans.Get)
	fp.Delete("/:id", floorplans.Delete)

	fp.Post("/:id/rooms", floorplans.AddRoom)
	fp.Put("/:id/rooms/:roomId", floorplans.UpdateRoom)
	fp.Delete("/:id/rooms/:roomId", floorplans.DeleteRoom)

	fp.Post("/:id/connections", floorplans.AddConnection)
	fp.Delete("/:id/connections/:connId", floorplans.RemoveConnection)
	fp.Post("/:id/connections/:connId/doors", floorplans.AttachDoor)

	fp.Get("/:id/path", floorplans.Path)
	fp.Get("/:id/validate", floorplans.Validate)
	fp.Get("/:id/svg", floorplans.SVG)
}
