package render

import (
	"errors"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	"floorplan/internal/adjacency/geometry"
	"floorplan/internal/adjacency/models"
)

// ============================================================
// SVG Renderer
// ============================================================

const (
	DefaultScale   = 50.0 // пикселей на метр
	DefaultPadding = 20.0
)

var ErrEmptyScene = errors.New("scene has no rooms")

// Scene то, что рисуется: комнаты, связи между ними, двери и подсвеченный путь.
type Scene struct {
	Rooms       []models.Room           `json:"rooms"`
	Connections []models.RoomConnection `json:"connections"`
	Doors       []models.Door           `json:"doors"`
	Path        []string                `json:"path"`
}

type Renderer struct {
	scale   float64
	padding float64
}

func NewRenderer() *Renderer {
	return &Renderer{scale: DefaultScale, padding: DefaultPadding}
}

// SetScale задает масштаб в пикселях на метр (неположительное значение возвращает масштаб по умолчанию).
func (r *Renderer) SetScale(scale float64) {
	if scale <= 0 {
		scale = DefaultScale
	}
	r.scale = scale
}

// Render собирает SVG: комнаты, линии связей между центрами, двери и путь поверх всего.
func (r *Renderer) Render(scene Scene) (string, error) {
	if len(scene.Rooms) == 0 {
		return "", ErrEmptyScene
	}

	origin, width, height := r.frame(scene.Rooms)
	p := projector{origin: origin, scale: r.scale, padding: r.padding}

	byID := make(map[string]models.Room, len(scene.Rooms))
	for _, room := range scene.Rooms {
		byID[room.ID] = room
	}

	var elements []string
	elements = append(elements, r.renderRooms(scene.Rooms, p)...)
	elements = append(elements, r.renderConnections(scene.Connections, byID, p)...)
	elements = append(elements, r.renderDoors(scene.Doors, byID, p)...)
	if path := r.renderPath(scene.Path, byID, p); path != "" {
		elements = append(elements, path)
	}

	var builder strings.Builder
	builder.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	builder.WriteString(fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		formatFloat(width), formatFloat(height), formatFloat(width), formatFloat(height)))
	builder.WriteString("\n")

	for _, elem := range elements {
		builder.WriteString("  ")
		builder.WriteString(elem)
		builder.WriteString("\n")
	}

	builder.WriteString(`</svg>`)
	return builder.String(), nil
}

// ============================================================
// Sizing
// ============================================================

type projector struct {
	origin  models.Position2D
	scale   float64
	padding float64
}

func (p projector) point(pos models.Position2D) (float64, float64) {
	return (pos.X-p.origin.X)*p.scale + p.padding, (pos.Z-p.origin.Z)*p.scale + p.padding
}

func (r *Renderer) frame(rooms []models.Room) (models.Position2D, float64, float64) {
	minX, minZ := math.MaxFloat64, math.MaxFloat64
	maxX, maxZ := -math.MaxFloat64, -math.MaxFloat64

	for _, room := range rooms {
		b := geometry.Bounds(room)
		minX = math.Min(minX, b.MinX)
		minZ = math.Min(minZ, b.MinZ)
		maxX = math.Max(maxX, b.MaxX)
		maxZ = math.Max(maxZ, b.MaxZ)
	}

	width := (maxX-minX)*r.scale + 2*r.padding
	height := (maxZ-minZ)*r.scale + 2*r.padding
	return models.Position2D{X: minX, Z: minZ}, width, height
}

// ============================================================
// Element renderers
// ============================================================

func (r *Renderer) renderRooms(rooms []models.Room, p projector) []string {
	var out []string

	for _, room := range rooms {
		b := geometry.Bounds(room)
		x, y := p.point(models.Position2D{X: b.MinX, Z: b.MinZ})
		w := (b.MaxX - b.MinX) * p.scale
		h := (b.MaxZ - b.MinZ) * p.scale

		out = append(out, fmt.Sprintf(`<rect id="room-%s" x="%s" y="%s" width="%s" height="%s" fill="none" stroke="#000" />`,
			html.EscapeString(room.ID), formatFloat(x), formatFloat(y), formatFloat(w), formatFloat(h)))

		label := room.Name
		if label == "" {
			label = room.ID
		}
		cx, cy := p.point(geometry.Center(room))
		out = append(out, fmt.Sprintf(`<text x="%s" y="%s" font-size="12" text-anchor="middle">%s</text>`,
			formatFloat(cx), formatFloat(cy), html.EscapeString(label)))
	}

	return out
}

func (r *Renderer) renderConnections(conns []models.RoomConnection, rooms map[string]models.Room, p projector) []string {
	var out []string

	for _, conn := range conns {
		a, ok1 := rooms[conn.Room1ID]
		b, ok2 := rooms[conn.Room2ID]
		if !ok1 || !ok2 {
			continue
		}

		x1, y1 := p.point(geometry.Center(a))
		x2, y2 := p.point(geometry.Center(b))

		style := `stroke="#1f77b4"`
		if conn.IsManual {
			style = `stroke="#ff7f0e" stroke-dasharray="4 2"`
		}

		out = append(out, fmt.Sprintf(`<line id="conn-%s" x1="%s" y1="%s" x2="%s" y2="%s" %s />`,
			html.EscapeString(conn.ID), formatFloat(x1), formatFloat(y1), formatFloat(x2), formatFloat(y2), style))
	}

	return out
}

func (r *Renderer) renderDoors(doors []models.Door, rooms map[string]models.Room, p projector) []string {
	var out []string

	for _, door := range doors {
		room, ok := rooms[door.RoomID]
		if !ok {
			continue
		}

		for _, wall := range geometry.WallSegments(room) {
			if wall.WallSide != door.WallSide {
				continue
			}
			t := geometry.Clamp(door.Position, 0, 1)
			pos := models.Position2D{
				X: wall.From.X + (wall.To.X-wall.From.X)*t,
				Z: wall.From.Z + (wall.To.Z-wall.From.Z)*t,
			}
			x, y := p.point(pos)

			fill := "#d62728"
			if door.IsExterior {
				fill = "#8c564b"
			}
			out = append(out, fmt.Sprintf(`<circle id="door-%s" cx="%s" cy="%s" r="4" fill="%s" />`,
				html.EscapeString(door.ID), formatFloat(x), formatFloat(y), fill))
			break
		}
	}

	return out
}

func (r *Renderer) renderPath(path []string, rooms map[string]models.Room, p projector) string {
	if len(path) < 2 {
		return ""
	}

	points := make([]string, 0, len(path))
	for _, id := range path {
		room, ok := rooms[id]
		if !ok {
			continue
		}
		x, y := p.point(geometry.Center(room))
		points = append(points, formatFloat(x)+","+formatFloat(y))
	}
	if len(points) < 2 {
		return ""
	}

	return fmt.Sprintf(`<polyline id="path" points="%s" fill="none" stroke="#2ca02c" stroke-width="3" />`,
		strings.Join(points, " "))
}

// ============================================================
// Formatting helpers
// ============================================================

func formatFloat(val float64) string {
	return strconv.FormatFloat(val, 'f', -1, 64)
}
