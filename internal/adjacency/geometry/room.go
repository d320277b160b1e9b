package geometry

import (
	"math"

	"floorplan/internal/adjacency/models"
)

// ============================================================
// Room geometry
// ============================================================

// Extent возвращает размеры комнаты по мировым осям X и Z с учетом поворота.
func Extent(room models.Room) (float64, float64) {
	if room.Rotation.SwapsAxes() {
		return room.Width, room.Length
	}
	return room.Length, room.Width
}

// Bounds возвращает ограничивающий прямоугольник комнаты.
func Bounds(room models.Room) models.BoundingBox {
	dx, dz := Extent(room)
	return models.BoundingBox{
		MinX: room.Position.X,
		MaxX: room.Position.X + dx,
		MinZ: room.Position.Z,
		MaxZ: room.Position.Z + dz,
	}
}

// Corners возвращает углы по часовой стрелке, начиная с верхнего левого.
func Corners(room models.Room) [4]models.Position2D {
	b := Bounds(room)
	return [4]models.Position2D{
		{X: b.MinX, Z: b.MinZ},
		{X: b.MaxX, Z: b.MinZ},
		{X: b.MaxX, Z: b.MaxZ},
		{X: b.MinX, Z: b.MaxZ},
	}
}

// WallSegments возвращает четыре стены комнаты в мировых координатах.
func WallSegments(room models.Room) [4]models.WallSegment {
	c := Corners(room)
	return [4]models.WallSegment{
		{ID: room.ID + "-north", From: c[0], To: c[1], WallSide: models.WallNorth},
		{ID: room.ID + "-east", From: c[1], To: c[2], WallSide: models.WallEast},
		{ID: room.ID + "-south", From: c[2], To: c[3], WallSide: models.WallSouth},
		{ID: room.ID + "-west", From: c[3], To: c[0], WallSide: models.WallWest},
	}
}

func Center(room models.Room) models.Position2D {
	dx, dz := Extent(room)
	return models.Position2D{
		X: room.Position.X + dx/2,
		Z: room.Position.Z + dz/2,
	}
}

// WallLength длина стены указанной стороны.
func WallLength(room models.Room, side models.WallSide) float64 {
	dx, dz := Extent(room)
	if side == models.WallNorth || side == models.WallSouth {
		return dx
	}
	return dz
}

// RoomsOverlap проверяет пересечение (не касание) двух комнат.
func RoomsOverlap(a, b models.Room) bool {
	b1, b2 := Bounds(a), Bounds(b)
	overlapX := b1.MinX < b2.MaxX && b1.MaxX > b2.MinX
	overlapZ := b1.MinZ < b2.MaxZ && b1.MaxZ > b2.MinZ
	return overlapX && overlapZ
}

// OverlapExtent возвращает длину пересечения прямоугольников по X и Z (0, если не пересекаются).
func OverlapExtent(a, b models.BoundingBox) (float64, float64) {
	x := math.Max(0, math.Min(a.MaxX, b.MaxX)-math.Max(a.MinX, b.MinX))
	z := math.Max(0, math.Min(a.MaxZ, b.MaxZ)-math.Max(a.MinZ, b.MinZ))
	return x, z
}

// Near сообщает, что прямоугольники пересекаются или находятся не дальше tolerance друг от друга.
func Near(a, b models.BoundingBox, tolerance float64) bool {
	if a.MinX > b.MaxX+tolerance || a.MaxX < b.MinX-tolerance {
		return false
	}
	if a.MinZ > b.MaxZ+tolerance || a.MaxZ < b.MinZ-tolerance {
		return false
	}
	return true
}

func Distance(p1, p2 models.Position2D) float64 {
	dx := p1.X - p2.X
	dz := p1.Z - p2.Z
	return math.Sqrt(dx*dx + dz*dz)
}

func Clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
