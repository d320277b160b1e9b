package detection

import (
	"math"

	"floorplan/internal/adjacency/geometry"
	"floorplan/internal/adjacency/models"
)

// ============================================================
// Adjacency Detection
// ============================================================

const Tolerance = 0.01      // Допуск совпадения линий стен (1 см)
const MinSharedLength = 0.1 // Минимальная длина общей стены (10 см)

// DetectAdjacency проверяет, есть ли у комнат общая стена.
// Возвращает nil, если комнаты не смежны. Из 16 пар стен берется первая подходящая.
func DetectAdjacency(a, b models.Room) *models.AdjacencyInfo {
	wallsA := geometry.WallSegments(a)
	wallsB := geometry.WallSegments(b)

	for _, w1 := range wallsA {
		for _, w2 := range wallsB {
			if shared, ok := sharedWall(w1, w2); ok {
				return &models.AdjacencyInfo{
					Room1ID:    a.ID,
					Room2ID:    b.ID,
					SharedWall: shared,
				}
			}
		}
	}
	return nil
}

type segmentInfo struct {
	horizontal bool
	from       float64
	to         float64
	start      float64
	end        float64
	constant   float64
}

func classify(w models.WallSegment) (segmentInfo, bool) {
	horizontal := math.Abs(w.From.Z-w.To.Z) < Tolerance
	vertical := math.Abs(w.From.X-w.To.X) < Tolerance
	if !horizontal && !vertical {
		return segmentInfo{}, false
	}

	info := segmentInfo{horizontal: horizontal}
	if horizontal {
		info.from, info.to, info.constant = w.From.X, w.To.X, w.From.Z
	} else {
		info.from, info.to, info.constant = w.From.Z, w.To.Z, w.From.X
	}
	info.start, info.end = info.from, info.to
	if info.start > info.end {
		info.start, info.end = info.end, info.start
	}
	return info, true
}

func sharedWall(w1, w2 models.WallSegment) (models.SharedWall, bool) {
	s1, ok1 := classify(w1)
	s2, ok2 := classify(w2)
	if !ok1 || !ok2 {
		return models.SharedWall{}, false
	}

	if s1.horizontal != s2.horizontal {
		return models.SharedWall{}, false
	}

	if math.Abs(s1.constant-s2.constant) > Tolerance {
		return models.SharedWall{}, false
	}

	overlapStart := math.Max(s1.start, s2.start)
	overlapEnd := math.Min(s1.end, s2.end)
	overlap := overlapEnd - overlapStart
	if overlap < MinSharedLength {
		return models.SharedWall{}, false
	}

	total := s1.to - s1.from
	if total == 0 {
		return models.SharedWall{}, false
	}

	t1 := (overlapStart - s1.from) / total
	t2 := (overlapEnd - s1.from) / total

	return models.SharedWall{
		Room1Wall:     w1.WallSide,
		Room2Wall:     w2.WallSide,
		Length:        overlap,
		StartPosition: geometry.Clamp(math.Min(t1, t2), 0, 1),
		EndPosition:   geometry.Clamp(math.Max(t1, t2), 0, 1),
	}, true
}
