package vision

import (
	"surface-inspector/internal/domain/entity"
)

// Criterion условие приёма кандидата.
type Criterion func(m Measurement) bool

// NewAreaCriterion принимает кандидатов с площадью в [lo, hi].
func NewAreaCriterion(lo, hi float64) Criterion {
	return func(m Measurement) bool {
		return m.Area >= lo && m.Area <= hi
	}
}

// NewAspectCriterion принимает кандидатов с отношением сторон в [lo, hi].
func NewAspectCriterion(lo, hi float64) Criterion {
	return func(m Measurement) bool {
		return m.Aspect >= lo && m.Aspect <= hi
	}
}

// NewCircularityCriterion отсекает вытянутые и рваные контуры.
func NewCircularityCriterion(floor float64) Criterion {
	return func(m Measurement) bool {
		return m.Circularity >= floor
	}
}

// NewBorderCriterion отсекает кандидатов ближе margin к любому краю тайла.
func NewBorderCriterion(margin int) Criterion {
	return func(m Measurement) bool {
		r := m.Rect
		return r.Min.X >= margin && r.Min.Y >= margin &&
			m.TileSize.X-r.Max.X >= margin && m.TileSize.Y-r.Max.Y >= margin
	}
}

// NewMeanCriterion отсекает почти чёрный и почти белый шум.
func NewMeanCriterion(lo, hi float64) Criterion {
	return func(m Measurement) bool {
		return m.Mean >= lo && m.Mean <= hi
	}
}

// NewStdDevCriterion отсекает плоские области. floor <= 0 отключает проверку.
func NewStdDevCriterion(floor float64) Criterion {
	return func(m Measurement) bool {
		return floor <= 0 || m.StdDev >= floor
	}
}

// NewSeamCriterion отсекает кандидатов, пересекающих строку-шов.
func NewSeamCriterion(rows BoundaryRowSet) Criterion {
	return func(m Measurement) bool {
		return !rows.Overlaps(m.Top, m.Bottom)
	}
}

// CriteriaFor собирает условия приёма из порогов.
func CriteriaFor(c entity.Criteria) []Criterion {
	return []Criterion{
		NewAreaCriterion(c.MinArea, c.MaxArea),
		NewAspectCriterion(c.MinAspect, c.MaxAspect),
		NewCircularityCriterion(c.MinCircularity),
		NewBorderCriterion(c.BorderMargin),
		NewMeanCriterion(c.MinMean, c.MaxMean),
		NewStdDevCriterion(c.MinStdDev),
	}
}

// ContourFilter принимает или отбрасывает кандидатов одного тайла.
type ContourFilter struct {
	ring     int
	offsetY  int
	criteria map[entity.DefectType][]Criterion
}

// NewContourFilter создаёт фильтр. offsetY задаёт вертикальный сдвиг области в глобальные координаты,
// тот же, что использовался при построении rows.
func NewContourFilter(cfg entity.DetectionConfig, rows BoundaryRowSet, offsetY int) *ContourFilter {
	seam := NewSeamCriterion(rows)
	dark := append(CriteriaFor(cfg.CriteriaFor(entity.DefectDark)), seam)
	unknown := append(CriteriaFor(cfg.CriteriaFor(entity.DefectUnknown)), seam)
	bright := CriteriaFor(cfg.CriteriaFor(entity.DefectBright))

	return &ContourFilter{
		ring:    cfg.PolarityRing,
		offsetY: offsetY,
		criteria: map[entity.DefectType][]Criterion{
			entity.DefectDark:    dark,
			entity.DefectBright:  bright,
			entity.DefectUnknown: unknown,
		},
	}
}

// Measure считает все величины кандидата на исходных пикселях тайла.
func (f *ContourFilter) Measure(c Candidate, t Tile) Measurement {
	mean, std := regionStats(t, c.Rect)
	top := f.offsetY + t.Origin.Y + c.Rect.Min.Y
	return Measurement{
		Candidate:   c,
		Type:        resolveType(c, t, f.ring, mean),
		Aspect:      AspectRatio(c.Rect),
		Circularity: Circularity(c.Area, c.Perimeter),
		Mean:        mean,
		StdDev:      std,
		TileSize:    t.Size(),
		Top:         top,
		Bottom:      top + c.Rect.Dy(),
	}
}

// Accept проверяет все условия для типа кандидата.
func (f *ContourFilter) Accept(m Measurement) bool {
	for _, ok := range f.criteria[m.Type] {
		if !ok(m) {
			return false
		}
	}
	return true
}

// Filter возвращает принятых кандидатов тайла.
func (f *ContourFilter) Filter(candidates []Candidate, t Tile) []Detection {
	var out []Detection
	for _, c := range candidates {
		m := f.Measure(c, t)
		if !f.Accept(m) {
			continue
		}
		out = append(out, Detection{Rect: c.Rect, Type: m.Type})
	}
	return out
}
