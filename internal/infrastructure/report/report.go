package report

import (
	"cmp"
	"errors"
	"fmt"
	"slices"
	"strings"

	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
)

// ErrUnknownFormat формат отчёта не поддерживается
var ErrUnknownFormat = errors.New("unknown report format")

const (
	FormatTable = "table"
	FormatJSON  = "json"
)

// New возвращает репортер для формата: table или json.
func New(format string) (port.DefectReporter, error) {
	switch strings.ToLower(strings.TrimSpace(format)) {
	case "", FormatTable:
		return NewTableReporter(), nil
	case FormatJSON:
		return NewJSONReporter(), nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
}

// ordered возвращает копию дефектов, отсортированную сверху вниз и слева направо.
func ordered(defects []entity.Defect) []entity.Defect {
	out := slices.Clone(defects)
	slices.SortFunc(out, func(a, b entity.Defect) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	return out
}
