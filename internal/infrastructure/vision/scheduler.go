package vision

import (
	"errors"
	"fmt"
	"image"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// ErrTileFailed анализ одного из тайлов завершился ошибкой, результат проверки недостоверен
var ErrTileFailed = errors.New("tile analysis failed")

// TileFunc обрабатывает один тайл. Вызывается одновременно из нескольких воркеров.
type TileFunc func(r image.Rectangle) error

// PatchGridScheduler запускает обработку тайлов на пуле фиксированного размера.
type PatchGridScheduler struct {
	workers int
}

// NewPatchGridScheduler создаёт планировщик. При workers <= 0 берётся число CPU.
func NewPatchGridScheduler(workers int) *PatchGridScheduler {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &PatchGridScheduler{workers: workers}
}

// Workers возвращает размер пула.
func (s *PatchGridScheduler) Workers() int {
	return s.workers
}

// Run обрабатывает все тайлы и возвращается только после завершения каждого.
// Ошибка или паника любого тайла делает ошибочным весь вызов.
func (s *PatchGridScheduler) Run(tiles []image.Rectangle, fn TileFunc) error {
	var g errgroup.Group
	g.SetLimit(s.workers)

	for _, r := range tiles {
		g.Go(func() (err error) {
			defer func() {
				if p := recover(); p != nil {
					err = fmt.Errorf("%w: tile %v: panic: %v", ErrTileFailed, r, p)
				}
			}()
			if ferr := fn(r); ferr != nil {
				return fmt.Errorf("%w: tile %v: %w", ErrTileFailed, r, ferr)
			}
			return nil
		})
	}
	return g.Wait()
}
