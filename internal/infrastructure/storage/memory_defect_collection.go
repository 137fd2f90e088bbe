package storage

import (
	"sync"

	"surface-inspector/internal/domain/entity"
	"surface-inspector/internal/domain/port"
)

// MemoryDefectCollection общая коллекция дефектов одной проверки.
// Воркеры только добавляют, читать можно после завершения всех тайлов.
type MemoryDefectCollection struct {
	mu      sync.Mutex
	defects []entity.Defect
}

// NewMemoryDefectCollection создаёт пустую коллекцию
func NewMemoryDefectCollection() *MemoryDefectCollection {
	return &MemoryDefectCollection{defects: make([]entity.Defect, 0)}
}

// Append добавляет дефекты
func (c *MemoryDefectCollection) Append(defects ...entity.Defect) {
	if len(defects) == 0 {
		return
	}
	c.mu.Lock()
	c.defects = append(c.defects, defects...)
	c.mu.Unlock()
}

// All возвращает копию накопленных дефектов
func (c *MemoryDefectCollection) All() []entity.Defect {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]entity.Defect, len(c.defects))
	copy(out, c.defects)
	return out
}

// Len возвращает число дефектов
func (c *MemoryDefectCollection) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.defects)
}

// Проверка реализации интерфейса
var _ port.DefectSink = (*MemoryDefectCollection)(nil)
