package entity

// SessionState состояние сессии оператора
type SessionState string

const (
	StateIdle        SessionState = "idle"         // Изображение не загружено
	StateImageLoaded SessionState = "image_loaded" // Изображение загружено, проверка не запускалась
	StateInspecting  SessionState = "inspecting"   // Идёт проверка
	StateInspected   SessionState = "inspected"    // Результат готов
)

// NoSelection индекс, означающий что дефект не выбран
const NoSelection = -1

// Session представляет рабочую сессию оператора
type Session struct {
	ID        int64        // идентификатор сессии
	State     SessionState // текущее состояние
	ImagePath string       // путь к загруженному изображению
	Selected  int          // индекс выбранного дефекта или NoSelection
}

// NewSession создаёт новую сессию с начальным состоянием
func NewSession(id int64) *Session {
	return &Session{
		ID:       id,
		State:    StateIdle,
		Selected: NoSelection,
	}
}

// SetState обновляет состояние сессии
func (s *Session) SetState(state SessionState) {
	s.State = state
}

// Reset возвращает сессию в начальное состояние
func (s *Session) Reset() {
	s.State = StateIdle
	s.ImagePath = ""
	s.Selected = NoSelection
}
