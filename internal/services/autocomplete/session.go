package autocomplete

import (
	"strings"
	"sync"
	"time"

	"latribu-backend/internal/async"
)

// Key клавиши, на которые реагирует список подсказок
type Key string

const (
	KeyDown   Key = "ArrowDown"
	KeyUp     Key = "ArrowUp"
	KeyEnter  Key = "Enter"
	KeyEscape Key = "Escape"
)

// State снимок состояния поля с подсказками
type State struct {
	Value       string       `json:"value"`
	Suggestions []Suggestion `json:"suggestions"`
	Groups      []Group      `json:"groups"`
	Open        bool         `json:"open"`
	Highlight   int          `json:"highlight"`
	NoResults   bool         `json:"noResults"`
}

// Options задержки и колбэки сессии
type Options struct {
	Debounce  time.Duration
	BlurGrace time.Duration
	// OnChange получает снимок после каждого изменения списка
	OnChange func(State)
	// OnSelect получает выбранную подсказку вместе с ее ID
	OnSelect func(Suggestion)
}

// Session состояние одного поля ввода города.
// После Close ни один колбэк больше не вызывается.
type Session struct {
	source   func() []Suggestion
	filter   *async.Debouncer
	blur     *async.Debouncer
	onChange func(State)
	onSelect func(Suggestion)

	mu          sync.Mutex
	value       string
	suggestions []Suggestion
	filteredFor string
	open        bool
	highlight   int
	noResults   bool
	closed      bool
}

// NewSession создает сессию; source вызывается при каждой фильтрации
func NewSession(source func() []Suggestion, opts Options) *Session {
	if opts.Debounce <= 0 {
		opts.Debounce = 150 * time.Millisecond
	}
	if opts.BlurGrace <= 0 {
		opts.BlurGrace = 200 * time.Millisecond
	}
	return &Session{
		source:    source,
		filter:    async.NewDebouncer(opts.Debounce),
		blur:      async.NewDebouncer(opts.BlurGrace),
		onChange:  opts.OnChange,
		onSelect:  opts.OnSelect,
		highlight: -1,
	}
}

// Input новое значение поля; фильтрация выполняется после паузы ввода
func (s *Session) Input(value string) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.value = value
	s.highlight = -1
	if strings.TrimSpace(value) == "" {
		s.filter.Cancel()
		s.suggestions = nil
		s.filteredFor = ""
		s.open = false
		s.noResults = false
		st := s.snapshot()
		s.mu.Unlock()
		s.emit(st)
		return
	}
	s.mu.Unlock()
	s.filter.Trigger(s.runFilter)
}

// runFilter источник может ходить в сеть, поэтому вызывается без блокировки;
// результат для устаревшего текста отбрасывается, новый фильтр уже запланирован
func (s *Session) runFilter() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	value := s.value
	s.mu.Unlock()

	items := Filter(value, s.source())

	s.mu.Lock()
	if s.closed || s.value != value {
		s.mu.Unlock()
		return
	}
	s.suggestions = items
	s.filteredFor = s.value
	s.noResults = len(s.suggestions) == 0 && strings.TrimSpace(s.value) != ""
	s.open = true
	s.highlight = -1
	st := s.snapshot()
	s.mu.Unlock()
	s.emit(st)
}

// Key обрабатывает навигацию с клавиатуры; true, если клавиша что-то изменила
func (s *Session) Key(k Key) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	n := len(s.suggestions)
	switch k {
	case KeyDown:
		if n == 0 {
			s.mu.Unlock()
			return false
		}
		s.open = true
		if s.highlight < n-1 {
			s.highlight++
		}
	case KeyUp:
		if n == 0 {
			s.mu.Unlock()
			return false
		}
		if s.highlight > -1 {
			s.highlight--
		}
	case KeyEnter:
		if !s.open || s.highlight < 0 || s.highlight >= n {
			s.mu.Unlock()
			return false
		}
		picked := s.suggestions[s.highlight]
		s.mu.Unlock()
		s.Select(picked)
		return true
	case KeyEscape:
		// текст остается, закрывается только список
		s.open = false
		s.highlight = -1
	default:
		s.mu.Unlock()
		return false
	}
	st := s.snapshot()
	s.mu.Unlock()
	s.emit(st)
	return true
}

// Select фиксирует подсказку в поле (клик или Enter)
func (s *Session) Select(sg Suggestion) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.filter.Cancel()
	s.blur.Cancel()
	s.value = sg.City
	s.filteredFor = sg.City
	s.open = false
	s.highlight = -1
	s.noResults = false
	st := s.snapshot()
	s.mu.Unlock()

	if s.onSelect != nil {
		s.onSelect(sg)
	}
	s.emit(st)
}

// SelectIndex выбор по позиции в текущем списке
func (s *Session) SelectIndex(i int) bool {
	s.mu.Lock()
	if s.closed || i < 0 || i >= len(s.suggestions) {
		s.mu.Unlock()
		return false
	}
	picked := s.suggestions[i]
	s.mu.Unlock()
	s.Select(picked)
	return true
}

// Blur закрывает список после задержки, чтобы клик по подсказке успел сработать
func (s *Session) Blur() {
	s.blur.Trigger(func() {
		s.mu.Lock()
		if s.closed {
			s.mu.Unlock()
			return
		}
		s.open = false
		s.highlight = -1
		st := s.snapshot()
		s.mu.Unlock()
		s.emit(st)
	})
}

// Focus снова открывает список: из кэша, если он для текущего текста, иначе фильтрует сразу
func (s *Session) Focus() {
	s.blur.Cancel()

	s.mu.Lock()
	if s.closed || strings.TrimSpace(s.value) == "" {
		s.mu.Unlock()
		return
	}
	if s.filteredFor == s.value && len(s.suggestions) > 0 {
		s.open = true
		st := s.snapshot()
		s.mu.Unlock()
		s.emit(st)
		return
	}
	s.mu.Unlock()

	s.filter.Cancel()
	s.runFilter()
}

// SetValue задает текст без фильтрации (обмен origen/destino)
func (s *Session) SetValue(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.filter.Cancel()
	s.value = value
	s.suggestions = nil
	s.filteredFor = ""
	s.open = false
	s.highlight = -1
	s.noResults = false
}

// State текущий снимок
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Close останавливает таймеры и глушит колбэки
func (s *Session) Close() {
	s.filter.Stop()
	s.blur.Stop()
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
}

func (s *Session) snapshot() State {
	items := make([]Suggestion, len(s.suggestions))
	copy(items, s.suggestions)
	return State{
		Value:       s.value,
		Suggestions: items,
		Groups:      GroupByRegion(items),
		Open:        s.open,
		Highlight:   s.highlight,
		NoResults:   s.noResults,
	}
}

func (s *Session) emit(st State) {
	if s.onChange != nil {
		s.onChange(st)
	}
}
