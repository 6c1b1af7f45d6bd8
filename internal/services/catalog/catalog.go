package catalog

import (
	"context"
	"log"
	"sync"
	"time"

	"latribu-backend/internal/apperr"
	"latribu-backend/internal/models"
	"latribu-backend/internal/utils"
)

// Source источник сырых записей ubicaciones (REST бэкенд)
type Source interface {
	Locations(ctx context.Context) ([]map[string]interface{}, error)
}

// Catalog каталог локаций, загружаемый один раз за интервал обновления.
// Ошибка загрузки дает пустой список и переводит каталог в режим свободного текста.
type Catalog struct {
	src     Source
	refresh time.Duration
	now     func() time.Time

	mu        sync.RWMutex
	loadMu    sync.Mutex
	locations []models.Location
	ready     bool
	available bool
	loadedAt  time.Time
}

func New(src Source, refresh time.Duration) *Catalog {
	return &Catalog{src: src, refresh: refresh, now: time.Now}
}

// Load загружает каталог, если он еще не загружен или устарел
func (c *Catalog) Load(ctx context.Context) []models.Location {
	c.loadMu.Lock()
	defer c.loadMu.Unlock()

	c.mu.RLock()
	fresh := c.ready && (c.refresh <= 0 || c.now().Sub(c.loadedAt) < c.refresh)
	c.mu.RUnlock()
	if fresh {
		return c.All()
	}

	raw, err := c.src.Locations(ctx)
	if err != nil && (ctx.Err() != nil || apperr.IsSuperseded(err)) {
		// вызывающий ушел: это не отказ бэкенда, состояние каталога не меняется
		return c.All()
	}
	if err != nil {
		log.Printf("[catalog] не удалось загрузить ubicaciones, работаем в режиме свободного текста: %v", err)
		c.mu.Lock()
		c.locations = []models.Location{}
		c.ready = true
		c.available = false
		c.loadedAt = c.now()
		c.mu.Unlock()
		return c.All()
	}

	locs := NormalizeAll(raw)
	log.Printf("[catalog] загружено %d ubicaciones (из %d записей)", len(locs), len(raw))

	c.mu.Lock()
	c.locations = locs
	c.ready = true
	c.available = len(locs) > 0
	c.loadedAt = c.now()
	c.mu.Unlock()
	return c.All()
}

// Refresh заставляет следующий Load обратиться к бэкенду
func (c *Catalog) Refresh() {
	c.mu.Lock()
	c.ready = false
	c.mu.Unlock()
}

// All копия текущего списка
func (c *Catalog) All() []models.Location {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]models.Location, len(c.locations))
	copy(out, c.locations)
	return out
}

// Active только активные локации
func (c *Catalog) Active() []models.Location {
	all := c.All()
	out := all[:0]
	for _, l := range all {
		if l.Active {
			out = append(out, l)
		}
	}
	return out
}

// Ready загрузка завершилась (успешно или нет)
func (c *Catalog) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ready
}

// Available каталог загружен успешно: origen/destino нужно выбирать из него
func (c *Catalog) Available() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.available
}

// ByID ищет локацию по идентификатору
func (c *Catalog) ByID(id int64) (models.Location, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, l := range c.locations {
		if l.ID == id {
			return l, true
		}
	}
	return models.Location{}, false
}

// Resolve сопоставляет введенное название города с локацией каталога
func (c *Catalog) Resolve(text string) (models.Location, bool) {
	key := utils.Fold(text)
	if key == "" {
		return models.Location{}, false
	}
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, l := range c.locations {
		if l.Active && utils.Fold(l.City) == key {
			return l, true
		}
	}
	return models.Location{}, false
}
