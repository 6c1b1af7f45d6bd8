package cache

import (
	"container/list"
	"sync"

	"github.com/bluele/gcache"
)

type Policy string

const (
	// PolicyFIFO вытесняет самую раннюю вставленную запись
	PolicyFIFO Policy = "fifo"
	// PolicyLRU вытесняет запись, к которой дольше всего не обращались
	PolicyLRU Policy = "lru"
)

// Store ограниченный по размеру кэш в памяти
type Store[V any] interface {
	Get(key string) (V, bool)
	Set(key string, value V)
	Len() int
	Clear()
}

// New создает кэш заданной емкости; неизвестная политика трактуется как FIFO
func New[V any](size int, policy Policy) Store[V] {
	if size <= 0 {
		size = 1
	}
	if policy == PolicyLRU {
		return &lruStore[V]{c: gcache.New(size).LRU().Build()}
	}
	return &fifoStore[V]{
		size:  size,
		items: make(map[string]*list.Element, size),
		order: list.New(),
	}
}

// ParsePolicy переводит значение конфигурации в Policy
func ParsePolicy(s string) Policy {
	if Policy(s) == PolicyLRU {
		return PolicyLRU
	}
	return PolicyFIFO
}

type fifoEntry[V any] struct {
	key   string
	value V
}

type fifoStore[V any] struct {
	mu    sync.Mutex
	size  int
	items map[string]*list.Element
	order *list.List
}

func (s *fifoStore[V]) Get(key string) (V, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		return el.Value.(*fifoEntry[V]).value, true
	}
	var zero V
	return zero, false
}

// Set перезапись существующего ключа не меняет его место в очереди
func (s *fifoStore[V]) Set(key string, value V) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if el, ok := s.items[key]; ok {
		el.Value.(*fifoEntry[V]).value = value
		return
	}
	if s.order.Len() >= s.size {
		oldest := s.order.Front()
		s.order.Remove(oldest)
		delete(s.items, oldest.Value.(*fifoEntry[V]).key)
	}
	s.items[key] = s.order.PushBack(&fifoEntry[V]{key: key, value: value})
}

func (s *fifoStore[V]) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.order.Len()
}

func (s *fifoStore[V]) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*list.Element, s.size)
	s.order.Init()
}

type lruStore[V any] struct {
	c gcache.Cache
}

func (s *lruStore[V]) Get(key string) (V, bool) {
	var zero V
	raw, err := s.c.Get(key)
	if err != nil {
		return zero, false
	}
	v, ok := raw.(V)
	if !ok {
		return zero, false
	}
	return v, true
}

func (s *lruStore[V]) Set(key string, value V) {
	_ = s.c.Set(key, value)
}

func (s *lruStore[V]) Len() int {
	return s.c.Len(false)
}

func (s *lruStore[V]) Clear() {
	s.c.Purge()
}
