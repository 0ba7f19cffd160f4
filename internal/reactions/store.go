package reactions

import (
	"sync"
	"time"
)

// Store — хранилище состояний реакций, ключ — пара (зритель, пост).
//
// Состояние по контракту живёт в памяти процесса: это ровно тот же
// срок жизни, что у состояния страницы, и никакой межсессионной
// координации не предполагается. Update обязан быть атомарным:
// на одном состоянии могут конкурировать реакции разных видов.
type Store interface {
	// Get возвращает состояние и признак его наличия.
	Get(viewer, slug string) (State, bool)
	// Set перезаписывает состояние целиком (посев из загруженного поста).
	Set(viewer, slug string, s State)
	// Update атомарно применяет fn к текущему состоянию и возвращает результат.
	Update(viewer, slug string, fn func(State) State) State
}

type stateKey struct {
	viewer string
	slug   string
}

type stateEntry struct {
	state   State
	touched time.Time
}

// Пределы MemoryStore. Ключом служит непроверенный bearer-токен, поэтому
// без ограничений карта растёт на каждый новый токен до конца жизни
// процесса. TTL покрывает ротацию токенов, предел размера — намеренное
// раздувание; протухшее или вытесненное состояние пересеивается при
// следующем обращении.
const (
	defaultMaxEntries = 65536
	defaultTTL        = time.Hour
)

// MemoryStore — потокобезопасная in-memory реализация Store с TTL и
// верхней границей размера. Любое обращение к записи продлевает её жизнь;
// при переполнении вытесняется самая давняя.
type MemoryStore struct {
	mu  sync.Mutex
	m   map[stateKey]stateEntry
	max int
	ttl time.Duration
	now func() time.Time
}

func NewMemoryStore() *MemoryStore {
	return NewMemoryStoreWith(defaultMaxEntries, defaultTTL)
}

// NewMemoryStoreWith — вариант с явными пределами (для тестов и тюнинга).
func NewMemoryStoreWith(maxEntries int, ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		m:   make(map[stateKey]stateEntry),
		max: maxEntries,
		ttl: ttl,
		now: time.Now,
	}
}

func (s *MemoryStore) Get(viewer, slug string) (State, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := stateKey{viewer, slug}
	e, ok := s.m[k]
	if !ok {
		return State{}, false
	}

	if s.expired(e) {
		delete(s.m, k)
		return State{}, false
	}

	e.touched = s.now()
	s.m[k] = e
	return e.state, true
}

func (s *MemoryStore) Set(viewer, slug string, st State) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.put(stateKey{viewer, slug}, st)
}

func (s *MemoryStore) Update(viewer, slug string, fn func(State) State) State {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := stateKey{viewer, slug}

	var cur State
	if e, ok := s.m[k]; ok && !s.expired(e) {
		cur = e.state
	}

	next := fn(cur)
	s.put(k, next)
	return next
}

// put пишет запись под уже взятым локом, освобождая место при нужде.
func (s *MemoryStore) put(k stateKey, st State) {
	if _, ok := s.m[k]; !ok && len(s.m) >= s.max {
		s.evict()
	}

	s.m[k] = stateEntry{state: st, touched: s.now()}
}

// evict сперва выкидывает всё протухшее; если место так и не
// освободилось — самую давнюю запись.
func (s *MemoryStore) evict() {
	for k, e := range s.m {
		if s.expired(e) {
			delete(s.m, k)
		}
	}

	if len(s.m) < s.max {
		return
	}

	var (
		oldestKey stateKey
		oldest    time.Time
		first     = true
	)

	for k, e := range s.m {
		if first || e.touched.Before(oldest) {
			oldestKey, oldest = k, e.touched
			first = false
		}
	}

	if !first {
		delete(s.m, oldestKey)
	}
}

func (s *MemoryStore) expired(e stateEntry) bool {
	return s.ttl > 0 && s.now().Sub(e.touched) > s.ttl
}
