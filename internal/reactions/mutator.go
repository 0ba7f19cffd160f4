package reactions

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/keepselvesreal/xai-community-gateway/internal/models"
	"github.com/keepselvesreal/xai-community-gateway/pkg/log"
)

var (
	// ErrUnauthenticated — реакция без аутентифицированного зрителя
	// отклоняется локально, без сетевого вызова.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrInFlight — реакция того же вида по этому посту ещё не разрешилась
	// (защита от серии быстрых повторных кликов).
	ErrInFlight = errors.New("reaction already in flight")
	// ErrUnknownKind — неизвестный вид реакции.
	ErrUnknownKind = errors.New("unknown reaction kind")
)

// UpstreamAPI — подмножество клиента апстрима, нужное мутатору.
// client.Client реализует его целиком.
type UpstreamAPI interface {
	GetPost(ctx context.Context, slug string) (*models.Post, error)
	LikePost(ctx context.Context, slug string) (*models.ReactionResult, error)
	DislikePost(ctx context.Context, slug string) (*models.ReactionResult, error)
	BookmarkPost(ctx context.Context, slug string) (*models.ReactionResult, error)
}

type flightKey struct {
	viewer string
	slug   string
	kind   Kind
}

// Mutator — оптимистичный мутатор реакций поверх Store и апстрима.
// Разные виды реакций одного поста могут лететь параллельно; повторный
// клик того же вида до разрешения предыдущего отклоняется.
type Mutator struct {
	api   UpstreamAPI
	store Store

	mu       sync.Mutex
	inflight map[flightKey]struct{}
}

func New(api UpstreamAPI, store Store) *Mutator {
	return &Mutator{
		api:      api,
		store:    store,
		inflight: make(map[flightKey]struct{}),
	}
}

// Seed сеет состояние пары (зритель, пост) из свежезагруженного поста.
// Вызывается при отдаче детальной страницы: дальше кликами по реакциям
// правит Apply.
func (m *Mutator) Seed(viewer, slug string, p models.Post) {
	if viewer == "" {
		return
	}

	m.store.Set(viewer, slug, StateFromPost(p))
}

// State возвращает текущее состояние пары (зритель, пост).
func (m *Mutator) State(viewer, slug string) (State, bool) {
	return m.store.Get(viewer, slug)
}

// Apply — один клик по реакции kind.
//
// Последовательность:
//  1. отказ без зрителя (ErrUnauthenticated) и на неизвестном виде;
//  2. отказ, если реакция того же вида уже в полёте (ErrInFlight);
//  2а. непосеянная (или протухшая) пара сеется из GetPost, чтобы переход
//     не стартовал от нулевых счётчиков;
//  3. снимок текущего состояния, локальный переход Toggle, немедленное
//     применение (оптимизм);
//  4. сетевой вызов соответствующего вида;
//  5. успех: счётчики сервера перетирают локальные, флаги — из ответа,
//     если сервер их отдал;
//  6. отказ: поля затронутого вида восстанавливаются из снимка; ошибка
//     уходит наверх (пользователь может повторить сразу);
//  7. маркер «в полёте» снимается при любом исходе.
//
// Откат и подтверждение затрагивают только поля своего вида (для
// like/dislike — их общую пару), поэтому параллельная реакция другого
// вида не теряет своего эффекта.
func (m *Mutator) Apply(ctx context.Context, viewer, slug string, kind Kind) (State, error) {
	const op = "reactions/Apply"

	if viewer == "" {
		return State{}, fmt.Errorf("%s: %w", op, ErrUnauthenticated)
	}

	if !kind.Valid() {
		return State{}, fmt.Errorf("%s: %q: %w", op, kind, ErrUnknownKind)
	}

	if !m.begin(viewer, slug, kind) {
		return State{}, fmt.Errorf("%s: %s: %w", op, kind, ErrInFlight)
	}
	defer m.end(viewer, slug, kind)

	lg := log.From(ctx).With("op", op, "slug", slug, "kind", string(kind))

	// Без посева переход стартовал бы от нулевых счётчиков; вместо этого
	// непосеянная пара сеется с сервера прямо здесь. Состояние могло и
	// просто протухнуть в Store — тогда это обычный повторный посев.
	if _, ok := m.store.Get(viewer, slug); !ok {
		post, err := m.api.GetPost(ctx, slug)
		if err != nil {
			return State{}, fmt.Errorf("%s: seed: %w", op, err)
		}

		if _, ok := m.store.Get(viewer, slug); !ok {
			m.store.Set(viewer, slug, StateFromPost(*post))
		}
	}

	// Снимок и оптимистичное применение — одним атомарным шагом.
	var snapshot State
	optimistic := m.store.Update(viewer, slug, func(cur State) State {
		snapshot = cur
		return Toggle(cur, kind)
	})

	res, err := m.call(ctx, slug, kind)
	if err != nil {
		// Полный откат полей своего вида к снимку.
		m.store.Update(viewer, slug, func(cur State) State {
			return restoreKind(cur, snapshot, kind)
		})

		lg.Warn("reaction_rolled_back", "err", err.Error())
		return State{}, fmt.Errorf("%s: %w", op, err)
	}

	final := m.store.Update(viewer, slug, func(cur State) State {
		return confirm(cur, optimistic, kind, res)
	})

	return final, nil
}

func (m *Mutator) call(ctx context.Context, slug string, kind Kind) (*models.ReactionResult, error) {
	switch kind {
	case KindLike:
		return m.api.LikePost(ctx, slug)
	case KindDislike:
		return m.api.DislikePost(ctx, slug)
	default:
		return m.api.BookmarkPost(ctx, slug)
	}
}

func (m *Mutator) begin(viewer, slug string, kind Kind) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := flightKey{viewer, slug, kind}
	if _, busy := m.inflight[k]; busy {
		return false
	}

	m.inflight[k] = struct{}{}
	return true
}

func (m *Mutator) end(viewer, slug string, kind Kind) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.inflight, flightKey{viewer, slug, kind})
}

// restoreKind возвращает полям вида kind значения из снимка, не трогая
// поля других видов (их могла успеть изменить параллельная реакция).
// like и dislike — один вид в этом смысле: переход затрагивает оба.
func restoreKind(cur, snap State, kind Kind) State {
	switch kind {
	case KindLike, KindDislike:
		cur.Liked, cur.Disliked = snap.Liked, snap.Disliked
		cur.LikeCount, cur.DislikeCount = snap.LikeCount, snap.DislikeCount
	case KindBookmark:
		cur.Bookmarked = snap.Bookmarked
		cur.BookmarkCount = snap.BookmarkCount
	}

	return cur
}

// confirm — сверка с авторитетным ответом сервера: счётчики всегда из
// ответа; флаги — из ответа, если он их несёт, иначе остаются
// оптимистичные флаги своего вида.
func confirm(cur, optimistic State, kind Kind, res *models.ReactionResult) State {
	cur.LikeCount = res.Counts.LikeCount
	cur.DislikeCount = res.Counts.DislikeCount
	cur.BookmarkCount = res.Counts.BookmarkCount

	if res.Flags != nil {
		cur.Liked = res.Flags.Liked
		cur.Disliked = res.Flags.Disliked
		cur.Bookmarked = res.Flags.Bookmarked
		return cur
	}

	switch kind {
	case KindLike, KindDislike:
		cur.Liked, cur.Disliked = optimistic.Liked, optimistic.Disliked
	case KindBookmark:
		cur.Bookmarked = optimistic.Bookmarked
	}

	return cur
}
