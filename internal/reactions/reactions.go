// reactions — оптимистичный мутатор реакций (лайк/дизлайк/закладка).
//
// Единственная «настоящая» логика шлюза: переходы состояния считаются
// локально и применяются до ответа апстрима, ответ сервера авторитетно
// перетирает счётчики, отказ откатывает состояние к снимку.
// Здесь политика счётчиков одна для всех вызовов: пол на нуле.
package reactions

import "github.com/keepselvesreal/xai-community-gateway/internal/models"

// Kind — вид реакции.
type Kind string

const (
	KindLike     Kind = "like"
	KindDislike  Kind = "dislike"
	KindBookmark Kind = "bookmark"
)

// Valid сообщает, известен ли вид реакции.
func (k Kind) Valid() bool {
	switch k {
	case KindLike, KindDislike, KindBookmark:
		return true
	default:
		return false
	}
}

// State — состояние реакций пары (зритель, пост).
// Инвариант: Liked и Disliked не бывают true одновременно;
// Bookmarked ортогонален. Счётчики неотрицательны.
type State struct {
	Liked      bool `json:"liked"`
	Disliked   bool `json:"disliked"`
	Bookmarked bool `json:"bookmarked"`

	LikeCount     int64 `json:"like_count"`
	DislikeCount  int64 `json:"dislike_count"`
	BookmarkCount int64 `json:"bookmark_count"`
}

// Toggle — чистая функция перехода: состояние после клика kind.
//
//   - like: уже liked -> снять лайк и уменьшить счётчик; иначе поставить
//     лайк, увеличить счётчик и, если стоял dislike, снять его;
//   - dislike: симметрично like;
//   - bookmark: переключается независимо от like/dislike.
//
// Все декременты ограничены нулём.
func Toggle(s State, k Kind) State {
	switch k {
	case KindLike:
		if s.Liked {
			s.Liked = false
			s.LikeCount = dec(s.LikeCount)
			break
		}

		s.Liked = true
		s.LikeCount++
		if s.Disliked {
			s.Disliked = false
			s.DislikeCount = dec(s.DislikeCount)
		}

	case KindDislike:
		if s.Disliked {
			s.Disliked = false
			s.DislikeCount = dec(s.DislikeCount)
			break
		}

		s.Disliked = true
		s.DislikeCount++
		if s.Liked {
			s.Liked = false
			s.LikeCount = dec(s.LikeCount)
		}

	case KindBookmark:
		if s.Bookmarked {
			s.Bookmarked = false
			s.BookmarkCount = dec(s.BookmarkCount)
			break
		}

		s.Bookmarked = true
		s.BookmarkCount++
	}

	return s
}

func dec(n int64) int64 {
	if n <= 0 {
		return 0
	}

	return n - 1
}

// StateFromPost — исходное состояние из свежезагруженного поста.
// Отсутствующие флаги зрителя означают «реакций нет».
func StateFromPost(p models.Post) State {
	s := State{
		LikeCount:     p.Stats.LikeCount,
		DislikeCount:  p.Stats.DislikeCount,
		BookmarkCount: p.Stats.BookmarkCount,
	}

	if p.UserReaction != nil {
		s.Liked = p.UserReaction.Liked
		s.Disliked = p.UserReaction.Disliked
		s.Bookmarked = p.UserReaction.Bookmarked
	}

	return s
}
