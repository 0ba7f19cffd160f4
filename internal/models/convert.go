package models

// convert.go — единственная граница нормализации ответов апстрима.
//
// Апстрим исторически непоследователен:
//   - идентификатор комментария приходит то в "id", то в "_id"
//     (зависит от возраста записи в хранилище бэкенда);
//   - блок "stats" у старых постов может отсутствовать целиком.
//
// Всё это выправляется здесь и только здесь; дальше по коду живут уже
// канонические модели.

// WireComment — комментарий в том виде, в котором его отдаёт апстрим.
type WireComment struct {
	ID        string        `json:"id"`
	AltID     string        `json:"_id"` // у части записей заполнен только он
	AuthorID  string        `json:"author_id"`
	Author    string        `json:"author_name"`
	Content   string        `json:"content"`
	IsDeleted bool          `json:"is_deleted"`
	CreatedAt int64         `json:"created_at"`
	UpdatedAt int64         `json:"updated_at"`
	Replies   []WireComment `json:"replies"`
}

// CommentFromWire канонизирует один комментарий: id := id, иначе _id;
// replies нормализуются рекурсивно, отсутствие ветки — пустой список.
// Порядок сохраняется как есть, без фильтрации и дедупликации.
func CommentFromWire(w WireComment) Comment {
	id := w.ID
	if id == "" {
		id = w.AltID
	}

	return Comment{
		ID:         id,
		AuthorID:   w.AuthorID,
		AuthorName: w.Author,
		Content:    w.Content,
		IsDeleted:  w.IsDeleted,
		CreatedAt:  w.CreatedAt,
		UpdatedAt:  w.UpdatedAt,
		Replies:    CommentsFromWire(w.Replies),
	}
}

// CommentsFromWire — нормализация последовательности; nil -> пустой срез.
func CommentsFromWire(ws []WireComment) []Comment {
	out := make([]Comment, 0, len(ws))
	for _, w := range ws {
		out = append(out, CommentFromWire(w))
	}

	return out
}

// WirePost — пост апстрима; stats/user_reaction могут отсутствовать.
type WirePost struct {
	Slug         string        `json:"slug"`
	Type         PostType      `json:"type"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	AuthorID     string        `json:"author_id"`
	AuthorName   string        `json:"author_name"`
	Stats        *Stats        `json:"stats"`
	UserReaction *UserReaction `json:"user_reaction"`
	CreatedAt    int64         `json:"created_at"`
	UpdatedAt    int64         `json:"updated_at"`
}

// PostFromWire — отсутствующий stats не ошибка: счётчики
// дефолтятся нулями.
func PostFromWire(w WirePost) Post {
	var stats Stats
	if w.Stats != nil {
		stats = *w.Stats
	}

	return Post{
		Slug:         w.Slug,
		Type:         w.Type,
		Title:        w.Title,
		Content:      w.Content,
		AuthorID:     w.AuthorID,
		AuthorName:   w.AuthorName,
		Stats:        stats,
		UserReaction: w.UserReaction,
		CreatedAt:    w.CreatedAt,
		UpdatedAt:    w.UpdatedAt,
	}
}

func PostsFromWire(ws []WirePost) []Post {
	out := make([]Post, 0, len(ws))
	for _, w := range ws {
		out = append(out, PostFromWire(w))
	}

	return out
}

// WireReactionResult — ответ эндпойнтов like/dislike/bookmark.
// user_reaction опционален: часть эндпойнтов отдаёт только счётчики.
type WireReactionResult struct {
	LikeCount     int64         `json:"like_count"`
	DislikeCount  int64         `json:"dislike_count"`
	BookmarkCount int64         `json:"bookmark_count"`
	UserReaction  *UserReaction `json:"user_reaction"`
}

func ReactionResultFromWire(w WireReactionResult) ReactionResult {
	return ReactionResult{
		Counts: ReactionCounts{
			LikeCount:     w.LikeCount,
			DislikeCount:  w.DislikeCount,
			BookmarkCount: w.BookmarkCount,
		},
		Flags: w.UserReaction,
	}
}

// WireListing — объявление маркетплейса; stats опционален, как у постов.
type WireListing struct {
	Slug      string          `json:"slug"`
	Category  ListingCategory `json:"category"`
	Company   Company         `json:"company"`
	Prices    []PriceItem     `json:"prices"`
	Stats     *Stats          `json:"stats"`
	CreatedAt int64           `json:"created_at"`
	UpdatedAt int64           `json:"updated_at"`
}

func ListingFromWire(w WireListing) Listing {
	var stats Stats
	if w.Stats != nil {
		stats = *w.Stats
	}

	return Listing{
		Slug:      w.Slug,
		Category:  w.Category,
		Company:   w.Company,
		Prices:    w.Prices,
		Stats:     stats,
		CreatedAt: w.CreatedAt,
		UpdatedAt: w.UpdatedAt,
	}
}

func ListingsFromWire(ws []WireListing) []Listing {
	out := make([]Listing, 0, len(ws))
	for _, w := range ws {
		out = append(out, ListingFromWire(w))
	}

	return out
}
