// Package models содержит REST-модели шлюза и конвертацию
// из форматов апстрим-API (см. convert.go).
package models

// PostType — раздел, к которому относится пост.
type PostType string

const (
	PostTypeBoard    PostType = "board"    // свободная доска
	PostTypeInfo     PostType = "info"     // информация о ЖК
	PostTypeServices PostType = "services" // маркетплейс услуг
	PostTypeTips     PostType = "tips"     // советы экспертов
)

// Stats — счётчики поста. Источник истинности — сервер;
// локальные значения провизорны до сверки (см. internal/reactions).
type Stats struct {
	LikeCount     int64 `json:"like_count"`
	DislikeCount  int64 `json:"dislike_count"`
	BookmarkCount int64 `json:"bookmark_count"`
	CommentCount  int64 `json:"comment_count"`
	ViewCount     int64 `json:"view_count"`
}

// UserReaction — флаги текущего зрителя по посту.
// Инвариант: liked и disliked не бывают true одновременно;
// bookmarked ортогонален.
type UserReaction struct {
	Liked      bool `json:"liked"`
	Disliked   bool `json:"disliked"`
	Bookmarked bool `json:"bookmarked"`
}

// Post — пост доски/раздела.
type Post struct {
	Slug         string        `json:"slug"`
	Type         PostType      `json:"type"`
	Title        string        `json:"title"`
	Content      string        `json:"content"`
	AuthorID     string        `json:"author_id"`
	AuthorName   string        `json:"author_name"`
	Stats        Stats         `json:"stats"`
	UserReaction *UserReaction `json:"user_reaction,omitempty"`
	CreatedAt    int64         `json:"created_at"` // Unix UTC
	UpdatedAt    int64         `json:"updated_at"` // Unix UTC
}

// Список постов раздела.
type ListPostsRequest struct {
	Type      PostType `json:"type"`
	PageSize  int32    `json:"page_size"`
	PageToken string   `json:"page_token"`
}

type ListPostsResponse struct {
	Posts         []Post `json:"posts"`
	NextPageToken string `json:"next_page_token"`
}

type CreatePostRequest struct {
	Type    PostType `json:"type"`
	Title   string   `json:"title"`
	Content string   `json:"content"`
}

type UpdatePostRequest struct {
	Title   string `json:"title,omitempty"`
	Content string `json:"content,omitempty"`
}

// PostPage — композиция детальной страницы: пост + дерево комментариев.
// Обе части запрашиваются у апстрима конкурентно (fan-out/fan-in).
type PostPage struct {
	Post     Post      `json:"post"`
	Comments []Comment `json:"comments"`
}

// ReactionCounts — авторитетные счётчики из ответа реакции.
type ReactionCounts struct {
	LikeCount     int64 `json:"like_count"`
	DislikeCount  int64 `json:"dislike_count"`
	BookmarkCount int64 `json:"bookmark_count"`
}

// ReactionResult — ответ апстрима на like/dislike/bookmark.
// Flags опциональны: часть эндпойнтов отдаёт только счётчики.
type ReactionResult struct {
	Counts ReactionCounts `json:"counts"`
	Flags  *UserReaction  `json:"flags,omitempty"`
}
