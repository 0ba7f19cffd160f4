package models

// Comment — комментарий детальной страницы.
// Replies — прямые ответы в порядке, отданном сервером (считаем его
// хронологическим); дерево всегда перечитывается целиком после мутаций.
type Comment struct {
	ID         string    `json:"id"`
	AuthorID   string    `json:"author_id"`
	AuthorName string    `json:"author_name"`
	Content    string    `json:"content"`
	IsDeleted  bool      `json:"is_deleted"`
	CreatedAt  int64     `json:"created_at"` // Unix UTC
	UpdatedAt  int64     `json:"updated_at"` // Unix UTC
	Replies    []Comment `json:"replies"`
}

// Создание (корневой или ответ).
type CreateCommentRequest struct {
	ParentID string `json:"parent_id,omitempty"` // если задан — reply
	Content  string `json:"content"`
}

// Правка содержимого по месту.
type UpdateCommentRequest struct {
	Content string `json:"content"`
}

// CommentsResponse — дерево целиком; ответы на мутации имеют ту же форму,
// потому что после любой мутации дерево перечитывается заново.
type CommentsResponse struct {
	Comments []Comment `json:"comments"`
}
