package dto

type CreatePostRequest struct {
	Title    string  `json:"title"`
	Content  *string `json:"content"`
	IsHidden *bool   `json:"isHidden"`
}

type UpdatePostRequest struct {
	ID       *int64  `json:"id"`
	Title    *string `json:"title"`
	Content  *string `json:"content"`
	IsHidden *bool   `json:"isHidden"`
}

type DeletePostRequest struct {
	ID *int64 `json:"id"`
}
