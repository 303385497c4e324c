package comment

import "time"

// Comments await moderation: only approved ones are visible to the public.
const (
	StatusWaiting     = "w"
	StatusApproved    = "a"
	StatusNotApproved = "na"
)

type Comment struct {
	ID        int       `json:"id" db:"comment_id"`
	ProductID int       `json:"productId" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Body      string    `json:"body" db:"body"`
	Status    string    `json:"status" db:"status"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

type CommentNew struct {
	Name string `json:"name" validate:"required,max=100"`
	Body string `json:"body" validate:"required,max=500"`
}

type StatusUp struct {
	Status string `json:"status" validate:"required,oneof=w a na"`
}
