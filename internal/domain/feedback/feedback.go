package feedback

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("feedback not found")

type Feedback struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	Category  string    `json:"category"`
	Stars     int       `json:"stars"`
	Comment   string    `json:"comment"`
	CreatedAt time.Time `json:"createdAt"`
}

type CreateRequest struct {
	Category string `json:"category" binding:"required"`
	Stars    int    `json:"stars" binding:"required,min=1,max=5"`
	Comment  string `json:"comment" binding:"required"`
}

func NewFromCreateRequest(userID string, req CreateRequest) Feedback {
	return Feedback{
		ID:        uuid.NewString(),
		UserID:    userID,
		Category:  req.Category,
		Stars:     req.Stars,
		Comment:   req.Comment,
		CreatedAt: time.Now().UTC(),
	}
}
