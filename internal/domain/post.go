package domain

import (
	"time"

	"github.com/google/uuid"
)

type Post struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl"`
	CreatorID uuid.UUID `json:"creator_id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	// Joined fields
	CreatorName string `json:"creator_name,omitempty"`
}

// Creator is the denormalized snapshot of a post's author embedded in feed
// responses and broadcast events. It is recomputed from the User record at
// publish time, never stored.
type Creator struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

func (p *Post) Creator() Creator {
	return Creator{ID: p.CreatorID, Name: p.CreatorName}
}
