package domain

import "time"

// Post is a job offer published by an employer.
type Post struct {
	ID             string    `json:"id" bson:"_id"`
	UserID         string    `json:"user_id" bson:"user_id"`
	CompanyID      string    `json:"company_id" bson:"company_id"`
	CategoryID     string    `json:"category_id" bson:"category_id"`
	LocationID     string    `json:"location_id" bson:"location_id"`
	Title          string    `json:"title" bson:"title"`
	Description    string    `json:"description" bson:"description"`
	Type           string    `json:"type" bson:"type"`
	Salary         string    `json:"salary,omitempty" bson:"salary,omitempty"`
	NrWorkers      int       `json:"nr_workers" bson:"nr_workers"`
	Capacity       int       `json:"capacity" bson:"capacity"`
	ExpirationDate time.Time `json:"expiration_date" bson:"expiration_date"`
	CreatedAt      time.Time `json:"created_at" bson:"created_at"`
}

// HasFreeSlot reports whether at least one position is still open.
func (p *Post) HasFreeSlot() bool { return p.NrWorkers > 0 }

// SavedPost is a bookmark of a post by a user.
type SavedPost struct {
	ID        string    `json:"id" bson:"_id"`
	UserID    string    `json:"user_id" bson:"user_id"`
	PostID    string    `json:"post_id" bson:"post_id"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}
