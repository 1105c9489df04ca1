package domain

import "time"

// ApplicationStatus represents the lifecycle state of an application.
type ApplicationStatus string

const (
	StatusPending  ApplicationStatus = "pending"
	StatusAccepted ApplicationStatus = "accepted"
	StatusRejected ApplicationStatus = "rejected"
)

// validTransitions lists, per target status, the states it may be entered from.
// There is no terminal state: accepted and rejected can flip back and forth.
var validTransitions = map[ApplicationStatus][]ApplicationStatus{
	StatusAccepted: {StatusPending, StatusRejected},
	StatusRejected: {StatusPending, StatusAccepted},
}

// TransitionSources returns the statuses next may be entered from. Staying in
// the same status is not a transition, and pending cannot be re-entered.
func TransitionSources(next ApplicationStatus) []ApplicationStatus {
	src := validTransitions[next]
	out := make([]ApplicationStatus, len(src))
	copy(out, src)
	return out
}

// Application is a user's request to fill one slot on a post.
type Application struct {
	ID        string            `json:"id" bson:"_id"`
	UserID    string            `json:"user_id" bson:"user_id"`
	PostID    string            `json:"post_id" bson:"post_id"`
	Status    ApplicationStatus `json:"status" bson:"status"`
	CreatedAt time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time         `json:"updated_at" bson:"updated_at"`
}
