package domain

import "time"

// CV is the single resume file a user may keep on file.
type CV struct {
	ID         string    `json:"id" bson:"_id"`
	UserID     string    `json:"user_id" bson:"user_id"`
	File       string    `json:"file" bson:"file"`
	FileName   string    `json:"file_name" bson:"file_name"`
	MimeType   string    `json:"mime_type" bson:"mime_type"`
	Size       int64     `json:"size" bson:"size"`
	UploadedAt time.Time `json:"uploaded_at" bson:"uploaded_at"`
}

// Company is the employer profile posts are published under.
type Company struct {
	ID          string    `json:"id" bson:"_id"`
	UserID      string    `json:"user_id" bson:"user_id"`
	Name        string    `json:"name" bson:"name"`
	Image       string    `json:"image" bson:"image"`
	Description string    `json:"description" bson:"description"`
	Phone       string    `json:"phone" bson:"phone"`
	Address     string    `json:"address" bson:"address"`
	Website     string    `json:"website" bson:"website"`
	Email       string    `json:"email" bson:"email"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

// Coordinates represents a geographic point.
type Coordinates struct {
	Lat float64 `json:"lat" bson:"lat"`
	Lng float64 `json:"lng" bson:"lng"`
}

type City struct {
	ID          string      `json:"id" bson:"_id"`
	Name        string      `json:"name" bson:"name"`
	Coordinates Coordinates `json:"coordinates" bson:"coordinates"`
}

type Category struct {
	ID   string `json:"id" bson:"_id"`
	Name string `json:"name" bson:"name"`
}
