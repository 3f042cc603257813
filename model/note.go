package model

import "time"

type Note struct {
	NoteID    string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Title     string    `bson:"title" json:"title" binding:"required"`
	Content   string    `bson:"content" json:"content"`
	UpdatedAt time.Time `bson:"updated_at" json:"updated_at"`
}
