package model

import "time"

type Todo struct {
	TodoID    string    `bson:"_id,omitempty" json:"id"`
	UserID    string    `bson:"user_id" json:"user_id"`
	Text      string    `bson:"text" json:"text" binding:"required"`
	Completed bool      `bson:"completed" json:"completed"`
	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}
