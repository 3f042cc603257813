package model

// Alarm is a recurring clock alarm. Days holds weekday indices 0-6; an
// empty set (fires never) and a full set (fires daily) are both valid.
type Alarm struct {
	AlarmID string `bson:"_id,omitempty" json:"id"`
	UserID  string `bson:"user_id" json:"user_id"`
	Time    string `bson:"time" json:"time" binding:"required"`
	Label   string `bson:"label" json:"label"`
	Enabled bool   `bson:"enabled" json:"enabled"`
	Days    []int  `bson:"days" json:"days"`
}
