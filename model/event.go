package model

// CalendarEvent is a dated entry on the calendar. Date is a plain calendar
// day (YYYY-MM-DD); Time and Description are optional and must be absent
// from the stored document when unset.
type CalendarEvent struct {
	EventID     string `bson:"_id,omitempty" json:"id"`
	UserID      string `bson:"user_id" json:"user_id"`
	Title       string `bson:"title" json:"title" binding:"required"`
	Date        string `bson:"date" json:"date" binding:"required"`
	Time        string `bson:"time,omitempty" json:"time,omitempty"`
	Description string `bson:"description,omitempty" json:"description,omitempty"`
}
