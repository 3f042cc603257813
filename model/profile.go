package model

// UserProfile is the per-user singleton profile document. PhotoURL and
// About are optional and stripped from the stored document when unset.
type UserProfile struct {
	Name     string `bson:"name" json:"name"`
	PhotoURL string `bson:"photo_url,omitempty" json:"photo_url,omitempty"`
	About    string `bson:"about,omitempty" json:"about,omitempty"`
}

// DashboardConfig controls which dashboard widgets render, in order.
type DashboardConfig struct {
	Widgets []string `bson:"widgets" json:"widgets"`
}

const DefaultAbout = "Welcome to your Everything App."

func DefaultProfile(name string) UserProfile {
	if name == "" {
		name = "User"
	}
	return UserProfile{
		Name:  name,
		About: DefaultAbout,
	}
}

func DefaultDashboardConfig() DashboardConfig {
	return DashboardConfig{
		Widgets: []string{"greeting", "tasks", "events", "alarms"},
	}
}
