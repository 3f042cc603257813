package dto

type RegisterRequest struct {
	Username string `json:"username" binding:"required,min=4,max=20"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,password"`
}

type LoginRequest struct {
	Username      string `json:"username" binding:"required"`
	Password      string `json:"password" binding:"required"`
	TwoFactorCode string `json:"two_factor_code"`
}

// ProfileUpdate shallow-merges into the profile singleton.
type ProfileUpdate struct {
	Name     *string `json:"name"`
	PhotoURL *string `json:"photo_url"`
	About    *string `json:"about"`
}

// TimerUpdate shallow-merges into the timer singleton.
type TimerUpdate struct {
	TimeLeft *int  `json:"time_left"`
	Duration *int  `json:"duration"`
	IsActive *bool `json:"is_active"`
}
