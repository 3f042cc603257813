package dto

import "github.com/kriswind/everything-app/model"

type CreateAlarmRequest struct {
	Time    string `json:"time" binding:"required"`
	Label   string `json:"label"`
	Enabled *bool  `json:"enabled"`
	Days    []int  `json:"days"`
}

// AlarmUpdate carries a partial alarm mutation; nil fields are untouched.
type AlarmUpdate struct {
	Time  *string `json:"time"`
	Label *string `json:"label"`
	Days  *[]int  `json:"days"`
}

type AlarmResponse struct {
	ID      string `json:"id"`
	Time    string `json:"time"`
	Label   string `json:"label"`
	Enabled bool   `json:"enabled"`
	Days    []int  `json:"days"`
}

func ToAlarmResponse(alarm *model.Alarm) AlarmResponse {
	return AlarmResponse{
		ID:      alarm.AlarmID,
		Time:    alarm.Time,
		Label:   alarm.Label,
		Enabled: alarm.Enabled,
		Days:    alarm.Days,
	}
}

func ToAlarmResponses(alarms []*model.Alarm) []AlarmResponse {
	responses := make([]AlarmResponse, len(alarms))
	for i, alarm := range alarms {
		responses[i] = ToAlarmResponse(alarm)
	}
	return responses
}
