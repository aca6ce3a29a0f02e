package dto

import "github.com/AadeshhhGavhane/campus-sync-apsit-sub000/internal/timetable"

// ── availability ──

// AvailabilityQuery free-by-window query
type AvailabilityQuery struct {
	Day    string `form:"day"    binding:"required,weekday"`
	Search string `form:"search" binding:"omitempty,max=100"`
}

// ResourceAvailabilityQuery free-by-resource query; Window is "HH:MM-HH:MM"
type ResourceAvailabilityQuery struct {
	Day    string `form:"day"    binding:"required,weekday"`
	Window string `form:"window" binding:"omitempty,max=32"`
	Search string `form:"search" binding:"omitempty,max=100"`
}

// WindowAvailabilityResponse free-by-window result
type WindowAvailabilityResponse struct {
	Day     string                         `json:"day"`
	Windows []timetable.WindowAvailability `json:"windows"`
}

// ResourceAvailabilityResponse free-by-resource result
type ResourceAvailabilityResponse struct {
	Day       string                           `json:"day"`
	Window    *timetable.Window                `json:"window,omitempty"`
	Resources []timetable.ResourceAvailability `json:"resources"`
}
