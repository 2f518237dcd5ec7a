// internal/models/event.go
package models

import "time"

// Event statuses as advanced by the phase scheduler.
const (
	EventStatusWaiting  = "waiting"
	EventStatusStarting = "starting"
	EventStatusHosting  = "hosting"
	EventStatusEnded    = "ended"
)

// Event is one upcoming quiz event from the external catalog, wrapped with the
// local status and player count the catalog source knows nothing about.
type Event struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	GameName  string    `json:"gameName"`
	StartTime time.Time `json:"startTime"`

	// Status is advanced only by the phase scheduler:
	// waiting -> starting -> hosting -> ended.
	Status      string `json:"status"`
	PlayerCount int    `json:"playerCount"`
}
