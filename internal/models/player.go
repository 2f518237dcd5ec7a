// internal/models/player.go
package models

// PlayerContext is the auxiliary data captured when a player joins. It is
// only used when reporting final results to the external points service;
// the credential is an opaque pass-through and is never verified here.
type PlayerContext struct {
	EventID    string `json:"eventId,omitempty"`
	GameID     string `json:"gameId,omitempty"`
	Credential string `json:"-"`
}
