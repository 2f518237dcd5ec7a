// internal/show/events.go
package show

// EventType names every server->client notification on the realtime channel.
type EventType string

const (
	EventCatalogUpdate     EventType = "eventsUpdate"       // full catalog snapshot
	EventRoomCodeGenerated EventType = "roomCodeGenerated"  // room code announcement
	EventGameStarting      EventType = "gameStarting"       // room open, with code + absolute start time
	EventRoomJoined        EventType = "roomJoined"         // join acknowledgment
	EventRoomNotReady      EventType = "roomNotReady"       // join rejected: before the window
	EventRoomClosed        EventType = "roomClosed"         // join rejected: window over
	EventRoomNotFound      EventType = "roomNotFound"       // join rejected: no such room
	EventRoomCodeUpdated   EventType = "roomCodeUpdated"    // join rejected: code mismatch, carries current code
	EventPlayerJoined      EventType = "playerJoined"       // room notification with live count
	EventPlayerLeft        EventType = "playerLeft"         // room notification with live count
	EventPlayerCountUpdate EventType = "playerCountUpdate"  // audience-wide live count
	EventNewQuestion       EventType = "newQuestion"        // question push (text + options only)
	EventQuestionEnded     EventType = "questionEnded"      // answer reveal
	EventScoreUpdate       EventType = "scoreUpdate"        // point-to-point running score
	EventGameOver          EventType = "gameOver"           // own final score + leaderboard
	EventGameError         EventType = "gameError"          // error notice
	EventCurrentRoomCode   EventType = "currentRoomCode"    // reply to room-code poll
	EventNoActiveGame      EventType = "noActiveGame"       // reply to status poll with nothing scheduled
	EventEventQuestions    EventType = "eventQuestions"     // per-event question-count summary
)

// Event is one notification on the realtime channel. Payload shape depends on
// the type: an object for most events, a bare string for human-readable
// notices, a bare int for count and score updates.
type Event struct {
	Type    EventType   `json:"type"`
	Payload interface{} `json:"payload,omitempty"`
}
