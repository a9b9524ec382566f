package domain

// EventType - что произошло на уровне (для игрового лога)
type EventType uint8

const (
	EventUnknown EventType = iota
	EventLevelStart
	EventCoinCollected
	EventLevelComplete
	EventCaught
	EventTimeUp
	EventPaused
	EventResumed
	EventLevelFailed
)

// Маппинг для логов Domain -> String
var eventCmdToString = map[EventType]string{
	EventLevelStart:    "LEVEL_START",
	EventCoinCollected: "COIN",
	EventLevelComplete: "LEVEL_COMPLETE",
	EventCaught:        "CAUGHT",
	EventTimeUp:        "TIME_UP",
	EventPaused:        "PAUSED",
	EventResumed:       "RESUMED",
	EventLevelFailed:   "LEVEL_FAILED",
}

// String реализует интерфейс Stringer (для fmt.Printf)
func (e EventType) String() string {
	if val, ok := eventCmdToString[e]; ok {
		return val
	}
	return "UNKNOWN"
}
