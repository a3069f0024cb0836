package events

import "time"

// EventType describes the kind of event emitted by the game.
type EventType string

const (
	EventTypeShipDestroyed       EventType = "ShipDestroyed"
	EventTypeZoneAdvanced        EventType = "ZoneAdvanced"
	EventTypeAchievementUnlocked EventType = "AchievementUnlocked"
	EventTypeUpgradePurchased    EventType = "UpgradePurchased"
	EventTypeArtifactPurchased   EventType = "ArtifactPurchased"
	EventTypeSkillActivated      EventType = "SkillActivated"
	EventTypePrestiged           EventType = "Prestiged"
	EventTypeOfflineProgress     EventType = "OfflineProgress"
	EventTypeSaveImported        EventType = "SaveImported"
)

// ShipDestroyedData is the payload for one or more kills in a single hit.
type ShipDestroyedData struct {
	Kills     int
	BossKills int
	Reward    float64
	NextLevel int
}

type ZoneAdvancedData struct {
	From int
	To   int
}

type AchievementUnlockedData struct {
	ID     string
	Reward float64
}

type PurchaseData struct {
	ID    string
	Level int
}

type SkillActivatedData struct {
	ID string
}

type PrestigedData struct {
	Gems           int64
	TotalPrestiges int
	StartZone      int
}

type OfflineProgressData struct {
	Elapsed time.Duration
	Reward  float64
	Kills   int
}

// Event represents a game event produced by command execution.
type Event struct {
	ID        uint64
	At        time.Time
	CommandID string
	Type      EventType
	Data      any
}

// New constructs a new Event with the provided fields.
func New(id uint64, at time.Time, commandID string, eventType EventType, data any) Event {
	return Event{
		ID:        id,
		At:        at,
		CommandID: commandID,
		Type:      eventType,
		Data:      data,
	}
}
