package combat

import (
	"fmt"
	"strings"
)

// EventType classifies a combat log entry.
type EventType string

const (
	EventAttack EventType = "attack"
	EventMiss   EventType = "miss"
	EventCrit   EventType = "crit"
	EventFail   EventType = "fail"
	EventBlock  EventType = "block"
	EventShield EventType = "shield"
	EventDamage EventType = "damage"
	EventDot    EventType = "dot"
	EventHeal   EventType = "heal"
	EventThorns EventType = "thorns"
	EventBuff   EventType = "buff"
	EventDeath  EventType = "death"
	EventResult EventType = "result"
)

// Event is one structured log entry. Message wording is matched by log
// consumers ("shield absorbs", "Poison", stat names); keep it stable.
type Event struct {
	Turn    int       `json:"turn"`
	Type    EventType `json:"type"`
	Actor   string    `json:"actor,omitempty"`
	Target  string    `json:"target,omitempty"`
	Amount  float64   `json:"amount,omitempty"`
	Message string    `json:"message"`
}

// FormatLog renders events one per line, prefixed by turn.
func FormatLog(events []Event) string {
	var b strings.Builder
	for _, e := range events {
		fmt.Fprintf(&b, "[T%d] %-6s %s\n", e.Turn, e.Type, e.Message)
	}
	return b.String()
}
