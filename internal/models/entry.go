package models

import "time"

type Entry struct {
	EntryID    string     `json:"entry_id"`
	TenantID   string     `json:"tenant_id,omitempty"`
	Name       string     `json:"name"`
	Phone      string     `json:"phone,omitempty"`
	PartySize  int        `json:"party_size"`
	Priority   string     `json:"priority,omitempty"`
	Status     string     `json:"status"`
	CreatedAt  time.Time  `json:"created_at"`
	SeatedAt   *time.Time `json:"seated_at,omitempty"`
	CanceledAt *time.Time `json:"canceled_at,omitempty"`
	TableLabel *string    `json:"table_label,omitempty"`
	Day        string     `json:"day"`
	// Position is the displayed queue number: starting number plus the
	// entry's rank among waiting entries. Set on snapshots only.
	Position int `json:"position,omitempty"`
}

type DrinkCharge struct {
	ChargeID  string    `json:"charge_id"`
	EntryID   string    `json:"entry_id"`
	Label     string    `json:"label"`
	Price     float64   `json:"price"`
	CreatedAt time.Time `json:"created_at"`
}

const (
	StatusWaiting  = "waiting"
	StatusSeated   = "seated"
	StatusCanceled = "canceled"
)

const (
	PriorityElderly    = "elderly"
	PriorityDisability = "disability"
	PriorityPregnant   = "pregnant"
	PriorityOther      = "other"
)

// ValidPriority reports whether value is an accepted priority tag.
// Priority flags an entry visually and never changes queue order.
func ValidPriority(value string) bool {
	switch value {
	case PriorityElderly, PriorityDisability, PriorityPregnant, PriorityOther:
		return true
	}
	return false
}
