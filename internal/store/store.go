package store

import (
	"context"
	"time"

	"waitly/waitlist-service/internal/models"
)

type CreateEntryInput struct {
	TenantID  string
	Name      string
	Phone     string
	PartySize int
	Priority  string
	CreatedAt time.Time
}

type UpdateEntryInput struct {
	TenantID  string
	EntryID   string
	Name      *string
	Phone     *string
	PartySize *int
}

type EntryActionInput struct {
	TenantID   string
	EntryID    string
	TableLabel string
	OccurredAt time.Time
}

type AddDrinkChargeInput struct {
	TenantID  string
	EntryID   string
	Label     string
	Price     float64
	CreatedAt time.Time
}

type DaySnapshot struct {
	Waiting        []models.Entry       `json:"waiting"`
	History        []models.Entry       `json:"history"`
	DrinkCharges   []models.DrinkCharge `json:"drink_charges"`
	StartingNumber int                  `json:"starting_number"`
}

type WaitlistStore interface {
	CreateEntry(ctx context.Context, input CreateEntryInput) (models.Entry, error)
	GetEntry(ctx context.Context, tenantID, entryID string) (models.Entry, error)
	UpdateEntry(ctx context.Context, input UpdateEntryInput) (models.Entry, error)
	SeatEntry(ctx context.Context, input EntryActionInput) (models.Entry, error)
	CancelEntry(ctx context.Context, input EntryActionInput) (models.Entry, error)
	ReinstateEntry(ctx context.Context, input EntryActionInput) (models.Entry, error)
	AddDrinkCharge(ctx context.Context, input AddDrinkChargeInput) (models.DrinkCharge, error)
	ListDrinkCharges(ctx context.Context, tenantID, entryID string) ([]models.DrinkCharge, error)
	DaySnapshot(ctx context.Context, tenantID, day string) (DaySnapshot, error)
	SetStartingNumber(ctx context.Context, tenantID, day string, number int) error
	GetSession(ctx context.Context, sessionID string) (Session, error)
}

type Session struct {
	SessionID string
	UserID    string
	TenantID  string
	Role      string
	ExpiresAt time.Time
}
