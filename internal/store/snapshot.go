package store

import (
	"math"
	"sort"

	"waitly/waitlist-service/internal/models"
)

// ServiceChargeRate is applied to drink consumption at display time only;
// stored prices never include it.
const ServiceChargeRate = 0.12

// OrderWaiting sorts entries by creation time ascending. Ties are broken by
// entry ID so repeated fetches render the same order.
func OrderWaiting(entries []models.Entry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].CreatedAt.Equal(entries[j].CreatedAt) {
			return entries[i].EntryID < entries[j].EntryID
		}
		return entries[i].CreatedAt.Before(entries[j].CreatedAt)
	})
}

// AssignPositions sets the displayed queue number on each entry:
// startingNumber plus the 0-based rank. The offset never reorders storage.
func AssignPositions(entries []models.Entry, startingNumber int) {
	if startingNumber < 1 {
		startingNumber = 1
	}
	for i := range entries {
		entries[i].Position = startingNumber + i
	}
}

// ConsumptionTotal sums charge prices and applies the service charge,
// both rounded to cents.
func ConsumptionTotal(charges []models.DrinkCharge) (subtotal, total float64) {
	for _, charge := range charges {
		subtotal += charge.Price
	}
	subtotal = roundCents(subtotal)
	total = roundCents(subtotal * (1 + ServiceChargeRate))
	return subtotal, total
}

func roundCents(value float64) float64 {
	return math.Round(value*100) / 100
}
