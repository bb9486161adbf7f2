package store

import "waitly/waitlist-service/internal/models"

// Edits are legal in every status; seated is terminal for the queue,
// canceled entries can be reinstated back to waiting.
var transitionMap = map[string][]string{
	"seat":      {models.StatusWaiting},
	"cancel":    {models.StatusWaiting},
	"reinstate": {models.StatusCanceled},
	"edit":      {models.StatusWaiting, models.StatusSeated, models.StatusCanceled},
}

func ValidTransition(action, fromStatus string) bool {
	allowed, ok := transitionMap[action]
	if !ok {
		return false
	}
	for _, status := range allowed {
		if status == fromStatus {
			return true
		}
	}
	return false
}
