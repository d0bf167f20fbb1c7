package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// TravelPlan is a saved itinerary. Owning users reference it by ID; the plan holds no back-reference.
type TravelPlan struct {
	ID         string    `json:"_id" bson:"_id"`
	Duration   int       `json:"timeCost" bson:"timeCost"`
	StartPoint string    `json:"startPoint" bson:"startPoint"`
	Spots      []string  `json:"spots" bson:"spots"`
	Details    Itinerary `json:"details" bson:"details"`
	CreatedAt  time.Time `json:"createdAt" bson:"createdAt"`
}

// Itinerary is keyed by day label ("Day 1", "Day 2", ...). Each day usually maps
// "Morning", "Afternoon" and "Evening" to an activity, but the values are kept
// exactly as the completion provider or the client sent them.
type Itinerary map[string]interface{}

// Days is a day count that decodes from a JSON number or a numeric string ("3").
// An empty string or null decodes as zero.
type Days int

func (d *Days) UnmarshalJSON(b []byte) error {
	raw := strings.TrimSpace(string(b))
	if raw == "null" {
		return nil
	}
	if strings.HasPrefix(raw, `"`) {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		raw = strings.TrimSpace(s)
		if raw == "" {
			*d = 0
			return nil
		}
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return fmt.Errorf("timeCost %s is not a whole number of days", raw)
	}
	*d = Days(n)
	return nil
}

type CreatePlanRequest struct {
	Duration   Days      `json:"timeCost" validate:"gte=0"`
	StartPoint string    `json:"startPoint"`
	Spots      []string  `json:"spots"`
	Details    Itinerary `json:"details"`
}

type CreateGuideRequest struct {
	StartPoint  string              `json:"startPoint" validate:"required"`
	SpotsByCity map[string][]string `json:"spots" validate:"required"`
	Duration    Days                `json:"timeCost" validate:"gte=1"`
}

// TravelGuide is the parsed completion reply. TravelGuide is nil when the address was rejected.
type TravelGuide struct {
	IsValidAddress bool      `json:"isValidAddress"`
	TravelGuide    Itinerary `json:"travelGuide,omitempty"`
}
