package plan

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/travel-advisor/internal/domain"
)

const (
	guideMaxTokens   = 2000
	wordsPerDay      = 50
	invalidAddressJS = `{"isValidAddress": false}`
)

// flattenSpots renders spots grouped by city as "A, B in CityX, C in CityY", cities ascending.
func flattenSpots(spotsByCity map[string][]string) string {
	cities := make([]string, 0, len(spotsByCity))
	for city := range spotsByCity {
		cities = append(cities, city)
	}
	sort.Strings(cities)

	parts := make([]string, 0, len(cities))
	for _, city := range cities {
		parts = append(parts, strings.Join(spotsByCity[city], ", ")+" in "+city)
	}
	return strings.Join(parts, ", ")
}

func guidePrompt(startPoint string, spotsByCity map[string][]string, days int) string {
	return fmt.Sprintf(
		`Is "%[1]s" a valid address? If no, reply in JSON format  {"isValidAddress": false}.`+
			`Otherwise, given the start point "%[1]s", the spots to visit "%[2]s", `+
			`estimated travel time "%[3]d day(s)", provide a about %[4]d words travel guide in strict JSON format only. `+
			`If "%[1]s" is valid, the response should be in the following format: `+
			`{"isValidAddress": true, "travelGuide": {"Day 1": {"Morning": "activity", "Afternoon": "activity", "Evening": "activity"}, ...}}`,
		startPoint, flattenSpots(spotsByCity), days, days*wordsPerDay,
	)
}

// parseGuideReply drops any prose before the first '{' and decodes the rest.
// A reply without '{' is read as a rejected address.
func parseGuideReply(reply string) (*domain.TravelGuide, error) {
	body := invalidAddressJS
	if i := strings.IndexByte(reply, '{'); i >= 0 {
		body = reply[i:]
	}
	var g domain.TravelGuide
	if err := json.Unmarshal([]byte(body), &g); err != nil {
		return nil, fmt.Errorf("parse travel guide reply: %v: %w", err, domain.ErrMalformedReply)
	}
	return &g, nil
}
