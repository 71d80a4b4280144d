package oracle

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pvoronin/quotecheck/internal/model"
)

// rawItem mirrors the oracle's JSON output schema before validation
type rawItem struct {
	Location      string `json:"location"`
	QuoteText     string `json:"quote_text"`
	ClaimedSource string `json:"claimed_source"`
	Status        string `json:"status"`
	Notes         string `json:"notes"`
}

// ParseItems decodes an oracle response into validated verification items.
// Code fences and surrounding prose are stripped before decoding. Items
// that fail schema validation are dropped individually so one malformed
// item never blocks the others; a response with no decodable JSON array at
// all returns an error.
func ParseItems(raw string) ([]model.VerificationItem, error) {
	payload := extractJSONArray(raw)
	if payload == "" {
		return nil, fmt.Errorf("no JSON array in oracle response")
	}

	var rawItems []rawItem
	if err := json.Unmarshal([]byte(payload), &rawItems); err != nil {
		return nil, fmt.Errorf("decode oracle response: %w", err)
	}

	items := make([]model.VerificationItem, 0, len(rawItems))
	for _, r := range rawItems {
		if item, ok := validateItem(r); ok {
			items = append(items, item)
		}
	}
	return items, nil
}

// extractJSONArray strips formatting fences and other decoration, returning
// the outermost JSON array in the text (empty string when there is none).
func extractJSONArray(raw string) string {
	start := strings.Index(raw, "[")
	end := strings.LastIndex(raw, "]")
	if start < 0 || end <= start {
		return ""
	}
	return raw[start : end+1]
}

// validateItem enforces the output schema on one decoded item. Status
// values are case-coerced before the enumeration check; items missing a
// location, quote text or valid status are rejected. An empty claimed
// source becomes "unspecified".
func validateItem(r rawItem) (model.VerificationItem, bool) {
	location := strings.TrimSpace(r.Location)
	if location == "" || strings.TrimSpace(r.QuoteText) == "" {
		return model.VerificationItem{}, false
	}

	status := model.Status(strings.ToUpper(strings.TrimSpace(r.Status)))
	if !status.IsValid() {
		return model.VerificationItem{}, false
	}

	source := strings.TrimSpace(r.ClaimedSource)
	if source == "" {
		source = "unspecified"
	}

	return model.VerificationItem{
		Location:      location,
		QuoteText:     r.QuoteText,
		ClaimedSource: source,
		Status:        status,
		Notes:         r.Notes,
	}, true
}
