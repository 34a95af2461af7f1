package workitem

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/klokku/burnup/pkg/burn"
	log "github.com/sirupsen/logrus"
)

var ErrUnparseableDate = errors.New("unparseable resolution date")
var ErrInvalidPoints = errors.New("invalid story points")

// NoDate is what planning boards show for an item that was never resolved.
const NoDate = "--"

const unknownStatus = "Unknown"

// RawItem is a card as read from a board, every field still text.
type RawItem struct {
	StoryPoints    string `yaml:"storyPoints" json:"storyPoints"`
	Status         string `yaml:"status" json:"status"`
	ResolutionDate string `yaml:"resolutionDate" json:"resolutionDate"`
	List           string `yaml:"list,omitempty" json:"list,omitempty"`
}

// Layouts tried in order. Boards render either the Brazilian numeric form or
// the English medium form depending on the user's locale.
var dateLayouts = []string{
	"02/01/2006 15:04:05",
	"02/01/2006",
	"Jan 02, 2006, 03:04:05 PM",
	"Jan 2, 2006, 3:04:05 PM",
	"Jan 02, 2006",
	"Jan 2, 2006",
	time.RFC3339,
	"2006-01-02",
}

// NormalizeDate reduces a board's date text to a calendar day in loc. It
// returns nil without error for the "no date" markers.
func NormalizeDate(text string, loc *time.Location) (*burn.Date, error) {
	text = strings.TrimSpace(text)
	switch strings.ToLower(text) {
	case "", NoDate, "unknown":
		return nil, nil
	}
	for _, layout := range dateLayouts {
		t, err := time.ParseInLocation(layout, text, loc)
		if err != nil {
			continue
		}
		d := burn.DateOf(t.In(loc))
		return &d, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnparseableDate, text)
}

// ParsePoints reads a story point estimate; an empty field is 0. Negative and
// non-finite values are rejected.
func ParsePoints(text string) (float64, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return 0, nil
	}
	points, err := strconv.ParseFloat(strings.ReplaceAll(text, ",", "."), 64)
	if err != nil || points < 0 || math.IsNaN(points) || math.IsInf(points, 0) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidPoints, text)
	}
	return points, nil
}

// Normalize converts raw cards to work items. Bad estimates count as 0 and bad
// dates as missing; both are logged and never fail the batch.
func Normalize(raw []RawItem, loc *time.Location) []burn.WorkItem {
	items := make([]burn.WorkItem, 0, len(raw))
	for i, r := range raw {
		points, err := ParsePoints(r.StoryPoints)
		if err != nil {
			log.Warnf("item %d: %v, counting as 0", i, err)
		}
		resolved, err := NormalizeDate(r.ResolutionDate, loc)
		if err != nil {
			log.Warnf("item %d: %v, treating as unresolved", i, err)
		}
		status := strings.TrimSpace(r.Status)
		if status == "" {
			status = unknownStatus
		}
		items = append(items, burn.WorkItem{
			StoryPoints:    points,
			Status:         status,
			ResolutionDate: resolved,
		})
	}
	return items
}
