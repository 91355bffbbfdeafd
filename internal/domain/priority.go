package domain

import (
	"fmt"
	"strings"
)

// Priority is the derived urgency tier for a report or social post.
type Priority string

const (
	PriorityUrgent Priority = "urgent"
	PriorityHigh   Priority = "high"
	PriorityNormal Priority = "normal"
)

// PriorityTier is an ordered keyword group. Earlier tiers represent higher
// urgency and are checked first; within a tier, keyword order is the
// tie-break.
type PriorityTier struct {
	Level    Priority
	Label    string // appears in the classification reason, e.g. "urgent"
	Keywords []string
}

// defaultPriorityTiers mirrors the keyword lists used for social post triage.
var defaultPriorityTiers = []PriorityTier{
	{
		Level:    PriorityUrgent,
		Label:    "urgent",
		Keywords: []string{"urgent", "sos", "emergency", "help", "immediate", "critical", "trapped", "rescue"},
	},
	{
		Level:    PriorityHigh,
		Label:    "high priority",
		Keywords: []string{"evacuate", "flooding", "fire", "danger", "warning", "shelter", "medical"},
	},
}

// Classification is the derived priority projection for a single item. It is
// recomputed on every read and never stored.
type Classification struct {
	Priority Priority `json:"priority"`
	Reason   string   `json:"priority_reason"`
}

// PriorityClassifier ranks free text into a severity tier using ordered
// keyword lists. It is stateless and safe for concurrent use.
type PriorityClassifier struct {
	tiers []PriorityTier
}

// NewPriorityClassifier creates a classifier over the given ordered tiers.
// Pass nil to use the default tiers.
func NewPriorityClassifier(tiers []PriorityTier) *PriorityClassifier {
	if tiers == nil {
		tiers = defaultPriorityTiers
	}
	return &PriorityClassifier{tiers: tiers}
}

// Classify returns the priority of the first tier containing a keyword found
// in the text, matched case-insensitively. Within a tier the first keyword in
// declared order wins and is quoted verbatim in the reason. Text matching no
// tier is normal priority.
func (c *PriorityClassifier) Classify(text string) Classification {
	lower := strings.ToLower(text)
	for _, tier := range c.tiers {
		for _, kw := range tier.Keywords {
			if strings.Contains(lower, kw) {
				return Classification{
					Priority: tier.Level,
					Reason:   fmt.Sprintf("Contains %s keyword: %s", tier.Label, kw),
				}
			}
		}
	}
	return Classification{Priority: PriorityNormal, Reason: "Standard post"}
}
