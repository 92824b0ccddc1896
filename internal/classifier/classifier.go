// Package classifier decides whether shared content is about environmental
// activities. It is a best-effort keyword heuristic favouring recall, not a
// moderation guarantee.
package classifier

import "strings"

// RejectionReason is attached to posts the classifier does not admit.
const RejectionReason = "Post does not appear to be related to environmental activities."

var keywords = []string{
	"tree", "trees", "plant", "planting", "sapling", "recycle", "recycling", "cleanup", "clean-up", "clean up", "beach cleanup",
	"plastic-free", "plastic free", "compost", "composting", "sustainability", "sustainable", "renewable", "solar", "wind", "bicycle",
	"bike", "cycle", "cycling", "carpool", "wildlife", "conservation", "river clean", "river cleanup", "greenery", "garden", "gardening",
	"biodiversity", "zero waste", "ewaste", "e-waste", "energy saving", "water saving", "rainwater", "harvesting", "eco", "environment",
	"#treeplanting", "#cleanupdrive", "#recycling", "#ecopoints", "#sustainability", "#green",
}

// Keywords returns a copy of the vocabulary used by Classify.
func Keywords() []string {
	return append([]string(nil), keywords...)
}

// Classify reports whether the caption or any tag contains a keyword.
// Matching is case-insensitive substring matching.
func Classify(caption string, tags []string) bool {
	hay := strings.ToLower(caption + " " + strings.Join(tags, " "))
	for _, k := range keywords {
		if strings.Contains(hay, k) {
			return true
		}
	}
	return false
}
