package vibe

import "strings"

// Label is the coarse mood/intent tag inferred for a single utterance.
type Label string

const (
	Adventurous Label = "adventurous"
	Relaxed     Label = "relaxed"
	Hungry      Label = "hungry"
	Curious     Label = "curious"
	InAHurry    Label = "in_a_hurry"
	Social      Label = "social"
	Neutral     Label = "neutral"
)

var valid = map[Label]struct{}{
	Adventurous: {},
	Relaxed:     {},
	Hungry:      {},
	Curious:     {},
	InAHurry:    {},
	Social:      {},
	Neutral:     {},
}

// Normalize coerces free-form model output into the closed label set.
// Anything outside the set maps to Neutral so downstream prompt assembly
// never sees an unknown vibe.
func Normalize(raw string) Label {
	cleaned := Label(strings.ReplaceAll(strings.ToLower(strings.TrimSpace(raw)), " ", "_"))
	if _, ok := valid[cleaned]; ok {
		return cleaned
	}
	return Neutral
}

// Describe turns a label into the short context sentence embedded in the
// master prompt.
func Describe(label Label) string {
	switch label {
	case Adventurous:
		return "The user is in an adventurous mood, so lean into bold, off-the-beaten-path suggestions."
	case Relaxed:
		return "The user wants to take it easy, so suggest calm, unhurried options."
	case Hungry:
		return "The user is hungry, so prioritize food and lead with eating options."
	case Curious:
		return "The user is curious, so add a little history or background color to your answer."
	case InAHurry:
		return "The user is in a hurry, so keep the answer short and pick the single best option."
	case Social:
		return "The user wants a lively, social scene, so favor busy and popular spots."
	default:
		return "The user's mood reads neutral, so keep a balanced, friendly tone."
	}
}
