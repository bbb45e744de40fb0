package ai

import (
	"fmt"
	"strings"

	"github.com/bharat3645/NomadAI/internal/analysis/vibe"
	"github.com/bharat3645/NomadAI/internal/model/convo"
	"github.com/bharat3645/NomadAI/internal/model/guide"
)

// NoTipSentinel is embedded when no curated tip matches the query.
const NoTipSentinel = "No specific insider tip found for this query."

// PromptInput carries everything the master prompt embeds. All fields are
// plain values so the builder stays deterministic and side-effect free.
type PromptInput struct {
	Language   string
	Query      string
	PlacesText string
	History    []convo.Turn
	TimeText   string
	Vibe       vibe.Label
}

// BuildMasterPrompt assembles the single instruction string for the
// response generator: persona directive, time and vibe context, bounded
// history, live places data, curated tip and the literal user query.
func BuildMasterPrompt(personas guide.PersonaStore, tips *guide.TipBook, in PromptInput) string {
	rule, ok := personas.Resolve(in.Language)
	if !ok {
		rule = personas.Default()
	}

	var b strings.Builder
	b.WriteString("You are NomadAI, a helpful and friendly local guide in Delhi. Your personality MUST adapt based on the user's language.\n\n")

	fmt.Fprintf(&b, "**Detected Language:** %s\n", in.Language)
	fmt.Fprintf(&b, "**Your Persona Instruction:** %s\n", rule.Instruction)
	fmt.Fprintf(&b, "**Current Time in Delhi:** %s\n", in.TimeText)
	fmt.Fprintf(&b, "**User's Current Vibe:** %s. %s\n", in.Vibe, vibe.Describe(in.Vibe))

	b.WriteString("\n**Your Task:**\n")
	fmt.Fprintf(&b, "1. Respond ONLY in fluent and natural-sounding %s. Do not mix languages unless the persona is Hinglish.\n", in.Language)
	b.WriteString("2. Weave the [Live Data] and [Secret Tip] together into a single, conversational, and helpful response. Do not just list the data like a robot. Synthesize it into a real recommendation.\n")
	b.WriteString("3. Use the [Conversation So Far] to resolve follow-up questions; pronouns like 'there' or 'that place' refer to places already discussed.\n")
	b.WriteString("4. If the user query is a simple greeting (like 'hello' or 'how are you'), respond with a warm greeting in the detected language and persona. Do not perform a location search for a simple greeting.\n")
	b.WriteString("5. Translate the meaning and vibe of the [Secret Tip], not just a literal word-for-word translation. Capture the *feeling* of the tip.\n")

	b.WriteString("\n---\n**[Conversation So Far]:**\n")
	b.WriteString(formatHistory(in.History))

	fmt.Fprintf(&b, "\n---\n**User's Query (in their language):** %q\n", in.Query)

	b.WriteString("---\n**[Live Data from Google Maps]:**\n")
	b.WriteString(in.PlacesText)

	b.WriteString("\n---\n**[Secret Tip from Local Database]:**\n")
	b.WriteString(resolveTip(tips, in.Query))

	b.WriteString("\n---\n\nNow, act as their friend and respond.")
	return b.String()
}

// resolveTip renders the first matching tip in declared order, or the
// sentinel when nothing matches.
func resolveTip(tips *guide.TipBook, query string) string {
	if tips == nil {
		return NoTipSentinel
	}

	tip, ok := tips.Match(query)
	if !ok {
		return NoTipSentinel
	}

	rendered := fmt.Sprintf("Insider Tip for %s: %s", tip.Place, tip.UniversalTip)
	if tip.Warning != "" {
		rendered += fmt.Sprintf(" (Warning: %s)", tip.Warning)
	}
	return rendered
}

func formatHistory(turns []convo.Turn) string {
	if len(turns) == 0 {
		return "No previous conversation."
	}

	lines := make([]string, 0, len(turns)*2)
	for _, turn := range turns {
		lines = append(lines,
			fmt.Sprintf("Traveler: %s", turn.User),
			fmt.Sprintf("NomadAI: %s", turn.Bot),
		)
	}
	return strings.Join(lines, "\n")
}
