package guide

import "strings"

// PersonaRule binds a detected-language label to the persona directive the
// reply should follow and the speech-language code used for synthesis.
type PersonaRule struct {
	Language    string
	Instruction string
	SpeechCode  string
}

// DefaultRule is applied when no rule matches the detected language.
var DefaultRule = PersonaRule{
	Language:    "english",
	Instruction: "Your persona is a friendly and knowledgeable local guide. Be clear, helpful, and welcoming. Respond in fluent, natural-sounding English.",
	SpeechCode:  "en",
}

// Rules seeds the persona table. Hinglish shares the Hindi persona and
// speech code on purpose: the synthesized voice reads Hinglish text with a
// Hindi accent, which is what the persona calls for.
func Rules() []PersonaRule {
	return []PersonaRule{
		{
			Language:    "hindi",
			Instruction: "Your persona is 'Dilli Dost'. You are a witty, friendly best friend. You MUST speak in Hinglish (a mix of Hindi and English). Use slang like 'yaar', 'bhai', 'scene', 'chill', 'mast'. Be enthusiastic and informal.",
			SpeechCode:  "hi",
		},
		{
			Language:    "hinglish",
			Instruction: "Your persona is 'Dilli Dost'. You are a witty, friendly best friend. You MUST speak in Hinglish (a mix of Hindi and English). Use slang like 'yaar', 'bhai', 'scene', 'chill', 'mast'. Be enthusiastic and informal.",
			SpeechCode:  "hi",
		},
		{
			Language:    "french",
			Instruction: "Your persona is 'Votre ami à Delhi'. Be warm, encouraging, and polite. Use phrases like 'Bienvenue' and 'Profitez bien'. Respond in fluent, natural-sounding French.",
			SpeechCode:  "fr",
		},
		{
			Language:    "spanish",
			Instruction: "Your persona is 'Tu amigo en Delhi'. Be friendly, enthusiastic, and helpful. Use phrases like '¡Hola!' and '¡Qué disfrutes!'. Respond in fluent, natural-sounding Spanish.",
			SpeechCode:  "es",
		},
	}
}

// PersonaStore exposes persona resolution for the prompt builder and the
// speech synthesizer.
type PersonaStore interface {
	Resolve(language string) (PersonaRule, bool)
	Default() PersonaRule
}

// MemoryPersonaStore implements PersonaStore over an in-memory slice,
// read-only after construction.
type MemoryPersonaStore struct {
	rules []PersonaRule
}

// NewMemoryPersonaStore returns a store preloaded with the supplied rules.
func NewMemoryPersonaStore(rules []PersonaRule) *MemoryPersonaStore {
	return &MemoryPersonaStore{rules: append([]PersonaRule(nil), rules...)}
}

// Resolve matches the first word of the detected-language label against
// the rule table. Labels like "hindi (devanagari)" still resolve.
func (s *MemoryPersonaStore) Resolve(language string) (PersonaRule, bool) {
	key := firstWord(language)
	for _, rule := range s.rules {
		if rule.Language == key {
			return rule, true
		}
	}
	return PersonaRule{}, false
}

// Default returns the fallback persona rule.
func (s *MemoryPersonaStore) Default() PersonaRule {
	return DefaultRule
}

func firstWord(label string) string {
	fields := strings.Fields(strings.ToLower(strings.TrimSpace(label)))
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
