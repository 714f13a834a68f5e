package flame

import "strings"

// Persona selects the companion's voice.
type Persona string

const (
	PersonaGentle Persona = "gentle"
	PersonaDirect Persona = "direct"
	PersonaBright Persona = "bright"
)

// AgeTier selects age-appropriate example vocabulary.
type AgeTier string

const (
	AgeYouth      AgeTier = "youth"
	AgeYoungAdult AgeTier = "young_adult"
	AgeAdult      AgeTier = "adult"
	AgeMature     AgeTier = "mature"
)

// Sliders are the custom personality adjustments, 1-10 with 5 neutral.
type Sliders struct {
	Warmth     int
	Directness int
	Humor      int
	Formality  int
}

// Profile bundles the styling inputs for one user. SlidersEnabled is set
// by the caller after a personality_sliders feature check.
type Profile struct {
	Persona        Persona
	AgeTier        AgeTier
	Sliders        Sliders
	SlidersEnabled bool
}

// DefaultProfile is the styling applied when a user has not customized
// their companion.
func DefaultProfile() Profile {
	return Profile{Persona: PersonaGentle, AgeTier: AgeAdult}
}

// applyPersonaStyle is a pure word-level transform. Unknown personas pass
// the text through unchanged.
func applyPersonaStyle(text string, persona Persona) string {
	switch persona {
	case PersonaDirect:
		text = strings.ReplaceAll(text, "It sounds like", "I can see")
		text = strings.ReplaceAll(text, "It seems like", "I can see")
		text = strings.ReplaceAll(text, "Try to", "Go ahead and")
	case PersonaBright:
		text = strings.ReplaceAll(text, "I hear that", "Thanks for telling me that")
		text = strings.ReplaceAll(text, "Remember that", "Don't forget that")
	}
	return text
}

// ageTierExamples swaps the generic "work" example for an age-fitting one,
// mirroring how examples shift across life stages.
var ageTierExamples = map[AgeTier]string{
	AgeYouth:      "school",
	AgeYoungAdult: "classes or work",
	AgeAdult:      "work",
	AgeMature:     "your day",
}

func applyAgeTierContext(text string, age AgeTier) string {
	example, ok := ageTierExamples[age]
	if !ok || example == "work" {
		return text
	}
	return strings.ReplaceAll(text, "work", example)
}

// applyPersonalitySliders layers the custom-personality word adjustments.
// Each slider only acts away from its neutral midpoint.
func applyPersonalitySliders(text string, s Sliders) string {
	if s.Warmth > 6 {
		text = strings.ReplaceAll(text, "you're", "you're really")
	} else if s.Warmth > 0 && s.Warmth < 4 {
		text = strings.ReplaceAll(text, "Be kind to yourself. ", "")
	}

	if s.Directness > 7 {
		text = strings.ReplaceAll(text, "you might", "you should")
		text = strings.ReplaceAll(text, "Try ", "Do ")
	} else if s.Directness > 0 && s.Directness < 4 {
		text = strings.ReplaceAll(text, "you should", "you might want to")
	}

	if s.Humor > 6 {
		text = strings.ReplaceAll(text, "deep breaths", "deep breaths (yes, that thing we forget to do)")
	}

	if s.Formality > 7 {
		text = strings.ReplaceAll(text, "you're", "you are")
		text = strings.ReplaceAll(text, "can't", "cannot")
		text = strings.ReplaceAll(text, "won't", "will not")
		text = strings.ReplaceAll(text, "don't", "do not")
	} else if s.Formality > 0 && s.Formality < 4 {
		text = strings.ReplaceAll(text, "you are", "you're")
		text = strings.ReplaceAll(text, "cannot", "can't")
	}

	return normalizeSpace(text)
}
