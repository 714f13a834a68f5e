package flame

import (
	"math/rand"
	"strings"
)

// Template banks. Every emotion has at least one entry in every bank and
// EmotionGeneral is the fallback, so composition is total.

var reflectionBank = map[Emotion][]string{
	EmotionAnxious: {
		"It sounds like you're feeling worried and things feel uncertain right now.",
		"I hear that you're feeling anxious and it's making things hard.",
		"It seems like worry is taking up a lot of space in your mind right now.",
	},
	EmotionSad: {
		"I hear that you're feeling down and things feel heavy right now.",
		"It sounds like you're going through a tough time and feeling sad.",
		"I can tell you're feeling low and it's hard to see the light right now.",
	},
	EmotionAngry: {
		"I hear that you're feeling frustrated and maybe things aren't fair.",
		"It sounds like you're angry about what's happening.",
		"I can tell something has made you feel really mad or upset.",
	},
	EmotionOverwhelmed: {
		"It sounds like you have too much on your plate right now.",
		"I hear that everything feels like too much to handle.",
		"It seems like you're dealing with a lot all at once.",
	},
	EmotionStressed: {
		"I hear that you're under a lot of pressure right now.",
		"It sounds like stress is weighing on you.",
		"I can tell you're feeling stretched thin.",
	},
	EmotionLonely: {
		"I hear that you're feeling alone right now.",
		"It sounds like you're missing connection with others.",
		"I can tell you're feeling isolated and it hurts.",
	},
	EmotionGeneral: {
		"I hear that you're going through something difficult.",
		"It sounds like you're dealing with a challenge right now.",
		"I can tell things aren't easy for you at the moment.",
	},
}

var nextStepBank = map[Emotion][]string{
	EmotionAnxious: {
		"Take a moment to slow down your breathing and ground yourself in the present.",
		"Try to identify one specific worry and write it down.",
		"Remember that you've felt anxious before and you got through it.",
	},
	EmotionSad: {
		"Do one small thing that used to make you feel a little better.",
		"Be kind to yourself. This feeling won't last forever.",
		"Reach out to someone you trust and let them know you're struggling.",
	},
	EmotionAngry: {
		"Give yourself permission to step away and cool down before acting.",
		"Name what made you angry without judging yourself for feeling this way.",
		"Find a healthy way to release this energy, like moving your body.",
	},
	EmotionOverwhelmed: {
		"Break things down into the smallest possible steps.",
		"Focus on just the next 5 minutes, not everything at once.",
		"Ask for help with one thing. You don't have to do it all alone.",
	},
	EmotionStressed: {
		"Take a real break, even if it's just 5 minutes.",
		"Check in with your body. Are you tense? Hungry? Tired?",
		"Let go of one thing that can wait until tomorrow.",
	},
	EmotionLonely: {
		"Reach out to someone, even with a simple message.",
		"Remember people who care about you, even if they're not here right now.",
		"Be somewhere around others, even if you don't interact.",
	},
	EmotionGeneral: {
		"Take a small step toward taking care of yourself.",
		"Notice what you need right now and try to give yourself that.",
		"Remember that you're doing the best you can.",
	},
}

var copingToolBank = map[Emotion][]string{
	EmotionAnxious: {
		"Try the 5-4-3-2-1 method: Name 5 things you see, 4 you can touch, 3 you hear, 2 you smell, and 1 you taste.",
		"Take 3 slow deep breaths. Breathe in for 4 counts, hold for 4, breathe out for 4.",
		"Put your hand on your chest and feel it go up and down as you breathe. This can help you feel calmer.",
	},
	EmotionSad: {
		"Do one small thing you used to enjoy, even if you don't feel like it right now.",
		"Write down 3 things you're grateful for today, even if they're small.",
		"Reach out to one person you trust and let them know you're having a hard time.",
	},
	EmotionAngry: {
		"Take a break and step away from what's making you angry for 5 minutes.",
		"Write down what you're feeling without stopping or thinking about it. Then throw it away or keep it.",
		"Do something physical like a quick walk or jumping jacks to release the energy.",
	},
	EmotionOverwhelmed: {
		"Pick just one small task to do right now. Just one. Everything else can wait.",
		"Make a simple list of what you need to do, then cross off anything that can wait.",
		"Set a timer for 5 minutes and just rest. Close your eyes or look out a window.",
	},
	EmotionStressed: {
		"Tense all your muscles for 5 seconds, then release them. Notice how your body feels.",
		"Listen to one song you like and focus only on the music.",
		"Drink a glass of water slowly. Pay attention to how it feels.",
	},
	EmotionLonely: {
		"Text or call one person, even just to say hi.",
		"Go somewhere with other people, even if you don't talk to them. A coffee shop or library can help.",
		"Remember: feeling alone doesn't mean you are alone. This feeling will pass.",
	},
	EmotionGeneral: {
		"Take a 5-minute break to do something different.",
		"Drink some water and notice how you feel.",
		"Name what you're feeling out loud or write it down.",
	},
}

// Response is one composed companion reply before any crisis handling.
type Response struct {
	Reflection string
	NextStep   string
	CopingTool string
}

// Text joins the three parts for delivery.
func (r Response) Text() string {
	return r.Reflection + "\n\n" + r.NextStep + "\n\n" + r.CopingTool
}

// Composer picks one line per bank and applies profile styling. The
// randomness source is injected so tests can pin a seed and assert exact
// output; production passes a time-seeded source.
type Composer struct {
	rng *rand.Rand
}

// NewComposer creates a composer from a randomness source.
func NewComposer(src rand.Source) *Composer {
	return &Composer{rng: rand.New(src)}
}

// Compose selects one reflection, next-step and coping-tool line for the
// emotion, then applies the profile transforms in fixed order: persona
// styling, age-tier substitution, personality sliders. Slider adjustments
// only apply when the profile enables them (top-tier capability, checked
// by the caller).
func (c *Composer) Compose(emotion Emotion, profile Profile) Response {
	r := Response{
		Reflection: c.pick(reflectionBank, emotion),
		NextStep:   c.pick(nextStepBank, emotion),
		CopingTool: c.pick(copingToolBank, emotion),
	}

	r.Reflection = styleForProfile(r.Reflection, profile)
	r.NextStep = styleForProfile(r.NextStep, profile)
	r.CopingTool = styleForProfile(r.CopingTool, profile)
	return r
}

func (c *Composer) pick(bank map[Emotion][]string, emotion Emotion) string {
	options, ok := bank[emotion]
	if !ok || len(options) == 0 {
		options = bank[EmotionGeneral]
	}
	return options[c.rng.Intn(len(options))]
}

// Variants returns every possible base line for an emotion and bank name,
// so callers can assert "one of N known outputs" without pinning a seed.
func Variants(bank string, emotion Emotion) []string {
	var b map[Emotion][]string
	switch bank {
	case "reflection":
		b = reflectionBank
	case "next_step":
		b = nextStepBank
	case "coping_tool":
		b = copingToolBank
	default:
		return nil
	}
	options, ok := b[emotion]
	if !ok {
		options = b[EmotionGeneral]
	}
	out := make([]string, len(options))
	copy(out, options)
	return out
}

func styleForProfile(text string, profile Profile) string {
	text = applyPersonaStyle(text, profile.Persona)
	text = applyAgeTierContext(text, profile.AgeTier)
	if profile.SlidersEnabled {
		text = applyPersonalitySliders(text, profile.Sliders)
	}
	return text
}

// normalizeSpace collapses doubled spaces left behind by word removals.
func normalizeSpace(s string) string {
	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}
	return strings.TrimSpace(s)
}
