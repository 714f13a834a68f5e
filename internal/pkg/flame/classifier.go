// Package flame implements the deterministic companion response engine:
// crisis and emotion classification over keyword tables, fixed safety
// messages, and template-bank response composition.
//
// Responses target a 4th-5th grade reading level with a non-clinical,
// peer support tone. No therapy claims, no learning, no external calls.
package flame

import "strings"

// CrisisLevel grades detected crisis language.
type CrisisLevel string

const (
	CrisisLow    CrisisLevel = "low"
	CrisisMedium CrisisLevel = "medium"
	CrisisHigh   CrisisLevel = "high"
)

// Emotion is the primary detected emotion bucket.
type Emotion string

const (
	EmotionAnxious     Emotion = "anxious"
	EmotionSad         Emotion = "sad"
	EmotionAngry       Emotion = "angry"
	EmotionOverwhelmed Emotion = "overwhelmed"
	EmotionStressed    Emotion = "stressed"
	EmotionLonely      Emotion = "lonely"
	EmotionGeneral     Emotion = "general"
)

// Crisis keyword lists in priority order. Within a list the first match
// wins; the high list is always checked before medium before low.
var crisisHighKeywords = []string{
	"kill myself",
	"end my life",
	"suicide",
	"want to die",
	"better off dead",
	"end it all",
	"no reason to live",
	"hurt myself",
	"take my life",
}

var crisisMediumKeywords = []string{
	"self harm",
	"cut myself",
	"harm myself",
	"hate myself",
	"worthless",
	"hopeless",
	"no point",
	"give up",
}

var crisisLowKeywords = []string{
	"depressed",
	"anxious",
	"scared",
	"alone",
	"sad",
	"worried",
	"stressed",
}

// emotionPatterns is ordered: earlier entries win ties.
var emotionPatterns = []struct {
	emotion  Emotion
	keywords []string
}{
	{EmotionAnxious, []string{"anxious", "worried", "nervous", "scared", "panic", "afraid"}},
	{EmotionSad, []string{"sad", "down", "depressed", "lonely", "empty", "numb"}},
	{EmotionAngry, []string{"angry", "mad", "furious", "frustrated", "irritated", "rage"}},
	{EmotionOverwhelmed, []string{"overwhelmed", "too much", "can't handle", "breaking down"}},
	{EmotionStressed, []string{"stressed", "pressure", "tense", "strained"}},
	{EmotionLonely, []string{"lonely", "alone", "isolated", "nobody", "abandoned"}},
}

// Classification is the result of running crisis and emotion detection
// over one message.
type Classification struct {
	IsCrisis bool
	Level    CrisisLevel
	Emotion  Emotion
}

// Classify runs crisis detection followed by emotion detection. Emotion
// detection is skipped for high/medium crisis: the safety message always
// takes priority over a styled response.
func Classify(text string) Classification {
	lower := strings.ToLower(text)

	if containsAny(lower, crisisHighKeywords) {
		return Classification{IsCrisis: true, Level: CrisisHigh, Emotion: EmotionGeneral}
	}
	if containsAny(lower, crisisMediumKeywords) {
		return Classification{IsCrisis: true, Level: CrisisMedium, Emotion: EmotionGeneral}
	}

	c := Classification{Emotion: detectEmotion(lower)}
	if containsAny(lower, crisisLowKeywords) {
		c.IsCrisis = true
		c.Level = CrisisLow
	}
	return c
}

func containsAny(lower string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func detectEmotion(lower string) Emotion {
	for _, p := range emotionPatterns {
		for _, kw := range p.keywords {
			if strings.Contains(lower, kw) {
				return p.emotion
			}
		}
	}
	return EmotionGeneral
}
