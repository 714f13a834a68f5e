package flame

import (
	"strings"
	"testing"
)

func TestClassifyHighCrisis(t *testing.T) {
	tests := []string{
		"I want to end my life",
		"sometimes i think about SUICIDE",
		"i would be better off dead",
		"I want to hurt myself and I feel sad", // co-occurring low keyword
	}
	for _, text := range tests {
		c := Classify(text)
		if !c.IsCrisis || c.Level != CrisisHigh {
			t.Fatalf("Classify(%q) = %+v, want high crisis", text, c)
		}
		if c.Emotion != EmotionGeneral {
			t.Fatalf("Classify(%q) emotion = %q, want general (emotion detection skipped)", text, c.Emotion)
		}
	}
}

func TestClassifyMediumCrisis(t *testing.T) {
	c := Classify("I feel so worthless lately")
	if !c.IsCrisis || c.Level != CrisisMedium {
		t.Fatalf("got %+v, want medium crisis", c)
	}
}

func TestHighBeatsMedium(t *testing.T) {
	// "hate myself" is medium, "kill myself" is high; priority order wins
	// regardless of position in the text.
	c := Classify("I hate myself and want to kill myself")
	if c.Level != CrisisHigh {
		t.Fatalf("got level %q, want high", c.Level)
	}
}

func TestClassifyLowCrisisKeepsEmotion(t *testing.T) {
	c := Classify("I'm so stressed and worried about everything")
	if !c.IsCrisis || c.Level != CrisisLow {
		t.Fatalf("got %+v, want low crisis", c)
	}
	if c.Emotion != EmotionAnxious {
		t.Fatalf("emotion = %q, want anxious", c.Emotion)
	}
}

func TestClassifyEmotions(t *testing.T) {
	tests := []struct {
		text string
		want Emotion
	}{
		{"I'm nervous about tomorrow", EmotionAnxious},
		{"everything feels empty", EmotionSad},
		{"I am furious at my brother", EmotionAngry},
		{"it's all too much", EmotionOverwhelmed},
		{"so much pressure at my job", EmotionStressed},
		{"nobody ever calls me", EmotionLonely},
		{"had a weird day", EmotionGeneral},
	}
	for _, tt := range tests {
		c := Classify(tt.text)
		if c.Emotion != tt.want {
			t.Fatalf("Classify(%q).Emotion = %q, want %q", tt.text, c.Emotion, tt.want)
		}
	}
}

func TestClassifyNoCrisisForNeutralText(t *testing.T) {
	c := Classify("I planted tomatoes today")
	if c.IsCrisis {
		t.Fatalf("neutral text classified as crisis: %+v", c)
	}
	if c.Emotion != EmotionGeneral {
		t.Fatalf("emotion = %q, want general", c.Emotion)
	}
}

func TestClassifyIsDeterministic(t *testing.T) {
	text := "worried and sad and lonely all at once"
	first := Classify(text)
	for i := 0; i < 50; i++ {
		if got := Classify(text); got != first {
			t.Fatalf("classification changed between runs: %+v vs %+v", first, got)
		}
	}
}

func TestSafetyMessages(t *testing.T) {
	high := SafetyMessage(CrisisHigh)
	for _, want := range []string{"988", "741741"} {
		if !strings.Contains(high, want) {
			t.Fatalf("high safety message missing %q", want)
		}
	}
	if !strings.Contains(SafetyMessage(CrisisMedium), "988") {
		t.Fatal("medium safety message missing 988")
	}
	if !strings.Contains(SafetyMessage(CrisisLow), "988") {
		t.Fatal("low safety message missing 988")
	}
	if SafetyMessage(CrisisLevel("bogus")) != SafetyMessage(CrisisLow) {
		t.Fatal("unknown level should fall back to the low message")
	}
}
