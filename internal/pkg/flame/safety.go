package flame

// Safety messages are fixed and tier-invariant. They are keyed only by
// crisis level and never pass through persona or age styling.

const safetyMessageHigh = "If you are thinking about hurting yourself or ending your life, please reach out for help right now. Call 988 (Suicide and Crisis Lifeline) in the US, or your local emergency number. You can also text \"HELLO\" to 741741 (Crisis Text Line). You deserve support."

const safetyMessageMedium = "It sounds like you might be thinking about harming yourself. Please talk to someone who can help. You can call 988 in the US or your local crisis line. You don't have to go through this alone."

const safetyMessageLow = "If you need immediate help, call 988 (US) or your local crisis line. There are people ready to support you."

// SafetyMessage returns the fixed crisis message for a level. Unknown
// levels fall back to the low message so a caller can never surface an
// empty safety response.
func SafetyMessage(level CrisisLevel) string {
	switch level {
	case CrisisHigh:
		return safetyMessageHigh
	case CrisisMedium:
		return safetyMessageMedium
	default:
		return safetyMessageLow
	}
}
