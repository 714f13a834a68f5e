package tiers

// FeatureKey names a gated capability.
type FeatureKey string

const (
	FeatureAvatarSelection    FeatureKey = "avatar_selection"
	FeatureAgeTierSwitching   FeatureKey = "age_tier_switching"
	FeatureVoiceInteraction   FeatureKey = "voice_interaction"
	FeatureJournaling         FeatureKey = "journaling"
	FeatureGoalsDaily         FeatureKey = "goals_daily"
	FeatureCopingModules      FeatureKey = "coping_modules"
	FeatureMiniCourses        FeatureKey = "mini_courses"
	FeatureAnalyticsTrends    FeatureKey = "analytics_trends"
	FeatureWeeklySummary      FeatureKey = "weekly_summary"
	FeatureCalendarSync       FeatureKey = "calendar_sync"
	FeatureWearableSync       FeatureKey = "wearable_sync"
	FeatureAPIAccess          FeatureKey = "api_access"
	FeatureCustomAvatar       FeatureKey = "custom_avatar"
	FeaturePersonalitySliders FeatureKey = "personality_sliders"
	FeaturePredictiveInsights FeatureKey = "predictive_insights"
	FeatureHumanCoaching      FeatureKey = "human_coaching"
)

// minimumTier maps each feature to the lowest tier that carries it.
var minimumTier = map[FeatureKey]TierID{
	FeatureAvatarSelection:    TierFree,
	FeatureJournaling:         TierFree,
	FeatureGoalsDaily:         TierFree,
	FeatureAgeTierSwitching:   TierSpark,
	FeatureCopingModules:      TierSpark,
	FeatureVoiceInteraction:   TierBlaze,
	FeatureMiniCourses:        TierBlaze,
	FeatureAnalyticsTrends:    TierBlaze,
	FeatureWeeklySummary:      TierBlaze,
	FeatureCalendarSync:       TierRadiance,
	FeatureWearableSync:       TierRadiance,
	FeatureAPIAccess:          TierRadiance,
	FeatureCustomAvatar:       TierSovereign,
	FeaturePersonalitySliders: TierSovereign,
	FeaturePredictiveInsights: TierSovereign,
	FeatureHumanCoaching:      TierTranscendent,
}

// KnownFeature reports whether k is a defined feature key.
func KnownFeature(k FeatureKey) bool {
	_, ok := minimumTier[k]
	return ok
}

// MinimumTierFor returns the lowest tier carrying a feature. Unknown
// features are never granted.
func MinimumTierFor(k FeatureKey) (TierID, bool) {
	t, ok := minimumTier[k]
	return t, ok
}

// FeatureEnabled reports whether a tier carries a feature.
func FeatureEnabled(tier TierID, k FeatureKey) bool {
	min, ok := minimumTier[k]
	return ok && tier >= min
}

// EnabledFeatures returns all feature keys a tier carries, for the
// entitlement snapshot.
func EnabledFeatures(tier TierID) []FeatureKey {
	keys := []FeatureKey{
		FeatureAvatarSelection,
		FeatureAgeTierSwitching,
		FeatureVoiceInteraction,
		FeatureJournaling,
		FeatureGoalsDaily,
		FeatureCopingModules,
		FeatureMiniCourses,
		FeatureAnalyticsTrends,
		FeatureWeeklySummary,
		FeatureCalendarSync,
		FeatureWearableSync,
		FeatureAPIAccess,
		FeatureCustomAvatar,
		FeaturePersonalitySliders,
		FeaturePredictiveInsights,
		FeatureHumanCoaching,
	}
	out := make([]FeatureKey, 0, len(keys))
	for _, k := range keys {
		if FeatureEnabled(tier, k) {
			out = append(out, k)
		}
	}
	return out
}
