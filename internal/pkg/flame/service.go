package flame

import (
	"encoding/json"

	"github.com/ryvynn-app/ryvynn/app/models"
	"github.com/ryvynn-app/ryvynn/app/repository"
	"github.com/ryvynn-app/ryvynn/internal/pkg/entitlements"
	"github.com/ryvynn-app/ryvynn/internal/pkg/tiers"
	"github.com/ryvynn-app/ryvynn/internal/pkg/usage"
)

// Result is one companion exchange. Limit denial is a result, not an
// error; callers branch on Allowed.
type Result struct {
	Allowed     bool           `json:"allowed"`
	Decision    usage.Decision `json:"usage"`
	IsCrisis    bool           `json:"is_crisis"`
	CrisisLevel CrisisLevel    `json:"crisis_level,omitempty"`
	Emotion     Emotion        `json:"emotion,omitempty"`
	Message     string         `json:"message,omitempty"`
}

// Service runs the full companion pipeline: entitlement lookup, usage
// metering, classification and composition.
type Service struct {
	composer *Composer
	meter    *usage.Meter
	ents     *entitlements.Service
	events   repository.EventLogRepository
}

// NewService creates a flame service
func NewService(composer *Composer, meter *usage.Meter, ents *entitlements.Service, events repository.EventLogRepository) *Service {
	return &Service{
		composer: composer,
		meter:    meter,
		ents:     ents,
		events:   events,
	}
}

// Respond handles one user message. High and medium crisis bypass the
// composer entirely and return the fixed safety message for the level;
// low crisis gets a composed response with the safety line appended.
func (s *Service) Respond(userID uint, message string, profile Profile) (*Result, error) {
	snap, err := s.ents.GetForUser(userID)
	if err != nil {
		return nil, err
	}

	decision, err := s.meter.CheckAndIncrement(userID, tiers.CounterFlameCalls, snap.Limits.FlameCallsPerDay)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		s.logEvent(userID, models.EventLimitDenied, map[string]interface{}{"kind": tiers.CounterFlameCalls})
		return &Result{Allowed: false, Decision: decision}, nil
	}

	cls := Classify(message)
	result := &Result{
		Allowed:     true,
		Decision:    decision,
		IsCrisis:    cls.IsCrisis,
		CrisisLevel: cls.Level,
		Emotion:     cls.Emotion,
	}

	if cls.IsCrisis && cls.Level != CrisisLow {
		result.Message = SafetyMessage(cls.Level)
		s.logEvent(userID, models.EventCrisisShown, map[string]interface{}{"level": string(cls.Level)})
		return result, nil
	}

	result.Message = s.composer.Compose(cls.Emotion, profile).Text()
	if cls.IsCrisis {
		result.Message += "\n\n" + SafetyMessage(CrisisLow)
		s.logEvent(userID, models.EventCrisisShown, map[string]interface{}{"level": string(CrisisLow)})
	}
	s.logEvent(userID, models.EventFlameCall, map[string]interface{}{"emotion": string(cls.Emotion)})
	return result, nil
}

// ProfileForUser builds the styling profile from stored settings, gating
// the personality sliders on the entitlement feature.
func ProfileForUser(settings *models.UserSettings, snap *entitlements.Snapshot) Profile {
	profile := DefaultProfile()
	if settings == nil {
		return profile
	}
	if settings.Persona != "" {
		profile.Persona = Persona(settings.Persona)
	}
	if settings.AgeTier != "" {
		profile.AgeTier = AgeTier(settings.AgeTier)
	}
	profile.Sliders = Sliders{
		Warmth:     settings.PersonalityWarmth,
		Directness: settings.PersonalityDirectness,
		Humor:      settings.PersonalityHumor,
		Formality:  settings.PersonalityFormality,
	}
	profile.SlidersEnabled = snap != nil && snap.HasFeature(tiers.FeaturePersonalitySliders)
	return profile
}

func (s *Service) logEvent(userID uint, eventType string, metadata map[string]interface{}) {
	entry := &models.EventLog{UserID: userID, EventType: eventType}
	if metadata != nil {
		if data, err := json.Marshal(metadata); err == nil {
			entry.MetadataJSON = string(data)
		}
	}
	_ = s.events.Create(entry)
}
