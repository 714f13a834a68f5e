// Package truthfeed runs the anonymous sharing feed: metered posting
// and reading, crisis holds, emotion-balanced delivery and soul token
// rewards. Author identity never leaves this package.
package truthfeed

import (
	"encoding/json"
	"errors"

	"github.com/google/uuid"
	"github.com/ryvynn-app/ryvynn/app/models"
	"github.com/ryvynn-app/ryvynn/app/repository"
	"github.com/ryvynn-app/ryvynn/internal/pkg/entitlements"
	"github.com/ryvynn-app/ryvynn/internal/pkg/tiers"
	"github.com/ryvynn-app/ryvynn/internal/pkg/usage"
)

// Reading rewards earnRate tokens; sharing rewards five times that.
const sharingRewardFactor = 5

var (
	// ErrInvalidContent means the post body is outside the length bounds.
	ErrInvalidContent = errors.New("truthfeed: content must be 10 to 2000 characters")
	// ErrInvalidTag means the emotion tag is not light or shadow.
	ErrInvalidTag = errors.New("truthfeed: emotion tag must be light or shadow")
	// ErrPostNotFound covers both missing and held posts.
	ErrPostNotFound = errors.New("truthfeed: post not found")
)

// PostResult is the outcome of creating a post. Limit denial is a
// result, not an error; callers branch on Allowed.
type PostResult struct {
	Allowed       bool
	Decision      usage.Decision
	Post          *models.TruthPost
	Held          bool
	TokensAwarded int64
}

// ReadResult is the outcome of reading a post.
type ReadResult struct {
	Allowed       bool
	Decision      usage.Decision
	Post          *models.TruthPost
	TokensAwarded int64
}

// Service implements the truth feed operations.
type Service struct {
	posts  repository.TruthRepository
	tokens repository.SoulTokenRepository
	events repository.EventLogRepository
	meter  *usage.Meter
	ents   *entitlements.Service
}

// NewService creates a truth feed service
func NewService(
	posts repository.TruthRepository,
	tokens repository.SoulTokenRepository,
	events repository.EventLogRepository,
	meter *usage.Meter,
	ents *entitlements.Service,
) *Service {
	return &Service{
		posts:  posts,
		tokens: tokens,
		events: events,
		meter:  meter,
		ents:   ents,
	}
}

// CreatePost validates, meters and stores a new post. Crisis-flagged
// content is stored hidden and queued for review; the author is told it
// was received, not that it was held.
func (s *Service) CreatePost(userID uint, content, tag string) (*PostResult, error) {
	if !models.ValidTruthContent(content) {
		return nil, ErrInvalidContent
	}
	if !models.ValidEmotionTag(tag) {
		return nil, ErrInvalidTag
	}

	snap, err := s.ents.GetForUser(userID)
	if err != nil {
		return nil, err
	}
	decision, err := s.meter.CheckAndIncrement(userID, tiers.CounterTruthPosts, snap.Limits.TruthPostsPerDay)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		s.logEvent(userID, models.EventLimitDenied, map[string]interface{}{"kind": tiers.CounterTruthPosts})
		return &PostResult{Decision: decision}, nil
	}

	crisis := ScanContent(content)
	post := &models.TruthPost{
		UUID:                   uuid.New().String(),
		UserID:                 userID,
		Content:                content,
		EmotionTag:             tag,
		ContainsCrisisKeywords: crisis,
		IsVisible:              !crisis,
	}
	if err := s.posts.CreatePost(post); err != nil {
		return nil, err
	}

	result := &PostResult{Allowed: true, Decision: decision, Post: post, Held: crisis}
	if crisis {
		// held posts earn nothing; approval during review does not
		// grant the sharing reward retroactively
		s.logEvent(userID, models.EventCrisisHeld, nil)
	} else {
		reward := int64(snap.SoulTokenEarnRate) * sharingRewardFactor
		if err := s.tokens.AddTokens(userID, reward, models.TokenSourceTruthSharing); err != nil {
			return nil, err
		}
		result.TokensAwarded = reward
	}
	s.logEvent(userID, models.EventTruthPosted, map[string]interface{}{"tag": tag})

	return result, nil
}

// GetFeed returns up to limit visible posts, alternating light and
// shadow so the feed never becomes a wall of either.
func (s *Service) GetFeed(limit int) ([]models.TruthPost, error) {
	if limit <= 0 {
		limit = 20
	}
	light, err := s.posts.ListVisibleByTag(models.EmotionTagLight, limit)
	if err != nil {
		return nil, err
	}
	shadow, err := s.posts.ListVisibleByTag(models.EmotionTagShadow, limit)
	if err != nil {
		return nil, err
	}
	return BalanceFeed(light, shadow, limit), nil
}

// BalanceFeed interleaves the two newest-first lists, starting with
// whichever has the newer head, and fills from the leftovers once one
// side runs dry.
func BalanceFeed(light, shadow []models.TruthPost, limit int) []models.TruthPost {
	out := make([]models.TruthPost, 0, limit)
	li, si := 0, 0

	takeLight := true
	if len(light) > 0 && len(shadow) > 0 {
		takeLight = !light[0].CreatedAt.Before(shadow[0].CreatedAt)
	} else if len(light) == 0 {
		takeLight = false
	}

	for len(out) < limit && (li < len(light) || si < len(shadow)) {
		if takeLight && li < len(light) {
			out = append(out, light[li])
			li++
		} else if !takeLight && si < len(shadow) {
			out = append(out, shadow[si])
			si++
		}
		// flip only while both sides still have posts
		if li < len(light) && si < len(shadow) {
			takeLight = !takeLight
		} else {
			takeLight = li < len(light)
		}
	}
	return out
}

// ReadPost fetches one visible post for a reader, metering first reads
// and rewarding each post once. Re-reads settle before the meter: they
// consume no quota and succeed even after the day's limit is gone.
// Reading your own post is neither metered nor rewarded.
func (s *Service) ReadPost(userID uint, postUUID string) (*ReadResult, error) {
	post, err := s.posts.GetPostByUUID(postUUID)
	if err != nil || !post.IsVisible {
		return nil, ErrPostNotFound
	}

	if post.UserID == userID {
		return &ReadResult{Allowed: true, Post: post}, nil
	}

	already, err := s.posts.HasRead(userID, post.ID)
	if err != nil {
		return nil, err
	}
	if already {
		return &ReadResult{Allowed: true, Post: post}, nil
	}

	snap, err := s.ents.GetForUser(userID)
	if err != nil {
		return nil, err
	}
	decision, err := s.meter.CheckAndIncrement(userID, tiers.CounterTruthReads, snap.Limits.TruthReadsPerDay)
	if err != nil {
		return nil, err
	}
	if !decision.Allowed {
		s.logEvent(userID, models.EventLimitDenied, map[string]interface{}{"kind": tiers.CounterTruthReads})
		return &ReadResult{Decision: decision}, nil
	}

	// the unique index still guards the reward against a concurrent
	// first read that slipped past HasRead
	firstRead, err := s.posts.CreateRead(&models.TruthRead{UserID: userID, PostID: post.ID})
	if err != nil {
		return nil, err
	}

	result := &ReadResult{Allowed: true, Decision: decision, Post: post}
	if firstRead {
		reward := int64(snap.SoulTokenEarnRate)
		if err := s.tokens.AddTokens(userID, reward, models.TokenSourceTruthReading); err != nil {
			return nil, err
		}
		result.TokensAwarded = reward
	}
	return result, nil
}

// PeekReadQuota reports today's reading quota without consuming it
func (s *Service) PeekReadQuota(userID uint) (usage.Decision, error) {
	snap, err := s.ents.GetForUser(userID)
	if err != nil {
		return usage.Decision{}, err
	}
	return s.meter.Peek(userID, tiers.CounterTruthReads, snap.Limits.TruthReadsPerDay)
}

func (s *Service) logEvent(userID uint, eventType string, metadata map[string]interface{}) {
	entry := &models.EventLog{UserID: userID, EventType: eventType}
	if metadata != nil {
		if data, err := json.Marshal(metadata); err == nil {
			entry.MetadataJSON = string(data)
		}
	}
	// best effort; the event stream is diagnostics, not bookkeeping
	_ = s.events.Create(entry)
}
