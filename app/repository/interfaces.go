package repository

import (
	"time"

	"github.com/ryvynn-app/ryvynn/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByStripeCustomerID(customerID string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	GetByAPIKeyHash(hash string) (*models.User, *models.UserSettings, error)
	Update(user *models.User) error
	Delete(id uint) error
	Count() (int64, error)
}

// EntitlementRepository defines the interface for entitlement snapshot operations
type EntitlementRepository interface {
	GetByUserID(userID uint) (*models.Entitlement, error)
	Upsert(ent *models.Entitlement) error
}

// UsageRepository defines the interface for the daily usage counters.
// IncrementWithCeiling is the only write path that enforces a limit; it
// must be atomic under concurrent callers for the same counter row.
type UsageRepository interface {
	Get(userID uint, day, kind string) (int64, error)
	Increment(userID uint, day, kind string) (int64, error)
	IncrementWithCeiling(userID uint, day, kind string, limit int64) (allowed bool, value int64, err error)
}

// SubscriptionRepository defines the interface for provider subscription mirrors
type SubscriptionRepository interface {
	GetByProviderSubscriptionID(providerID string) (*models.Subscription, error)
	GetEntitlingByUserID(userID uint) ([]models.Subscription, error)
	Upsert(sub *models.Subscription) error
}

// WebhookEventRepository is the processed-events ledger. Rows are insert-only.
type WebhookEventRepository interface {
	Exists(providerEventID string) (bool, error)
	CreateIfNotExists(event *models.WebhookEvent) (created bool, err error)
}

// PaymentEventRepository records invoice outcomes, append-only
type PaymentEventRepository interface {
	Create(event *models.PaymentEvent) error
	ListBySubscription(providerSubscriptionID string, limit int) ([]models.PaymentEvent, error)
}

// TruthRepository defines the interface for the anonymous truth feed
type TruthRepository interface {
	CreatePost(post *models.TruthPost) error
	GetPostByUUID(uuid string) (*models.TruthPost, error)
	ListVisibleByTag(tag string, limit int) ([]models.TruthPost, error)
	ListHeld(limit int) ([]models.TruthPost, error)
	MarkReviewed(postID uint, visible bool) error
	CreateRead(read *models.TruthRead) (created bool, err error)
	HasRead(userID, postID uint) (bool, error)
	CountPostsByUser(userID uint) (int64, error)
}

// SoulTokenRepository defines the interface for the reward token accounts
type SoulTokenRepository interface {
	GetOrCreate(userID uint) (*models.SoulTokenAccount, error)
	AddTokens(userID uint, amount int64, source string) error
}

// JournalRepository defines the interface for encrypted journal entries
type JournalRepository interface {
	Create(entry *models.JournalEntry) error
	GetByUUID(userID uint, uuid string) (*models.JournalEntry, error)
	ListByUser(userID uint, offset, limit int) ([]models.JournalEntry, error)
	Update(entry *models.JournalEntry) error
	Delete(userID uint, uuid string) error
	DeleteOlderThan(userID uint, cutoff time.Time) (int64, error)
}

// EventLogRepository appends usage events. No read path in the app itself.
type EventLogRepository interface {
	Create(event *models.EventLog) error
}

// Repositories struct holds all repository instances
type Repositories struct {
	User         UserRepository
	Entitlement  EntitlementRepository
	Usage        UsageRepository
	Subscription SubscriptionRepository
	WebhookEvent WebhookEventRepository
	PaymentEvent PaymentEventRepository
	Truth        TruthRepository
	SoulToken    SoulTokenRepository
	Journal      JournalRepository
	EventLog     EventLogRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Entitlement:  NewEntitlementRepository(db),
		Usage:        NewUsageRepository(db),
		Subscription: NewSubscriptionRepository(db),
		WebhookEvent: NewWebhookEventRepository(db),
		PaymentEvent: NewPaymentEventRepository(db),
		Truth:        NewTruthRepository(db),
		SoulToken:    NewSoulTokenRepository(db),
		Journal:      NewJournalRepository(db),
		EventLog:     NewEventLogRepository(db),
	}
}
