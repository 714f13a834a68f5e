package repository

import (
	"time"

	"github.com/ryvynn-app/ryvynn/app/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// truthRepository implements the TruthRepository interface
type truthRepository struct {
	db *gorm.DB
}

// NewTruthRepository creates a new truth feed repository instance
func NewTruthRepository(db *gorm.DB) TruthRepository {
	return &truthRepository{db: db}
}

// CreatePost stores a new truth post
func (r *truthRepository) CreatePost(post *models.TruthPost) error {
	return r.db.Create(post).Error
}

// GetPostByUUID retrieves a post by its public identifier
func (r *truthRepository) GetPostByUUID(uuid string) (*models.TruthPost, error) {
	var post models.TruthPost
	err := r.db.Where("uuid = ?", uuid).First(&post).Error
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ListVisibleByTag returns the newest visible posts for one emotion tag
func (r *truthRepository) ListVisibleByTag(tag string, limit int) ([]models.TruthPost, error) {
	var posts []models.TruthPost
	err := r.db.Where("emotion_tag = ? AND is_visible = ?", tag, true).
		Order("created_at DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// ListHeld returns crisis-held posts awaiting review, oldest first
func (r *truthRepository) ListHeld(limit int) ([]models.TruthPost, error) {
	var posts []models.TruthPost
	err := r.db.Where("is_visible = ? AND reviewed_at IS NULL", false).
		Order("created_at ASC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}

// MarkReviewed records the moderation decision for a held post
func (r *truthRepository) MarkReviewed(postID uint, visible bool) error {
	now := time.Now()
	return r.db.Model(&models.TruthPost{}).
		Where("id = ?", postID).
		Updates(map[string]interface{}{
			"is_visible":  visible,
			"reviewed_at": &now,
		}).Error
}

// CreateRead records that a user read a post. The unique (user, post)
// index makes repeat reads a no-op; created is false on repeats so the
// caller can skip the reward.
func (r *truthRepository) CreateRead(read *models.TruthRead) (bool, error) {
	res := r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(read)
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected == 1, nil
}

// HasRead reports whether the user already holds a read row for the post
func (r *truthRepository) HasRead(userID, postID uint) (bool, error) {
	var count int64
	err := r.db.Model(&models.TruthRead{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

// CountPostsByUser returns the total number of posts by a user
func (r *truthRepository) CountPostsByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.TruthPost{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}
