package repositories

import (
	"board-backend/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type HashtagRepository interface {
	// WithTx returns a repository bound to the given transaction handle.
	WithTx(tx *gorm.DB) HashtagRepository
	Create(tag *models.Hashtag) error
	GetByName(name string) (*models.Hashtag, error)
	GetByNames(names []string) ([]models.Hashtag, error)
	GetByID(id uint) (*models.Hashtag, error)
	ListNames(offset, limit int) ([]string, int64, error)
	DeleteIfOrphan(id uint) (bool, error)
	DeleteOrphans() (int64, error)
}

type hashtagRepository struct {
	db *gorm.DB
}

func NewHashtagRepository(db *gorm.DB) HashtagRepository {
	return &hashtagRepository{db: db}
}

func (r *hashtagRepository) WithTx(tx *gorm.DB) HashtagRepository {
	return &hashtagRepository{db: tx}
}

// Create inserts the hashtag, doing nothing on a name collision. The unique
// index on name arbitrates concurrent creators; a loser comes back with a
// zero ID and must re-read the winner's row.
func (r *hashtagRepository) Create(tag *models.Hashtag) error {
	return r.db.Clauses(clause.OnConflict{DoNothing: true}).Create(tag).Error
}

func (r *hashtagRepository) GetByName(name string) (*models.Hashtag, error) {
	var tag models.Hashtag
	err := r.db.Where("name = ?", name).First(&tag).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

func (r *hashtagRepository) GetByNames(names []string) ([]models.Hashtag, error) {
	var tags []models.Hashtag
	if len(names) == 0 {
		return tags, nil
	}
	err := r.db.Where("name IN ?", names).Find(&tags).Error
	return tags, err
}

func (r *hashtagRepository) GetByID(id uint) (*models.Hashtag, error) {
	var tag models.Hashtag
	err := r.db.First(&tag, id).Error
	if err != nil {
		return nil, err
	}
	return &tag, nil
}

// ListNames pages over hashtag names in name order. Orphans are reaped, so
// every row counts as in use; no full-table materialization happens here.
func (r *hashtagRepository) ListNames(offset, limit int) ([]string, int64, error) {
	var total int64
	if err := r.db.Model(&models.Hashtag{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var names []string
	err := r.db.Model(&models.Hashtag{}).
		Order("name asc").
		Offset(offset).
		Limit(limit).
		Pluck("name", &names).Error
	return names, total, err
}

// DeleteIfOrphan deletes the hashtag only if no link row references it at
// the time the statement runs. The existence re-check lives inside the
// delete itself, so a link committed between the caller's read and this
// call keeps the hashtag alive. Deleting an already-deleted id is a no-op.
func (r *hashtagRepository) DeleteIfOrphan(id uint) (bool, error) {
	res := r.db.
		Where("id = ?", id).
		Where("NOT EXISTS (SELECT 1 FROM article_hashtags WHERE article_hashtags.hashtag_id = hashtags.id)").
		Delete(&models.Hashtag{})
	return res.RowsAffected > 0, res.Error
}

// DeleteOrphans removes every hashtag with zero links and returns how many
// rows went away.
func (r *hashtagRepository) DeleteOrphans() (int64, error) {
	res := r.db.
		Where("NOT EXISTS (SELECT 1 FROM article_hashtags WHERE article_hashtags.hashtag_id = hashtags.id)").
		Delete(&models.Hashtag{})
	return res.RowsAffected, res.Error
}
