package repositories

import (
	"fmt"

	"board-backend/models"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

type ArticleHashtagRepository interface {
	// WithTx returns a repository bound to the given transaction handle.
	WithTx(tx *gorm.DB) ArticleHashtagRepository
	ReplaceLinks(articleID uint, hashtagIDs []uint) ([]uint, error)
	UnlinkAll(articleID uint) ([]uint, error)
	GetLinkedHashtags(articleID uint) ([]models.Hashtag, error)
	GetLinkedHashtagIDs(articleID uint) ([]uint, error)
	SearchArticles(names []string, params models.ArticleListParams) ([]models.Article, int64, error)
	GetHashtagNamesByArticleIDs(articleIDs []uint) (map[uint][]string, error)
}

type articleHashtagRepository struct {
	db *gorm.DB
}

func NewArticleHashtagRepository(db *gorm.DB) ArticleHashtagRepository {
	return &articleHashtagRepository{db: db}
}

func (r *articleHashtagRepository) WithTx(tx *gorm.DB) ArticleHashtagRepository {
	return &articleHashtagRepository{db: tx}
}

// ReplaceLinks swaps the article's entire link set for the given hashtag
// ids in one transaction and reports the ids that lost their link, as
// orphan candidates for the caller to reap after commit. Duplicate ids in
// the input collapse before insert.
func (r *articleHashtagRepository) ReplaceLinks(articleID uint, hashtagIDs []uint) ([]uint, error) {
	targets := lo.Uniq(hashtagIDs)

	var removed []uint
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var current []uint
		if err := tx.Model(&models.ArticleHashtag{}).
			Where("article_id = ?", articleID).
			Pluck("hashtag_id", &current).Error; err != nil {
			return err
		}

		if err := tx.Where("article_id = ?", articleID).
			Delete(&models.ArticleHashtag{}).Error; err != nil {
			return err
		}

		if len(targets) > 0 {
			links := lo.Map(targets, func(id uint, _ int) models.ArticleHashtag {
				return models.ArticleHashtag{ArticleID: articleID, HashtagID: id}
			})
			if err := tx.Create(&links).Error; err != nil {
				return err
			}
		}

		removed = lo.Without(current, targets...)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return removed, nil
}

func (r *articleHashtagRepository) UnlinkAll(articleID uint) ([]uint, error) {
	return r.ReplaceLinks(articleID, nil)
}

// GetLinkedHashtags join-fetches the article's hashtags in one round trip.
func (r *articleHashtagRepository) GetLinkedHashtags(articleID uint) ([]models.Hashtag, error) {
	var tags []models.Hashtag
	err := r.db.Model(&models.Hashtag{}).
		Joins("JOIN article_hashtags ON article_hashtags.hashtag_id = hashtags.id").
		Where("article_hashtags.article_id = ?", articleID).
		Find(&tags).Error
	return tags, err
}

func (r *articleHashtagRepository) GetLinkedHashtagIDs(articleID uint) ([]uint, error) {
	var ids []uint
	err := r.db.Model(&models.ArticleHashtag{}).
		Where("article_id = ?", articleID).
		Pluck("hashtag_id", &ids).Error
	return ids, err
}

// SearchArticles returns the page of distinct articles linked to any of the
// given hashtag names, plus the total count computed over the same filter.
// Sorting and pagination run in SQL against the de-duplicated set; ties on
// the sort key break by article id ascending so page boundaries stay stable.
func (r *articleHashtagRepository) SearchArticles(names []string, params models.ArticleListParams) ([]models.Article, int64, error) {
	articles := []models.Article{}
	if len(names) == 0 {
		return articles, 0, nil
	}

	filtered := func(db *gorm.DB) *gorm.DB {
		return db.Model(&models.Article{}).
			Joins("JOIN article_hashtags ON article_hashtags.article_id = articles.id").
			Joins("JOIN hashtags ON hashtags.id = article_hashtags.hashtag_id").
			Where("hashtags.name IN ?", names)
	}

	var total int64
	if err := filtered(r.db).Distinct("articles.id").Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := filtered(r.db).
		Select("DISTINCT articles.*").
		Order(orderClause(params.SortBy, params.SortOrder)).
		Offset((params.Page - 1) * params.Limit).
		Limit(params.Limit).
		Preload("Author").
		Find(&articles).Error
	if err != nil {
		return nil, 0, err
	}
	return articles, total, nil
}

// GetHashtagNamesByArticleIDs batch-fetches all hashtag names linked to any
// of the given articles in a single query. Every requested id gets an entry,
// even when the article has no hashtags.
func (r *articleHashtagRepository) GetHashtagNamesByArticleIDs(articleIDs []uint) (map[uint][]string, error) {
	result := make(map[uint][]string, len(articleIDs))
	for _, id := range articleIDs {
		result[id] = []string{}
	}
	if len(articleIDs) == 0 {
		return result, nil
	}

	var rows []struct {
		ArticleID uint
		Name      string
	}
	err := r.db.Model(&models.ArticleHashtag{}).
		Select("article_hashtags.article_id, hashtags.name").
		Joins("JOIN hashtags ON hashtags.id = article_hashtags.hashtag_id").
		Where("article_hashtags.article_id IN ?", articleIDs).
		Order("hashtags.name asc").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.ArticleID] = append(result[row.ArticleID], row.Name)
	}
	return result, nil
}

// orderClause assumes the sort key and order were validated upstream
// against the service whitelists.
func orderClause(sortBy, sortOrder string) string {
	return fmt.Sprintf("articles.%s %s, articles.id asc", sortBy, sortOrder)
}
