package repositories

import (
	"board-backend/models"

	"gorm.io/gorm"
)

type ArticleRepository interface {
	// WithTx returns a repository bound to the given transaction handle.
	WithTx(tx *gorm.DB) ArticleRepository
	Create(article *models.Article) error
	GetByID(id uint) (*models.Article, error)
	GetList(params models.ArticleListParams) ([]models.Article, int64, error)
	Update(article *models.Article) error
	Delete(id uint) error
}

type articleRepository struct {
	db *gorm.DB
}

func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) WithTx(tx *gorm.DB) ArticleRepository {
	return &articleRepository{db: tx}
}

func (r *articleRepository) Create(article *models.Article) error {
	return r.db.Create(article).Error
}

func (r *articleRepository) GetByID(id uint) (*models.Article, error) {
	var article models.Article
	err := r.db.Preload("Author").First(&article, id).Error
	if err != nil {
		return nil, err
	}
	return &article, nil
}

// GetList is the plain, unfiltered listing. Hashtag-filtered search lives
// in ArticleHashtagRepository.SearchArticles.
func (r *articleRepository) GetList(params models.ArticleListParams) ([]models.Article, int64, error) {
	var total int64
	if err := r.db.Model(&models.Article{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	articles := []models.Article{}
	err := r.db.Model(&models.Article{}).
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

func (r *articleRepository) Update(article *models.Article) error {
	return r.db.Save(article).Error
}

func (r *articleRepository) Delete(id uint) error {
	return r.db.Delete(&models.Article{}, id).Error
}
