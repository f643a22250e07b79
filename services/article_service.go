package services

import (
	"board-backend/models"
	"board-backend/repositories"

	"github.com/samber/lo"
	"gorm.io/gorm"
)

type ArticleService interface {
	CreateArticle(req models.CreateArticleRequest, userID uint) (*models.ArticleSummary, error)
	GetArticle(id uint) (*models.ArticleSummary, error)
	GetArticles(params models.ArticleListParams) ([]models.ArticleSummary, int64, error)
	UpdateArticle(id uint, req models.UpdateArticleRequest, userID uint) (*models.ArticleSummary, error)
	DeleteArticle(id uint, userID uint) error
}

type articleService struct {
	db             *gorm.DB
	articleRepo    repositories.ArticleRepository
	hashtagService HashtagService
}

func NewArticleService(db *gorm.DB, articleRepo repositories.ArticleRepository, hashtagService HashtagService) ArticleService {
	return &articleService{
		db:             db,
		articleRepo:    articleRepo,
		hashtagService: hashtagService,
	}
}

// CreateArticle persists the article and derives its hashtag links from the
// content within the same transaction.
func (s *articleService) CreateArticle(req models.CreateArticleRequest, userID uint) (*models.ArticleSummary, error) {
	article := &models.Article{
		AuthorID: userID,
		Title:    req.Title,
		Content:  req.Content,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.articleRepo.WithTx(tx).Create(article); err != nil {
			return err
		}
		_, err := s.hashtagService.SyncArticleHashtagsTx(tx, article.ID, article.Content)
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.GetArticle(article.ID)
}

func (s *articleService) GetArticle(id uint) (*models.ArticleSummary, error) {
	article, err := s.articleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	names, err := s.hashtagService.GetArticleHashtagNames(id)
	if err != nil {
		return nil, err
	}

	summary := summarize(*article, names)
	return &summary, nil
}

func (s *articleService) GetArticles(params models.ArticleListParams) ([]models.ArticleSummary, int64, error) {
	if err := validateListParams(&params); err != nil {
		return nil, 0, err
	}

	articles, total, err := s.articleRepo.GetList(params)
	if err != nil {
		return nil, 0, err
	}

	ids := lo.Map(articles, func(a models.Article, _ int) uint { return a.ID })
	names, err := s.hashtagService.HashtagNamesByArticleIDs(ids)
	if err != nil {
		return nil, 0, err
	}

	summaries := lo.Map(articles, func(a models.Article, _ int) models.ArticleSummary {
		return summarize(a, names[a.ID])
	})
	return summaries, total, nil
}

// UpdateArticle rewrites title and content, re-derives the link set from
// the new content in the same transaction, and reaps the hashtags that
// lost their last link once the transaction has committed.
func (s *articleService) UpdateArticle(id uint, req models.UpdateArticleRequest, userID uint) (*models.ArticleSummary, error) {
	article, err := s.articleRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if article.AuthorID != userID {
		return nil, models.ErrForbidden
	}

	article.Title = req.Title
	article.Content = req.Content

	var removed []uint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.articleRepo.WithTx(tx).Update(article); err != nil {
			return err
		}
		removed, err = s.hashtagService.SyncArticleHashtagsTx(tx, article.ID, article.Content)
		return err
	})
	if err != nil {
		return nil, err
	}
	s.hashtagService.Reap(removed)

	return s.GetArticle(article.ID)
}

// DeleteArticle unlinks every hashtag, deletes the article, then reaps the
// unlinked ids after commit.
func (s *articleService) DeleteArticle(id uint, userID uint) error {
	article, err := s.articleRepo.GetByID(id)
	if err != nil {
		return err
	}
	if article.AuthorID != userID {
		return models.ErrForbidden
	}

	var removed []uint
	err = s.db.Transaction(func(tx *gorm.DB) error {
		removed, err = s.hashtagService.UnlinkAllForArticleTx(tx, id)
		if err != nil {
			return err
		}
		return s.articleRepo.WithTx(tx).Delete(id)
	})
	if err != nil {
		return err
	}
	s.hashtagService.Reap(removed)
	return nil
}

func summarize(article models.Article, hashtags []string) models.ArticleSummary {
	if hashtags == nil {
		hashtags = []string{}
	}
	return models.ArticleSummary{
		ID:             article.ID,
		AuthorID:       article.AuthorID,
		AuthorNickname: article.Author.Nickname,
		Title:          article.Title,
		Content:        article.Content,
		Hashtags:       hashtags,
		CreatedAt:      article.CreatedAt,
		UpdatedAt:      article.UpdatedAt,
	}
}
