package services

import (
	"board-backend/models"
	"board-backend/repositories"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"gorm.io/gorm"
)

type HashtagService interface {
	// ResolveOrCreate maps each name to its hashtag row, creating rows for
	// names seen for the first time. A creation race lost to a concurrent
	// writer resolves as a lookup, never as an error.
	ResolveOrCreate(names []string) ([]models.Hashtag, error)
	FindByNames(names []string) ([]models.Hashtag, error)

	// SyncArticleHashtags runs extract → resolve-or-create → replace-links
	// in one transaction, then reaps the unlinked ids after commit.
	SyncArticleHashtags(articleID uint, content string) error
	// SyncArticleHashtagsTx is the transaction-scoped variant; the returned
	// ids are orphan candidates the caller must reap after its commit.
	SyncArticleHashtagsTx(tx *gorm.DB, articleID uint, content string) ([]uint, error)
	UnlinkAllForArticle(articleID uint) ([]uint, error)
	UnlinkAllForArticleTx(tx *gorm.DB, articleID uint) ([]uint, error)

	GetArticleHashtags(articleID uint) ([]models.Hashtag, error)
	GetArticleHashtagNames(articleID uint) ([]string, error)
	HashtagNamesByArticleIDs(articleIDs []uint) (map[uint][]string, error)

	ReapIfOrphan(hashtagID uint) (bool, error)
	ReapOrphans() (int64, error)
	Reap(hashtagIDs []uint)

	SearchArticlesByHashtags(params models.ArticleSearchParams) ([]models.ArticleSummary, int64, error)
	ListHashtagNames(params models.PageParams) ([]string, int64, error)
}

type hashtagService struct {
	db          *gorm.DB
	hashtagRepo repositories.HashtagRepository
	linkRepo    repositories.ArticleHashtagRepository
}

func NewHashtagService(db *gorm.DB, hashtagRepo repositories.HashtagRepository, linkRepo repositories.ArticleHashtagRepository) HashtagService {
	return &hashtagService{
		db:          db,
		hashtagRepo: hashtagRepo,
		linkRepo:    linkRepo,
	}
}

func (s *hashtagService) ResolveOrCreate(names []string) ([]models.Hashtag, error) {
	return s.resolveOrCreate(s.db, names)
}

func (s *hashtagService) resolveOrCreate(tx *gorm.DB, names []string) ([]models.Hashtag, error) {
	names = lo.Uniq(names)
	if len(names) == 0 {
		return nil, nil
	}

	repo := s.hashtagRepo.WithTx(tx)
	tags, err := repo.GetByNames(names)
	if err != nil {
		return nil, err
	}

	existing := lo.SliceToMap(tags, func(t models.Hashtag) (string, bool) {
		return t.Name, true
	})

	for _, name := range names {
		if existing[name] {
			continue
		}
		tag := models.Hashtag{Name: name}
		if err := repo.Create(&tag); err != nil {
			return nil, err
		}
		if tag.ID == 0 {
			// Lost the creation race; the winner's row exists now.
			won, err := repo.GetByName(name)
			if err != nil {
				return nil, err
			}
			tag = *won
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

func (s *hashtagService) FindByNames(names []string) ([]models.Hashtag, error) {
	return s.hashtagRepo.GetByNames(lo.Uniq(names))
}

func (s *hashtagService) SyncArticleHashtags(articleID uint, content string) error {
	var removed []uint
	err := s.db.Transaction(func(tx *gorm.DB) error {
		var err error
		removed, err = s.SyncArticleHashtagsTx(tx, articleID, content)
		return err
	})
	if err != nil {
		return err
	}
	s.Reap(removed)
	return nil
}

func (s *hashtagService) SyncArticleHashtagsTx(tx *gorm.DB, articleID uint, content string) ([]uint, error) {
	names := ExtractHashtagNames(content)
	tags, err := s.resolveOrCreate(tx, names)
	if err != nil {
		return nil, err
	}
	ids := lo.Map(tags, func(t models.Hashtag, _ int) uint { return t.ID })
	return s.linkRepo.WithTx(tx).ReplaceLinks(articleID, ids)
}

func (s *hashtagService) UnlinkAllForArticle(articleID uint) ([]uint, error) {
	return s.linkRepo.UnlinkAll(articleID)
}

func (s *hashtagService) UnlinkAllForArticleTx(tx *gorm.DB, articleID uint) ([]uint, error) {
	return s.linkRepo.WithTx(tx).UnlinkAll(articleID)
}

func (s *hashtagService) GetArticleHashtags(articleID uint) ([]models.Hashtag, error) {
	return s.linkRepo.GetLinkedHashtags(articleID)
}

func (s *hashtagService) GetArticleHashtagNames(articleID uint) ([]string, error) {
	byArticle, err := s.linkRepo.GetHashtagNamesByArticleIDs([]uint{articleID})
	if err != nil {
		return nil, err
	}
	return byArticle[articleID], nil
}

func (s *hashtagService) HashtagNamesByArticleIDs(articleIDs []uint) (map[uint][]string, error) {
	return s.linkRepo.GetHashtagNamesByArticleIDs(articleIDs)
}

func (s *hashtagService) ReapIfOrphan(hashtagID uint) (bool, error) {
	return s.hashtagRepo.DeleteIfOrphan(hashtagID)
}

func (s *hashtagService) ReapOrphans() (int64, error) {
	return s.hashtagRepo.DeleteOrphans()
}

// Reap is the post-commit, best-effort pass over orphan candidates. A
// failure here must not undo the caller's already-committed save; the
// hashtag lingers until the periodic sweep catches it.
func (s *hashtagService) Reap(hashtagIDs []uint) {
	for _, id := range hashtagIDs {
		if _, err := s.hashtagRepo.DeleteIfOrphan(id); err != nil {
			log.Warn().Err(err).Uint("hashtag_id", id).Msg("Hashtag reap failed, leaving it to the sweep.")
		}
	}
}

// SearchArticlesByHashtags answers the hashtag-filtered, paginated, sorted
// article search. An article matches on any of the names (OR) and appears
// once; each summary carries the article's full hashtag set, not just the
// matched names. An empty filter means an empty page, never "unfiltered".
func (s *hashtagService) SearchArticlesByHashtags(params models.ArticleSearchParams) ([]models.ArticleSummary, int64, error) {
	listParams := params.ListParams()
	if err := validateListParams(&listParams); err != nil {
		return nil, 0, err
	}

	names := lo.Uniq(lo.Filter(params.Hashtags, func(name string, _ int) bool {
		return name != ""
	}))
	if len(names) == 0 {
		return []models.ArticleSummary{}, 0, nil
	}

	articles, total, err := s.linkRepo.SearchArticles(names, listParams)
	if err != nil {
		return nil, 0, err
	}

	summaries, err := s.buildSummaries(articles)
	if err != nil {
		return nil, 0, err
	}
	return summaries, total, nil
}

func (s *hashtagService) ListHashtagNames(params models.PageParams) ([]string, int64, error) {
	if params.Page < 1 || params.Limit < 1 {
		return nil, 0, models.ErrInvalidPage
	}
	return s.hashtagRepo.ListNames((params.Page-1)*params.Limit, params.Limit)
}

// buildSummaries attaches the full hashtag name set to each article of a
// page with a single batch query over all of its ids.
func (s *hashtagService) buildSummaries(articles []models.Article) ([]models.ArticleSummary, error) {
	ids := lo.Map(articles, func(a models.Article, _ int) uint { return a.ID })
	names, err := s.linkRepo.GetHashtagNamesByArticleIDs(ids)
	if err != nil {
		return nil, err
	}

	return lo.Map(articles, func(a models.Article, _ int) models.ArticleSummary {
		return summarize(a, names[a.ID])
	}), nil
}
