package services

import (
	"testing"

	"board-backend/models"
	"board-backend/repositories"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newArticleService(db *gorm.DB) (ArticleService, HashtagService) {
	hashtagService := newHashtagService(db)
	articleService := NewArticleService(db, repositories.NewArticleRepository(db), hashtagService)
	return articleService, hashtagService
}

func TestCreateArticleDerivesHashtags(t *testing.T) {
	db := setupTestDB(t)
	articleService, hashtagService := newArticleService(db)
	user := createTestUser(t, db, "writer")

	created, err := articleService.CreateArticle(models.CreateArticleRequest{
		Title:   "hello",
		Content: "hello #go #rust",
	}, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"go", "rust"}, created.Hashtags)
	assert.Equal(t, user.ID, created.AuthorID)
	assert.Equal(t, "writer", created.AuthorNickname)

	results, total, err := hashtagService.SearchArticlesByHashtags(models.ArticleSearchParams{
		Hashtags: []string{"go"},
		Page:     1, Limit: 10,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
	assert.Equal(t, created.ID, results[0].ID)
	assert.Equal(t, []string{"go", "rust"}, results[0].Hashtags)
}

func TestUpdateArticleReapsDroppedHashtag(t *testing.T) {
	db := setupTestDB(t)
	articleService, hashtagService := newArticleService(db)
	user := createTestUser(t, db, "writer")

	created, err := articleService.CreateArticle(models.CreateArticleRequest{
		Title:   "hello",
		Content: "hello #go #rust",
	}, user.ID)
	require.NoError(t, err)

	updated, err := articleService.UpdateArticle(created.ID, models.UpdateArticleRequest{
		Title:   "hello",
		Content: "hello #rust",
	}, user.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"rust"}, updated.Hashtags)

	_, total, err := hashtagService.SearchArticlesByHashtags(models.ArticleSearchParams{
		Hashtags: []string{"go"},
		Page:     1, Limit: 10,
	})
	require.NoError(t, err)
	assert.Zero(t, total, "the article no longer matches the dropped hashtag")

	var count int64
	require.NoError(t, db.Model(&models.Hashtag{}).Where("name = ?", "go").Count(&count).Error)
	assert.Zero(t, count, "go lost its last reference and is reaped")
	require.NoError(t, db.Model(&models.Hashtag{}).Where("name = ?", "rust").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUpdateArticleRequiresOwnership(t *testing.T) {
	db := setupTestDB(t)
	articleService, _ := newArticleService(db)
	owner := createTestUser(t, db, "owner")
	stranger := createTestUser(t, db, "stranger")

	created, err := articleService.CreateArticle(models.CreateArticleRequest{
		Title:   "mine",
		Content: "mine",
	}, owner.ID)
	require.NoError(t, err)

	_, err = articleService.UpdateArticle(created.ID, models.UpdateArticleRequest{
		Title:   "not yours",
		Content: "not yours",
	}, stranger.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)

	err = articleService.DeleteArticle(created.ID, stranger.ID)
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestDeleteArticleUnlinksAndReaps(t *testing.T) {
	db := setupTestDB(t)
	articleService, _ := newArticleService(db)
	user := createTestUser(t, db, "writer")

	keeper, err := articleService.CreateArticle(models.CreateArticleRequest{
		Title:   "keeper",
		Content: "#shared",
	}, user.ID)
	require.NoError(t, err)

	doomed, err := articleService.CreateArticle(models.CreateArticleRequest{
		Title:   "doomed",
		Content: "#shared #solo",
	}, user.ID)
	require.NoError(t, err)

	require.NoError(t, articleService.DeleteArticle(doomed.ID, user.ID))

	_, err = articleService.GetArticle(doomed.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	var count int64
	require.NoError(t, db.Model(&models.Hashtag{}).Where("name = ?", "solo").Count(&count).Error)
	assert.Zero(t, count, "solo had no other references")
	require.NoError(t, db.Model(&models.Hashtag{}).Where("name = ?", "shared").Count(&count).Error)
	assert.Equal(t, int64(1), count, "shared is still referenced by the keeper")

	kept, err := articleService.GetArticle(keeper.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"shared"}, kept.Hashtags)
}

func TestGetArticlesPlainListing(t *testing.T) {
	db := setupTestDB(t)
	articleService, _ := newArticleService(db)
	user := createTestUser(t, db, "writer")

	for _, content := range []string{"#go", "#rust", "plain"} {
		_, err := articleService.CreateArticle(models.CreateArticleRequest{
			Title:   content,
			Content: content,
		}, user.ID)
		require.NoError(t, err)
	}

	summaries, total, err := articleService.GetArticles(models.ArticleListParams{
		Page: 1, Limit: 10, SortBy: "created_at", SortOrder: "asc",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	require.Len(t, summaries, 3)
	assert.Equal(t, []string{"go"}, summaries[0].Hashtags)
	assert.Equal(t, []string{}, summaries[2].Hashtags)

	_, _, err = articleService.GetArticles(models.ArticleListParams{
		Page: 1, Limit: 10, SortBy: "drop table", SortOrder: "asc",
	})
	assert.ErrorIs(t, err, models.ErrInvalidSortKey)
}
