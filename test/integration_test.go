package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"board-backend/config"
	"board-backend/handlers"
	"board-backend/middleware"
	"board-backend/models"
	"board-backend/repositories"
	"board-backend/services"
)

type IntegrationTestSuite struct {
	suite.Suite
	db             *gorm.DB
	router         *gin.Engine
	hashtagService services.HashtagService
	token          string
	userID         uint
}

func (suite *IntegrationTestSuite) SetupTest() {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	if err != nil {
		suite.T().Fatal("Failed to connect to test database:", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		suite.T().Fatal("Failed to get sql.DB:", err)
	}
	sqlDB.SetMaxOpenConns(1)
	if err := config.Migrate(db); err != nil {
		suite.T().Fatal("Failed to migrate test database:", err)
	}

	suite.db = db
	suite.setupRouter()
	suite.registerUser()
}

func (suite *IntegrationTestSuite) setupRouter() {
	gin.SetMode(gin.TestMode)

	userRepo := repositories.NewUserRepository(suite.db)
	articleRepo := repositories.NewArticleRepository(suite.db)
	hashtagRepo := repositories.NewHashtagRepository(suite.db)
	articleHashtagRepo := repositories.NewArticleHashtagRepository(suite.db)
	commentRepo := repositories.NewCommentRepository(suite.db)

	authService := services.NewAuthService(userRepo)
	suite.hashtagService = services.NewHashtagService(suite.db, hashtagRepo, articleHashtagRepo)
	articleService := services.NewArticleService(suite.db, articleRepo, suite.hashtagService)
	commentService := services.NewCommentService(commentRepo, articleRepo)

	authHandler := handlers.NewAuthHandler(authService)
	articleHandler := handlers.NewArticleHandler(articleService, suite.hashtagService)
	hashtagHandler := handlers.NewHashtagHandler(suite.hashtagService)
	commentHandler := handlers.NewCommentHandler(commentService)

	router := gin.New()

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
		}

		v1.GET("/articles", articleHandler.GetArticles)
		v1.GET("/search/articles", articleHandler.SearchArticles)
		v1.GET("/articles/:id", articleHandler.GetArticle)
		v1.GET("/articles/:id/comments", commentHandler.GetComments)
		v1.GET("/hashtags", hashtagHandler.GetHashtags)

		protected := v1.Group("/")
		protected.Use(middleware.AuthMiddleware())
		{
			protected.GET("/profile", authHandler.GetProfile)
			protected.POST("/articles", articleHandler.CreateArticle)
			protected.PUT("/articles/:id", articleHandler.UpdateArticle)
			protected.DELETE("/articles/:id", articleHandler.DeleteArticle)
			protected.POST("/articles/:id/comments", commentHandler.CreateComment)
			protected.PUT("/comments/:comment_id", commentHandler.UpdateComment)
			protected.DELETE("/comments/:comment_id", commentHandler.DeleteComment)
		}
	}

	suite.router = router
}

func (suite *IntegrationTestSuite) registerUser() {
	body := map[string]interface{}{
		"username": "tester",
		"email":    "tester@example.com",
		"password": "secret123",
		"nickname": "Tester",
	}
	w := suite.request("POST", "/api/v1/auth/register", body, "")
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var resp models.AuthResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.token = resp.Token
	suite.userID = resp.User.ID
}

func (suite *IntegrationTestSuite) request(method, path string, body interface{}, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		suite.Require().NoError(json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	suite.router.ServeHTTP(w, req)
	return w
}

func (suite *IntegrationTestSuite) createArticle(title, content string) models.ArticleSummary {
	w := suite.request("POST", "/api/v1/articles", map[string]string{
		"title":   title,
		"content": content,
	}, suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var summary models.ArticleSummary
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &summary))
	return summary
}

type searchResponse struct {
	Articles []models.ArticleSummary `json:"articles"`
	Total    int64                   `json:"total"`
}

func (suite *IntegrationTestSuite) search(query string) searchResponse {
	w := suite.request("GET", "/api/v1/search/articles?"+query, nil, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp searchResponse
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func (suite *IntegrationTestSuite) TestArticleHashtagLifecycle() {
	article := suite.createArticle("greeting", "hello #go #rust")
	suite.Equal([]string{"go", "rust"}, article.Hashtags)

	// Search by one of the names finds the article with its full set.
	resp := suite.search("hashtags=go")
	suite.Equal(int64(1), resp.Total)
	suite.Require().Len(resp.Articles, 1)
	suite.Equal(article.ID, resp.Articles[0].ID)
	suite.Equal([]string{"go", "rust"}, resp.Articles[0].Hashtags)

	// Dropping #go from the content unlinks it and reaps the orphan.
	w := suite.request("PUT", fmt.Sprintf("/api/v1/articles/%d", article.ID), map[string]string{
		"title":   "greeting",
		"content": "hello #rust",
	}, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	resp = suite.search("hashtags=go")
	suite.Equal(int64(0), resp.Total)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Hashtag{}).Where("name = ?", "go").Count(&count).Error)
	suite.Zero(count)
	suite.Require().NoError(suite.db.Model(&models.Hashtag{}).Where("name = ?", "rust").Count(&count).Error)
	suite.Equal(int64(1), count)
}

func (suite *IntegrationTestSuite) TestSearchMatchingRules() {
	one := suite.createArticle("java only", "about #java")
	both := suite.createArticle("java and spring", "about #java #spring")
	suite.createArticle("unrelated", "about #go")

	resp := suite.search("hashtags=java&hashtags=spring")
	suite.Equal(int64(2), resp.Total)
	suite.Require().Len(resp.Articles, 2)

	seen := map[uint]int{}
	for _, a := range resp.Articles {
		seen[a.ID]++
	}
	suite.Equal(1, seen[one.ID])
	suite.Equal(1, seen[both.ID], "an article matching via two names appears once")

	// Empty filter is an empty page, not the unfiltered listing.
	resp = suite.search("")
	suite.Equal(int64(0), resp.Total)
	suite.Empty(resp.Articles)

	// Unknown sort key is a bad request.
	w := suite.request("GET", "/api/v1/search/articles?hashtags=java&sort_by=nope", nil, "")
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *IntegrationTestSuite) TestDeleteArticleReapsHashtags() {
	article := suite.createArticle("doomed", "#solo")

	w := suite.request("DELETE", fmt.Sprintf("/api/v1/articles/%d", article.ID), nil, suite.token)
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	w = suite.request("GET", fmt.Sprintf("/api/v1/articles/%d", article.ID), nil, "")
	suite.Equal(http.StatusNotFound, w.Code)

	var count int64
	suite.Require().NoError(suite.db.Model(&models.Hashtag{}).Count(&count).Error)
	suite.Zero(count)
}

func (suite *IntegrationTestSuite) TestHashtagListing() {
	suite.createArticle("a", "#beta #alpha")
	suite.createArticle("b", "#gamma")

	w := suite.request("GET", "/api/v1/hashtags?page=1&limit=2", nil, "")
	suite.Require().Equal(http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Hashtags []string `json:"hashtags"`
		} `json:"data"`
	}
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &resp))
	suite.Equal([]string{"alpha", "beta"}, resp.Data.Hashtags)
}

func (suite *IntegrationTestSuite) TestCommentFlow() {
	article := suite.createArticle("a", "post")

	w := suite.request("POST", fmt.Sprintf("/api/v1/articles/%d/comments", article.ID), map[string]interface{}{
		"content": "first!",
	}, suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	var comment models.Comment
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &comment))

	w = suite.request("POST", fmt.Sprintf("/api/v1/articles/%d/comments", article.ID), map[string]interface{}{
		"content":           "reply",
		"parent_comment_id": comment.ID,
	}, suite.token)
	suite.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = suite.request("GET", fmt.Sprintf("/api/v1/articles/%d/comments", article.ID), nil, "")
	suite.Require().Equal(http.StatusOK, w.Code)

	var comments []models.Comment
	suite.Require().NoError(json.Unmarshal(w.Body.Bytes(), &comments))
	suite.Len(comments, 2)
}

func (suite *IntegrationTestSuite) TestAuthRequired() {
	w := suite.request("POST", "/api/v1/articles", map[string]string{
		"title":   "nope",
		"content": "nope",
	}, "")
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func TestIntegrationTestSuite(t *testing.T) {
	suite.Run(t, new(IntegrationTestSuite))
}
