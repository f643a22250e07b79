package services

import (
	"errors"

	"board-backend/models"
	"board-backend/repositories"
)

type CommentService interface {
	CreateComment(articleID uint, req models.CreateCommentRequest, userID uint) (*models.Comment, error)
	GetComments(articleID uint) ([]models.Comment, error)
	UpdateComment(id uint, req models.UpdateCommentRequest, userID uint) (*models.Comment, error)
	DeleteComment(id uint, userID uint) error
}

type commentService struct {
	commentRepo repositories.CommentRepository
	articleRepo repositories.ArticleRepository
}

func NewCommentService(commentRepo repositories.CommentRepository, articleRepo repositories.ArticleRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		articleRepo: articleRepo,
	}
}

func (s *commentService) CreateComment(articleID uint, req models.CreateCommentRequest, userID uint) (*models.Comment, error) {
	if _, err := s.articleRepo.GetByID(articleID); err != nil {
		return nil, err
	}

	if req.ParentCommentID != nil {
		parent, err := s.commentRepo.GetByID(*req.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent.ArticleID != articleID {
			return nil, errors.New("parent comment belongs to another article")
		}
	}

	comment := &models.Comment{
		ArticleID:       articleID,
		AuthorID:        userID,
		ParentCommentID: req.ParentCommentID,
		Content:         req.Content,
	}
	if err := s.commentRepo.Create(comment); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByID(comment.ID)
}

func (s *commentService) GetComments(articleID uint) ([]models.Comment, error) {
	if _, err := s.articleRepo.GetByID(articleID); err != nil {
		return nil, err
	}
	return s.commentRepo.GetByArticleID(articleID)
}

func (s *commentService) UpdateComment(id uint, req models.UpdateCommentRequest, userID uint) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return nil, err
	}
	if comment.AuthorID != userID {
		return nil, models.ErrForbidden
	}

	comment.Content = req.Content
	if err := s.commentRepo.Update(comment); err != nil {
		return nil, err
	}
	return comment, nil
}

func (s *commentService) DeleteComment(id uint, userID uint) error {
	comment, err := s.commentRepo.GetByID(id)
	if err != nil {
		return err
	}
	if comment.AuthorID != userID {
		return models.ErrForbidden
	}
	return s.commentRepo.Delete(id)
}
