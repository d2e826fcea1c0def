package service

import (
	"context"
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/observability"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"gorm.io/gorm"
)

// CommentInput is the visitor comment form. Values are echoed back on
// validation failure so the caller can redisplay the form.
type CommentInput struct {
	Name  string `json:"name" validate:"required,max=80"`
	Email string `json:"email" validate:"required,email"`
	Body  string `json:"body" validate:"required,max=5000"`
}

// CommentService handles visitor comment submission and moderation.
type CommentService struct {
	commentRepo repository.CommentRepository
	postRepo    repository.PostRepository
}

// NewCommentService creates a CommentService.
func NewCommentService(commentRepo repository.CommentRepository, postRepo repository.PostRepository) *CommentService {
	return &CommentService{commentRepo: commentRepo, postRepo: postRepo}
}

// CreateComment attaches a comment to a published post. The target must be
// published: drafts are NotFound, never revealed. Validation failures
// persist nothing.
func (s *CommentService) CreateComment(ctx context.Context, postID uint, in CommentInput) (*models.Comment, error) {
	post, err := s.postRepo.GetPublishedByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("post")
		}
		return nil, err
	}

	if fields := validation.Check(in); fields != nil {
		return nil, models.NewFieldValidationError("Comment is invalid", fields)
	}

	comment := &models.Comment{
		PostID: post.ID,
		Name:   in.Name,
		Email:  in.Email,
		Body:   in.Body,
		Active: true,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	observability.CommentsCreatedTotal.Inc()
	return comment, nil
}

// SetActive toggles the moderation gate on a comment.
func (s *CommentService) SetActive(ctx context.Context, commentID uint, active bool) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("comment")
		}
		return nil, err
	}

	comment.Active = active
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}
