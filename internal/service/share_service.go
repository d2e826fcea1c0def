package service

import (
	"context"
	"errors"
	"fmt"

	"inkwell/internal/mailer"
	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"

	"gorm.io/gorm"
)

// ShareInput is the share-by-email form.
type ShareInput struct {
	Name     string   `json:"name" validate:"required,max=80"`
	Email    string   `json:"email" validate:"required,email"`
	To       []string `json:"to" validate:"required,min=1,dive,email"`
	Comments string   `json:"comments" validate:"max=2000"`
}

// ShareService emails post recommendations to visitors.
type ShareService struct {
	postRepo repository.PostRepository
	sender   mailer.Sender
	siteURL  string
}

// NewShareService creates a ShareService.
func NewShareService(postRepo repository.PostRepository, sender mailer.Sender, siteURL string) *ShareService {
	return &ShareService{postRepo: postRepo, sender: sender, siteURL: siteURL}
}

// SharePost validates the form and dispatches the recommendation email.
// The target must be a published post. Delivery is fire-and-forget: a
// delivery failure is logged by the mailer but never surfaced here.
func (s *ShareService) SharePost(ctx context.Context, postID uint, in ShareInput) error {
	post, err := s.postRepo.GetPublishedByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.NewNotFoundError("post")
		}
		return err
	}

	if fields := validation.Check(in); fields != nil {
		return models.NewFieldValidationError("Share request is invalid", fields)
	}

	postURL := s.siteURL + post.PublicPath()
	subject := fmt.Sprintf("%s (%s) recommends you read %q", in.Name, in.Email, post.Title)
	body := fmt.Sprintf("Read %q at %s\n\n%s's comments: %s", post.Title, postURL, in.Name, in.Comments)

	go func() {
		_ = s.sender.Send(subject, body, in.To...)
	}()

	return nil
}
