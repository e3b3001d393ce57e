package domain

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/Vovarama1992/go-utils/logger"
	"github.com/Vovarama1992/newsroom/internal/models"
	"github.com/Vovarama1992/newsroom/internal/ports"
	"github.com/google/uuid"
)

const maxCommentRunes = 2000

// ReplyNotifier is satisfied by NotificationService.
type ReplyNotifier interface {
	NotifyCommentReply(ctx context.Context, parent, reply models.Comment) error
}

type CommentService struct {
	repo         ports.CommentRepository
	articles     ports.ArticleRepository
	interactions ports.InteractionRepository
	notifier     ReplyNotifier
	log          *logger.ZapLogger
}

func NewCommentService(
	repo ports.CommentRepository,
	articles ports.ArticleRepository,
	interactions ports.InteractionRepository,
	notifier ReplyNotifier,
	log *logger.ZapLogger,
) *CommentService {
	return &CommentService{
		repo:         repo,
		articles:     articles,
		interactions: interactions,
		notifier:     notifier,
		log:          log,
	}
}

// Create stores a comment on a published article. Staff comments skip
// moderation.
func (s *CommentService) Create(ctx context.Context, author ports.Claims, articleID string, parentID *string, content string) (*models.Comment, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, fmt.Errorf("%w: content is required", ErrInvalidInput)
	}
	if utf8.RuneCountInString(content) > maxCommentRunes {
		return nil, fmt.Errorf("%w: comment longer than %d characters", ErrInvalidInput, maxCommentRunes)
	}

	a, err := s.articles.GetByID(ctx, articleID)
	if err != nil {
		return nil, err
	}
	if !a.IsPublished() {
		return nil, fmt.Errorf("article %s: %w", articleID, ErrNotFound)
	}

	var parent *models.Comment
	if parentID != nil && *parentID != "" {
		parent, err = s.repo.GetByID(ctx, *parentID)
		if errors.Is(err, ErrNotFound) || (err == nil && parent.ArticleID != articleID) {
			return nil, fmt.Errorf("%w: unknown parent comment", ErrInvalidInput)
		}
		if err != nil {
			return nil, err
		}
	} else {
		parentID = nil
	}

	c := &models.Comment{
		ID:        uuid.NewString(),
		ArticleID: articleID,
		UserID:    author.UserID,
		ParentID:  parentID,
		Content:   content,
		Status:    models.CommentPending,
	}
	if author.Role.IsStaff() {
		c.Status = models.CommentApproved
	}
	if err := s.repo.Create(ctx, c); err != nil {
		return nil, err
	}

	if _, err := s.interactions.Record(ctx, author.UserID, articleID, models.InteractionComment); err != nil {
		s.log.Log(logger.LogEntry{Level: "warn", Message: "comment interaction not recorded", Error: err})
	}
	if c.Status == models.CommentApproved && parent != nil {
		s.notifyReply(ctx, *parent, *c)
	}
	return c, nil
}

func (s *CommentService) ListApproved(ctx context.Context, articleID string) ([]models.Comment, error) {
	items, err := s.repo.ListByArticle(ctx, articleID, models.CommentApproved)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Comment{}
	}
	return items, nil
}

func (s *CommentService) ListForModeration(ctx context.Context, status models.CommentStatus, page Page) ([]models.Comment, error) {
	if status == "" {
		status = models.CommentPending
	}
	page = NewPage(page.Page, page.Limit)
	items, err := s.repo.ListByStatus(ctx, status, page.Limit, page.Offset())
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []models.Comment{}
	}
	return items, nil
}

// Moderate approves or rejects a comment.
func (s *CommentService) Moderate(ctx context.Context, id string, status models.CommentStatus) (*models.Comment, error) {
	if status != models.CommentApproved && status != models.CommentRejected {
		return nil, fmt.Errorf("%w: status must be approved or rejected", ErrInvalidInput)
	}
	prev, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	c, err := s.repo.SetStatus(ctx, id, status)
	if err != nil {
		return nil, err
	}

	if prev.Status != models.CommentApproved && c.Status == models.CommentApproved && c.ParentID != nil {
		parent, err := s.repo.GetByID(ctx, *c.ParentID)
		if err == nil {
			s.notifyReply(ctx, *parent, *c)
		}
	}
	return c, nil
}

func (s *CommentService) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *CommentService) notifyReply(ctx context.Context, parent, reply models.Comment) {
	if s.notifier == nil {
		return
	}
	if err := s.notifier.NotifyCommentReply(ctx, parent, reply); err != nil {
		s.log.Log(logger.LogEntry{
			Level:   "warn",
			Message: "comment reply notification failed",
			Fields:  map[string]any{"comment_id": reply.ID},
			Error:   err,
		})
	}
}
