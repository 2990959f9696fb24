package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/dkovac/feedline/internal/domain"
	"github.com/dkovac/feedline/internal/repository"
	"github.com/google/uuid"
)

var (
	ErrPostNotFound = errors.New("post not found")
	ErrNotPostOwner = errors.New("only the post creator can perform this action")
	ErrNoImage      = errors.New("no image provided")
)

// Notifier broadcasts real-time feed events to connected clients.
type Notifier interface {
	NotifyPostCreated(post *domain.Post)
	NotifyPostUpdated(post *domain.Post)
	NotifyPostDeleted(postID uuid.UUID)
}

// AssetStore removes stored image assets by reference.
type AssetStore interface {
	Delete(ref string) error
}

type FeedService struct {
	postRepo repository.PostRepository
	userRepo repository.UserRepository
	assets   AssetStore
	pageSize int
	notifier Notifier
	log      *slog.Logger
}

func NewFeedService(
	postRepo repository.PostRepository,
	userRepo repository.UserRepository,
	assets AssetStore,
	pageSize int,
	log *slog.Logger,
) *FeedService {
	return &FeedService{
		postRepo: postRepo,
		userRepo: userRepo,
		assets:   assets,
		pageSize: pageSize,
		log:      log,
	}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *FeedService) SetNotifier(n Notifier) {
	s.notifier = n
}

type CreatePostInput struct {
	Title    string
	Content  string
	ImageURL string
}

type UpdatePostInput struct {
	Title    string
	Content  string
	ImageURL string
}

type FeedPage struct {
	Posts      []domain.Post `json:"posts"`
	TotalItems int           `json:"totalItems"`
}

func (s *FeedService) List(ctx context.Context, page int) (*FeedPage, error) {
	if page < 1 {
		page = 1
	}

	total, err := s.postRepo.Count(ctx)
	if err != nil {
		return nil, fmt.Errorf("counting posts: %w", err)
	}

	posts, err := s.postRepo.List(ctx, (page-1)*s.pageSize, s.pageSize)
	if err != nil {
		return nil, fmt.Errorf("listing posts: %w", err)
	}

	if posts == nil {
		posts = []domain.Post{}
	}

	return &FeedPage{Posts: posts, TotalItems: total}, nil
}

func (s *FeedService) Get(ctx context.Context, postID uuid.UUID) (*domain.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *FeedService) Create(ctx context.Context, userID uuid.UUID, input CreatePostInput) (*domain.Post, error) {
	if input.ImageURL == "" {
		return nil, ErrNoImage
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	now := time.Now()
	post := &domain.Post{
		ID:          uuid.New(),
		Title:       input.Title,
		Content:     input.Content,
		ImageURL:    input.ImageURL,
		CreatorID:   user.ID,
		CreatedAt:   now,
		UpdatedAt:   now,
		CreatorName: user.Name,
	}

	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("creating post: %w", err)
	}

	if s.notifier != nil {
		s.notifier.NotifyPostCreated(post)
	}

	return post, nil
}

func (s *FeedService) Update(ctx context.Context, userID, postID uuid.UUID, input UpdatePostInput) (*domain.Post, error) {
	if input.ImageURL == "" {
		return nil, ErrNoImage
	}

	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	if post.CreatorID != userID {
		return nil, ErrNotPostOwner
	}

	oldImage := post.ImageURL
	post.Title = input.Title
	post.Content = input.Content
	post.ImageURL = input.ImageURL
	post.UpdatedAt = time.Now()

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, fmt.Errorf("updating post: %w", err)
	}

	if oldImage != post.ImageURL {
		s.deleteAsset(ctx, oldImage)
	}

	if s.notifier != nil {
		s.notifier.NotifyPostUpdated(post)
	}

	return post, nil
}

func (s *FeedService) Delete(ctx context.Context, userID, postID uuid.UUID) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return err
	}
	if post == nil {
		return ErrPostNotFound
	}
	if post.CreatorID != userID {
		return ErrNotPostOwner
	}

	if err := s.postRepo.Delete(ctx, postID); err != nil {
		return fmt.Errorf("deleting post: %w", err)
	}

	s.deleteAsset(ctx, post.ImageURL)

	if s.notifier != nil {
		s.notifier.NotifyPostDeleted(postID)
	}

	return nil
}

// deleteAsset is best-effort: a leaked file never fails the mutation that
// triggered it.
func (s *FeedService) deleteAsset(ctx context.Context, ref string) {
	if err := s.assets.Delete(ref); err != nil {
		s.log.WarnContext(ctx, "failed to delete image asset", "ref", ref, "error", err)
	}
}
