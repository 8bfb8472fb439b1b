package service

import (
	"context"
	"errors"
	"strings"

	"github.com/sirupsen/logrus"

	"catalog-admin/internal/domain"
	"catalog-admin/internal/repository"
)

// PostService validates catalog mutations and runs them against the store.
// Both the JSON API and the form actions go through it.
type PostService struct {
	store       repository.Store
	cache       repository.ListingCache
	invalidator Invalidator
}

// NewPostService creates a PostService. cache may be nil to read the listing
// straight from the store; a nil invalidator discards change events.
func NewPostService(store repository.Store, cache repository.ListingCache, invalidator Invalidator) *PostService {
	if store == nil {
		panic("Store cannot be nil for PostService")
	}
	if invalidator == nil {
		invalidator = NopInvalidator{}
	}
	return &PostService{store: store, cache: cache, invalidator: invalidator}
}

// CreatePostInput carries raw create fields; blank optional fields become null.
type CreatePostInput struct {
	Title   string
	Content string
	Email   string
	Name    string
}

// UpdatePostInput carries the form update fields. Content is always written.
type UpdatePostInput struct {
	ID      uint
	Title   string
	Content string
}

// PatchPostInput carries a partial update; unset fields are left unchanged.
type PatchPostInput struct {
	Title     domain.Optional[string]
	Content   domain.Optional[string]
	Published domain.Optional[bool]
}

// ListPosts returns every post with its author, newest first.
func (s *PostService) ListPosts(ctx context.Context) ([]domain.Post, error) {
	if s.cache != nil {
		posts, err := s.cache.GetListing(ctx)
		if err == nil {
			return posts, nil
		}
		if !errors.Is(err, repository.ErrCacheMiss) {
			logrus.WithError(err).Warn("ListPosts: listing cache read failed, falling back to store")
		}
	}

	posts, err := s.store.Posts().List(ctx)
	if err != nil {
		logrus.WithError(err).Error("ListPosts: repository error")
		return nil, mapRepoError(err)
	}

	if s.cache != nil {
		if err := s.cache.SetListing(ctx, posts); err != nil {
			logrus.WithError(err).Warn("ListPosts: failed to fill listing cache")
		}
	}
	return posts, nil
}

// GetPost returns one post with its author.
func (s *PostService) GetPost(ctx context.Context, id uint) (*domain.Post, error) {
	if id == 0 {
		return nil, invalidInput(MsgIDRequired)
	}
	post, err := s.store.Posts().FindByID(ctx, id)
	if err != nil {
		if !errors.Is(err, repository.ErrPostNotFound) {
			logrus.WithError(err).WithField("post_id", id).Error("GetPost: repository error")
		}
		return nil, mapRepoError(err)
	}
	return post, nil
}

// CreatePost upserts the author by email and inserts the post in one transaction.
func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	email := strings.TrimSpace(in.Email)
	if title == "" || email == "" {
		return nil, invalidInput(MsgCreateRequired)
	}
	content := optionalText(in.Content)
	name := optionalText(in.Name)
	logCtx := logrus.WithFields(logrus.Fields{"email": email, "title": title})

	var created *domain.Post
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		author, err := tx.Users().UpsertByEmail(ctx, email, name)
		if err != nil {
			return err
		}
		post := &domain.Post{Title: title, Content: content, AuthorID: author.ID}
		if err := tx.Posts().Create(ctx, post); err != nil {
			return err
		}
		post.Author = author
		created = post
		return nil
	})
	if err != nil {
		logCtx.WithError(err).Error("CreatePost: transaction failed")
		return nil, mapRepoError(err)
	}

	logCtx.WithFields(logrus.Fields{"post_id": created.ID, "author_id": created.AuthorID}).Info("Post created")
	s.afterMutation(ctx, domain.NewChangeEvent(domain.PostCreated, created.ID))
	return created, nil
}

// UpdatePost replaces title and content; a blank content clears it.
func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*domain.Post, error) {
	title := strings.TrimSpace(in.Title)
	if in.ID == 0 || title == "" {
		return nil, invalidInput(MsgUpdateRequired)
	}
	patch := domain.PostPatch{
		Title:   domain.Some(title),
		Content: domain.Some(optionalText(in.Content)),
	}

	post, err := s.store.Posts().Update(ctx, in.ID, patch)
	if err != nil {
		return nil, s.logRepoError(err, "UpdatePost", in.ID)
	}

	logrus.WithField("post_id", post.ID).Info("Post updated")
	s.afterMutation(ctx, domain.NewChangeEvent(domain.PostUpdated, post.ID))
	return post, nil
}

// SetPublished stores the published state chosen by the caller.
func (s *PostService) SetPublished(ctx context.Context, id uint, published bool) (*domain.Post, error) {
	if id == 0 {
		return nil, invalidInput(MsgIDRequired)
	}
	post, err := s.store.Posts().SetPublished(ctx, id, published)
	if err != nil {
		return nil, s.logRepoError(err, "SetPublished", id)
	}

	logrus.WithFields(logrus.Fields{"post_id": id, "published": published}).Info("Post publish state set")
	s.afterMutation(ctx, domain.NewChangeEvent(publishKind(published), id))
	return post, nil
}

// PatchPost applies the supplied fields in one transaction. An empty patch
// returns the stored post untouched.
func (s *PostService) PatchPost(ctx context.Context, id uint, in PatchPostInput) (*domain.Post, error) {
	if id == 0 {
		return nil, invalidInput(MsgIDRequired)
	}

	var patch domain.PostPatch
	if title, ok := in.Title.Get(); ok {
		title = strings.TrimSpace(title)
		if title == "" {
			return nil, invalidInput(MsgTitleEmpty)
		}
		patch.Title = domain.Some(title)
	}
	if content, ok := in.Content.Get(); ok {
		patch.Content = domain.Some(optionalText(content))
	}
	published, publishSet := in.Published.Get()

	var post *domain.Post
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		var err error
		if !patch.Empty() {
			if post, err = tx.Posts().Update(ctx, id, patch); err != nil {
				return err
			}
		}
		if publishSet {
			if post, err = tx.Posts().SetPublished(ctx, id, published); err != nil {
				return err
			}
		}
		if post == nil {
			post, err = tx.Posts().FindByID(ctx, id)
		}
		return err
	})
	if err != nil {
		return nil, s.logRepoError(err, "PatchPost", id)
	}

	if !patch.Empty() {
		s.afterMutation(ctx, domain.NewChangeEvent(domain.PostUpdated, id))
	}
	if publishSet {
		s.afterMutation(ctx, domain.NewChangeEvent(publishKind(published), id))
	}
	return post, nil
}

// DeletePost removes the post; its author stays.
func (s *PostService) DeletePost(ctx context.Context, id uint) error {
	if id == 0 {
		return invalidInput(MsgIDRequired)
	}
	if err := s.store.Posts().Delete(ctx, id); err != nil {
		return s.logRepoError(err, "DeletePost", id)
	}

	logrus.WithField("post_id", id).Info("Post deleted")
	s.afterMutation(ctx, domain.NewChangeEvent(domain.PostDeleted, id))
	return nil
}

// afterMutation drops the cached listing and signals views. The mutation is
// already committed, so failures here are only logged.
func (s *PostService) afterMutation(ctx context.Context, event domain.ChangeEvent) {
	logCtx := logrus.WithFields(logrus.Fields{"post_id": event.PostID, "kind": event.Kind})
	if s.cache != nil {
		if err := s.cache.InvalidateListing(ctx); err != nil {
			logCtx.WithError(err).Warn("Failed to evict listing cache")
		}
	}
	if err := s.invalidator.Invalidate(ctx, event); err != nil {
		logCtx.WithError(err).Warn("Failed to signal view invalidation")
	}
}

func (s *PostService) logRepoError(err error, op string, id uint) error {
	logCtx := logrus.WithFields(logrus.Fields{"post_id": id, "op": op})
	mapped := mapRepoError(err)
	if errors.Is(mapped, ErrPostNotFound) {
		logCtx.Warn("Post not found")
	} else {
		logCtx.WithError(err).Error("Repository error")
	}
	return mapped
}

// optionalText trims s and turns the empty string into nil.
func optionalText(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func publishKind(published bool) domain.ChangeKind {
	if published {
		return domain.PostPublished
	}
	return domain.PostUnpublished
}
