package service

import (
	"context"
	"sort"

	"github.com/dkovac/feedline/internal/domain"
	"github.com/google/uuid"
)

type fakeUserRepo struct {
	users     map[uuid.UUID]*domain.User
	createErr error
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[uuid.UUID]*domain.User)}
}

func (r *fakeUserRepo) Create(_ context.Context, user *domain.User) error {
	if r.createErr != nil {
		return r.createErr
	}
	u := *user
	r.users[user.ID] = &u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	u, ok := r.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	for _, u := range r.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepo) UpdateStatus(_ context.Context, id uuid.UUID, status string) error {
	if u, ok := r.users[id]; ok {
		u.Status = status
	}
	return nil
}

type fakePostRepo struct {
	posts map[uuid.UUID]*domain.Post
}

func newFakePostRepo() *fakePostRepo {
	return &fakePostRepo{posts: make(map[uuid.UUID]*domain.Post)}
}

func (r *fakePostRepo) Create(_ context.Context, post *domain.Post) error {
	p := *post
	r.posts[post.ID] = &p
	return nil
}

func (r *fakePostRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Post, error) {
	p, ok := r.posts[id]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (r *fakePostRepo) List(_ context.Context, offset, limit int) ([]domain.Post, error) {
	all := r.sorted()
	if offset >= len(all) {
		return nil, nil
	}
	all = all[offset:]
	if limit < len(all) {
		all = all[:limit]
	}
	return all, nil
}

func (r *fakePostRepo) Count(_ context.Context) (int, error) {
	return len(r.posts), nil
}

func (r *fakePostRepo) Update(_ context.Context, post *domain.Post) error {
	p := *post
	r.posts[post.ID] = &p
	return nil
}

func (r *fakePostRepo) Delete(_ context.Context, id uuid.UUID) error {
	delete(r.posts, id)
	return nil
}

// sorted returns posts newest first, as the real repo does.
func (r *fakePostRepo) sorted() []domain.Post {
	var all []domain.Post
	for _, p := range r.posts {
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})
	return all
}

type notifierEvent struct {
	action string
	post   *domain.Post
	postID uuid.UUID
}

type fakeNotifier struct {
	events []notifierEvent
}

func (n *fakeNotifier) NotifyPostCreated(post *domain.Post) {
	n.events = append(n.events, notifierEvent{action: "create", post: post})
}

func (n *fakeNotifier) NotifyPostUpdated(post *domain.Post) {
	n.events = append(n.events, notifierEvent{action: "update", post: post})
}

func (n *fakeNotifier) NotifyPostDeleted(postID uuid.UUID) {
	n.events = append(n.events, notifierEvent{action: "delete", postID: postID})
}

type fakeAssets struct {
	deleted []string
	err     error
}

func (a *fakeAssets) Delete(ref string) error {
	if a.err != nil {
		return a.err
	}
	a.deleted = append(a.deleted, ref)
	return nil
}
