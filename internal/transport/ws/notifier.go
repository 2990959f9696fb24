package ws

import (
	"github.com/dkovac/feedline/internal/domain"
	"github.com/google/uuid"
)

// HubNotifier implements service.Notifier on top of the Hub. Publishing is
// fire-and-forget; a failed broadcast never reaches the triggering operation.
type HubNotifier struct {
	hub *Hub
}

func NewHubNotifier(hub *Hub) *HubNotifier {
	return &HubNotifier{hub: hub}
}

func (n *HubNotifier) NotifyPostCreated(post *domain.Post) {
	n.hub.Publish(TopicPosts, PostEventPayload{
		Action: ActionCreate,
		Post:   &PostPayload{Post: *post, Creator: post.Creator()},
	})
}

func (n *HubNotifier) NotifyPostUpdated(post *domain.Post) {
	n.hub.Publish(TopicPosts, PostEventPayload{
		Action: ActionUpdate,
		Post:   &PostPayload{Post: *post, Creator: post.Creator()},
	})
}

func (n *HubNotifier) NotifyPostDeleted(postID uuid.UUID) {
	n.hub.Publish(TopicPosts, PostEventPayload{
		Action: ActionDelete,
		PostID: &postID,
	})
}
