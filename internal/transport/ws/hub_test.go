package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/dkovac/feedline/internal/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func startHub(t *testing.T) *Hub {
	t.Helper()

	hub := NewHub()
	go hub.Run()
	t.Cleanup(hub.Stop)
	return hub
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()

	select {
	case data := <-c.send:
		var evt Event
		require.NoError(t, json.Unmarshal(data, &evt))
		return evt
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestPublishReachesSubscribers(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	c1 := NewClient(hub, nil)
	c2 := NewClient(hub, nil)
	hub.register <- c1
	hub.register <- c2

	postID := uuid.New()
	hub.Publish(TopicPosts, PostEventPayload{Action: ActionDelete, PostID: &postID})

	for _, c := range []*Client{c1, c2} {
		evt := receive(t, c)
		assert.Equal(t, FrameTypeEvent, evt.Type)
		assert.Equal(t, TopicPosts, evt.Topic)

		var p PostEventPayload
		require.NoError(t, json.Unmarshal(evt.Payload, &p))
		assert.Equal(t, ActionDelete, p.Action)
		require.NotNil(t, p.PostID)
		assert.Equal(t, postID, *p.PostID)
	}
}

func TestPublishPreservesOrderPerObserver(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	c := NewClient(hub, nil)
	hub.register <- c

	post := domain.Post{ID: uuid.New(), Title: "t", CreatorName: "Ana"}
	hub.Publish(TopicPosts, PostEventPayload{Action: ActionCreate, Post: &PostPayload{Post: post, Creator: post.Creator()}})
	hub.Publish(TopicPosts, PostEventPayload{Action: ActionUpdate, Post: &PostPayload{Post: post, Creator: post.Creator()}})
	hub.Publish(TopicPosts, PostEventPayload{Action: ActionDelete, PostID: &post.ID})

	var actions []string
	for i := 0; i < 3; i++ {
		evt := receive(t, c)
		var p PostEventPayload
		require.NoError(t, json.Unmarshal(evt.Payload, &p))
		actions = append(actions, p.Action)
	}
	assert.Equal(t, []string{ActionCreate, ActionUpdate, ActionDelete}, actions)
}

func TestPublishWithZeroSubscribers(t *testing.T) {
	t.Parallel()

	hub := startHub(t)

	// Must be a silent no-op.
	hub.Publish(TopicPosts, PostEventPayload{Action: ActionCreate})
}

func TestUnsubscribedTopicNotDelivered(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	c := NewClient(hub, nil)
	c.Unsubscribe(TopicPosts)
	hub.register <- c

	watcher := NewClient(hub, nil)
	hub.register <- watcher

	postID := uuid.New()
	hub.Publish(TopicPosts, PostEventPayload{Action: ActionDelete, PostID: &postID})

	// The subscribed observer gets it; the unsubscribed one must not.
	receive(t, watcher)
	select {
	case data := <-c.send:
		t.Fatalf("unsubscribed observer received %s", data)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestSlowObserverDropDoesNotPanic(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	c := NewClient(hub, nil)
	hub.register <- c

	// Nobody drains c.send, so overflowing the buffer makes the hub drop
	// the client mid-broadcast.
	postID := uuid.New()
	for i := 0; i < sendBufSize+5; i++ {
		hub.Publish(TopicPosts, PostEventPayload{Action: ActionDelete, PostID: &postID})
	}

	select {
	case <-c.done:
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for hub to drop slow observer")
	}

	// A ping frame arriving after the drop must not crash the process.
	c.sendPong()
	c.sendError("UNKNOWN_FRAME", "late frame")

	// The hub itself must still be serving other observers.
	watcher := NewClient(hub, nil)
	hub.register <- watcher
	hub.Publish(TopicPosts, PostEventPayload{Action: ActionDelete, PostID: &postID})
	receive(t, watcher)
}

func TestDetachAfterStopReturns(t *testing.T) {
	t.Parallel()

	hub := NewHub()
	go hub.Run()
	c := NewClient(hub, nil)
	hub.register <- c

	hub.Stop()

	returned := make(chan struct{})
	go func() {
		c.detach()
		close(returned)
	}()

	select {
	case <-returned:
	case <-time.After(time.Second):
		t.Fatal("detach blocked after hub stop")
	}
}

func TestNotifierEventShapes(t *testing.T) {
	t.Parallel()

	hub := startHub(t)
	c := NewClient(hub, nil)
	hub.register <- c

	notifier := NewHubNotifier(hub)
	post := &domain.Post{
		ID:          uuid.New(),
		Title:       "Hello",
		Content:     "World",
		ImageURL:    "images/x.png",
		CreatorID:   uuid.New(),
		CreatorName: "Ana",
	}

	notifier.NotifyPostCreated(post)
	evt := receive(t, c)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(evt.Payload, &raw))
	assert.Contains(t, raw, "post")

	var p PostEventPayload
	require.NoError(t, json.Unmarshal(evt.Payload, &p))
	assert.Equal(t, ActionCreate, p.Action)
	require.NotNil(t, p.Post)
	assert.Equal(t, domain.Creator{ID: post.CreatorID, Name: "Ana"}, p.Post.Creator)
	assert.Nil(t, p.PostID)

	notifier.NotifyPostDeleted(post.ID)
	evt = receive(t, c)
	p = PostEventPayload{}
	require.NoError(t, json.Unmarshal(evt.Payload, &p))
	assert.Equal(t, ActionDelete, p.Action)
	assert.Nil(t, p.Post)
	require.NotNil(t, p.PostID)
	assert.Equal(t, post.ID, *p.PostID)
}
