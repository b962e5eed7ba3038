package sse

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/levelup-backend/internal/logger"
)

func testHub(t *testing.T) *SSEHub {
	t.Helper()
	log, err := logger.New("development")
	if err != nil {
		t.Fatalf("logger init: %v", err)
	}
	return NewSSEHub(log)
}

func TestBroadcastReachesSubscribedClient(t *testing.T) {
	hub := testHub(t)
	userID := uuid.New()
	client := hub.NewSSEClient(userID)
	hub.AddChannel(client, UserChannel(userID))

	hub.Broadcast(SSEMessage{
		Channel: UserChannel(userID),
		Event:   SSEEventAchievementUnlocked,
		Data:    map[string]string{"name": "First Steps"},
	})

	select {
	case msg := <-client.Outbound:
		if msg.Event != SSEEventAchievementUnlocked {
			t.Fatalf("event = %s, want %s", msg.Event, SSEEventAchievementUnlocked)
		}
	case <-time.After(time.Second):
		t.Fatal("message not delivered")
	}
}

func TestBroadcastSkipsOtherChannels(t *testing.T) {
	hub := testHub(t)
	client := hub.NewSSEClient(uuid.New())
	hub.AddChannel(client, UserChannel(client.UserID))

	hub.Broadcast(SSEMessage{Channel: UserChannel(uuid.New()), Event: SSEEventPointsAwarded})

	select {
	case msg := <-client.Outbound:
		t.Fatalf("unexpected delivery: %+v", msg)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestBroadcastDropsWhenBufferFull(t *testing.T) {
	hub := testHub(t)
	client := hub.NewSSEClient(uuid.New())
	channel := UserChannel(client.UserID)
	hub.AddChannel(client, channel)

	// Fill the buffer and then some; Broadcast must not block.
	for i := 0; i < cap(client.Outbound)+5; i++ {
		hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventLeaderboardChanged})
	}
	if got := len(client.Outbound); got != cap(client.Outbound) {
		t.Fatalf("buffered = %d, want full buffer %d", got, cap(client.Outbound))
	}
}

func TestCloseClientTearsDownStream(t *testing.T) {
	hub := testHub(t)
	client := hub.NewSSEClient(uuid.New())
	channel := UserChannel(client.UserID)
	hub.AddChannel(client, channel)

	hub.CloseClient(client)

	select {
	case <-client.done:
	case <-time.After(time.Second):
		t.Fatal("done channel not closed")
	}
	if _, open := <-client.Outbound; open {
		t.Fatal("outbound channel still open after close")
	}
	// A broadcast after teardown must not reach (or panic on) the closed
	// channel.
	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventPointsAwarded})
}

func TestRemoveClientUnsubscribesEverything(t *testing.T) {
	hub := testHub(t)
	client := hub.NewSSEClient(uuid.New())
	channel := UserChannel(client.UserID)
	hub.AddChannel(client, channel)
	hub.RemoveClient(client)

	hub.Broadcast(SSEMessage{Channel: channel, Event: SSEEventPointsAwarded})
	if got := len(client.Outbound); got != 0 {
		t.Fatalf("removed client received %d messages", got)
	}
}
