package client

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"strings"

	"github.com/gorilla/websocket"
)

// DefaultServerURL is the public Showdown websocket endpoint.
const DefaultServerURL = "wss://sim.psim.us/showdown/websocket"

type ShowdownClient struct {
	conn *websocket.Conn

	// watcher is closed once the goroutine tying the connection to the
	// Messages context has returned.
	watcher chan struct{}
}

// Dial connects once. Callers own any retry policy.
func Dial(ctx context.Context, serverURL string) (*ShowdownClient, error) {
	u, err := url.Parse(serverURL)
	if err != nil {
		return nil, fmt.Errorf("parsing server url: %w", err)
	}

	slog.Debug("connecting to showdown", "url", u.String())
	c, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("connecting to websocket: %w", err)
	}

	slog.Info("connected to showdown", "url", u.String())
	return &ShowdownClient{conn: c}, nil
}

// Message is one websocket frame, or the read error that ended the stream.
type Message struct {
	Text string
	Err  error
}

// Messages streams frames until the connection fails or ctx is done. The
// channel is closed after the final message; the connection is closed with it.
func (sc *ShowdownClient) Messages(ctx context.Context) <-chan Message {
	out := make(chan Message)
	readerDone := make(chan struct{})
	sc.watcher = make(chan struct{})

	go func(watcher chan struct{}) {
		defer close(watcher)
		select {
		case <-ctx.Done():
			sc.conn.Close()
		case <-readerDone:
		}
	}(sc.watcher)

	go func() {
		defer close(readerDone)
		defer close(out)
		defer sc.conn.Close()
		for {
			_, message, err := sc.conn.ReadMessage()
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				slog.Debug("read error", "error", err)
				select {
				case out <- Message{Err: err}:
				case <-ctx.Done():
				}
				return
			}
			select {
			case out <- Message{Text: string(message)}:
			case <-ctx.Done():
				return
			}
		}
	}()

	return out
}

func (sc *ShowdownClient) Send(message string) error {
	slog.Debug("sending", "message", message)
	return sc.conn.WriteMessage(websocket.TextMessage, []byte(message))
}

func (sc *ShowdownClient) JoinRoom(roomID string) error {
	return sc.Send(fmt.Sprintf("|/join %s", roomID))
}

func (sc *ShowdownClient) Close() error {
	return sc.conn.Close()
}

// NormalizeRoomID accepts "gen9ou-123" or "battle-gen9ou-123" and returns the
// battle- prefixed form.
func NormalizeRoomID(roomID string) (string, error) {
	roomID = strings.TrimSpace(roomID)
	if roomID == "" || roomID == "battle-" {
		return "", errors.New("room id must not be empty")
	}
	if !strings.HasPrefix(roomID, "battle-") {
		roomID = "battle-" + roomID
	}
	return roomID, nil
}
