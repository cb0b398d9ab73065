package transport

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
)

// Console is a line-oriented transport: every input line is an event from
// one fixed author in one chat, and every send or edit is printed.
type Console struct {
	ChatID     int64
	AuthorID   int64
	AuthorName string
	// ShowEdits prints intermediate edits; otherwise only sends are printed
	// and the latest edit of each message is printed by Flush.
	ShowEdits bool

	in  io.Reader
	out io.Writer

	mu      sync.Mutex
	nextID  int64
	pending map[int64]string
	order   []int64
}

// NewConsole creates a console transport.
func NewConsole(in io.Reader, out io.Writer) *Console {
	return &Console{
		ChatID:     1,
		AuthorID:   1,
		AuthorName: "console",
		in:         in,
		out:        out,
		pending:    make(map[int64]string),
	}
}

// Send prints text and returns a handle for later edits.
func (c *Console) Send(_ context.Context, chatID int64, text string, _ SendOptions) (Handle, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.nextID++
	h := Handle{ChatID: chatID, MessageID: c.nextID}
	if c.ShowEdits {
		_, err := fmt.Fprintln(c.out, text)
		return h, err
	}
	c.pending[h.MessageID] = text
	c.order = append(c.order, h.MessageID)
	return h, nil
}

// Edit replaces the text of h.
func (c *Console) Edit(_ context.Context, h Handle, text string, _ SendOptions) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.ShowEdits {
		_, err := fmt.Fprintln(c.out, text)
		return err
	}
	if _, ok := c.pending[h.MessageID]; !ok {
		return fmt.Errorf("console: unknown message %d", h.MessageID)
	}
	c.pending[h.MessageID] = text
	return nil
}

// Flush prints the final text of every message sent since the last Flush.
func (c *Console) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range c.order {
		if _, err := fmt.Fprintln(c.out, c.pending[id]); err != nil {
			return err
		}
		delete(c.pending, id)
	}
	c.order = c.order[:0]
	return nil
}

// Receive turns each non-empty input line into an event and hands it to h
// synchronously, flushing output after each one.
func (c *Console) Receive(ctx context.Context, h Handler) error {
	sc := bufio.NewScanner(c.in)
	var msgID int64
	for sc.Scan() {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		msgID++
		h.HandleEvent(ctx, Event{
			ChatID:     c.ChatID,
			MessageID:  msgID,
			AuthorID:   c.AuthorID,
			AuthorName: c.AuthorName,
			Text:       line,
		})
		if err := c.Flush(); err != nil {
			return err
		}
	}
	return sc.Err()
}

var (
	_ Sender   = (*Console)(nil)
	_ Receiver = (*Console)(nil)
)
