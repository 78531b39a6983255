// Package feedback holds the single user-visible outcome message that every
// mutating action reports.
package feedback

import (
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"socialsync/internal/observe"
)

// Message levels
const (
	LevelSuccess = "success"
	LevelError   = "error"
	LevelInfo    = "info"
)

const (
	DefaultTTL      = 4 * time.Second
	historyCapCount = 50
)

// Message is one outcome shown to the user.
type Message struct {
	Level string    `json:"level"`
	Text  string    `json:"text"`
	At    time.Time `json:"at"`
}

// Reporter is what stores need to surface an outcome.
type Reporter interface {
	Success(text string)
	Error(text string)
	Info(text string)
}

// Center is the single message slot. A new message replaces the visible one
// and re-arms the auto-clear timer.
type Center struct {
	ttl time.Duration
	log zerolog.Logger

	mu      sync.Mutex
	current *Message
	history []Message
	timer   *time.Timer
	subs    observe.Set[*Message]
}

func NewCenter(ttl time.Duration, log zerolog.Logger) *Center {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Center{
		ttl: ttl,
		log: log,
	}
}

func (c *Center) Success(text string) { c.show(LevelSuccess, text) }
func (c *Center) Error(text string) { c.show(LevelError, text) }
func (c *Center) Info(text string) { c.show(LevelInfo, text) }

func (c *Center) show(level, text string) {
	if text == "" {
		return
	}
	msg := Message{Level: level, Text: text, At: time.Now()}

	c.mu.Lock()
	c.current = &msg
	c.history = append(c.history, msg)
	if len(c.history) > historyCapCount {
		c.history = c.history[len(c.history)-historyCapCount:]
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	shown := c.current
	c.timer = time.AfterFunc(c.ttl, func() { c.expire(shown) })
	version := c.subs.Stamp()
	c.mu.Unlock()

	c.log.Debug().Str("level", level).Str("text", text).Msg("feedback")
	visible := msg
	c.subs.Publish(version, &visible)
}

// expire clears the slot only if msg is still the visible message.
func (c *Center) expire(msg *Message) {
	c.mu.Lock()
	if c.current != msg {
		c.mu.Unlock()
		return
	}
	c.current = nil
	version := c.subs.Stamp()
	c.mu.Unlock()

	c.subs.Publish(version, nil)
}

// Clear hides the visible message immediately.
func (c *Center) Clear() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.current = nil
	version := c.subs.Stamp()
	c.mu.Unlock()

	c.subs.Publish(version, nil)
}

// Current returns the visible message, if any.
func (c *Center) Current() (Message, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.current == nil {
		return Message{}, false
	}
	return *c.current, true
}

// History returns the most recent messages, oldest first.
func (c *Center) History() []Message {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]Message(nil), c.history...)
}

// Subscribe registers fn for every change of the visible message; nil means
// the slot was cleared. The returned func unsubscribes.
func (c *Center) Subscribe(fn func(*Message)) func() {
	return c.subs.Add(fn)
}

// Close stops the pending auto-clear timer.
func (c *Center) Close() {
	c.mu.Lock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.mu.Unlock()
}

// humanMessager is implemented by errors carrying a backend-provided message.
type humanMessager interface {
	HumanMessage() string
}

// ErrorText picks the text shown for a failed action: the backend's own
// message when the error carries one, otherwise fallback.
func ErrorText(err error, fallback string) string {
	var hm humanMessager
	if errors.As(err, &hm) && hm.HumanMessage() != "" {
		return hm.HumanMessage()
	}
	return fallback
}
