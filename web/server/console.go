package server

import (
	"bytes"
	"regexp"
	"strings"
	"sync"
	"time"
)

// ConsoleMessage represents a console message with timestamp
type ConsoleMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Level     string    `json:"level"` // "debug", "info", "notice", "warning", "error"
}

// Console keeps the most recent log lines for the web console. It is an
// io.Writer so it can be installed as (part of) the log sink.
type Console struct {
	mu       sync.Mutex
	limit    int
	messages []ConsoleMessage
	partial  []byte // Unterminated line from the previous write
}

// NewConsole creates a console retaining up to limit messages
func NewConsole(limit int) *Console {
	return &Console{limit: max(1, limit)}
}

var (
	ansiEscape   = regexp.MustCompile(`\x1b\[[0-9;]*m`)
	levelPattern = regexp.MustCompile(`\[(DEBUG|INFO|NOTICE|WARNING|ERROR|CRITICAL)\]`)
)

// Write records each complete line in p as a message
func (c *Console) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	data := append(c.partial, p...)
	for {
		i := bytes.IndexByte(data, '\n')
		if i < 0 {
			break
		}
		c.add(string(data[:i]))
		data = data[i+1:]
	}
	c.partial = append([]byte(nil), data...)
	return len(p), nil
}

func (c *Console) add(line string) {
	line = ansiEscape.ReplaceAllString(line, "")
	if strings.TrimSpace(line) == "" {
		return
	}

	level := "info"
	if m := levelPattern.FindStringSubmatch(line); m != nil {
		level = strings.ToLower(m[1])
	}

	c.messages = append(c.messages, ConsoleMessage{
		Message:   line,
		Timestamp: time.Now(),
		Level:     level,
	})
	if len(c.messages) > c.limit {
		c.messages = c.messages[len(c.messages)-c.limit:]
	}
}

// Messages returns a copy of the retained messages, oldest first
func (c *Console) Messages() []ConsoleMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]ConsoleMessage{}, c.messages...)
}
