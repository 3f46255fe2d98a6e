package main

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/rivo/tview"
)

// LogLevel represents the severity of a log message
type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

// LogManager manages the log panel and message history
type LogManager struct {
	// textView is the tview component for displaying logs
	textView *tview.TextView

	// messages stores recent log messages
	messages []LogMessage

	// maxMessages is the maximum number of messages to keep
	maxMessages int

	// mu protects concurrent access to messages
	mu sync.Mutex

	// queue schedules a redraw on the UI goroutine; nil redraws inline
	queue func(func())
}

// LogMessage represents a single log entry
type LogMessage struct {
	Time    time.Time
	Level   LogLevel
	Message string
}

// NewLogManager creates a new log manager
func NewLogManager(maxMessages int) *LogManager {
	textView := tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetMaxLines(maxMessages)

	textView.SetBorder(true).SetTitle(" Logs ")

	return &LogManager{
		textView:    textView,
		messages:    make([]LogMessage, 0, maxMessages),
		maxMessages: maxMessages,
	}
}

// GetView returns the tview component
func (lm *LogManager) GetView() tview.Primitive {
	return lm.textView
}

// SetQueue routes redraws through fn, typically tview's QueueUpdateDraw.
func (lm *LogManager) SetQueue(fn func(func())) {
	lm.mu.Lock()
	defer lm.mu.Unlock()
	lm.queue = fn
}

// AddLog adds a log message with the specified level
func (lm *LogManager) AddLog(level LogLevel, format string, args ...interface{}) {
	lm.mu.Lock()
	lm.messages = append(lm.messages, LogMessage{
		Time:    time.Now(),
		Level:   level,
		Message: fmt.Sprintf(format, args...),
	})

	// Trim old messages if we exceed max
	if len(lm.messages) > lm.maxMessages {
		lm.messages = lm.messages[len(lm.messages)-lm.maxMessages:]
	}
	queue := lm.queue
	lm.mu.Unlock()

	if queue != nil {
		queue(lm.refresh)
	} else {
		lm.refresh()
	}
}

// Write lets a *log.Logger feed the panel. Each line becomes one message;
// the level is inferred from the poller's status marks.
func (lm *LogManager) Write(p []byte) (int, error) {
	for _, line := range strings.Split(strings.TrimRight(string(p), "\n"), "\n") {
		if line == "" {
			continue
		}
		lm.AddLog(levelOf(line), "%s", line)
	}
	return len(p), nil
}

func levelOf(line string) LogLevel {
	switch {
	case strings.Contains(line, "PANIC"), strings.Contains(line, "✗"):
		return LogLevelError
	case strings.Contains(line, "Rate limit"):
		return LogLevelWarn
	default:
		return LogLevelInfo
	}
}

// Info logs an info message
func (lm *LogManager) Info(format string, args ...interface{}) {
	lm.AddLog(LogLevelInfo, format, args...)
}

// Warn logs a warning message
func (lm *LogManager) Warn(format string, args ...interface{}) {
	lm.AddLog(LogLevelWarn, format, args...)
}

// refresh updates the text view with current messages
func (lm *LogManager) refresh() {
	lm.mu.Lock()
	messages := make([]LogMessage, len(lm.messages))
	copy(messages, lm.messages)
	lm.mu.Unlock()

	var b strings.Builder
	for _, msg := range messages {
		color := colorForLevel(msg.Level)
		// Format: [HH:MM:SS] LEVEL Message
		fmt.Fprintf(&b, "[gray]%s[-] [%s]%-5s[-] %s\n",
			msg.Time.Format("15:04:05"), color, msg.Level, tview.Escape(msg.Message))
	}

	lm.textView.SetText(b.String())
	lm.textView.ScrollToEnd()
}

// colorForLevel returns the tview color tag for a log level
func colorForLevel(level LogLevel) string {
	switch level {
	case LogLevelDebug:
		return "gray"
	case LogLevelWarn:
		return "yellow"
	case LogLevelError:
		return "red"
	default:
		return "white"
	}
}
