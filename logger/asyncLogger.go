package logger

import (
	"time"

	logModel "esport-accounts/models/log"
	"esport-accounts/types"

	"gorm.io/gorm"
)

// AsyncLogger persists request/response records off the hot path. Handlers
// push entries into a buffered channel; a single goroutine drains it into
// the database.
type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.LogEntry
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.LogEntry, 100),
	}
}

// ProcessLog drains the channel until it is closed. Run it in its own
// goroutine.
func (logger *AsyncLogger) ProcessLog() {
	Info("Starting asynchronous request logger...")

	for entry := range logger.channel {
		dbLog := logModel.Log{
			Method:       entry.Method,
			URL:          entry.URL,
			RequestBody:  entry.RequestBody,
			ResponseBody: entry.ResponseBody,
			StatusCode:   entry.StatusCode,
			CreatedAt:    time.Now(),
		}

		if err := logger.db.Create(&dbLog).Error; err != nil {
			Error("Failed to insert request log entry", err)
		}
	}
}

// Log pushes an entry into the channel. Drops nothing; callers block only
// when the buffer is full.
func (logger *AsyncLogger) Log(entry types.LogEntry) {
	logger.channel <- entry
}
