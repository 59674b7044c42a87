package audit

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const writeTimeout = 5 * time.Second

// MySQLSink writes audit entries to the audit_logs table through a bounded
// queue drained by a single goroutine. When the queue is full the entry is
// dropped and logged; audit logging never backpressures the request path.
type MySQLSink struct {
	db     *sql.DB
	logger *zap.Logger
	queue  chan Entry
	done   chan struct{}
}

func NewMySQLSink(db *sql.DB, queueSize int, logger *zap.Logger) *MySQLSink {
	s := &MySQLSink{
		db:     db,
		logger: logger,
		queue:  make(chan Entry, queueSize),
		done:   make(chan struct{}),
	}
	go s.drain()
	return s
}

func (s *MySQLSink) Record(ctx context.Context, entry Entry) {
	select {
	case s.queue <- entry:
	default:
		s.logger.Warn("audit queue full, dropping entry",
			zap.String("action", entry.Action),
			zap.String("entity", entry.Entity),
			zap.String("entityId", entry.EntityID),
		)
	}
}

// Close stops accepting entries and flushes what is already queued.
func (s *MySQLSink) Close() {
	close(s.queue)
	<-s.done
}

func (s *MySQLSink) drain() {
	defer close(s.done)
	for entry := range s.queue {
		s.write(entry)
	}
}

func (s *MySQLSink) write(entry Entry) {
	ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	payload, err := json.Marshal(entry.Payload)
	if err != nil {
		s.logger.Error("marshaling audit payload", zap.Error(err))
		payload = []byte("{}")
	}

	query := `
		INSERT INTO audit_logs (id, tenant_id, user_id, action, entity, entity_id, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		uuid.New().String(), entry.TenantID, entry.ActorID,
		entry.Action, entry.Entity, entry.EntityID, string(payload),
	)
	if err != nil {
		s.logger.Error("writing audit entry",
			zap.String("action", entry.Action),
			zap.String("entity", entry.Entity),
			zap.Error(err),
		)
	}
}
