package audit

import (
	"sync"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/leadengine/leadengine/internal/db/models"
)

// LocationResolver turns a client address into a human-readable location.
// A nil result means the lookup failed or the address is not routable;
// records are written either way.
type LocationResolver interface {
	Locate(ip string) *string
}

// Recorder persists activity records on background goroutines. A write
// failure is logged and the record dropped; the request the record
// describes has already been answered and must not be affected.
type Recorder struct {
	db  *gorm.DB
	geo LocationResolver
	wg  sync.WaitGroup
}

// NewRecorder builds a Recorder. geo may be nil when location resolution
// is disabled; records then carry no location.
func NewRecorder(db *gorm.DB, geo LocationResolver) *Recorder {
	return &Recorder{db: db, geo: geo}
}

// Record queues one activity record for persistence and returns
// immediately. The record must be fully owned by the caller: no fields may
// reference request-scoped memory.
func (r *Recorder) Record(record *models.ActivityLog) {
	r.wg.Add(1)

	go func() {
		defer r.wg.Done()

		if r.geo != nil && record.ClientIP != "" && record.Location == nil {
			record.Location = r.geo.Locate(record.ClientIP)
		}

		if err := r.db.Create(record).Error; err != nil {
			log.Error().
				Err(err).
				Str("action", record.Action).
				Str("endpoint", record.Endpoint).
				Msg("failed to persist activity record")
		}
	}()
}

// Drain blocks until every queued record has been attempted. Called on
// shutdown so in-flight records are not lost with the process.
func (r *Recorder) Drain() {
	r.wg.Wait()
}
