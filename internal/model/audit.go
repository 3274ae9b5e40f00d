package model

import (
	"time"

	"github.com/google/uuid"
)

const (
	ActionRunReport    = "RUN_REPORT"
	ActionExportReport = "EXPORT_REPORT"
	ActionIngestEvents = "INGEST_EVENTS"
)

// ReportAudit tracks what was asked of the engine and when. Details holds
// the serialized query parameters; RowCount the post-filter result size.
type ReportAudit struct {
	ID        uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	Action    string    `gorm:"type:varchar(50);not null;index" json:"action"`
	Details   string    `gorm:"type:jsonb" json:"details"`
	RowCount  int       `gorm:"type:int;not null" json:"row_count"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}
