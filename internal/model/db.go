package model

import (
	"time"

	"gorm.io/datatypes"
)

// ScheduleArtifact one stored artifact per name; re-publishing overwrites the row.
type ScheduleArtifact struct {
	ID        uint64         `gorm:"column:id;primaryKey;autoIncrement;comment:auto increment id"`
	Name      string         `gorm:"column:name;type:varchar(256);uniqueIndex;not null;comment:artifact name"`
	Body      datatypes.JSON `gorm:"column:body;type:jsonb;not null;comment:schedule JSON array"`
	Checksum  string         `gorm:"column:checksum;type:varchar(64);not null;comment:sha256 of body"`
	CreatedAt time.Time      `gorm:"column:created_at;type:timestamp;default:now()"`
	UpdatedAt time.Time      `gorm:"column:updated_at;type:timestamp;default:now()"`
}

// ScheduleRun audit row written after every run, successful or not.
type ScheduleRun struct {
	ID           uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	RunUUID      string         `gorm:"column:run_uuid;type:varchar(64);uniqueIndex;not null" json:"run_id"`
	TargetDate   string         `gorm:"column:target_date;type:varchar(10);index;not null" json:"date"`
	Status       string         `gorm:"column:status;type:varchar(16);not null;comment:succeeded/failed" json:"status"`
	ArtifactName string         `gorm:"column:artifact_name;type:varchar(256)" json:"artifact"`
	Games        int            `gorm:"column:games;type:int;default:0" json:"games"`
	Matched      int            `gorm:"column:matched;type:int;default:0" json:"matched"`
	Report       datatypes.JSON `gorm:"column:report;type:jsonb" json:"report"`
	Error        *string        `gorm:"column:error;type:text" json:"error,omitempty"`
	StartedAt    time.Time      `gorm:"column:started_at;type:timestamp;not null" json:"started_at"`
	FinishedAt   time.Time      `gorm:"column:finished_at;type:timestamp;not null" json:"finished_at"`
}

func (ScheduleArtifact) TableName() string { return "schedule_artifacts" }
func (ScheduleRun) TableName() string      { return "schedule_runs" }
