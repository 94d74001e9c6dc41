package persistence

import "time"

// ErrorLogModel represents the error_logs table
type ErrorLogModel struct {
	ID        int       `gorm:"column:id;primaryKey;autoIncrement"`
	Timestamp time.Time `gorm:"column:timestamp;not null;index"`
	Level     string    `gorm:"column:level;not null;default:'ERROR';index"`
	Message   string    `gorm:"column:message;type:text;not null"`
	RequestID string    `gorm:"column:request_id;index"`
	Operation string    `gorm:"column:operation"`
	Metadata  string    `gorm:"column:metadata;type:text"`
}

func (ErrorLogModel) TableName() string {
	return "error_logs"
}

// DataLoadModel represents the data_loads table: one row per attempt to
// obtain trading data, from the provider or the disk cache
type DataLoadModel struct {
	ID          int       `gorm:"column:id;primaryKey;autoIncrement"`
	Timestamp   time.Time `gorm:"column:timestamp;not null;index"`
	Source      string    `gorm:"column:source;not null"`
	Success     bool      `gorm:"column:success;not null"`
	DurationMs  int64     `gorm:"column:duration_ms"`
	Commodities int       `gorm:"column:commodities"`
	Locations   int       `gorm:"column:locations"`
	Offers      int       `gorm:"column:offers"`
	Ships       int       `gorm:"column:ships"`
}

func (DataLoadModel) TableName() string {
	return "data_loads"
}

// Models lists every table for auto-migration
func Models() []interface{} {
	return []interface{}{
		&ErrorLogModel{},
		&DataLoadModel{},
	}
}
