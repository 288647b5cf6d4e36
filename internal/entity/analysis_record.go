package entity

// AnalysisRecord is a persisted analysis or advice text keyed by topic and parameters.
// The (Topic, Parameters) pair is not unique.
type AnalysisRecord struct {
	ID         uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Topic      string `gorm:"type:text;not null" json:"topic"`
	Parameters string `gorm:"type:text;not null" json:"parameters"`
	Content    string `gorm:"type:text;not null" json:"content"`
}

// TableName specifies the table name for the AnalysisRecord model.
func (AnalysisRecord) TableName() string {
	return "analysis_data"
}
