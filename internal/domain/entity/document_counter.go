package entity

// DocumentCounter holds the last document sequence used on one day.
// Day is formatted as 2006-01-02.
type DocumentCounter struct {
	Day   string `gorm:"size:10;primaryKey"`
	Value int    `gorm:"not null;default:0"`
}

func (DocumentCounter) TableName() string {
	return "document_counters"
}
