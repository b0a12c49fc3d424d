package domain

// Table is a mongo collection name
type Table string

const (
	TableActivities Table = "activities"
)
