package model

// Topic groups lab tasks. Names are unique.
type Topic struct {
	ID          uint64
	Name        string
	Description string
}
