package model

import "time"

// LabTask is a single assignment belonging to a topic. FilePath and
// SolutionFilePath are paths relative to the configured files directory;
// empty string means no file was attached.
type LabTask struct {
	ID               uint64
	Title            string
	Description      string
	TopicID          uint64
	FilePath         string
	SolutionFilePath string
	CreatedAt        time.Time
}
