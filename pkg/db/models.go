package db

import "time"

// Run is the bookkeeping row of one resolution run.
type Run struct {
	ID                 string
	StartedAt          time.Time
	FinishedAt         time.Time
	Records            int
	Groups             int
	Pairs              int
	IngestedPairs      int
	IngestedRecords    int
	Logged             int
	Review             int
	ExactDuplicateKeys int
}

// StatusCount is the number of pairs written with one status in a run.
type StatusCount struct {
	Table      string
	Status     string
	StatusCode string
	Count      int
}
