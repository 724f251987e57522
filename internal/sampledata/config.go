package sampledata

import "time"

// Config holds configuration for the export generator
type Config struct {
	LoadDir     string    // Directory for training load workbooks
	WellnessDir string    // Directory for wellness survey workbooks
	Athletes    []string  // Squad roster
	Days        int       // Number of days ending at Anchor
	Anchor      time.Time // Most recent generated day
	Seed        int64     // Random source seed; a fixed seed reproduces the data set
	Format      string    // FormatXLSX or FormatCSV
}

// Stats holds generation statistics
type Stats struct {
	FilesWritten int
	LoadRows     int
	WellnessRows int
}
