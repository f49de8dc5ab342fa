// Package seed fills a running roster API with generated servers and checks
// that its reports keep their ordering guarantees.
package seed

import "time"

// Config holds configuration for a seeding run.
type Config struct {
	BaseURL   string        // Base URL of the service
	Count     int           // Number of servers to generate
	Workers   int           // Number of concurrent submitters
	Timeout   time.Duration // HTTP request timeout
	Neighbors int           // k for the similarity checks
	Probes    int           // Number of similarity queries to verify
	Verbose   bool          // Log every failed request
}

// Stats holds run statistics.
type Stats struct {
	Generated  int
	Submitted  int
	Successful int
	Failed     int
	ReportRows int
	ProbesRun  int
	StartTime  time.Time
	EndTime    time.Time
	Duration   time.Duration
}
