package scheduler

import "time"

// Config controls the scheduler loop and the cleanup job window.
type Config struct {
	RunInterval   time.Duration
	JobTimeout    time.Duration
	CleanupHour   int
	RetentionDays int
}

func DefaultConfig() Config {
	return Config{
		RunInterval:   time.Minute,
		JobTimeout:    30 * time.Second,
		CleanupHour:   2,
		RetentionDays: 14,
	}
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if c.RunInterval <= 0 {
		c.RunInterval = defaults.RunInterval
	}
	if c.JobTimeout <= 0 {
		c.JobTimeout = defaults.JobTimeout
	}
	if c.CleanupHour < 0 || c.CleanupHour > 23 {
		c.CleanupHour = defaults.CleanupHour
	}
	if c.RetentionDays <= 0 {
		c.RetentionDays = defaults.RetentionDays
	}
	return c
}
