package service

import "time"

const (
	DefaultCheckInterval       = 15 * time.Second // Interval between expiration sweeps
	DefaultSweepBuffer         = 5 * time.Second  // Grace added to the deadline check
	DefaultNotificationTimeout = 10 * time.Second // Per-giveaway budget for gateway calls
	MaxConcurrentProcessing    = 10               // Tenants swept in parallel within one tick
)
