package models

import "time"

// CheckRecord is a single audited grammar-check request. The original
// text is never stored, only its hash and length.
type CheckRecord struct {
	RequestID  string    `json:"request_id"`
	TextHash   string    `json:"text_hash"`
	TextLength int       `json:"text_length"`
	Provider   string    `json:"provider"`
	Language   string    `json:"language"`
	SessionID  string    `json:"session_id"`
	ErrorCount int       `json:"error_count"`
	Cached     bool      `json:"cached"`
	StatusCode int       `json:"status_code"`
	LatencyMs  int64     `json:"latency_ms"`
	CreatedAt  time.Time `json:"created_at"`
}

// AuditConfig controls the audit logging subsystem.
type AuditConfig struct {
	Enabled       bool   `yaml:"enabled"`
	DBPath        string `yaml:"db_path"`
	RetentionDays int    `yaml:"retention_days"`
}

// AuditQueryOpts specifies filters for querying check records.
type AuditQueryOpts struct {
	Provider  string
	Language  string
	SessionID string
	RequestID string
	Since     time.Time
	Limit     int
}

// AuditStat holds aggregate check counts for a provider/day combination.
type AuditStat struct {
	Provider string
	Day      string
	Count    int
}
