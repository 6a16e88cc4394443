// Package store provides the push journal persistence layer.
package store

import (
	"context"
	"time"
)

// PushRecord is one journaled digest delivery attempt. Only delivery audit
// data is persisted; ranking state is recomputed fresh every cycle and never
// stored.
type PushRecord struct {
	ID        int64     `json:"id"`
	Timestamp time.Time `json:"timestamp"`
	Channel   string    `json:"channel"`
	Rows      int       `json:"rows"`
	Chars     int       `json:"chars"`
	OK        bool      `json:"ok"`
	Error     string    `json:"error,omitempty"`
}

// Journal records and lists digest push attempts.
type Journal interface {
	LogPush(ctx context.Context, rec *PushRecord) error
	ListPushes(ctx context.Context, limit int) ([]PushRecord, error)
	Close() error
}
