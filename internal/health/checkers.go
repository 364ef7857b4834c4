// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0
// Since v2.0.0, this software is restricted to non-commercial use only.

package health

import (
	"context"
	"os"
	"path/filepath"
	"time"
)

// Pinger is satisfied by the persistent store.
type Pinger interface {
	Ping(ctx context.Context) error
	Backend() string
}

// StoreChecker reports the persistent store backend as unhealthy when it stops answering.
type StoreChecker struct {
	store   Pinger
	timeout time.Duration
}

// NewStoreChecker pings st with a two second bound.
func NewStoreChecker(st Pinger) *StoreChecker {
	return &StoreChecker{store: st, timeout: 2 * time.Second}
}

func (c *StoreChecker) Name() string { return "store" }

func (c *StoreChecker) Check(ctx context.Context) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if err := c.store.Ping(ctx); err != nil {
		return CheckResult{Status: StatusUnhealthy, Message: c.store.Backend(), Error: err.Error()}
	}
	return CheckResult{Status: StatusHealthy, Message: c.store.Backend()}
}

// DataDirChecker verifies the data directory exists and is writable.
type DataDirChecker struct {
	path string
}

// NewDataDirChecker checks path. An empty path is reported healthy.
func NewDataDirChecker(path string) *DataDirChecker {
	return &DataDirChecker{path: path}
}

func (c *DataDirChecker) Name() string { return "data_dir" }

func (c *DataDirChecker) Check(_ context.Context) CheckResult {
	if c.path == "" {
		return CheckResult{Status: StatusHealthy, Message: "not configured (optional)"}
	}
	info, err := os.Stat(c.path)
	if err != nil {
		if os.IsNotExist(err) {
			return CheckResult{Status: StatusUnhealthy, Error: "directory not found", Message: c.path}
		}
		return CheckResult{Status: StatusUnhealthy, Error: err.Error()}
	}
	if !info.IsDir() {
		return CheckResult{Status: StatusUnhealthy, Error: "expected directory, got file", Message: c.path}
	}
	testFile := filepath.Join(c.path, ".write_test")
	if err := os.WriteFile(testFile, []byte("ok"), 0o600); err != nil {
		return CheckResult{Status: StatusDegraded, Error: err.Error(), Message: "directory is not writable"}
	}
	_ = os.Remove(testFile)
	return CheckResult{Status: StatusHealthy, Message: c.path}
}

// CheckFunc adapts a function to Checker.
type CheckFunc struct {
	name string
	fn   func(ctx context.Context) CheckResult
}

// NewCheckFunc wraps fn under name.
func NewCheckFunc(name string, fn func(ctx context.Context) CheckResult) CheckFunc {
	return CheckFunc{name: name, fn: fn}
}

func (c CheckFunc) Name() string { return c.name }

func (c CheckFunc) Check(ctx context.Context) CheckResult { return c.fn(ctx) }
