// Package health periodically re-tests the connectivity of every configured
// data source and logs backends that have become unreachable.
package health

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/tribe-health/growthbook/internal/connectors"
	"github.com/tribe-health/growthbook/internal/secrets"
	"github.com/tribe-health/growthbook/internal/store"
)

// DefaultSchedule runs the connection check once an hour.
const DefaultSchedule = "@hourly"

const checkTimeout = 30 * time.Second

// Checker runs scheduled connectivity checks over all data sources.
type Checker struct {
	store  store.Store
	cipher *secrets.Cipher
	cron   *cron.Cron
}

// NewChecker creates a Checker over the given store.
func NewChecker(st store.Store, cipher *secrets.Cipher) *Checker {
	return &Checker{
		store:  st,
		cipher: cipher,
		cron:   cron.New(),
	}
}

// Start schedules CheckAll on the given cron expression and starts the scheduler.
func (c *Checker) Start(schedule string) error {
	if schedule == "" {
		schedule = DefaultSchedule
	}
	if _, err := c.cron.AddFunc(schedule, func() {
		if err := c.CheckAll(context.Background()); err != nil {
			log.Printf("Connection check run failed: %v", err)
		}
	}); err != nil {
		return err
	}
	c.cron.Start()
	log.Printf("Connection health checker started with schedule %q", schedule)
	return nil
}

// Stop halts the scheduler. A check already in flight is not interrupted.
func (c *Checker) Stop() {
	c.cron.Stop()
}

// CheckAll tests connectivity of every data source once. Individual failures are
// logged and do not stop the sweep; the returned error covers only the inability
// to enumerate data sources.
func (c *Checker) CheckAll(ctx context.Context) error {
	sources, err := c.store.ListAll(ctx)
	if err != nil {
		return err
	}

	healthy := 0
	for _, ds := range sources {
		plaintext, err := c.cipher.Decrypt(ds.EncryptedParams)
		if err != nil {
			log.Printf("Data source %s (%s): failed to decrypt params: %v", ds.ID, ds.Name, err)
			continue
		}

		checkCtx, cancel := context.WithTimeout(ctx, checkTimeout)
		err = connectors.Test(checkCtx, ds.Type, json.RawMessage(plaintext))
		cancel()
		if err != nil {
			log.Printf("Data source %s (%s): connection check failed: %v", ds.ID, ds.Name, err)
			continue
		}
		healthy++
	}

	log.Printf("Connection check completed: %d/%d data sources healthy", healthy, len(sources))
	return nil
}
