package services

import (
	"log"
	"main/utils"
	"time"
)

// DayRollover watches for the local calendar day to change and purges the
// cached "completed today" projections so they re-derive from completion
// history. It is a re-projection only: completion_dates is never mutated
// here.
type DayRollover struct {
	cache    *HabitCache
	interval time.Duration
	stop     chan struct{}
}

func NewDayRollover(cache *HabitCache, interval time.Duration) *DayRollover {
	if interval <= 0 {
		interval = time.Minute
	}
	return &DayRollover{
		cache:    cache,
		interval: interval,
		stop:     make(chan struct{}),
	}
}

// Start runs the rollover check loop until Stop is called
func (dr *DayRollover) Start() {
	go func() {
		ticker := time.NewTicker(dr.interval)
		defer ticker.Stop()

		lastDay := utils.DayKey(time.Now())
		for {
			select {
			case <-ticker.C:
				today := utils.DayKey(time.Now())
				if today == lastDay {
					continue
				}
				log.Printf("Calendar day rolled over from %s to %s", lastDay, today)
				lastDay = today
				if err := dr.cache.PurgeStaleProjections(today); err != nil {
					log.Printf("Rollover purge failed: %v", err)
				}
			case <-dr.stop:
				return
			}
		}
	}()
}

func (dr *DayRollover) Stop() {
	close(dr.stop)
}
