package app

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Sweeper is what the eviction job needs from the in-process cache.
type Sweeper interface {
	Sweep() int
	Len() int
}

// Jobs owns the background schedule: periodic eviction of expired cache
// entries and warmup of the featured strip for the configured cities.
type Jobs struct {
	cron     *cron.Cron
	sweeper  Sweeper
	featured *FeaturedService
	cities   []string
	limit    int
}

func NewJobs(sweeper Sweeper, featured *FeaturedService, cities []string, limit int) *Jobs {
	if limit <= 0 {
		limit = 4
	}
	return &Jobs{cron: cron.New(), sweeper: sweeper, featured: featured, cities: cities, limit: limit}
}

func (j *Jobs) Start() error {
	if j.sweeper != nil {
		if _, err := j.cron.AddFunc("@every 1m", j.sweep); err != nil {
			return err
		}
	}
	if j.featured != nil && len(j.cities) > 0 {
		if _, err := j.cron.AddFunc("@every 5m", j.warmFeatured); err != nil {
			return err
		}
	}
	j.cron.Start()
	log.Info().Int("cities", len(j.cities)).Msg("background jobs started")
	return nil
}

func (j *Jobs) Stop() { j.cron.Stop() }

func (j *Jobs) sweep() {
	if n := j.sweeper.Sweep(); n > 0 {
		log.Debug().Int("evicted", n).Int("remaining", j.sweeper.Len()).
			Msg("cache sweep")
	}
}

func (j *Jobs) warmFeatured() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, city := range j.cities {
		if _, err := j.featured.Featured(ctx, city, j.limit, "en"); err != nil {
			log.Warn().Str("city", city).Err(err).Msg("featured warmup failed")
		}
	}
}
