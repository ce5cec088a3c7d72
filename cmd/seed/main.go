package main

import (
	"context"
	"crypto/tls"
	"flag"
	"math/rand"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"

	appconfig "github.com/medischedule/medischedule-server/internal/config"
	"github.com/medischedule/medischedule-server/internal/store"
	"github.com/medischedule/medischedule-server/pkg/logging"
)

// Seeds the Redis-backed demo dataset without starting the API server.
// The memory backend seeds itself at boot, so this tool only targets Redis.
func main() {
	var seedValue int64
	var reset bool
	flag.Int64Var(&seedValue, "seed", 0, "fixed RNG seed for a reproducible dataset (0 = random)")
	flag.BoolVar(&reset, "reset", false, "delete the existing collections before seeding")
	flag.Parse()

	if err := godotenv.Load(); err == nil {
		os.Stdout.WriteString("Loaded environment from .env\n")
	}

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	opts := &redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
	}
	if cfg.RedisTLS {
		opts.TLSConfig = &tls.Config{MinVersion: tls.VersionTLS12}
	}
	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Error("failed to connect to redis", "addr", cfg.RedisAddr, "error", err)
		os.Exit(1)
	}

	if seedValue == 0 {
		seedValue = time.Now().UnixNano()
	}
	gen := store.NewGenerator(rand.NewSource(seedValue), time.Now())
	patients := gen.Patients(cfg.SeedPatients)
	appointments := gen.Appointments(patients, cfg.SeedAppointments)

	rs := store.NewRedisStore(rdb)
	if reset {
		if err := rs.Reset(ctx); err != nil {
			logger.Error("reset failed", "error", err)
			os.Exit(1)
		}
		logger.Info("deleted existing collections")
	}

	seeded, err := rs.SeedIfEmpty(ctx, patients, appointments)
	if err != nil {
		logger.Error("seeding failed", "error", err)
		os.Exit(1)
	}
	if !seeded {
		logger.Info("store already populated, nothing to do")
		return
	}
	logger.Info("seeded demo dataset",
		"patients", len(patients),
		"appointments", len(appointments),
		"rng_seed", seedValue,
	)
}
