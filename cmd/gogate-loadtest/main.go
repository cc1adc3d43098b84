package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/alicebob/miniredis/v2"
	goGate "github.com/hirewire/goGate"
	"github.com/hirewire/goGate/record"
	"github.com/redis/go-redis/v9"
)

type seededUser struct {
	userID     string
	credential string
}

func main() {
	var (
		users       = flag.Int("users", 50000, "number of users to seed")
		concurrency = flag.Int("concurrency", 256, "number of concurrent workers")
		ops         = flag.Int("ops", 200000, "operations per phase (authenticate + fetch)")
		redisAddr   = flag.String("redis-addr", "", "redis address; if empty, REDIS_ADDR env or miniredis is used")
		prefix      = flag.String("prefix", "gaterec", "record key prefix")
	)
	flag.Parse()

	if *users <= 0 || *concurrency <= 0 || *ops <= 0 {
		fmt.Fprintln(os.Stderr, "users, concurrency, and ops must be > 0")
		os.Exit(2)
	}

	ctx := context.Background()

	addr := *redisAddr
	if addr == "" {
		addr = os.Getenv("REDIS_ADDR")
	}

	var (
		cleanup func()
		client  redis.UniversalClient
	)
	if addr == "" {
		mr, err := miniredis.Run()
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to start miniredis: %v\n", err)
			os.Exit(1)
		}
		addr = mr.Addr()
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() {
			_ = client.Close()
			mr.Close()
		}
		fmt.Printf("using miniredis at %s\n", addr)
	} else {
		client = redis.NewUniversalClient(&redis.UniversalOptions{
			Addrs: []string{addr},
		})
		cleanup = func() { _ = client.Close() }
		fmt.Printf("using redis at %s\n", addr)
	}
	defer cleanup()

	cfg := goGate.DefaultConfig()
	cfg.Token.Secret = []byte("loadtest-secret-0123456789abcdef")
	cfg.Record.RedisPrefix = *prefix
	cfg.RateLimit.Enabled = false

	gate, err := goGate.New().
		WithConfig(cfg).
		WithRedis(client).
		WithPermissions([]string{"gig:post"}).
		Build()
	if err != nil {
		fmt.Fprintf(os.Stderr, "gate build failed: %v\n", err)
		os.Exit(1)
	}
	defer gate.Close()

	store := gate.RecordStore()

	seeded := make([]seededUser, *users)
	fmt.Printf("seeding %d users...\n", *users)
	startSeed := time.Now()
	now := time.Now()
	for i := 0; i < *users; i++ {
		userID := fmt.Sprintf("user-%d", i)
		sessionID := fmt.Sprintf("sid-%d", i)
		sessionToken := fmt.Sprintf("tok-%d-%d", i, now.UnixNano())

		rec := &record.SecurityRecord{
			UserID:   userID,
			UserType: "worker",
			Sessions: []record.Session{{
				ID:        sessionID,
				TokenHash: record.HashSessionToken(sessionToken),
				CreatedAt: now.Unix(),
				ExpiresAt: now.Add(24 * time.Hour).Unix(),
			}},
			UpdatedAt: now.Unix(),
		}
		if err := store.Save(ctx, rec); err != nil {
			fmt.Fprintf(os.Stderr, "save failed: %v\n", err)
			os.Exit(1)
		}

		credential, err := gate.Issue(userID, "worker", sessionID, sessionToken)
		if err != nil {
			fmt.Fprintf(os.Stderr, "issue failed: %v\n", err)
			os.Exit(1)
		}
		seeded[i] = seededUser{userID: userID, credential: credential}
	}
	fmt.Printf("seeded in %s\n", time.Since(startSeed).Round(time.Millisecond))

	authStats := runPhase(ctx, seeded, *ops, *concurrency, func(ctx context.Context, u seededUser) error {
		_, err := gate.Authenticate(ctx, u.credential)
		return err
	})
	fetchStats := runPhase(ctx, seeded, *ops, *concurrency, func(ctx context.Context, u seededUser) error {
		_, err := store.GetByUser(ctx, u.userID, "worker")
		return err
	})

	fmt.Println("---- results ----")
	printStats("authenticate", authStats)
	printStats("fetch", fetchStats)
}

func runPhase(ctx context.Context, seeded []seededUser, ops, concurrency int, op func(context.Context, seededUser) error) phaseStats {
	var (
		wg        sync.WaitGroup
		cursor    int64
		failures  int64
		latencies = make([]time.Duration, 0, ops)
		mu        sync.Mutex
	)

	start := time.Now()
	for w := 0; w < concurrency; w++ {
		wg.Add(1)
		go func(worker int) {
			defer wg.Done()
			r := rand.New(rand.NewSource(time.Now().UnixNano() + int64(worker)*7919))
			for {
				i := int(atomic.AddInt64(&cursor, 1)) - 1
				if i >= ops {
					return
				}
				idx := r.Intn(len(seeded))
				t0 := time.Now()
				err := op(ctx, seeded[idx])
				d := time.Since(t0)
				if err != nil {
					atomic.AddInt64(&failures, 1)
				}
				mu.Lock()
				latencies = append(latencies, d)
				mu.Unlock()
			}
		}(w)
	}
	wg.Wait()
	total := time.Since(start)
	return computeStats(total, latencies, failures)
}

type phaseStats struct {
	total    time.Duration
	ops      int
	failures int64
	p50      time.Duration
	p95      time.Duration
	p99      time.Duration
	opsPerS  float64
}

func computeStats(total time.Duration, samples []time.Duration, failures int64) phaseStats {
	if len(samples) == 0 {
		return phaseStats{total: total}
	}
	sort.Slice(samples, func(i, j int) bool { return samples[i] < samples[j] })
	return phaseStats{
		total:    total,
		ops:      len(samples),
		failures: failures,
		p50:      percentile(samples, 50),
		p95:      percentile(samples, 95),
		p99:      percentile(samples, 99),
		opsPerS:  float64(len(samples)) / total.Seconds(),
	}
}

func percentile(samples []time.Duration, p int) time.Duration {
	if len(samples) == 0 {
		return 0
	}
	if p <= 0 {
		return samples[0]
	}
	if p >= 100 {
		return samples[len(samples)-1]
	}
	idx := (len(samples) - 1) * p / 100
	return samples[idx]
}

func printStats(name string, s phaseStats) {
	fmt.Printf("%s: ops=%d failures=%d total=%s ops/sec=%.0f p50=%s p95=%s p99=%s\n",
		name,
		s.ops,
		s.failures,
		s.total.Round(time.Millisecond),
		s.opsPerS,
		s.p50.Round(time.Microsecond),
		s.p95.Round(time.Microsecond),
		s.p99.Round(time.Microsecond),
	)
}
