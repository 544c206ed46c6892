package health

import (
	"context"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Checker probes one dependency.
type Checker interface {
	Name() string
	Check(ctx context.Context) error
}

type CheckerFunc struct {
	CheckName string
	Fn        func(ctx context.Context) error
}

func (c CheckerFunc) Name() string                    { return c.CheckName }
func (c CheckerFunc) Check(ctx context.Context) error { return c.Fn(ctx) }

type CheckResult struct {
	Name      string `json:"name"`
	Healthy   bool   `json:"healthy"`
	LatencyMS int64  `json:"latency_ms"`
	Error     string `json:"error,omitempty"`
}

// ProbeRunner runs every checker in parallel, each bounded by timeout, and
// caches the combined result for cacheTTL so probes cannot hammer the
// dependencies.
type ProbeRunner struct {
	timeout  time.Duration
	cacheTTL time.Duration
	checkers []Checker
	now      func() time.Time

	mu        sync.Mutex
	cachedAt  time.Time
	cachedOK  bool
	cachedRes []CheckResult
}

func NewProbeRunner(timeout, cacheTTL time.Duration, checkers ...Checker) *ProbeRunner {
	if timeout <= 0 {
		timeout = time.Second
	}
	return &ProbeRunner{timeout: timeout, cacheTTL: cacheTTL, checkers: checkers, now: time.Now}
}

func (p *ProbeRunner) Ready(ctx context.Context) (bool, []CheckResult) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cacheTTL > 0 && !p.cachedAt.IsZero() && p.now().Sub(p.cachedAt) < p.cacheTTL {
		return p.cachedOK, append([]CheckResult(nil), p.cachedRes...)
	}

	results := make([]CheckResult, len(p.checkers))
	var wg sync.WaitGroup
	for i, c := range p.checkers {
		wg.Add(1)
		go func(i int, c Checker) {
			defer wg.Done()
			results[i] = p.run(ctx, c)
		}(i, c)
	}
	wg.Wait()

	ready := true
	for _, r := range results {
		ready = ready && r.Healthy
	}
	p.cachedAt, p.cachedOK, p.cachedRes = p.now(), ready, results
	return ready, append([]CheckResult(nil), results...)
}

func (p *ProbeRunner) run(ctx context.Context, c Checker) CheckResult {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()
	start := p.now()
	err := c.Check(ctx)
	res := CheckResult{Name: c.Name(), Healthy: err == nil, LatencyMS: p.now().Sub(start).Milliseconds()}
	if err != nil {
		res.Error = err.Error()
	}
	return res
}

func DBChecker(db *gorm.DB) Checker {
	return CheckerFunc{CheckName: "database", Fn: func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}}
}

func RedisChecker(client redis.UniversalClient) Checker {
	return CheckerFunc{CheckName: "redis", Fn: func(ctx context.Context) error {
		return client.Ping(ctx).Err()
	}}
}
