package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/gofrs/flock"
	"golang.org/x/sync/semaphore"
)

type LockMode int

const (
	LockRead LockMode = iota
	LockWrite
)

// maxReaders bounds concurrent readers per dataset; a writer acquires the
// full weight so it excludes everything else.
const maxReaders = 1 << 20

const flockRetryDelay = 25 * time.Millisecond

// LockManager serializes access per dataset. In-process exclusion is a
// weighted semaphore (many readers or one writer); cross-process exclusion is
// an OS advisory lock on a sibling .lock file, so several service processes
// can share one data directory.
type LockManager struct {
	dir     string
	timeout time.Duration

	mutex sync.Mutex
	gates map[string]*gate
}

// gate guards one dataset. The semaphore admits either readers or a single
// writer, so the OS lock mode never has to change while holders > 0: the
// first holder takes the flock, the last one drops it.
type gate struct {
	semaphore *semaphore.Weighted
	filelock  *flock.Flock

	mutex   sync.Mutex
	holders int
}

type Lock struct {
	gate   *gate
	weight int64
	once   sync.Once
}

func NewLockManager(dir string, timeout time.Duration) *LockManager {
	return &LockManager{
		dir:     dir,
		timeout: timeout,
		gates:   map[string]*gate{},
	}
}

// Acquire blocks until the dataset lock is granted or the configured timeout
// elapses, failing with ErrLockTimeout. The returned lock must be released on
// every exit path.
func (lm *LockManager) Acquire(ctx context.Context, dataset string, mode LockMode) (*Lock, error) {

	g := lm.gate(dataset)

	weight := int64(1)
	if mode == LockWrite {
		weight = maxReaders
	}

	ctx, cancel := context.WithTimeout(ctx, lm.timeout)
	defer cancel()

	err := g.semaphore.Acquire(ctx, weight)
	if err != nil {
		return nil, fmt.Errorf("%w: dataset '%s' (%s)", ErrLockTimeout, dataset, err.Error())
	}

	err = g.flockAcquire(ctx, mode)
	if err != nil {
		g.semaphore.Release(weight)
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: dataset '%s' (file lock)", ErrLockTimeout, dataset)
		}
		return nil, fmt.Errorf("file lock for dataset '%s': %w", dataset, err)
	}

	return &Lock{gate: g, weight: weight}, nil
}

// Release is idempotent; the second and later calls are no-ops.
func (l *Lock) Release() {
	l.once.Do(func() {
		l.gate.flockRelease()
		l.gate.semaphore.Release(l.weight)
	})
}

func (g *gate) flockAcquire(ctx context.Context, mode LockMode) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if g.holders == 0 {
		var locked bool
		var err error
		if mode == LockWrite {
			locked, err = g.filelock.TryLockContext(ctx, flockRetryDelay)
		} else {
			locked, err = g.filelock.TryRLockContext(ctx, flockRetryDelay)
		}
		if err != nil {
			return err
		}
		if !locked {
			return context.DeadlineExceeded
		}
	}

	g.holders++
	return nil
}

func (g *gate) flockRelease() {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	g.holders--
	if g.holders == 0 {
		g.filelock.Unlock()
	}
}

func (lm *LockManager) gate(dataset string) *gate {
	lm.mutex.Lock()
	defer lm.mutex.Unlock()

	g, exists := lm.gates[dataset]
	if !exists {
		g = &gate{
			semaphore: semaphore.NewWeighted(maxReaders),
			filelock:  flock.New(lockPath(lm.dir, dataset)),
		}
		lm.gates[dataset] = g
	}
	return g
}
