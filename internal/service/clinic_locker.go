package service

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// ClinicLocker serializes schedule changes per clinic, so a load, change and
// save cycle never interleaves with another one for the same clinic.
// Mutexes that stay unused past the stale threshold are dropped by a
// background loop. Call Stop during graceful shutdown.
type ClinicLocker struct {
	log            *logrus.Logger
	mutexes        sync.Map // map[uuid.UUID]*mutexWithTimestamp
	cleanupEvery   time.Duration
	staleThreshold time.Duration

	stopChan chan struct{}
	wg       sync.WaitGroup
	stopped  atomic.Bool
}

// mutexWithTimestamp tracks mutex usage for cleanup
type mutexWithTimestamp struct {
	mu       sync.Mutex
	lastUsed atomic.Int64 // Unix timestamp
}

func NewClinicLocker(log *logrus.Logger, cleanupEvery, staleThreshold time.Duration) *ClinicLocker {
	l := &ClinicLocker{
		log:            log,
		cleanupEvery:   cleanupEvery,
		staleThreshold: staleThreshold,
		stopChan:       make(chan struct{}),
	}

	l.wg.Add(1)
	go l.cleanupLoop()

	return l
}

// Lock blocks until the clinic's mutex is held and returns the unlock func.
func (l *ClinicLocker) Lock(clinicID uuid.UUID) func() {
	for {
		mt := l.mutexFor(clinicID)
		mt.mu.Lock()
		// cleanup may have dropped this mutex while we were waiting on it
		if current, ok := l.mutexes.Load(clinicID); ok && current == mt {
			mt.lastUsed.Store(time.Now().Unix())
			return mt.mu.Unlock
		}
		mt.mu.Unlock()
	}
}

// Stop gracefully shuts down the cleanup loop.
// Safe to call multiple times.
func (l *ClinicLocker) Stop() {
	if l.stopped.CompareAndSwap(false, true) {
		close(l.stopChan)
		l.wg.Wait()
		l.log.Info("ClinicLocker stopped")
	}
}

func (l *ClinicLocker) mutexFor(clinicID uuid.UUID) *mutexWithTimestamp {
	mt, _ := l.mutexes.LoadOrStore(clinicID, &mutexWithTimestamp{})
	result := mt.(*mutexWithTimestamp)
	result.lastUsed.Store(time.Now().Unix())
	return result
}

func (l *ClinicLocker) cleanupLoop() {
	defer l.wg.Done()

	ticker := time.NewTicker(l.cleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-l.stopChan:
			l.log.Debug("Clinic mutex cleanup goroutine stopping")
			return
		case <-ticker.C:
			l.cleanupStale(time.Now())
		}
	}
}

// cleanupStale removes unused mutexes. TryLock skips the ones in use and
// lastUsed is read under the lock so a fresh Lock call is never lost.
func (l *ClinicLocker) cleanupStale(now time.Time) int {
	cutoff := now.Add(-l.staleThreshold).Unix()
	var cleaned int

	l.mutexes.Range(func(key, value any) bool {
		mt, ok := value.(*mutexWithTimestamp)
		if !ok {
			return true
		}

		if mt.mu.TryLock() {
			if mt.lastUsed.Load() < cutoff {
				l.mutexes.Delete(key)
				cleaned++
			}
			mt.mu.Unlock()
		}
		return true
	})

	if cleaned > 0 {
		l.log.Debugf("Cleaned up %d stale clinic mutexes", cleaned)
	}
	return cleaned
}
