package progress

import "sync"

// clientLocks serializes writers per client id.
type clientLocks struct {
	mu    sync.Mutex
	locks map[string]*clientLock
}

type clientLock struct {
	mu   sync.Mutex
	refs int
}

func newClientLocks() *clientLocks {
	return &clientLocks{locks: make(map[string]*clientLock)}
}

// lock blocks until the client's lock is held and returns its release func.
func (c *clientLocks) lock(clientID string) func() {
	c.mu.Lock()
	l, ok := c.locks[clientID]
	if !ok {
		l = &clientLock{}
		c.locks[clientID] = l
	}
	l.refs++
	c.mu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		c.mu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(c.locks, clientID)
		}
		c.mu.Unlock()
	}
}
