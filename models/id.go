package models

import (
	"sync"

	"github.com/google/uuid"
)

// IDGenerator returns a new task identifier on every call.
type IDGenerator func() string

var (
	idGenerator IDGenerator = uuid.NewString
	idLock                  = &sync.RWMutex{}
)

// SetIDGenerator replaces the process-wide ID generator used by NewTask and
// returns a function that restores the previous one. Passing nil installs the
// default UUID generator.
func SetIDGenerator(gen IDGenerator) (restore func()) {
	if gen == nil {
		gen = uuid.NewString
	}

	idLock.Lock()
	prev := idGenerator
	idGenerator = gen
	idLock.Unlock()

	return func() {
		idLock.Lock()
		idGenerator = prev
		idLock.Unlock()
	}
}

func nextID() string {
	idLock.RLock()
	gen := idGenerator
	idLock.RUnlock()
	return gen()
}
