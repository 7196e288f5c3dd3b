package querydb

import (
	"hash/fnv"
	"strconv"
	"sync"
)

// lockStripe is a fixed-size table of mutexes, each guarding a subset of
// query keys by hash, so unrelated queries never contend on one global
// lock while a single key is never computed twice concurrently. Grounded
// on the teacher's execWithRetry serialization around a single sqlite
// handle, generalized from "one lock for the whole db" to "one lock per
// key bucket" since the query database has no single underlying handle to
// serialize on.
type lockStripe struct {
	mus []sync.Mutex
}

func newLockStripe(n int) *lockStripe {
	if n <= 0 {
		n = 1
	}
	return &lockStripe{mus: make([]sync.Mutex, n)}
}

func (s *lockStripe) for_(key Key) *sync.Mutex {
	h := fnv.New64a()
	h.Write([]byte(strconv.Itoa(int(key.Kind))))
	h.Write([]byte{0})
	h.Write([]byte(key.ID))
	return &s.mus[h.Sum64()%uint64(len(s.mus))]
}
