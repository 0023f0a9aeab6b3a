package committer

import (
	"sort"
	"sync"
)

// Store tracks at most one pending commit per (netuid, mechanism) key.
// All methods are safe for concurrent use.
type Store struct {
	mu      sync.Mutex
	commits map[Key]*PendingCommit
	locks   map[Key]*sync.Mutex
}

func NewStore() *Store {
	return &Store{
		commits: make(map[Key]*PendingCommit),
		locks:   make(map[Key]*sync.Mutex),
	}
}

// LockKey serializes commit attempts on one key so that two concurrent
// commits cannot both pass the occupancy check. The returned func releases
// the key.
func (s *Store) LockKey(k Key) func() {
	s.mu.Lock()
	l, ok := s.locks[k]
	if !ok {
		l = &sync.Mutex{}
		s.locks[k] = l
	}
	s.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// Put registers a pending commit. It fails with ErrCommitInProgress if the
// key is already occupied.
func (s *Store) Put(p *PendingCommit) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	k := p.Key()
	if _, ok := s.commits[k]; ok {
		return ErrCommitInProgress
	}
	s.commits[k] = p
	return nil
}

// Get returns the pending commit for a key, or nil.
func (s *Store) Get(k Key) *PendingCommit {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.commits[k]
}

// Has reports whether a commit is pending on the key.
func (s *Store) Has(k Key) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.commits[k]
	return ok
}

// Delete drops the pending commit for a key, if any.
func (s *Store) Delete(k Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.commits, k)
}

// Keys returns the occupied keys in a stable order.
func (s *Store) Keys() []Key {
	s.mu.Lock()
	defer s.mu.Unlock()
	keys := make([]Key, 0, len(s.commits))
	for k := range s.commits {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Netuid != keys[j].Netuid {
			return keys[i].Netuid < keys[j].Netuid
		}
		return keys[i].MechanismID < keys[j].MechanismID
	})
	return keys
}

// Len returns the number of pending commits.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.commits)
}

// snapshotView copies the map for serialization.
func (s *Store) snapshotView() map[string]*PendingCommit {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]*PendingCommit, len(s.commits))
	for k, v := range s.commits {
		cp := *v
		out[k.String()] = &cp
	}
	return out
}

// restore replaces the tracked commits wholesale.
func (s *Store) restore(commits []*PendingCommit) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.commits = make(map[Key]*PendingCommit, len(commits))
	for _, p := range commits {
		s.commits[p.Key()] = p
	}
}
