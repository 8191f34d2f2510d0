package store

import (
	"context"
	"sync"

	"github.com/no-memory/hsbc-homework/internal/ledger/entity"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkgerror"
	"github.com/no-memory/hsbc-homework/internal/pkg/pkguid"
)

// DefaultShards is used when NewInMemoryStore receives a non-positive count.
const DefaultShards = 32

// InMemoryStore keeps transactions in a sharded map keyed by id.
//
// Each shard has its own lock so writers to different shards do not contend.
// The gate lock is held shared by every per-key operation and exclusively by
// DeleteAll, so a clear never interleaves with a generate-and-insert.
type InMemoryStore struct {
	gate   sync.RWMutex
	shards []*shard
	ids    pkguid.ResettableNumberID
}

type shard struct {
	mu   sync.RWMutex
	txns map[int64]entity.Transaction
}

// NewInMemoryStore builds a store that assigns ids from ids.
func NewInMemoryStore(ids pkguid.ResettableNumberID, shards int) *InMemoryStore {
	if shards < 1 {
		shards = DefaultShards
	}
	if ids == nil {
		ids = pkguid.NewSequence()
	}

	s := &InMemoryStore{
		shards: make([]*shard, shards),
		ids:    ids,
	}
	for i := range s.shards {
		s.shards[i] = &shard{txns: make(map[int64]entity.Transaction)}
	}

	return s
}

func (s *InMemoryStore) shardFor(id int64) *shard {
	return s.shards[uint64(id)%uint64(len(s.shards))]
}

// Save inserts tx. A zero ID is replaced by a freshly generated one; a set ID
// overwrites or inserts at that key.
func (s *InMemoryStore) Save(ctx context.Context, tx entity.Transaction) (entity.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return entity.Transaction{}, err
	}

	s.gate.RLock()
	defer s.gate.RUnlock()

	if tx.ID == 0 {
		tx.ID = s.ids.Generate()
	}

	sh := s.shardFor(tx.ID)
	sh.mu.Lock()
	sh.txns[tx.ID] = tx
	sh.mu.Unlock()

	return tx, nil
}

// Update applies fn to the stored record under the shard lock. The ID cannot be
// changed by fn. It returns the updated copy.
func (s *InMemoryStore) Update(ctx context.Context, id int64, fn func(tx *entity.Transaction)) (entity.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return entity.Transaction{}, err
	}

	s.gate.RLock()
	defer s.gate.RUnlock()

	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	tx, ok := sh.txns[id]
	if !ok {
		return entity.Transaction{}, pkgerror.ErrNotFound
	}

	fn(&tx)
	tx.ID = id
	sh.txns[id] = tx

	return tx, nil
}

func (s *InMemoryStore) FindByID(ctx context.Context, id int64) (entity.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return entity.Transaction{}, err
	}

	sh := s.shardFor(id)
	sh.mu.RLock()
	tx, ok := sh.txns[id]
	sh.mu.RUnlock()
	if !ok {
		return entity.Transaction{}, pkgerror.ErrNotFound
	}

	return tx, nil
}

func (s *InMemoryStore) ExistsByID(ctx context.Context, id int64) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	sh := s.shardFor(id)
	sh.mu.RLock()
	_, ok := sh.txns[id]
	sh.mu.RUnlock()

	return ok, nil
}

// FindAll returns a point-in-time copy of every record in no particular order.
func (s *InMemoryStore) FindAll(ctx context.Context) ([]entity.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.gate.RLock()
	defer s.gate.RUnlock()

	s.rlockAll()
	defer s.runlockAll()

	n := 0
	for _, sh := range s.shards {
		n += len(sh.txns)
	}

	out := make([]entity.Transaction, 0, n)
	for _, sh := range s.shards {
		for _, tx := range sh.txns {
			out = append(out, tx)
		}
	}

	return out, nil
}

// DeleteByID removes the record and returns it.
func (s *InMemoryStore) DeleteByID(ctx context.Context, id int64) (entity.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return entity.Transaction{}, err
	}

	s.gate.RLock()
	defer s.gate.RUnlock()

	sh := s.shardFor(id)
	sh.mu.Lock()
	defer sh.mu.Unlock()

	tx, ok := sh.txns[id]
	if !ok {
		return entity.Transaction{}, pkgerror.ErrNotFound
	}
	delete(sh.txns, id)

	return tx, nil
}

// DeleteAll removes every record and restarts the id sequence.
func (s *InMemoryStore) DeleteAll(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.gate.Lock()
	defer s.gate.Unlock()

	for _, sh := range s.shards {
		sh.mu.Lock()
		clear(sh.txns)
		sh.mu.Unlock()
	}
	s.ids.Reset()

	return nil
}

func (s *InMemoryStore) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.gate.RLock()
	defer s.gate.RUnlock()

	s.rlockAll()
	defer s.runlockAll()

	var n int64
	for _, sh := range s.shards {
		n += int64(len(sh.txns))
	}

	return n, nil
}

// rlockAll takes every shard read lock in index order.
func (s *InMemoryStore) rlockAll() {
	for _, sh := range s.shards {
		sh.mu.RLock()
	}
}

func (s *InMemoryStore) runlockAll() {
	for i := len(s.shards) - 1; i >= 0; i-- {
		s.shards[i].mu.RUnlock()
	}
}
