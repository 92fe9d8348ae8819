package balance

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"go.etcd.io/bbolt"
)

var (
	bucketBalances = []byte("balances")
	bucketDeposits = []byte("deposits")
)

// BoltStore is a durable Store and Journal backed by a bbolt database.
// Balances live in one bucket keyed by Key.String(); the deposit journal
// lives in a second bucket keyed by an auto-incrementing sequence so
// append order is preserved.
type BoltStore struct {
	db *bbolt.DB
}

// Compile-time interface checks.
var (
	_ Store   = (*BoltStore)(nil)
	_ Journal = (*BoltStore)(nil)
)

// OpenBoltStore opens or creates the bbolt database at dbPath.
// The parent directory is created if it does not exist.
func OpenBoltStore(dbPath string) (*BoltStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0700); err != nil {
		return nil, fmt.Errorf("balance: create directory: %w", err)
	}
	db, err := bbolt.Open(dbPath, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("balance: open bolt db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketBalances, bucketDeposits} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("boltstore: create bucket %q: %w", name, err)
			}
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("balance: create buckets: %w", err)
	}

	return &BoltStore{db: db}, nil
}

// Close closes the underlying database.
func (s *BoltStore) Close() error { return s.db.Close() }

// Credit increases the entry at key by amount inside one write transaction.
func (s *BoltStore) Credit(key Key, amount uint64) error {
	if amount == 0 {
		return fmt.Errorf("%w: credit amount must be > 0", ErrInvalidAmount)
	}
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketBalances)
		k := []byte(key.String())
		current := decodeAmount(b.Get(k))
		if amount > math.MaxUint64-current {
			return fmt.Errorf("%w: have %d, credit %d", ErrBalanceOverflow, current, amount)
		}
		if err := b.Put(k, encodeAmount(current+amount)); err != nil {
			return fmt.Errorf("boltstore: put balance: %w", err)
		}
		return nil
	})
}

// Debit decreases the entry at key by amount inside one write transaction.
// The key is removed entirely when the entry reaches zero.
func (s *BoltStore) Debit(key Key, amount uint64) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketBalances)
		k := []byte(key.String())
		current := decodeAmount(b.Get(k))
		if amount > current {
			return fmt.Errorf("%w: have %d, need %d", ErrInsufficientBalance, current, amount)
		}
		remaining := current - amount
		if remaining == 0 {
			if err := b.Delete(k); err != nil {
				return fmt.Errorf("boltstore: delete balance: %w", err)
			}
			return nil
		}
		if err := b.Put(k, encodeAmount(remaining)); err != nil {
			return fmt.Errorf("boltstore: put balance: %w", err)
		}
		return nil
	})
}

// Balance returns the current entry for key.
func (s *BoltStore) Balance(key Key) (uint64, error) {
	var amount uint64
	err := s.db.View(func(tx *bbolt.Tx) error {
		amount = decodeAmount(tx.Bucket(bucketBalances).Get([]byte(key.String())))
		return nil
	})
	return amount, err
}

// Append records a deposit under the next journal sequence number.
func (s *BoltStore) Append(rec DepositRecord) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketDeposits)
		seq, err := b.NextSequence()
		if err != nil {
			return fmt.Errorf("boltstore: journal sequence: %w", err)
		}
		data, err := encodeGob(&rec)
		if err != nil {
			return fmt.Errorf("encode deposit: %w", err)
		}
		if err := b.Put(seqKey(seq), data); err != nil {
			return fmt.Errorf("boltstore: put deposit: %w", err)
		}
		return nil
	})
}

// List returns all deposits for key in append order.
func (s *BoltStore) List(key Key) ([]DepositRecord, error) {
	want := key.String()
	var recs []DepositRecord
	err := s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket(bucketDeposits).Cursor()
		for k, v := c.First(); k != nil; k, v = c.Next() {
			var rec DepositRecord
			if err := decodeGob(v, &rec); err != nil {
				return fmt.Errorf("boltstore: decode deposit: %w", err)
			}
			if rec.Key().String() == want {
				recs = append(recs, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return recs, nil
}

// seqKey encodes a journal sequence number as an 8-byte big-endian key
// for sorted storage.
func seqKey(seq uint64) []byte {
	k := make([]byte, 8)
	binary.BigEndian.PutUint64(k, seq)
	return k
}

// encodeAmount serializes an amount as 8 big-endian bytes.
func encodeAmount(amount uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, amount)
	return b
}

// decodeAmount deserializes an amount; nil (missing key) decodes to zero.
func decodeAmount(data []byte) uint64 {
	if len(data) != 8 {
		return 0
	}
	return binary.BigEndian.Uint64(data)
}

// encodeGob serializes a value using gob encoding.
func encodeGob(v interface{}) ([]byte, error) {
	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// decodeGob deserializes gob-encoded data into a value.
func decodeGob(data []byte, v interface{}) error {
	return gob.NewDecoder(bytes.NewReader(data)).Decode(v)
}
