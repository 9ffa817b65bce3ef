// Package pebblebulk is a thin wrapper over pebble giving the sheet store a
// read-view and batched-write surface.
package pebblebulk

import (
	"io"

	"github.com/cockroachdb/pebble"
)

type PebbleKV struct {
	Db *pebble.DB
}

func Open(path string) (*PebbleKV, error) {
	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, err
	}
	return &PebbleKV{Db: db}, nil
}

func (kv *PebbleKV) Get(key []byte) ([]byte, io.Closer, error) {
	return kv.Db.Get(key)
}

func (kv *PebbleKV) Set(key, val []byte) error {
	return kv.Db.Set(key, val, nil)
}

func (kv *PebbleKV) Delete(key []byte) error {
	return kv.Db.Delete(key, nil)
}

// View runs u over a fresh iterator.
func (kv *PebbleKV) View(u func(it *PebbleIterator) error) error {
	it, err := kv.Db.NewIter(&pebble.IterOptions{})
	if err != nil {
		return err
	}
	pit := &PebbleIterator{db: kv.Db, iter: it}
	err = u(pit)
	it.Close()
	return err
}

// BulkWrite runs u inside one batch and commits it afterwards.
func (kv *PebbleKV) BulkWrite(u func(tx *PebbleBulk) error) error {
	batch := kv.Db.NewBatch()
	err := u(&PebbleBulk{batch: batch})
	if err != nil {
		batch.Close()
		return err
	}
	if err := batch.Commit(nil); err != nil {
		batch.Close()
		return err
	}
	return batch.Close()
}

func (kv *PebbleKV) Close() error {
	return kv.Db.Close()
}

type PebbleBulk struct {
	batch *pebble.Batch
}

func (pb *PebbleBulk) Set(key, val []byte) error {
	return pb.batch.Set(key, val, nil)
}

func (pb *PebbleBulk) Delete(key []byte) error {
	return pb.batch.Delete(key, nil)
}

// DeletePrefix removes every key carrying the prefix.
func (pb *PebbleBulk) DeletePrefix(prefix []byte) error {
	end := make([]byte, len(prefix)+1)
	copy(end, prefix)
	end[len(prefix)] = 0xFF
	return pb.batch.DeleteRange(prefix, end, nil)
}
