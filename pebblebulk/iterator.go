package pebblebulk

import (
	"io"

	"github.com/cockroachdb/pebble"
)

type PebbleIterator struct {
	db    *pebble.DB
	iter  *pebble.Iterator
	key   []byte
	value []byte
}

func (pit *PebbleIterator) Key() []byte {
	return pit.key
}

func (pit *PebbleIterator) Value() []byte {
	return pit.value
}

func (pit *PebbleIterator) Valid() bool {
	return pit.iter.Valid()
}

func (pit *PebbleIterator) Seek(key []byte) error {
	if !pit.iter.SeekGE(key) {
		return io.EOF
	}
	pit.key = copyBytes(pit.iter.Key())
	pit.value = copyBytes(pit.iter.Value())
	return nil
}

func (pit *PebbleIterator) Next() error {
	if !pit.iter.Next() {
		return io.EOF
	}
	pit.key = copyBytes(pit.iter.Key())
	pit.value = copyBytes(pit.iter.Value())
	return nil
}

func copyBytes(in []byte) []byte {
	out := make([]byte, len(in))
	copy(out, in)
	return out
}
