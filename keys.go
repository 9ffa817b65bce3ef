package sheetorm

import "encoding/binary"

var tablePrefix = byte('t')
var rowPrefix = byte('r')

// NewTableKey builds the metadata key for a table, keyed by its qualified
// name (identifier/name).
func NewTableKey(name []byte) []byte {
	out := make([]byte, len(name)+1)
	out[0] = tablePrefix
	copy(out[1:], name)
	return out
}

func ParseTableKey(key []byte) []byte {
	return key[1:]
}

// NewRowKey builds the key for one data row. Positions are big endian so a
// prefix scan returns rows in sheet order.
func NewRowKey(tableId uint32, pos uint64) []byte {
	out := make([]byte, 13)
	out[0] = rowPrefix
	binary.BigEndian.PutUint32(out[1:], tableId)
	binary.BigEndian.PutUint64(out[5:], pos)
	return out
}

func ParseRowKey(key []byte) (uint32, uint64) {
	return binary.BigEndian.Uint32(key[1:]), binary.BigEndian.Uint64(key[5:])
}

// NewRowKeyPrefix covers every row of one table.
func NewRowKeyPrefix(tableId uint32) []byte {
	out := make([]byte, 5)
	out[0] = rowPrefix
	binary.BigEndian.PutUint32(out[1:], tableId)
	return out
}

// TableKeyPrefix covers every table metadata key.
func TableKeyPrefix() []byte {
	return []byte{tablePrefix}
}
