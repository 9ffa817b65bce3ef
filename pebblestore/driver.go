// Package pebblestore is the durable SheetStore: table cells live in a
// pebble keyspace, bson-encoded, with the sheet-name registry kept in a
// pogreb database next to it.
package pebblestore

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"path/filepath"
	"strings"
	"sync"

	"github.com/akrylysov/pogreb"
	"github.com/bmeg/grip/log"
	sheetorm "github.com/fumigoro/gas-spreadsheet-orm"
	"github.com/fumigoro/gas-spreadsheet-orm/pebblebulk"
	"go.mongodb.org/mongo-driver/bson"
)

type Driver struct {
	base  string
	lock  sync.RWMutex
	kv    *pebblebulk.PebbleKV
	names *pogreb.DB
}

type tableMeta struct {
	Id     uint32   `bson:"id"`
	Header []string `bson:"header"`
}

// Open opens (or creates) a sheet store rooted at path.
func Open(path string) (*Driver, error) {
	kv, err := pebblebulk.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %v", err)
	}
	names, err := pogreb.Open(filepath.Join(path, "NAMES"), nil)
	if err != nil {
		kv.Close()
		return nil, fmt.Errorf("failed to open name registry: %v", err)
	}
	return &Driver{base: path, kv: kv, names: names}, nil
}

func (dr *Driver) Close() {
	dr.lock.Lock()
	defer dr.lock.Unlock()
	log.Infoln("Closing sheet store...")
	if err := dr.names.Close(); err != nil {
		log.Errorf("Error closing name registry: %v", err)
	}
	if err := dr.kv.Close(); err != nil {
		log.Errorf("Error closing db: %v", err)
	}
}

func qualified(identifier, name string) string {
	return identifier + "/" + name
}

// CreateTable registers a new table with the given header.
func (dr *Driver) CreateTable(identifier, name string, header []string) error {
	dr.lock.Lock()
	defer dr.lock.Unlock()

	qname := qualified(identifier, name)
	if has, _ := dr.names.Has([]byte(qname)); has {
		return fmt.Errorf("table %s already exists", qname)
	}

	id, err := dr.nextTableId()
	if err != nil {
		return err
	}

	meta, err := bson.Marshal(tableMeta{Id: id, Header: header})
	if err != nil {
		return err
	}
	if err := dr.kv.Set(sheetorm.NewTableKey([]byte(qname)), meta); err != nil {
		return err
	}

	idBytes := make([]byte, 4)
	binary.BigEndian.PutUint32(idBytes, id)
	return dr.names.Put([]byte(qname), idBytes)
}

// OpenTable returns a handle for a registered table, or NotFoundError.
func (dr *Driver) OpenTable(identifier, name string) (sheetorm.TableHandle, error) {
	dr.lock.RLock()
	defer dr.lock.RUnlock()

	qname := qualified(identifier, name)
	has, err := dr.names.Has([]byte(qname))
	if err != nil {
		return nil, err
	}
	if !has {
		return nil, &sheetorm.NotFoundError{Table: qname}
	}

	val, closer, err := dr.kv.Get(sheetorm.NewTableKey([]byte(qname)))
	if err != nil {
		return nil, fmt.Errorf("failed to read metadata for table %s: %v", qname, err)
	}
	meta := tableMeta{}
	err = bson.Unmarshal(val, &meta)
	closer.Close()
	if err != nil {
		return nil, fmt.Errorf("bad metadata for table %s: %v", qname, err)
	}

	return &tableHandle{dr: dr, name: qname, id: meta.Id, header: meta.Header}, nil
}

// ListTables returns the table names registered under identifier.
func (dr *Driver) ListTables(identifier string) []string {
	out := []string{}
	prefix := sheetorm.TableKeyPrefix()
	want := identifier + "/"
	dr.kv.View(func(it *pebblebulk.PebbleIterator) error {
		for it.Seek(prefix); it.Valid() && bytes.HasPrefix(it.Key(), prefix); it.Next() {
			qname := string(sheetorm.ParseTableKey(it.Key()))
			if strings.HasPrefix(qname, want) {
				out = append(out, strings.TrimPrefix(qname, want))
			}
		}
		return nil
	})
	return out
}

// DropTable removes a table, its rows and its registry entry.
func (dr *Driver) DropTable(identifier, name string) error {
	dr.lock.Lock()
	defer dr.lock.Unlock()

	qname := qualified(identifier, name)
	has, err := dr.names.Has([]byte(qname))
	if err != nil {
		return err
	}
	if !has {
		return &sheetorm.NotFoundError{Table: qname}
	}

	val, closer, err := dr.kv.Get(sheetorm.NewTableKey([]byte(qname)))
	if err != nil {
		return err
	}
	meta := tableMeta{}
	err = bson.Unmarshal(val, &meta)
	closer.Close()
	if err != nil {
		return fmt.Errorf("bad metadata for table %s: %v", qname, err)
	}

	err = dr.kv.BulkWrite(func(tx *pebblebulk.PebbleBulk) error {
		if err := tx.DeletePrefix(sheetorm.NewRowKeyPrefix(meta.Id)); err != nil {
			return err
		}
		return tx.Delete(sheetorm.NewTableKey([]byte(qname)))
	})
	if err != nil {
		return err
	}
	return dr.names.Delete([]byte(qname))
}

func (dr *Driver) nextTableId() (uint32, error) {
	max := uint32(0)
	prefix := sheetorm.TableKeyPrefix()
	err := dr.kv.View(func(it *pebblebulk.PebbleIterator) error {
		for it.Seek(prefix); it.Valid() && bytes.HasPrefix(it.Key(), prefix); it.Next() {
			meta := tableMeta{}
			if err := bson.Unmarshal(it.Value(), &meta); err != nil {
				log.Errorf("Error: bad metadata under key %s: %v", it.Key(), err)
				continue
			}
			if meta.Id > max {
				max = meta.Id
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return max + 1, nil
}
