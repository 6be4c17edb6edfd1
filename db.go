package zipf

import (
	"sort"

	"github.com/pkg/errors"
)

// Binary is a field value.
type Binary []byte

// KVMap maps field names to values.
type KVMap map[string]Binary

// DB is the storage a workload runs against. Every client routine gets
// its own instance from the Databases registry, so an implementation does not
// need to be safe for concurrent use. Settings are passed with
// SetProperties before Init is called.
//
// Whether a write is durable, or whether writing a missing key fails, is up
// to the database behind the implementation.
type DB interface {
	SetProperties(p Properties)
	GetProperties() Properties

	// Init is called once before the first operation.
	Init() error
	// Cleanup is called once after the last operation.
	Cleanup() error

	// Read returns the given fields of the record, or all fields when
	// fields is empty.
	Read(table string, key string, fields []string) (KVMap, StatusType)

	// Scan returns up to recordCount records in key order, starting at
	// startKey.
	Scan(table string, startKey string, recordCount int64, fields []string) ([]KVMap, StatusType)

	// Update overwrites the given fields of an existing record.
	Update(table string, key string, values KVMap) StatusType

	Insert(table string, key string, values KVMap) StatusType

	Delete(table string, key string) StatusType
}

// DBBase stores the properties for DB implementations to embed.
type DBBase struct {
	p Properties
}

func NewDBBase() *DBBase {
	return &DBBase{}
}

func (self *DBBase) SetProperties(p Properties) {
	self.p = p
}

func (self *DBBase) GetProperties() Properties {
	return self.p
}

type MakeDBFunc func() DB

// Databases holds the DB factories by name. Bindings add themselves here.
var (
	Databases = map[string]MakeDBFunc{
		"basic": func() DB {
			return NewBasicDB()
		},
	}
)

func NewDB(database string, props Properties) (DB, error) {
	f, ok := Databases[database]
	if !ok {
		return nil, errors.Errorf("unsupported database: %s", database)
	}
	db := f()
	db.SetProperties(props)
	return db, nil
}

// DatabaseNames returns the registered database names in sorted order.
func DatabaseNames() []string {
	ret := make([]string, 0, len(Databases))
	for name := range Databases {
		ret = append(ret, name)
	}
	sort.Strings(ret)
	return ret
}
