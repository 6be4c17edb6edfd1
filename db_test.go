package zipf

import (
	"sort"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

type operation struct {
	name  string
	table string
	key   string
}

// memoryDB keeps records in a map and remembers every operation.
// Instances created by the "memory" factory share one store.
type memoryDB struct {
	*DBBase
	lock        *sync.Mutex
	records     map[string]KVMap
	operations  []operation
	failInserts int
}

func newMemoryDB() *memoryDB {
	return &memoryDB{
		DBBase:  NewDBBase(),
		lock:    &sync.Mutex{},
		records: make(map[string]KVMap),
	}
}

var (
	sharedMemoryDB = newMemoryDB()
)

func init() {
	Databases["memory"] = func() DB {
		return &memoryDB{
			DBBase:  NewDBBase(),
			lock:    sharedMemoryDB.lock,
			records: sharedMemoryDB.records,
		}
	}
}

func resetSharedMemoryDB() {
	sharedMemoryDB.lock.Lock()
	defer sharedMemoryDB.lock.Unlock()
	for k := range sharedMemoryDB.records {
		delete(sharedMemoryDB.records, k)
	}
}

func (self *memoryDB) Init() error {
	return nil
}

func (self *memoryDB) Cleanup() error {
	return nil
}

func (self *memoryDB) record(name, table, key string) {
	self.operations = append(self.operations, operation{name, table, key})
}

func (self *memoryDB) Read(table string, key string, fields []string) (KVMap, StatusType) {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.record("READ", table, key)
	values, ok := self.records[table+"/"+key]
	if !ok {
		return nil, StatusNotFound
	}
	if len(fields) == 0 {
		return values, StatusOK
	}
	ret := make(KVMap)
	for _, f := range fields {
		ret[f] = values[f]
	}
	return ret, StatusOK
}

func (self *memoryDB) Scan(table string, startKey string, recordCount int64, fields []string) ([]KVMap, StatusType) {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.record("SCAN", table, startKey)
	keys := make([]string, 0)
	for k := range self.records {
		if strings.HasPrefix(k, table+"/") && k >= table+"/"+startKey {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	ret := make([]KVMap, 0)
	for _, k := range keys {
		if int64(len(ret)) == recordCount {
			break
		}
		ret = append(ret, self.records[k])
	}
	return ret, StatusOK
}

func (self *memoryDB) Update(table string, key string, values KVMap) StatusType {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.record("UPDATE", table, key)
	record, ok := self.records[table+"/"+key]
	if !ok {
		return StatusNotFound
	}
	for k, v := range values {
		record[k] = v
	}
	return StatusOK
}

func (self *memoryDB) Insert(table string, key string, values KVMap) StatusType {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.record("INSERT", table, key)
	if self.failInserts > 0 {
		self.failInserts--
		return StatusServiceUnavailable
	}
	record := make(KVMap)
	for k, v := range values {
		record[k] = v
	}
	self.records[table+"/"+key] = record
	return StatusOK
}

func (self *memoryDB) Delete(table string, key string) StatusType {
	self.lock.Lock()
	defer self.lock.Unlock()
	self.record("DELETE", table, key)
	if _, ok := self.records[table+"/"+key]; !ok {
		return StatusNotFound
	}
	delete(self.records, table+"/"+key)
	return StatusOK
}

func TestNewDB(t *testing.T) {
	p := NewProperties()
	p.Add("k", "v")
	db, err := NewDB("basic", p)
	require.Nil(t, err)
	require.IsType(t, &BasicDB{}, db)
	require.Equal(t, p, db.GetProperties())

	_, err = NewDB("nosuchdb", p)
	require.NotNil(t, err)
}

func TestDatabaseNames(t *testing.T) {
	names := DatabaseNames()
	require.True(t, sort.StringsAreSorted(names))
	require.Contains(t, names, "basic")
}
