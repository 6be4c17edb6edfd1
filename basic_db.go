package zipf

import (
	"sort"
	"strings"
	"time"

	"github.com/hhkbp2/zipf/generator"
)

func ConcatFieldsStr(fields []string) string {
	if len(fields) == 0 {
		return "<all fields>"
	}
	return strings.Join(fields, ", ")
}

func ConcatKVStr(values KVMap) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+"="+string(values[k]))
	}
	return strings.Join(parts, ", ")
}

// BasicDB is a DB which simply logs the operations it receives and
// optionally sleeps to simulate latency.
type BasicDB struct {
	*DBBase
	verbose        bool
	randomizeDelay bool
	toDelay        int64
	src            *generator.UniformSource
}

func NewBasicDB() *BasicDB {
	return &BasicDB{
		DBBase: NewDBBase(),
	}
}

func (self *BasicDB) Delay() {
	if self.toDelay > 0 {
		var millis int64
		if self.randomizeDelay {
			millis = self.src.Int63n(self.toDelay)
			if millis == 0 {
				return
			}
		} else {
			millis = self.toDelay
		}
		time.Sleep(time.Duration(millis) * time.Millisecond)
	}
}

// Initialize any state for this DB.
func (self *BasicDB) Init() error {
	p := self.GetProperties()
	if p == nil {
		p = NewProperties()
	}
	var err error
	self.verbose, err = p.GetBool(ConfigBasicDBVerbose, ConfigBasicDBVerboseDefault)
	if err != nil {
		return err
	}
	self.toDelay, err = p.GetInt64(ConfigSimulateDelay, ConfigSimulateDelayDefault)
	if err != nil {
		return err
	}
	self.randomizeDelay, err = p.GetBool(ConfigRandomizeDelay, ConfigRandomizeDelayDefault)
	if err != nil {
		return err
	}
	self.src = generator.NewUniformSource()
	if self.verbose {
		OutputProperties(p)
	}
	return nil
}

func (self *BasicDB) Cleanup() error {
	return nil
}

// Read a record from the database.
func (self *BasicDB) Read(table string, key string, fields []string) (KVMap, StatusType) {
	self.Delay()
	if self.verbose {
		Infof("READ %s %s [%s]", table, key, ConcatFieldsStr(fields))
	}
	return nil, StatusOK
}

// Perform a range scan for a set of records in the database.
func (self *BasicDB) Scan(table string, startKey string, recordCount int64, fields []string) ([]KVMap, StatusType) {
	self.Delay()
	if self.verbose {
		Infof("SCAN %s %s %d [%s]", table, startKey, recordCount, ConcatFieldsStr(fields))
	}
	return nil, StatusOK
}

// Update a record in the database.
func (self *BasicDB) Update(table string, key string, values KVMap) StatusType {
	self.Delay()
	if self.verbose {
		Infof("UPDATE %s %s [%s]", table, key, ConcatKVStr(values))
	}
	return StatusOK
}

// Insert a record in the database.
func (self *BasicDB) Insert(table string, key string, values KVMap) StatusType {
	self.Delay()
	if self.verbose {
		Infof("INSERT %s %s [%s]", table, key, ConcatKVStr(values))
	}
	return StatusOK
}

// Delete a record from the database.
func (self *BasicDB) Delete(table string, key string) StatusType {
	self.Delay()
	if self.verbose {
		Infof("DELETE %s %s", table, key)
	}
	return StatusOK
}
