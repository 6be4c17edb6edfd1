package zipf

import (
	"time"
)

// DBWrapper wraps another DB and measures the latency and the return code
// of every operation it forwards.
type DBWrapper struct {
	DB
	measurements              Measurements
	reportLatencyForEachError bool
}

func NewDBWrapper(db DB, measurements Measurements) *DBWrapper {
	return &DBWrapper{
		DB:           db,
		measurements: measurements,
	}
}

func (self *DBWrapper) Init() error {
	if err := self.DB.Init(); err != nil {
		return err
	}
	p := self.GetProperties()
	if p == nil {
		return nil
	}
	var err error
	self.reportLatencyForEachError, err = p.GetBool(
		PropertyReportLatencyForEachError, PropertyReportLatencyForEachErrorDefault)
	return err
}

func (self *DBWrapper) measure(operation string, status StatusType, start time.Time) {
	name := operation
	if status != StatusOK && self.reportLatencyForEachError {
		name = operation + "-FAILED"
	}
	self.measurements.Measure(name, time.Since(start).Microseconds())
	self.measurements.ReportStatus(operation, status)
}

func (self *DBWrapper) Read(table string, key string, fields []string) (KVMap, StatusType) {
	start := time.Now()
	ret, status := self.DB.Read(table, key, fields)
	self.measure("READ", status, start)
	return ret, status
}

func (self *DBWrapper) Scan(table string, startKey string, recordCount int64, fields []string) ([]KVMap, StatusType) {
	start := time.Now()
	ret, status := self.DB.Scan(table, startKey, recordCount, fields)
	self.measure("SCAN", status, start)
	return ret, status
}

func (self *DBWrapper) Update(table string, key string, values KVMap) StatusType {
	start := time.Now()
	status := self.DB.Update(table, key, values)
	self.measure("UPDATE", status, start)
	return status
}

func (self *DBWrapper) Insert(table string, key string, values KVMap) StatusType {
	start := time.Now()
	status := self.DB.Insert(table, key, values)
	self.measure("INSERT", status, start)
	return status
}

func (self *DBWrapper) Delete(table string, key string) StatusType {
	start := time.Now()
	status := self.DB.Delete(table, key)
	self.measure("DELETE", status, start)
	return status
}
