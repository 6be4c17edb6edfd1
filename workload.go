package zipf

import (
	"fmt"
	"math"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	g "github.com/hhkbp2/zipf/generator"
)

type MakeWorkloadFunc func() Workload

var (
	Workloads = map[string]MakeWorkloadFunc{
		"ZipfWorkload": func() Workload {
			return NewZipfWorkload()
		},
	}
)

func NewWorkload(className string) (Workload, error) {
	f, ok := Workloads[className]
	if !ok {
		return nil, errors.Errorf("unsupported workload: %s", className)
	}
	w := f()
	return w, nil
}

// Workload generates the operations of a benchmark. One instance is
// shared by all client routines. Per routine state, such as random sources,
// lives in the object returned by InitRoutine, which is handed back on every
// DoInsert and DoTransaction call of that routine.
type Workload interface {
	// Init parses the properties, once before any routine starts.
	Init(p Properties) error

	// InitRoutine creates the state of one client routine.
	InitRoutine(p Properties) (interface{}, error)

	// Cleanup is called once after all routines are done.
	Cleanup() error

	// DoInsert inserts one record and reports whether it succeeded. It is
	// called concurrently by all routines, each with its own state.
	DoInsert(db DB, object interface{}) bool

	// DoTransaction performs one transaction and reports whether it
	// succeeded. It is called concurrently like DoInsert.
	DoTransaction(db DB, object interface{}) bool
}

const (
	OperationRead            = "READ"
	OperationUpdate          = "UPDATE"
	OperationReadModifyWrite = "READMODIFYWRITE"
)

// ZipfWorkload is a set of clients doing reads and updates on keys whose
// popularity follows a Zipf distribution.
// Properties to control the client:
//   fieldcount: the number of fields in a record (default: 10)
//   fieldlength: the size of each field (default: 100)
//   readallfields: should reads read all fields (true) or just one (false)
//                  (default: true)
//   writeallfields: should updates and read/modify/writes update all fields
//                   (true) or just one (false) (default: false)
//   readproportion: what proportion of operations should be reads
//                   (default: 0.95)
//   updateproportion: what proportion of operations should be updates
//                     (default: 0.05)
//   readmodifywriteproportion: what proportion of operations should read a
//                              record, modify it, write it back (default: 0)
//   requestdistribution: "zipfian" makes user1 the hottest key, "scrambled"
//                        spreads the hot keys over the key space
//                        (default: zipfian)
//   generator: the sampler drawing key numbers, "rejinv" or "ycsb"
//              (default: rejinv)
//   skew: the exponent of the key distribution (default: 0.99)
//   seed: seed of the routine random sources (default: system entropy)
type ZipfWorkload struct {
	table                  string
	fieldCount             int64
	fieldNames             []string
	fieldLength            int64
	readAllFields          bool
	writeAllFields         bool
	operations             []*g.Pair
	recordCount            int64
	generatorName          string
	skew                   float64
	scrambled              bool
	seeded                 bool
	seed                   uint64
	keySequence            *g.CounterGenerator
	insertionRetryLimit    int64
	insertionRetryInterval int64
	routines               int64
}

type zipfRoutineState struct {
	keyChooser       g.Generator
	source           *g.UniformSource
	operationChooser *g.DiscreteGenerator
}

func NewZipfWorkload() *ZipfWorkload {
	return &ZipfWorkload{}
}

func (self *ZipfWorkload) Init(p Properties) error {
	table := p.GetDefault(PropertyTableName, PropertyTableNameDefault)
	fieldCount, err := p.GetInt64(PropertyFieldCount, PropertyFieldCountDefault)
	if err != nil {
		return err
	}
	if fieldCount <= 0 {
		return errors.Errorf("%s must be positive: %d", PropertyFieldCount, fieldCount)
	}
	fieldNames := make([]string, 0, fieldCount)
	for i := int64(0); i < fieldCount; i++ {
		fieldNames = append(fieldNames, fmt.Sprintf("field%d", i))
	}
	fieldLength, err := p.GetInt64(PropertyFieldLength, PropertyFieldLengthDefault)
	if err != nil {
		return err
	}
	if fieldLength <= 0 {
		return errors.Errorf("%s must be positive: %d", PropertyFieldLength, fieldLength)
	}
	readAllFields, err := p.GetBool(PropertyReadAllFields, PropertyReadAllFieldsDefault)
	if err != nil {
		return err
	}
	writeAllFields, err := p.GetBool(PropertyWriteAllFields, PropertyWriteAllFieldsDefault)
	if err != nil {
		return err
	}

	operations := make([]*g.Pair, 0, 3)
	for _, op := range []struct {
		key, defaultValue, name string
	}{
		{PropertyReadProportion, PropertyReadProportionDefault, OperationRead},
		{PropertyUpdateProportion, PropertyUpdateProportionDefault, OperationUpdate},
		{PropertyReadModifyWriteProportion, PropertyReadModifyWriteProportionDefault, OperationReadModifyWrite},
	} {
		proportion, err := p.GetFloat64(op.key, op.defaultValue)
		if err != nil {
			return err
		}
		if proportion > 0 {
			operations = append(operations, &g.Pair{Weight: proportion, Value: op.name})
		}
	}
	if len(operations) == 0 {
		return errors.New("all operation proportions are zero")
	}

	recordCount, err := p.GetInt64(PropertyRecordCount, PropertyRecordCountDefault)
	if err != nil {
		return err
	}
	if recordCount <= 0 {
		return errors.Errorf("%s must be positive: %d", PropertyRecordCount, recordCount)
	}
	insertStart, err := p.GetInt64(PropertyInsertStart, PropertyInsertStartDefault)
	if err != nil {
		return err
	}
	insertCount := recordCount - insertStart
	if p.Has(PropertyInsertCount) {
		if insertCount, err = p.GetInt64(PropertyInsertCount, "0"); err != nil {
			return err
		}
	}
	// loaded keys must stay within the range the run phase samples
	if insertStart < 0 || insertCount < 0 || insertStart+insertCount > recordCount {
		return errors.Errorf("%s %d + %s %d out of %s %d",
			PropertyInsertStart, insertStart, PropertyInsertCount, insertCount,
			PropertyRecordCount, recordCount)
	}
	generatorName := p.GetDefault(PropertyGenerator, PropertyGeneratorDefault)
	if _, ok := g.Generators[generatorName]; !ok {
		return errors.Errorf("unknown generator %s", generatorName)
	}
	skew, err := p.GetFloat64(PropertySkew, PropertySkewDefault)
	if err != nil {
		return err
	}
	var scrambled bool
	switch requestDistrib := p.GetDefault(PropertyRequestDistribution, PropertyRequestDistributionDefault); requestDistrib {
	case "zipfian":
		scrambled = false
	case "scrambled":
		scrambled = true
	default:
		return errors.Errorf("unknown request distribution %s", requestDistrib)
	}
	var seed uint64
	seeded := p.Has(PropertySeed)
	if seeded {
		s, err := p.GetInt64(PropertySeed, "0")
		if err != nil {
			return err
		}
		seed = uint64(s)
	}
	insertionRetryLimit, err := p.GetInt64(InsertionRetryLimit, InsertionRetryLimitDefault)
	if err != nil {
		return err
	}
	insertionRetryInterval, err := p.GetInt64(InsertionRetryInterval, InsertionRetryIntervalDefault)
	if err != nil {
		return err
	}

	// set all fields
	self.table = table
	self.fieldCount = fieldCount
	self.fieldNames = fieldNames
	self.fieldLength = fieldLength
	self.readAllFields = readAllFields
	self.writeAllFields = writeAllFields
	self.operations = operations
	self.recordCount = recordCount
	self.generatorName = generatorName
	self.skew = skew
	self.scrambled = scrambled
	self.seeded = seeded
	self.seed = seed
	// key numbers are 1-based like the samples
	self.keySequence = g.NewCounterGenerator(insertStart + 1)
	self.insertionRetryLimit = insertionRetryLimit
	self.insertionRetryInterval = insertionRetryInterval
	self.routines = 0
	return nil
}

// InitRoutine builds the routine's own key sampler. For the "ycsb"
// generator this takes time linear in recordcount.
func (self *ZipfWorkload) InitRoutine(p Properties) (interface{}, error) {
	index := atomic.AddInt64(&self.routines, 1) - 1
	var keySource *g.UniformSource
	if self.seeded {
		keySource = g.NewUniformSourceWithSeed(self.seed + uint64(index))
	} else {
		keySource = g.NewUniformSource()
	}
	source := g.NewUniformSourceWithSeed(uint64(keySource.Int63n(math.MaxInt64)))

	keyChooser, err := g.New(self.generatorName, self.recordCount, self.skew, keySource)
	if err != nil {
		return nil, err
	}
	if self.scrambled {
		keyChooser, err = g.NewScrambledGenerator(keyChooser, self.recordCount)
		if err != nil {
			return nil, err
		}
	}
	operationChooser := g.NewDiscreteGenerator(source)
	for _, op := range self.operations {
		operationChooser.AddValue(op.Weight, op.Value)
	}
	Debugf("routine %d uses generator %s over %d keys with skew %v",
		index, self.generatorName, self.recordCount, self.skew)
	return &zipfRoutineState{
		keyChooser:       keyChooser,
		source:           source,
		operationChooser: operationChooser,
	}, nil
}

func (self *ZipfWorkload) Cleanup() error {
	// nothing to do
	return nil
}

func (self *ZipfWorkload) buildKeyName(keyNumber int64) string {
	return fmt.Sprintf("user%d", keyNumber)
}

func (self *ZipfWorkload) buildSingleValue(state *zipfRoutineState) KVMap {
	fieldKey := self.fieldNames[state.source.Int63n(self.fieldCount)]
	return KVMap{
		fieldKey: RandomBytes(state.source, self.fieldLength),
	}
}

func (self *ZipfWorkload) buildValues(state *zipfRoutineState) KVMap {
	ret := make(KVMap)
	for _, fieldKey := range self.fieldNames {
		ret[fieldKey] = RandomBytes(state.source, self.fieldLength)
	}
	return ret
}

// DoInsert writes the next key of the shared key sequence with random
// field values.
func (self *ZipfWorkload) DoInsert(db DB, object interface{}) bool {
	state := object.(*zipfRoutineState)
	keyNumber := self.keySequence.NextInt()
	dbKey := self.buildKeyName(keyNumber)
	values := self.buildValues(state)

	var status StatusType
	numberOfRetries := int64(0)
	for {
		status = db.Insert(self.table, dbKey, values)
		if status == StatusOK {
			break
		}
		numberOfRetries++
		if numberOfRetries < self.insertionRetryLimit {
			// [0.8, 1.2) * insertionRetryInterval
			sleepTime := float64(self.insertionRetryInterval) * (0.8 + 0.4*state.source.Float64())
			Warnf("retrying insertion of %s (attempt %d)", dbKey, numberOfRetries)
			time.Sleep(time.Duration(sleepTime * float64(time.Second)))
		} else {
			Errorf("error inserting %s, not retrying any more: %s", dbKey, status)
			break
		}
	}
	return (status == StatusOK)
}

// DoTransaction picks an operation and runs it on a key drawn from the
// routine's sampler. A missing record counts as a failure.
func (self *ZipfWorkload) DoTransaction(db DB, object interface{}) bool {
	state := object.(*zipfRoutineState)
	var status StatusType
	switch state.operationChooser.NextString() {
	case OperationRead:
		status = self.doTransactionRead(db, state)
	case OperationUpdate:
		status = self.doTransactionUpdate(db, state)
	default:
		status = self.doTransactionReadModifyWrite(db, state)
	}
	return (status == StatusOK)
}

func (self *ZipfWorkload) nextKeyName(state *zipfRoutineState) string {
	return self.buildKeyName(state.keyChooser.Sample())
}

func (self *ZipfWorkload) readFields(state *zipfRoutineState) []string {
	if self.readAllFields {
		return nil
	}
	// read a random field
	return []string{self.fieldNames[state.source.Int63n(self.fieldCount)]}
}

func (self *ZipfWorkload) writeValues(state *zipfRoutineState) KVMap {
	if self.writeAllFields {
		// new data for all the fields
		return self.buildValues(state)
	}
	// update a random field
	return self.buildSingleValue(state)
}

func (self *ZipfWorkload) doTransactionRead(db DB, state *zipfRoutineState) StatusType {
	keyName := self.nextKeyName(state)
	_, status := db.Read(self.table, keyName, self.readFields(state))
	return status
}

func (self *ZipfWorkload) doTransactionUpdate(db DB, state *zipfRoutineState) StatusType {
	keyName := self.nextKeyName(state)
	return db.Update(self.table, keyName, self.writeValues(state))
}

func (self *ZipfWorkload) doTransactionReadModifyWrite(db DB, state *zipfRoutineState) StatusType {
	keyName := self.nextKeyName(state)
	fields := self.readFields(state)
	values := self.writeValues(state)
	if _, status := db.Read(self.table, keyName, fields); status != StatusOK {
		return status
	}
	return db.Update(self.table, keyName, values)
}
