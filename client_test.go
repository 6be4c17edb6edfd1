package zipf

import (
	"bytes"
	"context"
	"encoding/json"
	"io/ioutil"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

// countingDB counts Init and Cleanup calls and refuses every Init after
// the first failAfter ones.
type countingDB struct {
	*BasicDB
	counter *dbCounter
}

type dbCounter struct {
	lock      sync.Mutex
	inits     int
	cleanups  int
	failAfter int
}

var (
	countingDBs = &dbCounter{}
)

func init() {
	Databases["counting"] = func() DB {
		return &countingDB{
			BasicDB: NewBasicDB(),
			counter: countingDBs,
		}
	}
}

func resetCountingDBs(failAfter int) {
	countingDBs.lock.Lock()
	defer countingDBs.lock.Unlock()
	countingDBs.inits = 0
	countingDBs.cleanups = 0
	countingDBs.failAfter = failAfter
}

func (self *countingDB) Init() error {
	self.counter.lock.Lock()
	defer self.counter.lock.Unlock()
	if self.counter.failAfter >= 0 && self.counter.inits >= self.counter.failAfter {
		return errors.New("connection refused")
	}
	self.counter.inits++
	return self.BasicDB.Init()
}

func (self *countingDB) Cleanup() error {
	self.counter.lock.Lock()
	defer self.counter.lock.Unlock()
	self.counter.cleanups++
	return nil
}

func newTestClient(t *testing.T, kvs ...string) (*Client, *bytes.Buffer) {
	p := NewProperties()
	p.Add(PropertyDB, "memory")
	p.Add(PropertyStatusInterval, "0")
	for i := 0; i+1 < len(kvs); i += 2 {
		p.Add(kvs[i], kvs[i+1])
	}
	c, err := NewClient(p)
	require.Nil(t, err)
	var buf bytes.Buffer
	c.SetOutput(&buf)
	return c, &buf
}

func TestClientLoadAndRun(t *testing.T) {
	resetSharedMemoryDB()
	loader, loadOutput := newTestClient(t,
		PropertyRecordCount, "200",
		PropertyThreadCount, "3")
	require.Nil(t, loader.Load(context.Background()))
	require.Equal(t, int64(200), loader.Operations())
	require.Equal(t, 200, len(sharedMemoryDB.records))
	require.Contains(t, loadOutput.String(), "[OVERALL], RunTime(ms), ")
	require.Contains(t, loadOutput.String(), "[INSERT], Operations, 200\n")
	require.Contains(t, loadOutput.String(), "[INSERT], Return=OK, 200\n")

	runner, runOutput := newTestClient(t,
		PropertyRecordCount, "200",
		PropertyOperationCount, "1000",
		PropertyThreadCount, "4",
		PropertyGenerator, "ycsb",
		PropertySeed, "1")
	require.Nil(t, runner.Run(context.Background()))
	require.Equal(t, int64(1000), runner.Operations())
	out := runOutput.String()
	require.Contains(t, out, "[OVERALL], Throughput(ops/sec), ")
	require.Contains(t, out, "[READ], Return=OK, ")
	require.False(t, strings.Contains(out, "NOT_FOUND"))
}

func TestClientInsertCount(t *testing.T) {
	resetSharedMemoryDB()
	c, _ := newTestClient(t,
		PropertyRecordCount, "100",
		PropertyInsertStart, "40",
		PropertyInsertCount, "10")
	require.Nil(t, c.Load(context.Background()))
	require.Equal(t, int64(10), c.Operations())
	_, ok := sharedMemoryDB.records[PropertyTableNameDefault+"/user41"]
	require.True(t, ok)
	_, ok = sharedMemoryDB.records[PropertyTableNameDefault+"/user50"]
	require.True(t, ok)
	require.Equal(t, 10, len(sharedMemoryDB.records))
}

func TestClientTarget(t *testing.T) {
	c, _ := newTestClient(t,
		PropertyOperationCount, "20",
		PropertyTarget, "100")
	start := time.Now()
	require.Nil(t, c.Run(context.Background()))
	// the first operation is not throttled
	require.True(t, time.Since(start) >= 150*time.Millisecond)
	require.Equal(t, int64(20), c.Operations())
}

func TestClientMaxExecutionTime(t *testing.T) {
	c, _ := newTestClient(t,
		PropertyDB, "basic",
		PropertyOperationCount, "1000000",
		PropertyTarget, "50",
		PropertyMaxExecutionTime, "1")
	start := time.Now()
	require.Nil(t, c.Run(context.Background()))
	require.True(t, time.Since(start) < 5*time.Second)
	require.True(t, c.Operations() < 1000000)
	require.True(t, c.Operations() > 0)
}

func TestClientCanceled(t *testing.T) {
	c, _ := newTestClient(t,
		PropertyDB, "basic",
		PropertyOperationCount, "1000000",
		PropertyTarget, "50")
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()
	require.Equal(t, context.DeadlineExceeded, c.Run(ctx))
}

func TestClientFailedLoad(t *testing.T) {
	c, _ := newTestClient(t,
		PropertyRecordCount, "10",
		PropertyDB, "nosuchdb")
	require.NotNil(t, c.Load(context.Background()))

	c, _ = newTestClient(t,
		PropertyRecordCount, "100",
		PropertyInsertStart, "95",
		PropertyInsertCount, "10")
	require.NotNil(t, c.Load(context.Background()))

	c, _ = newTestClient(t, PropertyThreadCount, "0")
	require.NotNil(t, c.Run(context.Background()))

	c, _ = newTestClient(t, PropertyExporter, "XMLMeasurementExporter")
	require.NotNil(t, c.Run(context.Background()))

	_, err := NewClient(Properties{PropertyHdrHistogramSig: "9"})
	require.NotNil(t, err)
}

func TestClientSetupFailureCleansUp(t *testing.T) {
	resetCountingDBs(1)
	c, _ := newTestClient(t,
		PropertyDB, "counting",
		PropertyThreadCount, "3")
	require.NotNil(t, c.Run(context.Background()))
	require.Equal(t, 1, countingDBs.inits)
	require.Equal(t, 1, countingDBs.cleanups)

	// the workload fails after the first DB is up
	resetCountingDBs(-1)
	c, _ = newTestClient(t,
		PropertyDB, "counting",
		PropertyThreadCount, "2",
		PropertyGenerator, "ycsb",
		PropertySkew, "1")
	require.NotNil(t, c.Run(context.Background()))
	require.Equal(t, 1, countingDBs.inits)
	require.Equal(t, 1, countingDBs.cleanups)

	resetCountingDBs(-1)
	c, _ = newTestClient(t,
		PropertyDB, "counting",
		PropertyThreadCount, "2",
		PropertyOperationCount, "10")
	require.Nil(t, c.Run(context.Background()))
	require.Equal(t, 2, countingDBs.inits)
	require.Equal(t, 2, countingDBs.cleanups)
}

func TestClientExportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "result.json")
	c, out := newTestClient(t,
		PropertyDB, "basic",
		PropertyOperationCount, "10",
		PropertyExporter, "JSONArrayMeasurementExporter",
		PropertyExportFile, path)
	require.Nil(t, c.Run(context.Background()))
	require.Equal(t, 0, out.Len())

	data, err := ioutil.ReadFile(path)
	require.Nil(t, err)
	var result []map[string]interface{}
	require.Nil(t, json.Unmarshal(data, &result))
	require.Equal(t, "OVERALL", result[0]["metric"])
	require.Equal(t, "RunTime(ms)", result[0]["measurement"])
}

func TestClientStatus(t *testing.T) {
	logs := observeLogs(t, LevelInfo)
	c, _ := newTestClient(t,
		PropertyDB, "basic",
		PropertyOperationCount, "15",
		PropertyTarget, "10",
		PropertyStatusInterval, "1")
	require.Nil(t, c.Run(context.Background()))
	require.True(t, logs.FilterMessageSnippet("operations;").Len() >= 1)
}
