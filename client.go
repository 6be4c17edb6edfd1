package zipf

import (
	"context"
	"io"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"
)

// Client drives a workload against a database with a number of concurrent
// routines. Each routine owns its DB instance and workload state, and all of
// them report into one shared set of measurements.
type Client struct {
	props        Properties
	measurements *DefaultMeasurements
	output       io.Writer
	operations   int64
}

func NewClient(props Properties) (*Client, error) {
	measurements, err := NewDefaultMeasurements(props)
	if err != nil {
		return nil, err
	}
	return &Client{
		props:        props,
		measurements: measurements,
		output:       os.Stdout,
	}, nil
}

// SetOutput sets where the measurements are exported when no export file
// is configured.
func (self *Client) SetOutput(w io.Writer) {
	self.output = w
}

func (self *Client) Measurements() Measurements {
	return self.measurements
}

// Operations returns the number of operations done by the last phase.
func (self *Client) Operations() int64 {
	return atomic.LoadInt64(&self.operations)
}

// Load inserts the initial records.
func (self *Client) Load(ctx context.Context) error {
	return self.run(ctx, false)
}

// Run executes the transaction phase.
func (self *Client) Run(ctx context.Context) error {
	return self.run(ctx, true)
}

type clientRoutine struct {
	db    DB
	state interface{}
	ops   int64
}

func (self *Client) operationCount(doTransactions bool) (int64, error) {
	p := self.props
	if doTransactions {
		return p.GetInt64(PropertyOperationCount, PropertyOperationCountDefault)
	}
	if p.Has(PropertyInsertCount) {
		return p.GetInt64(PropertyInsertCount, "0")
	}
	recordCount, err := p.GetInt64(PropertyRecordCount, PropertyRecordCountDefault)
	if err != nil {
		return 0, err
	}
	insertStart, err := p.GetInt64(PropertyInsertStart, PropertyInsertStartDefault)
	if err != nil {
		return 0, err
	}
	return recordCount - insertStart, nil
}

func (self *Client) run(ctx context.Context, doTransactions bool) error {
	p := self.props
	threadCount, err := p.GetInt64(PropertyThreadCount, PropertyThreadCountDefault)
	if err != nil {
		return err
	}
	if threadCount <= 0 {
		return errors.Errorf("%s must be positive: %d", PropertyThreadCount, threadCount)
	}
	opCount, err := self.operationCount(doTransactions)
	if err != nil {
		return err
	}
	if opCount < 0 {
		return errors.Errorf("negative operation count: %d", opCount)
	}
	target, err := p.GetFloat64(PropertyTarget, PropertyTargetDefault)
	if err != nil {
		return err
	}
	maxExecutionTime, err := p.GetSeconds(PropertyMaxExecutionTime, PropertyMaxExecutionTimeDefault)
	if err != nil {
		return err
	}
	statusInterval, err := p.GetSeconds(PropertyStatusInterval, PropertyStatusIntervalDefault)
	if err != nil {
		return err
	}
	dbName := p.GetDefault(PropertyDB, PropertyDBDefault)

	workload, err := NewWorkload(p.GetDefault(PropertyWorkload, PropertyWorkloadDefault))
	if err != nil {
		return err
	}
	if err = workload.Init(p); err != nil {
		return errors.Wrap(err, "fail to init workload")
	}
	OutputProperties(p)

	// routines are set up in order so that seeded runs are reproducible
	routines := make([]*clientRoutine, 0, threadCount)
	setupDone := false
	defer func() {
		if setupDone {
			return
		}
		for _, r := range routines {
			if cerr := r.db.Cleanup(); cerr != nil {
				Warnf("fail to cleanup db %s: %s", dbName, cerr)
			}
		}
	}()
	for i := int64(0); i < threadCount; i++ {
		db, err := NewDB(dbName, p)
		if err != nil {
			return err
		}
		wrapper := NewDBWrapper(db, self.measurements)
		if err = wrapper.Init(); err != nil {
			return errors.Wrapf(err, "fail to init db %s", dbName)
		}
		ops := opCount / threadCount
		if i < opCount%threadCount {
			ops++
		}
		r := &clientRoutine{
			db:  wrapper,
			ops: ops,
		}
		routines = append(routines, r)
		if r.state, err = workload.InitRoutine(p); err != nil {
			return errors.Wrap(err, "fail to init workload routine")
		}
	}
	setupDone = true

	parent := ctx
	if maxExecutionTime > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, maxExecutionTime)
		defer cancel()
	}
	var limiter *rate.Limiter
	if target > 0 {
		limiter = rate.NewLimiter(rate.Limit(target), 1)
	}

	atomic.StoreInt64(&self.operations, 0)
	start := time.Now()
	stop := make(chan struct{})
	var wg sync.WaitGroup
	if statusInterval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			self.reportStatus(start, statusInterval, stop)
		}()
	}

	group, groupCtx := errgroup.WithContext(ctx)
	for _, r := range routines {
		r := r
		group.Go(func() error {
			defer r.db.Cleanup()
			for done := int64(0); done < r.ops; done++ {
				if groupCtx.Err() != nil {
					return nil
				}
				if limiter != nil {
					if err := limiter.Wait(groupCtx); err != nil {
						// the next slot lies past the deadline
						<-groupCtx.Done()
						return nil
					}
				}
				if doTransactions {
					workload.DoTransaction(r.db, r.state)
				} else if !workload.DoInsert(r.db, r.state) {
					return errors.New("insertion failed")
				}
				atomic.AddInt64(&self.operations, 1)
			}
			return nil
		})
	}
	err = group.Wait()
	runTime := time.Since(start)
	close(stop)
	wg.Wait()

	if cerr := workload.Cleanup(); cerr != nil {
		Warnf("fail to cleanup workload: %s", cerr)
	}
	if err != nil {
		return err
	}
	if err = parent.Err(); err != nil {
		return err
	}
	if ctx.Err() != nil {
		Infof("maximum execution time of %s reached", maxExecutionTime)
	}
	return self.export(runTime)
}

func (self *Client) reportStatus(start time.Time, interval time.Duration, stop <-chan struct{}) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			elapsed := time.Since(start)
			ops := atomic.LoadInt64(&self.operations)
			Infof("%d sec: %d operations; %.2f current ops/sec; %s",
				int64(elapsed.Seconds()), ops, float64(ops)/elapsed.Seconds(),
				self.measurements.GetSummary())
		}
	}
}

func (self *Client) export(runTime time.Duration) (err error) {
	var w io.WriteCloser
	if path := self.props.Get(PropertyExportFile); len(path) > 0 {
		f, err := os.Create(path)
		if err != nil {
			return errors.Wrapf(err, "fail to open export file %s", path)
		}
		w = f
	} else {
		w = NopWriteCloser(self.output)
	}
	exporter, err := NewMeasurementExporter(
		self.props.GetDefault(PropertyExporter, PropertyExporterDefault), w)
	if err != nil {
		w.Close()
		return err
	}
	defer func() {
		if cerr := exporter.Close(); err == nil {
			err = cerr
		}
	}()

	defer catch(&err)
	ops := atomic.LoadInt64(&self.operations)
	runTimeMs := runTime.Milliseconds()
	try(exporter.Write("OVERALL", "RunTime(ms)", runTimeMs))
	throughput := 0.0
	if runTime > 0 {
		throughput = float64(ops) / runTime.Seconds()
	}
	try(exporter.Write("OVERALL", "Throughput(ops/sec)", throughput))
	try(self.measurements.ExportMeasurements(exporter))
	return
}
