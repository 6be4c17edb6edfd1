package zipf

// Property names and their defaults. Every value is a string and parsed by
// the component reading it.
const (
	// DBWrapper
	// When true, the latency of a failed operation goes to "<OP>-FAILED".
	PropertyReportLatencyForEachError        = "reportlatencyforeacherror"
	PropertyReportLatencyForEachErrorDefault = "false"

	// BasicDB
	ConfigBasicDBVerbose        = "basicdb.verbose"
	ConfigBasicDBVerboseDefault = "false"
	// milliseconds
	ConfigSimulateDelay        = "basicdb.simulatedelay"
	ConfigSimulateDelayDefault = "0"
	// Draw each delay uniformly from [0, simulatedelay).
	ConfigRandomizeDelay        = "basicdb.randomizedelay"
	ConfigRandomizeDelayDefault = "true"

	// Client
	// Size of the key space. Sampled keys are user1 .. user<recordcount>.
	PropertyRecordCount        = "recordcount"
	PropertyRecordCountDefault = "1000"
	// Number of transactions of the run phase.
	PropertyOperationCount        = "operationcount"
	PropertyOperationCountDefault = "1000"
	PropertyWorkload              = "workload"
	PropertyWorkloadDefault       = "ZipfWorkload"
	PropertyDB                    = "db"
	PropertyDBDefault             = "basic"
	PropertyExporter              = "exporter"
	PropertyExporterDefault       = "TextMeasurementExporter"
	// Path the measurements are written to instead of stdout.
	PropertyExportFile = "exportfile"
	// Number of client goroutines.
	PropertyThreadCount        = "threadcount"
	PropertyThreadCountDefault = "1"
	// Records inserted by the load phase, recordcount - insertstart when
	// unset. Lets several clients share one load.
	PropertyInsertCount = "insertcount"
	// Operations per second over all routines, 0 is unthrottled.
	PropertyTarget        = "target"
	PropertyTargetDefault = "0"
	// Seconds after which a phase stops, 0 is no limit.
	PropertyMaxExecutionTime        = "maxexecutiontime"
	PropertyMaxExecutionTimeDefault = "0"
	// Seconds between two status lines, 0 disables them.
	PropertyStatusInterval        = "status.interval"
	PropertyStatusIntervalDefault = "10"
	// verbose, debug, info, warn, error or quiet
	PropertyLogLevel        = "log.level"
	PropertyLogLevelDefault = "info"

	// ZipfWorkload
	// Keys inserted by the load phase start right after this number.
	PropertyInsertStart        = "insertstart"
	PropertyInsertStartDefault = "0"
	PropertyTableName          = "table"
	PropertyTableNameDefault   = "usertable"
	// Fields per record, named field0, field1, ...
	PropertyFieldCount        = "fieldcount"
	PropertyFieldCountDefault = "10"
	// Bytes per field value.
	PropertyFieldLength        = "fieldlength"
	PropertyFieldLengthDefault = "100"
	// Reads fetch every field when true, a random one otherwise.
	PropertyReadAllFields        = "readallfields"
	PropertyReadAllFieldsDefault = "true"
	// Updates rewrite every field when true, a random one otherwise.
	PropertyWriteAllFields        = "writeallfields"
	PropertyWriteAllFieldsDefault = "false"
	// Relative weights of the transaction types.
	PropertyReadProportion                   = "readproportion"
	PropertyReadProportionDefault            = "0.95"
	PropertyUpdateProportion                 = "updateproportion"
	PropertyUpdateProportionDefault          = "0.05"
	PropertyReadModifyWriteProportion        = "readmodifywriteproportion"
	PropertyReadModifyWriteProportionDefault = "0.0"
	// "zipfian" makes user1 the hottest key, "scrambled" hashes the samples
	// so the hot keys are spread over the key space.
	PropertyRequestDistribution        = "requestdistribution"
	PropertyRequestDistributionDefault = "zipfian"
	// Attempts of a failing insert before the load gives up.
	InsertionRetryLimit        = "core_workload_insertion_retry_limit"
	InsertionRetryLimitDefault = "0"
	// Mean seconds between two attempts, jittered by 20%.
	InsertionRetryInterval        = "core_workload_insertion_retry_interval"
	InsertionRetryIntervalDefault = "3"

	// Key sampling
	// "rejinv" or "ycsb".
	PropertyGenerator        = "generator"
	PropertyGeneratorDefault = "rejinv"
	// Exponent of the key distribution.
	PropertySkew        = "skew"
	PropertySkewDefault = "0.99"
	// Seed of the first routine, routine i uses seed+i. Unset seeds every
	// routine from system entropy.
	PropertySeed = "seed"

	// Measurements
	PropertyPercentiles        = "hdrhistogram.percentiles"
	PropertyPercentilesDefault = "95,99"
	// Highest trackable latency in microseconds.
	PropertyHdrHistogramMax        = "hdrhistogram.max"
	PropertyHdrHistogramMaxDefault = "100000000"
	// Significant value digits, 1 to 5.
	PropertyHdrHistogramSig        = "hdrhistogram.sig"
	PropertyHdrHistogramSigDefault = "3"
)
