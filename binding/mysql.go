package binding

import (
	"database/sql"
	"fmt"
	"net"
	"sort"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"

	"github.com/hhkbp2/zipf"
)

const (
	PropertyMysqlHost              = "mysql.host"
	PropertyMysqlHostDefault       = "127.0.0.1"
	PropertyMysqlPort              = "mysql.port"
	PropertyMysqlPortDefault       = "3306"
	PropertyMysqlDatabase          = "mysql.db"
	PropertyMysqlDatabaseDefault   = "db"
	PropertyMysqlUser              = "mysql.user"
	PropertyMysqlUserDefault       = "user"
	PropertyMysqlPassword          = "mysql.password"
	PropertyMysqlPasswordDefault   = "password"
	PropertyMysqlOptions           = "mysql.options"
	PropertyMysqlOptionsDefault    = "charset=utf8"
	PropertyMysqlPrimaryKey        = "mysql.primarykey"
	PropertyMysqlPrimaryKeyDefault = "zipf_key"
	// Dial timeout in seconds, 0 means the driver default.
	PropertyMysqlTimeout        = "mysql.timeout"
	PropertyMysqlTimeoutDefault = "0"
)

type openFunc func(dsn string) (*sql.DB, error)

func openMysql(dsn string) (*sql.DB, error) {
	return sql.Open("mysql", dsn)
}

// MysqlDB stores every record as one row of the table, keyed by the
// primary key column with one column per field.
type MysqlDB struct {
	*zipf.DBBase
	primaryKey string
	open       openFunc
	db         *sql.DB
	// prepared statements by query text
	stmts map[string]*sql.Stmt
}

func NewMysqlDB() *MysqlDB {
	return &MysqlDB{
		DBBase: zipf.NewDBBase(),
		open:   openMysql,
		stmts:  make(map[string]*sql.Stmt),
	}
}

func (self *MysqlDB) dataSourceName(props zipf.Properties) (string, error) {
	options := props.GetDefault(PropertyMysqlOptions, PropertyMysqlOptionsDefault)
	config, err := mysql.ParseDSN("/?" + options)
	if err != nil {
		return "", errors.Wrapf(err, "invalid %s", PropertyMysqlOptions)
	}
	timeout, err := props.GetSeconds(PropertyMysqlTimeout, PropertyMysqlTimeoutDefault)
	if err != nil {
		return "", err
	}
	config.User = props.GetDefault(PropertyMysqlUser, PropertyMysqlUserDefault)
	config.Passwd = props.GetDefault(PropertyMysqlPassword, PropertyMysqlPasswordDefault)
	config.Net = "tcp"
	config.Addr = net.JoinHostPort(
		props.GetDefault(PropertyMysqlHost, PropertyMysqlHostDefault),
		props.GetDefault(PropertyMysqlPort, PropertyMysqlPortDefault))
	config.DBName = props.GetDefault(PropertyMysqlDatabase, PropertyMysqlDatabaseDefault)
	config.Timeout = timeout
	// rewriting a row with equal values still counts as found
	config.ClientFoundRows = true
	return config.FormatDSN(), nil
}

func (self *MysqlDB) Init() error {
	props := self.GetProperties()
	if props == nil {
		props = zipf.NewProperties()
	}
	dsn, err := self.dataSourceName(props)
	if err != nil {
		return err
	}
	db, err := self.open(dsn)
	if err != nil {
		return errors.Wrap(err, "fail to open mysql")
	}
	// one client routine issues one operation at a time
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(time.Hour)
	self.primaryKey = props.GetDefault(PropertyMysqlPrimaryKey, PropertyMysqlPrimaryKeyDefault)
	self.db = db
	return nil
}

func (self *MysqlDB) Cleanup() error {
	for query, stmt := range self.stmts {
		stmt.Close()
		delete(self.stmts, query)
	}
	if self.db != nil {
		err := self.db.Close()
		self.db = nil
		return err
	}
	return nil
}

func (self *MysqlDB) prepare(query string) (*sql.Stmt, error) {
	if stmt, ok := self.stmts[query]; ok {
		return stmt, nil
	}
	stmt, err := self.db.Prepare(query)
	if err != nil {
		zipf.Debugf("fail to prepare %q: %s", query, err)
		return nil, err
	}
	self.stmts[query] = stmt
	return stmt, nil
}

func (self *MysqlDB) createReadStat(table string, fields []string, scan bool) string {
	fieldStr := "*"
	if len(fields) > 0 {
		fieldStr = strings.Join(fields, ", ")
	}
	if !scan {
		return fmt.Sprintf("SELECT %s FROM %s WHERE %s = ?", fieldStr, table, self.primaryKey)
	}
	return fmt.Sprintf("SELECT %s FROM %s WHERE %s >= ? ORDER BY %s LIMIT ?",
		fieldStr, table, self.primaryKey, self.primaryKey)
}

// scanRecord reads the current row into a KVMap without the primary key
// column.
func (self *MysqlDB) scanRecord(rows *sql.Rows, columns []string) (zipf.KVMap, error) {
	values := make([]sql.RawBytes, len(columns))
	dest := make([]interface{}, len(columns))
	for i := range values {
		dest[i] = &values[i]
	}
	if err := rows.Scan(dest...); err != nil {
		return nil, err
	}
	ret := make(zipf.KVMap, len(columns))
	for i, column := range columns {
		if column == self.primaryKey {
			continue
		}
		// RawBytes is only valid until the next call of Next
		ret[column] = append(zipf.Binary(nil), values[i]...)
	}
	return ret, nil
}

func (self *MysqlDB) query(table string, fields []string, scan bool, args ...interface{}) ([]zipf.KVMap, zipf.StatusType) {
	stmt, err := self.prepare(self.createReadStat(table, fields, scan))
	if err != nil {
		return nil, zipf.StatusBadRequest
	}
	rows, err := stmt.Query(args...)
	if err != nil {
		zipf.Debugf("fail to read %s %v: %s", table, args, err)
		return nil, zipf.StatusError
	}
	defer rows.Close()
	columns, err := rows.Columns()
	if err != nil {
		return nil, zipf.StatusError
	}
	ret := make([]zipf.KVMap, 0)
	for rows.Next() {
		record, err := self.scanRecord(rows, columns)
		if err != nil {
			zipf.Debugf("fail to scan %s %v: %s", table, args, err)
			return nil, zipf.StatusError
		}
		ret = append(ret, record)
	}
	if err = rows.Err(); err != nil {
		return nil, zipf.StatusError
	}
	return ret, zipf.StatusOK
}

func (self *MysqlDB) Read(table string, key string, fields []string) (zipf.KVMap, zipf.StatusType) {
	records, status := self.query(table, fields, false, key)
	if status != zipf.StatusOK {
		return nil, status
	}
	if len(records) == 0 {
		return nil, zipf.StatusNotFound
	}
	return records[0], zipf.StatusOK
}

func (self *MysqlDB) Scan(table string, startKey string, recordCount int64, fields []string) ([]zipf.KVMap, zipf.StatusType) {
	return self.query(table, fields, true, startKey, recordCount)
}

func sortedFields(values zipf.KVMap) []string {
	fields := make([]string, 0, len(values))
	for k := range values {
		fields = append(fields, k)
	}
	sort.Strings(fields)
	return fields
}

func (self *MysqlDB) createUpdateStat(table string, key string, values zipf.KVMap) (string, []interface{}) {
	fields := sortedFields(values)
	sets := make([]string, 0, len(fields))
	args := make([]interface{}, 0, len(fields)+1)
	for _, field := range fields {
		sets = append(sets, field+" = ?")
		args = append(args, []byte(values[field]))
	}
	args = append(args, key)
	return fmt.Sprintf("UPDATE %s SET %s WHERE %s = ?",
		table, strings.Join(sets, ", "), self.primaryKey), args
}

func (self *MysqlDB) createInsertStat(table string, key string, values zipf.KVMap) (string, []interface{}) {
	fields := sortedFields(values)
	columns := append([]string{self.primaryKey}, fields...)
	placeholders := make([]string, 0, len(columns))
	args := make([]interface{}, 0, len(columns))
	placeholders = append(placeholders, "?")
	args = append(args, key)
	for _, field := range fields {
		placeholders = append(placeholders, "?")
		args = append(args, []byte(values[field]))
	}
	return fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", ")), args
}

// exec runs a modifying statement. A statement touching no row means the
// key does not exist.
func (self *MysqlDB) exec(query string, args []interface{}) zipf.StatusType {
	stmt, err := self.prepare(query)
	if err != nil {
		return zipf.StatusBadRequest
	}
	result, err := stmt.Exec(args...)
	if err != nil {
		zipf.Debugf("fail to exec %q: %s", query, err)
		return zipf.StatusError
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return zipf.StatusError
	}
	if affected == 0 {
		return zipf.StatusNotFound
	}
	return zipf.StatusOK
}

func (self *MysqlDB) Update(table string, key string, values zipf.KVMap) zipf.StatusType {
	if len(values) == 0 {
		return zipf.StatusBadRequest
	}
	return self.exec(self.createUpdateStat(table, key, values))
}

func (self *MysqlDB) Insert(table string, key string, values zipf.KVMap) zipf.StatusType {
	return self.exec(self.createInsertStat(table, key, values))
}

func (self *MysqlDB) Delete(table string, key string) zipf.StatusType {
	query := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", table, self.primaryKey)
	return self.exec(query, []interface{}{key})
}
