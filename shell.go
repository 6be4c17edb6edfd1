package zipf

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Shell is a line oriented command interpreter issuing single operations
// against a DB. It is handy for checking that a binding works before
// running a workload against it.
type Shell struct {
	db    DB
	table string
	in    io.Reader
	out   io.Writer
}

func NewShell(db DB, in io.Reader, out io.Writer) *Shell {
	return &Shell{
		db:    db,
		table: PropertyTableNameDefault,
		in:    in,
		out:   out,
	}
}

var (
	regexCmd = regexp.MustCompile(`\s+`)
)

func (self *Shell) println(format string, args ...interface{}) {
	fmt.Fprintf(self.out, format+"\n", args...)
}

func (self *Shell) printKV(values KVMap) {
	keys := make([]string, 0, len(values))
	for k := range values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		self.println("%s=%s", k, values[k])
	}
}

func parseKVs(args []string) (KVMap, error) {
	values := make(KVMap)
	for _, arg := range args {
		nv := strings.SplitN(arg, "=", 2)
		if len(nv) != 2 {
			return nil, fmt.Errorf("invalid name=value %s", arg)
		}
		values[nv[0]] = Binary(nv[1])
	}
	return values, nil
}

// Run reads commands until "quit" or the end of input.
func (self *Shell) Run() error {
	self.println("Zipf Command Line Client")
	self.println(`Type "help" for command line help`)
	scanner := bufio.NewScanner(self.in)
	for {
		fmt.Fprint(self.out, "> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "quit" {
			return nil
		}
		start := time.Now()
		if self.execute(regexCmd.Split(line, -1)) {
			self.println("%d ms", time.Since(start).Milliseconds())
		}
	}
	return scanner.Err()
}

// execute runs one command and reports whether it reached the DB.
func (self *Shell) execute(parts []string) bool {
	length := len(parts)
	switch parts[0] {
	case "":
		return false
	case "help":
		self.help()
		return false
	case "table":
		switch length {
		case 1:
		case 2:
			self.table = parts[1]
		default:
			self.println(`Error: syntax is "table tablename"`)
			return false
		}
		self.println(`Using table "%s"`, self.table)
		return false
	case "read":
		if length < 2 {
			self.println(`Error: syntax is "read keyname [field1 field2 ...]"`)
			return false
		}
		ret, status := self.db.Read(self.table, parts[1], parts[2:])
		self.println("Return code: %s", status)
		self.printKV(ret)
	case "scan":
		if length < 3 {
			self.println(`Error: syntax is "scan keyname scanlength [field1 field2 ...]"`)
			return false
		}
		scanLength, err := strconv.ParseInt(parts[2], 0, 64)
		if err != nil {
			self.println("Error: invalid scanlength %s", parts[2])
			return false
		}
		ret, status := self.db.Scan(self.table, parts[1], scanLength, parts[3:])
		self.println("Return code: %s", status)
		if len(ret) == 0 {
			self.println("0 records")
			break
		}
		self.println("--------------------------------")
		for i, kv := range ret {
			self.println("Record %d", i)
			self.printKV(kv)
			self.println("--------------------------------")
		}
	case "update", "insert":
		if length < 3 {
			self.println(`Error: syntax is "%s keyname name1=value1 [name2=value2 ...]"`, parts[0])
			return false
		}
		values, err := parseKVs(parts[2:])
		if err != nil {
			self.println("Error: %s", err)
			return false
		}
		var status StatusType
		if parts[0] == "update" {
			status = self.db.Update(self.table, parts[1], values)
		} else {
			status = self.db.Insert(self.table, parts[1], values)
		}
		self.println("Result: %s", status)
	case "delete":
		if length != 2 {
			self.println(`Error: syntax is "delete keyname"`)
			return false
		}
		self.println("Result: %s", self.db.Delete(self.table, parts[1]))
	default:
		self.println(`Error: unknown command "%s"`, parts[0])
		return false
	}
	return true
}

func (self *Shell) help() {
	self.println(`Commands
  read key [field1 field2 ...] - Read a record
  scan key recordcount [field1 field2 ...] - Scan starting at key
  insert key name1=value1 [name2=value2 ...] - Insert a new record
  update key name1=value1 [name2=value2 ...] - Update a record
  delete key - Delete a record
  table [tablename] - Get or [set] the name of the table
  quit - Quit`)
}
