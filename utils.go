package zipf

import (
	"fmt"
	"io"
	"io/ioutil"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/hhkbp2/zipf/generator"
	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

type Properties map[string]string

func NewProperties() Properties {
	return make(Properties)
}

func (self Properties) Get(key string) string {
	v, _ := self[key]
	return v
}

func (self Properties) GetDefault(key string, defaultValue string) string {
	if v, ok := self[key]; ok {
		return v
	}
	return defaultValue
}

func (self Properties) Add(key string, value string) {
	self[key] = value
}

func (self Properties) Merge(other map[string]string) {
	for k, v := range other {
		self[k] = v
	}
}

func (self Properties) Has(key string) bool {
	_, ok := self[key]
	return ok
}

func (self Properties) GetInt64(key string, defaultValue string) (int64, error) {
	propStr := self.GetDefault(key, defaultValue)
	v, err := strconv.ParseInt(propStr, 0, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s=%q", key, propStr)
	}
	return v, nil
}

func (self Properties) GetFloat64(key string, defaultValue string) (float64, error) {
	propStr := self.GetDefault(key, defaultValue)
	v, err := strconv.ParseFloat(propStr, 64)
	if err != nil {
		return 0, errors.Wrapf(err, "invalid %s=%q", key, propStr)
	}
	return v, nil
}

func (self Properties) GetBool(key string, defaultValue string) (bool, error) {
	propStr := self.GetDefault(key, defaultValue)
	v, err := strconv.ParseBool(propStr)
	if err != nil {
		return false, errors.Wrapf(err, "invalid %s=%q", key, propStr)
	}
	return v, nil
}

// GetSeconds reads an integral number of seconds.
func (self Properties) GetSeconds(key string, defaultValue string) (time.Duration, error) {
	v, err := self.GetInt64(key, defaultValue)
	if err != nil {
		return 0, err
	}
	return time.Duration(v) * time.Second, nil
}

// Keys returns the property names in sorted order.
func (self Properties) Keys() []string {
	ret := make([]string, 0, len(self))
	for k := range self {
		ret = append(ret, k)
	}
	sort.Strings(ret)
	return ret
}

// LoadProperties reads a YAML property file. Nested mappings are flattened
// into dotted keys, so
//
//	mysql:
//	  host: 10.0.0.1
//
// yields "mysql.host" = "10.0.0.1".
func LoadProperties(path string) (Properties, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to read property file %s", path)
	}
	p, err := ParseProperties(data)
	if err != nil {
		return nil, errors.Wrapf(err, "fail to parse property file %s", path)
	}
	return p, nil
}

func ParseProperties(data []byte) (Properties, error) {
	raw := make(map[interface{}]interface{})
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	p := NewProperties()
	if err := flattenProperties(p, "", raw); err != nil {
		return nil, err
	}
	return p, nil
}

func flattenProperties(p Properties, prefix string, m map[interface{}]interface{}) error {
	for k, v := range m {
		key := fmt.Sprintf("%v", k)
		if len(prefix) > 0 {
			key = prefix + "." + key
		}
		switch value := v.(type) {
		case map[interface{}]interface{}:
			if err := flattenProperties(p, key, value); err != nil {
				return err
			}
		case []interface{}:
			parts := make([]string, 0, len(value))
			for _, e := range value {
				parts = append(parts, fmt.Sprintf("%v", e))
			}
			p.Add(key, strings.Join(parts, ","))
		case nil:
			p.Add(key, "")
		default:
			p.Add(key, fmt.Sprintf("%v", value))
		}
	}
	return nil
}

// ParsePropertyArg splits a "name=value" command line argument.
func ParsePropertyArg(arg string) (string, string, error) {
	i := strings.Index(arg, "=")
	if i <= 0 {
		return "", "", errors.Errorf("invalid property %q, expect name=value", arg)
	}
	return arg[:i], arg[i+1:], nil
}

func OutputProperties(p Properties) {
	Debugf("***************** properties *****************")
	for _, k := range p.Keys() {
		Debugf("\"%s\"=\"%s\"", k, p[k])
	}
	Debugf("**********************************************")
}

// RandomBytes returns length bytes drawn from src. A UniformSource always
// fills the whole buffer.
func RandomBytes(src *generator.UniformSource, length int64) []byte {
	b := make([]byte, length)
	src.Read(b)
	return b
}

type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error {
	return nil
}

// NopWriteCloser wraps w so that closing it does nothing. Used for
// stdout, which must stay open after an exporter is closed.
func NopWriteCloser(w io.Writer) io.WriteCloser {
	return nopWriteCloser{w}
}
