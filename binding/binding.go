package binding

import (
	"github.com/hhkbp2/zipf"
)

// AddBindings registers the database bindings of this package with the
// client.
func AddBindings() {
	zipf.Databases["mysql"] = func() zipf.DB {
		return NewMysqlDB()
	}
}
