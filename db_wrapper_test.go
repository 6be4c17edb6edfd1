package zipf

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestMeasurements(t *testing.T) *DefaultMeasurements {
	m, err := NewDefaultMeasurements(NewProperties())
	require.Nil(t, err)
	return m
}

func exportText(t *testing.T, m Measurements) string {
	var buf bytes.Buffer
	exporter, err := NewMeasurementExporter("TextMeasurementExporter", NopWriteCloser(&buf))
	require.Nil(t, err)
	require.Nil(t, m.ExportMeasurements(exporter))
	require.Nil(t, exporter.Close())
	return buf.String()
}

func TestDBWrapperMeasures(t *testing.T) {
	m := newTestMeasurements(t)
	db := NewDBWrapper(newMemoryDB(), m)
	db.SetProperties(NewProperties())
	require.Nil(t, db.Init())

	require.Equal(t, StatusOK, db.Insert("t", "user1", KVMap{"f": Binary("v")}))
	ret, status := db.Read("t", "user1", nil)
	require.Equal(t, StatusOK, status)
	require.Equal(t, Binary("v"), ret["f"])
	_, status = db.Read("t", "user2", nil)
	require.Equal(t, StatusNotFound, status)

	text := exportText(t, m)
	require.Contains(t, text, "[INSERT], Operations, 1\n")
	require.Contains(t, text, "[INSERT], Return=OK, 1\n")
	require.Contains(t, text, "[READ], Operations, 2\n")
	require.Contains(t, text, "[READ], Return=OK, 1\n")
	require.Contains(t, text, "[READ], Return=NOT_FOUND, 1\n")
	require.False(t, strings.Contains(text, "FAILED"))
}

func TestDBWrapperReportLatencyForEachError(t *testing.T) {
	m := newTestMeasurements(t)
	p := NewProperties()
	p.Add(PropertyReportLatencyForEachError, "true")
	db := NewDBWrapper(newMemoryDB(), m)
	db.SetProperties(p)
	require.Nil(t, db.Init())

	require.Equal(t, StatusNotFound, db.Update("t", "user1", nil))
	require.Equal(t, StatusNotFound, db.Delete("t", "user1"))

	text := exportText(t, m)
	require.Contains(t, text, "[UPDATE-FAILED], Operations, 1\n")
	require.Contains(t, text, "[DELETE-FAILED], Operations, 1\n")
	require.Contains(t, text, "[UPDATE], Return=NOT_FOUND, 1\n")
}

func TestDBWrapperBadProperty(t *testing.T) {
	p := NewProperties()
	p.Add(PropertyReportLatencyForEachError, "sometimes")
	db := NewDBWrapper(newMemoryDB(), newTestMeasurements(t))
	db.SetProperties(p)
	require.NotNil(t, db.Init())
}
