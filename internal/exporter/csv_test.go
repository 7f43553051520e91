package exporter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteSimpleCSV(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir, nil)

	err := writer.WriteSimpleCSV("out.csv",
		[]string{"Timestamp", "Value"},
		[][]string{
			{"2024/01/01 10:00:00", "1.5"},
			{"2024/01/01 10:01:00", "2.5"},
		})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "out.csv"))
	require.NoError(t, err)

	assert.Equal(t, []byte{0xEF, 0xBB, 0xBF}, raw[:3], "Excel-compatible BOM prefix")
	assert.Equal(t,
		"Timestamp,Value\n2024/01/01 10:00:00,1.5\n2024/01/01 10:01:00,2.5\n",
		string(raw[3:]))
}

func TestWriteCSVCreatesNestedDirectories(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir, nil)

	err := writer.WriteCSV(filepath.Join("nested", "deep", "out.csv"), WriteOptions{
		Headers: []string{"A"},
		Records: [][]string{{"1"}},
	})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "nested", "deep", "out.csv"))
	require.NoError(t, err)
	assert.Equal(t, "A\n1\n", string(raw))
}

func TestWriteCSVWithoutHeaders(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(dir, nil)

	err := writer.WriteCSV("bare.csv", WriteOptions{Records: [][]string{{"x", "y"}}})
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "bare.csv"))
	require.NoError(t, err)
	assert.Equal(t, "x,y\n", string(raw))
}
