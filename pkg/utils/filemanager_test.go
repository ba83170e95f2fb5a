package utils

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/ginjaninja78/ledger-analyzer/internal/types"
)

func TestDetectFormat(t *testing.T) {
	require.Equal(t, types.FormatXLSX, DetectFormat("bevetel.XLSX", nil))
	require.Equal(t, types.FormatCSV, DetectFormat("bevetel.csv", []byte("PK\x03\x04")))
	require.Equal(t, types.FormatXLSX, DetectFormat("upload", []byte("PK\x03\x04rest")))
	require.Equal(t, types.FormatCSV, DetectFormat("upload", []byte("datum,vam")))
}

func TestReadInput(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "headcount")
	require.NoError(t, os.WriteFile(path, []byte("PK\x03\x04xyz"), 0644))

	in, err := ReadInput(path)
	require.NoError(t, err)
	require.Equal(t, types.FormatXLSX, in.Format)
	require.Len(t, in.Data, 7)

	_, err = ReadInput(filepath.Join(dir, "missing.csv"))
	require.Error(t, err)
}

func TestEnsureDirAndFileExists(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "a", "b")
	require.False(t, FileExists(dir))
	require.NoError(t, EnsureDir(dir))
	require.True(t, FileExists(dir))
}

func TestGenerateOutputFileName(t *testing.T) {
	now := time.Date(2024, 1, 15, 14, 30, 22, 0, time.UTC)

	name := generateOutputFileName(now, "{report}_{timestamp}", map[string]string{"report": "expense"}, ".xlsx")
	require.Equal(t, "expense_20240115_143022.xlsx", name)

	name = generateOutputFileName(now, "{date}_{uuid}.xlsx", nil, ".xlsx")
	require.True(t, strings.HasPrefix(name, "20240115_"))
	require.True(t, strings.HasSuffix(name, ".xlsx"))
	require.Len(t, name, len("20240115_")+36+len(".xlsx"))
}
