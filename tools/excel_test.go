package tools

import (
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type excelRow struct {
	Name    string  `excel:"Name"`
	Budget  float64 `excel:"Budget"`
	Due     *string `excel:"Due"`
	Skipped string  `excel:"-"`
	secret  string
}

func TestWriteSheet(t *testing.T) {
	due := "2025-06-01"
	rows := []excelRow{
		{Name: "Paint fence", Budget: 120.5, Due: &due, Skipped: "x", secret: "y"},
		{Name: "Fix sink"},
	}

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, WriteSheet(f, "Projects", rows))

	got, err := f.GetRows("Projects")
	require.NoError(t, err)
	require.Len(t, got, 3)
	require.Equal(t, []string{"Name", "Budget", "Due"}, got[0])
	require.Equal(t, "Paint fence", got[1][0])
	require.Equal(t, "120.5", got[1][1])
	require.Equal(t, "2025-06-01", got[1][2])
	require.Equal(t, "Fix sink", got[2][0])
}

func TestWriteSheetRejectsNonSlice(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()
	require.Error(t, WriteSheet(f, "", excelRow{}))
	require.Error(t, WriteSheet(f, "", []int{1}))
}

func TestPassword(t *testing.T) {
	hash, err := PasswordEncrypt("hunter2")
	require.NoError(t, err)
	require.NotEqual(t, "hunter2", hash)
	require.True(t, PasswordCompare("hunter2", hash))
	require.False(t, PasswordCompare("hunter3", hash))
}
