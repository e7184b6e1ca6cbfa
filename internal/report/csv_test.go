package report

import (
	"bytes"
	"encoding/csv"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shopscout-engine/internal/domain"
)

func TestWriteRows(t *testing.T) {
	rows := []domain.Row{
		{
			Shop:           domain.Shop{AccountName: "Tony's Pizza"},
			Classification: domain.Classification{Note: domain.NotePlaceNotFound},
		},
		{
			Shop:    domain.Shop{ShopID: "7", AccountName: "Sal's, Inc", BillingCity: "Boston", BillingZip: "02139"},
			Website: "https://order.sals.com",
			Classification: domain.Classification{
				HasWebsite:     true,
				DirectOrdering: true,
			},
		},
	}

	var buf bytes.Buffer
	require.NoError(t, WriteRows(&buf, rows))

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "ShopID,AccountName,BillingCity,BillingZip,Website,HasWebsite,DirectOrdering,Note", lines[0])
	assert.Equal(t, ",Tony's Pizza,,,,False,False,Place not found", lines[1])
	assert.Equal(t, `7,"Sal's, Inc",Boston,02139,https://order.sals.com,True,True,`, lines[2])
}

func TestWriteOutreach(t *testing.T) {
	msgs := []domain.Outreach{{
		ShopID:      "1",
		AccountName: "Tony's",
		Subject:     "Hello",
		Body:        "Hi Tony's,\n\nline two",
		SMS:         "Tony's: hi",
	}}

	var buf bytes.Buffer
	require.NoError(t, WriteOutreach(&buf, msgs))

	recs, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, OutreachHeader, recs[0])
	assert.Equal(t, []string{"1", "Tony's", "Hello", "Hi Tony's,\n\nline two", "Tony's: hi"}, recs[1])
}

func TestWriteFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	require.NoError(t, WriteFile(path, func(w io.Writer) error {
		return WriteRows(w, nil)
	}))
	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, strings.Join(RowHeader, ",")+"\n", string(b))
}

func TestWriteFileErrors(t *testing.T) {
	err := WriteFile(filepath.Join(t.TempDir(), "missing", "out.csv"), func(io.Writer) error { return nil })
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrOutput))

	boom := errors.New("boom")
	err = WriteFile(filepath.Join(t.TempDir(), "out.csv"), func(io.Writer) error { return boom })
	assert.True(t, errors.Is(err, boom))
	assert.True(t, domain.IsKind(err, domain.KindOutput))
}

func TestParseBool(t *testing.T) {
	v, err := ParseBool("True")
	require.NoError(t, err)
	assert.True(t, v)
	v, err = ParseBool("False")
	require.NoError(t, err)
	assert.False(t, v)
	_, err = ParseBool("yes")
	assert.Error(t, err)
}
