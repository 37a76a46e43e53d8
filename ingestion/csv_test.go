package ingestion_test

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majubom/majubom/document"
	"github.com/majubom/majubom/ingestion"
)

func TestLoadCSVBatchesRows(t *testing.T) {
	var b strings.Builder
	b.WriteString("센터명,시도,전화번호\n")
	for i := 0; i < 25; i++ {
		fmt.Fprintf(&b, "센터%d,서울,02123456%d\n", i, i%10)
	}
	path := writeFile(t, t.TempDir(), "centers.csv", b.String())

	svc := ingestion.NewService("", nil)
	records, err := svc.LoadCSV(path, 10)
	require.NoError(t, err)
	require.Len(t, records, 3, "25 rows in batches of 10 should yield 3 records")

	for _, rec := range records {
		assert.True(t, strings.HasPrefix(rec.Text, "센터명, 시도, 전화번호\n"), "every batch repeats the header line")
		assert.Equal(t, "centers.csv", rec.Tags[document.TagSource])
		assert.Equal(t, "table", rec.Tags[document.TagType])
	}

	// 10 + 10 + 5 rows.
	assert.Len(t, strings.Split(records[0].Text, "\n"), 11)
	assert.Len(t, strings.Split(records[2].Text, "\n"), 6)
}

func TestLoadCSVHeaderOnly(t *testing.T) {
	path := writeFile(t, t.TempDir(), "empty.csv", "a,b,c\n")

	svc := ingestion.NewService("", nil)
	records, err := svc.LoadCSV(path, 10)
	require.NoError(t, err)
	assert.Empty(t, records)
}
