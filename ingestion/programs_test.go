package ingestion_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/majubom/majubom/document"
	"github.com/majubom/majubom/ingestion"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadProgramJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "hanultari_2025.json", `{
		"programs": [
			{"title": "프로그램A", "summary": "요약", "location": "서울", "dates": "2025-01-01"},
			{"title": "프로그램B", "location": "부산", "end_date": "2025-12-31"}
		]
	}`)

	svc := ingestion.NewService("", nil)
	records, err := svc.LoadProgramJSON(path)
	require.NoError(t, err)
	require.Len(t, records, 2)

	assert.Equal(t, "Title: 프로그램A\nSummary: 요약\nLocation: 서울\nDate: 2025-01-01", records[0].Text)

	// Missing optional fields become explicit placeholders.
	assert.Contains(t, records[1].Text, "Summary: 정보 없음")
	assert.Contains(t, records[1].Text, "Date: 2025-12-31")

	assert.Equal(t, "hanultari_2025.json", records[0].Tags[document.TagSource])
	assert.Equal(t, "program", records[0].Tags[document.TagType])
	assert.Equal(t, "multicultural_policy", records[0].Tags[document.TagCategory])
}

func TestLoadProgramJSONAlternateKey(t *testing.T) {
	path := writeFile(t, t.TempDir(), "danuri.json", `{
		"multicultural_family_support_programs": [
			{"title": "한국어 교실", "summary": "기초 한국어", "location": "인천", "date": "2025-06-01"}
		]
	}`)

	svc := ingestion.NewService("", nil)
	records, err := svc.LoadProgramJSON(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Text, "Date: 2025-06-01")
}

func TestLoadProgramJSONDateFallback(t *testing.T) {
	path := writeFile(t, t.TempDir(), "nodate.json", `{"programs": [{"title": "상담", "location": "대구"}]}`)

	svc := ingestion.NewService("", nil)
	records, err := svc.LoadProgramJSON(path)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Contains(t, records[0].Text, "Date: 날짜 정보 없음")
}

func TestLoadProgramDirectorySkipsMalformed(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "good.json", `{"programs": [{"title": "A", "location": "서울"}]}`)
	writeFile(t, dir, "broken.json", `{not json`)

	svc := ingestion.NewService("", nil)
	records, err := svc.LoadProgramDirectory(dir)
	require.NoError(t, err)
	assert.Len(t, records, 1, "malformed file must be skipped, not fatal")
}
