package fetcher

import (
	"archive/zip"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

func init() {
	zap.ReplaceGlobals(zap.NewNop())
}

func testFetcher() *HTTPFetcher {
	return NewHTTPFetcher(HTTPOptions{
		Timeout:      5 * time.Second,
		MaxRetries:   3,
		RateLimiters: map[string]*rate.Limiter{},
	})
}

func TestDownload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "quakemap-cli/1.0", r.Header.Get("User-Agent"))
		_, _ = w.Write([]byte("payload"))
	}))
	defer srv.Close()

	body, err := testFetcher().Download(context.Background(), srv.URL)
	require.NoError(t, err)
	defer body.Close()

	buf := make([]byte, 16)
	n, _ := body.Read(buf)
	assert.Equal(t, "payload", string(buf[:n]))
}

func TestDownloadRetriesOn500(t *testing.T) {
	var calls atomic.Int64
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) < 3 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		_, _ = w.Write([]byte("ok"))
	}))
	defer srv.Close()

	body, err := testFetcher().Download(context.Background(), srv.URL)
	require.NoError(t, err)
	_ = body.Close()
	assert.Equal(t, int64(3), calls.Load())
}

func TestDownloadGivesUpAfterRetries(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := testFetcher().Download(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestDownloadNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := testFetcher().Download(context.Background(), srv.URL)
	assert.Error(t, err)
}

func TestDownloadToFile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("file contents"))
	}))
	defer srv.Close()

	path := filepath.Join(t.TempDir(), "out.csv")
	n, err := testFetcher().DownloadToFile(context.Background(), srv.URL, path)
	require.NoError(t, err)
	assert.Equal(t, int64(len("file contents")), n)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "file contents", string(data))
}

func TestReadCSV(t *testing.T) {
	input := "name,lat,lon\nTokyo, 35.6 ,139.7\nOsaka,34.7,135.5\n"
	header, rows, err := ReadCSV(strings.NewReader(input), CSVOptions{HasHeader: true, TrimSpace: true})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "lat", "lon"}, header)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Tokyo", "35.6", "139.7"}, rows[0])
}

func TestReadCSVNoHeader(t *testing.T) {
	header, rows, err := ReadCSV(strings.NewReader("1,2\n3,4\n"), CSVOptions{})
	require.NoError(t, err)
	assert.Nil(t, header)
	assert.Len(t, rows, 2)
}

func TestReadCSVVariableFields(t *testing.T) {
	_, rows, err := ReadCSV(strings.NewReader("a,b,c\nd\n"), CSVOptions{})
	require.NoError(t, err)
	assert.Len(t, rows, 2)
}

func TestColumnIndexAndField(t *testing.T) {
	idx := ColumnIndex([]string{"Name", " LAT ", "lon"})
	row := []string{"Tokyo", "35.6"}

	assert.Equal(t, "Tokyo", Field(row, idx, "name"))
	assert.Equal(t, "35.6", Field(row, idx, "lat"))
	assert.Equal(t, "", Field(row, idx, "lon"), "short row yields empty")
	assert.Equal(t, "", Field(row, idx, "missing"))
}

func TestExtractZIPAndFindByExt(t *testing.T) {
	dir := t.TempDir()
	zipPath := filepath.Join(dir, "data.zip")

	f, err := os.Create(zipPath)
	require.NoError(t, err)
	zw := zip.NewWriter(f)
	w, err := zw.Create("nested/dir/events.csv")
	require.NoError(t, err)
	_, err = w.Write([]byte("id,mag\n1,7.2\n"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	require.NoError(t, f.Close())

	destDir := filepath.Join(dir, "out")
	require.NoError(t, os.MkdirAll(destDir, 0o755))
	require.NoError(t, ExtractZIP(zipPath, destDir))

	found, err := FindByExt(destDir, ".csv")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(destDir, "events.csv"), found, "nested entries are flattened")

	_, err = FindByExt(destDir, ".shp")
	assert.Error(t, err)
}

func TestSplitFTPURL(t *testing.T) {
	host, path, err := splitFTPURL("ftp://ftp.ngdc.noaa.gov/hazards/signif.txt")
	require.NoError(t, err)
	assert.Equal(t, "ftp.ngdc.noaa.gov:21", host)
	assert.Equal(t, "/hazards/signif.txt", path)

	_, _, err = splitFTPURL("https://example.com/x")
	assert.Error(t, err)

	_, _, err = splitFTPURL("ftp://example.com")
	assert.Error(t, err)
}
