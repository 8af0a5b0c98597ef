package processor

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/woozymasta/csvgeo/internal/config"
	"github.com/woozymasta/csvgeo/internal/geo"
	"github.com/woozymasta/csvgeo/internal/pipeline"
	"github.com/woozymasta/csvgeo/internal/proj"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessSource(t *testing.T) {
	body := "lat,lon\n10,20\n"
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(body))
	}))
	defer srv.Close()

	dir := filepath.Join(t.TempDir(), "out")
	src := config.Source{
		Name:      "wells",
		URL:       srv.URL,
		Delimiter: "comma",
		SourceCRS: proj.WGS84,
		TargetCRS: proj.WGS84,
	}

	c, err := pipeline.ForSource(&pipeline.HTTPFetcher{}, proj.NewTransformer(proj.DefaultRegistry()), src)
	require.NoError(t, err)

	require.NoError(t, ProcessSource(context.Background(), c, src, dir, false))

	path := OutputPath(dir, src)
	assert.Equal(t, filepath.Join(dir, "wells.geojson"), path)

	var fc geo.GeoJSONFeatureCollection
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &fc))
	require.Len(t, fc.Features, 1)
	assert.Equal(t, geo.Position{20, 10}, fc.Features[0].Geometry.Coordinates)

	// existing file is kept without force
	body = "lat,lon\n1,2\n3,4\n"
	require.NoError(t, ProcessSource(context.Background(), c, src, dir, false))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &fc))
	assert.Len(t, fc.Features, 1)

	require.NoError(t, ProcessSource(context.Background(), c, src, dir, true))
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &fc))
	assert.Len(t, fc.Features, 2)
}

func TestSelectSources(t *testing.T) {
	cfg, err := config.Parse([]byte(`
sources:
  - name: stations
    url: http://example.com/stations.tsv
    aliases: [st]
  - name: wells
    url: http://example.com/wells.csv
`))
	require.NoError(t, err)

	selected, missing := SelectSources(cfg, []string{"wells", "st", "stations", "lakes"})
	require.Len(t, selected, 2)
	assert.Equal(t, "wells", selected[0].Name)
	assert.Equal(t, "stations", selected[1].Name)
	assert.Equal(t, []string{"lakes"}, missing)
}

func TestProcessSourceFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("city,temp\n"))
	}))
	defer srv.Close()

	dir := t.TempDir()
	src := config.Source{Name: "weather", URL: srv.URL, Delimiter: ",", SourceCRS: proj.WGS84, TargetCRS: proj.WGS84}

	c, err := pipeline.ForSource(&pipeline.HTTPFetcher{}, proj.NewTransformer(proj.DefaultRegistry()), src)
	require.NoError(t, err)

	assert.Error(t, ProcessSource(context.Background(), c, src, dir, true))
	_, err = os.Stat(OutputPath(dir, src))
	assert.True(t, os.IsNotExist(err))
}
