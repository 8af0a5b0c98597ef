package pipeline

import (
	"context"
	"errors"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/woozymasta/csvgeo/internal/config"
	"github.com/woozymasta/csvgeo/internal/geo"
	"github.com/woozymasta/csvgeo/internal/proj"
	"github.com/woozymasta/csvgeo/internal/table"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// staticFetcher serves fixed text and counts calls.
type staticFetcher struct {
	text  string
	err   error
	calls int
}

func (f *staticFetcher) Fetch(context.Context, string) (string, error) {
	f.calls++
	return f.text, f.err
}

func TestConvertEndToEnd(t *testing.T) {
	f := &staticFetcher{text: "Name\tLatitude\tLongitude\nAlice\t51.5074\t-0.1278\n"}
	c := New(f, proj.WGS84)

	fc, err := c.Convert(context.Background(), "https://example.com/points.tsv", "\t")
	require.NoError(t, err)

	assert.Equal(t, "FeatureCollection", fc.Type)
	require.Len(t, fc.Features, 1)

	feature := fc.Features[0]
	assert.Equal(t, "Feature", feature.Type)
	assert.Equal(t, "Point", feature.Geometry.Type)
	assert.InDelta(t, -0.1278, feature.Geometry.Coordinates[0], 1e-9)
	assert.InDelta(t, 51.5074, feature.Geometry.Coordinates[1], 1e-9)
	assert.Equal(t, []geo.LabelFragment{
		{Header: "Name", Value: "Alice"},
		{Header: "Latitude", Value: "51.5074"},
		{Header: "Longitude", Value: "-0.1278"},
	}, feature.Label)
}

func TestConvertMissingColumns(t *testing.T) {
	f := &staticFetcher{text: "City\tTemp\n"}
	c := New(f, proj.WGS84)

	fc, err := c.Convert(context.Background(), "https://example.com/weather.tsv", "\t")
	assert.Nil(t, fc)
	require.Error(t, err)
	assert.True(t, errors.Is(err, table.ErrColumnsNotFound))

	var pe *Error
	require.True(t, errors.As(err, &pe))
	assert.Equal(t, StageParsing, pe.Stage)
	assert.Equal(t, "https://example.com/weather.tsv", pe.URL)
}

func TestConvertEmptyText(t *testing.T) {
	fc, err := New(&staticFetcher{}, proj.WGS84).Convert(context.Background(), "u", "")
	assert.Nil(t, fc)
	assert.True(t, errors.Is(err, table.ErrColumnsNotFound))
}

func TestConvertFetchError(t *testing.T) {
	f := &staticFetcher{err: &StatusError{Code: http.StatusBadGateway}}

	fc, err := New(f, proj.WGS84).Convert(context.Background(), "u", "\t")
	assert.Nil(t, fc)

	stage, ok := StageOf(err)
	require.True(t, ok)
	assert.Equal(t, StageFetching, stage)

	var statusErr *StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
}

func TestConvertRowCount(t *testing.T) {
	text := "lat,lon,name\n1,2,a\nbad,3,b\n4\n5,6,c\n"
	f := &staticFetcher{text: text}

	fc, err := New(f, proj.WGS84).Convert(context.Background(), "u", "comma")
	require.NoError(t, err)
	require.Len(t, fc.Features, 4)

	assert.True(t, math.IsNaN(fc.Features[1].Geometry.Coordinates[1]))
	assert.True(t, math.IsNaN(fc.Features[2].Geometry.Coordinates[0]))
	assert.Equal(t, geo.Position{6, 5}, fc.Features[3].Geometry.Coordinates)
}

func TestConvertIdempotent(t *testing.T) {
	f := &staticFetcher{text: "lat;lon\n1;2\n"}
	c := New(f, proj.WGS84)

	first, err := c.Convert(context.Background(), "u", ";")
	require.NoError(t, err)
	second, err := c.Convert(context.Background(), "u", ";")
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 2, f.calls)
}

func TestConvertAssemblingError(t *testing.T) {
	c := New(&staticFetcher{text: "lat,lon\n1,2\n"}, "EPSG:9999")

	_, err := c.Convert(context.Background(), "u", ",")
	stage, ok := StageOf(err)
	require.True(t, ok)
	assert.Equal(t, StageAssembling, stage)
	assert.True(t, errors.Is(err, proj.ErrUnknownCRS))
}

func TestForSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("name,y,x,latitude,longitude\nA,0,0,0,0\nB,1,1,oops,1\n"))
	}))
	defer srv.Close()

	src := config.Source{
		Name:          "wells",
		URL:           srv.URL,
		Delimiter:     "comma",
		SourceCRS:     proj.PseudoMercator,
		TargetCRS:     proj.WGS84,
		Invalid:       "skip",
		LabelProperty: "popup",
		LabelFormat:   "text",
	}

	c, err := ForSource(&HTTPFetcher{}, proj.NewTransformer(proj.DefaultRegistry()), src)
	require.NoError(t, err)

	fc, err := c.ConvertSource(context.Background(), src)
	require.NoError(t, err)
	require.Len(t, fc.Features, 1)
	assert.Equal(t, "name: A\ny: 0\nx: 0\nlatitude: 0\nlongitude: 0", fc.Features[0].Properties["popup"])
}

func TestForSourceErrors(t *testing.T) {
	tr := proj.NewTransformer(proj.DefaultRegistry())

	_, err := ForSource(&HTTPFetcher{}, tr, config.Source{Invalid: "drop"})
	assert.Error(t, err)

	_, err = ForSource(&HTTPFetcher{}, tr, config.Source{LabelProperty: "p", LabelFormat: "pdf"})
	assert.Error(t, err)
}

func TestConvertSourceError(t *testing.T) {
	c := New(&staticFetcher{err: errors.New("dial tcp: refused")}, proj.WGS84)

	_, err := c.ConvertSource(context.Background(), config.Source{Name: "wells", URL: "u"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "source wells")
	assert.Contains(t, err.Error(), "fetching")
}

func TestStageString(t *testing.T) {
	assert.Equal(t, "fetching", StageFetching.String())
	assert.Equal(t, "parsing", StageParsing.String())
	assert.Equal(t, "assembling", StageAssembling.String())
	assert.Equal(t, "stage(7)", Stage(7).String())
}
