package label

import (
	"testing"

	"github.com/woozymasta/csvgeo/internal/geo"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fragments = []geo.LabelFragment{
	{Header: "Name", Value: "Alice"},
	{Header: "Latitude", Value: "51.5074"},
}

func TestText(t *testing.T) {
	out, err := Text{}.Render(fragments)
	require.NoError(t, err)
	assert.Equal(t, "Name: Alice\nLatitude: 51.5074", out)

	out, err = Text{}.Render(nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}

func TestHTML(t *testing.T) {
	out, err := NewHTML().Render(fragments)
	require.NoError(t, err)
	assert.Contains(t, out, "Name: Alice")
	assert.Contains(t, out, "Latitude: 51.5074")
	assert.Contains(t, out, "<div>")
}

func TestHTMLMinifies(t *testing.T) {
	out, err := NewHTML().Render([]geo.LabelFragment{{Header: "Note", Value: "<b>  x  </b>"}})
	require.NoError(t, err)
	assert.Contains(t, out, "Note: &lt;b> x &lt;/b>")
	assert.NotContains(t, out, "  ")
}

func TestHTMLEscapes(t *testing.T) {
	out, err := NewHTML().Render([]geo.LabelFragment{{Header: "Note", Value: "<script>alert(1)</script>"}})
	require.NoError(t, err)
	assert.NotContains(t, out, "<script>")
}

func TestForName(t *testing.T) {
	r, err := ForName("TEXT")
	require.NoError(t, err)
	assert.IsType(t, Text{}, r)

	r, err = ForName(FormatHTML)
	require.NoError(t, err)
	assert.IsType(t, &HTML{}, r)

	_, err = ForName("markdown")
	assert.Error(t, err)
}
