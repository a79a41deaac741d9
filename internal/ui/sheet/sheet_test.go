package sheet

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const panelCSS = `
/* controls panel */
.controls {
	background: #202020;
	width: 260px;
	left: 100%;
}
.controls-row, .controls-title {
	color: #eee;
	height: 28;
}
#count { color: #ffcc00; }
@media screen {
	.controls { background: #ff0000; }
}
div { color: #123456; }
.controls .nested { color: #654321; }
.controls { width: 280px; }
`

func TestParse(t *testing.T) {
	s, err := Parse(panelCSS)
	require.NoError(t, err)

	var sels []string
	for _, r := range s.Rules {
		sels = append(sels, r.Selector)
	}
	assert.Equal(t, []string{".controls", ".controls-row", ".controls-title", "#count", ".controls"}, sels)
	assert.Equal(t, "#202020", s.Rules[0].Props["background"])
	assert.Equal(t, "260px", s.Rules[0].Props["width"])
	assert.Equal(t, "100%", s.Rules[0].Props["left"])
	assert.Equal(t, "28", s.Rules[1].Props["height"])
}

func TestMatchLaterRulesWin(t *testing.T) {
	s, err := Parse(panelCSS)
	require.NoError(t, err)

	props := s.Match("controls", "")
	assert.Equal(t, "#202020", props["background"])
	assert.Equal(t, "280px", props["width"])

	props = s.Match("controls-row", "count")
	assert.Equal(t, "#ffcc00", props["color"])
	assert.Equal(t, "28", props["height"])

	assert.Empty(t, s.Match("", ""))
	var none *Stylesheet
	assert.Empty(t, none.Match("controls", ""))
}

func TestParseEmpty(t *testing.T) {
	s, err := Parse("")
	require.NoError(t, err)
	assert.Empty(t, s.Rules)
}

func TestParseValues(t *testing.T) {
	c, ok := ParseColor("#fc0")
	assert.True(t, ok)
	assert.Equal(t, color.RGBA{R: 255, G: 204, A: 255}, c)
	_, ok = ParseColor("red")
	assert.False(t, ok)

	n, ok := ParsePx(" 12px ")
	assert.True(t, ok)
	assert.Equal(t, int32(12), n)
	_, ok = ParsePx("1em")
	assert.False(t, ok)

	pct, ok := ParsePct("50%")
	assert.True(t, ok)
	assert.Equal(t, int32(50), pct)
	_, ok = ParsePct("150%")
	assert.False(t, ok)
}
