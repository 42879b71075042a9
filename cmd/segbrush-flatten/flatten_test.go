package main

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func whitePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: color.White}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func at(t *testing.T, data []byte, x, y int) color.NRGBA {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func assertNear(t *testing.T, want, got color.NRGBA) {
	t.Helper()
	near := func(a, b uint8) bool { return int(a)-int(b) <= 2 && int(b)-int(a) <= 2 }
	assert.Truef(t, near(want.R, got.R) && near(want.G, got.G) && near(want.B, got.B) && near(want.A, got.A),
		"got %v, want %v", got, want)
}

func TestReadStrokes(t *testing.T) {
	inputs, err := readStrokes(strings.NewReader(`[{"class_id":"class_2","width":4,"points":[[1,2],[3,4]]},{"mask":true,"points":[[5,5]]}]`))
	require.NoError(t, err)
	require.Len(t, inputs, 2)
	assert.Equal(t, [][2]float64{{1, 2}, {3, 4}}, inputs[0].Points)
	assert.True(t, inputs[1].Mask)

	_, err = readStrokes(strings.NewReader(`[{"colour":"#fff"}]`))
	assert.Error(t, err)
}

func TestFlatten(t *testing.T) {
	palette, err := loadPalette(nil)
	require.NoError(t, err)

	inputs := []strokeInput{
		{ClassID: "class_2", Width: 6, Points: [][2]float64{{0, 5}, {20, 5}}},
		{Color: "#ff0000", Width: 6, Points: [][2]float64{{0, 15}, {20, 15}}},
		{Color: "#000000", Width: 4, Points: [][2]float64{{10, 10}}},
		{ClassID: "class_2", Points: nil},
	}
	out, drawn, err := flatten(whitePNG(t, 20, 20), inputs, palette)
	require.NoError(t, err)
	assert.Equal(t, 3, drawn)

	assertNear(t, color.NRGBA{R: 0x06, G: 0xE6, B: 0xE6, A: 255}, at(t, out, 10, 5))
	assertNear(t, color.NRGBA{R: 255, A: 255}, at(t, out, 10, 15))
	assertNear(t, color.NRGBA{A: 255}, at(t, out, 10, 10))
	assertNear(t, color.NRGBA{R: 255, G: 255, B: 255, A: 255}, at(t, out, 10, 1))
}

func TestFlattenErrors(t *testing.T) {
	palette, err := loadPalette(nil)
	require.NoError(t, err)

	_, _, err = flatten(whitePNG(t, 4, 4), []strokeInput{{ClassID: "class_999", Points: [][2]float64{{1, 1}}}}, palette)
	assert.Error(t, err)

	_, _, err = flatten(whitePNG(t, 4, 4), []strokeInput{{Points: [][2]float64{{1, 1}}}}, palette)
	assert.Error(t, err)

	_, _, err = flatten([]byte("nope"), nil, palette)
	assert.Error(t, err)
}

func TestRunWithFiles(t *testing.T) {
	dir := t.TempDir()
	in := filepath.Join(dir, "base.png")
	strokes := filepath.Join(dir, "strokes.json")
	legend := filepath.Join(dir, "legend.csv")
	out := filepath.Join(dir, "out.png")

	require.NoError(t, os.WriteFile(in, whitePNG(t, 10, 10), 0o644))
	require.NoError(t, os.WriteFile(strokes, []byte(`[{"class_id":"class_7","width":3,"points":[[0,5],[10,5]]}]`), 0o644))
	require.NoError(t, os.WriteFile(legend, []byte("Idx,Color,Name\n7,#00FF00,grass\n"), 0o644))

	drawn, err := run(in, strokes, out, legend)
	require.NoError(t, err)
	assert.Equal(t, 1, drawn)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	assertNear(t, color.NRGBA{G: 255, A: 255}, at(t, data, 5, 5))
}

func TestRunValidation(t *testing.T) {
	_, err := run("base.png", "", "out.png", "")
	assert.Error(t, err)

	_, err = run(pipeName, pipeName, "out.png", "")
	assert.Error(t, err)

	_, err = run(filepath.Join(t.TempDir(), "missing.png"), "strokes.json", "out.png", "")
	assert.Error(t, err)
}
