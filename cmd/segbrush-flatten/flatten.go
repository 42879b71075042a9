package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/TIANLI0/SegBrush/editor"
)

// strokeInput is one stroke of the input file. Exactly one of Color, ClassID
// or Mask selects the paint; Width falls back to the default brush width.
type strokeInput struct {
	Color   string       `json:"color,omitempty"`
	ClassID string       `json:"class_id,omitempty"`
	Mask    bool         `json:"mask,omitempty"`
	Width   float64      `json:"width,omitempty"`
	Points  [][2]float64 `json:"points"`
}

func readStrokes(r io.Reader) ([]strokeInput, error) {
	var inputs []strokeInput
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&inputs); err != nil {
		return nil, fmt.Errorf("invalid stroke file: %w", err)
	}
	return inputs, nil
}

func loadPalette(legend io.Reader) (*editor.Palette, error) {
	src := editor.ReaderSource(editor.ADE20KLegend)
	if legend != nil {
		data, err := io.ReadAll(legend)
		if err != nil {
			return nil, err
		}
		src = editor.ReaderSource(string(data))
	}
	p := editor.NewLegendLoader().Load(context.Background(), src)
	if p.State() != editor.PaletteReady {
		return nil, fmt.Errorf("legend has no usable classes: %v", p.Err())
	}
	return p, nil
}

// flatten replays the strokes over base through the same gesture path an
// interactive client uses and returns the exported PNG.
func flatten(base []byte, inputs []strokeInput, palette *editor.Palette) ([]byte, int, error) {
	e := editor.New(palette, editor.Config{})
	if err := e.SetBaseImage(base); err != nil {
		return nil, 0, err
	}

	drawn := 0
	for i, in := range inputs {
		if err := selectPaint(e, in); err != nil {
			return nil, drawn, fmt.Errorf("stroke %d: %w", i, err)
		}
		if len(in.Points) == 0 {
			continue
		}

		first := in.Points[0]
		if !e.PointerDown(editor.Point{X: first[0], Y: first[1]}) {
			continue
		}
		for _, p := range in.Points[1:] {
			e.PointerMove(editor.Point{X: p[0], Y: p[1]})
		}
		e.PointerUp()
		drawn++
	}

	out, err := e.Export()
	return out, drawn, err
}

func selectPaint(e *editor.Editor, in strokeInput) error {
	s := e.Session()

	width := in.Width
	if width == 0 {
		width = editor.DefaultBrushWidth
	}
	if err := s.SetBrushWidth(width); err != nil {
		return err
	}

	switch {
	case in.Mask:
		s.SetMode(editor.MaskPaint)
		return nil
	case in.ClassID != "":
		s.SetMode(editor.ClassPaint)
		return e.SelectClass(in.ClassID)
	case in.Color != "":
		if strings.EqualFold(in.Color, s.MaskColor()) {
			s.SetMode(editor.MaskPaint)
			return nil
		}
		s.SetMode(editor.ClassPaint)
		if err := s.SetCustomColor(in.Color); err != nil {
			return err
		}
		return e.SelectClass(editor.CustomClassID)
	}
	return fmt.Errorf("one of color, class_id or mask is required")
}
