package handler

import (
	"github.com/TIANLI0/SegBrush/editor"
	"github.com/TIANLI0/SegBrush/model"
	"github.com/TIANLI0/SegBrush/service"
)

// snapshot 读取会话状态，调用方必须持有会话锁
func snapshot(s *service.Session) model.SessionSnapshot {
	e := s.Editor()
	sess := e.Session()
	size := e.Size()

	snap := model.SessionSnapshot{
		ID:          s.ID,
		State:       sess.State().String(),
		Mode:        sess.Mode().String(),
		CustomColor: sess.CustomColor(),
		MaskColor:   sess.MaskColor(),
		BrushWidth:  sess.BrushWidth(),
		HasBase:     sess.HasBaseImage(),
		HasOriginal: len(e.Original()) > 0,
		Width:       size.X,
		Height:      size.Y,
		StrokeCount: sess.Len(),
		UseMask:     e.HasMaskStrokes(),
		Prompt:      s.Prompt(),
	}
	if sel, ok := sess.SelectedClass(); ok {
		snap.Selected = &sel
	}
	if c, ok := sess.ActiveColor(); ok {
		snap.ActiveColor = c
	}
	if idx, ok := sess.ActiveStrokeIndex(); ok {
		snap.ActiveStroke = &idx
	}
	return snap
}

// applyPointer 按顺序执行一个指针事件，返回是否改变了笔画
func applyPointer(e *editor.Editor, ev model.PointerEvent) bool {
	p := editor.Point{X: ev.X, Y: ev.Y}
	switch ev.Type {
	case model.PointerDown:
		return e.PointerDown(p)
	case model.PointerMove:
		return e.PointerMove(p)
	case model.PointerUp, model.PointerLeave:
		e.PointerUp()
	}
	return false
}

func validPointerType(t string) bool {
	switch t {
	case model.PointerDown, model.PointerMove, model.PointerUp, model.PointerLeave:
		return true
	}
	return false
}
