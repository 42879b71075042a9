package handler

import (
	"github.com/TIANLI0/SegBrush/editor"
	"github.com/TIANLI0/SegBrush/model"
	"github.com/TIANLI0/SegBrush/service"
	"github.com/gin-gonic/gin"
)

type LegendHandler struct {
	legend *service.LegendService
}

func NewLegendHandler(legend *service.LegendService) *LegendHandler {
	return &LegendHandler{legend: legend}
}

// Get 返回当前调色板
func (h *LegendHandler) Get(c *gin.Context) {
	p := h.legend.Current()
	data := model.LegendData{
		State:     p.State().String(),
		MaskColor: p.MaskColor(),
		Entries:   p.Entries(),
	}
	if data.Entries == nil {
		data.Entries = []editor.ClassEntry{}
	}
	if err := p.Err(); err != nil {
		data.Error = err.Error()
	}
	ok(c, "查询成功", data)
}
