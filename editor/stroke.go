package editor

// Point 底图像素坐标系中的一个点
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Stroke 一次连续的手绘笔画，颜色和宽度在开始时固定
type Stroke struct {
	Color  string  `json:"color"`
	Width  float64 `json:"width"`
	Points []Point `json:"points"`
}

func (s Stroke) clone() Stroke {
	pts := make([]Point, len(s.Points))
	copy(pts, s.Points)
	s.Points = pts
	return s
}

// cloneStrokes 深拷贝笔画序列，调用方无法修改会话内部状态
func cloneStrokes(in []Stroke) []Stroke {
	out := make([]Stroke, len(in))
	for i, s := range in {
		out[i] = s.clone()
	}
	return out
}
