package editor

// DiagnosticKind 诊断事件类型
type DiagnosticKind string

const (
	DiagLegendRowSkipped DiagnosticKind = "legend_row_skipped"
	DiagPointerIgnored   DiagnosticKind = "pointer_ignored"
	DiagStrokeRejected   DiagnosticKind = "stroke_rejected"
)

// Diagnostic 被静默容忍的输入异常，仅用于观测，不改变控制流
type Diagnostic struct {
	Kind   DiagnosticKind
	Detail string
}

// DiagnosticFunc 接收诊断事件；为 nil 时不报告
type DiagnosticFunc func(Diagnostic)

func (f DiagnosticFunc) emit(kind DiagnosticKind, detail string) {
	if f != nil {
		f(Diagnostic{Kind: kind, Detail: detail})
	}
}
