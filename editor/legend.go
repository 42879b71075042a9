package editor

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"slices"
	"strconv"
	"strings"
)

// LegendSource 提供图例资源的原始内容
type LegendSource interface {
	Open(ctx context.Context) (io.ReadCloser, error)
}

// HTTPSource 通过 HTTP GET 获取图例
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Open(ctx context.Context) (io.ReadCloser, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create legend request: %w", err)
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to fetch legend from %s: %w", s.URL, err)
	}
	if res.StatusCode < 200 || res.StatusCode > 299 {
		res.Body.Close()
		return nil, fmt.Errorf("unable to fetch legend from %s: status %s", s.URL, res.Status)
	}
	return res.Body, nil
}

// FileSource 从本地文件读取图例
type FileSource string

func (s FileSource) Open(context.Context) (io.ReadCloser, error) {
	return os.Open(string(s))
}

// ReaderSource 包装内存中的图例内容
type ReaderSource string

func (s ReaderSource) Open(context.Context) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader(string(s))), nil
}

// SourceFor 根据地址选择 HTTP 或文件来源
func SourceFor(location string) LegendSource {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return HTTPSource{URL: location}
	}
	return FileSource(location)
}

// LegendLoader 将图例资源解析为调色板
type LegendLoader struct {
	customColor string
	maskColor   string
	diag        DiagnosticFunc
}

type LoaderOption func(*LegendLoader)

func WithCustomColor(c string) LoaderOption {
	return func(l *LegendLoader) { l.customColor = c }
}

func WithMaskColor(c string) LoaderOption {
	return func(l *LegendLoader) { l.maskColor = c }
}

func WithLoaderDiagnostics(f DiagnosticFunc) LoaderOption {
	return func(l *LegendLoader) { l.diag = f }
}

func NewLegendLoader(opts ...LoaderOption) *LegendLoader {
	l := &LegendLoader{
		customColor: DefaultCustomColor,
		maskColor:   DefaultMaskColor,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Load 获取并解析图例。传输或解析失败时返回空调色板，失败原因可通过 Err 获取。
func (l *LegendLoader) Load(ctx context.Context, src LegendSource) *Palette {
	rc, err := src.Open(ctx)
	if err != nil {
		return NewEmptyPalette(l.maskColor, err)
	}
	defer rc.Close()

	entries, err := ParseLegend(rc, l.diag)
	if err != nil {
		return NewEmptyPalette(l.maskColor, err)
	}
	return NewPalette(entries, l.customColor, l.maskColor)
}

var errNoHeader = errors.New("legend has no header row")

type legendColumns struct {
	index, color, name int
}

var (
	indexHeaders = []string{"idx", "index", "id"}
	colorHeaders = []string{"color", "colour", "hex", "rgb"}
	nameHeaders  = []string{"name", "names", "label", "labels"}
)

// ParseLegend 解析带表头的图例表格。缺少序号或颜色的行被跳过，
// 名称取分号分隔的第一段，缺省为 class_<index>。
func ParseLegend(r io.Reader, diag DiagnosticFunc) ([]ClassEntry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, errNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read legend header: %w", err)
	}
	cols := locateColumns(header)

	var (
		entries []ClassEntry
		seen    = make(map[string]bool)
		line    = 1
	)
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			var perr *csv.ParseError
			if !errors.As(err, &perr) {
				return nil, fmt.Errorf("failed to read legend: %w", err)
			}
			diag.emit(DiagLegendRowSkipped, fmt.Sprintf("line %d: %v", line, err))
			continue
		}

		entry, reason := parseLegendRow(record, cols)
		if reason != "" {
			diag.emit(DiagLegendRowSkipped, fmt.Sprintf("line %d: %s", line, reason))
			continue
		}
		if seen[entry.ID] {
			diag.emit(DiagLegendRowSkipped, fmt.Sprintf("line %d: duplicate id %s", line, entry.ID))
			continue
		}
		seen[entry.ID] = true
		entries = append(entries, entry)
	}

	return entries, nil
}

func parseLegendRow(record []string, cols legendColumns) (ClassEntry, string) {
	rawIndex := field(record, cols.index)
	if rawIndex == "" {
		return ClassEntry{}, "missing index"
	}
	idx, err := strconv.Atoi(rawIndex)
	if err != nil || idx < 0 {
		return ClassEntry{}, fmt.Sprintf("invalid index %q", rawIndex)
	}

	rawColor := field(record, cols.color)
	if rawColor == "" {
		return ClassEntry{}, "missing color"
	}
	color, err := NormalizeColor(rawColor)
	if err != nil {
		return ClassEntry{}, err.Error()
	}

	id := "class_" + strconv.Itoa(idx)
	name := strings.TrimSpace(strings.SplitN(field(record, cols.name), ";", 2)[0])
	if name == "" {
		name = id
	}

	return ClassEntry{ID: id, Color: color, Name: name}, ""
}

func locateColumns(header []string) legendColumns {
	cols := legendColumns{index: -1, color: -1, name: -1}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		switch {
		case cols.index < 0 && slices.Contains(indexHeaders, h):
			cols.index = i
		case cols.color < 0 && slices.Contains(colorHeaders, h):
			cols.color = i
		case cols.name < 0 && slices.Contains(nameHeaders, h):
			cols.name = i
		}
	}
	if cols.index < 0 && cols.color < 0 && cols.name < 0 {
		return legendColumns{index: 0, color: 1, name: 2}
	}
	return cols
}

func field(record []string, i int) string {
	if i < 0 || i >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[i])
}
