package handler

import (
	"bytes"
	"encoding/binary"
	"encoding/json"
	"hash/crc32"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"sync"
	"testing"
	"time"

	"github.com/TIANLI0/SegBrush/config"
	"github.com/TIANLI0/SegBrush/editor"
	"github.com/TIANLI0/SegBrush/model"
	"github.com/TIANLI0/SegBrush/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	white = color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	cyan  = color.NRGBA{R: 0x06, G: 0xE6, B: 0xE6, A: 255}
)

type testEnv struct {
	router   *gin.Engine
	cfg      *config.Config
	sessions *service.SessionManager
	upstream *httptest.Server

	mu           sync.Mutex
	lastGenerate service.GenerationRequest
}

// generated 最近一次发往生成服务的请求
func (env *testEnv) generated() service.GenerationRequest {
	env.mu.Lock()
	defer env.mu.Unlock()
	return env.lastGenerate
}

func solidPNG(t *testing.T, w, h int, c color.Color) []byte {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{C: c}, image.Point{}, draw.Src)
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func pixel(t *testing.T, data []byte, x, y int) color.NRGBA {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	require.NoError(t, err)
	return color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
}

func assertNear(t *testing.T, want, got color.NRGBA) {
	t.Helper()
	d := func(a, b uint8) int {
		if a > b {
			return int(a - b)
		}
		return int(b - a)
	}
	assert.Truef(t, d(want.R, got.R) <= 2 && d(want.G, got.G) <= 2 && d(want.B, got.B) <= 2 && d(want.A, got.A) <= 2,
		"got %v, want %v", got, want)
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	env := &testEnv{}
	mux := http.NewServeMux()
	mux.HandleFunc("/segment", func(w http.ResponseWriter, r *http.Request) {
		if _, _, err := r.FormFile("file"); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "No file part"})
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]string{"segmented_image": editor.PNGDataURI(solidPNG(t, 20, 20, cyan))})
	})
	mux.HandleFunc("/generate", func(w http.ResponseWriter, r *http.Request) {
		var req service.GenerationRequest
		_ = json.NewDecoder(r.Body).Decode(&req)
		env.mu.Lock()
		env.lastGenerate = req
		env.mu.Unlock()
		_ = json.NewEncoder(w).Encode(map[string]string{"generated_image": editor.PNGDataURI(solidPNG(t, 2, 2, white))})
	})
	mux.HandleFunc("/streetview", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(solidPNG(t, 20, 20, white))
	})
	env.upstream = httptest.NewServer(mux)
	t.Cleanup(env.upstream.Close)

	cfg := config.Default()
	cfg.Session.SweepInterval = 0
	cfg.Editor.FallbackWidth = 32
	cfg.Editor.FallbackHeight = 16
	cfg.Segmentation.BaseURL = env.upstream.URL
	cfg.Generation.BaseURL = env.upstream.URL
	cfg.StreetView.BaseURL = env.upstream.URL + "/streetview"
	cfg.Segmentation.QueueTimeout = time.Second
	cfg.Generation.QueueTimeout = time.Second
	env.cfg = cfg

	legend := service.NewLegendService(cfg)
	legend.Load(t.Context())
	env.sessions = service.NewSessionManager(cfg, legend)
	t.Cleanup(env.sessions.Close)

	r := gin.New()
	RegisterRoutes(r.Group("/api/v1"),
		NewSessionHandler(cfg, env.sessions),
		NewPipelineHandler(env.sessions,
			service.NewSegmentationService(&cfg.Segmentation, nil),
			service.NewGenerationService(&cfg.Generation),
			service.NewStreetViewService(&cfg.StreetView)),
		NewLegendHandler(legend))
	env.router = r
	return env
}

func (env *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func (env *testEnv) upload(t *testing.T, id string, data []byte, contentType string, original bool) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	h := textproto.MIMEHeader{}
	h.Set("Content-Disposition", `form-data; name="image"; filename="base.png"`)
	h.Set("Content-Type", contentType)
	part, err := mw.CreatePart(h)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	if original {
		require.NoError(t, mw.WriteField("original", "true"))
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPut, "/api/v1/sessions/"+id+"/base", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, out any) {
	t.Helper()
	var resp struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(resp.Data, out))
}

func (env *testEnv) createSession(t *testing.T) string {
	t.Helper()
	w := env.do(t, http.MethodPost, "/api/v1/sessions", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var snap model.SessionSnapshot
	decodeData(t, w, &snap)
	require.NotEmpty(t, snap.ID)
	return snap.ID
}

func TestLegendEndpoint(t *testing.T) {
	env := newTestEnv(t)
	w := env.do(t, http.MethodGet, "/api/v1/legend", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var legend model.LegendData
	decodeData(t, w, &legend)
	assert.Equal(t, "ready", legend.State)
	assert.Equal(t, "#000000", legend.MaskColor)
	assert.Len(t, legend.Entries, 151)
	assert.Equal(t, editor.CustomClassID, legend.Entries[150].ID)
}

func TestSessionPaintAndExport(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	w := env.upload(t, id, solidPNG(t, 20, 20, white), "image/png", false)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/tool", map[string]any{"class_id": "class_2", "brush_width": 5})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/events", []model.PointerEvent{
		{Type: "down", X: 0, Y: 0},
		{Type: "move", X: 10, Y: 10},
		{Type: "up"},
		{Type: "move", X: 19, Y: 19},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result model.EventsResult
	decodeData(t, w, &result)
	assert.Equal(t, 4, result.Applied)
	assert.Equal(t, 2, result.Accepted)
	assert.Equal(t, 1, result.Session.StrokeCount)
	assert.Equal(t, "idle", result.Session.State)

	w = env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/png", w.Header().Get("Content-Type"))
	assertNear(t, cyan, pixel(t, w.Body.Bytes(), 5, 5))
	assertNear(t, white, pixel(t, w.Body.Bytes(), 19, 0))

	w = env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/clear", nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/export", nil)
	assertNear(t, white, pixel(t, w.Body.Bytes(), 5, 5))
}

func TestExportWithoutBaseUsesFallback(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	w := env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/export", nil)
	require.Equal(t, http.StatusOK, w.Code)
	img, err := png.Decode(bytes.NewReader(w.Body.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, image.Pt(32, 16), img.Bounds().Size())
}

func TestMaskPreview(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)
	require.Equal(t, http.StatusOK, env.upload(t, id, solidPNG(t, 20, 20, white), "image/png", false).Code)

	w := env.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/tool", map[string]any{"mode": "mask", "brush_width": 6})
	require.Equal(t, http.StatusOK, w.Code)
	env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/events", []model.PointerEvent{
		{Type: "down", X: 2, Y: 10}, {Type: "move", X: 18, Y: 10}, {Type: "leave"},
	})

	w = env.do(t, http.MethodGet, "/api/v1/sessions/"+id+"/mask", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uint8(255), pixel(t, w.Body.Bytes(), 10, 10).R)
	assert.Equal(t, uint8(0), pixel(t, w.Body.Bytes(), 10, 1).R)

	w = env.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil)
	var snap model.SessionSnapshot
	decodeData(t, w, &snap)
	assert.True(t, snap.UseMask)
	assert.Equal(t, "mask", snap.Mode)
}

func TestToolValidation(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	cases := []map[string]any{
		{"mode": "eraser"},
		{"class_id": "class_999"},
		{"custom_color": "red"},
		{"brush_width": 0},
		{"brush_width": 1000},
	}
	for _, body := range cases {
		w := env.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/tool", body)
		assert.Equal(t, http.StatusBadRequest, w.Code, "%v", body)
	}

	w := env.do(t, http.MethodPut, "/api/v1/sessions/"+id+"/tool", map[string]any{"class_id": "custom", "custom_color": "#abc"})
	require.Equal(t, http.StatusOK, w.Code)
	var snap model.SessionSnapshot
	decodeData(t, w, &snap)
	assert.Equal(t, "#AABBCC", snap.ActiveColor)
}

func TestUploadValidation(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	w := env.upload(t, id, []byte("GIF89a"), "image/gif", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.upload(t, id, []byte("not a png"), "image/png", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.upload(t, id, hugePNGHeader(), "image/png", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	var resp model.ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Contains(t, resp.Error, "50000x50000")

	env.cfg.Upload.MaxSize = 10
	w = env.upload(t, id, solidPNG(t, 20, 20, white), "image/png", false)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// hugePNGHeader 只有签名和 IHDR，声明 50000x50000 的灰度图
func hugePNGHeader() []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := append([]byte("IHDR"), 0, 0, 0xC3, 0x50, 0, 0, 0xC3, 0x50, 8, 0, 0, 0, 0)
	_ = binary.Write(&buf, binary.BigEndian, uint32(len(chunk)-4))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestInvalidEventsRejected(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	w := env.do(t, http.MethodPost, "/api/v1/sessions/"+id+"/events", []map[string]any{{"type": "tap"}})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnknownSession(t *testing.T) {
	env := newTestEnv(t)
	for _, path := range []string{"/api/v1/sessions/missing", "/api/v1/sessions/missing/export"} {
		w := env.do(t, http.MethodGet, path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
	}
	w := env.do(t, http.MethodDelete, "/api/v1/sessions/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDeleteSession(t *testing.T) {
	env := newTestEnv(t)
	id := env.createSession(t)

	require.Equal(t, http.StatusOK, env.do(t, http.MethodDelete, "/api/v1/sessions/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, env.do(t, http.MethodGet, "/api/v1/sessions/"+id, nil).Code)
}
