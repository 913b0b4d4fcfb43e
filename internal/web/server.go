// Package web 是基于 chi 的 HTTP 外壳：表单输入、内联预览与 PDF 下载。
// 外壳本身不持有任何流水线状态，每个请求都构造一次 pipeline.Request。
package web

import (
	"embed"
	"encoding/base64"
	"fmt"
	"html/template"
	"net/http"
	"strconv"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/ByLCY/noteworthy/errs"
	"github.com/ByLCY/noteworthy/export"
	"github.com/ByLCY/noteworthy/layout"
	"github.com/ByLCY/noteworthy/pipeline"
)

//go:embed templates/*.html
var templateFS embed.FS

var indexTemplate = template.Must(template.ParseFS(templateFS, "templates/index.html"))

// maxFormBytes 限制表单大小。
const maxFormBytes = 1 << 20

// Generator 是外壳依赖的生成能力。
type Generator interface {
	Generate(req pipeline.Request) (*pipeline.Response, error)
}

// Server 处理 HTTP 请求。
type Server struct {
	gen            Generator
	logger         *log.Logger
	defaultSpacing float64
}

// NewServer 创建外壳；defaultSpacing 为表单初始行距。
func NewServer(gen Generator, defaultSpacing float64, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if !layout.ValidLineSpacing(defaultSpacing) {
		defaultSpacing = layout.DefaultLineSpacing
	}
	return &Server{gen: gen, logger: logger, defaultSpacing: defaultSpacing}
}

// Handler 返回完整的路由。
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/generate", s.handleGenerate)
	r.Post("/download", s.handleDownload)
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return r
}

type pageData struct {
	Text       string
	Ruled      bool
	Spacing    float64
	MinSpacing float64
	MaxSpacing float64
	Preview    template.URL
	Error      string
}

func (s *Server) newPageData() pageData {
	return pageData{
		Spacing:    s.defaultSpacing,
		MinSpacing: layout.MinLineSpacing,
		MaxSpacing: layout.MaxLineSpacing,
	}
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, http.StatusOK, s.newPageData())
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	data := s.newPageData()
	req, err := s.parseRequest(w, r)
	if err == nil {
		data.Text, data.Ruled, data.Spacing = req.Text, req.Ruled, req.LineSpacing
		var resp *pipeline.Response
		if resp, err = s.gen.Generate(req); err == nil {
			data.Preview = template.URL("data:" + export.MIMEType + ";base64," + base64.StdEncoding.EncodeToString(resp.PDF))
			s.renderPage(w, http.StatusOK, data)
			return
		}
	}
	data.Error = errs.UserMessage(err)
	s.renderPage(w, s.statusFor(r, err), data)
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	req, err := s.parseRequest(w, r)
	if err != nil {
		http.Error(w, errs.UserMessage(err), s.statusFor(r, err))
		return
	}
	resp, err := s.gen.Generate(req)
	if err != nil {
		http.Error(w, errs.UserMessage(err), s.statusFor(r, err))
		return
	}
	w.Header().Set("Content-Type", export.MIMEType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName))
	w.Header().Set("Content-Length", strconv.Itoa(len(resp.PDF)))
	_, _ = w.Write(resp.PDF)
}

// parseRequest 从表单构造不可变的请求记录。
func (s *Server) parseRequest(w http.ResponseWriter, r *http.Request) (pipeline.Request, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxFormBytes)
	if err := r.ParseForm(); err != nil {
		return pipeline.Request{}, errs.Wrap(errs.CodeInvalidInput, err, "无法解析表单")
	}
	req := pipeline.Request{
		Text:        r.PostForm.Get("text"),
		Ruled:       r.PostForm.Get("ruled") != "",
		LineSpacing: s.defaultSpacing,
	}
	if v := r.PostForm.Get("spacing"); v != "" {
		spacing, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return req, errs.Wrap(errs.CodeInvalidInput, err, "行距 %q 不是数字", v)
		}
		req.LineSpacing = spacing
	}
	return req, req.Validate()
}

func (s *Server) statusFor(r *http.Request, err error) int {
	if errs.Is(err, errs.CodeInvalidInput) {
		return http.StatusBadRequest
	}
	s.logger.Error("generation failed", "request_id", middleware.GetReqID(r.Context()), "err", err)
	return http.StatusInternalServerError
}

func (s *Server) renderPage(w http.ResponseWriter, status int, data pageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := indexTemplate.Execute(w, data); err != nil {
		s.logger.Error("render template", "err", err)
	}
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Info("http",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start).Round(time.Millisecond),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
