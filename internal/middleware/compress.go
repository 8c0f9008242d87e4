package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/klauspost/compress/gzip"
	"github.com/sirupsen/logrus"
)

// gzipWriter compresses the body on first write unless the handler already
// set a Content-Encoding of its own.
type gzipWriter struct {
	gin.ResponseWriter
	level       int
	writer      *gzip.Writer
	passThrough bool
}

func (g *gzipWriter) Write(data []byte) (int, error) {
	if g.passThrough {
		return g.ResponseWriter.Write(data)
	}

	if g.writer == nil {
		header := g.Header()
		if header.Get("Content-Encoding") != "" {
			g.passThrough = true
			return g.ResponseWriter.Write(data)
		}

		writer, err := gzip.NewWriterLevel(g.ResponseWriter, g.level)
		if err != nil {
			return 0, err
		}
		header.Set("Content-Encoding", "gzip")
		header.Add("Vary", "Accept-Encoding")
		header.Del("Content-Length")
		g.writer = writer
	}

	return g.writer.Write(data)
}

func (g *gzipWriter) WriteString(s string) (int, error) {
	return g.Write([]byte(s))
}

func (g *gzipWriter) close() error {
	if g.writer == nil {
		return nil
	}
	return g.writer.Close()
}

// Compression gzips response bodies for clients that accept gzip
func Compression(level int) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodHead || !acceptsGzip(c.GetHeader("Accept-Encoding")) {
			c.Next()
			return
		}

		writer := &gzipWriter{ResponseWriter: c.Writer, level: level}
		c.Writer = writer

		defer func() {
			if err := writer.close(); err != nil {
				logrus.WithFields(logrus.Fields{
					"request_id": c.GetString(RequestIDKey),
					"error":      err.Error(),
				}).Error("Failed to finish gzip stream")
			}
			c.Writer = writer.ResponseWriter
		}()

		c.Next()
	}
}

// acceptsGzip reports whether an Accept-Encoding value allows gzip
func acceptsGzip(acceptEncoding string) bool {
	for _, part := range strings.Split(acceptEncoding, ",") {
		coding, params, _ := strings.Cut(strings.TrimSpace(part), ";")
		coding = strings.TrimSpace(coding)
		if !strings.EqualFold(coding, "gzip") && coding != "*" {
			continue
		}

		q := strings.ReplaceAll(strings.TrimSpace(params), " ", "")
		if q == "q=0" || q == "q=0.0" || q == "q=0.00" || q == "q=0.000" {
			continue
		}
		return true
	}
	return false
}
