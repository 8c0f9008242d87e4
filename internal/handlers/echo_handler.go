package handlers

import (
	_ "embed"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"gateway-inject/internal/middleware"
	"gateway-inject/pkg/lambda"
)

//go:embed assets/logo.svg
var logoSVG []byte

// EncodingBody is the body served by the encoding route
const EncodingBody = "encoding-gzip"

// EchoHandler serves routes that reflect the request back, used to check
// how requests and responses cross the gateway boundary
type EchoHandler struct{}

// NewEchoHandler creates a new echo handler
func NewEchoHandler() *EchoHandler {
	return &EchoHandler{}
}

// @Summary Echo request headers
// @Description Returns the request headers with lower-case names; repeated headers are arrays
// @Tags echo
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /headers [get]
func (h *EchoHandler) Headers(c *gin.Context) {
	headers := make(lambda.Headers, len(c.Request.Header))
	for name, values := range c.Request.Header {
		if len(values) == 0 {
			continue
		}
		headers[strings.ToLower(name)] = lambda.NewHeaderValue(values)
	}
	c.JSON(http.StatusOK, headers)
}

// @Summary Echo request body
// @Description Returns the request body unchanged, with the request's content type
// @Tags echo
// @Accept */*
// @Produce */*
// @Success 200 {string} string
// @Failure 400 {object} ErrorResponse
// @Router /payload [post]
func (h *EchoHandler) Payload(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		middleware.AbortWithError(c, http.StatusBadRequest, "Failed to read request body")
		return
	}

	contentType := c.GetHeader("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.Data(http.StatusOK, contentType, body)
}

// @Summary Logo
// @Description Serves an SVG image; the content type carries no charset
// @Tags echo
// @Produce image/svg+xml
// @Success 200 {file} file
// @Router /images/logo.svg [get]
func (h *EchoHandler) Logo(c *gin.Context) {
	c.Data(http.StatusOK, "image/svg+xml", logoSVG)
}

// @Summary Encoding
// @Description Plain-text body, gzipped for clients that accept it
// @Tags echo
// @Produce plain
// @Success 200 {string} string
// @Router /encoding [get]
func (h *EchoHandler) Encoding(c *gin.Context) {
	c.String(http.StatusOK, EncodingBody)
}
