package endpoint

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/videoscribe/version"
)

var startTime = time.Now()

// InfoResponse is the body of GET /info.
type InfoResponse struct {
	Service string            `json:"service"`
	Build   *version.Info     `json:"build"`
	Uptime  string            `json:"uptime"`
	Details map[string]string `json:"details,omitempty"`
}

// Info reports build information plus static details about the pipeline,
// such as the inference backend and the materializer in use.
func Info(serviceName string, details map[string]string) gin.HandlerFunc {
	build := version.GetVersionInfo()
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, InfoResponse{
			Service: serviceName,
			Build:   build,
			Uptime:  time.Since(startTime).Round(time.Second).String(),
			Details: details,
		})
	}
}
