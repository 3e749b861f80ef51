package endpoint

import (
	"net/http"
	"runtime"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/kbukum/whisper-gateway/util"
)

// Metrics reports process figures for operators: uptime since started,
// goroutines and heap usage. Decoded audio lives on the heap, so heap_mb
// tracks concurrent transcriptions on the in-process backend.
func Metrics(started time.Time) gin.HandlerFunc {
	return func(c *gin.Context) {
		var ms runtime.MemStats
		runtime.ReadMemStats(&ms)

		c.JSON(http.StatusOK, gin.H{
			"uptime_seconds": int64(time.Since(started).Seconds()),
			"go_version":     runtime.Version(),
			"goroutines":     runtime.NumGoroutine(),
			"heap_mb":        util.Megabytes(int64(ms.HeapAlloc)),
			"sys_mb":         util.Megabytes(int64(ms.Sys)),
			"gc_runs":        ms.NumGC,
		})
	}
}
