package api

import (
	"net/http"
	"os"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/shirou/gopsutil/v3/process"

	"github.com/xiaobei/subhub/internal/logger"
)

// ProcessStats describes resource usage of the service process.
type ProcessStats struct {
	PID        int     `json:"pid"`
	CPUPercent float64 `json:"cpu_percent"`
	MemoryMB   float64 `json:"memory_mb"`
}

func (s *Server) getSystemInfo(c *gin.Context) {
	result := gin.H{"version": s.version}

	pid := int32(os.Getpid())
	if proc, err := process.NewProcess(pid); err == nil {
		cpuPercent, _ := proc.CPUPercent()
		var memoryMB float64
		if memInfo, err := proc.MemoryInfo(); err == nil && memInfo != nil {
			memoryMB = float64(memInfo.RSS) / 1024 / 1024
		}

		result["process"] = ProcessStats{
			PID:        int(pid),
			CPUPercent: cpuPercent,
			MemoryMB:   memoryMB,
		}
	}

	result["scheduler_running"] = s.scheduler.IsRunning()

	c.JSON(http.StatusOK, gin.H{"data": result})
}

// getAppLogs gets application logs
func (s *Server) getAppLogs(c *gin.Context) {
	logs, err := logger.ReadAppLogs(logLineCount(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": logs})
}

// getAccessLogs gets subscription access logs
func (s *Server) getAccessLogs(c *gin.Context) {
	logs, err := logger.ReadAccessLogs(logLineCount(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": logs})
}

// logLineCount parses the lines query parameter, defaulting to 200.
func logLineCount(c *gin.Context) int {
	lines := 200
	if linesParam := c.Query("lines"); linesParam != "" {
		if n, err := strconv.Atoi(linesParam); err == nil && n > 0 {
			lines = n
		}
	}
	return lines
}
