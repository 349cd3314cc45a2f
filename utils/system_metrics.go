package utils

import (
	"log"
	"time"

	"github.com/shirou/gopsutil/v4/cpu"
)

// GetCPUUsage samples total CPU utilization over one second, as a
// percentage. Feeds the health endpoint; errors degrade to 0 rather than
// failing the check.
func GetCPUUsage() float64 {
	percentages, err := cpu.Percent(time.Second, false)
	if err != nil || len(percentages) == 0 {
		if err != nil {
			log.Printf("Error sampling CPU usage: %v", err)
		}
		return 0
	}
	return percentages[0]
}
