package agent

import (
	"fmt"
	"log/slog"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/procfs"
	"github.com/prometheus/procfs/sysfs"
)

// arphrdLoopback is the ARPHRD type reported in /sys/class/net/*/type for
// loopback devices.
const arphrdLoopback = 772

// Payload is the snapshot an agent reports for its machine. The JSON names
// are what the dashboard expects.
type Payload struct {
	MachineName string    `json:"MachineName"`
	CPUUsage    float64   `json:"CpuUsage"`
	CPUTemp     float64   `json:"CpuTemp"`
	GPUTemp     float64   `json:"GpuTemp"`
	NICSpeed    string    `json:"NicSpeed"`
	TotalRAM    string    `json:"TotalRam"`
	Timestamp   time.Time `json:"Timestamp"`
}

// Collector samples the local machine through procfs and sysfs.
type Collector struct {
	machineName string
	proc        procfs.FS
	sys         sysfs.FS
	logger      *slog.Logger

	prevCPU *procfs.CPUStat
	now     func() time.Time
}

// NewCollector returns a Collector reading from the proc and sys mount
// points (procfs.DefaultMountPoint and sysfs.DefaultMountPoint in
// production).
func NewCollector(machineName, procPath, sysPath string, logger *slog.Logger) (*Collector, error) {
	proc, err := procfs.NewFS(procPath)
	if err != nil {
		return nil, fmt.Errorf("open procfs: %w", err)
	}
	sys, err := sysfs.NewFS(sysPath)
	if err != nil {
		return nil, fmt.Errorf("open sysfs: %w", err)
	}
	return &Collector{
		machineName: machineName,
		proc:        proc,
		sys:         sys,
		logger:      logger,
		now:         time.Now,
	}, nil
}

// Collect takes one sample. A source that cannot be read leaves its field
// at the zero value and is logged at debug level.
func (c *Collector) Collect() Payload {
	p := Payload{
		MachineName: c.machineName,
		NICSpeed:    "Disconnected",
		TotalRAM:    "0 GB",
		Timestamp:   c.now(),
	}

	if usage, err := c.cpuUsage(); err != nil {
		c.logger.Debug("cpu usage unavailable", "error", err)
	} else {
		p.CPUUsage = usage
	}

	if zones, err := c.sys.ClassThermalZoneStats(); err != nil {
		c.logger.Debug("thermal zones unavailable", "error", err)
	} else {
		p.CPUTemp, p.GPUTemp = temperatures(zones)
	}

	if nc, err := c.sys.NetClass(); err != nil {
		c.logger.Debug("network interfaces unavailable", "error", err)
	} else {
		p.NICSpeed = linkSpeed(nc)
	}

	if mi, err := c.proc.Meminfo(); err != nil {
		c.logger.Debug("meminfo unavailable", "error", err)
	} else if mi.MemTotal != nil {
		p.TotalRAM = formatRAM(*mi.MemTotal)
	}

	return p
}

// cpuUsage returns busy time as a percentage of all CPU time since the
// previous sample, or since boot on the first call.
func (c *Collector) cpuUsage() (float64, error) {
	stat, err := c.proc.Stat()
	if err != nil {
		return 0, err
	}
	cur := stat.CPUTotal
	prev := procfs.CPUStat{}
	if c.prevCPU != nil {
		prev = *c.prevCPU
	}
	c.prevCPU = &cur

	idle := (cur.Idle + cur.Iowait) - (prev.Idle + prev.Iowait)
	total := cpuTotal(cur) - cpuTotal(prev)
	if total <= 0 {
		return 0, nil
	}
	return round(100*(total-idle)/total, 1), nil
}

func cpuTotal(s procfs.CPUStat) float64 {
	return s.User + s.Nice + s.System + s.Idle + s.Iowait + s.IRQ + s.SoftIRQ + s.Steal
}

// temperatures picks the CPU package zone (falling back to any CPU zone, then
// the ACPI zone) and the first GPU zone, in whole degrees Celsius.
func temperatures(zones []sysfs.ClassThermalZoneStats) (cpu, gpu float64) {
	cpuRank := func(zoneType string) int {
		t := strings.ToLower(zoneType)
		switch {
		case strings.Contains(t, "pkg") || strings.Contains(t, "package") || strings.Contains(t, "tdie"):
			return 3
		case strings.Contains(t, "cpu") || strings.Contains(t, "core"):
			return 2
		case t == "acpitz":
			return 1
		}
		return 0
	}

	best := 0
	gpuFound := false
	for _, z := range zones {
		celsius := round(float64(z.Temp)/1000, 0)
		if r := cpuRank(z.Type); r > best {
			best, cpu = r, celsius
		}
		if !gpuFound && strings.Contains(strings.ToLower(z.Type), "gpu") {
			gpu, gpuFound = celsius, true
		}
	}
	return cpu, gpu
}

// linkSpeed describes the first interface that is up, not loopback, and
// reports a positive speed. Interfaces are checked in name order.
func linkSpeed(nc sysfs.NetClass) string {
	names := make([]string, 0, len(nc))
	for name := range nc {
		names = append(names, name)
	}
	slices.Sort(names)

	for _, name := range names {
		iface := nc[name]
		if iface.OperState != "up" || name == "lo" {
			continue
		}
		if iface.Type != nil && *iface.Type == arphrdLoopback {
			continue
		}
		if iface.Speed == nil || *iface.Speed <= 0 {
			continue
		}
		return formatSpeed(*iface.Speed)
	}
	return "Disconnected"
}

// formatSpeed renders a link speed given in Mbit/s.
func formatSpeed(mbps int64) string {
	if mbps >= 1000 {
		return strconv.FormatFloat(round(float64(mbps)/1000, 1), 'f', -1, 64) + " Gbps"
	}
	return strconv.FormatInt(mbps, 10) + " Mbps"
}

// formatRAM renders a MemTotal value given in kB as gigabytes.
func formatRAM(kb uint64) string {
	gb := float64(kb) / (1024 * 1024)
	return strconv.FormatFloat(round(gb, 1), 'f', -1, 64) + " GB"
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
