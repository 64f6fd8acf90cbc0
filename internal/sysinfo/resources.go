package sysinfo

import (
	"fmt"
	"log/slog"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"

	"mcqforge/internal/common"
)

// Warning is an advisory resource finding. Warnings never abort a run.
type Warning struct {
	Resource string
	Detail   string
}

func (w Warning) String() string {
	return fmt.Sprintf("%s: %s", w.Resource, w.Detail)
}

// Monitor inspects host memory and free disk space before a run starts.
// The probe funcs are swappable so tests don't depend on the host.
type Monitor struct {
	Logger *slog.Logger
	Cfg    common.ResourceConfig

	availableMem func() (uint64, error)
	freeDisk     func(path string) (uint64, error)
}

func NewMonitor(cfg common.ResourceConfig, logger *slog.Logger) *Monitor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Monitor{
		Logger: logger,
		Cfg:    cfg,
		availableMem: func() (uint64, error) {
			vm, err := mem.VirtualMemory()
			if err != nil {
				return 0, err
			}
			return vm.Available, nil
		},
		freeDisk: func(path string) (uint64, error) {
			du, err := disk.Usage(path)
			if err != nil {
				return 0, err
			}
			return du.Free, nil
		},
	}
}

// Check inspects memory and disk against the configured floors. It cannot
// fail; probe errors and low resources alike only produce warnings.
func (m *Monitor) Check(workDir string) []Warning {
	var warnings []Warning

	if avail, err := m.availableMem(); err != nil {
		warnings = append(warnings, Warning{Resource: "memory", Detail: fmt.Sprintf("probe failed: %v", err)})
	} else if availMB := avail / (1024 * 1024); availMB < m.Cfg.MinMemoryMB {
		warnings = append(warnings, Warning{
			Resource: "memory",
			Detail:   fmt.Sprintf("%d MB available, below %d MB floor", availMB, m.Cfg.MinMemoryMB),
		})
	}

	if free, err := m.freeDisk(workDir); err != nil {
		warnings = append(warnings, Warning{Resource: "disk", Detail: fmt.Sprintf("probe failed: %v", err)})
	} else if free < m.Cfg.MinDiskBytes {
		warnings = append(warnings, Warning{
			Resource: "disk",
			Detail:   fmt.Sprintf("%d bytes free in %s, below %d byte floor", free, workDir, m.Cfg.MinDiskBytes),
		})
	}

	for _, w := range warnings {
		m.Logger.Warn("resources.low", "resource", w.Resource, "detail", w.Detail)
	}
	return warnings
}
