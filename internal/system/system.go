package system

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/shirou/gopsutil/v3/mem"
	"github.com/shirou/gopsutil/v3/process"
)

// ProjectExtensions are the file types accepted as project files.
var ProjectExtensions = []string{".yaml", ".yml"}

// FindLatestProject returns the most recently modified project file in dir.
func FindLatestProject(dir string) (string, error) {
	latest, err := FindLatest(dir, ProjectExtensions...)
	if err != nil {
		return "", err
	}
	if latest == "" {
		return "", fmt.Errorf("no project files found in %s", dir)
	}
	return latest, nil
}

// FindLatest returns the newest regular file in dir whose name ends with one of exts,
// or "" when there is none.
func FindLatest(dir string, exts ...string) (string, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return "", err
	}

	var latestFile string
	var latestTime time.Time

	for _, f := range files {
		if f.IsDir() || !hasExt(f.Name(), exts) {
			continue
		}
		info, err := f.Info()
		if err != nil {
			continue
		}
		if info.ModTime().After(latestTime) {
			latestTime = info.ModTime()
			latestFile = filepath.Join(dir, f.Name())
		}
	}

	return latestFile, nil
}

func hasExt(name string, exts []string) bool {
	name = strings.ToLower(name)
	for _, ext := range exts {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}
	return false
}

// Stats is a point-in-time resource snapshot of this process.
type Stats struct {
	RSS         uint64  // bytes
	CPUPercent  float64 // since process start
	Threads     int32
	SystemTotal uint64 // bytes of physical memory
}

// ProcessStats samples the current process through gopsutil.
func ProcessStats() (Stats, error) {
	var s Stats
	p, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return s, err
	}
	mi, err := p.MemoryInfo()
	if err != nil {
		return s, err
	}
	s.RSS = mi.RSS
	if cpu, err := p.CPUPercent(); err == nil {
		s.CPUPercent = cpu
	}
	if n, err := p.NumThreads(); err == nil {
		s.Threads = n
	}
	if vm, err := mem.VirtualMemory(); err == nil {
		s.SystemTotal = vm.Total
	}
	return s, nil
}

// HumanBytes formats a byte count as MiB with one decimal.
func HumanBytes(b uint64) string {
	return fmt.Sprintf("%.1f MiB", float64(b)/(1<<20))
}
