// Package preflight checks the host before setup spends time rebuilding the environment.
package preflight

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v3/disk"
)

// UsageFunc reports free bytes on the filesystem holding path.
type UsageFunc func(ctx context.Context, path string) (free uint64, err error)

// DiskFree is the gopsutil backed UsageFunc.
func DiskFree(ctx context.Context, path string) (uint64, error) {
	du, err := disk.UsageWithContext(ctx, path)
	if err != nil {
		return 0, err
	}
	return du.Free, nil
}

// Report is the outcome of CheckDisk.
type Report struct {
	FreeMB uint64
	MinMB  uint64
	Low    bool
}

func (r Report) String() string {
	return fmt.Sprintf("%d MB free (want %d MB)", r.FreeMB, r.MinMB)
}

// CheckDisk compares free space at path against minMB. A minMB of zero disables the check.
func CheckDisk(ctx context.Context, usage UsageFunc, path string, minMB uint64) (Report, error) {
	if usage == nil {
		usage = DiskFree
	}
	free, err := usage(ctx, path)
	if err != nil {
		return Report{MinMB: minMB}, fmt.Errorf("disk usage for %s: %w", path, err)
	}
	r := Report{FreeMB: free / (1024 * 1024), MinMB: minMB}
	r.Low = minMB > 0 && r.FreeMB < minMB
	return r, nil
}
