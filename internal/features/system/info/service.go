package system_info

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
	"github.com/shirou/gopsutil/v4/mem"
)

type MemoryInfo struct {
	TotalBytes  uint64  `json:"totalBytes"`
	UsedBytes   uint64  `json:"usedBytes"`
	UsedPercent float64 `json:"usedPercent"`
}

type DiskInfo struct {
	Path        string  `json:"path"`
	TotalBytes  uint64  `json:"totalBytes"`
	UsedBytes   uint64  `json:"usedBytes"`
	UsedPercent float64 `json:"usedPercent"`
}

type SystemInfoResponse struct {
	Memory MemoryInfo `json:"memory"`
	Disk   DiskInfo   `json:"disk"`
}

type SystemInfoService struct {
	diskPath string
}

func NewSystemInfoService(diskPath string) *SystemInfoService {
	if diskPath == "" {
		diskPath = "/"
	}
	return &SystemInfoService{diskPath: diskPath}
}

func (s *SystemInfoService) GetSystemInfo() (*SystemInfoResponse, error) {
	memory, err := mem.VirtualMemory()
	if err != nil {
		return nil, fmt.Errorf("failed to read memory stats: %w", err)
	}

	usage, err := disk.Usage(s.diskPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read disk stats: %w", err)
	}

	return &SystemInfoResponse{
		Memory: MemoryInfo{
			TotalBytes:  memory.Total,
			UsedBytes:   memory.Used,
			UsedPercent: memory.UsedPercent,
		},
		Disk: DiskInfo{
			Path:        s.diskPath,
			TotalBytes:  usage.Total,
			UsedBytes:   usage.Used,
			UsedPercent: usage.UsedPercent,
		},
	}, nil
}
