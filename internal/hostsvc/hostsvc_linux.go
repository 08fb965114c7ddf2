// Copyright 2025 The Signum-Miner Authors.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

//go:build linux

package hostsvc

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"golang.org/x/sys/unix"
)

// resolveMountSource walks /proc/mounts and returns the device backing the
// mount point that is the longest matching prefix of path, mirroring the
// "df"-based resolution of the original miner (see original_source's
// get_device_id_unix) but without shelling out.
func resolveMountSource(path string) (device, mountPoint string, err error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", "", err
	}

	f, err := os.Open("/proc/mounts")
	if err != nil {
		return "", "", err
	}
	defer f.Close()

	bestLen := -1
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) < 2 {
			continue
		}
		src, mp := fields[0], fields[1]
		if !strings.HasPrefix(abs, mp) {
			continue
		}
		if len(mp) > bestLen {
			bestLen = len(mp)
			device, mountPoint = src, mp
		}
	}
	if err := scanner.Err(); err != nil {
		return "", "", err
	}
	if device == "" {
		return "", "", fmt.Errorf("no mount point found for %s", abs)
	}
	return device, mountPoint, nil
}

// wholeDeviceName strips a trailing partition number and the /dev/ prefix,
// e.g. /dev/nvme0n1p1 -> nvme0n1, /dev/sda1 -> sda.
func wholeDeviceName(device string) string {
	name := strings.TrimPrefix(device, "/dev/")
	switch {
	case strings.HasPrefix(name, "nvme") || strings.HasPrefix(name, "mmcblk"):
		if i := strings.LastIndex(name, "p"); i > 0 {
			if _, err := strconv.Atoi(name[i+1:]); err == nil {
				name = name[:i]
			}
		}
	default:
		i := len(name)
		for i > 0 && name[i-1] >= '0' && name[i-1] <= '9' {
			i--
		}
		name = name[:i]
	}
	return name
}

func platformDeviceID(path string) (string, error) {
	device, _, err := resolveMountSource(path)
	if err != nil {
		return "", err
	}
	return wholeDeviceName(device), nil
}

func platformSectorSize(path string) (uint64, error) {
	device, _, err := resolveMountSource(path)
	if err != nil {
		return 0, err
	}

	fd, err := unix.Open(device, unix.O_RDONLY, 0)
	if err != nil {
		return 0, fmt.Errorf("open %s: %w", device, err)
	}
	defer unix.Close(fd)

	sz, err := unix.IoctlGetInt(fd, unix.BLKSSZGET)
	if err != nil {
		return 0, fmt.Errorf("BLKSSZGET %s: %w", device, err)
	}
	return uint64(sz), nil
}

func platformBusType(path string) string {
	dev, err := platformDeviceID(path)
	if err != nil {
		return "unknown"
	}

	if b, err := os.ReadFile(filepath.Join("/sys/block", dev, "removable")); err == nil {
		if strings.TrimSpace(string(b)) == "1" {
			return "usb"
		}
	}

	transportFile := filepath.Join("/sys/block", dev, "device", "transport")
	if b, err := os.ReadFile(transportFile); err == nil {
		t := strings.TrimSpace(string(b))
		switch {
		case strings.Contains(t, "sas"), strings.Contains(t, "sata"), strings.Contains(t, "scsi"):
			return "fixed"
		}
	}

	if strings.HasPrefix(dev, "nvme") {
		return "fixed"
	}
	if strings.HasPrefix(dev, "sr") {
		return "cdrom"
	}
	if strings.HasPrefix(dev, "zram") || strings.HasPrefix(dev, "ram") {
		return "ramdisk"
	}
	return "unknown"
}
