package envhint

import (
	"log/slog"
	"runtime"

	"golang.org/x/sys/cpu"
)

// Platform describes the machine a benchmark ran on.
type Platform struct {
	OS         string
	Arch       string
	CPUs       int
	GOMAXPROCS int
	Features   []string
}

// Describe returns the current platform.
func Describe() Platform {
	return Platform{
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		CPUs:       runtime.NumCPU(),
		GOMAXPROCS: runtime.GOMAXPROCS(0),
		Features:   features(),
	}
}

// LogValue implements slog.LogValuer.
func (p Platform) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("os", p.OS),
		slog.String("arch", p.Arch),
		slog.Int("cpus", p.CPUs),
		slog.Int("gomaxprocs", p.GOMAXPROCS),
		slog.Any("features", p.Features),
	)
}

func features() []string {
	var out []string
	add := func(ok bool, name string) {
		if ok {
			out = append(out, name)
		}
	}

	switch runtime.GOARCH {
	case "amd64", "386":
		add(cpu.X86.HasAES, "aes")
		add(cpu.X86.HasSSE42, "sse4.2")
		add(cpu.X86.HasAVX2, "avx2")
		add(cpu.X86.HasAVX512F, "avx512f")
	case "arm64":
		add(cpu.ARM64.HasAES, "aes")
		add(cpu.ARM64.HasSHA2, "sha2")
		add(cpu.ARM64.HasASIMD, "asimd")
		add(cpu.ARM64.HasSVE, "sve")
	}
	return out
}
