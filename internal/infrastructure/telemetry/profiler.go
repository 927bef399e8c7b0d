package telemetry

import (
	"fmt"
	"os"
	"runtime"
	"sync"

	"github.com/erp/erpcore/internal/infrastructure/config"
	otelpyroscope "github.com/grafana/otel-profiling-go"
	"github.com/grafana/pyroscope-go"
	"go.opentelemetry.io/otel"
	"go.uber.org/zap"
)

var knownProfileTypes = map[pyroscope.ProfileType]bool{
	pyroscope.ProfileCPU:           true,
	pyroscope.ProfileInuseObjects:  true,
	pyroscope.ProfileAllocObjects:  true,
	pyroscope.ProfileInuseSpace:    true,
	pyroscope.ProfileAllocSpace:    true,
	pyroscope.ProfileGoroutines:    true,
	pyroscope.ProfileMutexCount:    true,
	pyroscope.ProfileMutexDuration: true,
	pyroscope.ProfileBlockCount:    true,
	pyroscope.ProfileBlockDuration: true,
}

// Profiler owns the Pyroscope session for the process
type Profiler struct {
	profiler *pyroscope.Profiler
	logger   *zap.Logger
	mu       sync.Mutex
	stopped  bool
}

// NewProfiler starts continuous profiling. When profiling is disabled the
// returned Profiler is a no-op.
func NewProfiler(cfg config.ProfilingConfig, tags map[string]string, logger *zap.Logger) (*Profiler, error) {
	p := &Profiler{logger: logger}
	if !cfg.Enabled {
		logger.Info("Continuous profiling disabled")
		return p, nil
	}
	if cfg.ServerAddress == "" {
		return nil, fmt.Errorf("profiler server address is required when profiling is enabled")
	}

	types, err := profileTypes(cfg.ProfileTypes)
	if err != nil {
		return nil, err
	}
	setRuntimeRates(types, cfg)

	merged := map[string]string{}
	if host, err := os.Hostname(); err == nil {
		merged["hostname"] = host
	}
	for k, v := range tags {
		merged[k] = v
	}

	p.profiler, err = pyroscope.Start(pyroscope.Config{
		ApplicationName:   cfg.ApplicationName,
		ServerAddress:     cfg.ServerAddress,
		BasicAuthUser:     cfg.BasicAuthUser,
		BasicAuthPassword: cfg.BasicAuthPassword,
		Logger:            logger.Named("pyroscope").Sugar(),
		Tags:              merged,
		ProfileTypes:      types,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to start Pyroscope profiler: %w", err)
	}

	logger.Info("Pyroscope profiler started",
		zap.String("server_address", cfg.ServerAddress),
		zap.String("application_name", cfg.ApplicationName),
		zap.Int("profile_types", len(types)),
	)
	return p, nil
}

func profileTypes(names []string) ([]pyroscope.ProfileType, error) {
	types := make([]pyroscope.ProfileType, 0, len(names))
	for _, name := range names {
		t := pyroscope.ProfileType(name)
		if !knownProfileTypes[t] {
			return nil, fmt.Errorf("unknown profile type %q", name)
		}
		types = append(types, t)
	}
	return types, nil
}

// setRuntimeRates turns on the runtime sampling mutex and block profiles need
func setRuntimeRates(types []pyroscope.ProfileType, cfg config.ProfilingConfig) {
	for _, t := range types {
		switch t {
		case pyroscope.ProfileMutexCount, pyroscope.ProfileMutexDuration:
			runtime.SetMutexProfileFraction(max(cfg.MutexProfileFraction, 1))
		case pyroscope.ProfileBlockCount, pyroscope.ProfileBlockDuration:
			runtime.SetBlockProfileRate(max(cfg.BlockProfileRate, 1))
		}
	}
}

// Enabled reports whether profiles are being uploaded
func (p *Profiler) Enabled() bool {
	return p.profiler != nil
}

// Stop flushes pending profiles. Calling it more than once is harmless.
func (p *Profiler) Stop() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.stopped || p.profiler == nil {
		p.stopped = true
		return nil
	}
	p.stopped = true

	if err := p.profiler.Stop(); err != nil {
		return fmt.Errorf("failed to stop profiler: %w", err)
	}
	p.logger.Info("Pyroscope profiler stopped")
	return nil
}

// LinkProfiles tags root spans with their Pyroscope profile id so a trace
// can jump to the CPU samples taken while it ran. Call it before handing
// TracerProvider to instrumentation.
func (p *Provider) LinkProfiles() {
	if p.linked != nil {
		return
	}
	p.linked = otelpyroscope.NewTracerProvider(p.TracerProvider())
	if p.tracer != nil {
		otel.SetTracerProvider(p.linked)
	}
}
