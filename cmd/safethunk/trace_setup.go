package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"safethunk/internal/trace"
)

// tracing is the tracer of the running command; main closes it even when
// the command fails and cobra skips the post-run hook.
var tracing struct {
	tracer    trace.Tracer
	heartbeat *trace.Heartbeat
	output    string
	format    trace.Format
	level     trace.Level
	closeOnce sync.Once
}

// setupTracing inspects trace-related flags and attaches the tracer to the
// command context.
func setupTracing(cmd *cobra.Command) error {
	flags := cmd.Root().PersistentFlags()

	// Read trace configuration from flags
	traceOutput, err := flags.GetString("trace")
	if err != nil {
		return fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := flags.GetString("trace-level")
	if err != nil {
		return fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := flags.GetString("trace-mode")
	if err != nil {
		return fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	formatStr, err := flags.GetString("trace-format")
	if err != nil {
		return fmt.Errorf("failed to get trace-format flag: %w", err)
	}
	ringSize, err := flags.GetInt("trace-ring-size")
	if err != nil {
		return fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}
	heartbeatInterval, err := flags.GetDuration("trace-heartbeat")
	if err != nil {
		return fmt.Errorf("failed to get trace-heartbeat flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return err
	}
	// --trace без уровня включает трассировку файлов
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelFile
	}
	if level == trace.LevelOff {
		return nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return err
	}
	format, err := trace.ParseFormat(formatStr)
	if err != nil {
		return err
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		Format:     format,
		OutputPath: traceOutput,
		RingSize:   ringSize,
		Heartbeat:  heartbeatInterval,
	})
	if err != nil {
		return fmt.Errorf("failed to create tracer: %w", err)
	}
	tracing.tracer = tracer
	tracing.output = traceOutput
	tracing.format = format
	tracing.level = level
	if heartbeatInterval > 0 {
		tracing.heartbeat = trace.StartHeartbeat(tracer, heartbeatInterval)
	}

	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))
	return nil
}

// closeTracing stops the heartbeat and flushes the tracer once.
func closeTracing(cmd *cobra.Command) {
	tracing.closeOnce.Do(func() {
		if tracing.tracer == nil {
			return
		}
		if tracing.heartbeat != nil {
			tracing.heartbeat.Stop()
		}
		if err := tracing.tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracing.tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	})
}

// dumpTraceOnFailure writes a ring-only tracer to the trace output after a
// failed run.
func dumpTraceOnFailure() {
	if tracing.tracer == nil {
		return
	}
	defer closeTracing(rootCmd)
	// stream и both уже записали события
	ring, ok := tracing.tracer.(*trace.RingTracer)
	if !ok {
		return
	}
	w := os.Stderr
	if tracing.output != "" && tracing.output != "-" {
		f, err := os.Create(tracing.output)
		if err != nil {
			fmt.Fprintf(os.Stderr, "trace: dump failed: %v\n", err)
			return
		}
		defer f.Close()
		w = f
	}
	format := tracing.format
	if format == trace.FormatAuto {
		format = trace.FormatFromPath(tracing.output)
	}
	if err := ring.Dump(w, format); err != nil {
		fmt.Fprintf(os.Stderr, "trace: dump failed: %v\n", err)
	}
}
