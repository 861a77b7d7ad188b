package logger

import (
	"sync"
	"sync/atomic"
)

// Per-component warn/error counters recorded by Entry.Warn and Entry.Error.
// A run is short-lived, so counters cover the whole process lifetime.
var (
	totalWarns  int64
	totalErrors int64
	components  sync.Map // map[string]*componentCounts
)

type componentCounts struct {
	warns  int64
	errors int64
}

func counts(component string) *componentCounts {
	if v, ok := components.Load(component); ok {
		return v.(*componentCounts)
	}
	v, _ := components.LoadOrStore(component, &componentCounts{})
	return v.(*componentCounts)
}

func recordWarn(component string) {
	atomic.AddInt64(&totalWarns, 1)
	atomic.AddInt64(&counts(component).warns, 1)
}

func recordError(component string) {
	atomic.AddInt64(&totalErrors, 1)
	atomic.AddInt64(&counts(component).errors, 1)
}

// WarnCount returns the number of warnings recorded for a component, or the
// process-wide total when component is empty.
func WarnCount(component string) int64 {
	if component == "" {
		return atomic.LoadInt64(&totalWarns)
	}
	return atomic.LoadInt64(&counts(component).warns)
}

// ErrorCount returns the number of errors recorded for a component, or the
// process-wide total when component is empty.
func ErrorCount(component string) int64 {
	if component == "" {
		return atomic.LoadInt64(&totalErrors)
	}
	return atomic.LoadInt64(&counts(component).errors)
}

// EmitRunReport logs a summary of warnings and errors per component. It is
// called once at the end of a run so operators can see partial-failure
// counts without grepping the full log.
func EmitRunReport(log *Log) {
	summary := Fields{
		"total_warns":  atomic.LoadInt64(&totalWarns),
		"total_errors": atomic.LoadInt64(&totalErrors),
	}
	components.Range(func(key, value interface{}) bool {
		c := value.(*componentCounts)
		w := atomic.LoadInt64(&c.warns)
		e := atomic.LoadInt64(&c.errors)
		if w > 0 {
			summary[key.(string)+"_warns"] = w
		}
		if e > 0 {
			summary[key.(string)+"_errors"] = e
		}
		return true
	})
	log.WithComponent("report").WithFields(summary).Info("run report")
}
