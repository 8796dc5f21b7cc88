package output

// LoggerPort is structured logging with key-value args, e.g.
// log.Info("step executed", "index", 3, "kind", "click").
type LoggerPort interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)

	Named(name string) LoggerPort
	WithField(key string, value any) LoggerPort
	WithFields(fields map[string]any) LoggerPort

	Close() error
}
