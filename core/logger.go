package core

// Logger is the application's leveled logger.
// args may hold errors, map[string]interface{} extras or an *http.Request to attach to the report.
type Logger interface {
	Debug(msg string, args ...interface{})
	Info(msg string, args ...interface{})
	Warn(msg string, args ...interface{})
	Error(msg string, args ...interface{})
	Fatal(msg string, args ...interface{})
}
