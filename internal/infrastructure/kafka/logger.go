package kafka

import (
	"github.com/OliveiraNt/maned-lookout/internal/utils"
	chlog "github.com/charmbracelet/log"
	"github.com/twmb/franz-go/pkg/kgo"
)

// kgoLogger forwards franz-go client logs to the application logger.
type kgoLogger struct {
	cluster string
}

func newKgoLogger(cluster string) kgo.Logger {
	return &kgoLogger{cluster: cluster}
}

// Level keeps client chatter at warnings unless debug logging is on.
func (l *kgoLogger) Level() kgo.LogLevel {
	if utils.Logger != nil && utils.Logger.GetLevel() <= chlog.DebugLevel {
		return kgo.LogLevelDebug
	}
	return kgo.LogLevelWarn
}

func (l *kgoLogger) Log(level kgo.LogLevel, msg string, keyvals ...any) {
	if utils.Logger == nil {
		return
	}
	keyvals = append([]any{"cluster", l.cluster}, keyvals...)
	switch level {
	case kgo.LogLevelError:
		utils.Logger.Error("kafka client: "+msg, keyvals...)
	case kgo.LogLevelWarn:
		utils.Logger.Warn("kafka client: "+msg, keyvals...)
	case kgo.LogLevelInfo:
		utils.Logger.Info("kafka client: "+msg, keyvals...)
	default:
		utils.Logger.Debug("kafka client: "+msg, keyvals...)
	}
}
