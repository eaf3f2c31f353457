package logsvc

import (
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/adrsy6394/SkillSpring/core"
)

// ZapLogger is the development logger: structured console output,
// no external reporting.
type ZapLogger struct {
	sugar   *zap.SugaredLogger
	enabled atomic.Bool
}

var _ core.Logger = (*ZapLogger)(nil)

func NewZapLogger(conf *core.Config) (*ZapLogger, error) {
	var zconf zap.Config
	if conf.Debug {
		zconf = zap.NewDevelopmentConfig()
	} else {
		zconf = zap.NewProductionConfig()
	}
	zconf.InitialFields = map[string]interface{}{
		"app":   conf.AppName,
		"env":   conf.Env,
		"build": conf.Build,
	}
	zl, err := zconf.Build(zap.AddCallerSkip(1))
	if err != nil {
		return nil, err
	}
	l := &ZapLogger{sugar: zl.Sugar()}
	l.enabled.Store(true)
	return l, nil
}

func (l *ZapLogger) Enable(enabled bool) { l.enabled.Store(enabled) }

func (l *ZapLogger) log(lvl zapcore.Level, msg string, args []interface{}) {
	if !l.enabled.Load() {
		return
	}
	kvs := make([]interface{}, 0, len(args)*2)
	for _, arg := range args {
		if err, ok := arg.(error); ok {
			kvs = append(kvs, zap.Error(err))
			continue
		}
		if m, ok := arg.(map[string]interface{}); ok {
			for k, v := range m {
				kvs = append(kvs, k, v)
			}
			continue
		}
		kvs = append(kvs, zap.Any("arg", arg))
	}
	switch lvl {
	case zapcore.DebugLevel:
		l.sugar.Debugw(msg, kvs...)
	case zapcore.InfoLevel:
		l.sugar.Infow(msg, kvs...)
	case zapcore.WarnLevel:
		l.sugar.Warnw(msg, kvs...)
	case zapcore.ErrorLevel:
		l.sugar.Errorw(msg, kvs...)
	case zapcore.FatalLevel:
		l.sugar.Fatalw(msg, kvs...)
	}
}

func (l *ZapLogger) Debug(msg string, args ...interface{}) { l.log(zapcore.DebugLevel, msg, args) }
func (l *ZapLogger) Info(msg string, args ...interface{})  { l.log(zapcore.InfoLevel, msg, args) }
func (l *ZapLogger) Warn(msg string, args ...interface{})  { l.log(zapcore.WarnLevel, msg, args) }
func (l *ZapLogger) Error(msg string, args ...interface{}) { l.log(zapcore.ErrorLevel, msg, args) }
func (l *ZapLogger) Fatal(msg string, args ...interface{}) { l.log(zapcore.FatalLevel, msg, args) }
