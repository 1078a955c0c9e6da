package logger

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// InitLogger 替换zap的全局logger，之后本包的函数都写到新的core里。
// 未初始化时全局logger是zap的nop，库代码可以直接调用
func InitLogger(opts Options) error {
	level := zapcore.InfoLevel
	if len(opts.Level) != 0 {
		if err := level.Set(opts.Level); err != nil {
			return err
		}
	}
	core, err := buildCore(opts, level)
	if err != nil {
		return err
	}
	logger := zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
	zap.ReplaceGlobals(logger)
	return nil
}

// Replace 直接替换全局logger，测试里用
func Replace(l *zap.Logger) func() {
	return zap.ReplaceGlobals(l.WithOptions(zap.AddCallerSkip(1)))
}

func Sync() {
	_ = zap.L().Sync()
}

func Debugf(template string, args ...interface{}) {
	zap.S().Debugf(template, args...)
}

func Infof(template string, args ...interface{}) {
	zap.S().Infof(template, args...)
}

func Warnf(template string, args ...interface{}) {
	zap.S().Warnf(template, args...)
}

func Errorf(template string, args ...interface{}) {
	zap.S().Errorf(template, args...)
}

func Info(args ...interface{}) {
	zap.S().Info(args...)
}

func Warn(args ...interface{}) {
	zap.S().Warn(args...)
}

func Error(args ...interface{}) {
	zap.S().Error(args...)
}
