package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	rotatelogs "github.com/lestrrat-go/file-rotatelogs"
	"github.com/sirupsen/logrus"
)

var (
	logDir   = ""
	logLevel = logrus.InfoLevel

	// InfoLog 请求与业务流水日志
	InfoLog = NewLogger("info")
	// ErrorLog 异常日志（webhook 失败、panic 等）
	ErrorLog = NewLogger("error")
)

// Setup 根据配置重建日志；dir 为空时输出到 stdout
func Setup(dir, level string) {
	logDir = dir
	if lv, err := logrus.ParseLevel(level); err == nil {
		logLevel = lv
	}
	InfoLog = NewLogger("info")
	ErrorLog = NewLogger("error")
}

func NewLogger(logType string) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(os.Stdout)

	if logDir != "" {
		logPath := filepath.Join(logDir, logType)
		_ = os.MkdirAll(logPath, 0755)

		writer, err := rotatelogs.New(
			logPath+"/"+logType+".log.%Y-%m-%d",
			rotatelogs.WithLinkName(logPath+"/"+logType+".log"),
			rotatelogs.WithRotationTime(24*time.Hour),
			rotatelogs.WithMaxAge(7*24*time.Hour),
		)
		if err == nil {
			log.SetOutput(writer)
		}
	}

	log.SetFormatter(&logrus.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		CallerPrettyfier: func(f *runtime.Frame) (string, string) {
			return f.Function, fmt.Sprintf("%s:%d", f.File, f.Line)
		},
	})
	log.SetLevel(logLevel)

	return log
}
