package form

import (
	"go.uber.org/zap"
	"sync"
)

// LogNotifier 在命令行中用日志代替弹出提示
type LogNotifier struct {
	l *zap.Logger
}

func NewLogNotifier(l *zap.Logger) *LogNotifier {
	return &LogNotifier{l: l}
}

func (n *LogNotifier) Success(message string) {
	n.l.Info(message)
}

func (n *LogNotifier) Error(message string) {
	n.l.Warn(message)
}

// LogNavigator 记录当前所在的页面
type LogNavigator struct {
	l *zap.Logger

	mu      sync.Mutex
	current string
}

func NewLogNavigator(l *zap.Logger, start string) *LogNavigator {
	return &LogNavigator{l: l, current: start}
}

func (n *LogNavigator) Navigate(route string) {
	n.mu.Lock()
	n.current = route
	n.mu.Unlock()

	n.l.Debug("navigate", zap.String("route", route))
}

func (n *LogNavigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.current
}
