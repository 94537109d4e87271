package track

import "go.uber.org/zap"

// LogObserver logs block lifecycle events through a zap logger.
type LogObserver struct {
	logger *zap.Logger
}

// NewLogObserver creates an observer that logs every event at debug level.
func NewLogObserver(logger *zap.Logger) *LogObserver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogObserver{logger: logger}
}

// OnBlockEvent implements Observer.
func (o *LogObserver) OnBlockEvent(ev Event) {
	var msg string
	switch ev.Type {
	case EventAllocated:
		msg = "block allocated"
	case EventFreed:
		msg = "block freed"
	default:
		msg = "block event"
	}
	o.logger.Debug(msg,
		zap.Uint32("handle", uint32(ev.Handle)),
		zap.Uintptr("base", uintptr(ev.Block.Base)),
		zap.Uintptr("size", ev.Block.Size),
		zap.Uintptr("align", ev.Block.Align))
}
