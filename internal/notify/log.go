package notify

import "go.uber.org/zap"

// LogNotifier writes notifications to a zap logger.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLog(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) Create(msg Message) Handle {
	h := newHandle()
	n.logger.Info(msg.Title,
		zap.String("notification", h.ID),
		zap.String("description", msg.Description))
	return h
}

func (n *LogNotifier) Update(h Handle, msg Message) {
	fields := []zap.Field{
		zap.String("notification", h.ID),
		zap.String("description", msg.Description),
	}
	if msg.Variant == VariantDestructive {
		n.logger.Warn(msg.Title, fields...)
		return
	}
	n.logger.Info(msg.Title, fields...)
}
