package events

import "github.com/smsgw/sms-terminal/internal/logging"

type ActionTracer struct{}

var Action = ActionTracer{}

func (ActionTracer) Queued(kind string) {
	logging.Trace("action.queue", map[string]interface{}{"kind": kind})
}

func (ActionTracer) Applied(kind string) {
	logging.Trace("action.apply", map[string]interface{}{"kind": kind})
}

func (ActionTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("action.error", map[string]interface{}{"error": err.Error()})
}
