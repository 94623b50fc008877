package events

import "github.com/smsgw/sms-terminal/internal/logging"

type BackendTracer struct{}

var Backend = BackendTracer{}

func (BackendTracer) Event(kind string) {
	logging.Trace("backend.event", map[string]interface{}{"kind": kind})
}

func (BackendTracer) Error(err error) {
	if err == nil {
		return
	}
	logging.Trace("backend.error", map[string]interface{}{"error": err.Error()})
}

func (BackendTracer) SendResult(phone string, err error) {
	payload := map[string]interface{}{"phone": phone, "ok": err == nil}
	if err != nil {
		payload["error"] = err.Error()
	}
	logging.Trace("backend.send", payload)
}
