package events

import "github.com/smsgw/sms-terminal/internal/logging"

type UITracer struct{}

type ModalTracer struct{}

var (
	UI    = UITracer{}
	Modal = ModalTracer{}
)

func (UITracer) ViewEnter(view, phone string) {
	logging.Trace("view.enter", map[string]interface{}{
		"view":  view,
		"phone": phone,
	})
}

func (UITracer) ViewLoadError(view string, err error) {
	if err == nil {
		return
	}
	logging.Trace("view.load-error", map[string]interface{}{"view": view, "error": err.Error()})
}

func (UITracer) TableCursor(phone string, row, column int) {
	logging.Trace("table.cursor", map[string]interface{}{"phone": phone, "row": row, "column": column})
}

func (UITracer) PageLoaded(phone string, offset, count int, hasMore bool) {
	logging.Trace("table.page", map[string]interface{}{
		"phone":   phone,
		"offset":  offset,
		"count":   count,
		"hasMore": hasMore,
	})
}

func (UITracer) KeyDebounced(key string) {
	logging.Trace("key.debounced", map[string]interface{}{"key": key})
}

func (ModalTracer) Open(id, kind string) {
	logging.Trace("modal.open", map[string]interface{}{"id": id, "kind": kind})
}

func (ModalTracer) Response(id, response string) {
	logging.Trace("modal.response", map[string]interface{}{"id": id, "response": response})
}
