package ui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/smsgw/sms-terminal/internal/gateway"
	"github.com/smsgw/sms-terminal/internal/ui/state"
)

const gaugeWidth = 20

// deviceInfoView shows modem battery and signal state. The backend listener
// refreshes it while it is on screen; r forces a fetch.
type deviceInfoView struct {
	info    gateway.DeviceInfo
	loaded  bool
	loading bool
}

func newDeviceInfoView() *deviceInfoView {
	return &deviceInfoView{loading: true}
}

func (v *deviceInfoView) load(m *Model) (tea.Cmd, error) {
	return m.fetchDeviceInfo(), nil
}

func (v *deviceInfoView) handleKey(m *Model, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.enqueue(SetViewState{State: MainMenuState{}})
		return nil
	case "r":
		if !v.loading {
			v.loading = true
			return m.fetchDeviceInfo()
		}
	}
	return nil
}

func (v *deviceInfoView) setInfo(info gateway.DeviceInfo) {
	v.info = info
	v.loaded = true
	v.loading = false
}

func (v *deviceInfoView) render(m *Model) string {
	var b strings.Builder
	b.WriteString(m.styles.Title.Render("Device Info"))
	b.WriteString("\n\n")

	if !v.loaded {
		b.WriteString(m.styles.Loading.Render("querying modem…"))
		b.WriteString("\n")
	} else {
		battery := v.info.Battery
		b.WriteString(m.styles.Header.Render("Battery"))
		b.WriteString("\n")
		b.WriteString(renderGauge(m, battery.Charge))
		b.WriteString(fmt.Sprintf("  %d%%  %.2fV  %s\n", battery.Charge, battery.Voltage, batteryStatus(battery.Status)))
		b.WriteString("\n")

		signal := v.info.Signal
		b.WriteString(m.styles.Header.Render("Signal"))
		b.WriteString("\n")
		b.WriteString(renderGauge(m, signal.Percentage()))
		if signal.RSSI == 99 {
			b.WriteString("  unknown\n")
		} else {
			b.WriteString(fmt.Sprintf("  %d%%  (RSSI %d)\n", signal.Percentage(), signal.RSSI))
		}
	}

	if v.loading && v.loaded {
		b.WriteString("\n")
		b.WriteString(m.styles.Loading.Render("refreshing…"))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.styles.Footer.Render("r reload · esc menu"))
	return b.String()
}

func renderGauge(m *Model, percent int) string {
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	filled := percent * gaugeWidth / 100
	return m.styles.GaugeFilled.Render(strings.Repeat("█", filled)) +
		m.styles.GaugeEmpty.Render(strings.Repeat("░", gaugeWidth-filled))
}

func batteryStatus(status int) string {
	switch status {
	case 1:
		return "charging"
	case 2:
		return "no battery"
	default:
		return "discharging"
	}
}

func (m *Model) handleDeviceInfoMsg(msg tea.Msg) tea.Cmd {
	result, ok := msg.(deviceInfoMsg)
	if !ok {
		return nil
	}
	view, showing := m.current.(*deviceInfoView)
	if !showing {
		return nil
	}
	if result.err != nil {
		if !view.loaded {
			m.enqueue(ShowError{Message: "query device: " + result.err.Error(), Dismissible: false})
			return nil
		}
		view.loading = false
		m.enqueue(ShowNotification{Kind: state.Generic{
			Level:   state.LevelWarning,
			Title:   "Device refresh failed",
			Message: result.err.Error(),
		}})
		return nil
	}
	view.setInfo(result.info)
	return nil
}
