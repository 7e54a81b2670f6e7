package telegram

import (
	"strings"
)

// Callback action constants.
const (
	actionQuestion = "question"
	actionProgress = "progress"
	actionReminder = "reminder"
	actionReset    = "reset"
)

// Reminder sub-actions.
const (
	reminderToggle = "toggle"
)

// Origin markers let a handler redraw the screen a button came from.
const (
	originProgress  = "progress"
	progressRefresh = "refresh"
)

const (
	resetConfirm = "confirm"
	resetCancel  = "cancel"
)

// callbackData represents structured callback data.
type callbackData struct {
	Action string
	Params []string
	Raw    string
}

// encode creates callback string.
func (cd callbackData) encode() string {
	if len(cd.Params) == 0 {
		return cd.Action
	}
	return cd.Action + ":" + strings.Join(cd.Params, ":")
}

// param returns the i-th parameter or an empty string.
func (cd callbackData) param(i int) string {
	if i < 0 || i >= len(cd.Params) {
		return ""
	}
	return cd.Params[i]
}

// decodeCallback parses callback data string.
func decodeCallback(data string) callbackData {
	parts := strings.Split(data, ":")

	return callbackData{
		Action: parts[0],
		Params: parts[1:],
		Raw:    data,
	}
}

// buildQuestionCallback builds callback data for showing the next sign.
func buildQuestionCallback() string {
	return actionQuestion
}

// buildProgressCallback builds callback data for opening the progress view.
func buildProgressCallback() string {
	return actionProgress
}

// buildProgressRefreshCallback redraws the progress screen in place.
func buildProgressRefreshCallback() string {
	return callbackData{Action: actionProgress, Params: []string{progressRefresh}}.encode()
}

// buildReminderToggleCallback builds callback data for toggling reminders.
// A non-empty origin names the screen to redraw afterwards.
func buildReminderToggleCallback(origin string) string {
	params := []string{reminderToggle}
	if origin != "" {
		params = append(params, origin)
	}
	return callbackData{Action: actionReminder, Params: params}.encode()
}

func buildResetConfirmCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetConfirm}}.encode()
}

func buildResetCancelCallback() string {
	return callbackData{Action: actionReset, Params: []string{resetCancel}}.encode()
}
