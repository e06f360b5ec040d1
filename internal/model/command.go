package model

// Command types the console may queue for a screen. Anything else is
// acknowledged as a logged no-op so it is never redelivered forever.
const (
	CommandRefresh     = "refresh"
	CommandRestart     = "restart"
	CommandShowMessage = "show-message"
	CommandClearCache  = "clear-cache"
)

// Command result statuses reported back to the console, exactly once per id.
const (
	CommandExecuted = "executed"
	CommandFailed   = "failed"
)

// Command is a remote operator instruction delivered once via poll.
type Command struct {
	ID         int    `json:"id"`
	Type       string `json:"type"`
	Payload    string `json:"payload"`
	ScreenSlug string `json:"screen_slug"`
}

// CommandResult is the acknowledgement pushed back to the console.
type CommandResult struct {
	CommandID    int    `json:"command_id"`
	Status       string `json:"status"`
	ErrorMessage string `json:"error_message,omitempty"`
}
