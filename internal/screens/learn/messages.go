package learn

import (
	"github.com/abhisek/nepaligpa/internal/audio"
	"github.com/abhisek/nepaligpa/internal/session"
	"github.com/abhisek/nepaligpa/internal/tutor"
)

// startedMsg is sent when the session has loaded its items.
type startedMsg struct {
	Session *session.Session
	Err     error
}

// progressMsg carries one playback event, or the close of the channel,
// for the narration identified by Ticket.
type progressMsg struct {
	Ticket   tutor.Ticket
	Progress audio.Progress
	Closed   bool
}
