package command

import (
	"context"

	"github.com/zephyrtronium/utilbot/message"
	"github.com/zephyrtronium/utilbot/mode"
)

// Help lists the commands the sender can use now.
func Help(ctx context.Context, robo *Robot, call *Invocation) (mode.State, []message.Sent) {
	cmds := robo.Commands.List(func(c *Command) bool {
		return Visible(c, call.Admin, call.Mode.Maintenance)
	})
	r := make([]message.Sent, 0, len(cmds)+3)
	r = append(r, message.Format(call.Sender, "Available commands:"))
	for _, c := range cmds {
		r = append(r, message.Format(call.Sender, "%s: %s", c.Trigger, c.Description))
	}
	if robo.Radio.Len() != 0 && (!call.Mode.Maintenance || call.Admin) {
		r = append(r,
			message.Format(call.Sender, "%s <song>: Play a song from the available list", robo.Radio.Word()),
			message.Format(call.Sender, "Use %ssongs to see available songs", robo.Prefix),
		)
	}
	return call.Mode, r
}

// Songs lists the songs available to the play command.
func Songs(ctx context.Context, robo *Robot, call *Invocation) (mode.State, []message.Sent) {
	if call.Mode.Maintenance && !call.Admin {
		return call.Mode, []message.Sent{message.Format(call.Sender, "Bot is currently in maintenance mode.")}
	}
	e := robo.Radio.Entries()
	if len(e) == 0 {
		return call.Mode, []message.Sent{message.Format(call.Sender, "No songs are available.")}
	}
	r := make([]message.Sent, 0, len(e)+1)
	r = append(r, message.Format(call.Sender, "Available songs:"))
	for _, s := range e {
		r = append(r, message.Format(call.Sender, "- %s", s.Name))
	}
	return call.Mode, r
}
