package command

import (
	"github.com/go-json-experiment/json"
	"github.com/go-json-experiment/json/jsontext"

	"github.com/zephyrtronium/utilbot/message"
)

// textComponent is a Minecraft raw JSON text component.
type textComponent struct {
	Text  string `json:"text"`
	Bold  bool   `json:"bold,omitzero"`
	Color string `json:"color"`
}

// Play creates the instructions to stop whatever is playing for a player,
// play a sound at them, and show the label in their action bar.
// The result is nil if the label could not be encoded.
func Play(player, sound, label string) []message.Sent {
	title := []any{
		"",
		textComponent{Text: "Now Playing ", Color: "blue"},
		textComponent{Text: "> ", Color: "dark_green"},
		textComponent{Text: label, Bold: true, Color: "light_purple"},
	}
	b, err := json.Marshal(title, jsontext.AllowInvalidUTF8(true))
	if err != nil {
		return nil
	}
	return []message.Sent{
		message.Run("/stopsound %s", player),
		message.Run("/execute at %s run playsound %s master %s", player, sound, player),
		message.Run("/title %s actionbar %s", player, b),
	}
}
