package messageService

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// GetConfirmationButtons builds the Confirm/Cancel row used to gate
// irreversible actions. The action and user ID are encoded in the customID so
// the component handler can route and authorize the click.
func GetConfirmationButtons(action string, userID string, disabled bool) []discordgo.MessageComponent {
	return []discordgo.MessageComponent{
		discordgo.ActionsRow{
			Components: []discordgo.MessageComponent{
				discordgo.Button{
					Label:    "Confirm",
					Style:    discordgo.SuccessButton,
					CustomID: fmt.Sprintf("assassins_%s_confirm_%s", action, userID),
					Disabled: disabled,
				},
				discordgo.Button{
					Label:    "Cancel",
					Style:    discordgo.DangerButton,
					CustomID: fmt.Sprintf("assassins_%s_cancel_%s", action, userID),
					Disabled: disabled,
				},
			},
		},
	}
}
