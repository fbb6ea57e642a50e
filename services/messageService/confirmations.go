package messageService

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
)

// ConfirmTimeout bounds how long a confirmation prompt stays actionable.
// After it fires the action is treated as declined.
const ConfirmTimeout = 60 * time.Second

type pendingPrompt struct {
	timer       *time.Timer
	interaction *discordgo.Interaction
}

var (
	promptMu sync.Mutex
	prompts  = make(map[string]*pendingPrompt)
)

func promptKey(action, guildID, userID string) string {
	return fmt.Sprintf("%s:%s:%s", action, guildID, userID)
}

// TrackConfirmation arms the timeout for a prompt that was just shown. A
// newer prompt for the same action replaces the older one.
func TrackConfirmation(s *discordgo.Session, i *discordgo.InteractionCreate, action, userID string) {
	key := promptKey(action, i.GuildID, userID)

	promptMu.Lock()
	defer promptMu.Unlock()

	if old, ok := prompts[key]; ok {
		old.timer.Stop()
	}

	p := &pendingPrompt{interaction: i.Interaction}
	p.timer = time.AfterFunc(ConfirmTimeout, func() {
		expireConfirmation(s, key, action, userID)
	})
	prompts[key] = p
}

// ClaimConfirmation consumes a pending prompt. It returns false when the
// prompt already timed out, in which case the click must be ignored.
func ClaimConfirmation(guildID, action, userID string) bool {
	key := promptKey(action, guildID, userID)

	promptMu.Lock()
	defer promptMu.Unlock()

	p, ok := prompts[key]
	if !ok {
		return false
	}
	p.timer.Stop()
	delete(prompts, key)
	return true
}

// expireConfirmation removes the prompt and disables its buttons so a stale
// click cannot trigger the action.
func expireConfirmation(s *discordgo.Session, key, action, userID string) {
	promptMu.Lock()
	p, ok := prompts[key]
	if ok {
		delete(prompts, key)
	}
	promptMu.Unlock()

	if !ok {
		return
	}

	disabled := GetConfirmationButtons(action, userID, true)
	_, err := s.InteractionResponseEdit(p.interaction, &discordgo.WebhookEdit{
		Components: &disabled,
	})
	if err != nil {
		log.Printf("Error disabling expired confirmation: %v", err)
	}
}
