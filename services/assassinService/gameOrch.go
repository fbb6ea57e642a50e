package assassinService

import (
	"fmt"
	"log"
	"sync"

	"assassinsBot/models"
	"assassinsBot/services/common"
	"assassinsBot/services/guildService"
	"assassinsBot/services/messageService"

	"gorm.io/gorm"
)

// guildState is the per-guild session: whether a game is running and the set
// of players currently Alive. Its mutex serializes every mutation for that
// guild, including the storage calls made while a mutation is in flight.
type guildState struct {
	mu      sync.Mutex
	started bool
	lobby   []string
}

func (g *guildState) inLobby(discordID string) bool {
	for _, id := range g.lobby {
		if id == discordID {
			return true
		}
	}
	return false
}

func (g *guildState) removeFromLobby(discordID string) {
	for idx, id := range g.lobby {
		if id == discordID {
			g.lobby = append(g.lobby[:idx], g.lobby[idx+1:]...)
			return
		}
	}
}

// GameManager owns all in-memory session state. Nothing outside this type
// reads or writes the started flags or lobbies.
type GameManager struct {
	db       *gorm.DB
	notifier messageService.Notifier

	mu     sync.Mutex
	guilds map[string]*guildState
}

// NewGameManager rehydrates session state from storage: every guild's started
// flag and every Alive player reassembled into that guild's lobby. After a
// restart the manager must agree exactly with the database.
func NewGameManager(db *gorm.DB, notifier messageService.Notifier) (*GameManager, error) {
	m := &GameManager{
		db:       db,
		notifier: notifier,
		guilds:   make(map[string]*guildState),
	}

	guilds, err := guildService.GetAllGuilds(db)
	if err != nil {
		return nil, fmt.Errorf("rehydrating guilds: %w", err)
	}
	for _, guild := range guilds {
		m.guilds[guild.GuildID] = &guildState{started: guild.AssassinsStarted}
	}

	alive, err := GetAllPlayers(db, "status", models.StatusAlive)
	if err != nil {
		return nil, fmt.Errorf("rehydrating lobbies: %w", err)
	}
	for _, player := range alive {
		state := m.guilds[player.GuildID]
		if state == nil {
			state = &guildState{}
			m.guilds[player.GuildID] = state
		}
		state.lobby = append(state.lobby, player.DiscordID)
	}

	return m, nil
}

// state returns the guild's session, creating an empty one on first use.
func (m *GameManager) state(guildID string) *guildState {
	m.mu.Lock()
	defer m.mu.Unlock()

	g, ok := m.guilds[guildID]
	if !ok {
		g = &guildState{}
		m.guilds[guildID] = g
	}
	return g
}

// guildPlayer resolves a player's record for an operation acting in guildID.
// A record registered under a different guild counts as not registered here;
// lobby membership must never cross the guild boundary.
func (m *GameManager) guildPlayer(guildID, discordID string) (*models.Assassin, error) {
	player, err := GetPlayerByDiscordID(m.db, discordID)
	if err != nil || player.GuildID != guildID {
		return nil, ErrNotRegistered
	}
	return player, nil
}

// Register validates and creates a new Spectator profile. Validation order is
// name, then email, then photo URL; the first failure wins and nothing is
// written.
func (m *GameManager) Register(guildID, discordID, name, email, photoURL string) error {
	if !ValidName(name) {
		return ErrInvalidName
	}
	if !ValidEmail(email) {
		return ErrInvalidEmail
	}
	if !ValidImageURL(photoURL) {
		return ErrInvalidPhotoURL
	}

	_, err := RegisterPlayer(m.db, guildID, name, email, discordID, photoURL)
	return err
}

// RequestUnregister verifies the player exists before the confirmation prompt
// is shown. No state changes until ConfirmUnregister.
func (m *GameManager) RequestUnregister(discordID string) error {
	_, err := GetPlayerByDiscordID(m.db, discordID)
	if err != nil {
		return ErrNotRegistered
	}
	return nil
}

// ConfirmUnregister deletes the profile and drops the player from the lobby
// if they were in one. Re-validates existence; the prompt window is long
// enough for state to have moved underneath it.
func (m *GameManager) ConfirmUnregister(guildID, discordID string) error {
	g := m.state(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	if _, err := GetPlayerByDiscordID(m.db, discordID); err != nil {
		return ErrNotRegistered
	}

	if err := DeletePlayer(m.db, discordID); err != nil {
		return err
	}
	g.removeFromLobby(discordID)
	return nil
}

// Join moves a registered Spectator into the lobby. Only legal before the
// game starts; the membership check runs under the guild lock so two
// overlapping joins cannot both add the same player.
func (m *GameManager) Join(guildID, discordID string) (int, error) {
	g := m.state(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	player, err := m.guildPlayer(guildID, discordID)
	if err != nil {
		return 0, err
	}
	if g.started {
		return 0, ErrGameStarted
	}
	if g.inLobby(discordID) {
		return 0, ErrAlreadyInLobby
	}

	if err := SetPlayerStatus(m.db, discordID, models.StatusAlive); err != nil {
		return 0, err
	}
	g.lobby = append(g.lobby, discordID)

	m.announce(guildID, messageService.Announcement{
		Title:       "Assassins Announcement",
		Description: fmt.Sprintf("%s has joined the game. %s in the lobby.", player.Name, playerCount(len(g.lobby))),
		Color:       common.ColorPrimary,
	})
	return len(g.lobby), nil
}

// LeaveResult reports what Leave did. When ConfirmationRequired is set the
// game is running and nothing was committed; the caller must prompt and then
// call ConfirmLeave.
type LeaveResult struct {
	ConfirmationRequired bool
	Remaining            int
}

// Leave removes the player from a not-yet-started game, returning them to
// Spectator. While a game runs it commits nothing and asks for confirmation
// instead, since leaving then means dying.
func (m *GameManager) Leave(guildID, discordID string) (*LeaveResult, error) {
	g := m.state(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	player, err := m.guildPlayer(guildID, discordID)
	if err != nil {
		return nil, err
	}
	if !g.inLobby(discordID) {
		return nil, ErrNotInLobby
	}

	if g.started {
		return &LeaveResult{ConfirmationRequired: true}, nil
	}

	if err := SetPlayerStatus(m.db, discordID, models.StatusSpectator); err != nil {
		return nil, err
	}
	g.removeFromLobby(discordID)

	m.announce(guildID, messageService.Announcement{
		Title:       "Assassins Announcement",
		Description: fmt.Sprintf("%s has left the game. %s in the lobby.", player.Name, playerCount(len(g.lobby))),
		Color:       common.ColorPrimary,
	})
	return &LeaveResult{Remaining: len(g.lobby)}, nil
}

// ConfirmLeave marks the player dead after they confirmed a mid-game leave.
// All checks rerun under the guild lock: the game may have ended or the
// player been removed while the prompt was open.
func (m *GameManager) ConfirmLeave(guildID, discordID string) (*LeaveResult, error) {
	g := m.state(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	player, err := m.guildPlayer(guildID, discordID)
	if err != nil {
		return nil, err
	}
	if !g.started {
		return nil, ErrGameNotStarted
	}
	if !g.inLobby(discordID) {
		return nil, ErrNotInLobby
	}

	if err := SetPlayerStatus(m.db, discordID, models.StatusDead); err != nil {
		return nil, err
	}
	if err := m.db.Model(&models.Assassin{}).Where("discord_id = ?", discordID).
		Update("deaths", gorm.Expr("deaths + 1")).Error; err != nil {
		log.Printf("Error incrementing deaths for %s: %v", discordID, err)
	}
	g.removeFromLobby(discordID)

	m.announce(guildID, messageService.Announcement{
		Title:       "Assassins Announcement",
		Description: fmt.Sprintf("%s has forfeited the game and is now dead. %s remain.", player.Name, playerCount(len(g.lobby))),
		Color:       common.ColorRed,
	})
	return &LeaveResult{Remaining: len(g.lobby)}, nil
}

// Start begins the guild's game. Refused when no announcement channel has
// been configured, so the start broadcast always has somewhere to land.
func (m *GameManager) Start(guildID string) error {
	channelID, err := guildService.GetChannel(m.db, guildID, guildService.ChannelTypeAssassins)
	if err != nil {
		return err
	}
	if channelID == nil || *channelID == "" {
		return ErrNoChannelConfigured
	}

	g := m.state(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.started {
		return ErrGameStarted
	}

	if err := guildService.SetGameStarted(m.db, guildID, true); err != nil {
		return err
	}
	g.started = true

	m.announce(guildID, messageService.Announcement{
		Title:           "Assassins Game Started!",
		Description:     fmt.Sprintf("The game has officially started with %s. Best of luck to everyone!", playerCount(len(g.lobby))),
		Color:           common.ColorGreen,
		MentionEveryone: true,
	})
	return nil
}

// End stops the guild's game. Every player in the guild returns to Spectator
// regardless of whether they survived, participants get a game credited, and
// the lobby empties.
func (m *GameManager) End(guildID string) error {
	g := m.state(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	if !g.started {
		return ErrGameNotStarted
	}

	if err := guildService.SetGameStarted(m.db, guildID, false); err != nil {
		return err
	}
	g.started = false

	if err := m.db.Model(&models.Assassin{}).
		Where("guild_id = ? AND status IN ?", guildID, []string{models.StatusAlive, models.StatusDead}).
		Update("games_played", gorm.Expr("games_played + 1")).Error; err != nil {
		log.Printf("Error crediting games played in guild %s: %v", guildID, err)
	}
	if err := m.db.Model(&models.Assassin{}).Where("guild_id = ?", guildID).
		Update("status", models.StatusSpectator).Error; err != nil {
		return err
	}
	g.lobby = nil

	m.announce(guildID, messageService.Announcement{
		Title:           "Assassins Game Ended!",
		Description:     "The game has officially ended. Thank you for playing!",
		Color:           common.ColorGreen,
		MentionEveryone: true,
	})
	return nil
}

// Status reports the guild's started flag and how many players are Alive.
func (m *GameManager) Status(guildID string) (bool, int) {
	g := m.state(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.started, len(g.lobby)
}

// AuditLobby reconciles the in-memory lobby against the Alive rows in
// storage, adopting the stored set when they disagree. Returns how many
// entries drifted.
func (m *GameManager) AuditLobby(guildID string) (int, error) {
	g := m.state(guildID)
	g.mu.Lock()
	defer g.mu.Unlock()

	players, err := GetAllPlayers(m.db, "guild_id", guildID)
	if err != nil {
		return 0, err
	}

	stored := make(map[string]bool)
	var rebuilt []string
	for _, player := range players {
		if player.Status == models.StatusAlive {
			stored[player.DiscordID] = true
			rebuilt = append(rebuilt, player.DiscordID)
		}
	}

	inMemory := make(map[string]bool, len(g.lobby))
	drift := 0
	for _, id := range g.lobby {
		inMemory[id] = true
		if !stored[id] {
			drift++
		}
	}
	for id := range stored {
		if !inMemory[id] {
			drift++
		}
	}

	if drift != 0 {
		log.Printf("Lobby drift in guild %s: %d entries, adopting stored state", guildID, drift)
		g.lobby = rebuilt
	}
	return drift, nil
}

// AuditAll audits every guild the manager knows about.
func (m *GameManager) AuditAll() (int, error) {
	m.mu.Lock()
	ids := make([]string, 0, len(m.guilds))
	for guildID := range m.guilds {
		ids = append(ids, guildID)
	}
	m.mu.Unlock()

	total := 0
	for _, guildID := range ids {
		drift, err := m.AuditLobby(guildID)
		if err != nil {
			return total, err
		}
		total += drift
	}
	return total, nil
}

func (m *GameManager) announce(guildID string, a messageService.Announcement) {
	if m.notifier == nil {
		return
	}
	if err := m.notifier.Send(guildID, guildService.ChannelTypeAssassins, a); err != nil {
		log.Printf("Error sending announcement to guild %s: %v", guildID, err)
	}
}

func playerCount(n int) string {
	if n == 1 {
		return "1 player"
	}
	return fmt.Sprintf("%d players", n)
}
