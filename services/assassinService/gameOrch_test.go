package assassinService

import (
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"assassinsBot/models"
	"assassinsBot/services/guildService"
	"assassinsBot/services/messageService"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func assertEqual(t *testing.T, expected, actual interface{}, msg string) {
	t.Helper()
	if expected != actual {
		t.Errorf("%s: expected %v, got %v", msg, expected, actual)
	}
}

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("Failed to open test DB: %v", err)
	}

	err = db.AutoMigrate(&models.Guild{}, &models.Assassin{}, &models.ErrorLog{}, &models.Migration{})
	if err != nil {
		t.Fatalf("Failed to migrate test DB: %v", err)
	}

	return db
}

type recordingNotifier struct {
	mu   sync.Mutex
	sent []messageService.Announcement
}

func (r *recordingNotifier) Send(guildID string, channelType guildService.ChannelType, a messageService.Announcement) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, a)
	return nil
}

func (r *recordingNotifier) last(t *testing.T) messageService.Announcement {
	t.Helper()
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.sent) == 0 {
		t.Fatal("Expected at least one announcement")
	}
	return r.sent[len(r.sent)-1]
}

func seedGuild(t *testing.T, db *gorm.DB, guildID string, channelID string) {
	t.Helper()
	guild := &models.Guild{GuildID: guildID, GuildName: "Test Guild", Prefix: "!"}
	if channelID != "" {
		guild.AssassinsChannelID = &channelID
	}
	if err := db.Create(guild).Error; err != nil {
		t.Fatalf("Failed to seed guild: %v", err)
	}
}

func seedPlayer(t *testing.T, db *gorm.DB, guildID, discordID, name, status string) {
	t.Helper()
	player := &models.Assassin{
		GuildID:   guildID,
		Name:      name,
		Email:     fmt.Sprintf("%s@tamu.edu", discordID),
		DiscordID: discordID,
		Status:    status,
	}
	if err := db.Create(player).Error; err != nil {
		t.Fatalf("Failed to seed player %s: %v", discordID, err)
	}
}

func newTestManager(t *testing.T, db *gorm.DB) (*GameManager, *recordingNotifier) {
	t.Helper()
	notifier := &recordingNotifier{}
	m, err := NewGameManager(db, notifier)
	if err != nil {
		t.Fatalf("Failed to create game manager: %v", err)
	}
	return m, notifier
}

func playerStatus(t *testing.T, db *gorm.DB, discordID string) string {
	t.Helper()
	player, err := GetPlayerByDiscordID(db, discordID)
	if err != nil {
		t.Fatalf("Failed to fetch player %s: %v", discordID, err)
	}
	return player.Status
}

func TestJoinThenLeave(t *testing.T) {
	db := newTestDB(t)
	seedGuild(t, db, "g1", "c1")
	seedPlayer(t, db, "g1", "u1", "Jane Doe", models.StatusSpectator)
	m, notifier := newTestManager(t, db)

	count, err := m.Join("g1", "u1")
	if err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	assertEqual(t, 1, count, "lobby size after join")
	assertEqual(t, models.StatusAlive, playerStatus(t, db, "u1"), "status after join")
	if !strings.Contains(notifier.last(t).Description, "1 player") {
		t.Errorf("Join announcement missing count: %q", notifier.last(t).Description)
	}

	result, err := m.Leave("g1", "u1")
	if err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	assertEqual(t, false, result.ConfirmationRequired, "pre-start leave needs no confirmation")
	assertEqual(t, 0, result.Remaining, "lobby size after leave")
	assertEqual(t, models.StatusSpectator, playerStatus(t, db, "u1"), "status after leave")

	_, alive := m.Status("g1")
	assertEqual(t, 0, alive, "lobby empty after join+leave")
}

func TestJoinRejections(t *testing.T) {
	db := newTestDB(t)
	seedGuild(t, db, "g1", "c1")
	seedPlayer(t, db, "g1", "u1", "Jane Doe", models.StatusSpectator)
	m, _ := newTestManager(t, db)

	t.Run("unregistered user", func(t *testing.T) {
		_, err := m.Join("g1", "ghost")
		assertEqual(t, ErrNotRegistered, err, "join by unregistered user")
	})

	t.Run("double join", func(t *testing.T) {
		if _, err := m.Join("g1", "u1"); err != nil {
			t.Fatalf("First join failed: %v", err)
		}
		_, err := m.Join("g1", "u1")
		assertEqual(t, ErrAlreadyInLobby, err, "second join")
	})

	t.Run("join after start", func(t *testing.T) {
		seedPlayer(t, db, "g1", "u2", "John Roe", models.StatusSpectator)
		if err := m.Start("g1"); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		_, err := m.Join("g1", "u2")
		assertEqual(t, ErrGameStarted, err, "join while running")
	})
}

func TestConcurrentJoinAddsOnce(t *testing.T) {
	db := newTestDB(t)
	seedGuild(t, db, "g1", "c1")
	seedPlayer(t, db, "g1", "u1", "Jane Doe", models.StatusSpectator)
	m, _ := newTestManager(t, db)

	var wg sync.WaitGroup
	results := make([]error, 2)
	for idx := 0; idx < 2; idx++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()
			_, results[idx] = m.Join("g1", "u1")
		}(idx)
	}
	wg.Wait()

	succeeded := 0
	for _, err := range results {
		if err == nil {
			succeeded++
		} else {
			assertEqual(t, ErrAlreadyInLobby, err, "losing join error")
		}
	}
	assertEqual(t, 1, succeeded, "exactly one join wins")

	_, alive := m.Status("g1")
	assertEqual(t, 1, alive, "lobby holds a single entry")
}

func TestStartRequiresChannel(t *testing.T) {
	db := newTestDB(t)
	seedGuild(t, db, "g1", "")
	m, _ := newTestManager(t, db)

	err := m.Start("g1")
	assertEqual(t, ErrNoChannelConfigured, err, "start without channel")

	started, _ := m.Status("g1")
	assertEqual(t, false, started, "started flag unchanged")

	var guild models.Guild
	db.Where("guild_id = ?", "g1").First(&guild)
	assertEqual(t, false, guild.AssassinsStarted, "stored flag unchanged")
}

func TestStartAndEndLifecycle(t *testing.T) {
	db := newTestDB(t)
	seedGuild(t, db, "g1", "c1")
	seedGuild(t, db, "g2", "c2")
	seedPlayer(t, db, "g1", "u1", "Jane Doe", models.StatusSpectator)
	seedPlayer(t, db, "g1", "u2", "John Roe", models.StatusSpectator)
	seedPlayer(t, db, "g2", "u3", "Ada Poe", models.StatusAlive)
	m, notifier := newTestManager(t, db)

	if _, err := m.Join("g1", "u1"); err != nil {
		t.Fatalf("Join u1 failed: %v", err)
	}
	if _, err := m.Join("g1", "u2"); err != nil {
		t.Fatalf("Join u2 failed: %v", err)
	}

	if err := m.Start("g1"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	assertEqual(t, true, notifier.last(t).MentionEveryone, "start broadcast mentions everyone")
	assertEqual(t, ErrGameStarted, m.Start("g1"), "double start")

	var guild models.Guild
	db.Where("guild_id = ?", "g1").First(&guild)
	assertEqual(t, true, guild.AssassinsStarted, "started flag persisted")

	// u1 dies mid-game, u2 survives to the end.
	if _, err := m.ConfirmLeave("g1", "u1"); err != nil {
		t.Fatalf("ConfirmLeave failed: %v", err)
	}
	assertEqual(t, models.StatusDead, playerStatus(t, db, "u1"), "u1 dead")

	if err := m.End("g1"); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	assertEqual(t, ErrGameNotStarted, m.End("g1"), "double end")

	assertEqual(t, models.StatusSpectator, playerStatus(t, db, "u1"), "dead player reset to spectator")
	assertEqual(t, models.StatusSpectator, playerStatus(t, db, "u2"), "alive player reset to spectator")
	assertEqual(t, models.StatusAlive, playerStatus(t, db, "u3"), "other guild untouched by end")

	started, alive := m.Status("g1")
	assertEqual(t, false, started, "started flag cleared")
	assertEqual(t, 0, alive, "lobby cleared")

	player, err := GetPlayerByDiscordID(db, "u2")
	if err != nil {
		t.Fatalf("Fetch u2 failed: %v", err)
	}
	assertEqual(t, 1, player.GamesPlayed, "participant credited a game")
}

func TestConfirmLeaveRevalidates(t *testing.T) {
	db := newTestDB(t)
	seedGuild(t, db, "g1", "c1")
	seedPlayer(t, db, "g1", "u1", "Jane Doe", models.StatusSpectator)
	m, _ := newTestManager(t, db)

	if _, err := m.Join("g1", "u1"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if err := m.Start("g1"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	result, err := m.Leave("g1", "u1")
	if err != nil {
		t.Fatalf("Leave failed: %v", err)
	}
	assertEqual(t, true, result.ConfirmationRequired, "mid-game leave requires confirmation")
	assertEqual(t, models.StatusAlive, playerStatus(t, db, "u1"), "no mutation before confirmation")

	// The game ends while the prompt is open; the stale confirm must not
	// mark the player dead.
	if err := m.End("g1"); err != nil {
		t.Fatalf("End failed: %v", err)
	}
	_, err = m.ConfirmLeave("g1", "u1")
	assertEqual(t, ErrGameNotStarted, err, "stale confirm rejected")
	assertEqual(t, models.StatusSpectator, playerStatus(t, db, "u1"), "player stays spectator")
}

func TestConfirmLeaveAnnouncesRemaining(t *testing.T) {
	db := newTestDB(t)
	seedGuild(t, db, "g1", "c1")
	seedPlayer(t, db, "g1", "u1", "Jane Doe", models.StatusSpectator)
	m, notifier := newTestManager(t, db)

	if _, err := m.Join("g1", "u1"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}
	if err := m.Start("g1"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}

	result, err := m.ConfirmLeave("g1", "u1")
	if err != nil {
		t.Fatalf("ConfirmLeave failed: %v", err)
	}
	assertEqual(t, 0, result.Remaining, "no players remain")

	last := notifier.last(t)
	if !strings.Contains(last.Description, "0 players remain") {
		t.Errorf("Death announcement missing remaining count: %q", last.Description)
	}

	player, err := GetPlayerByDiscordID(db, "u1")
	if err != nil {
		t.Fatalf("Fetch u1 failed: %v", err)
	}
	assertEqual(t, 1, player.Deaths, "death counted")
}

func TestRehydration(t *testing.T) {
	db := newTestDB(t)
	seedGuild(t, db, "g1", "c1")
	seedPlayer(t, db, "g1", "u1", "Jane Doe", models.StatusSpectator)
	seedPlayer(t, db, "g1", "u2", "John Roe", models.StatusSpectator)
	m, _ := newTestManager(t, db)

	if _, err := m.Join("g1", "u1"); err != nil {
		t.Fatalf("Join u1 failed: %v", err)
	}
	if _, err := m.Join("g1", "u2"); err != nil {
		t.Fatalf("Join u2 failed: %v", err)
	}
	if err := m.Start("g1"); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	if _, err := m.ConfirmLeave("g1", "u2"); err != nil {
		t.Fatalf("ConfirmLeave failed: %v", err)
	}

	// Simulate a restart: a fresh manager over the same database must
	// reconstruct exactly the same session state.
	restarted, _ := newTestManager(t, db)

	started, alive := restarted.Status("g1")
	assertEqual(t, true, started, "started flag rehydrated")
	assertEqual(t, 1, alive, "lobby rehydrated with alive players only")

	_, err := restarted.Join("g1", "u1")
	assertEqual(t, ErrGameStarted, err, "rehydrated manager enforces started state")
}

func TestUnregisterFlow(t *testing.T) {
	db := newTestDB(t)
	seedGuild(t, db, "g1", "c1")
	seedPlayer(t, db, "g1", "u1", "Jane Doe", models.StatusSpectator)
	m, _ := newTestManager(t, db)

	t.Run("unknown player", func(t *testing.T) {
		err := m.RequestUnregister("ghost")
		assertEqual(t, ErrNotRegistered, err, "unregister without profile")
	})

	t.Run("removes profile and lobby entry", func(t *testing.T) {
		if _, err := m.Join("g1", "u1"); err != nil {
			t.Fatalf("Join failed: %v", err)
		}
		if err := m.RequestUnregister("u1"); err != nil {
			t.Fatalf("RequestUnregister failed: %v", err)
		}
		if err := m.ConfirmUnregister("g1", "u1"); err != nil {
			t.Fatalf("ConfirmUnregister failed: %v", err)
		}

		_, err := GetPlayerByDiscordID(db, "u1")
		if !errors.Is(err, ErrPlayerNotFound) {
			t.Errorf("Expected player gone, got %v", err)
		}
		_, alive := m.Status("g1")
		assertEqual(t, 0, alive, "lobby entry removed")
	})

	t.Run("same identity can register again", func(t *testing.T) {
		_, err := RegisterPlayer(db, "g1", "Jane Doe", "u1@tamu.edu", "u1", "")
		if err != nil {
			t.Fatalf("Re-register after unregister failed: %v", err)
		}

		var count int64
		db.Unscoped().Model(&models.Assassin{}).Where("discord_id = ?", "u1").Count(&count)
		assertEqual(t, int64(1), count, "no tombstone row left behind")
	})
}

func TestJoinScopedToGuild(t *testing.T) {
	db := newTestDB(t)
	seedGuild(t, db, "g1", "c1")
	seedGuild(t, db, "g2", "c2")
	seedPlayer(t, db, "g1", "u1", "Jane Doe", models.StatusSpectator)
	m, _ := newTestManager(t, db)

	t.Run("join in foreign guild rejected", func(t *testing.T) {
		_, err := m.Join("g2", "u1")
		assertEqual(t, ErrNotRegistered, err, "join outside home guild")

		_, alive := m.Status("g2")
		assertEqual(t, 0, alive, "foreign lobby untouched")
		assertEqual(t, models.StatusSpectator, playerStatus(t, db, "u1"), "status untouched")
	})

	t.Run("leave and confirm-leave also scoped", func(t *testing.T) {
		if _, err := m.Join("g1", "u1"); err != nil {
			t.Fatalf("Home-guild join failed: %v", err)
		}
		_, err := m.Leave("g2", "u1")
		assertEqual(t, ErrNotRegistered, err, "leave outside home guild")
		_, err = m.ConfirmLeave("g2", "u1")
		assertEqual(t, ErrNotRegistered, err, "confirm-leave outside home guild")
	})

	t.Run("restart keeps the entry in the home guild", func(t *testing.T) {
		restarted, _ := newTestManager(t, db)
		_, g1Alive := restarted.Status("g1")
		_, g2Alive := restarted.Status("g2")
		assertEqual(t, 1, g1Alive, "home lobby rehydrated")
		assertEqual(t, 0, g2Alive, "foreign lobby stays empty")
	})
}

func TestAuditLobby(t *testing.T) {
	db := newTestDB(t)
	seedGuild(t, db, "g1", "c1")
	seedPlayer(t, db, "g1", "u1", "Jane Doe", models.StatusSpectator)
	m, _ := newTestManager(t, db)

	if _, err := m.Join("g1", "u1"); err != nil {
		t.Fatalf("Join failed: %v", err)
	}

	drift, err := m.AuditLobby("g1")
	if err != nil {
		t.Fatalf("AuditLobby failed: %v", err)
	}
	assertEqual(t, 0, drift, "no drift after normal operation")

	// Flip the stored status behind the manager's back.
	if err := SetPlayerStatus(db, "u1", models.StatusSpectator); err != nil {
		t.Fatalf("SetPlayerStatus failed: %v", err)
	}

	drift, err = m.AuditLobby("g1")
	if err != nil {
		t.Fatalf("AuditLobby failed: %v", err)
	}
	assertEqual(t, 1, drift, "drifted entry detected")

	_, alive := m.Status("g1")
	assertEqual(t, 0, alive, "lobby adopted stored state")
}
