package scheduler_jobs

import (
	"log"

	"assassinsBot/services/assassinService"
)

// CheckLobbySync reconciles every guild's in-memory lobby against the
// database. The lobbies should never drift; when they do this job adopts the
// stored state and logs how far off memory was.
func CheckLobbySync(m *assassinService.GameManager) error {
	drift, err := m.AuditAll()
	if err != nil {
		return err
	}
	if drift > 0 {
		log.Printf("Lobby sync audit corrected %d drifted entries", drift)
	}
	return nil
}
