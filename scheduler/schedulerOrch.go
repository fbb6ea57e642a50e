package scheduler

import (
	"fmt"

	"assassinsBot/scheduler/scheduler_jobs"
	"assassinsBot/services/assassinService"

	"github.com/robfig/cron/v3"
	"gorm.io/gorm"
)

func SetupCron(db *gorm.DB, m *assassinService.GameManager) {
	cronService := cron.New(cron.WithSeconds())

	_, err := cronService.AddFunc("0 0 */1 * * *", func() {
		// // Every hour
		err := scheduler_jobs.CheckLobbySync(m)
		if err != nil {
			fmt.Println(err)
		}
	})

	_, err = cronService.AddFunc("0 0 4 * * *", func() {
		// // At 4am every day
		err := scheduler_jobs.PruneErrorLogs(db)
		if err != nil {
			fmt.Println(err)
		}
	})

	if err != nil {
		fmt.Println(err)
	}

	cronService.Start()
}
