// workers/session_sweeper.go
package workers

import (
	"log"
	"time"

	"prop-broker-dashboard/models"
	"prop-broker-dashboard/services"

	"github.com/go-co-op/gocron/v2"
	"gorm.io/gorm"
)

// StartSessionSweeper runs a periodic job that deletes sessions past the
// validity horizon and drops any pending-edit buffers whose session no
// longer exists.
func StartSessionSweeper(db *gorm.DB, buffers *services.BufferRegistry) {
	sched, _ := gocron.NewScheduler()
	sched.Start()

	// Every hour: sweep expired sessions
	_, _ = sched.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(func() {
			cutoff := time.Now().Add(-services.SessionTTL)

			res := db.Where("login_at < ?", cutoff).Delete(&models.Session{})
			if res.Error != nil {
				log.Printf("[Sweeper] DB error: %v", res.Error)
				return
			}
			if res.RowsAffected > 0 {
				log.Printf("🧹 Swept %d expired sessions", res.RowsAffected)
			}

			var tokens []string
			if err := db.Model(&models.Session{}).Pluck("token", &tokens).Error; err != nil {
				log.Printf("[Sweeper] failed to list live sessions: %v", err)
				return
			}
			keep := make(map[string]bool, len(tokens))
			for _, t := range tokens {
				keep[t] = true
			}
			if dropped := buffers.Retain(keep); dropped > 0 {
				log.Printf("🧹 Dropped %d orphaned edit buffers", dropped)
			}
		}),
	)
}
