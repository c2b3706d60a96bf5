package jobs

import (
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"

	"SelloutCentral/api/sellout"
	"SelloutCentral/internal/config"
	"SelloutCentral/internal/logger"
	"SelloutCentral/internal/serviceiface"
)

// CronService runs the wizard expiry sweep: abandoned import sessions are
// cancelled on a schedule so their temp upload files do not pile up.
type CronService struct {
	config map[string]interface{}
	cron   *cron.Cron
}

func NewCronService(cfg map[string]interface{}) serviceiface.Service {
	return &CronService{config: cfg}
}

func (s *CronService) Name() string {
	return "cron"
}

func (s *CronService) Start() error {
	schedule := config.DefaultExpireSchedule
	tz := config.DefaultTimeZone
	if s.config != nil {
		if v, ok := s.config["expire_schedule"].(string); ok && v != "" {
			schedule = v
		}
		if v, ok := s.config["timezone"].(string); ok && v != "" {
			tz = v
		}
	}

	loc, err := time.LoadLocation(tz)
	if err != nil {
		loc = time.UTC
	}
	s.cron = cron.New(cron.WithLocation(loc))

	_, err = s.cron.AddFunc(schedule, func() {
		if n := sellout.ExpireStaleSessions(); n > 0 {
			msg := fmt.Sprintf("Expired %d abandoned import session(s)", n)
			if logger.GlobalLogger != nil {
				logger.GlobalLogger.LogAudit(msg)
			} else {
				log.Println("[AUDIT]", msg)
			}
		}
	})
	if err != nil {
		return fmt.Errorf("unable to schedule wizard expiry sweep: %v", err)
	}

	s.cron.Start()
	log.Println("Cron service started, wizard expiry sweep scheduled", schedule)
	return nil
}

func (s *CronService) Stop() error {
	if s.cron != nil {
		s.cron.Stop()
	}
	return nil
}
