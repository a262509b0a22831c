package app

import (
	"context"
	"time"

	"github.com/mx-space/sitecms/internal/modules/storage/media"
	pkgcron "github.com/mx-space/sitecms/internal/pkg/cron"
	"github.com/mx-space/sitecms/internal/pkg/nativelog"
	"go.uber.org/zap"
)

const (
	logRetention     = 30 * 24 * time.Hour
	logPruneInterval = 24 * time.Hour
)

// registerJobs adds the background jobs to the scheduler.
func (a *App) registerJobs(mediaSvc *media.Service) {
	log := a.logger.Named("CronService")

	if interval := a.cfg.Media.SweepInterval; interval > 0 {
		a.sched.Register(pkgcron.Job{
			Name:        "media_sweeper",
			Description: "Retry deletion of media objects left behind by failed or cascaded deletes",
			Interval:    interval,
			Fn: func(ctx context.Context) error {
				_, err := mediaSvc.Sweep(ctx)
				return err
			},
		})
	}

	dir := a.cfg.LogDir()
	a.sched.Register(pkgcron.Job{
		Name:        "prune_logs",
		Description: "Remove daily log files older than 30 days",
		Interval:    logPruneInterval,
		Fn: func(context.Context) error {
			removed, err := nativelog.Prune(dir, logRetention, time.Now())
			if removed > 0 {
				log.Info("pruned log files", zap.Int("removed", removed))
			}
			return err
		},
	})
}
