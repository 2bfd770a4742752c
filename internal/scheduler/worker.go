package scheduler

import (
	"context"

	buyersservice "yuvna_backend/internal/buyers/service"
	"yuvna_backend/internal/outreach"
	"yuvna_backend/platform/apperr"
	"yuvna_backend/platform/config"
	"yuvna_backend/platform/logger"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
)

const workerConcurrency = 10

type Worker struct {
	server   *asynq.Server
	mux      *asynq.ServeMux
	buyers   *buyersservice.Service
	outreach *outreach.Service
	log      *logger.Logger
}

func NewWorker(cfg config.SchedulerConfig, buyers *buyersservice.Service, outreachSvc *outreach.Service, log *logger.Logger) (*Worker, error) {
	opt, err := redisClientOpt(cfg.GetRedisURL())
	if err != nil {
		return nil, err
	}

	queue := cfg.GetAsynqQueueName()
	if queue == "" {
		queue = "default"
	}

	server := asynq.NewServer(opt, asynq.Config{
		Concurrency: workerConcurrency,
		Queues: map[string]int{
			queue: 1,
		},
	})

	mux := asynq.NewServeMux()
	w := &Worker{
		server:   server,
		mux:      mux,
		buyers:   buyers,
		outreach: outreachSvc,
		log:      log,
	}

	mux.HandleFunc(TaskScoreRefresh, w.handleScoreRefresh)
	mux.HandleFunc(TaskOutreachDispatch, w.handleOutreachDispatch)

	return w, nil
}

func (w *Worker) handleScoreRefresh(ctx context.Context, task *asynq.Task) error {
	payload, err := ParseScoreRefreshPayload(task)
	if err != nil {
		return err
	}

	buyerID, err := uuid.Parse(payload.BuyerID)
	if err != nil {
		return err
	}

	if err := w.buyers.RefreshScores(ctx, buyerID); err != nil {
		// A buyer deleted between sweep and refresh is not a failure.
		if apperr.GetKind(err) == apperr.KindNotFound {
			return nil
		}
		return err
	}
	return nil
}

func (w *Worker) handleOutreachDispatch(ctx context.Context, task *asynq.Task) error {
	sent, err := w.outreach.DispatchDueSteps(ctx)
	if err != nil {
		return err
	}
	if sent > 0 {
		w.log.Info("outreach steps dispatched", "sent", sent)
	}
	return nil
}

func (w *Worker) Run(ctx context.Context) {
	if w == nil || w.server == nil {
		return
	}

	go func() {
		<-ctx.Done()
		w.server.Shutdown()
	}()

	if err := w.server.Run(w.mux); err != nil {
		w.log.Error("scheduler worker stopped", "error", err)
	}
}
