package services

import (
	"context"

	"github.com/NomadCrew/portfolio-backend/internal/store"
	"github.com/NomadCrew/portfolio-backend/logger"
	"github.com/NomadCrew/portfolio-backend/models/contact"
	"github.com/NomadCrew/portfolio-backend/types"
)

// ArchivingDeliverer keeps a copy of every successfully delivered message.
// Archive failures are logged and never fail the submission.
type ArchivingDeliverer struct {
	next     contact.Deliverer
	archive  store.MessageArchive
	provider string
	pool     *WorkerPool
}

// NewArchivingDeliverer wraps next. When pool is non-nil archive writes run
// on it, falling back to an inline write if the job is not accepted.
func NewArchivingDeliverer(next contact.Deliverer, archive store.MessageArchive, provider string, pool *WorkerPool) *ArchivingDeliverer {
	return &ArchivingDeliverer{next: next, archive: archive, provider: provider, pool: pool}
}

func (d *ArchivingDeliverer) Deliver(ctx context.Context, sub contact.Submission) error {
	if err := d.next.Deliver(ctx, sub); err != nil {
		return err
	}

	msg := &types.ArchivedMessage{
		Name:        sub.Data.Name,
		Email:       sub.Data.Email,
		Subject:     sub.Data.Subject,
		Message:     sub.Data.Message,
		Provider:    d.provider,
		RequestID:   sub.RequestID,
		SubmittedAt: sub.SubmittedAt,
	}

	if d.pool != nil && d.pool.Submit(Job{
		Name:    "archive-message",
		Execute: func(jobCtx context.Context) error { return d.save(jobCtx, msg) },
	}) {
		return nil
	}

	if err := d.save(context.WithoutCancel(ctx), msg); err != nil {
		logger.GetLogger().Warnw("Failed to archive delivered contact message",
			"error", err,
			"from", logger.MaskEmail(msg.Email),
			"request_id", msg.RequestID)
	}
	return nil
}

func (d *ArchivingDeliverer) save(ctx context.Context, msg *types.ArchivedMessage) error {
	_, err := d.archive.SaveMessage(ctx, msg)
	return err
}
