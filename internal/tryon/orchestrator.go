// Package tryon runs the virtual try-on pipeline: scale the user photo and
// garments, merge a garment pair into one image, submit the job, wait for
// the remote result and keep the downloaded image in scratch storage.
package tryon

import (
	"context"
	"errors"
	"fmt"
	"image"

	"golang.org/x/sync/errgroup"

	"github.com/dmitrijs2005/fitroom/internal/imaging"
	"github.com/dmitrijs2005/fitroom/internal/journal"
	"github.com/dmitrijs2005/fitroom/internal/kling"
	"github.com/dmitrijs2005/fitroom/internal/logging"
)

const userPhotoQuality = 90

type JobClient interface {
	Submit(ctx context.Context, human, garment []byte) (string, error)
	Poll(ctx context.Context, taskID string, opts kling.PollOptions) (string, error)
}

type Downloader interface {
	Download(ctx context.Context, url string) ([]byte, error)
}

// Deps are the collaborators of an Orchestrator. Journal is optional.
type Deps struct {
	Images  *imaging.Processor
	Jobs    JobClient
	Fetcher Downloader
	Scratch *Scratch
	Journal journal.Journal
	Poll    kling.PollOptions
}

type Orchestrator struct {
	images  *imaging.Processor
	jobs    JobClient
	fetcher Downloader
	scratch *Scratch
	journal journal.Journal
	poll    kling.PollOptions
	log     logging.Logger
}

func NewOrchestrator(d Deps, log logging.Logger) *Orchestrator {
	if log == nil {
		log = logging.Nop()
	}
	images := d.Images
	if images == nil {
		images = imaging.NewProcessor(log)
	}
	return &Orchestrator{
		images:  images,
		jobs:    d.Jobs,
		fetcher: d.Fetcher,
		scratch: d.Scratch,
		journal: d.Journal,
		poll:    d.Poll,
		log:     log,
	}
}

// Generate runs the whole pipeline once. Any failing step aborts it and the
// originating error is returned unchanged; nothing is retried and no partial
// result is kept.
func (o *Orchestrator) Generate(ctx context.Context, userID string, userPhoto []byte, sel Selection) (*GeneratedImage, error) {
	if err := sel.Validate(); err != nil {
		return nil, err
	}
	if len(userPhoto) == 0 {
		return nil, fmt.Errorf("%w: user photo is empty", imaging.ErrDecodeFailed)
	}

	entryID := o.journalCreate(ctx, userID)

	out, err := o.run(ctx, entryID, userPhoto, sel)
	if err != nil {
		o.journalFailed(ctx, entryID, err)
		o.log.Warn(ctx, "try-on failed", "user_id", userID, "error", err)
		return nil, err
	}

	o.log.Info(ctx, "try-on finished", "user_id", userID, "task_id", out.TaskID, "size", out.Size)
	return out, nil
}

func (o *Orchestrator) run(ctx context.Context, entryID string, userPhoto []byte, sel Selection) (*GeneratedImage, error) {
	human, garment, err := o.prepare(ctx, userPhoto, sel)
	if err != nil {
		return nil, err
	}

	taskID, err := o.jobs.Submit(ctx, human, garment)
	if err != nil {
		return nil, err
	}
	o.log.Info(ctx, "try-on submitted", "task_id", taskID)
	o.journalUpdate(ctx, entryID, "submitted", func(j journal.Journal) error {
		return j.MarkSubmitted(ctx, entryID, taskID)
	})

	resultURL, err := o.jobs.Poll(ctx, taskID, o.poll)
	if err != nil {
		return nil, err
	}

	data, err := o.fetcher.Download(ctx, resultURL)
	if err != nil {
		return nil, err
	}

	out, err := o.scratch.Save(ctx, taskID, data)
	if err != nil {
		return nil, err
	}

	o.journalUpdate(ctx, entryID, "succeeded", func(j journal.Journal) error {
		return j.MarkSucceeded(ctx, entryID, resultURL, out.Key)
	})

	return out, nil
}

// prepare scales the user photo and the garments concurrently and returns
// the encoded images for submission.
func (o *Orchestrator) prepare(ctx context.Context, userPhoto []byte, sel Selection) ([]byte, []byte, error) {
	var (
		human        []byte
		single       *imaging.ScaledImage
		upper, lower *imaging.ScaledImage
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		scaled, err := o.images.Prepare(gctx, userPhoto, imaging.TypeUser)
		if err != nil {
			return fmt.Errorf("user photo: %w", err)
		}
		human, err = imaging.EncodeJPEG(scaled.Image, userPhotoQuality)
		return err
	})

	if sel.IsPair() {
		g.Go(func() (err error) {
			upper, err = o.garment(gctx, sel.Upper, "upper garment")
			return err
		})
		g.Go(func() (err error) {
			lower, err = o.garment(gctx, sel.Lower, "lower garment")
			return err
		})
	} else {
		g.Go(func() (err error) {
			single, err = o.garment(gctx, sel.Garment, "garment")
			return err
		})
	}

	if err := g.Wait(); err != nil {
		return nil, nil, err
	}

	var img image.Image
	if sel.IsPair() {
		img = o.images.Combine(ctx, upper, lower)
	} else {
		img = single.Image
	}

	garment, err := imaging.EncodePNG(img)
	if err != nil {
		return nil, nil, err
	}
	return human, garment, nil
}

func (o *Orchestrator) garment(ctx context.Context, raw []byte, label string) (*imaging.ScaledImage, error) {
	scaled, err := o.images.Prepare(ctx, raw, imaging.TypeGarment)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", label, err)
	}
	return scaled, nil
}

// Journal failures are logged and never abort the pipeline.

func (o *Orchestrator) journalCreate(ctx context.Context, userID string) string {
	if o.journal == nil {
		return ""
	}
	e, err := o.journal.Create(ctx, userID)
	if err != nil {
		o.log.Error(ctx, "journal create failed", "user_id", userID, "error", err)
		return ""
	}
	return e.ID
}

func (o *Orchestrator) journalUpdate(ctx context.Context, entryID, step string, fn func(journal.Journal) error) {
	if o.journal == nil || entryID == "" {
		return
	}
	if err := fn(o.journal); err != nil {
		o.log.Error(ctx, "journal update failed", "entry_id", entryID, "step", step, "error", err)
	}
}

func (o *Orchestrator) journalFailed(ctx context.Context, entryID string, cause error) {
	msg := cause.Error()
	var re *kling.RemoteError
	if errors.As(cause, &re) && re.Message != "" {
		msg = re.Message
	}
	// the caller's context may already be canceled
	ctx = context.WithoutCancel(ctx)
	o.journalUpdate(ctx, entryID, "failed", func(j journal.Journal) error {
		return j.MarkFailed(ctx, entryID, msg)
	})
}
