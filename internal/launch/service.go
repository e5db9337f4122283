// internal/launch/service.go
package launch

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/rovshanmuradov/solana-launchpad/internal/blockchain"
	"github.com/rovshanmuradov/solana-launchpad/internal/events"
	logging "github.com/rovshanmuradov/solana-launchpad/internal/logger"
	"github.com/rovshanmuradov/solana-launchpad/internal/notify"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage"
	"github.com/rovshanmuradov/solana-launchpad/internal/storage/models"
	"github.com/rovshanmuradov/solana-launchpad/internal/transaction"
	"github.com/rovshanmuradov/solana-launchpad/internal/upload"
)

// StepFeeTransfer labels the service fee transfer appended to a batch.
const StepFeeTransfer = "fee-transfer"

const receiptTimeout = 5 * time.Second

// Submitter sends one batch as one transaction and waits for confirmation.
type Submitter interface {
	Send(ctx context.Context, signer transaction.Signer, instructions []solana.Instruction, coSigners []solana.PrivateKey) (solana.Signature, error)
}

// ServiceConfig wires a Service. Receipts, Bus and Notifier are optional.
type ServiceConfig struct {
	Logger   *zap.Logger
	Client   blockchain.Client
	Sender   Submitter
	Uploader upload.Uploader
	Receipts storage.ReceiptStore
	Bus      *events.Bus
	Notifier notify.Notifier
	Settings Settings
}

// Service runs the token, market and pool creation flows.
type Service struct {
	client   blockchain.Client
	sender   Submitter
	uploader upload.Uploader
	receipts storage.ReceiptStore
	bus      *events.Bus
	notifier notify.Notifier
	settings Settings
	mints    *mintResolver
	logger   *zap.Logger

	tokenGuard  flowGuard
	marketGuard flowGuard
	poolGuard   flowGuard

	newKey func() (solana.PrivateKey, error)
	now    func() time.Time
}

// NewService creates a launch service.
func NewService(config *ServiceConfig) *Service {
	logger := config.Logger.Named("launch")
	settings := config.Settings
	settings.applyDefaults()

	notifier := config.Notifier
	if notifier == nil {
		notifier = notify.Log{Logger: logger}
	}

	return &Service{
		client:   config.Client,
		sender:   config.Sender,
		uploader: config.Uploader,
		receipts: config.Receipts,
		bus:      config.Bus,
		notifier: notifier,
		settings: settings,
		mints:    newMintResolver(config.Client, logger),
		logger:   logger,
		newKey:   solana.NewRandomPrivateKey,
		now:      time.Now,
	}
}

// InFlight reports whether flow ("token", "market" or "pool") is running.
func (s *Service) InFlight(flow string) bool {
	switch flow {
	case models.FlowToken:
		return s.tokenGuard.inFlight()
	case models.FlowMarket:
		return s.marketGuard.inFlight()
	case models.FlowPool:
		return s.poolGuard.inFlight()
	}
	return false
}

// run is the bookkeeping of one flow invocation.
type run struct {
	id      uuid.UUID
	flow    string
	payer   solana.PublicKey
	guard   *flowGuard
	logger  *zap.Logger
	receipt models.Receipt
	end     func()
}

// start checks the signer and the input, then claims the flow guard.
func (s *Service) start(ctx context.Context, flow string, guard *flowGuard, signer transaction.Signer, validate func() error) (*run, error) {
	if signer == nil || signer.PublicKey().IsZero() {
		return nil, s.reject(ctx, flow, &WalletError{})
	}
	if err := validate(); err != nil {
		return nil, s.reject(ctx, flow, err)
	}
	if err := guard.acquire(); err != nil {
		return nil, s.reject(ctx, flow, err)
	}

	id := uuid.New()
	payer := signer.PublicKey()
	opLogger := logging.WithOperation(s.logger, "create_"+flow).With(
		zap.String("flow_id", id.String()),
		zap.String("payer", payer.String()),
	)
	r := &run{
		id:     id,
		flow:   flow,
		payer:  payer,
		guard:  guard,
		logger: opLogger,
		receipt: models.Receipt{
			BaseModel: models.BaseModel{ID: id},
			Flow:      flow,
			Payer:     payer.String(),
		},
		end: logging.TrackPerformance(opLogger, flow),
	}

	r.logger.Info("Launch started")
	s.publish(events.LaunchStartedEvent{
		BaseEvent: events.NewBase(events.LaunchStarted),
		FlowID:    id,
		Flow:      flow,
		Payer:     payer.String(),
	})
	return r, nil
}

// reject reports a failure that happened before the flow started.
func (s *Service) reject(ctx context.Context, flow string, err error) error {
	s.logger.Warn("Launch rejected",
		zap.String("flow", flow),
		zap.String("kind", Kind(err)),
		zap.Error(err))
	s.notify(ctx, notify.Notification{
		Level:   notify.LevelError,
		Title:   title(flow) + " creation failed",
		Message: err.Error(),
	})
	return err
}

// finish releases the guard and reports the outcome. Receipts and
// notifications are best-effort and never change err.
func (s *Service) finish(ctx context.Context, r *run, result interface{}, err error) {
	defer r.guard.release()
	defer r.end()

	ctx = context.WithoutCancel(ctx)
	signature := ""
	if n := len(r.receipt.Signatures); n > 0 {
		signature = r.receipt.Signatures[n-1]
	}

	if err == nil {
		r.receipt.Status = models.StatusConfirmed
		r.logger.Info("Launch completed",
			zap.String("address", r.receipt.Address),
			zap.String("signature", signature))
		s.publish(events.LaunchCompletedEvent{
			BaseEvent: events.NewBase(events.LaunchCompleted),
			FlowID:    r.id,
			Flow:      r.flow,
			Payer:     r.payer.String(),
			Address:   r.receipt.Address,
			Signature: signature,
			Result:    result,
		})
		s.notify(ctx, notify.Notification{
			Level:   notify.LevelSuccess,
			Title:   title(r.flow) + " created",
			Message: fmt.Sprintf("%s, signature %s", r.receipt.Address, signature),
		})
	} else {
		r.receipt.Status = models.StatusFailed
		r.receipt.Error = err.Error()
		r.logger.Error("Launch failed", zap.String("kind", Kind(err)), zap.Error(err))
		s.publish(events.LaunchFailedEvent{
			BaseEvent: events.NewBase(events.LaunchFailed),
			FlowID:    r.id,
			Flow:      r.flow,
			Payer:     r.payer.String(),
			Kind:      Kind(err),
			Error:     err,
		})
		s.notify(ctx, notify.Notification{
			Level:   notify.LevelError,
			Title:   title(r.flow) + " creation failed",
			Message: err.Error(),
		})
	}

	if s.receipts == nil {
		return
	}
	saveCtx, cancel := context.WithTimeout(ctx, receiptTimeout)
	defer cancel()
	if serr := s.receipts.SaveReceipt(saveCtx, &r.receipt); serr != nil {
		r.logger.Warn("Failed to save receipt", zap.Error(serr))
		return
	}
	s.publish(events.ReceiptRecordedEvent{
		BaseEvent: events.NewBase(events.ReceiptRecorded),
		ReceiptID: r.receipt.ID,
		Flow:      r.flow,
		Status:    r.receipt.Status,
		Address:   r.receipt.Address,
	})
}

func (s *Service) publish(event events.Event) {
	if s.bus == nil {
		return
	}
	if err := s.bus.Publish(event); err != nil {
		s.logger.Debug("Event dropped", zap.String("type", string(event.Type())), zap.Error(err))
	}
}

func (s *Service) notify(ctx context.Context, n notify.Notification) {
	if err := s.notifier.Notify(ctx, n); err != nil {
		s.logger.Warn("Notification failed", zap.String("title", n.Title), zap.Error(err))
	}
}

// upload stores one asset under the upload timeout.
func (s *Service) upload(ctx context.Context, r *run, stage string, data []byte, contentType string) (string, error) {
	if s.uploader == nil {
		return "", &UploadError{Stage: stage, Err: errors.New("no uploader configured")}
	}
	uploadCtx, cancel := context.WithTimeout(ctx, s.settings.UploadTimeout)
	defer cancel()

	url, err := s.uploader.Upload(uploadCtx, data, contentType)
	if err != nil {
		return "", &UploadError{Stage: stage, Err: err}
	}
	r.logger.Info("Asset uploaded",
		zap.String("stage", stage),
		zap.String("content_type", contentType),
		zap.String("url", url))
	s.publish(events.AssetUploadedEvent{
		BaseEvent:   events.NewBase(events.AssetUploaded),
		FlowID:      r.id,
		Flow:        r.flow,
		Stage:       stage,
		ContentType: contentType,
		URL:         url,
	})
	return url, nil
}

// submit sends batch and records its signature on the receipt, including
// the signature of a transaction that landed but failed.
func (s *Service) submit(ctx context.Context, r *run, signer transaction.Signer, batch *Batch) (solana.Signature, error) {
	r.logger.Info("Submitting batch",
		zap.String("batch", batch.Label),
		zap.Strings("steps", batch.Labels()))

	sig, err := s.sender.Send(ctx, signer, batch.Instructions(), batch.Signers)
	if sig != (solana.Signature{}) {
		r.receipt.Signatures = append(r.receipt.Signatures, sig.String())
	}
	if err != nil {
		return sig, submissionError(batch.Label, err)
	}
	s.publish(events.BatchSubmittedEvent{
		BaseEvent: events.NewBase(events.BatchSubmitted),
		FlowID:    r.id,
		Flow:      r.flow,
		Batch:     batch.Label,
		Steps:     batch.Labels(),
		Signature: sig.String(),
	})
	return sig, nil
}

// addFee appends the service fee transfer. A zero fee adds nothing.
func (s *Service) addFee(batch *Batch, payer solana.PublicKey, lamports uint64) error {
	if lamports == 0 {
		return nil
	}
	if s.settings.FeeDestination.IsZero() {
		return errors.New("service fee configured without a fee destination")
	}
	batch.add(StepFeeTransfer, system.NewTransferInstruction(lamports, payer, s.settings.FeeDestination).Build())
	return nil
}

func (s *Service) rent(ctx context.Context, size uint64) (uint64, error) {
	lamports, err := s.client.GetMinimumBalanceForRentExemption(ctx, size)
	if err != nil {
		return 0, fmt.Errorf("failed to get rent for %d bytes: %w", size, err)
	}
	return lamports, nil
}

func title(flow string) string {
	if flow == "" {
		return ""
	}
	return strings.ToUpper(flow[:1]) + flow[1:]
}
