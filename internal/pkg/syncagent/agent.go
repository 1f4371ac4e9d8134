package syncagent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/hullsync/chargebee-connector/internal/pkg/cache"
	"github.com/hullsync/chargebee-connector/internal/pkg/chargebee"
	"github.com/hullsync/chargebee-connector/internal/pkg/connector"
	"github.com/hullsync/chargebee-connector/internal/pkg/hull"
	"github.com/hullsync/chargebee-connector/internal/pkg/lease"
	"github.com/hullsync/chargebee-connector/internal/pkg/mapping"
)

// Read modes of a fetch run. A full read ignores the stored watermark.
const (
	ReadModeFull        = "full"
	ReadModeIncremental = "incremental"
)

// Object types the agent can fetch.
const (
	ObjectTypeCustomers     = "customers"
	ObjectTypeSubscriptions = "subscriptions"
	ObjectTypeInvoices      = "invoices"
	ObjectTypeEvents        = "events"
)

// Run outcomes recorded in the journal.
const (
	runStatusSucceeded = "succeeded"
	runStatusFailed    = "failed"
	runStatusSkipped   = "skipped"
)

const (
	// entityLeaseTTL guards the long-running entity fetches.
	entityLeaseTTL = 6 * time.Hour
	// eventsLeaseTTL guards the frequent event polls. Refreshed per page.
	eventsLeaseTTL = 15 * time.Minute
	watermarkTTL   = 24 * time.Hour
	historyTTL     = 15 * time.Minute
	// eventsLookback bounds the first event poll when no watermark exists.
	eventsLookback = time.Hour
)

// watermarkFloor is the earliest point in time any read reaches back to.
var watermarkFloor = time.Date(2016, time.September, 29, 0, 0, 0, 0, time.UTC)

// ErrUnknownObjectType is returned by Fetch for an unsupported object type.
var ErrUnknownObjectType = errors.New("syncagent: unknown object type")

// BillingReader is the slice of the billing API the agent reads from.
type BillingReader interface {
	ListCustomers(ctx context.Context, p chargebee.ListParams) *chargebee.CustomerListResult
	ListSubscriptions(ctx context.Context, p chargebee.ListParams) *chargebee.SubscriptionListResult
	ListInvoices(ctx context.Context, p chargebee.ListParams) *chargebee.InvoiceListResult
	ListEvents(ctx context.Context, p chargebee.EventListParams) *chargebee.EventListResult
}

// CRMWriter is the slice of the platform API the agent writes to.
type CRMWriter interface {
	UserTraits(ctx context.Context, claims hull.UserClaims, attrs hull.Attributes) error
	AccountTraits(ctx context.Context, claims hull.AccountClaims, attrs hull.Attributes) error
	UserTrack(ctx context.Context, claims hull.UserClaims, event hull.Event) error
	PutStatus(ctx context.Context, status hull.Status) error
}

// RunRecorder journals run outcomes. A nil recorder disables journaling.
type RunRecorder interface {
	Start(ctx context.Context, correlationKey, objectType, readMode string) (uint, error)
	Finish(ctx context.Context, id uint, status string, items, pages int, runErr error) error
}

// Agent runs the sync operations of one connector installation. Construct a
// fresh agent per run so every run carries its own correlation key.
type Agent struct {
	settings       *connector.Settings
	reader         BillingReader
	writer         CRMWriter
	redis          *redis.Client
	mapper         *mapping.Mapper
	recorder       RunRecorder
	correlationKey string
}

// New wires an agent from its collaborators.
func New(settings *connector.Settings, reader BillingReader, writer CRMWriter, redisClient *redis.Client, recorder RunRecorder) *Agent {
	return &Agent{
		settings:       settings,
		reader:         reader,
		writer:         writer,
		redis:          redisClient,
		mapper:         mapping.NewMapper(settings),
		recorder:       recorder,
		correlationKey: uuid.NewString(),
	}
}

// CorrelationKey identifies this agent's runs in logs and the journal.
func (a *Agent) CorrelationKey() string {
	return a.correlationKey
}

// Fetch dispatches to the fetch operation matching the object type.
func (a *Agent) Fetch(ctx context.Context, objectType, mode string) error {
	switch objectType {
	case ObjectTypeCustomers:
		return a.FetchCustomers(ctx, mode)
	case ObjectTypeSubscriptions:
		return a.FetchSubscriptions(ctx, mode)
	case ObjectTypeInvoices:
		return a.FetchInvoices(ctx, mode)
	case ObjectTypeEvents:
		return a.FetchEvents(ctx)
	default:
		return fmt.Errorf("%w: %s", ErrUnknownObjectType, objectType)
	}
}

// noopIncoming reports whether the installation resolves neither users nor
// accounts, in which case no data may be written.
func (a *Agent) noopIncoming() bool {
	return a.settings.IncomingResolutionUser == connector.ResolutionNone &&
		a.settings.IncomingResolutionAccount == connector.ResolutionNone
}

func (a *Agent) aggregateInvoices() bool {
	return a.settings.IncomingResolutionAccount != connector.ResolutionNone &&
		a.settings.AggregationAccountInvoices
}

func (a *Agent) aggregateSubscriptions() bool {
	return a.settings.IncomingResolutionAccount != connector.ResolutionNone &&
		a.settings.AggregationAccountSubscriptions
}

func (a *Agent) lockKey(objectType string) string {
	return fmt.Sprintf("%s_%s_lock", a.settings.ConnectorID, objectType)
}

func (a *Agent) watermarkKey(objectType string) string {
	return fmt.Sprintf("%s_%s_last", a.settings.ConnectorID, objectType)
}

func (a *Agent) historyKey(customerID, objectType string) string {
	return fmt.Sprintf("%s_%s_%s", a.settings.ConnectorID, customerID, objectType)
}

// readWatermark yields the lower bound for an entity read. Full reads and
// missing or unparseable watermarks fall back to the floor.
func (a *Agent) readWatermark(ctx context.Context, objectType, mode string) time.Time {
	if mode == ReadModeFull {
		return watermarkFloor
	}
	raw, err := cache.Get(ctx, a.watermarkKey(objectType))
	if err != nil {
		if !errors.Is(err, cache.ErrMiss) {
			log.Warnf("[SyncAgent] %s watermark read failed: %v", objectType, err)
		}
		return watermarkFloor
	}
	ts, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return watermarkFloor
	}
	return ts
}

// eventsWatermark yields the lower bound for an event poll. Without a stored
// watermark only the recent past is polled.
func (a *Agent) eventsWatermark(ctx context.Context) time.Time {
	raw, err := cache.Get(ctx, a.watermarkKey(ObjectTypeEvents))
	if err == nil {
		if ts, perr := time.Parse(time.RFC3339, raw); perr == nil {
			return ts
		}
	} else if !errors.Is(err, cache.ErrMiss) {
		log.Warnf("[SyncAgent] events watermark read failed: %v", err)
	}
	return time.Now().UTC().Add(-eventsLookback)
}

// commitWatermark stores the run start time as the next read's lower bound.
// Committed only after a fully successful run so failed pages are re-read.
func (a *Agent) commitWatermark(ctx context.Context, objectType string, runStart time.Time) {
	err := cache.Set(ctx, a.watermarkKey(objectType), runStart.Format(time.RFC3339), watermarkTTL)
	if err != nil {
		log.Warnf("[SyncAgent] %s watermark commit failed: %v", objectType, err)
	}
}

// release frees a fetch lease. A failed release only shortens the head start
// of the next run, so it is logged and not escalated.
func (a *Agent) release(ctx context.Context, l *lease.Lease) {
	if err := l.Release(ctx); err != nil {
		log.Warnf("[SyncAgent] lease release failed: %v", err)
	}
}

// applyOperations writes mapped operations to the platform in order.
func (a *Agent) applyOperations(ctx context.Context, ops []mapping.IncomingOperation) error {
	for _, op := range ops {
		log.Debugf("[SyncAgent] incoming %s %s (run %s)", op.Scope, op.Action, a.correlationKey)
		var err error
		switch {
		case op.Scope == mapping.ScopeAccount && op.Action == mapping.ActionTraits:
			err = a.writer.AccountTraits(ctx, op.AccountClaims, op.Attributes)
		case op.Scope == mapping.ScopeUser && op.Action == mapping.ActionTraits:
			err = a.writer.UserTraits(ctx, op.UserClaims, op.Attributes)
		case op.Scope == mapping.ScopeUser && op.Action == mapping.ActionTrack && op.Event != nil:
			err = a.writer.UserTrack(ctx, op.UserClaims, *op.Event)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (a *Agent) recordStart(ctx context.Context, objectType, mode string) uint {
	if a.recorder == nil {
		return 0
	}
	id, err := a.recorder.Start(ctx, a.correlationKey, objectType, mode)
	if err != nil {
		log.Warnf("[SyncAgent] run journal start failed: %v", err)
		return 0
	}
	return id
}

func (a *Agent) recordFinish(ctx context.Context, id uint, status string, items, pages int, runErr error) {
	if a.recorder == nil || id == 0 {
		return
	}
	if err := a.recorder.Finish(ctx, id, status, items, pages, runErr); err != nil {
		log.Warnf("[SyncAgent] run journal finish failed: %v", err)
	}
}
