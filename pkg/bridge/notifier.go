package bridge

import (
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ridelink/sensorbridge/pkg/common"
	"github.com/ridelink/sensorbridge/pkg/models"
)

// Context is the process-wide operational mode tuning admission thresholds.
type Context string

const (
	ContextScanning      Context = "scanning"
	ContextSetup         Context = "setup"
	ContextActiveSession Context = "active-session"
	ContextMaintenance   Context = "maintenance"
)

var contextMinPriority = map[Context]int{
	ContextScanning:      4,
	ContextSetup:         3,
	ContextActiveSession: 6,
	ContextMaintenance:   5,
}

const (
	immediateBypassPriority = 8
	batchPriorityCap        = 7

	DefaultMaxBatchSize = 8
	DefaultMaxWaitTime  = 3000 * time.Millisecond
	DefaultMaxTokens    = 12
	DefaultRefillRate   = 12
	DefaultWindow       = 60 * time.Second
)

// Deliverer receives notifications that survived throttling.
type Deliverer interface {
	Deliver(n *models.Notification)
}

type batchQueue struct {
	key   string
	items []*models.Notification
	timer *time.Timer
}

type NotifierOpts struct {
	MaxBatchSize int
	MaxWaitTime  time.Duration
	MaxTokens    int
	RefillRate   int
	Window       time.Duration
}

// Notifier decides whether a notification passes through, waits in a
// batch, or is dropped. Batches flush on size or on inactivity.
type Notifier struct {
	Admission *AdmissionStore

	deliverer    Deliverer
	maxBatchSize int
	maxWait      time.Duration

	mu      sync.Mutex
	context Context
	batches map[string]*batchQueue
	closed  bool
}

func NewNotifier(deliverer Deliverer, opts NotifierOpts) *Notifier {
	if opts.MaxBatchSize <= 0 {
		opts.MaxBatchSize = DefaultMaxBatchSize
	}
	if opts.MaxWaitTime <= 0 {
		opts.MaxWaitTime = DefaultMaxWaitTime
	}
	if opts.MaxTokens <= 0 {
		opts.MaxTokens = DefaultMaxTokens
	}
	if opts.RefillRate <= 0 {
		opts.RefillRate = DefaultRefillRate
	}
	if opts.Window <= 0 {
		opts.Window = DefaultWindow
	}

	return &Notifier{
		Admission:    NewAdmissionStore(opts.MaxTokens, opts.RefillRate, opts.Window),
		deliverer:    deliverer,
		maxBatchSize: opts.MaxBatchSize,
		maxWait:      opts.MaxWaitTime,
		context:      ContextSetup,
		batches:      make(map[string]*batchQueue),
	}
}

func (n *Notifier) SetContext(c Context) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.context = c
}

func (n *Notifier) Context() Context {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.context
}

// Submit routes one notification. Priority >= 8 and error notifications
// always deliver immediately.
func (n *Notifier) Submit(item *models.Notification) {
	logger := common.GetLoggerWith(
		common.LoggerNameBridgeCore,
		zap.String(common.LoggerFieldBridgeCategory, common.LoggerCategoryBridgeNotifier),
	)

	n.mu.Lock()
	if n.closed {
		n.mu.Unlock()
		return
	}
	ctx := n.context
	item.Context = string(ctx)

	if item.Priority >= immediateBypassPriority || item.Type == models.NotificationTypeError {
		n.mu.Unlock()
		n.deliver(item)
		return
	}

	if item.Priority < contextMinPriority[ctx] {
		if item.Type == models.NotificationTypeDiscovery {
			// below-threshold discoveries batch instead of vanishing
			n.enqueueLocked(item)
			n.mu.Unlock()
			return
		}
		n.mu.Unlock()
		logger.Debug("Dropped notification below context threshold",
			zap.String("type", string(item.Type)),
			zap.Int("priority", item.Priority),
			zap.String("context", string(ctx)))
		return
	}

	if n.Admission.Allow(batchKey(item.Type, ctx)) {
		n.mu.Unlock()
		n.deliver(item)
		return
	}

	n.enqueueLocked(item)
	n.mu.Unlock()
}

// Close cancels all pending batch timers. In-flight batches are dropped,
// not force-flushed.
func (n *Notifier) Close() {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.closed {
		return
	}
	n.closed = true
	for key, q := range n.batches {
		if q.timer != nil {
			q.timer.Stop()
		}
		delete(n.batches, key)
	}
}

func batchKey(t models.NotificationType, ctx Context) string {
	return string(t) + "-" + string(ctx)
}

func (n *Notifier) enqueueLocked(item *models.Notification) {
	key := batchKey(item.Type, n.context)

	q, exists := n.batches[key]
	if !exists {
		q = &batchQueue{key: key}
		n.batches[key] = q
	}
	q.items = append(q.items, item)

	if len(q.items) >= n.maxBatchSize {
		batch := n.flushLocked(q)
		go n.deliver(batch)
		return
	}

	// each new item resets the inactivity timer
	if q.timer != nil {
		q.timer.Stop()
	}
	q.timer = time.AfterFunc(n.maxWait, func() { n.flushKey(key) })
}

func (n *Notifier) flushKey(key string) {
	n.mu.Lock()
	q, exists := n.batches[key]
	if !exists || n.closed {
		n.mu.Unlock()
		return
	}
	batch := n.flushLocked(q)
	n.mu.Unlock()
	n.deliver(batch)
}

func (n *Notifier) flushLocked(q *batchQueue) *models.Notification {
	if q.timer != nil {
		q.timer.Stop()
	}
	delete(n.batches, q.key)
	return summarizeBatch(q.items, n.context)
}

func (n *Notifier) deliver(item *models.Notification) {
	if n.deliverer == nil {
		return
	}
	item.Payload = flattenPayload(item.Payload)
	n.deliverer.Deliver(item)
}

func summarizeBatch(items []*models.Notification, ctx Context) *models.Notification {
	first := items[0]

	maxPriority := 0
	for _, item := range items {
		if item.Priority > maxPriority {
			maxPriority = item.Priority
		}
	}
	if maxPriority > batchPriorityCap {
		maxPriority = batchPriorityCap
	}

	var message string
	switch first.Type {
	case models.NotificationTypeDiscovery:
		message = summarizeDiscovery(items)
	case models.NotificationTypeConnection:
		message = summarizeConnection(items)
	default:
		message = fmt.Sprintf("%d %s notifications", len(items), first.Type)
	}

	return &models.Notification{
		ID:       first.ID + "-batch",
		Type:     models.NotificationTypeBatch,
		Priority: maxPriority,
		Message:  message,
		Context:  string(ctx),
		Payload: map[string]any{
			"count":       len(items),
			"batchedType": string(first.Type),
		},
		CreatedAt: time.Now(),
	}
}

func summarizeDiscovery(items []*models.Notification) string {
	seen := map[string]bool{}
	var names []string
	for _, item := range items {
		name := item.DeviceName
		if name == "" {
			name = item.DeviceID
		}
		if !seen[name] {
			seen[name] = true
			names = append(names, name)
		}
	}

	shown := names
	if len(shown) > 2 {
		shown = shown[:2]
	}
	message := "Discovered " + joinNames(shown)
	if overflow := len(names) - len(shown); overflow > 0 {
		message += fmt.Sprintf(" and %d more", overflow)
	}
	return message
}

func summarizeConnection(items []*models.Notification) string {
	counts := common.Reducer(items,
		func(acc map[string]int, item *models.Notification) map[string]int {
			status, _ := item.Payload["status"].(string)
			if status == "" {
				status = "updated"
			}
			acc[status]++
			return acc
		},
		map[string]int{},
	)

	message := fmt.Sprintf("%d connection updates", len(items))
	for status, count := range counts {
		message += fmt.Sprintf(", %d %s", count, status)
	}
	return message
}

func joinNames(names []string) string {
	switch len(names) {
	case 0:
		return "devices"
	case 1:
		return names[0]
	default:
		return names[0] + ", " + names[1]
	}
}

// flattenPayload keeps primitives as-is and converts nested structures to
// a displayable string so transports never need to render deep objects.
func flattenPayload(payload map[string]any) map[string]any {
	if payload == nil {
		return nil
	}
	flat := make(map[string]any, len(payload))
	for key, value := range payload {
		flat[key] = displayable(value)
	}
	return flat
}

func displayable(value any) any {
	switch v := value.(type) {
	case nil, bool, string,
		int, int8, int16, int32, int64,
		uint, uint8, uint16, uint32, uint64,
		float32, float64:
		return v
	case time.Time:
		return v
	case fmt.Stringer:
		return v.String()
	default:
		if pretty, err := json.MarshalIndent(v, "", "  "); err == nil {
			return string(pretty)
		}
		return fmt.Sprintf("%v", v)
	}
}
