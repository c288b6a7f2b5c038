package listingrepo

import (
	"context"
	stderrors "errors"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sony/gobreaker/v2"

	"shoemarket/internal/domain"
	"shoemarket/internal/pkg/logger"
)

// ChangeChannel é o canal NOTIFY disparado pelo trigger da tabela listings.
const ChangeChannel = "listings_changed"

// ErrAlreadySubscribed é devolvido quando o feed já tem um assinante ativo.
var ErrAlreadySubscribed = stderrors.New("feed de anúncios já possui um assinante")

// ErrFeedClosed é devolvido por Subscribe depois de Close.
var ErrFeedClosed = stderrors.New("feed de anúncios encerrado")

// Loader carrega o snapshot completo do catálogo.
type Loader interface {
	FindAll(ctx context.Context) ([]domain.Listing, error)
}

// Notifier é o subconjunto de *pq.Listener usado pelo feed.
type Notifier interface {
	Listen(channel string) error
	NotificationChannel() <-chan *pq.Notification
	Ping() error
	Close() error
}

// Feed implementa domain.ListingFeed: a cada NOTIFY (ou reconexão do listener) o snapshot
// completo é recarregado e entregue por uma única goroutine, o que garante ordem total.
type Feed struct {
	loader       Loader
	notifier     Notifier
	breaker      *gobreaker.CircuitBreaker[[]domain.Listing]
	logger       logger.Logger
	pingInterval time.Duration
	loadTimeout  time.Duration
	breakerOpen  time.Duration
	retryBase    time.Duration
	retryMax     time.Duration

	mu         sync.Mutex
	subscribed bool
	listening  bool
	closed     bool
}

// FeedOption ajusta o Feed na construção.
type FeedOption func(*Feed)

// WithRetry define o atraso inicial e o teto do backoff entre recargas que falharam.
func WithRetry(base, max time.Duration) FeedOption {
	return func(f *Feed) {
		f.retryBase = base
		f.retryMax = max
	}
}

// NewFeed cria o feed com um pq.Listener dedicado na DSN informada.
func NewFeed(dsn string, loader Loader, log logger.Logger, opts ...FeedOption) *Feed {
	listener := pq.NewListener(dsn, 10*time.Second, time.Minute, func(ev pq.ListenerEventType, err error) {
		if err != nil {
			log.Warn("Evento do listener de anúncios.", map[string]interface{}{"event": int(ev), "error": err.Error()})
		}
	})
	return NewFeedWithNotifier(listener, loader, log, opts...)
}

// NewFeedWithNotifier permite injetar o Notifier (testes).
func NewFeedWithNotifier(n Notifier, loader Loader, log logger.Logger, opts ...FeedOption) *Feed {
	const openTimeout = 15 * time.Second
	settings := gobreaker.Settings{
		Name:        "listing-feed",
		MaxRequests: 1,
		Interval:    time.Minute,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("Circuit breaker do feed mudou de estado.", map[string]interface{}{
				"breaker": name, "from": from.String(), "to": to.String(),
			})
		},
	}
	f := &Feed{
		loader:       loader,
		notifier:     n,
		breaker:      gobreaker.NewCircuitBreaker[[]domain.Listing](settings),
		logger:       log,
		pingInterval: 90 * time.Second,
		loadTimeout:  10 * time.Second,
		breakerOpen:  openTimeout,
		retryBase:    time.Second,
		retryMax:     30 * time.Second,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Subscribe entrega o snapshot inicial e depois um novo snapshot a cada alteração.
// A função devolvida cancela a inscrição e aguarda a goroutine terminar. O listener
// continua aberto para uma nova inscrição até Close.
func (f *Feed) Subscribe(ctx context.Context, onSnapshot func([]domain.Listing), onError func(error)) (func(), error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil, ErrFeedClosed
	}
	if f.subscribed {
		return nil, ErrAlreadySubscribed
	}
	if !f.listening {
		if err := f.notifier.Listen(ChangeChannel); err != nil {
			return nil, err
		}
		f.listening = true
	}
	f.subscribed = true

	stop := make(chan struct{})
	done := make(chan struct{})
	go f.run(ctx, stop, done, onSnapshot, onError)

	var once sync.Once
	return func() {
		once.Do(func() {
			close(stop)
			<-done
			f.mu.Lock()
			f.subscribed = false
			f.mu.Unlock()
		})
	}, nil
}

// Close encerra o listener. Depois disso o feed não aceita novas inscrições.
func (f *Feed) Close() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.closed {
		return nil
	}
	f.closed = true
	f.listening = false
	return f.notifier.Close()
}

func (f *Feed) run(ctx context.Context, stop, done chan struct{}, onSnapshot func([]domain.Listing), onError func(error)) {
	defer close(done)

	ticker := time.NewTicker(f.pingInterval)
	defer ticker.Stop()

	// retry só fica ativo enquanto a última recarga falhou.
	var (
		retry   *time.Timer
		retryC  <-chan time.Time
		backoff time.Duration
	)
	defer func() {
		if retry != nil {
			retry.Stop()
		}
	}()

	load := func() {
		err := f.reload(ctx, onSnapshot, onError)
		if retry != nil {
			retry.Stop()
			retry, retryC = nil, nil
		}
		if err == nil {
			backoff = 0
			return
		}
		backoff = f.nextBackoff(backoff, err)
		f.logger.Warn("Recarga do snapshot falhou, nova tentativa agendada.", map[string]interface{}{
			"retry_in": backoff.String(), "error": err.Error(),
		})
		retry = time.NewTimer(backoff)
		retryC = retry.C
	}

	load()
	for {
		select {
		case <-ctx.Done():
			return
		case <-stop:
			return
		case n, ok := <-f.notifier.NotificationChannel():
			if !ok {
				return
			}
			// n == nil indica reconexão: notificações podem ter sido perdidas.
			if n == nil {
				f.logger.Info("Listener de anúncios reconectado, recarregando snapshot.", nil)
			}
			load()
		case <-retryC:
			retry, retryC = nil, nil
			load()
		case <-ticker.C:
			if err := f.notifier.Ping(); err != nil {
				f.logger.Warn("Ping do listener de anúncios falhou.", map[string]interface{}{"error": err.Error()})
			}
		}
	}
}

// nextBackoff dobra o atraso até retryMax. Com o breaker aberto, espera ao menos o Timeout dele.
func (f *Feed) nextBackoff(prev time.Duration, err error) time.Duration {
	next := f.retryBase
	if prev > 0 {
		next = prev * 2
	}
	if next > f.retryMax {
		next = f.retryMax
	}
	if stderrors.Is(err, gobreaker.ErrOpenState) && next < f.breakerOpen {
		next = f.breakerOpen
	}
	return next
}

func (f *Feed) reload(ctx context.Context, onSnapshot func([]domain.Listing), onError func(error)) error {
	listings, err := f.breaker.Execute(func() ([]domain.Listing, error) {
		loadCtx, cancel := context.WithTimeout(ctx, f.loadTimeout)
		defer cancel()
		return f.loader.FindAll(loadCtx)
	})
	if err != nil {
		onError(err)
		return err
	}
	onSnapshot(listings)
	return nil
}
