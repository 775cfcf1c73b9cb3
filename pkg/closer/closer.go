package closer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

const defaultForcedTimeout = 2 * time.Second

// Func — сигнатура функции закрытия ресурса.
type Func func(ctx context.Context) error

type resource struct {
	name string
	fn   Func
}

// Closer закрывает зарегистрированные ресурсы в обратном порядке (LIFO).
type Closer struct {
	mu            sync.Mutex
	once          sync.Once
	resources     []resource
	forcedTimeout time.Duration
}

// NewCloser создает новый экземпляр Closer.
// forcedTimeout — время на принудительное закрытие ресурсов, не успевших закрыться до отмены контекста.
func NewCloser(forcedTimeout time.Duration) *Closer {
	if forcedTimeout <= 0 {
		forcedTimeout = defaultForcedTimeout
	}

	return &Closer{forcedTimeout: forcedTimeout}
}

// Add регистрирует ресурс. Имя попадает в текст ошибки закрытия.
func (c *Closer) Add(name string, f Func) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resources = append(c.resources, resource{name: name, fn: f})
}

// Close закрывает ресурсы по одному, начиная с последнего.
// Если ctx отменён раньше, оставшиеся ресурсы закрываются параллельно с forcedTimeout.
// Повторные вызовы ничего не делают.
func (c *Closer) Close(ctx context.Context) error {
	var err error
	c.once.Do(func() {
		c.mu.Lock()
		resources := c.resources
		c.mu.Unlock()

		remaining, running, errs := c.gracefulClose(ctx, resources)
		if running != nil {
			errs = append(errs, fmt.Errorf("shutdown interrupted, %d/%d resources left: %w",
				len(remaining)+1, len(resources), ctx.Err()))
			errs = append(errs, c.forcedClose(remaining, running)...)
		}

		err = errors.Join(errs...)
	})

	return err
}

// closing: закрытие ресурса уже запущено и ещё не завершилось.
type closing struct {
	name string
	done <-chan error
}

// gracefulClose при отмене ctx возвращает ресурс, который закрывается прямо сейчас,
// и ресурсы, до которых не дошла очередь.
func (c *Closer) gracefulClose(ctx context.Context, resources []resource) ([]resource, *closing, []error) {
	var errs []error
	for i := len(resources) - 1; i >= 0; i-- {
		r := resources[i]
		done := make(chan error, 1)

		go func() {
			done <- r.fn(ctx)
		}()

		select {
		case err := <-done:
			if err != nil {
				errs = append(errs, fmt.Errorf("close %s: %w", r.name, err))
			}
		case <-ctx.Done():
			return resources[:i], &closing{name: r.name, done: done}, errs
		}
	}

	return nil, nil, errs
}

// forcedClose закрывает оставшиеся ресурсы параллельно и дожидается уже начатого
// закрытия, всё в пределах forcedTimeout. Повторно running не вызывается.
func (c *Closer) forcedClose(resources []resource, running *closing) []error {
	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	ctx, cancel := context.WithTimeout(context.Background(), c.forcedTimeout)
	defer cancel()

	for _, r := range resources {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := r.fn(ctx); err != nil {
				mu.Lock()
				errs = append(errs, fmt.Errorf("force close %s: %w", r.name, err))
				mu.Unlock()
			}
		}()
	}

	select {
	case err := <-running.done:
		if err != nil {
			mu.Lock()
			errs = append(errs, fmt.Errorf("close %s: %w", running.name, err))
			mu.Unlock()
		}
	case <-ctx.Done():
		mu.Lock()
		errs = append(errs, fmt.Errorf("close %s: still running: %w", running.name, ctx.Err()))
		mu.Unlock()
	}

	wg.Wait()
	return errs
}
