// Package eventloop - однопоточный цикл, в котором выполняются все реакции слоя отображения.
package eventloop

import (
	"context"
	"sync"
)

// Scheduler ставит функцию в очередь на выполнение в цикле.
// Post не должен блокироваться: его вызывают и из задач самого цикла.
type Scheduler interface {
	Post(fn func()) bool
}

// Loop выполняет задачи строго по одной в порядке поступления.
// Очередь не ограничена: Post не блокируется, в том числе из самого цикла.
type Loop struct {
	mu    sync.Mutex
	queue []func()
	wake  chan struct{}
	done  chan struct{}
	once  sync.Once
}

// New создает цикл; buffer задает начальную емкость очереди
func New(buffer int) *Loop {
	if buffer < 1 {
		buffer = 64
	}
	return &Loop{
		queue: make([]func(), 0, buffer),
		wake:  make(chan struct{}, 1),
		done:  make(chan struct{}),
	}
}

// Post ставит задачу в очередь. Возвращает false, если цикл уже остановлен.
func (l *Loop) Post(fn func()) bool {
	select {
	case <-l.done:
		return false
	default:
	}

	l.mu.Lock()
	l.queue = append(l.queue, fn)
	l.mu.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
	return true
}

// next извлекает первую задачу из очереди
func (l *Loop) next() (func(), bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if len(l.queue) == 0 {
		return nil, false
	}
	fn := l.queue[0]
	l.queue[0] = nil
	l.queue = l.queue[1:]
	return fn, true
}

// Run обрабатывает очередь до отмены контекста или вызова Stop
func (l *Loop) Run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			l.Stop()
			return
		}
		select {
		case <-l.done:
			return
		default:
		}

		if fn, ok := l.next(); ok {
			fn()
			continue
		}

		select {
		case <-ctx.Done():
			l.Stop()
			return
		case <-l.done:
			return
		case <-l.wake:
		}
	}
}

// Do выполняет функцию в цикле и ждет ее завершения
func (l *Loop) Do(ctx context.Context, fn func()) error {
	finished := make(chan struct{})
	if !l.Post(func() {
		defer close(finished)
		fn()
	}) {
		return context.Canceled
	}
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	case <-l.done:
		return context.Canceled
	}
}

// Stop останавливает цикл, задачи в очереди отбрасываются
func (l *Loop) Stop() {
	l.once.Do(func() {
		close(l.done)
		l.mu.Lock()
		l.queue = nil
		l.mu.Unlock()
	})
}

// Done закрывается после остановки цикла
func (l *Loop) Done() <-chan struct{} {
	return l.done
}

// Immediate выполняет задачи сразу в вызывающей горутине. Используется в тестах.
type Immediate struct{}

// Post выполняет fn синхронно
func (Immediate) Post(fn func()) bool {
	fn()
	return true
}
