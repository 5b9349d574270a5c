package jobs

import (
	"context"
	"time"
)

// SetSleep подменяет ожидание между попытками
func (w *Worker) SetSleep(fn func(ctx context.Context, d time.Duration)) {
	w.sleep = fn
}

// Enqueue ставит задание в очередь так же, как расписание
func (w *Worker) Enqueue(ctx context.Context, trigger string) {
	w.enqueue(ctx, trigger)
}

// Tick выполняет один шаг расписания в момент now
func (w *Worker) Tick(ctx context.Context, now time.Time) {
	w.tick(ctx, now)
}
