package eventloop

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoop_RunsTasksInOrder(t *testing.T) {
	loop := New(8)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	var got []int
	for i := 0; i < 5; i++ {
		i := i
		require.True(t, loop.Post(func() { got = append(got, i) }))
	}
	require.NoError(t, loop.Do(ctx, func() {}))

	assert.Equal(t, []int{0, 1, 2, 3, 4}, got)
}

func TestLoop_PostAfterStop(t *testing.T) {
	loop := New(1)
	loop.Stop()

	assert.False(t, loop.Post(func() {}))
	assert.Error(t, loop.Do(context.Background(), func() {}))
}

func TestLoop_StopsOnContextCancel(t *testing.T) {
	loop := New(1)
	ctx, cancel := context.WithCancel(context.Background())
	go loop.Run(ctx)
	cancel()

	select {
	case <-loop.Done():
	case <-time.After(time.Second):
		t.Fatal("loop did not stop")
	}
}

func TestImmediate_Post(t *testing.T) {
	called := false
	assert.True(t, Immediate{}.Post(func() { called = true }))
	assert.True(t, called)
}

func TestLoop_PostFromLoopBeyondBuffer(t *testing.T) {
	// Подготовка
	loop := New(2)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go loop.Run(ctx)

	const n = 100
	var got []int

	// Действие: задача в цикле ставит в очередь больше задач, чем емкость буфера
	posted := make(chan struct{})
	require.True(t, loop.Post(func() {
		for i := 0; i < n; i++ {
			i := i
			loop.Post(func() { got = append(got, i) })
		}
		close(posted)
	}))

	// Проверки
	select {
	case <-posted:
	case <-time.After(time.Second):
		t.Fatal("Post blocked inside the loop")
	}
	require.NoError(t, loop.Do(ctx, func() {}))
	require.Len(t, got, n)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestLoop_StopDropsQueuedTasks(t *testing.T) {
	loop := New(1)
	called := false
	require.True(t, loop.Post(func() { called = true }))
	loop.Stop()

	loop.Run(context.Background())

	assert.False(t, called)
}
