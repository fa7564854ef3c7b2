package event

import (
	"sync"
	"testing"
)

func TestFireOrdered(t *testing.T) {
	d := &Dispatcher{}
	var got []int
	d.Listen(ProductCreated, func(p interface{}) { got = append(got, 1) })
	d.Listen(ProductCreated, func(p interface{}) { got = append(got, 2) })

	d.Fire(ProductCreated, nil)

	if len(got) != 2 || got[0] != 1 || got[1] != 2 {
		t.Errorf("listeners ran as %v, want [1 2]", got)
	}
}

func TestFirePayload(t *testing.T) {
	d := &Dispatcher{}
	var received interface{}
	d.Listen(ProductUpdated, func(p interface{}) { received = p })

	d.Fire(ProductUpdated, "payload")

	if received != "payload" {
		t.Errorf("payload = %v", received)
	}
}

func TestFireUnknownEventNoop(t *testing.T) {
	d := &Dispatcher{}
	d.Fire("never.registered", nil) // must not panic
}

func TestFireAsync(t *testing.T) {
	d := &Dispatcher{}
	var wg sync.WaitGroup
	wg.Add(2)
	d.Listen(ProductDeleted, func(p interface{}) { wg.Done() })
	d.Listen(ProductDeleted, func(p interface{}) { wg.Done() })

	d.FireAsync(ProductDeleted, nil)
	wg.Wait()
}

func TestFlush(t *testing.T) {
	d := &Dispatcher{}
	called := false
	d.Listen(UserRegistered, func(p interface{}) { called = true })
	d.Flush()

	d.Fire(UserRegistered, nil)

	if called {
		t.Error("listener survived Flush")
	}
}
