package session

import (
	"sync"

	"github.com/google/uuid"
)

type ToastKind string

const (
	ToastSuccess ToastKind = "success"
	ToastError   ToastKind = "error"
	ToastInfo    ToastKind = "info"
)

type Toast struct {
	ID      string    `json:"id"`
	Kind    ToastKind `json:"kind"`
	Message string    `json:"message"`
}

type Toasts struct {
	mu    sync.Mutex
	queue []Toast
}

func (t *Toasts) Push(kind ToastKind, message string) string {
	toast := Toast{ID: uuid.NewString(), Kind: kind, Message: message}
	t.mu.Lock()
	t.queue = append(t.queue, toast)
	t.mu.Unlock()
	return toast.ID
}

func (t *Toasts) Dismiss(id string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for i := range t.queue {
		if t.queue[i].ID == id {
			t.queue = append(t.queue[:i], t.queue[i+1:]...)
			return
		}
	}
}

// Active returns the toasts in the order they were pushed.
func (t *Toasts) Active() []Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Toast, len(t.queue))
	copy(out, t.queue)
	return out
}
