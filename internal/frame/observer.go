package frame

import "github.com/jmylchreest/toastframe/internal/model"

// Observer is notified of queue activity. Methods run on the UI context and
// must not block.
type Observer interface {
	// ToastQueued is called after r was appended; pending includes r.
	ToastQueued(r *model.Request, pending int)
	// ToastPresented is called when r becomes the visible toast.
	ToastPresented(r *model.Request, pending int)
	// ToastHandled is called once per request that receives an outcome.
	ToastHandled(r *model.Request, outcome model.Outcome)
	// ToastVacated is called when r leaves the visible slot. silent is true
	// when it left without an outcome.
	ToastVacated(r *model.Request, silent bool)
	// QueueCleared is called when ClearAllToasts dropped pending requests.
	QueueCleared(discarded int)
}

// NopObserver ignores every notification. Embed it to implement a subset.
type NopObserver struct{}

func (NopObserver) ToastQueued(*model.Request, int)            {}
func (NopObserver) ToastPresented(*model.Request, int)         {}
func (NopObserver) ToastHandled(*model.Request, model.Outcome) {}
func (NopObserver) ToastVacated(*model.Request, bool)          {}
func (NopObserver) QueueCleared(int)                           {}

type observers []Observer

// Observers fans notifications out to each non-nil observer in order.
func Observers(obs ...Observer) Observer {
	var out observers
	for _, o := range obs {
		if o != nil {
			out = append(out, o)
		}
	}
	return out
}

func (os observers) ToastQueued(r *model.Request, pending int) {
	for _, o := range os {
		o.ToastQueued(r, pending)
	}
}

func (os observers) ToastPresented(r *model.Request, pending int) {
	for _, o := range os {
		o.ToastPresented(r, pending)
	}
}

func (os observers) ToastHandled(r *model.Request, outcome model.Outcome) {
	for _, o := range os {
		o.ToastHandled(r, outcome)
	}
}

func (os observers) ToastVacated(r *model.Request, silent bool) {
	for _, o := range os {
		o.ToastVacated(r, silent)
	}
}

func (os observers) QueueCleared(discarded int) {
	for _, o := range os {
		o.QueueCleared(discarded)
	}
}
