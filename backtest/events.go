package backtest

// Listener is notified as the engine opens and closes positions. It is
// optional; a nil listener disables notification. During Compare the
// same listener may receive events from concurrent runs, so shared
// implementations must synchronize.
type Listener interface {
	OnOpen(p Position)
	OnClose(t Trade)
}

func (e *Engine) emitOpen(p Position) {
	if e.Listener != nil {
		e.Listener.OnOpen(p)
	}
}

func (e *Engine) emitClose(t Trade) {
	if e.Listener != nil {
		e.Listener.OnClose(t)
	}
}
