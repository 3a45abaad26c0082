package frame

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jmylchreest/toastframe/internal/dispatch"
	"github.com/jmylchreest/toastframe/internal/gesture"
	"github.com/jmylchreest/toastframe/internal/model"
)

type harness struct {
	frame *Frame
	tmpl  *fakeTemplate
	clock *dispatch.ManualClock
	log   *eventLog
	rec   *recorder
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	h := &harness{
		tmpl:  newFakeTemplate(),
		clock: dispatch.NewManualClock(time.Unix(0, 0)),
		log:   newEventLog(),
		rec:   newRecorder(),
	}
	h.frame = New(Options{
		Dispatcher: dispatch.NewImmediate(),
		Clock:      h.clock,
		Observer:   h.log,
	})
	require.NoError(t, h.frame.ApplyTemplate(h.tmpl))
	return h
}

func (h *harness) show(t *testing.T, text string) {
	t.Helper()
	require.NoError(t, h.frame.ShowToast(h.rec.toast(text)))
}

func TestNew_DefaultDispatcherRunsTicksOnOwner(t *testing.T) {
	f := New(Options{Settings: Settings{Timeout: 5 * time.Millisecond, HideGap: time.Millisecond}})

	var got []string
	record := func(o model.Outcome, state any) {
		got = append(got, state.(string)+" "+o.String())
	}
	require.NoError(t, f.ShowToast(model.Toast{Text: "first", State: "first", OnHandled: record}))
	require.NoError(t, f.ShowToast(model.Toast{Text: "second", State: "second", OnHandled: record}))

	deadline := time.Now().Add(5 * time.Second)
	for len(got) < 2 && time.Now().Before(deadline) {
		time.Sleep(time.Millisecond)
		_ = f.IsToastVisible()
		_ = f.Pending()
	}
	assert.Equal(t, []string{"first timed_out", "second timed_out"}, got)
	assert.False(t, f.IsToastVisible())

	require.NoError(t, f.ShowInfoToast("after"))
	assert.True(t, f.IsToastVisible())
}

func TestApplyTemplate_StartsHidden(t *testing.T) {
	h := newHarness(t)
	require.NotEmpty(t, h.tmpl.states)
	assert.Equal(t, stateCall{ToastHidden, false}, h.tmpl.states[0])
	assert.Equal(t, []stateCall{{StatusBarHidden, false}}, h.tmpl.statusBar.states)
	assert.False(t, h.frame.IsToastVisible())
}

func TestShowToast_PresentsImmediatelyWhenIdle(t *testing.T) {
	h := newHarness(t)
	h.show(t, "hello")

	assert.True(t, h.frame.IsToastVisible())
	assert.Equal(t, stateCall{ToastVisible, true}, h.tmpl.states[len(h.tmpl.states)-1])
	assert.Equal(t, "hello", h.tmpl.text.text)
	assert.True(t, h.tmpl.normal.visible)
	assert.False(t, h.tmpl.info.visible)
	assert.False(t, h.tmpl.title.visible, "no title row without a title")
	assert.Equal(t, []string{"hello"}, h.log.presented)
}

func TestShowToast_FIFO(t *testing.T) {
	h := newHarness(t)
	for _, text := range []string{"one", "two", "three", "four"} {
		h.show(t, text)
	}
	assert.Equal(t, 3, h.frame.Pending())

	for i := 0; i < 4; i++ {
		h.clock.Advance(DefaultTimeout + DefaultHideGap)
	}

	assert.Equal(t, []string{"one", "two", "three", "four"}, h.log.presented)
	assert.Equal(t, []string{"one", "two", "three", "four"}, h.rec.order)
	assert.False(t, h.frame.IsToastVisible())
	assert.Equal(t, ToastHidden, h.tmpl.lastState())
}

func TestTimeout_FiresAfterExactlyTheConfiguredDuration(t *testing.T) {
	h := newHarness(t)
	h.show(t, "a")

	h.clock.Advance(DefaultTimeout - time.Millisecond)
	assert.Empty(t, h.rec.calls["a"])
	assert.True(t, h.frame.IsToastVisible())

	h.clock.Advance(time.Millisecond)
	require.Len(t, h.rec.calls["a"], 1)
	assert.Equal(t, model.OutcomeTimedOut, h.rec.calls["a"][0].outcome)
	assert.Equal(t, "a-state", h.rec.calls["a"][0].state)
	assert.False(t, h.frame.IsToastVisible())

	h.clock.Advance(time.Minute)
	assert.Len(t, h.rec.calls["a"], 1)
}

func TestOutcome_ExactlyOnce(t *testing.T) {
	h := newHarness(t)
	h.show(t, "a")
	h.show(t, "b")

	h.tmpl.outer.tap()
	h.tmpl.outer.tap()
	h.clock.Advance(DefaultTimeout)

	require.Len(t, h.rec.calls["a"], 1)
	assert.Equal(t, model.OutcomeActivated, h.rec.calls["a"][0].outcome)

	// b was presented after the gap and has been up for 2.75s.
	assert.Empty(t, h.rec.calls["b"])
	h.clock.Advance(DefaultHideGap)
	require.Len(t, h.rec.calls["b"], 1)
	assert.Equal(t, model.OutcomeTimedOut, h.rec.calls["b"][0].outcome)
}

func TestScenario_SecondToastWaitsForFirst(t *testing.T) {
	h := newHarness(t)
	h.show(t, "A")
	h.show(t, "B")

	assert.Equal(t, []string{"A"}, h.log.presented)
	assert.Equal(t, "A", h.tmpl.text.text)

	h.clock.Advance(DefaultTimeout)
	assert.Equal(t, []string{"A"}, h.log.presented, "B waits for the hide gap")
	assert.Equal(t, ToastHidden, h.tmpl.lastState())
	assert.True(t, h.frame.IsToastVisible(), "A holds the slot during the gap")

	h.clock.Advance(DefaultHideGap - time.Millisecond)
	assert.Equal(t, []string{"A"}, h.log.presented)

	h.clock.Advance(time.Millisecond)
	assert.Equal(t, []string{"A", "B"}, h.log.presented)
	assert.Equal(t, "B", h.tmpl.text.text)
	assert.Equal(t, ToastVisible, h.tmpl.lastState())
}

func TestHideToast_IdleIsNoop(t *testing.T) {
	h := newHarness(t)
	before := len(h.tmpl.states)

	require.NoError(t, h.frame.HideToast())
	require.NoError(t, h.frame.ClearAllToasts())

	assert.Len(t, h.tmpl.states, before)
	assert.Empty(t, h.rec.order)
	assert.Empty(t, h.log.cleared)
}

func TestHideToast_IsSilent(t *testing.T) {
	h := newHarness(t)
	h.show(t, "a")
	h.show(t, "b")

	require.NoError(t, h.frame.HideToast())
	assert.Empty(t, h.rec.calls["a"])
	assert.True(t, h.log.vacated["a"], "a left without an outcome")

	h.clock.Advance(DefaultHideGap)
	assert.Equal(t, "b", h.tmpl.text.text)

	// The stopped timeout for a never fires.
	h.clock.Advance(DefaultTimeout - DefaultHideGap)
	assert.Empty(t, h.rec.calls["a"])
}

func TestClearAllToasts(t *testing.T) {
	h := newHarness(t)
	for _, text := range []string{"visible", "p1", "p2", "p3"} {
		h.show(t, text)
	}

	require.NoError(t, h.frame.ClearAllToasts())

	assert.Equal(t, 0, h.frame.Pending())
	assert.False(t, h.frame.IsToastVisible())
	assert.Equal(t, stateCall{ToastHidden, true}, h.tmpl.states[len(h.tmpl.states)-1])
	assert.Equal(t, []int{3}, h.log.cleared)
	assert.Empty(t, h.rec.order, "cleared toasts get no callback")

	h.clock.Advance(time.Minute)
	assert.Equal(t, []string{"visible"}, h.log.presented)
	assert.Empty(t, h.rec.order)
}

func TestClearAllToasts_DuringGap(t *testing.T) {
	h := newHarness(t)
	h.show(t, "a")
	h.show(t, "b")

	h.tmpl.outer.tap()
	require.NoError(t, h.frame.ClearAllToasts())
	h.clock.Advance(DefaultHideGap)

	assert.False(t, h.frame.IsToastVisible())
	assert.Equal(t, []string{"a"}, h.log.presented)
	assert.Equal(t, ToastHidden, h.tmpl.lastState())
}

func TestEnqueueDuringGap_OnlyBuffers(t *testing.T) {
	h := newHarness(t)
	h.show(t, "a")
	h.show(t, "b")
	h.tmpl.outer.tap()

	h.show(t, "c")
	require.NoError(t, h.frame.HideToast(), "hide during the gap is ignored")
	assert.Equal(t, []string{"a"}, h.log.presented)

	h.clock.Advance(DefaultHideGap)
	assert.Equal(t, []string{"a", "b"}, h.log.presented)
	assert.Equal(t, 1, h.frame.Pending())
}

func TestReentrantShowFromCallback(t *testing.T) {
	h := newHarness(t)
	var fired int
	require.NoError(t, h.frame.ShowToast(model.Toast{
		Text: "first",
		OnHandled: func(model.Outcome, any) {
			fired++
			require.NoError(t, h.frame.ShowToast(h.rec.toast("second")))
			require.NoError(t, h.frame.ShowToast(h.rec.toast("third")))
		},
	}))

	h.tmpl.outer.tap()
	assert.Equal(t, 1, fired)
	assert.Equal(t, 2, h.frame.Pending())

	h.clock.Advance(DefaultHideGap)
	assert.Equal(t, []string{"first", "second"}, h.log.presented)

	h.clock.Advance(DefaultTimeout + DefaultHideGap)
	assert.Equal(t, []string{"first", "second", "third"}, h.log.presented)
	assert.Equal(t, 1, fired)
}

func TestReentrantShowFromCallback_WhenQueueEmpty(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.frame.ShowToast(model.Toast{
		Text: "first",
		OnHandled: func(model.Outcome, any) {
			require.NoError(t, h.frame.ShowToast(h.rec.toast("next")))
		},
	}))

	h.clock.Advance(DefaultTimeout)
	assert.True(t, h.frame.IsToastVisible())
	h.clock.Advance(DefaultHideGap)
	assert.Equal(t, []string{"first", "next"}, h.log.presented)
}

func TestHideFromCallback(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.frame.ShowToast(model.Toast{
		Text: "first",
		OnHandled: func(model.Outcome, any) {
			require.NoError(t, h.frame.ClearAllToasts())
		},
	}))
	h.show(t, "dropped")

	h.tmpl.outer.tap()
	h.clock.Advance(time.Minute)

	assert.Equal(t, []string{"first"}, h.log.presented)
	assert.False(t, h.frame.IsToastVisible())
}

func TestInfoToast(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.frame.ShowInfoToast("saved"))

	assert.True(t, h.tmpl.info.visible)
	assert.False(t, h.tmpl.normal.visible)
	assert.Equal(t, "saved", h.tmpl.infoText.text)

	h.tmpl.outer.tap()
	h.tmpl.outer.swipe(gesture.Sample{TranslationX: 200, VelocityX: 3})
	assert.True(t, h.frame.IsToastVisible(), "informational toasts ignore interaction")

	h.clock.Advance(DefaultTimeout)
	assert.False(t, h.frame.IsToastVisible())
}

func TestTitleRow(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.frame.ShowToast(model.Toast{Text: "body", Title: "Heads up"}))
	assert.True(t, h.tmpl.title.visible)
	assert.Equal(t, "Heads up", h.tmpl.title.text)

	require.NoError(t, h.frame.ShowToast(model.Toast{Text: "plain"}))
	h.tmpl.outer.tap()
	h.clock.Advance(DefaultHideGap)
	assert.False(t, h.tmpl.title.visible)
	assert.Equal(t, "plain", h.tmpl.text.text)
}

func TestSwipe_Dismiss(t *testing.T) {
	h := newHarness(t)
	h.show(t, "a")

	h.tmpl.outer.started()
	assert.Equal(t, ToastDragging, h.tmpl.lastState())

	h.tmpl.outer.delta(gesture.Sample{TranslationX: -10})
	assert.Equal(t, 0.0, h.tmpl.outer.offset)
	h.tmpl.outer.delta(gesture.Sample{TranslationX: 60})
	assert.Equal(t, 60.0, h.tmpl.outer.offset)

	h.tmpl.outer.completed(gesture.Sample{TranslationX: 100})
	assert.Equal(t, stateCall{ToastHidden, true}, h.tmpl.states[len(h.tmpl.states)-1])
	assert.Empty(t, h.rec.calls["a"], "dismissal waits for the storyboard")

	h.clock.Advance(time.Minute)
	assert.Empty(t, h.rec.calls["a"], "timeout is suspended by the drag")

	h.tmpl.storyboard.complete()
	require.Len(t, h.rec.calls["a"], 1)
	assert.Equal(t, model.OutcomeDismissed, h.rec.calls["a"][0].outcome)
	assert.False(t, h.frame.IsToastVisible())
}

func TestSwipe_SpringBack(t *testing.T) {
	h := newHarness(t)
	h.show(t, "a")

	h.tmpl.outer.swipe(
		gesture.Sample{TranslationX: 30, VelocityX: 0.5},
		gesture.Sample{TranslationX: 30, VelocityX: 0.5},
	)
	assert.Equal(t, 0.0, h.tmpl.outer.offset)
	assert.Equal(t, stateCall{ToastVisible, true}, h.tmpl.states[len(h.tmpl.states)-1])
	assert.True(t, h.frame.IsToastVisible())

	h.clock.Advance(DefaultTimeout)
	require.Len(t, h.rec.calls["a"], 1)
	assert.Equal(t, model.OutcomeTimedOut, h.rec.calls["a"][0].outcome)
}

func TestDrag_PausesTimeout(t *testing.T) {
	h := newHarness(t)
	h.show(t, "a")
	h.clock.Advance(2 * time.Second)

	h.tmpl.outer.started()
	h.clock.Advance(time.Minute)
	assert.Empty(t, h.rec.calls["a"], "no timeout while dragging")

	h.tmpl.outer.completed(gesture.Sample{TranslationX: 10})
	h.clock.Advance(DefaultTimeout - 2*time.Second - time.Millisecond)
	assert.Empty(t, h.rec.calls["a"])

	h.clock.Advance(time.Millisecond)
	require.Len(t, h.rec.calls["a"], 1, "spring back resumes the time that was left")
	assert.Equal(t, model.OutcomeTimedOut, h.rec.calls["a"][0].outcome)
}

func TestSwipe_FastShortSwipeDismisses(t *testing.T) {
	h := newHarness(t)
	h.show(t, "a")
	h.tmpl.outer.swipe(gesture.Sample{TranslationX: 30, VelocityX: 1.5})
	h.tmpl.storyboard.complete()

	require.Len(t, h.rec.calls["a"], 1)
	assert.Equal(t, model.OutcomeDismissed, h.rec.calls["a"][0].outcome)
}

func TestStaleStoryboardDoesNotDismissNextToast(t *testing.T) {
	h := newHarness(t)
	h.show(t, "a")
	h.show(t, "b")

	h.tmpl.outer.swipe(gesture.Sample{TranslationX: 120})
	require.NoError(t, h.frame.HideToast())
	h.clock.Advance(DefaultHideGap)
	require.Equal(t, "b", h.tmpl.text.text)

	h.tmpl.storyboard.complete()
	assert.Empty(t, h.rec.calls["a"])
	assert.Empty(t, h.rec.calls["b"])
	assert.True(t, h.frame.IsToastVisible())
}

func TestTapDuringDragIsIgnored(t *testing.T) {
	h := newHarness(t)
	h.show(t, "a")

	h.tmpl.outer.started()
	h.tmpl.outer.tap()
	assert.Empty(t, h.rec.calls["a"])
}

func TestMissingParts(t *testing.T) {
	clock := dispatch.NewManualClock(time.Unix(0, 0))
	f := New(Options{Clock: clock})
	surface := &fakeTemplate{parts: map[string]any{
		PartToastText: "not a text element",
	}}
	require.NoError(t, f.ApplyTemplate(surface))

	var got []model.Outcome
	require.NoError(t, f.ShowToast(model.Toast{
		Text:      "x",
		Title:     "y",
		OnHandled: func(o model.Outcome, _ any) { got = append(got, o) },
	}))
	assert.Equal(t, ToastVisible, surface.lastState())

	clock.Advance(DefaultTimeout)
	assert.Equal(t, []model.Outcome{model.OutcomeTimedOut}, got)

	require.NoError(t, f.StatusBar().SetOpen(true))
	assert.True(t, f.StatusBar().IsOpen())
}

func TestDismissWithoutStoryboardReportsImmediately(t *testing.T) {
	h := newHarness(t)
	delete(h.tmpl.parts, PartDraggingToHiddenStoryboard)
	require.NoError(t, h.frame.ApplyTemplate(h.tmpl))

	h.show(t, "a")
	h.tmpl.outer.swipe(gesture.Sample{TranslationX: 95})
	require.Len(t, h.rec.calls["a"], 1)
	assert.Equal(t, model.OutcomeDismissed, h.rec.calls["a"][0].outcome)
}

func TestNoTemplate(t *testing.T) {
	clock := dispatch.NewManualClock(time.Unix(0, 0))
	f := New(Options{Clock: clock})

	require.NoError(t, f.ShowInfoToast("headless"))
	assert.True(t, f.IsToastVisible())
	clock.Advance(DefaultTimeout)
	assert.False(t, f.IsToastVisible())
}

func TestConfigure(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.frame.Configure(Settings{
		Timeout:    time.Second,
		HideGap:    100 * time.Millisecond,
		Thresholds: gesture.Thresholds{SwipeSpeed: 1, SwipeDistance: 10, MinSwipeDistance: 1},
	}))
	assert.Equal(t, time.Second, h.frame.Settings().Timeout)

	h.show(t, "a")
	h.show(t, "b")
	h.clock.Advance(time.Second + 100*time.Millisecond)
	assert.Equal(t, []string{"a", "b"}, h.log.presented)

	h.tmpl.outer.swipe(gesture.Sample{TranslationX: 11})
	h.tmpl.storyboard.complete()
	require.Len(t, h.rec.calls["b"], 1)
	assert.Equal(t, model.OutcomeDismissed, h.rec.calls["b"][0].outcome)

	require.NoError(t, h.frame.Configure(Settings{}))
	assert.Equal(t, DefaultTimeout, h.frame.Settings().Timeout)
	assert.Equal(t, gesture.DefaultThresholds(), h.frame.Settings().Thresholds)
}

func TestOffContextCallsFail(t *testing.T) {
	f := New(Options{Dispatcher: denyDispatcher{}})

	checks := map[string]error{
		"show toast":      f.ShowToast(model.Toast{Text: "x"}),
		"show info toast": f.ShowInfoToast("x"),
		"hide toast":      f.HideToast(),
		"clear":           f.ClearAllToasts(),
		"apply template":  f.ApplyTemplate(newFakeTemplate()),
		"configure":       f.Configure(Settings{}),
		"status open":     f.StatusBar().SetOpen(true),
		"status progress": f.StatusBar().SetProgress(0.5),
	}
	for name, err := range checks {
		assert.ErrorIs(t, err, ErrInvalidOperation, name)
		var opErr *OperationError
		assert.ErrorAs(t, err, &opErr, name)
	}
	assert.False(t, f.IsToastVisible())
}

func TestOffContextCallsFail_Loop(t *testing.T) {
	loop := dispatch.NewLoop(nil)
	f := New(Options{Dispatcher: loop})

	err := f.ShowToast(model.Toast{Text: "x"})
	require.ErrorIs(t, err, ErrInvalidOperation)
	assert.Equal(t, "show toast: "+ErrInvalidOperation.Error(), err.Error())
}

func TestObserverSeesVacatedAndHandled(t *testing.T) {
	h := newHarness(t)
	h.show(t, "tapped")
	h.tmpl.outer.tap()

	assert.Equal(t, map[string]bool{"tapped": false}, h.log.vacated)
	assert.Equal(t, 1, h.log.queued)
}
