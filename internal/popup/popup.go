// Package popup decides when the lead capture dialog is shown: once per
// visitor and variant, after a delay.
package popup

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/hemafield/lead-capture/internal/entity"
)

const (
	DefaultDelay = 3 * time.Second
	WidgetDelay  = 2 * time.Second

	seenValue = "true"
)

var ErrNotVisible = errors.New("popup is not visible")

type Variant string

const (
	VariantDiscount  Variant = "discount"
	VariantValentine Variant = "valentine"
)

// Campaign is the tag leads from this variant are filed under.
func (v Variant) Campaign() entity.Campaign {
	if v == VariantValentine {
		return entity.CampaignValentine
	}
	return entity.CampaignDiscount
}

// StorageKey is the key that marks the variant as seen.
func StorageKey(v Variant) string {
	return "hema-popup-" + string(v)
}

// Reset forgets a dismissal so the popup shows again on the next mount.
func Reset(store Store, v Variant) error {
	return store.Delete(StorageKey(v))
}

type State int

const (
	Hidden State = iota
	Pending
	Visible
	Dismissed
)

func (s State) String() string {
	switch s {
	case Hidden:
		return "hidden"
	case Pending:
		return "pending"
	case Visible:
		return "visible"
	case Dismissed:
		return "dismissed"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

type DismissReason int

const (
	ReasonClosed DismissReason = iota
	ReasonSubmitted
)

type Popup struct {
	variant  Variant
	delay    time.Duration
	store    Store
	notifier Notifier

	mu        sync.Mutex
	state     State
	// notifyMu is taken before mu is released so events leave in the same
	// order as the transitions that caused them.
	notifyMu  sync.Mutex
	mounted   bool
	unmounted bool
	timer     *time.Timer
}

// New builds a popup for variant. notifier may be nil. Notify must not call
// back into the popup.
func New(variant Variant, delay time.Duration, store Store, notifier Notifier) *Popup {
	if notifier == nil {
		notifier = NotifierFunc(func(Event) {})
	}
	return &Popup{
		variant:  variant,
		delay:    delay,
		store:    store,
		notifier: notifier,
	}
}

func (p *Popup) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Popup) Variant() Variant {
	return p.variant
}

// Mount starts the display timer. Mounting twice, or after Unmount, does
// nothing.
func (p *Popup) Mount() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.mounted || p.unmounted {
		return
	}
	p.mounted = true
	p.state = Pending
	p.timer = time.AfterFunc(p.delay, p.fire)
}

func (p *Popup) fire() {
	p.mu.Lock()
	if p.unmounted || p.state != Pending {
		p.mu.Unlock()
		return
	}

	if _, seen := p.store.Get(StorageKey(p.variant)); seen {
		p.state = Hidden
		p.mu.Unlock()
		return
	}

	p.state = Visible
	p.notifyMu.Lock()
	p.mu.Unlock()

	p.notifier.Notify(EventActive)
	p.notifyMu.Unlock()
}

// Dismiss closes a visible popup and remembers it for this visitor.
func (p *Popup) Dismiss(reason DismissReason) error {
	p.mu.Lock()
	if p.state != Visible {
		p.mu.Unlock()
		return ErrNotVisible
	}
	p.state = Dismissed
	p.notifyMu.Lock()
	p.mu.Unlock()

	err := p.store.Set(StorageKey(p.variant), seenValue)
	p.notifier.Notify(EventClosed)
	p.notifyMu.Unlock()
	if err != nil {
		return fmt.Errorf("remember dismissal: %w", err)
	}
	return nil
}

// Unmount cancels a pending timer. No transition happens afterwards.
func (p *Popup) Unmount() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.unmounted = true
	if p.timer != nil {
		p.timer.Stop()
	}
	if p.state == Pending {
		p.state = Hidden
	}
}
