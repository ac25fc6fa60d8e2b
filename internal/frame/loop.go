// Package frame drives the acquire-submit-present cycle over a fixed ring of
// frame slots and decides when the swapchain has to be rebuilt.
package frame

import "github.com/cockroachdb/errors"

// DefaultSlots is the number of frames the CPU may record ahead of the GPU.
const DefaultSlots = 2

// Status is what an acquire or present call reported about the swapchain.
type Status int

const (
	StatusOK Status = iota
	// StatusSuboptimal means the image was acquired or presented, but the
	// swapchain no longer matches the surface exactly.
	StatusSuboptimal
	// StatusOutOfDate means the swapchain can't be used until it is rebuilt.
	StatusOutOfDate
)

func (s Status) String() string {
	switch s {
	case StatusOK:
		return "ok"
	case StatusSuboptimal:
		return "suboptimal"
	case StatusOutOfDate:
		return "out of date"
	}
	return "unknown"
}

// Stale reports whether the swapchain should be rebuilt after this status.
func (s Status) Stale() bool {
	return s == StatusSuboptimal || s == StatusOutOfDate
}

// Target is the set of GPU operations a single frame is made of. Slots index
// the per-frame synchronization objects; images index the swapchain.
type Target interface {
	ImageCount() int

	// WaitSlot blocks until the last submission made from slot has finished.
	WaitSlot(slot int) error
	Acquire(slot int) (image int, status Status, err error)
	ResetSlot(slot int) error
	Record(slot, image int) error
	Submit(slot, image int) error
	Present(slot, image int) (Status, error)

	// Rebuild recreates every swapchain-dependent resource. It returns false
	// when the surface currently has no area and nothing could be built.
	Rebuild() (ready bool, err error)
}

// Loop is the per-frame state machine. It is not safe for concurrent use.
type Loop struct {
	target Target
	slots  int

	current int
	owners  []int
	stale   bool
	frames  uint64
}

func NewLoop(target Target, slots int) (*Loop, error) {
	if target == nil {
		return nil, errors.New("frame: nil target")
	}
	if slots < 1 {
		return nil, errors.Newf("frame: need at least one slot, got %d", slots)
	}

	l := &Loop{
		target: target,
		slots:  slots,
	}
	l.resetOwners()
	return l, nil
}

// Invalidate marks the swapchain stale. The rebuild happens at the start of
// the next Draw.
func (l *Loop) Invalidate() {
	l.stale = true
}

func (l *Loop) Stale() bool    { return l.stale }
func (l *Loop) Current() int   { return l.current }
func (l *Loop) Frames() uint64 { return l.frames }

func (l *Loop) resetOwners() {
	l.owners = make([]int, l.target.ImageCount())
	for i := range l.owners {
		l.owners[i] = -1
	}
}

// Draw runs one iteration: an optional rebuild followed by a full
// acquire-record-submit-present sequence. drawn is false when the frame was
// skipped because the swapchain was unusable.
func (l *Loop) Draw() (drawn bool, err error) {
	if l.stale {
		ready, err := l.target.Rebuild()
		if err != nil {
			return false, errors.Wrap(err, "rebuild swapchain")
		}
		if !ready {
			return false, nil
		}
		l.stale = false
		l.resetOwners()
	}

	slot := l.current
	if err := l.target.WaitSlot(slot); err != nil {
		return false, errors.Wrapf(err, "wait for frame slot %d", slot)
	}

	image, status, err := l.target.Acquire(slot)
	switch {
	case status == StatusOutOfDate:
		// Nothing was submitted from this slot, so its fence stays signaled.
		l.stale = true
		return false, nil
	case status == StatusSuboptimal:
		// The image was still acquired and its semaphore will signal.
		l.stale = true
	case err != nil:
		return false, errors.Wrap(err, "acquire swapchain image")
	}
	if image < 0 || image >= len(l.owners) {
		return false, errors.Newf("acquired image %d outside swapchain of %d images", image, len(l.owners))
	}

	if owner := l.owners[image]; owner >= 0 && owner != slot {
		if err := l.target.WaitSlot(owner); err != nil {
			return false, errors.Wrapf(err, "wait for image %d held by slot %d", image, owner)
		}
	}
	l.owners[image] = slot

	if err := l.target.ResetSlot(slot); err != nil {
		return false, errors.Wrapf(err, "reset frame slot %d", slot)
	}
	if err := l.target.Record(slot, image); err != nil {
		return false, errors.Wrapf(err, "record frame slot %d", slot)
	}
	if err := l.target.Submit(slot, image); err != nil {
		return false, errors.Wrapf(err, "submit frame slot %d", slot)
	}

	status, err = l.target.Present(slot, image)
	if status.Stale() {
		l.stale = true
	} else if err != nil {
		return false, errors.Wrap(err, "present swapchain image")
	}

	l.current = (l.current + 1) % l.slots
	l.frames++
	return true, nil
}
