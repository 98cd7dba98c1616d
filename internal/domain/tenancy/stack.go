package tenancy

// Package tenancy models nested partner/store impersonation and derives the
// effective partner and store every tenant-scoped call is filtered by.

import (
	"errors"
	"fmt"

	domainauth "github.com/target/pos-console/internal/domain/auth"
)

// MaxDepth is the deepest impersonation supported: partner, then store.
const MaxDepth = 2

// Level identifies the kind of an impersonation frame.
type Level uint8

const (
	// LevelPartner frames carry a partner-scoped credential pair.
	LevelPartner Level = iota + 1
	// LevelStore frames carry a store-scoped credential pair.
	LevelStore
)

func (l Level) String() string {
	switch l {
	case LevelPartner:
		return "partner"
	case LevelStore:
		return "store"
	default:
		return fmt.Sprintf("level(%d)", uint8(l))
	}
}

var (
	// ErrAlreadyImpersonating is returned when a partner frame is pushed onto a non-empty stack.
	ErrAlreadyImpersonating = errors.New("already impersonating; exit first")
	// ErrStoreFrameExists is returned when a second store frame would be pushed.
	ErrStoreFrameExists = errors.New("store impersonation already active")
	// ErrMissingPartnerFrame is returned when a store frame has no partner to sit on.
	ErrMissingPartnerFrame = errors.New("store impersonation requires a partner context")
	// ErrEmptyStack is returned by Pop on an empty stack.
	ErrEmptyStack = errors.New("impersonation stack is empty")
	// ErrInvalidFrame is returned when a frame is malformed.
	ErrInvalidFrame = errors.New("invalid impersonation frame")
)

// Frame is one impersonation level. Saved holds the credential pair that was
// active right before the frame was pushed; popping the frame reinstates it.
type Frame struct {
	Level   Level                     `json:"level"`
	Partner domainauth.PartnerRef     `json:"partner"`
	Store   *domainauth.StoreRef      `json:"store,omitempty"`
	Saved   domainauth.CredentialPair `json:"saved"`
	// Anchored marks a store frame that sits directly on the principal's own
	// partner (tenant admins entering their own stores).
	Anchored bool `json:"anchored,omitempty"`
}

func (f Frame) validate() error {
	if f.Partner.ID <= 0 {
		return fmt.Errorf("%w: partner id must be positive", ErrInvalidFrame)
	}
	switch f.Level {
	case LevelPartner:
		if f.Store != nil || f.Anchored {
			return fmt.Errorf("%w: partner frame carries store data", ErrInvalidFrame)
		}
	case LevelStore:
		if f.Store == nil || f.Store.ID <= 0 {
			return fmt.Errorf("%w: store frame without store", ErrInvalidFrame)
		}
	default:
		return fmt.Errorf("%w: unknown level %d", ErrInvalidFrame, f.Level)
	}
	if f.Saved.IsZero() {
		return fmt.Errorf("%w: %s frame has no saved credentials", ErrInvalidFrame, f.Level)
	}
	return nil
}

// Stack is a fixed-size impersonation stack. The zero value is empty (Base).
// Stack is a value type; copies are independent.
type Stack struct {
	frames [MaxDepth]Frame
	depth  int
}

// Depth returns the number of frames on the stack.
func (s Stack) Depth() int { return s.depth }

// Empty reports whether no impersonation is active.
func (s Stack) Empty() bool { return s.depth == 0 }

// Peek returns the top frame.
func (s Stack) Peek() (Frame, bool) {
	if s.depth == 0 {
		return Frame{}, false
	}
	return s.frames[s.depth-1], true
}

// PartnerFrame returns the partner frame, if any.
func (s Stack) PartnerFrame() (Frame, bool) {
	if s.depth > 0 && s.frames[0].Level == LevelPartner {
		return s.frames[0], true
	}
	return Frame{}, false
}

// StoreFrame returns the store frame, if any.
func (s Stack) StoreFrame() (Frame, bool) {
	top, ok := s.Peek()
	if ok && top.Level == LevelStore {
		return top, true
	}
	return Frame{}, false
}

// Frames returns a copy of the frames, bottom first.
func (s Stack) Frames() []Frame {
	out := make([]Frame, s.depth)
	copy(out, s.frames[:s.depth])
	for i := range out {
		out[i].Store = domainauth.CloneStore(out[i].Store)
	}
	return out
}

// PushPartner pushes a partner frame. Only valid on an empty stack.
func (s *Stack) PushPartner(partner domainauth.PartnerRef, saved domainauth.CredentialPair) error {
	if s.depth != 0 {
		return ErrAlreadyImpersonating
	}
	f := Frame{Level: LevelPartner, Partner: partner, Saved: saved}
	if err := f.validate(); err != nil {
		return err
	}
	s.frames[0] = f
	s.depth = 1
	return nil
}

// PushStore pushes a store frame. On an empty stack the frame must be
// anchored on the caller's own partner; otherwise it sits on the partner frame
// and partner must match it.
func (s *Stack) PushStore(
	partner domainauth.PartnerRef,
	store domainauth.StoreRef,
	saved domainauth.CredentialPair,
	anchored bool,
) error {
	if _, ok := s.StoreFrame(); ok {
		return ErrStoreFrameExists
	}
	switch {
	case s.depth == 0 && !anchored:
		return ErrMissingPartnerFrame
	case s.depth == 1 && anchored:
		return fmt.Errorf("%w: anchored store frame above a partner frame", ErrInvalidFrame)
	case s.depth == 1 && s.frames[0].Partner.ID != partner.ID:
		return fmt.Errorf("%w: store frame partner %d does not match %d",
			ErrInvalidFrame, partner.ID, s.frames[0].Partner.ID)
	}
	f := Frame{Level: LevelStore, Partner: partner, Store: &store, Saved: saved, Anchored: anchored}
	if err := f.validate(); err != nil {
		return err
	}
	s.frames[s.depth] = f
	s.depth++
	return nil
}

// Pop removes and returns the top frame.
func (s *Stack) Pop() (Frame, error) {
	if s.depth == 0 {
		return Frame{}, ErrEmptyStack
	}
	s.depth--
	f := s.frames[s.depth]
	s.frames[s.depth] = Frame{}
	return f, nil
}

// Bottom returns the lowest frame; its Saved pair is the pre-impersonation
// credential pair.
func (s Stack) Bottom() (Frame, bool) {
	if s.depth == 0 {
		return Frame{}, false
	}
	return s.frames[0], true
}

// StackOf rebuilds a stack from frames (bottom first), enforcing the same
// rules as the push operations.
func StackOf(frames ...Frame) (Stack, error) {
	var s Stack
	if len(frames) > MaxDepth {
		return Stack{}, fmt.Errorf("%w: %d frames exceeds depth %d", ErrInvalidFrame, len(frames), MaxDepth)
	}
	for _, f := range frames {
		var err error
		switch f.Level {
		case LevelPartner:
			err = s.PushPartner(f.Partner, f.Saved)
		case LevelStore:
			if f.Store == nil {
				return Stack{}, fmt.Errorf("%w: store frame without store", ErrInvalidFrame)
			}
			err = s.PushStore(f.Partner, *f.Store, f.Saved, f.Anchored)
		default:
			err = fmt.Errorf("%w: unknown level %d", ErrInvalidFrame, f.Level)
		}
		if err != nil {
			return Stack{}, err
		}
	}
	return s, nil
}
