package tenancy

// State is the impersonation state derived from a Stack.
type State int

const (
	// Base means no impersonation is active.
	Base State = iota
	// ImpersonatingPartner means a partner frame is the top frame.
	ImpersonatingPartner
	// ImpersonatingPartnerAndStore means a store frame is the top frame.
	ImpersonatingPartnerAndStore
)

func (s State) String() string {
	switch s {
	case Base:
		return "base"
	case ImpersonatingPartner:
		return "impersonating-partner"
	case ImpersonatingPartnerAndStore:
		return "impersonating-partner-and-store"
	default:
		return "unknown"
	}
}

// State derives the impersonation state. An anchored store frame reports
// ImpersonatingPartnerAndStore because the caller's own partner fills the
// partner level.
func (s Stack) State() State {
	top, ok := s.Peek()
	if !ok {
		return Base
	}
	if top.Level == LevelStore {
		return ImpersonatingPartnerAndStore
	}
	return ImpersonatingPartner
}
