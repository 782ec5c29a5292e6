package location

// State is the lifecycle of a resolver's remote synchronization.
type State int

const (
	Uninitialized State = iota
	LocalLoaded
	RemoteSyncing
	RemoteSynced
	RemoteSyncFailed
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "Uninitialized"
	case LocalLoaded:
		return "LocalLoaded"
	case RemoteSyncing:
		return "RemoteSyncing"
	case RemoteSynced:
		return "RemoteSynced"
	case RemoteSyncFailed:
		return "RemoteSyncFailed"
	default:
		return "Unknown"
	}
}
