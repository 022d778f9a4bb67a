package meshnet

// Store is the durable, single-writer repository of notification and
// address records. Implementations auto-save on every insert and
// mutation; see internal/store for the JSON-file-backed implementation
// the engine is constructed with in production.
type Store interface {
	// InsertNotification upserts by HashedID.
	InsertNotification(n Notification) error

	// FetchByHashedID returns the stored notification, if any.
	FetchByHashedID(id [HashSize]byte) (Notification, bool, error)

	// FetchAllHashedIDs returns every hashedID ever inserted, for
	// populating the in-memory receive set at startup.
	FetchAllHashedIDs() (map[[HashSize]byte]struct{}, error)

	// FetchAllTransmittable returns every notification whose
	// destinationControl has not reached the terminal value.
	FetchAllTransmittable() ([]Notification, error)

	// FetchAllFor returns every notification destined for hashedAddr, to
	// rebuild an inbox view.
	FetchAllFor(hashedAddr [HashSize]byte) ([]Notification, error)

	// SetDestinationControl validates and persists a destinationControl
	// mutation on the stored notification with the given id.
	SetDestinationControl(id [HashSize]byte, dc byte) error

	// SetSequenceNumber validates and persists a sequenceNumber mutation
	// on the stored notification with the given id.
	SetSequenceNumber(id [HashSize]byte, seq byte) error

	// InsertAddress upserts an address record by its hashed form.
	InsertAddress(a Address) error

	// OwnAddress returns the single address record marked IsOwn.
	OwnAddress() (Address, bool, error)

	// Addresses returns every known address, own address included.
	Addresses() ([]Address, error)

	// Size returns the number of notification records held, for metrics.
	Size() (int, error)
}
