package chunk

import "time"

// ActiveChunkState is an immutable snapshot of the active chunk's state at append time.
// It contains all information needed to make rotation decisions without IO or mutation.
//
// This struct is safe to copy and pass by value. All fields are derived from
// already-known state; no file paths, file descriptors, locks, or manager pointers.
type ActiveChunkState struct {
	// ChunkID is the unique identifier of the active chunk.
	ChunkID ChunkID

	// StartTS is the WriteTS of the first record in the chunk.
	// Zero if no records have been written yet.
	StartTS time.Time

	// LastWriteTS is the WriteTS of the most recent record in the chunk.
	// Zero if no records have been written yet.
	LastWriteTS time.Time

	// CreatedAt is the wall-clock time when the chunk was opened.
	CreatedAt time.Time

	// Bytes is the total on-disk bytes written so far (across all files).
	// This reflects actual on-disk growth: raw payload + attribute blob + idx entry overhead.
	Bytes uint64

	// Records is the number of records appended so far.
	Records uint64
}

// RotationPolicy determines when a chunk should be rotated.
// Policies are pure functions: no IO, no locks, no mutation, no global state.
//
// The ShouldRotate method is called before each append with the current chunk
// state and the record about to be written. If it returns a non-nil trigger
// name, the current chunk is sealed and a new chunk is opened before the
// record is appended; the name is logged as the rotation reason.
type RotationPolicy interface {
	// ShouldRotate returns the trigger name if the chunk should be rotated
	// before appending the given record, or nil to leave it open. The state
	// represents the current chunk state, and next is the record about to be
	// written.
	//
	// Policies must be pure functions that make decisions based solely on the
	// provided state and record. They must not perform IO or access global state.
	ShouldRotate(state ActiveChunkState, next Record) *string
}

// trigger wraps a rotation trigger name for return from ShouldRotate.
func trigger(name string) *string {
	return &name
}

// RotationPolicyFunc is an adapter to allow ordinary functions to be used as RotationPolicy.
type RotationPolicyFunc func(state ActiveChunkState, next Record) *string

func (f RotationPolicyFunc) ShouldRotate(state ActiveChunkState, next Record) *string {
	return f(state, next)
}

// CompositePolicy combines multiple policies with OR semantics.
// The chunk is rotated if any policy triggers; the first trigger wins.
type CompositePolicy struct {
	policies []RotationPolicy
}

// NewCompositePolicy creates a policy that triggers rotation if any sub-policy triggers.
func NewCompositePolicy(policies ...RotationPolicy) *CompositePolicy {
	return &CompositePolicy{policies: policies}
}

func (c *CompositePolicy) ShouldRotate(state ActiveChunkState, next Record) *string {
	for _, p := range c.policies {
		if t := p.ShouldRotate(state, next); t != nil {
			return t
		}
	}
	return nil
}

// SizePolicy triggers rotation when total bytes would exceed maxBytes.
// This is a soft limit that checks the projected size after appending.
type SizePolicy struct {
	maxBytes uint64
}

// NewSizePolicy creates a policy that rotates when chunk size exceeds maxBytes.
// The size includes all on-disk data: raw payload, attribute blob, and idx entry overhead.
func NewSizePolicy(maxBytes uint64) *SizePolicy {
	return &SizePolicy{maxBytes: maxBytes}
}

func (p *SizePolicy) ShouldRotate(state ActiveChunkState, next Record) *string {
	if p.maxBytes == 0 {
		return nil
	}
	// Calculate projected size after this record
	projectedBytes := state.Bytes + recordOnDiskSize(next)
	if projectedBytes > p.maxBytes {
		return trigger("size")
	}
	return nil
}

// RecordCountPolicy triggers rotation when record count would exceed maxRecords.
type RecordCountPolicy struct {
	maxRecords uint64
}

// NewRecordCountPolicy creates a policy that rotates when record count exceeds maxRecords.
func NewRecordCountPolicy(maxRecords uint64) *RecordCountPolicy {
	return &RecordCountPolicy{maxRecords: maxRecords}
}

func (p *RecordCountPolicy) ShouldRotate(state ActiveChunkState, next Record) *string {
	if p.maxRecords == 0 {
		return nil
	}
	// Including this record would exceed the limit
	if state.Records+1 > p.maxRecords {
		return trigger("records")
	}
	return nil
}

// AgePolicy triggers rotation when chunk age exceeds maxAge.
// Age is measured from CreatedAt (wall-clock time when chunk was opened).
type AgePolicy struct {
	maxAge time.Duration
	now    func() time.Time
}

// NewAgePolicy creates a policy that rotates when chunk age exceeds maxAge.
// The now function is used to get the current time; if nil, time.Now is used.
func NewAgePolicy(maxAge time.Duration, now func() time.Time) *AgePolicy {
	if now == nil {
		now = time.Now
	}
	return &AgePolicy{maxAge: maxAge, now: now}
}

func (p *AgePolicy) ShouldRotate(state ActiveChunkState, next Record) *string {
	if p.maxAge == 0 {
		return nil
	}
	if state.CreatedAt.IsZero() {
		return nil
	}
	if p.now().Sub(state.CreatedAt) > p.maxAge {
		return trigger("age")
	}
	return nil
}

// NeverRotatePolicy is a policy that never triggers rotation.
// Useful for testing or when rotation is managed externally.
type NeverRotatePolicy struct{}

func (NeverRotatePolicy) ShouldRotate(state ActiveChunkState, next Record) *string {
	return nil
}

// AlwaysRotatePolicy is a policy that always triggers rotation.
// Useful for testing.
type AlwaysRotatePolicy struct{}

func (AlwaysRotatePolicy) ShouldRotate(state ActiveChunkState, next Record) *string {
	return trigger("always")
}

// idxEntrySize is the fixed per-record index entry overhead.
const idxEntrySize = 30

// recordOnDiskSize calculates the total stored bytes for a single record:
// raw payload, encoded attributes, and a fixed per-record index entry.
func recordOnDiskSize(r Record) uint64 {
	attrBytes, _ := r.Attrs.Encode()
	return uint64(len(r.Raw)) + uint64(len(attrBytes)) + idxEntrySize
}

// RecordOnDiskSize returns the total on-disk bytes for a record.
// This is useful for pre-calculating rotation decisions.
func RecordOnDiskSize(r Record) uint64 {
	return recordOnDiskSize(r)
}
