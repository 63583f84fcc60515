package wbf

import (
	"errors"
	"fmt"
)

// ErrorKind represents the category of a fatal decode error
type ErrorKind int

const (
	// ErrKindMalformedHeader indicates a short buffer or an out of range info offset
	ErrKindMalformedHeader ErrorKind = iota
	// ErrKindUnknownMode indicates a mode index outside the known set
	ErrKindUnknownMode
	// ErrKindAddressTableFull indicates more distinct waveform addresses than capacity
	ErrKindAddressTableFull
	// ErrKindTruncated indicates a table or waveform read past the end of the buffer
	ErrKindTruncated
	// ErrKindStrict indicates a warning promoted to an error by strict mode
	ErrKindStrict
)

// Sentinel errors for use with errors.Is
var (
	ErrMalformedHeader  = errors.New("malformed header")
	ErrUnknownMode      = errors.New("unknown mode")
	ErrAddressTableFull = errors.New("address table full")
	ErrTruncated        = errors.New("truncated data")
	ErrStrict           = errors.New("strict mode violation")
)

// String returns a human-readable name for the error kind
func (k ErrorKind) String() string {
	switch k {
	case ErrKindMalformedHeader:
		return "Malformed Header"
	case ErrKindUnknownMode:
		return "Unknown Mode"
	case ErrKindAddressTableFull:
		return "Address Table Full"
	case ErrKindTruncated:
		return "Truncated"
	case ErrKindStrict:
		return "Strict Mode"
	default:
		return fmt.Sprintf("ErrorKind(%d)", k)
	}
}

func (k ErrorKind) sentinel() error {
	switch k {
	case ErrKindMalformedHeader:
		return ErrMalformedHeader
	case ErrKindUnknownMode:
		return ErrUnknownMode
	case ErrKindAddressTableFull:
		return ErrAddressTableFull
	case ErrKindTruncated:
		return ErrTruncated
	case ErrKindStrict:
		return ErrStrict
	default:
		return nil
	}
}

// DecodeError is a fatal error raised while decoding a waveform file
type DecodeError struct {
	Kind     ErrorKind // Category of error
	Message  string    // Human-readable description
	Offset   int       // Byte offset the error refers to (-1 if not applicable)
	Expected int64     // Expected value or bound (if applicable)
	Actual   int64     // Actual value found (if applicable)
	Err      error     // Underlying error (if any)
}

// Error implements the error interface
func (e *DecodeError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Message)
	if e.Offset >= 0 {
		msg += fmt.Sprintf(" at offset 0x%x", e.Offset)
	}
	if e.Expected != 0 || e.Actual != 0 {
		msg += fmt.Sprintf(" (expected %d, got %d)", e.Expected, e.Actual)
	}
	if e.Err != nil {
		msg += fmt.Sprintf(": %v", e.Err)
	}
	return msg
}

// Unwrap returns the underlying error for error chain inspection
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is reports whether target is the sentinel for this error's kind
func (e *DecodeError) Is(target error) bool {
	return target != nil && target == e.Kind.sentinel()
}

func newMalformedHeader(message string, offset int, expected, actual int64) *DecodeError {
	return &DecodeError{
		Kind:     ErrKindMalformedHeader,
		Message:  message,
		Offset:   offset,
		Expected: expected,
		Actual:   actual,
	}
}

func newTruncated(what string, offset, need, have int) *DecodeError {
	return &DecodeError{
		Kind:     ErrKindTruncated,
		Message:  fmt.Sprintf("%s extends past end of data", what),
		Offset:   offset,
		Expected: int64(need),
		Actual:   int64(have),
	}
}

// KindOf extracts the ErrorKind from err if it wraps a *DecodeError
func KindOf(err error) (ErrorKind, bool) {
	var decErr *DecodeError
	if errors.As(err, &decErr) {
		return decErr.Kind, true
	}
	return 0, false
}

// IsMalformedHeader checks if the error is a malformed header error
func IsMalformedHeader(err error) bool {
	return errors.Is(err, ErrMalformedHeader)
}

// IsUnknownMode checks if the error is an unknown mode error
func IsUnknownMode(err error) bool {
	return errors.Is(err, ErrUnknownMode)
}

// IsAddressTableFull checks if the error is an address table overflow
func IsAddressTableFull(err error) bool {
	return errors.Is(err, ErrAddressTableFull)
}

// IsTruncated checks if the error is a read past the end of the buffer
func IsTruncated(err error) bool {
	return errors.Is(err, ErrTruncated)
}

// IsStrict checks if the error is a warning promoted by strict mode
func IsStrict(err error) bool {
	return errors.Is(err, ErrStrict)
}

// WarningKind represents the category of a non-fatal decode fault
type WarningKind int

const (
	// WarnChecksumFault indicates a pointer record whose checksum does not match
	WarnChecksumFault WarningKind = iota
	// WarnFileSizeMismatch indicates the on-disk size differs from the header
	WarnFileSizeMismatch
)

// String returns a human-readable name for the warning kind
func (k WarningKind) String() string {
	switch k {
	case WarnChecksumFault:
		return "Checksum Fault"
	case WarnFileSizeMismatch:
		return "File Size Mismatch"
	default:
		return fmt.Sprintf("WarningKind(%d)", k)
	}
}

// Warning is a non-fatal fault collected during decoding
type Warning struct {
	Kind     WarningKind
	Offset   int    // Byte offset of the faulty record (-1 if not applicable)
	Expected int64  // Expected value (computed checksum, declared size)
	Actual   int64  // Value found in the data
	Message  string // Context, e.g. "mode GC16 range 3"
}

// String returns a human-readable representation of the warning
func (w Warning) String() string {
	if w.Offset >= 0 {
		return fmt.Sprintf("%s: %s at offset 0x%x (expected %d, got %d)",
			w.Kind, w.Message, w.Offset, w.Expected, w.Actual)
	}
	return fmt.Sprintf("%s: %s (expected %d, got %d)", w.Kind, w.Message, w.Expected, w.Actual)
}

// Hint returns troubleshooting advice for a decode error
func Hint(err error) []string {
	kind, ok := KindOf(err)
	if !ok {
		return []string{"Check that the file exists and is readable"}
	}

	switch kind {
	case ErrKindMalformedHeader:
		return []string{
			"The file is shorter than a WBF header or its info offset is invalid",
			"Verify the file is a waveform binary and not a compressed archive",
			"Compare the file size with the size reported by the vendor",
		}
	case ErrKindUnknownMode:
		return []string{
			"The header declares more update modes than are known",
			"The file may use an undocumented header variant",
		}
	case ErrKindAddressTableFull:
		return []string{
			"The file references more distinct waveforms than the table holds",
			"Raise max_waveforms in the config file or pass --max-waveforms",
		}
	case ErrKindTruncated:
		return []string{
			"A pointer or waveform points past the end of the file",
			"The file may be truncated; check the download or dump",
		}
	case ErrKindStrict:
		return []string{
			"Strict mode treats checksum faults and size mismatches as fatal",
			"Run without --strict to decode anyway and inspect the warnings",
		}
	default:
		return nil
	}
}
