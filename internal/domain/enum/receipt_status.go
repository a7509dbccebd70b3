package enum

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"strings"
)

// ReceiptStatus is the processing stage of a receipt.
// The happy path is Processing -> Generated -> Sent -> Stored; Failed is
// reachable from any non-terminal stage.
type ReceiptStatus int

const (
	ReceiptStatusProcessing ReceiptStatus = 0
	ReceiptStatusGenerated  ReceiptStatus = 1
	ReceiptStatusSent       ReceiptStatus = 2
	ReceiptStatusStored     ReceiptStatus = 3
	ReceiptStatusFailed     ReceiptStatus = 4
)

// StatusAll is the filter sentinel that matches every status
const StatusAll = "all"

var receiptStatusNames = [...]string{"processing", "generated", "sent", "stored", "failed"}

// ReceiptStatuses lists every status in workflow order
var ReceiptStatuses = []ReceiptStatus{
	ReceiptStatusProcessing,
	ReceiptStatusGenerated,
	ReceiptStatusSent,
	ReceiptStatusStored,
	ReceiptStatusFailed,
}

func (s ReceiptStatus) String() string {
	if int(s) < 0 || int(s) >= len(receiptStatusNames) {
		return "unknown"
	}
	return receiptStatusNames[s]
}

// Label is the workflow step caption shown in the dashboard
func (s ReceiptStatus) Label() string {
	switch s {
	case ReceiptStatusProcessing:
		return "Processing"
	case ReceiptStatusGenerated:
		return "PDF Generated"
	case ReceiptStatusSent:
		return "Email Sent"
	case ReceiptStatusStored:
		return "Stored in Cloud"
	case ReceiptStatusFailed:
		return "Failed"
	}
	return "Unknown"
}

// IsTerminal reports whether no further workflow step follows
func (s ReceiptStatus) IsTerminal() bool {
	return s == ReceiptStatusStored || s == ReceiptStatusFailed
}

// IsDelivered reports whether the customer e-mail has gone out
func (s ReceiptStatus) IsDelivered() bool {
	return s == ReceiptStatusSent || s == ReceiptStatusStored
}

// CanTransitionTo reports whether next may follow s.
// Failed -> Processing is only used to retry the same order.
func (s ReceiptStatus) CanTransitionTo(next ReceiptStatus) bool {
	switch {
	case next == ReceiptStatusFailed:
		return !s.IsTerminal()
	case s == ReceiptStatusFailed:
		return next == ReceiptStatusProcessing
	case s.IsTerminal():
		return false
	default:
		return next == s+1
	}
}

// ParseReceiptStatus parses a lowercase status name
func ParseReceiptStatus(str string) (ReceiptStatus, error) {
	str = strings.ToLower(strings.TrimSpace(str))
	for i, name := range receiptStatusNames {
		if name == str {
			return ReceiptStatus(i), nil
		}
	}
	return 0, fmt.Errorf("unknown receipt status %q", str)
}

func (s ReceiptStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *ReceiptStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = ReceiptStatus(i)
		return nil
	}
	parsed, err := ParseReceiptStatus(str)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

func (s ReceiptStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *ReceiptStatus) Scan(value interface{}) error {
	if value == nil {
		*s = ReceiptStatusProcessing
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = ReceiptStatus(v)
	case int:
		*s = ReceiptStatus(v)
	}
	return nil
}
