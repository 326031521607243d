package event

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Meta is the schema-less payload attached to an event. Values are whatever
// JSON decoding produces (string, float64, bool, nil, nested containers);
// consumers look up the keys they know and skip everything else.
type Meta map[string]any

// GetString returns the value under key only when it is a string.
// A missing key and a non-string value look the same to the caller.
func (m Meta) GetString(key string) (string, bool) {
	if m == nil {
		return "", false
	}
	v, ok := m[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Value implements driver.Valuer so Meta round-trips through a jsonb column.
func (m Meta) Value() (driver.Value, error) {
	if m == nil {
		return nil, nil
	}
	return json.Marshal(m)
}

func (m *Meta) Scan(src any) error {
	if src == nil {
		*m = nil
		return nil
	}
	switch v := src.(type) {
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("unsupported meta column type %T", src)
	}
}

type Event struct {
	ID        uuid.UUID `db:"id" json:"id"`
	EventType string    `db:"event_type" json:"eventType"`
	UserID    *string   `db:"user_id" json:"userId,omitempty"`
	DeviceID  *string   `db:"device_id" json:"deviceId,omitempty"`
	Path      *string   `db:"path" json:"path,omitempty"`
	Meta      Meta      `db:"meta" json:"meta,omitempty"`
	Timestamp time.Time `db:"timestamp" json:"timestamp"`
}

const (
	EventTypePageView      = "page_view"
	EventTypeSearch        = "search"
	EventTypeClick         = "click"
	EventTypeErrorCodeView = "error_code_view"
)

// Meta keys the aggregation layer reads. Anything else in the payload
// (labels, prices, free-form context) passes through untouched.
const (
	MetaKeyCode      = "code"
	MetaKeyBrand     = "brand"
	MetaKeyErrorCode = "errorCode"
)

func NewEvent(eventType string, userID, deviceID, path *string, meta Meta) *Event {
	return &Event{
		ID:        uuid.New(),
		EventType: eventType,
		UserID:    userID,
		DeviceID:  deviceID,
		Path:      path,
		Meta:      meta,
		Timestamp: time.Now().UTC(),
	}
}

func (e *Event) Validate() error {
	if e.EventType == "" {
		return ErrInvalidEventType
	}
	if e.ID == uuid.Nil {
		return ErrInvalidEventID
	}
	if e.Timestamp.IsZero() {
		return ErrInvalidTimestamp
	}
	return nil
}

// PartitionKey picks the Kafka message key. Events of one principal go to
// one partition; anonymous events fall back to the device, then the event id.
func (e *Event) PartitionKey() string {
	if e.UserID != nil && *e.UserID != "" {
		return *e.UserID
	}
	if e.DeviceID != nil && *e.DeviceID != "" {
		return *e.DeviceID
	}
	return e.ID.String()
}
