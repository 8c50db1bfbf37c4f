package enum

import (
	"database/sql/driver"
	"encoding/json"
)

// SaleStatus represents the status of a sale. A sale becomes Completed at
// settlement and may later transition to Refunded or PartialRefund; the
// refund transition never retroactively mutates session totals.
type SaleStatus int

const (
	SaleStatusCompleted     SaleStatus = 0
	SaleStatusRefunded      SaleStatus = 1
	SaleStatusPartialRefund SaleStatus = 2
)

func (s SaleStatus) String() string {
	names := [...]string{"completed", "refunded", "partial_refund"}
	if int(s) < 0 || int(s) >= len(names) {
		return "completed"
	}
	return names[s]
}

func (s SaleStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.String())
}

func (s *SaleStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		var i int
		if err := json.Unmarshal(data, &i); err != nil {
			return err
		}
		*s = SaleStatus(i)
		return nil
	}
	switch str {
	case "completed":
		*s = SaleStatusCompleted
	case "refunded":
		*s = SaleStatusRefunded
	case "partial_refund":
		*s = SaleStatusPartialRefund
	}
	return nil
}

func (s SaleStatus) Value() (driver.Value, error) {
	return int64(s), nil
}

func (s *SaleStatus) Scan(value interface{}) error {
	if value == nil {
		*s = SaleStatusCompleted
		return nil
	}
	switch v := value.(type) {
	case int64:
		*s = SaleStatus(v)
	case int:
		*s = SaleStatus(v)
	}
	return nil
}
