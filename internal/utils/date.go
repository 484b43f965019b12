package util

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"
)

// LocalDate is a calendar date (no time of day) interpreted in Philippine time.
// JSON form is "2006-01-02"; empty and null decode to the zero value.
type LocalDate struct {
	time.Time
}

const dateLayout = "2006-01-02"

var manilaLocation *time.Location

func init() {
	var err error
	manilaLocation, err = time.LoadLocation("Asia/Manila")
	if err != nil {
		manilaLocation = time.FixedZone("PHT", 8*60*60)
	}
}

func Manila() *time.Location {
	return manilaLocation
}

func ParseLocalDate(s string) (LocalDate, error) {
	t, err := time.ParseInLocation(dateLayout, s, manilaLocation)
	if err != nil {
		return LocalDate{}, err
	}
	return LocalDate{Time: t}, nil
}

func (d *LocalDate) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "" || s == "null" {
		d.Time = time.Time{}
		return nil
	}
	parsed, err := ParseLocalDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func (d LocalDate) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte(`null`), nil
	}
	return []byte(`"` + d.String() + `"`), nil
}

func (d LocalDate) String() string {
	if d.IsZero() {
		return ""
	}
	return d.In(manilaLocation).Format(dateLayout)
}

// AgeOn returns full years elapsed between d and at.
func (d LocalDate) AgeOn(at time.Time) int {
	at = at.In(manilaLocation)
	born := d.In(manilaLocation)
	age := at.Year() - born.Year()
	if at.Month() < born.Month() || (at.Month() == born.Month() && at.Day() < born.Day()) {
		age--
	}
	return age
}

func (d LocalDate) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.In(manilaLocation).Format(dateLayout), nil
}

func (d *LocalDate) Scan(value interface{}) error {
	if value == nil {
		d.Time = time.Time{}
		return nil
	}

	switch v := value.(type) {
	case time.Time:
		d.Time = time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, manilaLocation)
		return nil
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return fmt.Errorf("cannot scan type %T into LocalDate", value)
	}
}

func (d *LocalDate) scanString(s string) error {
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	parsed, err := ParseLocalDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// GormDataType makes AutoMigrate create a DATE column.
func (LocalDate) GormDataType() string {
	return "date"
}
