package providers

import (
	_ "embed"
	"fmt"
	"os"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v2"
)

// The central-bank meeting tables are maintained by hand from the
// banks' published multi-year schedules. The embedded copy ships with
// the binary; an external file can override it without a rebuild.
//
//go:embed data/meetings.yaml
var embeddedMeetings []byte

// FOMCMeeting is one scheduled FOMC meeting. The decision date is the
// second day of two-day meetings. Minutes default to three weeks after
// the decision unless an explicit date overrides them (the Fed moves
// releases that would land on a holiday).
type FOMCMeeting struct {
	Date            string `yaml:"date" validate:"required,datetime=2006-01-02"`
	PressConference bool   `yaml:"press_conference"`
	Projections     bool   `yaml:"projections"`
	Minutes         string `yaml:"minutes" validate:"omitempty,datetime=2006-01-02"`
}

// ECBMeeting is one scheduled ECB monetary policy meeting.
type ECBMeeting struct {
	Date string `yaml:"date" validate:"required,datetime=2006-01-02"`
}

// BOEMeeting is one scheduled Bank of England MPC meeting. MPR marks
// the quarterly meetings that publish a Monetary Policy Report.
type BOEMeeting struct {
	Date string `yaml:"date" validate:"required,datetime=2006-01-02"`
	MPR  bool   `yaml:"mpr"`
}

// MeetingCalendar holds every hand-maintained central-bank schedule.
type MeetingCalendar struct {
	FOMC []FOMCMeeting `yaml:"fomc" validate:"required,min=1,dive"`
	ECB  []ECBMeeting  `yaml:"ecb" validate:"required,min=1,dive"`
	BOE  []BOEMeeting  `yaml:"boe" validate:"required,min=1,dive"`
}

var meetingValidator = validator.New()

// LoadMeetingCalendar loads and validates a meeting calendar. An empty
// path loads the embedded table.
func LoadMeetingCalendar(path string) (*MeetingCalendar, error) {
	data := embeddedMeetings
	if path != "" {
		var err error
		data, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read meeting calendar: %w", err)
		}
	}

	var cal MeetingCalendar
	if err := yaml.Unmarshal(data, &cal); err != nil {
		return nil, fmt.Errorf("parse meeting calendar: %w", err)
	}

	if err := meetingValidator.Struct(&cal); err != nil {
		return nil, fmt.Errorf("validate meeting calendar: %w", err)
	}

	return &cal, nil
}

// DefaultMeetingCalendar loads the embedded meeting tables.
func DefaultMeetingCalendar() (*MeetingCalendar, error) {
	return LoadMeetingCalendar("")
}
